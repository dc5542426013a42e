// Package session owns the authentication boundary of the cart: which
// regime is active, where the token pair lives, and the one-shot merge of
// guest state into the server cart when a login succeeds.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"marketplace-cart/internal/domain"
	"marketplace-cart/internal/kvstore"
	"marketplace-cart/internal/localcart"
	"marketplace-cart/internal/projection"
	"marketplace-cart/internal/reconcile"
)

// tokenKey is the durable key holding the serialized access/refresh pair,
// separate from the guest cart key.
const tokenKey = "auth_tokens"

// State is the cart regime. The machine cycles between the two states for
// the life of the session; there is no terminal state.
type State string

const (
	StateGuest         State = "guest"
	StateAuthenticated State = "authenticated"
)

// Gateway is the slice of the remote cart contract the manager consumes.
type Gateway interface {
	Get(ctx context.Context) (*domain.RemoteCart, error)
	AddItem(ctx context.Context, skuID string, quantity int) error
	UpdateItem(ctx context.Context, itemID string, quantity int) error
	RemoveItem(ctx context.Context, itemID string) error
	Clear(ctx context.Context) error
}

// Manager selects the authoritative cart source and fires the reconciliation
// exactly once at each login transition. Exactly one source is authoritative
// at a time: local while guest, remote while authenticated. All cart reads
// and writes go through the manager so no caller can touch the stale side.
type Manager struct {
	kv     kvstore.Store
	local  *localcart.Store
	remote Gateway

	mu     sync.RWMutex
	state  State
	tokens domain.TokenPair
}

// New builds a manager starting in the guest state. Call Restore to pick up
// a previously persisted credential.
func New(kv kvstore.Store, local *localcart.Store, remote Gateway) *Manager {
	return &Manager{
		kv:     kv,
		local:  local,
		remote: remote,
		state:  StateGuest,
	}
}

// Restore loads a persisted token pair, entering the authenticated state
// when one exists. A missing key simply leaves the session in guest mode.
func (m *Manager) Restore(ctx context.Context) error {
	raw, err := m.kv.Get(ctx, tokenKey)
	if err != nil {
		if errors.Is(err, kvstore.ErrKeyNotFound) {
			return nil
		}
		return err
	}
	var pair domain.TokenPair
	if err := json.Unmarshal(raw, &pair); err != nil || pair.Access == "" {
		// A corrupt credential is treated as no credential.
		return nil
	}
	m.mu.Lock()
	m.state = StateAuthenticated
	m.tokens = pair
	m.mu.Unlock()
	return nil
}

// State returns the current regime.
func (m *Manager) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Authenticated reports whether the remote cart is the authoritative source.
func (m *Manager) Authenticated() bool {
	return m.State() == StateAuthenticated
}

// Token implements the gateway's token source. Guest sessions yield an empty
// token so requests go out unauthenticated.
func (m *Manager) Token(context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.tokens.Access, nil
}

// Login persists the credential, flips the authoritative source to remote,
// and merges whatever the guest left in local storage into the server cart.
// Only confirmed lines are removed locally; failed lines survive so nothing
// is silently lost. The session stays authenticated even on a partial merge.
func (m *Manager) Login(ctx context.Context, pair domain.TokenPair) (reconcile.Outcome, error) {
	if pair.Access == "" {
		return reconcile.Outcome{}, errors.New("access token required")
	}
	raw, err := json.Marshal(pair)
	if err != nil {
		return reconcile.Outcome{}, err
	}
	if err := m.kv.Set(ctx, tokenKey, raw); err != nil {
		return reconcile.Outcome{}, err
	}

	m.mu.Lock()
	m.state = StateAuthenticated
	m.tokens = pair
	m.mu.Unlock()

	lines, err := m.local.Items(ctx)
	if err != nil {
		return reconcile.Outcome{}, err
	}
	out := reconcile.MergeLines(ctx, m.remote, lines)
	if len(out.Merged) > 0 {
		if err := m.local.RemoveItems(ctx, out.Merged); err != nil {
			return out, err
		}
	}
	return out, nil
}

// Logout drops the credential and returns to an empty guest cart. No reverse
// merge: the remote cart stays server-side for the next login.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.kv.Delete(ctx, tokenKey); err != nil {
		return err
	}
	if err := m.local.Clear(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	m.state = StateGuest
	m.tokens = domain.TokenPair{}
	m.mu.Unlock()
	return nil
}

// Snapshot projects the authoritative source. In the authenticated regime a
// remote failure surfaces as an error rather than falling back to local
// state, which would violate the single-source invariant.
func (m *Manager) Snapshot(ctx context.Context) (domain.CartSnapshot, error) {
	if m.Authenticated() {
		cart, err := m.remote.Get(ctx)
		if err != nil {
			return domain.CartSnapshot{}, err
		}
		return projection.FromRemote(cart), nil
	}
	lines, err := m.local.Items(ctx)
	if err != nil {
		return domain.CartSnapshot{}, err
	}
	return projection.FromGuest(lines), nil
}

// AddItem routes an add to the active source. Remote adds follow the
// submit-then-refetch contract: the caller refreshes via Snapshot once the
// call confirms.
func (m *Manager) AddItem(ctx context.Context, line domain.GuestLine) error {
	if m.Authenticated() {
		return m.remote.AddItem(ctx, line.SKUID, line.Quantity)
	}
	return m.local.AddItem(ctx, line)
}

// UpdateQuantity sets a line's quantity on the active source. The key is a
// SKU code in the guest regime and a server item id when authenticated; the
// snapshot's line views carry the right one for their origin.
func (m *Manager) UpdateQuantity(ctx context.Context, key string, quantity int) error {
	if m.Authenticated() {
		return m.remote.UpdateItem(ctx, key, quantity)
	}
	return m.local.UpdateItemQuantity(ctx, key, quantity)
}

// RemoveItem deletes a line from the active source, keyed as in
// UpdateQuantity.
func (m *Manager) RemoveItem(ctx context.Context, key string) error {
	if m.Authenticated() {
		return m.remote.RemoveItem(ctx, key)
	}
	return m.local.RemoveItem(ctx, key)
}

// Clear empties the active source.
func (m *Manager) Clear(ctx context.Context) error {
	if m.Authenticated() {
		return m.remote.Clear(ctx)
	}
	return m.local.Clear(ctx)
}

// Local exposes the guest store for checkout payload assembly.
func (m *Manager) Local() *localcart.Store {
	return m.local
}
