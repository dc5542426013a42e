// Package localcart maintains the guest shopper's cart in durable local
// storage, independent of any network call. It is the authoritative cart
// source while the shopper is unauthenticated.
package localcart

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/shopspring/decimal"

	"marketplace-cart/internal/domain"
	"marketplace-cart/internal/kvstore"
)

// storageKey is the single durable key holding the serialized line list.
const storageKey = "guest_cart_items"

// Store is the guest cart. All operations load, mutate and persist the full
// line collection as one step under a mutex, so rapid repeated actions
// serialize against the persisted snapshot and no update is lost.
type Store struct {
	mu sync.Mutex
	kv kvstore.Store
}

func New(kv kvstore.Store) *Store {
	return &Store{kv: kv}
}

// Items returns the persisted lines in insertion order. A missing key means
// an empty cart, not an error.
func (s *Store) Items(ctx context.Context) ([]domain.GuestLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx)
}

// AddItem merges by SKU code: an existing line's quantity is incremented by
// item.Quantity, otherwise the line is appended. Non-positive quantities are
// dropped silently rather than surfaced (user-correctable input, never an
// error at this layer). No upper bound is enforced here; stock limits are the
// backend's call at checkout time.
func (s *Store) AddItem(ctx context.Context, item domain.GuestLine) error {
	if item.Quantity <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	lines, err := s.load(ctx)
	if err != nil {
		return err
	}
	merged := false
	for i := range lines {
		if lines[i].SKUCode == item.SKUCode {
			lines[i].Quantity += item.Quantity
			lines[i].UnitPrice = item.UnitPrice
			merged = true
			break
		}
	}
	if !merged {
		lines = append(lines, item)
	}
	return s.persist(ctx, lines)
}

// RemoveItem deletes the line matching skuCode. Removing an absent line is a
// no-op.
func (s *Store) RemoveItem(ctx context.Context, skuCode string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines, err := s.load(ctx)
	if err != nil {
		return err
	}
	kept := lines[:0]
	for _, line := range lines {
		if line.SKUCode != skuCode {
			kept = append(kept, line)
		}
	}
	return s.persist(ctx, kept)
}

// RemoveItems deletes every line whose SKU code appears in skuCodes. Used by
// the login merge to clear exactly the lines the backend confirmed.
func (s *Store) RemoveItems(ctx context.Context, skuCodes []string) error {
	if len(skuCodes) == 0 {
		return nil
	}
	drop := make(map[string]struct{}, len(skuCodes))
	for _, code := range skuCodes {
		drop[code] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	lines, err := s.load(ctx)
	if err != nil {
		return err
	}
	kept := lines[:0]
	for _, line := range lines {
		if _, ok := drop[line.SKUCode]; !ok {
			kept = append(kept, line)
		}
	}
	return s.persist(ctx, kept)
}

// UpdateItemQuantity sets the quantity exactly (not additive). A quantity of
// zero or below removes the line; a non-positive quantity is never persisted.
func (s *Store) UpdateItemQuantity(ctx context.Context, skuCode string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines, err := s.load(ctx)
	if err != nil {
		return err
	}
	if quantity <= 0 {
		kept := lines[:0]
		for _, line := range lines {
			if line.SKUCode != skuCode {
				kept = append(kept, line)
			}
		}
		return s.persist(ctx, kept)
	}
	for i := range lines {
		if lines[i].SKUCode == skuCode {
			lines[i].Quantity = quantity
			break
		}
	}
	return s.persist(ctx, lines)
}

// Clear empties the cart. Used after a successful guest checkout.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.kv.Delete(ctx, storageKey)
}

// Total sums unit price times quantity over all lines with fixed-point
// arithmetic. Unparsable prices contribute zero.
func (s *Store) Total(ctx context.Context) (decimal.Decimal, error) {
	lines, err := s.Items(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, line := range lines {
		price := domain.ParsePrice(line.UnitPrice)
		total = total.Add(price.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total, nil
}

// Count sums quantities over all lines.
func (s *Store) Count(ctx context.Context) (int, error) {
	lines, err := s.Items(ctx)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, line := range lines {
		count += line.Quantity
	}
	return count, nil
}

func (s *Store) load(ctx context.Context) ([]domain.GuestLine, error) {
	raw, err := s.kv.Get(ctx, storageKey)
	if err != nil {
		if errors.Is(err, kvstore.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}
	var lines []domain.GuestLine
	if err := json.Unmarshal(raw, &lines); err != nil {
		// A corrupt persisted blob must not crash the cart; start fresh.
		return nil, nil
	}
	return lines, nil
}

func (s *Store) persist(ctx context.Context, lines []domain.GuestLine) error {
	raw, err := json.Marshal(lines)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, storageKey, raw)
}
