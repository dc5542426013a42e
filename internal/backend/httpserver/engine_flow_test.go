package httpserver

import (
	"context"
	"log"
	"net/http/httptest"
	"os"
	"testing"

	"marketplace-cart/internal/backend/store"
	"marketplace-cart/internal/checkout"
	"marketplace-cart/internal/domain"
	"marketplace-cart/internal/kvstore"
	"marketplace-cart/internal/localcart"
	"marketplace-cart/internal/remotecart"
	"marketplace-cart/internal/session"
)

// Full loop: guest browsing, login merge, authenticated mutations and
// checkout, all through the real HTTP surface.
func TestGuestToAuthenticatedFlow(t *testing.T) {
	ctx := context.Background()
	logger := log.New(os.Stdout, "[test] ", log.LstdFlags)
	st := store.NewMemory([]store.SKU{
		{ID: "sku-1", Code: "TSHIRT-M", ProductID: "p1", ProductName: "Plain Tee", VendorName: "Acme", Price: "19.99", Stock: 10, Active: true},
		{ID: "sku-2", Code: "MUG-L", ProductID: "p2", ProductName: "Big Mug", VendorName: "Acme", Price: "5.50", Stock: 8, Active: true},
	})
	srv := httptest.NewServer(buildRouter(logger, nil, Deps{Store: st, PaymentURLBase: "https://payments.example.com/session/"}))
	defer srv.Close()

	kv := kvstore.NewMemory()
	local := localcart.New(kv)

	var sess *session.Manager
	gateway, err := remotecart.New(remotecart.Config{
		BaseURL: srv.URL,
		Tokens:  tokenFunc(func() string { return mustToken(sess) }),
	})
	if err != nil {
		t.Fatalf("new gateway: %v", err)
	}
	sess = session.New(kv, local, gateway)

	// Guest shopping stays local.
	if err := sess.AddItem(ctx, domain.GuestLine{SKUCode: "TSHIRT-M", SKUID: "sku-1", UnitPrice: "19.99", Quantity: 2}); err != nil {
		t.Fatalf("guest add: %v", err)
	}
	if err := sess.AddItem(ctx, domain.GuestLine{SKUCode: "MUG-L", SKUID: "sku-2", UnitPrice: "5.50", Quantity: 1}); err != nil {
		t.Fatalf("guest add: %v", err)
	}
	snap, err := sess.Snapshot(ctx)
	if err != nil {
		t.Fatalf("guest snapshot: %v", err)
	}
	if snap.Subtotal != "45.48" || snap.Count != 3 {
		t.Fatalf("unexpected guest snapshot: %+v", snap)
	}

	// Login merges the guest lines into the server cart and clears local.
	out, err := sess.Login(ctx, domain.TokenPair{Access: "user-7", Refresh: "refresh-7"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !out.Complete() {
		t.Fatalf("expected complete merge, got %+v", out)
	}
	items, _ := local.Items(ctx)
	if len(items) != 0 {
		t.Fatalf("expected empty local cart, got %+v", items)
	}

	snap, err = sess.Snapshot(ctx)
	if err != nil {
		t.Fatalf("authenticated snapshot: %v", err)
	}
	if snap.Subtotal != "45.48" || snap.Count != 3 {
		t.Fatalf("merge changed the total: %+v", snap)
	}
	if snap.Items[0].Origin != domain.OriginRemote || snap.Items[0].SKUCode != "TSHIRT-M" {
		t.Fatalf("unexpected remote line: %+v", snap.Items[0])
	}

	// Authenticated mutation goes remote, then the refreshed projection
	// reflects server truth.
	if err := sess.UpdateQuantity(ctx, snap.Items[1].ItemID, 4); err != nil {
		t.Fatalf("update: %v", err)
	}
	snap, err = sess.Snapshot(ctx)
	if err != nil {
		t.Fatalf("refetch snapshot: %v", err)
	}
	if snap.Count != 6 || snap.Subtotal != "61.98" {
		t.Fatalf("unexpected snapshot after update: %+v", snap)
	}

	// Checkout with a stored address clears the server cart.
	svc := checkout.New(sess, gateway)
	res, err := svc.Submit(ctx, nil, checkout.Options{PaymentMethod: checkout.PaymentCOD, AddressID: "addr-1"})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if res.OrderID == "" {
		t.Fatalf("expected order id, got %+v", res)
	}
	snap, err = sess.Snapshot(ctx)
	if err != nil {
		t.Fatalf("post-checkout snapshot: %v", err)
	}
	if snap.Count != 0 {
		t.Fatalf("expected empty cart after checkout, got %+v", snap)
	}
}

func TestGuestCheckoutFlow(t *testing.T) {
	ctx := context.Background()
	logger := log.New(os.Stdout, "[test] ", log.LstdFlags)
	st := store.NewMemory([]store.SKU{
		{ID: "sku-1", Code: "TSHIRT-M", ProductID: "p1", ProductName: "Plain Tee", Price: "19.99", Stock: 10, Active: true},
	})
	srv := httptest.NewServer(buildRouter(logger, nil, Deps{Store: st, PaymentURLBase: "https://payments.example.com/session/"}))
	defer srv.Close()

	kv := kvstore.NewMemory()
	local := localcart.New(kv)
	gateway, err := remotecart.New(remotecart.Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("new gateway: %v", err)
	}
	sess := session.New(kv, local, gateway)

	if err := sess.AddItem(ctx, domain.GuestLine{SKUCode: "TSHIRT-M", SKUID: "sku-1", UnitPrice: "19.99", Quantity: 1}); err != nil {
		t.Fatalf("guest add: %v", err)
	}

	svc := checkout.New(sess, gateway)
	res, err := svc.Submit(ctx, &checkout.GuestDetails{
		Email:   "shopper@example.com",
		Name:    "Sam Shopper",
		Address: remotecart.ShippingAddress{Line1: "1 Main St", City: "Springfield", PostalCode: "12345", Country: "US"},
	}, checkout.Options{PaymentMethod: checkout.PaymentCOD})
	if err != nil {
		t.Fatalf("guest checkout: %v", err)
	}
	if res.OrderID == "" || res.RedirectURL != "" {
		t.Fatalf("unexpected result: %+v", res)
	}

	items, _ := local.Items(ctx)
	if len(items) != 0 {
		t.Fatalf("expected local cart cleared after guest checkout, got %+v", items)
	}
}

type tokenFunc func() string

func (f tokenFunc) Token(context.Context) (string, error) {
	return f(), nil
}

func mustToken(sess *session.Manager) string {
	if sess == nil {
		return ""
	}
	token, _ := sess.Token(context.Background())
	return token
}
