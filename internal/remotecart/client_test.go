package remotecart

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"marketplace-cart/internal/domain"
)

type staticTokens struct {
	token string
}

func (s staticTokens) Token(context.Context) (string, error) {
	return s.token, nil
}

func newTestClient(t *testing.T, handler http.Handler, token string) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	client, err := New(Config{BaseURL: srv.URL, Tokens: staticTokens{token: token}})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

func TestNewRequiresBaseURL(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Fatal("expected error for empty base URL")
	}
}

func TestGetDecodesCart(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/cart" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
			t.Fatalf("unexpected auth header: %q", got)
		}
		json.NewEncoder(w).Encode(domain.RemoteCart{
			ID: "cart-1",
			Items: []domain.RemoteLine{
				{ID: "item-1", SKUID: "sku-a", Quantity: 2, UnitPrice: "9.99"},
			},
		})
	})
	client := newTestClient(t, handler, "tok-1")

	cart, err := client.Get(context.Background())
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if cart.ID != "cart-1" || len(cart.Items) != 1 || cart.Items[0].UnitPrice != "9.99" {
		t.Fatalf("unexpected cart: %+v", cart)
	}
}

func TestAddItemSendsPayload(t *testing.T) {
	var got addRequest
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/cart/add" {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	})
	client := newTestClient(t, handler, "tok-1")

	if err := client.AddItem(context.Background(), "sku-a", 3); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if got.SKUID != "sku-a" || got.Quantity != 3 {
		t.Fatalf("unexpected payload: %+v", got)
	}
}

func TestUpdateAndRemoveSendItemID(t *testing.T) {
	paths := map[string]string{}
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		json.NewDecoder(r.Body).Decode(&body)
		paths[r.URL.Path], _ = body["item_id"].(string)
		w.WriteHeader(http.StatusOK)
	})
	client := newTestClient(t, handler, "tok-1")

	if err := client.UpdateItem(context.Background(), "item-9", 4); err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := client.RemoveItem(context.Background(), "item-9"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if paths["/cart/update"] != "item-9" || paths["/cart/remove"] != "item-9" {
		t.Fatalf("unexpected payloads: %+v", paths)
	}
}

func TestNotFoundMapsToSentinel(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Item not found"})
	})
	client := newTestClient(t, handler, "tok-1")

	err := client.RemoveItem(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUnauthorizedMapsToSentinel(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	client := newTestClient(t, handler, "")

	_, err := client.Get(context.Background())
	if !errors.Is(err, domain.ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestAPIErrorKeepsDetail(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Only 2 units available"})
	})
	client := newTestClient(t, handler, "tok-1")

	err := client.AddItem(context.Background(), "sku-a", 5)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusBadRequest || apiErr.Detail != "Only 2 units available" {
		t.Fatalf("unexpected error: %+v", apiErr)
	}
}

func TestGuestCheckoutSkipsAuthHeader(t *testing.T) {
	var gotAuth string
	var gotReq CheckoutRequest
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotReq)
		json.NewEncoder(w).Encode(CheckoutResponse{OrderID: "order-1", Status: "pending"})
	})
	client := newTestClient(t, handler, "")

	resp, err := client.Checkout(context.Background(), CheckoutRequest{
		IsGuest:       true,
		GuestEmail:    "shopper@example.com",
		Items:         []CheckoutItem{{SKUID: "sku-a", Quantity: 1}},
		PaymentMethod: "cod",
	})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("expected no auth header, got %q", gotAuth)
	}
	if !gotReq.IsGuest || len(gotReq.Items) != 1 {
		t.Fatalf("unexpected request: %+v", gotReq)
	}
	if resp.OrderID != "order-1" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}
