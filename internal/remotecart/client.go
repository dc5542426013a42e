// Package remotecart is the gateway to the server-authoritative cart. It
// only consumes the backend contract; stock reservation and concurrency
// control stay on the server side.
//
// Mutating calls deliberately return no cart state: the contract is submit,
// await confirmation, then refetch through Get, so the two-phase ordering
// stays visible at every call site instead of hiding behind a cache layer.
package remotecart

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"marketplace-cart/internal/domain"
)

// TokenSource supplies the bearer token for authenticated calls. An empty
// token means the request goes out unauthenticated (guest checkout).
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Config holds gateway settings.
type Config struct {
	BaseURL    string
	Tokens     TokenSource
	HTTPClient *http.Client
}

// Client talks to the backend cart API.
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
}

// New builds a gateway client. BaseURL is required; the HTTP client defaults
// to a 15 second timeout when not provided.
func New(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return nil, errors.New("base URL required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		tokens:     cfg.Tokens,
		httpClient: httpClient,
	}, nil
}

// APIError is a non-2xx response from the backend, preserved for display as
// a transient failure notice.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("cart api: %s (status %d)", e.Detail, e.StatusCode)
	}
	return fmt.Sprintf("cart api: status %d", e.StatusCode)
}

// Get fetches the current remote cart.
func (c *Client) Get(ctx context.Context) (*domain.RemoteCart, error) {
	var cart domain.RemoteCart
	if err := c.do(ctx, http.MethodGet, "/cart", nil, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

type addRequest struct {
	SKUID    string `json:"sku_id"`
	Quantity int    `json:"quantity"`
}

// AddItem adds or increments a remote line by SKU id.
func (c *Client) AddItem(ctx context.Context, skuID string, quantity int) error {
	return c.do(ctx, http.MethodPost, "/cart/add", addRequest{SKUID: skuID, Quantity: quantity}, nil)
}

type updateRequest struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

// UpdateItem sets a remote line's quantity by server-assigned item id.
func (c *Client) UpdateItem(ctx context.Context, itemID string, quantity int) error {
	return c.do(ctx, http.MethodPost, "/cart/update", updateRequest{ItemID: itemID, Quantity: quantity}, nil)
}

type removeRequest struct {
	ItemID string `json:"item_id"`
}

// RemoveItem deletes a remote line by server-assigned item id.
func (c *Client) RemoveItem(ctx context.Context, itemID string) error {
	return c.do(ctx, http.MethodPost, "/cart/remove", removeRequest{ItemID: itemID}, nil)
}

// Clear empties the remote cart.
func (c *Client) Clear(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/cart/clear", nil, nil)
}

// CheckoutItem is a guest checkout line reference.
type CheckoutItem struct {
	SKUID    string `json:"sku_id"`
	Quantity int    `json:"quantity"`
}

// ShippingAddress is the inline address carried by a guest checkout payload.
type ShippingAddress struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state,omitempty"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// CheckoutRequest covers both regimes: authenticated checkout references a
// stored address, guest checkout carries contact fields, an inline address
// and the local cart's items.
type CheckoutRequest struct {
	IsGuest         bool             `json:"is_guest,omitempty"`
	GuestEmail      string           `json:"guest_email,omitempty"`
	GuestName       string           `json:"guest_name,omitempty"`
	GuestPhone      string           `json:"guest_phone,omitempty"`
	Items           []CheckoutItem   `json:"items,omitempty"`
	AddressID       string           `json:"address_id,omitempty"`
	ShippingAddress *ShippingAddress `json:"shipping_address,omitempty"`
	PaymentMethod   string           `json:"payment_method"`
	CouponCode      string           `json:"coupon_code,omitempty"`
}

// CheckoutResponse is either an order created immediately (cash on delivery)
// or a redirect into an external payment flow.
type CheckoutResponse struct {
	OrderID     string `json:"order_id,omitempty"`
	Status      string `json:"status,omitempty"`
	RedirectURL string `json:"redirect_url,omitempty"`
}

// Checkout submits a checkout payload.
func (c *Client) Checkout(ctx context.Context, req CheckoutRequest) (*CheckoutResponse, error) {
	var resp CheckoutResponse
	if err := c.do(ctx, http.MethodPost, "/checkout", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return err
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.apiError(resp)
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *Client) apiError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		apiErr.Detail = body.Detail
	}
	switch resp.StatusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, apiErr.Error())
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", domain.ErrUnauthenticated, apiErr.Error())
	}
	return apiErr
}
