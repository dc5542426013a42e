// Package store persists the backend's carts, catalog slice and orders. It
// backs the reference implementation of the cart API the engine consumes.
package store

import (
	"context"
	"time"

	"marketplace-cart/internal/domain"
)

// SKU is the purchasable variant the backend sells, with the denormalized
// display fields cart responses carry.
type SKU struct {
	ID          string
	Code        string
	ProductID   string
	ProductName string
	VendorName  string
	ImageURL    string
	// Price is a decimal string, matching the wire format.
	Price  string
	Stock  int
	Active bool
}

// Order is the record created at checkout. Guest orders have an empty
// UserID and carry contact fields instead.
type Order struct {
	ID            string
	UserID        string
	GuestEmail    string
	GuestName     string
	GuestPhone    string
	Status        string
	PaymentMethod string
	// Total is a decimal string.
	Total     string
	Currency  string
	CreatedAt time.Time
}

// OrderItemInput references a SKU and quantity at order creation.
type OrderItemInput struct {
	SKUID    string
	Quantity int
}

// CreateOrderInput covers both checkout regimes. For authenticated checkout
// Items is empty and the user's cart supplies the lines; for guest checkout
// Items carries the payload lines directly.
type CreateOrderInput struct {
	UserID        string
	GuestEmail    string
	GuestName     string
	GuestPhone    string
	Items         []OrderItemInput
	PaymentMethod string
}

// Store is the backend persistence contract. Carts are keyed by an opaque
// user id; cart line identity is the server-assigned item id.
type Store interface {
	GetSKU(ctx context.Context, skuID string) (*SKU, error)
	GetCart(ctx context.Context, userID string) (*domain.RemoteCart, error)
	// AddItem merges by SKU: an existing line's quantity is incremented.
	// Returns domain.ErrInsufficientStock when the resulting quantity
	// exceeds available stock.
	AddItem(ctx context.Context, userID, skuID string, quantity int) error
	// UpdateItem sets the quantity exactly; zero or below deletes the line.
	UpdateItem(ctx context.Context, userID, itemID string, quantity int) error
	RemoveItem(ctx context.Context, userID, itemID string) error
	ClearCart(ctx context.Context, userID string) error
	// CreateOrder validates stock, writes the order with its items,
	// decrements stock, and empties the user's cart for authenticated
	// checkouts.
	CreateOrder(ctx context.Context, in CreateOrderInput) (*Order, error)
}
