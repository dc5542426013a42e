package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrUnauthenticated indicates an operation that needs a logged-in
	// shopper was attempted in the guest regime.
	ErrUnauthenticated = errors.New("not authenticated")
	// ErrEmptyCart indicates checkout was attempted with nothing to buy.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrInsufficientStock indicates the requested quantity exceeds what
	// the backend is willing to sell.
	ErrInsufficientStock = errors.New("insufficient stock")
)
