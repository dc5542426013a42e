// Package checkout assembles and submits the checkout payload for whichever
// regime is active, and clears the right cart once the backend confirms.
package checkout

import (
	"context"
	"errors"
	"strings"

	"marketplace-cart/internal/domain"
	"marketplace-cart/internal/remotecart"
	"marketplace-cart/internal/session"
)

// Payment methods accepted by the backend.
const (
	PaymentStripe = "stripe"
	PaymentCOD    = "cod"
)

// Submitter is the slice of the gateway checkout needs.
type Submitter interface {
	Checkout(ctx context.Context, req remotecart.CheckoutRequest) (*remotecart.CheckoutResponse, error)
}

// GuestDetails carries the contact fields and inline address a guest
// checkout requires.
type GuestDetails struct {
	Email   string
	Name    string
	Phone   string
	Address remotecart.ShippingAddress
}

// Options are the knobs common to both regimes.
type Options struct {
	PaymentMethod string
	CouponCode    string
	// AddressID selects a stored address; authenticated checkout only.
	AddressID string
}

// Result is what the shopper does next: follow a payment redirect, or hold
// an order id created immediately (cash on delivery).
type Result struct {
	OrderID     string
	RedirectURL string
	Status      string
}

// Service drives checkout against the active cart source.
type Service struct {
	session *session.Manager
	client  Submitter
}

func New(sess *session.Manager, client Submitter) *Service {
	return &Service{session: sess, client: client}
}

// Submit validates and sends the checkout. Guest checkout drains the local
// cart into the payload and clears it only after the backend confirms; the
// authenticated cart is cleared server-side as part of order creation, so no
// client-side clear happens on that path.
func (s *Service) Submit(ctx context.Context, guest *GuestDetails, opts Options) (*Result, error) {
	method := strings.TrimSpace(opts.PaymentMethod)
	if method != PaymentStripe && method != PaymentCOD {
		return nil, errors.New("invalid payment method")
	}

	var req remotecart.CheckoutRequest
	if s.session.Authenticated() {
		if strings.TrimSpace(opts.AddressID) == "" {
			return nil, errors.New("address required")
		}
		req = remotecart.CheckoutRequest{
			AddressID:     opts.AddressID,
			PaymentMethod: method,
			CouponCode:    opts.CouponCode,
		}
	} else {
		if guest == nil || strings.TrimSpace(guest.Email) == "" {
			return nil, errors.New("guest email required")
		}
		lines, err := s.session.Local().Items(ctx)
		if err != nil {
			return nil, err
		}
		if len(lines) == 0 {
			return nil, domain.ErrEmptyCart
		}
		items := make([]remotecart.CheckoutItem, 0, len(lines))
		for _, line := range lines {
			items = append(items, remotecart.CheckoutItem{SKUID: line.SKUID, Quantity: line.Quantity})
		}
		addr := guest.Address
		req = remotecart.CheckoutRequest{
			IsGuest:         true,
			GuestEmail:      guest.Email,
			GuestName:       guest.Name,
			GuestPhone:      guest.Phone,
			Items:           items,
			ShippingAddress: &addr,
			PaymentMethod:   method,
			CouponCode:      opts.CouponCode,
		}
	}

	resp, err := s.client.Checkout(ctx, req)
	if err != nil {
		return nil, err
	}

	if req.IsGuest {
		// Clear only after confirmation; a failed checkout must leave the
		// guest cart untouched.
		if err := s.session.Local().Clear(ctx); err != nil {
			return nil, err
		}
	}

	return &Result{
		OrderID:     resp.OrderID,
		RedirectURL: resp.RedirectURL,
		Status:      resp.Status,
	}, nil
}
