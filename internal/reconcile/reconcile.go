// Package reconcile merges guest cart state into the server cart at the
// login boundary. The backend merges quantities by SKU on its side, so one
// add call per guest line is sufficient; this package's job is tracking
// which lines were confirmed so only those get cleared locally.
package reconcile

import (
	"context"
	"errors"

	"marketplace-cart/internal/domain"
)

// RemoteAdder is the one remote operation a merge needs.
type RemoteAdder interface {
	AddItem(ctx context.Context, skuID string, quantity int) error
}

// LineFailure records a guest line the backend refused or the network lost.
type LineFailure struct {
	SKUCode string
	Err     error
}

// Outcome reports which lines made it into the remote cart and which did
// not. Lines in Failed must stay in local storage so nothing is silently
// lost.
type Outcome struct {
	Merged []string
	Failed []LineFailure
}

// Complete reports whether every line was confirmed.
func (o Outcome) Complete() bool {
	return len(o.Failed) == 0
}

// Err aggregates per-line failures, nil when the merge was complete.
func (o Outcome) Err() error {
	if len(o.Failed) == 0 {
		return nil
	}
	errs := make([]error, 0, len(o.Failed))
	for _, f := range o.Failed {
		errs = append(errs, f.Err)
	}
	return errors.Join(errs...)
}

// MergeLines pushes each guest line to the remote cart in insertion order.
// A failed line does not stop the remaining lines from being attempted; a
// cancelled context does.
func MergeLines(ctx context.Context, adder RemoteAdder, lines []domain.GuestLine) Outcome {
	var out Outcome
	for _, line := range lines {
		if err := ctx.Err(); err != nil {
			out.Failed = append(out.Failed, LineFailure{SKUCode: line.SKUCode, Err: err})
			continue
		}
		if err := adder.AddItem(ctx, line.SKUID, line.Quantity); err != nil {
			out.Failed = append(out.Failed, LineFailure{SKUCode: line.SKUCode, Err: err})
			continue
		}
		out.Merged = append(out.Merged, line.SKUCode)
	}
	return out
}
