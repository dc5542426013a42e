// Package projection normalizes either cart regime into the single
// CartSnapshot shape presentation code consumes. Everything here is pure:
// no storage, no network, no mutation of its inputs.
package projection

import (
	"github.com/shopspring/decimal"

	"marketplace-cart/internal/domain"
)

// FromGuest projects locally persisted lines. Unparsable prices contribute
// zero to the subtotal so a corrupt value never makes the cart unrenderable.
func FromGuest(lines []domain.GuestLine) domain.CartSnapshot {
	snap := domain.CartSnapshot{Items: make([]domain.SnapshotLine, 0, len(lines))}
	subtotal := decimal.Zero
	for _, line := range lines {
		price := domain.ParsePrice(line.UnitPrice)
		lineTotal := price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		subtotal = subtotal.Add(lineTotal)
		snap.Count += line.Quantity
		snap.Items = append(snap.Items, domain.SnapshotLine{
			Origin:      domain.OriginGuest,
			SKUID:       line.SKUID,
			SKUCode:     line.SKUCode,
			ProductName: line.ProductName,
			VendorName:  line.VendorName,
			ImageURL:    line.ImageURL,
			UnitPrice:   domain.FormatPrice(price),
			Quantity:    line.Quantity,
			LineTotal:   domain.FormatPrice(lineTotal),
		})
	}
	snap.Subtotal = domain.FormatPrice(subtotal)
	return snap
}

// FromRemote projects a server cart. A nil cart projects as empty; a line
// missing its SKU detail keeps its price contribution but renders without
// display fields.
func FromRemote(cart *domain.RemoteCart) domain.CartSnapshot {
	if cart == nil {
		return domain.CartSnapshot{Items: []domain.SnapshotLine{}, Subtotal: domain.FormatPrice(decimal.Zero)}
	}
	snap := domain.CartSnapshot{Items: make([]domain.SnapshotLine, 0, len(cart.Items))}
	subtotal := decimal.Zero
	for _, item := range cart.Items {
		price := domain.ParsePrice(item.UnitPrice)
		lineTotal := price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(lineTotal)
		snap.Count += item.Quantity

		view := domain.SnapshotLine{
			Origin:    domain.OriginRemote,
			ItemID:    item.ID,
			SKUID:     item.SKUID,
			UnitPrice: domain.FormatPrice(price),
			Quantity:  item.Quantity,
			LineTotal: domain.FormatPrice(lineTotal),
		}
		if detail := item.SKUDetail; detail != nil {
			view.SKUCode = detail.SKUCode
			view.ProductName = detail.ProductName
			view.VendorName = detail.VendorName
			view.ImageURL = detail.ImageURL
		}
		snap.Items = append(snap.Items, view)
	}
	snap.Subtotal = domain.FormatPrice(subtotal)
	return snap
}

// Project picks the authoritative source: remote when authenticated, local
// otherwise. Callers hand over both states and never read the stale one.
func Project(guest []domain.GuestLine, remote *domain.RemoteCart, authenticated bool) domain.CartSnapshot {
	if authenticated {
		return FromRemote(remote)
	}
	return FromGuest(guest)
}
