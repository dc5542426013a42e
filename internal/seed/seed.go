// Package seed ships a small demo catalog for manual testing. cmd/api uses
// it to populate the in-memory store; cmd/seed upserts it into Postgres.
package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"marketplace-cart/internal/backend/store"
)

// Catalog returns the demo SKUs. IDs are fixed so the memory store serves
// stable references; the Postgres path generates its own ids and keys rows
// by code instead.
func Catalog() []store.SKU {
	return []store.SKU{
		{
			ID:          "11111111-1111-1111-1111-111111111101",
			Code:        "TSHIRT-M",
			ProductID:   "21111111-1111-1111-1111-111111111101",
			ProductName: "Classic Tee (M)",
			VendorName:  "Demo Threads",
			ImageURL:    "https://img.example.com/tshirt-m.jpg",
			Price:       "19.99",
			Stock:       25,
			Active:      true,
		},
		{
			ID:          "11111111-1111-1111-1111-111111111102",
			Code:        "MUG-L",
			ProductID:   "21111111-1111-1111-1111-111111111102",
			ProductName: "Large Ceramic Mug",
			VendorName:  "Demo Pottery",
			ImageURL:    "https://img.example.com/mug-l.jpg",
			Price:       "5.50",
			Stock:       40,
			Active:      true,
		},
		{
			ID:          "11111111-1111-1111-1111-111111111103",
			Code:        "POSTER-A2",
			ProductID:   "21111111-1111-1111-1111-111111111103",
			ProductName: "A2 Art Print",
			VendorName:  "Demo Prints",
			ImageURL:    "https://img.example.com/poster-a2.jpg",
			Price:       "12.00",
			Stock:       10,
			Active:      true,
		},
		{
			ID:          "11111111-1111-1111-1111-111111111104",
			Code:        "SOCKS-RETIRED",
			ProductID:   "21111111-1111-1111-1111-111111111104",
			ProductName: "Retired Wool Socks",
			VendorName:  "Demo Threads",
			ImageURL:    "",
			Price:       "7.25",
			Stock:       0,
			Active:      false,
		},
	}
}

// Apply upserts the demo catalog. Idempotent via ON CONFLICT on SKU code.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	for _, sku := range Catalog() {
		if err := store.UpsertSKU(ctx, pool, sku); err != nil {
			return fmt.Errorf("upsert sku %s: %w", sku.Code, err)
		}
	}
	return nil
}
