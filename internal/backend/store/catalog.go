package store

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// UpsertSKU inserts or refreshes a catalog row keyed by SKU code. The row id
// is database-generated; callers address SKUs by code.
func UpsertSKU(ctx context.Context, pool *pgxpool.Pool, sku SKU) error {
	const q = `
INSERT INTO skus (code, product_id, product_name, vendor_name, image_url, price, stock, active)
VALUES ($1, $2, $3, $4, $5, $6::numeric, $7, $8)
ON CONFLICT (code) DO UPDATE
SET product_id = EXCLUDED.product_id,
    product_name = EXCLUDED.product_name,
    vendor_name = EXCLUDED.vendor_name,
    image_url = EXCLUDED.image_url,
    price = EXCLUDED.price,
    stock = EXCLUDED.stock,
    active = EXCLUDED.active
`
	_, err := pool.Exec(ctx, q,
		sku.Code,
		sku.ProductID,
		sku.ProductName,
		sku.VendorName,
		sku.ImageURL,
		sku.Price,
		sku.Stock,
		sku.Active,
	)
	return err
}
