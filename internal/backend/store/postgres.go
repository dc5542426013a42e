package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"marketplace-cart/internal/domain"
)

type postgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgres returns a Store backed by the given pool. Schema is managed by
// the embedded migrations (internal/migrate).
func NewPostgres(pool *pgxpool.Pool) Store {
	return &postgresStore{pool: pool}
}

func (s *postgresStore) GetSKU(ctx context.Context, skuID string) (*SKU, error) {
	const q = `
SELECT id::text, code, product_id::text, product_name, vendor_name, image_url, price::text, stock, active
FROM skus
WHERE id = $1 AND active
`
	var sku SKU
	if err := s.pool.QueryRow(ctx, q, skuID).Scan(
		&sku.ID,
		&sku.Code,
		&sku.ProductID,
		&sku.ProductName,
		&sku.VendorName,
		&sku.ImageURL,
		&sku.Price,
		&sku.Stock,
		&sku.Active,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &sku, nil
}

func (s *postgresStore) GetCart(ctx context.Context, userID string) (*domain.RemoteCart, error) {
	const q = `
SELECT ci.id::text, ci.sku_id::text, ci.quantity, ci.unit_price::text,
       sk.code, sk.product_id::text, sk.product_name, sk.vendor_name, sk.image_url, sk.stock, sk.active
FROM cart_items ci
JOIN skus sk ON sk.id = ci.sku_id
WHERE ci.user_id = $1
ORDER BY ci.created_at ASC
`
	rows, err := s.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cart := &domain.RemoteCart{ID: "cart-" + userID, Items: []domain.RemoteLine{}}
	for rows.Next() {
		var line domain.RemoteLine
		detail := &domain.SKUDetail{}
		if err := rows.Scan(
			&line.ID,
			&line.SKUID,
			&line.Quantity,
			&line.UnitPrice,
			&detail.SKUCode,
			&detail.ProductID,
			&detail.ProductName,
			&detail.VendorName,
			&detail.ImageURL,
			&detail.StockQuantity,
			&detail.IsActive,
		); err != nil {
			return nil, err
		}
		detail.ID = line.SKUID
		line.SKUDetail = detail
		cart.Items = append(cart.Items, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return cart, nil
}

func (s *postgresStore) AddItem(ctx context.Context, userID, skuID string, quantity int) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var price string
	var stock int
	err = tx.QueryRow(ctx, `
SELECT price::text, stock
FROM skus
WHERE id = $1 AND active
FOR UPDATE
`, skuID).Scan(&price, &stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}

	var current int
	err = tx.QueryRow(ctx, `
SELECT quantity
FROM cart_items
WHERE user_id = $1 AND sku_id = $2
`, userID, skuID).Scan(&current)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	if current+quantity > stock {
		return domain.ErrInsufficientStock
	}

	if _, err := tx.Exec(ctx, `
INSERT INTO cart_items (user_id, sku_id, quantity, unit_price)
VALUES ($1, $2, $3, $4::numeric)
ON CONFLICT (user_id, sku_id)
DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity,
              unit_price = EXCLUDED.unit_price
`, userID, skuID, quantity, price); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (s *postgresStore) UpdateItem(ctx context.Context, userID, itemID string, quantity int) error {
	if quantity <= 0 {
		cmd, err := s.pool.Exec(ctx, `
DELETE FROM cart_items
WHERE id = $1 AND user_id = $2
`, itemID, userID)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return domain.ErrNotFound
		}
		return nil
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var stock int
	err = tx.QueryRow(ctx, `
SELECT sk.stock
FROM cart_items ci
JOIN skus sk ON sk.id = ci.sku_id
WHERE ci.id = $1 AND ci.user_id = $2 AND sk.active
`, itemID, userID).Scan(&stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}
	if quantity > stock {
		return domain.ErrInsufficientStock
	}

	if _, err := tx.Exec(ctx, `
UPDATE cart_items
SET quantity = $1
WHERE id = $2 AND user_id = $3
`, quantity, itemID, userID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (s *postgresStore) RemoveItem(ctx context.Context, userID, itemID string) error {
	cmd, err := s.pool.Exec(ctx, `
DELETE FROM cart_items
WHERE id = $1 AND user_id = $2
`, itemID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *postgresStore) ClearCart(ctx context.Context, userID string) error {
	_, err := s.pool.Exec(ctx, `
DELETE FROM cart_items
WHERE user_id = $1
`, userID)
	return err
}

func (s *postgresStore) CreateOrder(ctx context.Context, in CreateOrderInput) (*Order, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	items := in.Items
	if in.UserID != "" && len(items) == 0 {
		rows, err := tx.Query(ctx, `
SELECT sku_id::text, quantity
FROM cart_items
WHERE user_id = $1
ORDER BY created_at ASC
`, in.UserID)
		if err != nil {
			return nil, err
		}
		for rows.Next() {
			var item OrderItemInput
			if err := rows.Scan(&item.SKUID, &item.Quantity); err != nil {
				rows.Close()
				return nil, err
			}
			items = append(items, item)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, err
		}
	}
	if len(items) == 0 {
		return nil, domain.ErrEmptyCart
	}
	items = mergeBySKU(items)

	total := decimal.Zero
	type priced struct {
		item  OrderItemInput
		price string
	}
	resolved := make([]priced, 0, len(items))
	for _, item := range items {
		var price string
		var stock int
		err := tx.QueryRow(ctx, `
SELECT price::text, stock
FROM skus
WHERE id = $1 AND active
FOR UPDATE
`, item.SKUID).Scan(&price, &stock)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, domain.ErrNotFound
			}
			return nil, err
		}
		if item.Quantity > stock {
			return nil, domain.ErrInsufficientStock
		}
		total = total.Add(domain.ParsePrice(price).Mul(decimal.NewFromInt(int64(item.Quantity))))
		resolved = append(resolved, priced{item: item, price: price})
	}

	var order Order
	var userID *string
	if in.UserID != "" {
		userID = &in.UserID
	}
	err = tx.QueryRow(ctx, `
INSERT INTO orders (user_id, guest_email, guest_name, guest_phone, status, payment_method, total, currency)
VALUES ($1, $2, $3, $4, 'pending', $5, $6::numeric, 'usd')
RETURNING id::text, status, payment_method, total::text, currency, created_at
`, userID, in.GuestEmail, in.GuestName, in.GuestPhone, in.PaymentMethod, domain.FormatPrice(total)).Scan(
		&order.ID,
		&order.Status,
		&order.PaymentMethod,
		&order.Total,
		&order.Currency,
		&order.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	order.UserID = in.UserID
	order.GuestEmail = in.GuestEmail
	order.GuestName = in.GuestName
	order.GuestPhone = in.GuestPhone

	for _, p := range resolved {
		if _, err := tx.Exec(ctx, `
INSERT INTO order_items (order_id, sku_id, quantity, unit_price)
VALUES ($1, $2, $3, $4::numeric)
`, order.ID, p.item.SKUID, p.item.Quantity, p.price); err != nil {
			return nil, err
		}
		if _, err := tx.Exec(ctx, `
UPDATE skus
SET stock = stock - $1
WHERE id = $2
`, p.item.Quantity, p.item.SKUID); err != nil {
			return nil, err
		}
	}

	if in.UserID != "" {
		if _, err := tx.Exec(ctx, `
DELETE FROM cart_items
WHERE user_id = $1
`, in.UserID); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &order, nil
}
