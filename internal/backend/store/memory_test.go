package store

import (
	"context"
	"errors"
	"testing"

	"marketplace-cart/internal/domain"
)

func testCatalog() []SKU {
	return []SKU{
		{
			ID:          "sku-1",
			Code:        "TSHIRT-M",
			ProductID:   "prod-1",
			ProductName: "Classic Tee (M)",
			Price:       "19.99",
			Stock:       3,
			Active:      true,
		},
		{
			ID:          "sku-2",
			Code:        "MUG-L",
			ProductID:   "prod-2",
			ProductName: "Large Ceramic Mug",
			Price:       "5.50",
			Stock:       10,
			Active:      true,
		},
	}
}

func TestCreateOrderDuplicateSKUCountsAgainstStockOnce(t *testing.T) {
	m := NewMemory(testCatalog())
	ctx := context.Background()

	// Two entries for the same SKU sum to 4 against stock 3; each entry on
	// its own would pass.
	_, err := m.CreateOrder(ctx, CreateOrderInput{
		GuestEmail: "guest@example.com",
		Items: []OrderItemInput{
			{SKUID: "sku-1", Quantity: 2},
			{SKUID: "sku-1", Quantity: 2},
		},
		PaymentMethod: "cod",
	})
	if !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected ErrInsufficientStock, got %v", err)
	}

	// A rejected order must leave stock untouched.
	sku, err := m.GetSKU(ctx, "sku-1")
	if err != nil {
		t.Fatalf("get sku: %v", err)
	}
	if sku.Stock != 3 {
		t.Fatalf("expected stock 3 after rejected order, got %d", sku.Stock)
	}
}

func TestCreateOrderDuplicateSKUWithinStock(t *testing.T) {
	m := NewMemory(testCatalog())
	ctx := context.Background()

	order, err := m.CreateOrder(ctx, CreateOrderInput{
		GuestEmail: "guest@example.com",
		Items: []OrderItemInput{
			{SKUID: "sku-1", Quantity: 1},
			{SKUID: "sku-1", Quantity: 2},
		},
		PaymentMethod: "cod",
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if order.Total != "59.97" {
		t.Fatalf("expected total 59.97, got %s", order.Total)
	}

	sku, err := m.GetSKU(ctx, "sku-1")
	if err != nil {
		t.Fatalf("get sku: %v", err)
	}
	if sku.Stock != 0 {
		t.Fatalf("expected stock 0 after order, got %d", sku.Stock)
	}
}

func TestUpdateItemRejectsDelistedSKU(t *testing.T) {
	m := NewMemory(testCatalog()).(*memoryStore)
	ctx := context.Background()

	if err := m.AddItem(ctx, "user-1", "sku-1", 1); err != nil {
		t.Fatalf("add item: %v", err)
	}
	cart, err := m.GetCart(ctx, "user-1")
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	itemID := cart.Items[0].ID

	m.skus["sku-1"].Active = false

	if err := m.UpdateItem(ctx, "user-1", itemID, 5); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for delisted sku, got %v", err)
	}

	// The existing line is untouched.
	cart, err = m.GetCart(ctx, "user-1")
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	if cart.Items[0].Quantity != 1 {
		t.Fatalf("expected quantity 1, got %d", cart.Items[0].Quantity)
	}
}
