package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"marketplace-cart/internal/domain"
)

type memoryStore struct {
	mu     sync.Mutex
	skus   map[string]*SKU
	carts  map[string][]domain.RemoteLine
	orders map[string]*Order
}

// NewMemory builds a store seeded with the given catalog. Used by the dev
// server when no database is configured, and by tests.
func NewMemory(skus []SKU) Store {
	m := &memoryStore{
		skus:   make(map[string]*SKU, len(skus)),
		carts:  make(map[string][]domain.RemoteLine),
		orders: make(map[string]*Order),
	}
	for i := range skus {
		sku := skus[i]
		m.skus[sku.ID] = &sku
	}
	return m
}

func (m *memoryStore) GetSKU(_ context.Context, skuID string) (*SKU, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sku, ok := m.skus[skuID]
	if !ok || !sku.Active {
		return nil, domain.ErrNotFound
	}
	cp := *sku
	return &cp, nil
}

func (m *memoryStore) GetCart(_ context.Context, userID string) (*domain.RemoteCart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cartLocked(userID), nil
}

func (m *memoryStore) cartLocked(userID string) *domain.RemoteCart {
	lines := m.carts[userID]
	items := make([]domain.RemoteLine, len(lines))
	copy(items, lines)
	return &domain.RemoteCart{ID: "cart-" + userID, Items: items}
}

func (m *memoryStore) AddItem(_ context.Context, userID, skuID string, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sku, ok := m.skus[skuID]
	if !ok || !sku.Active {
		return domain.ErrNotFound
	}

	lines := m.carts[userID]
	idx := -1
	current := 0
	for i := range lines {
		if lines[i].SKUID == skuID {
			idx = i
			current = lines[i].Quantity
			break
		}
	}
	if current+quantity > sku.Stock {
		return domain.ErrInsufficientStock
	}

	if idx >= 0 {
		lines[idx].Quantity += quantity
		lines[idx].UnitPrice = sku.Price
	} else {
		lines = append(lines, domain.RemoteLine{
			ID:        uuid.NewString(),
			SKUID:     skuID,
			SKUDetail: detailFor(sku),
			Quantity:  quantity,
			UnitPrice: sku.Price,
		})
	}
	m.carts[userID] = lines
	return nil
}

func (m *memoryStore) UpdateItem(_ context.Context, userID, itemID string, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	lines := m.carts[userID]
	for i := range lines {
		if lines[i].ID != itemID {
			continue
		}
		if quantity <= 0 {
			m.carts[userID] = append(lines[:i], lines[i+1:]...)
			return nil
		}
		sku, ok := m.skus[lines[i].SKUID]
		if !ok || !sku.Active {
			return domain.ErrNotFound
		}
		if quantity > sku.Stock {
			return domain.ErrInsufficientStock
		}
		lines[i].Quantity = quantity
		return nil
	}
	return domain.ErrNotFound
}

func (m *memoryStore) RemoveItem(_ context.Context, userID, itemID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	lines := m.carts[userID]
	for i := range lines {
		if lines[i].ID == itemID {
			m.carts[userID] = append(lines[:i], lines[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *memoryStore) ClearCart(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, userID)
	return nil
}

func (m *memoryStore) CreateOrder(_ context.Context, in CreateOrderInput) (*Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	items := in.Items
	if in.UserID != "" && len(items) == 0 {
		for _, line := range m.carts[in.UserID] {
			items = append(items, OrderItemInput{SKUID: line.SKUID, Quantity: line.Quantity})
		}
	}
	if len(items) == 0 {
		return nil, domain.ErrEmptyCart
	}
	items = mergeBySKU(items)

	// Validate everything before touching stock so a rejected order leaves
	// no partial decrement behind.
	total := decimal.Zero
	resolved := make([]*SKU, len(items))
	for i, item := range items {
		sku, ok := m.skus[item.SKUID]
		if !ok || !sku.Active {
			return nil, domain.ErrNotFound
		}
		if item.Quantity > sku.Stock {
			return nil, domain.ErrInsufficientStock
		}
		resolved[i] = sku
		price := domain.ParsePrice(sku.Price)
		total = total.Add(price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	for i, item := range items {
		resolved[i].Stock -= item.Quantity
	}

	order := &Order{
		ID:            uuid.NewString(),
		UserID:        in.UserID,
		GuestEmail:    in.GuestEmail,
		GuestName:     in.GuestName,
		GuestPhone:    in.GuestPhone,
		Status:        "pending",
		PaymentMethod: in.PaymentMethod,
		Total:         domain.FormatPrice(total),
		Currency:      "usd",
		CreatedAt:     time.Now(),
	}
	m.orders[order.ID] = order

	if in.UserID != "" {
		delete(m.carts, in.UserID)
	}
	return order, nil
}

// mergeBySKU collapses repeated SKU references into one entry so the stock
// check sees the order's full quantity per SKU, not each entry in isolation.
func mergeBySKU(items []OrderItemInput) []OrderItemInput {
	merged := make([]OrderItemInput, 0, len(items))
	index := make(map[string]int, len(items))
	for _, item := range items {
		if i, ok := index[item.SKUID]; ok {
			merged[i].Quantity += item.Quantity
			continue
		}
		index[item.SKUID] = len(merged)
		merged = append(merged, item)
	}
	return merged
}

func detailFor(sku *SKU) *domain.SKUDetail {
	return &domain.SKUDetail{
		ID:            sku.ID,
		SKUCode:       sku.Code,
		ProductID:     sku.ProductID,
		ProductName:   sku.ProductName,
		VendorName:    sku.VendorName,
		ImageURL:      sku.ImageURL,
		StockQuantity: sku.Stock,
		IsActive:      sku.Active,
	}
}
