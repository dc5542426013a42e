package domain

// LineOrigin tags which cart regime a projected line came from.
type LineOrigin string

const (
	OriginGuest  LineOrigin = "guest"
	OriginRemote LineOrigin = "remote"
)

// GuestLine is a cart line persisted on the shopper's device while
// unauthenticated. Identity key is SKUCode; Quantity is always >= 1 once
// stored (updates to zero or below delete the line instead).
type GuestLine struct {
	SKUCode     string `json:"skuCode"`
	SKUID       string `json:"skuId"`
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	UnitPrice   string `json:"unitPrice"`
	ImageURL    string `json:"imageUrl,omitempty"`
	VendorName  string `json:"vendorName,omitempty"`
	Quantity    int    `json:"quantity"`
}

// RemoteCart is the server-authoritative cart for an authenticated shopper.
type RemoteCart struct {
	ID    string       `json:"id"`
	Items []RemoteLine `json:"items"`
}

// RemoteLine is a server-assigned cart line. Identity key is the item ID,
// distinct from the guest SKU-keyed identity. SKUDetail is denormalized
// display data and may be absent on partially hydrated responses.
type RemoteLine struct {
	ID        string     `json:"id"`
	SKUID     string     `json:"sku"`
	SKUDetail *SKUDetail `json:"sku_detail,omitempty"`
	Quantity  int        `json:"quantity"`
	UnitPrice string     `json:"unit_price"`
}

// SKUDetail carries the purchasable variant plus product display fields.
type SKUDetail struct {
	ID            string `json:"id"`
	SKUCode       string `json:"sku_code"`
	ProductID     string `json:"product_id,omitempty"`
	ProductName   string `json:"product_name,omitempty"`
	VendorName    string `json:"vendor_name,omitempty"`
	ImageURL      string `json:"image_url,omitempty"`
	StockQuantity int    `json:"stock_quantity"`
	IsActive      bool   `json:"is_active"`
}

// CartSnapshot is the derived view consumed by presentation code. It is
// computed, never stored: cart page, checkout and the navbar badge all read
// the same projection so their totals cannot diverge.
type CartSnapshot struct {
	Items    []SnapshotLine `json:"items"`
	Subtotal string         `json:"subtotal"`
	Count    int            `json:"itemCount"`
}

// SnapshotLine is a normalized line view. Origin records which regime the
// line came from so callers never branch on shape.
type SnapshotLine struct {
	Origin      LineOrigin `json:"origin"`
	ItemID      string     `json:"itemId,omitempty"`
	SKUID       string     `json:"skuId"`
	SKUCode     string     `json:"skuCode"`
	ProductName string     `json:"productName,omitempty"`
	VendorName  string     `json:"vendorName,omitempty"`
	ImageURL    string     `json:"imageUrl,omitempty"`
	UnitPrice   string     `json:"unitPrice"`
	Quantity    int        `json:"quantity"`
	LineTotal   string     `json:"lineTotal"`
}

// TokenPair is the credential pair persisted alongside the guest cart. The
// engine only stores and forwards it; issuing and refreshing belong to the
// auth collaborator.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}
