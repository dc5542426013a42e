package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParsePrice converts a decimal price string into a fixed-point value. A
// corrupt persisted price must not take the cart down, so unparsable input
// contributes zero instead of an error.
func ParsePrice(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// FormatPrice renders a fixed-point value with two decimal places, the way
// prices travel on the wire and land in storage.
func FormatPrice(d decimal.Decimal) string {
	return d.StringFixed(2)
}
