// Package importer loads marketplace catalog exports into the SKU table.
package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"marketplace-cart/internal/backend/store"
)

// SKUWriter persists one catalog row.
type SKUWriter interface {
	Upsert(ctx context.Context, sku store.SKU) error
}

// CSVImporter reads catalog CSV exports and upserts SKUs row by row.
type CSVImporter struct {
	reader *csv.Reader
	writer SKUWriter
}

func NewCSVImporter(r io.Reader, w SKUWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{reader: csvr, writer: w}
}

// Run parses the export and upserts every valid row. It returns the number
// of SKUs written and stops at the first write failure.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)

	imported := 0
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}

		sku, err := parseRow(record, index)
		if err != nil {
			return imported, err
		}
		if sku == nil {
			continue
		}

		if err := i.writer.Upsert(ctx, *sku); err != nil {
			return imported, fmt.Errorf("upsert sku %q: %w", sku.Code, err)
		}
		imported++
	}

	return imported, nil
}

func parseRow(record []string, index map[string]int) (*store.SKU, error) {
	code := pick(record, index, "code")
	if code == "" {
		// Blank separator rows are tolerated.
		if strings.Join(record, "") == "" {
			return nil, nil
		}
		return nil, fmt.Errorf("row missing sku code: %v", record)
	}

	price := pick(record, index, "price")
	if _, err := decimal.NewFromString(price); err != nil {
		return nil, fmt.Errorf("invalid price for sku %q: %q", code, price)
	}

	stock := 0
	if s := pick(record, index, "stock"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("invalid stock for sku %q: %q", code, s)
		}
		stock = n
	}

	active := true
	if a := pick(record, index, "active"); a != "" {
		b, err := strconv.ParseBool(a)
		if err != nil {
			return nil, fmt.Errorf("invalid active flag for sku %q: %q", code, a)
		}
		active = b
	}

	return &store.SKU{
		Code:        code,
		ProductID:   pick(record, index, "product_id"),
		ProductName: pick(record, index, "product_name"),
		VendorName:  pick(record, index, "vendor_name"),
		ImageURL:    pick(record, index, "image_url"),
		Price:       price,
		Stock:       stock,
		Active:      active,
	}, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
