package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"storefront/internal/domain"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// CSVImporter reads catalog CSV exports and inserts/updates products.
type CSVImporter struct {
	reader      *csv.Reader
	productRepo ProductWriter
}

func NewCSVImporter(r io.Reader, repo ProductWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:      csvr,
		productRepo: repo,
	}
}

type csvRow struct {
	SKU            string
	Name           string
	Desc           string
	PriceCents     int64
	TaxCents       int64
	Stock          int
	AllowBackorder bool
}

// Run parses CSV rows and upserts one product per row, keyed by SKU.
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

		row := parseRow(record, index)
		if row == nil {
			continue
		}
		if err := i.save(ctx, row); err != nil {
			return imported, err
		}
		imported++
	}

	return imported, nil
}

func (i *CSVImporter) save(ctx context.Context, row *csvRow) error {
	if row.SKU == "" || row.Name == "" || row.PriceCents <= 0 {
		return fmt.Errorf("invalid product row (missing required fields) for sku %q", row.SKU)
	}

	p := domain.Product{
		SKU:            row.SKU,
		Name:           row.Name,
		Description:    row.Desc,
		PriceCents:     row.PriceCents,
		TaxCents:       row.TaxCents,
		StockQuantity:  row.Stock,
		AllowBackorder: row.AllowBackorder,
	}

	if _, err := i.productRepo.Upsert(ctx, p); err != nil {
		return fmt.Errorf("upsert product %q: %w", row.SKU, err)
	}
	return nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[h] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) *csvRow {
	sku := pick(record, index, "sku")
	if sku == "" {
		return nil
	}

	priceCents, _ := strconv.ParseInt(pick(record, index, "price_cents"), 10, 64)
	taxCents, _ := strconv.ParseInt(pick(record, index, "tax_cents"), 10, 64)
	stock, _ := strconv.Atoi(pick(record, index, "stock_quantity"))
	backorder, _ := strconv.ParseBool(pick(record, index, "allow_backorder"))

	return &csvRow{
		SKU:            sku,
		Name:           pick(record, index, "name"),
		Desc:           pick(record, index, "description"),
		PriceCents:     priceCents,
		TaxCents:       taxCents,
		Stock:          stock,
		AllowBackorder: backorder,
	}
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
