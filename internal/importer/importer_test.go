package importer

import (
	"context"
	"strings"
	"testing"

	"storefront/internal/domain"
)

type stubProductRepo struct {
	items []domain.Product
}

func (s *stubProductRepo) Upsert(_ context.Context, p domain.Product) (*domain.Product, error) {
	s.items = append(s.items, p)
	return &p, nil
}

func TestCSVImporter_Run(t *testing.T) {
	csvData := `sku,name,description,price_cents,tax_cents,stock_quantity,allow_backorder
SKU-TEE,Cotton Tee,Soft cotton tee,1999,200,25,false
SKU-MUG,Ceramic Mug,Mug with logo,1299,130,0,true
,,,,,,`

	repo := &stubProductRepo{}
	imp := NewCSVImporter(strings.NewReader(csvData), repo)

	count, err := imp.Run(context.Background())
	if err != nil {
		t.Fatalf("import run: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 products imported, got %d", count)
	}
	if len(repo.items) != 2 {
		t.Fatalf("expected 2 products saved, got %d", len(repo.items))
	}

	if repo.items[0].SKU != "SKU-TEE" || repo.items[0].PriceCents != 1999 || repo.items[0].StockQuantity != 25 {
		t.Fatalf("unexpected product data: %+v", repo.items[0])
	}
	if !repo.items[1].AllowBackorder {
		t.Fatalf("expected backorder flag on second product: %+v", repo.items[1])
	}
}

func TestCSVImporter_RunInvalidRow(t *testing.T) {
	csvData := `sku,name,price_cents
SKU-OK,Fine Product,500
SKU-BAD,,0`

	repo := &stubProductRepo{}
	imp := NewCSVImporter(strings.NewReader(csvData), repo)

	count, err := imp.Run(context.Background())
	if err == nil {
		t.Fatalf("expected error for row with missing fields")
	}
	if count != 1 {
		t.Fatalf("expected 1 product imported before failure, got %d", count)
	}
}
