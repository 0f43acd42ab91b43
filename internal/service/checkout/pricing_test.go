package checkout

import (
	"errors"
	"testing"

	"storefront/internal/domain"
)

func TestPriceCart_SubtotalUsesCurrentPrice(t *testing.T) {
	product := &domain.Product{ID: "p-1", Name: "Tee", PriceCents: 1234, StockQuantity: 5}
	cart := &domain.Cart{ID: "cart-1", Lines: []domain.CartLine{
		{ID: "line-1", ProductID: "p-1", Quantity: 3, Product: product},
	}}

	priced, err := priceCart(cart, nil)
	if err != nil {
		t.Fatalf("price cart: %v", err)
	}
	if priced.SubtotalCents != 3702 {
		t.Fatalf("expected subtotal 3702, got %d", priced.SubtotalCents)
	}
	if len(priced.Lines) != 1 || priced.Lines[0].Quantity != 3 {
		t.Fatalf("unexpected priced lines: %+v", priced.Lines)
	}
}

func TestPriceCart_OverrideQuantity(t *testing.T) {
	product := &domain.Product{ID: "p-1", Name: "Tee", PriceCents: 1000, StockQuantity: 5}
	cart := &domain.Cart{ID: "cart-1", Lines: []domain.CartLine{
		{ID: "line-1", ProductID: "p-1", Quantity: 3, Product: product},
	}}

	five := 5
	priced, err := priceCart(cart, map[string]LineOverride{"line-1": {LineID: "line-1", Quantity: &five}})
	if err != nil {
		t.Fatalf("price cart: %v", err)
	}
	if priced.SubtotalCents != 5000 {
		t.Fatalf("expected subtotal 5000, got %d", priced.SubtotalCents)
	}

	neg := -1
	_, err = priceCart(cart, map[string]LineOverride{"line-1": {LineID: "line-1", Quantity: &neg}})
	var qtyErr *domain.InvalidQuantityError
	if !errors.As(err, &qtyErr) {
		t.Fatalf("expected InvalidQuantityError, got %v", err)
	}
	if qtyErr.LineID != "line-1" || qtyErr.Quantity != -1 {
		t.Fatalf("unexpected error detail: %+v", qtyErr)
	}
}

func TestPriceCart_Stock(t *testing.T) {
	product := &domain.Product{ID: "p-1", Name: "Tee", PriceCents: 1000, StockQuantity: 2}
	cart := &domain.Cart{ID: "cart-1", Lines: []domain.CartLine{
		{ID: "line-1", ProductID: "p-1", Quantity: 3, Product: product},
	}}

	_, err := priceCart(cart, nil)
	var stockErr *domain.InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if stockErr.Requested != 3 || stockErr.Available != 2 {
		t.Fatalf("unexpected detail: %+v", stockErr)
	}

	product.AllowBackorder = true
	if _, err := priceCart(cart, nil); err != nil {
		t.Fatalf("expected backorder to bypass stock, got %v", err)
	}
}

func TestDiscountFor(t *testing.T) {
	fixed := int64(500)
	pct := 10.0

	cases := []struct {
		name     string
		coupon   *domain.Coupon
		subtotal int64
		want     int64
	}{
		{name: "nil coupon", coupon: nil, subtotal: 10000, want: 0},
		{name: "fixed only", coupon: &domain.Coupon{FixedAmountCents: &fixed}, subtotal: 10000, want: 500},
		{name: "percentage only", coupon: &domain.Coupon{Percentage: &pct}, subtotal: 10000, want: 1000},
		{name: "both combine", coupon: &domain.Coupon{FixedAmountCents: &fixed, Percentage: &pct}, subtotal: 10000, want: 1500},
		{name: "clamped to subtotal", coupon: &domain.Coupon{FixedAmountCents: &fixed}, subtotal: 300, want: 300},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := discountFor(tc.coupon, tc.subtotal)
			if got != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, got)
			}
		})
	}
}

func TestDiscountFor_RoundsHalfAway(t *testing.T) {
	pct := 12.5
	// 12.5% of 999 = 124.875, rounds to 125.
	if got := discountFor(&domain.Coupon{Percentage: &pct}, 999); got != 125 {
		t.Fatalf("expected 125, got %d", got)
	}
	half := 0.5
	// 0.5% of 2500 = 12.5, ties round away from zero.
	if got := discountFor(&domain.Coupon{Percentage: &half}, 2500); got != 13 {
		t.Fatalf("expected 13, got %d", got)
	}
}
