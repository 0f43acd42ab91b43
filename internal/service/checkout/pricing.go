package checkout

import (
	"math"

	"storefront/internal/domain"
)

// pricedLine pairs a cart line with its effective quantity for this checkout.
type pricedLine struct {
	Line     domain.CartLine
	Product  domain.Product
	Quantity int
}

type pricedCart struct {
	Lines         []pricedLine
	SubtotalCents int64
}

// priceCart validates availability and computes the subtotal. The effective
// quantity is the request override when present and positive, else the stored
// line quantity. Pricing always uses the current product price; whatever price
// the line was added at is irrelevant by the time checkout runs.
func priceCart(cart *domain.Cart, overrides map[string]LineOverride) (pricedCart, error) {
	out := pricedCart{Lines: make([]pricedLine, 0, len(cart.Lines))}
	for _, line := range cart.Lines {
		qty := line.Quantity
		if ov, ok := overrides[line.ID]; ok && ov.Quantity != nil {
			qty = *ov.Quantity
		}
		if qty <= 0 {
			return pricedCart{}, &domain.InvalidQuantityError{LineID: line.ID, Quantity: qty}
		}

		product := line.Product
		if product == nil {
			return pricedCart{}, domain.ErrNotFound
		}
		if !product.AllowBackorder && product.StockQuantity < qty {
			return pricedCart{}, &domain.InsufficientStockError{
				ProductID:   product.ID,
				ProductName: product.Name,
				Requested:   qty,
				Available:   product.StockQuantity,
			}
		}

		out.Lines = append(out.Lines, pricedLine{Line: line, Product: *product, Quantity: qty})
		out.SubtotalCents += product.PriceCents * int64(qty)
	}
	return out, nil
}

// discountFor combines the coupon's fixed amount and percentage, then clamps
// the result to [0, subtotal]. Both parts may apply at once.
func discountFor(coupon *domain.Coupon, subtotalCents int64) int64 {
	if coupon == nil {
		return 0
	}
	var discount int64
	if coupon.FixedAmountCents != nil {
		discount += *coupon.FixedAmountCents
	}
	if coupon.Percentage != nil {
		discount += roundHalfAway(float64(subtotalCents) * *coupon.Percentage / 100)
	}
	if discount < 0 {
		return 0
	}
	if discount > subtotalCents {
		return subtotalCents
	}
	return discount
}

// roundHalfAway rounds to the nearest cent, ties away from zero.
func roundHalfAway(v float64) int64 {
	return int64(math.Round(v))
}
