package checkout

import (
	"fmt"

	"storefront/internal/domain"
	orderrepo "storefront/internal/repository/order"
)

type assembleInput struct {
	CallerID      string
	Cart          *domain.Cart
	Address       *domain.UserAddress
	Coupon        *domain.Coupon
	Method        *domain.ShippingMethod
	Priced        pricedCart
	DiscountCents int64
	ShippingCents int64
	LineAttrs     map[string][]domain.OrderItemAttribute
	OrderNumber   string
}

// assembleOrder builds the commit payload: the order header holds computed
// totals and foreign keys only, each item snapshots the product at its
// effective quantity. Nothing here touches storage; the whole graph goes to
// the commit step as one unit.
func assembleOrder(in assembleInput) (orderrepo.CommitInput, error) {
	total := in.Priced.SubtotalCents - in.DiscountCents + in.ShippingCents
	if total < 0 {
		// Discount is clamped to the subtotal upstream; a negative total here
		// means a validation step was skipped, so the whole workflow aborts.
		return orderrepo.CommitInput{}, fmt.Errorf("order total is negative: subtotal=%d discount=%d shipping=%d",
			in.Priced.SubtotalCents, in.DiscountCents, in.ShippingCents)
	}

	header := domain.Order{
		OrderNumber:   in.OrderNumber,
		UserID:        in.CallerID,
		AddressID:     in.Address.ID,
		SubtotalCents: in.Priced.SubtotalCents,
		DiscountCents: in.DiscountCents,
		ShippingCents: in.ShippingCents,
		TotalCents:    total,
		Status:        domain.OrderPending,
		PaymentStatus: domain.PaymentUnpaid,
	}
	if in.Method != nil {
		methodID := in.Method.ID
		header.ShippingMethodID = &methodID
	}
	if in.Coupon != nil {
		header.CouponCode = in.Coupon.Code
	}

	items := make([]domain.OrderItem, 0, len(in.Priced.Lines))
	stock := make([]orderrepo.StockDeduction, 0, len(in.Priced.Lines))
	for _, pl := range in.Priced.Lines {
		items = append(items, domain.OrderItem{
			ProductID:      pl.Product.ID,
			ProductName:    pl.Product.Name,
			UnitPriceCents: pl.Product.PriceCents,
			Quantity:       pl.Quantity,
			Attributes:     in.LineAttrs[pl.Line.ID],
		})
		stock = append(stock, orderrepo.StockDeduction{
			ProductID:      pl.Product.ID,
			Quantity:       pl.Quantity,
			AllowBackorder: pl.Product.AllowBackorder,
		})
	}

	out := orderrepo.CommitInput{
		Order:  header,
		Items:  items,
		Stock:  stock,
		CartID: in.Cart.ID,
	}
	if in.Coupon != nil {
		couponID := in.Coupon.ID
		out.CouponID = &couponID
	}
	return out, nil
}
