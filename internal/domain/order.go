package domain

import "time"

// OrderStatus follows the fulfilment lifecycle. Checkout only ever creates
// orders in OrderPending; later transitions are admin actions.
type OrderStatus string

const (
	OrderPending        OrderStatus = "pending"
	OrderPaymentPending OrderStatus = "payment_pending"
	OrderPaid           OrderStatus = "paid"
	OrderProcessing     OrderStatus = "processing"
	OrderPacked         OrderStatus = "packed"
	OrderShipped        OrderStatus = "shipped"
	OrderDelivered      OrderStatus = "delivered"
	OrderCancelled      OrderStatus = "cancelled"
	OrderReturned       OrderStatus = "returned"
)

type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "unpaid"
	PaymentPaid   PaymentStatus = "paid"
)

// Order is an immutable monetary snapshot created by checkout. CouponCode is a
// copy of the code at order time, not a live reference, so later coupon edits
// never change history. Invariant: TotalCents = SubtotalCents - DiscountCents +
// ShippingCents, never negative.
type Order struct {
	ID               string        `json:"id"`
	OrderNumber      string        `json:"orderNumber"`
	UserID           string        `json:"userId"`
	AddressID        string        `json:"addressId"`
	ShippingMethodID *string       `json:"shippingMethodId,omitempty"`
	CouponCode       string        `json:"couponCode,omitempty"`
	SubtotalCents    int64         `json:"subtotalCents"`
	DiscountCents    int64         `json:"discountCents"`
	ShippingCents    int64         `json:"shippingCents"`
	TotalCents       int64         `json:"totalCents"`
	Status           OrderStatus   `json:"status"`
	PaymentStatus    PaymentStatus `json:"paymentStatus"`
	TrackingNumber   string        `json:"trackingNumber,omitempty"`
	CreatedAt        time.Time     `json:"createdAt"`
	Items            []OrderItem   `json:"items,omitempty"`
}

// OrderItem snapshots the product at order time: UnitPriceCents is the price
// when the order was placed, ProductName survives catalog renames.
type OrderItem struct {
	ID             string               `json:"id"`
	OrderID        string               `json:"orderId"`
	ProductID      string               `json:"productId"`
	ProductName    string               `json:"productName"`
	UnitPriceCents int64                `json:"unitPriceCents"`
	Quantity       int                  `json:"quantity"`
	Attributes     []OrderItemAttribute `json:"attributes,omitempty"`
}

// OrderItemAttribute is a denormalized attribute snapshot. ValueID is nil and
// Value holds the literal text for free-form attributes.
type OrderItemAttribute struct {
	ID            string  `json:"id"`
	OrderItemID   string  `json:"orderItemId"`
	AttributeID   string  `json:"attributeId"`
	AttributeName string  `json:"attributeName"`
	ValueID       *string `json:"valueId,omitempty"`
	ValueName     string  `json:"valueName,omitempty"`
	Value         string  `json:"value,omitempty"`
}
