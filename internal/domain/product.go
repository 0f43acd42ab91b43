package domain

import "time"

type Product struct {
	ID             string    `json:"id"`
	SKU            string    `json:"sku"`
	Name           string    `json:"name"`
	Description    string    `json:"description,omitempty"`
	PriceCents     int64     `json:"priceCents"`
	TaxCents       int64     `json:"taxCents"`
	StockQuantity  int       `json:"stockQuantity"`
	AllowBackorder bool      `json:"allowBackorder"`
	CreatedAt      time.Time `json:"createdAt"`
}

// AttributeMapping declares one legal (attribute, value) pair for a product.
// ValueID is nil for free-form attributes that accept any literal value.
type AttributeMapping struct {
	ProductID     string  `json:"productId"`
	AttributeID   string  `json:"attributeId"`
	AttributeName string  `json:"attributeName"`
	ValueID       *string `json:"valueId,omitempty"`
	ValueName     string  `json:"valueName,omitempty"`
}
