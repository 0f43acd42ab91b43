package domain

import "time"

// Cart belongs to a registered user or a guest session. Lines are mutable until
// a checkout succeeds, at which point they are cleared.
type Cart struct {
	ID        string     `json:"id"`
	UserID    *string    `json:"userId,omitempty"`
	SessionID *string    `json:"-"`
	CreatedAt time.Time  `json:"createdAt"`
	Lines     []CartLine `json:"lines,omitempty"`
}

type CartLine struct {
	ID         string                 `json:"id"`
	CartID     string                 `json:"cartId"`
	ProductID  string                 `json:"productId"`
	Quantity   int                    `json:"quantity"`
	Selections []AttributeSelection   `json:"attributeSelections,omitempty"`
	Snapshot   map[string]interface{} `json:"snapshot,omitempty"`
	CreatedAt  time.Time              `json:"createdAt"`

	// Product is the live catalog snapshot, populated by the checkout loader.
	// Pricing always uses Product.PriceCents, never anything stored on the line.
	Product *Product `json:"product,omitempty"`
}

// AttributeSelection is a requested (attribute, value) choice for one cart line.
// ValueID is empty for free-form attributes, where Value carries the literal text.
type AttributeSelection struct {
	AttributeID string `json:"attributeId"`
	ValueID     string `json:"valueId,omitempty"`
	Value       string `json:"value,omitempty"`
}
