package domain

// ShippingCostType selects how a method's cost is computed at checkout.
type ShippingCostType string

const (
	ShippingCostFlat     ShippingCostType = "flat"
	ShippingCostByTotal  ShippingCostType = "by_total"
	ShippingCostByWeight ShippingCostType = "by_weight"
)

// ShippingZone groups methods by destination. A nil CityID means the zone
// covers the whole country; a nil CountryID means it covers everywhere.
type ShippingZone struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	CountryID *string `json:"countryId,omitempty"`
	CityID    *string `json:"cityId,omitempty"`
}

type ShippingMethod struct {
	ID       string           `json:"id"`
	ZoneID   string           `json:"zoneId"`
	Name     string           `json:"name"`
	CostType ShippingCostType `json:"costType"`

	// CostCents is the flat cost for flat/by_weight methods. For by_total it is
	// a percentage of the subtotal in hundredths of a percent (500 = 5%).
	CostCents int64 `json:"costCents"`

	FreeShippingThresholdCents *int64 `json:"freeShippingThresholdCents,omitempty"`
	IsDefault                  bool   `json:"isDefault"`
}
