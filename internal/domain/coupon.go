package domain

import "time"

// Coupon combines an optional fixed amount and an optional percentage; both may
// apply at once. TimesUsed only ever increases through checkout.
type Coupon struct {
	ID               string    `json:"id"`
	Code             string    `json:"code"`
	FixedAmountCents *int64    `json:"fixedAmountCents,omitempty"`
	Percentage       *float64  `json:"percentage,omitempty"`
	FreeShipping     bool      `json:"freeShipping"`
	StartsAt         time.Time `json:"startsAt"`
	EndsAt           time.Time `json:"endsAt"`
	UsageLimit       *int      `json:"usageLimit,omitempty"`
	PerUserLimit     *int      `json:"perUserLimit,omitempty"`
	TimesUsed        int       `json:"timesUsed"`
	IsActive         bool      `json:"isActive"`
}

// ActiveAt reports whether the coupon is usable at the given instant. The
// activity window is half-open: [StartsAt, EndsAt).
func (c Coupon) ActiveAt(now time.Time) bool {
	if !c.IsActive {
		return false
	}
	if now.Before(c.StartsAt) {
		return false
	}
	return now.Before(c.EndsAt)
}

// Exhausted reports whether the global usage limit is spent.
func (c Coupon) Exhausted() bool {
	return c.UsageLimit != nil && c.TimesUsed >= *c.UsageLimit
}
