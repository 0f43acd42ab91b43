package checkout

import (
	"context"
	"errors"

	"storefront/internal/domain"
)

// validateCoupon returns the applicable coupon or nil when no code was given.
// Lookups are exact and case-sensitive.
func (s *Service) validateCoupon(ctx context.Context, code string) (*domain.Coupon, error) {
	if code == "" {
		return nil, nil
	}
	c, err := s.coupons.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrCouponInvalid
		}
		return nil, err
	}
	if !c.ActiveAt(s.now()) {
		return nil, domain.ErrCouponInvalid
	}
	if c.Exhausted() {
		return nil, domain.ErrCouponExhausted
	}
	// TODO: enforce per_user_limit once per-user redemption history is stored;
	// today the field is persisted but nothing records who redeemed what.
	return c, nil
}
