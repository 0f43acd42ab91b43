package checkout

import (
	"context"
	"errors"

	"storefront/internal/domain"
)

// resolveShippingMethod returns the method to charge for. An explicit method
// id must exist; otherwise the destination's zone is consulted. No matching
// zone or method is not an error: the order simply ships at zero cost.
func (s *Service) resolveShippingMethod(ctx context.Context, methodID *string, addr *domain.UserAddress) (*domain.ShippingMethod, error) {
	if methodID != nil && *methodID != "" {
		method, err := s.shipping.GetMethodByID(ctx, *methodID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.ErrShippingMethodNotFound
			}
			return nil, err
		}
		return method, nil
	}

	method, err := s.shipping.ResolveForCity(ctx, addr.CountryID, addr.CityID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return method, nil
}

// shippingCostFor computes the charge for the resolved method. Free shipping
// from the coupon or from the method's own threshold wins over everything.
func shippingCostFor(method *domain.ShippingMethod, coupon *domain.Coupon, subtotalCents int64) int64 {
	if method == nil {
		return 0
	}
	if coupon != nil && coupon.FreeShipping {
		return 0
	}
	if method.FreeShippingThresholdCents != nil && subtotalCents >= *method.FreeShippingThresholdCents {
		return 0
	}

	switch method.CostType {
	case domain.ShippingCostByTotal:
		// cost_cents holds a percentage in hundredths (500 = 5%).
		return roundHalfAway(float64(subtotalCents) * float64(method.CostCents) / 10000)
	case domain.ShippingCostByWeight:
		// Weight is not modeled; the base cost applies unchanged.
		return method.CostCents
	default: // flat
		return method.CostCents
	}
}
