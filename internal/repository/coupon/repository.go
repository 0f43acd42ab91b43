package coupon

import (
	"context"

	"storefront/internal/domain"
)

type Repository interface {
	// GetByCode matches the code exactly; lookups are case-sensitive.
	GetByCode(ctx context.Context, code string) (*domain.Coupon, error)
	Upsert(ctx context.Context, coupon domain.Coupon) (*domain.Coupon, error)
}
