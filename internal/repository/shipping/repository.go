package shipping

import (
	"context"

	"storefront/internal/domain"
)

type Repository interface {
	GetMethodByID(ctx context.Context, id string) (*domain.ShippingMethod, error)
	// ResolveForCity picks the method for a destination: a zone matching the
	// city wins over a country-wide zone, which wins over a global zone; within
	// a zone the method flagged is_default wins. Returns domain.ErrNotFound
	// when nothing matches.
	ResolveForCity(ctx context.Context, countryID, cityID string) (*domain.ShippingMethod, error)
}
