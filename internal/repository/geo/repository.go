package geo

import (
	"context"

	"storefront/internal/domain"
)

// Repository serves country/city reference data used by address validation and
// shipping-zone inference.
type Repository interface {
	ListCountries(ctx context.Context) ([]domain.Country, error)
	ListCitiesByCountry(ctx context.Context, countryID string) ([]domain.City, error)
	GetCity(ctx context.Context, id string) (*domain.City, error)
}
