package product

import (
	"context"

	"storefront/internal/domain"
)

type Repository interface {
	List(ctx context.Context) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	GetBySKU(ctx context.Context, sku string) (*domain.Product, error)
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
	// MappingsForProducts returns every legal (attribute, value) pair for the
	// given product ids, with display names resolved.
	MappingsForProducts(ctx context.Context, productIDs []string) ([]domain.AttributeMapping, error)
}
