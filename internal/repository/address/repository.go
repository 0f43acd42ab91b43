package address

import (
	"context"

	"storefront/internal/domain"
)

type Repository interface {
	ListByUser(ctx context.Context, userID string) ([]domain.UserAddress, error)
	// GetByIDForUser returns domain.ErrNotFound when the address does not exist
	// or belongs to a different user; callers cannot tell the two apart.
	GetByIDForUser(ctx context.Context, userID, id string) (*domain.UserAddress, error)
	// Create persists the address. When IsDefault is set, every other address
	// of the same user is flipped to non-default in the same transaction.
	Create(ctx context.Context, addr domain.UserAddress) (*domain.UserAddress, error)
}
