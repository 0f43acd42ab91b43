package order

import (
	"context"

	"storefront/internal/domain"
)

// StockDeduction is one product's stock consumption at commit time.
type StockDeduction struct {
	ProductID      string
	Quantity       int
	AllowBackorder bool
}

// CommitInput is everything the commit step mutates as one unit: the assembled
// order graph, the stock deductions, the coupon whose counter to bump, and the
// cart whose lines are cleared.
type CommitInput struct {
	Order    domain.Order
	Items    []domain.OrderItem
	Stock    []StockDeduction
	CouponID *string
	CartID   string
}

type Repository interface {
	// Commit runs the whole mutation in a single transaction. It returns
	// domain.ErrConflict when a conditional stock or coupon update loses a
	// race; nothing is written in that case.
	Commit(ctx context.Context, in CommitInput) (*domain.Order, error)
	GetByIDForUser(ctx context.Context, userID, id string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
}
