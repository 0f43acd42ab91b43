package coupon

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"storefront/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) GetByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	const q = `
SELECT id::text, code, fixed_amount_cents, percentage, free_shipping, starts_at, ends_at,
       usage_limit, per_user_limit, times_used, is_active
FROM coupons
WHERE code = $1
`
	var c domain.Coupon
	err := r.pool.QueryRow(ctx, q, code).Scan(
		&c.ID,
		&c.Code,
		&c.FixedAmountCents,
		&c.Percentage,
		&c.FreeShipping,
		&c.StartsAt,
		&c.EndsAt,
		&c.UsageLimit,
		&c.PerUserLimit,
		&c.TimesUsed,
		&c.IsActive,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, coupon domain.Coupon) (*domain.Coupon, error) {
	const q = `
INSERT INTO coupons (code, fixed_amount_cents, percentage, free_shipping, starts_at, ends_at, usage_limit, per_user_limit, is_active)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (code) DO UPDATE SET
    fixed_amount_cents = EXCLUDED.fixed_amount_cents,
    percentage = EXCLUDED.percentage,
    free_shipping = EXCLUDED.free_shipping,
    starts_at = EXCLUDED.starts_at,
    ends_at = EXCLUDED.ends_at,
    usage_limit = EXCLUDED.usage_limit,
    per_user_limit = EXCLUDED.per_user_limit,
    is_active = EXCLUDED.is_active
RETURNING id::text, times_used
`
	res := coupon
	err := r.pool.QueryRow(ctx, q,
		coupon.Code,
		coupon.FixedAmountCents,
		coupon.Percentage,
		coupon.FreeShipping,
		coupon.StartsAt,
		coupon.EndsAt,
		coupon.UsageLimit,
		coupon.PerUserLimit,
		coupon.IsActive,
	).Scan(&res.ID, &res.TimesUsed)
	if err != nil {
		return nil, err
	}
	return &res, nil
}
