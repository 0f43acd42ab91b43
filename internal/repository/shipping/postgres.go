package shipping

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

const methodColumns = `m.id::text, m.zone_id::text, m.name, m.cost_type, m.cost_cents, m.free_shipping_threshold_cents, m.is_default`

func scanMethod(row pgx.Row) (*domain.ShippingMethod, error) {
	var m domain.ShippingMethod
	err := row.Scan(&m.ID, &m.ZoneID, &m.Name, &m.CostType, &m.CostCents, &m.FreeShippingThresholdCents, &m.IsDefault)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *postgresRepo) GetMethodByID(ctx context.Context, id string) (*domain.ShippingMethod, error) {
	const q = `
SELECT ` + methodColumns + `
FROM shipping_methods m
WHERE m.id = $1
`
	return scanMethod(r.pool.QueryRow(ctx, q, id))
}

func (r *postgresRepo) ResolveForCity(ctx context.Context, countryID, cityID string) (*domain.ShippingMethod, error) {
	// Specificity ranks: city match > country-wide zone > global zone, then the
	// zone's default method before any other.
	const q = `
SELECT ` + methodColumns + `
FROM shipping_methods m
JOIN shipping_zones z ON z.id = m.zone_id
WHERE (z.city_id = $2)
   OR (z.city_id IS NULL AND z.country_id = $1)
   OR (z.city_id IS NULL AND z.country_id IS NULL)
ORDER BY
    CASE
        WHEN z.city_id = $2 THEN 0
        WHEN z.country_id = $1 THEN 1
        ELSE 2
    END,
    m.is_default DESC,
    m.id
LIMIT 1
`
	return scanMethod(r.pool.QueryRow(ctx, q, countryID, cityID))
}
