package geo

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

func (r *postgresRepo) ListCountries(ctx context.Context) ([]domain.Country, error) {
	rows, err := r.pool.Query(ctx, `SELECT id::text, name FROM countries ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Country
	for rows.Next() {
		var c domain.Country
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (r *postgresRepo) ListCitiesByCountry(ctx context.Context, countryID string) ([]domain.City, error) {
	const q = `
SELECT id::text, country_id::text, name
FROM cities
WHERE country_id = $1
ORDER BY name
`
	rows, err := r.pool.Query(ctx, q, countryID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.City
	for rows.Next() {
		var c domain.City
		if err := rows.Scan(&c.ID, &c.CountryID, &c.Name); err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	return result, rows.Err()
}

func (r *postgresRepo) GetCity(ctx context.Context, id string) (*domain.City, error) {
	const q = `
SELECT id::text, country_id::text, name
FROM cities
WHERE id = $1
`
	var c domain.City
	if err := r.pool.QueryRow(ctx, q, id).Scan(&c.ID, &c.CountryID, &c.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}
