package address

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

const addressColumns = `id::text, user_id::text, country_id::text, city_id::text, street, full_name, mobile, is_default, created_at`

func scanAddress(row pgx.Row, a *domain.UserAddress) error {
	return row.Scan(&a.ID, &a.UserID, &a.CountryID, &a.CityID, &a.Street, &a.FullName, &a.Mobile, &a.IsDefault, &a.CreatedAt)
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.UserAddress, error) {
	const q = `
SELECT ` + addressColumns + `
FROM user_addresses
WHERE user_id = $1
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.UserAddress
	for rows.Next() {
		var a domain.UserAddress
		if err := scanAddress(rows, &a); err != nil {
			return nil, err
		}
		result = append(result, a)
	}
	return result, rows.Err()
}

func (r *postgresRepo) GetByIDForUser(ctx context.Context, userID, id string) (*domain.UserAddress, error) {
	const q = `
SELECT ` + addressColumns + `
FROM user_addresses
WHERE user_id = $1 AND id = $2
`
	var a domain.UserAddress
	if err := scanAddress(r.pool.QueryRow(ctx, q, userID, id), &a); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *postgresRepo) Create(ctx context.Context, addr domain.UserAddress) (*domain.UserAddress, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	if addr.IsDefault {
		if _, err := tx.Exec(ctx, `
UPDATE user_addresses
SET is_default = FALSE
WHERE user_id = $1 AND is_default
`, addr.UserID); err != nil {
			return nil, err
		}
	}

	const q = `
INSERT INTO user_addresses (user_id, country_id, city_id, street, full_name, mobile, is_default)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id::text, created_at
`
	res := addr
	if err := tx.QueryRow(ctx, q,
		addr.UserID,
		addr.CountryID,
		addr.CityID,
		addr.Street,
		addr.FullName,
		addr.Mobile,
		addr.IsDefault,
	).Scan(&res.ID, &res.CreatedAt); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return &res, nil
}
