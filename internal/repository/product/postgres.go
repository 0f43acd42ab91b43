package product

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"storefront/internal/domain"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const productColumns = `id::text, sku, name, COALESCE(description, ''), price_cents, tax_cents, stock_quantity, allow_backorder, created_at`

func scanProduct(row pgx.Row, p *domain.Product) error {
	return row.Scan(&p.ID, &p.SKU, &p.Name, &p.Description, &p.PriceCents, &p.TaxCents, &p.StockQuantity, &p.AllowBackorder, &p.CreatedAt)
}

func (r *postgresRepo) List(ctx context.Context) ([]domain.Product, error) {
	const q = `
SELECT ` + productColumns + `
FROM products
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("product repo: list error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Product
	for rows.Next() {
		var p domain.Product
		if err := scanProduct(rows, &p); err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("product repo: list rows error=%v", err)
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	const q = `
SELECT ` + productColumns + `
FROM products
WHERE id = $1
`
	var p domain.Product
	if err := scanProduct(r.pool.QueryRow(ctx, q, id), &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: get id=%s error=%v", id, err)
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) GetBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	const q = `
SELECT ` + productColumns + `
FROM products
WHERE sku = $1
`
	var p domain.Product
	if err := scanProduct(r.pool.QueryRow(ctx, q, sku), &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("product repo: get sku=%s error=%v", sku, err)
		return nil, err
	}
	return &p, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, product domain.Product) (*domain.Product, error) {
	const q = `
INSERT INTO products (sku, name, description, price_cents, tax_cents, stock_quantity, allow_backorder)
VALUES ($1, $2, NULLIF($3, ''), $4, $5, $6, $7)
ON CONFLICT (sku) DO UPDATE SET
    name = EXCLUDED.name,
    description = EXCLUDED.description,
    price_cents = EXCLUDED.price_cents,
    tax_cents = EXCLUDED.tax_cents,
    stock_quantity = EXCLUDED.stock_quantity,
    allow_backorder = EXCLUDED.allow_backorder
RETURNING id::text, created_at
`
	res := product
	err := r.pool.QueryRow(ctx, q,
		product.SKU,
		product.Name,
		product.Description,
		product.PriceCents,
		product.TaxCents,
		product.StockQuantity,
		product.AllowBackorder,
	).Scan(&res.ID, &res.CreatedAt)
	if err != nil {
		r.logger.Printf("product repo: upsert sku=%s error=%v", product.SKU, err)
		return nil, err
	}
	return &res, nil
}

func (r *postgresRepo) MappingsForProducts(ctx context.Context, productIDs []string) ([]domain.AttributeMapping, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}
	const q = `
SELECT m.product_id::text, m.attribute_id::text, a.name, m.value_id::text, COALESCE(v.name, '')
FROM product_attribute_mappings m
JOIN product_attributes a ON a.id = m.attribute_id
LEFT JOIN product_attribute_values v ON v.id = m.value_id
WHERE m.product_id = ANY($1)
`
	rows, err := r.pool.Query(ctx, q, productIDs)
	if err != nil {
		r.logger.Printf("product repo: mappings error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.AttributeMapping
	for rows.Next() {
		var m domain.AttributeMapping
		if err := rows.Scan(&m.ProductID, &m.AttributeID, &m.AttributeName, &m.ValueID, &m.ValueName); err != nil {
			return nil, err
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
