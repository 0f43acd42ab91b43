package cart

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

func (r *postgresRepo) Create(ctx context.Context, in CreateCartInput) (*domain.Cart, error) {
	const q = `
INSERT INTO carts (user_id, session_id)
VALUES ($1, $2)
RETURNING id::text, user_id::text, session_id, created_at
`
	var cart domain.Cart
	if err := r.pool.QueryRow(ctx, q, in.UserID, in.SessionID).Scan(
		&cart.ID,
		&cart.UserID,
		&cart.SessionID,
		&cart.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Cart, error) {
	const q = `
SELECT id::text, user_id::text, session_id, created_at
FROM carts
WHERE id = $1
`
	return r.fetchCart(ctx, q, id)
}

func (r *postgresRepo) GetActiveByUser(ctx context.Context, userID string) (*domain.Cart, error) {
	const q = `
SELECT id::text, user_id::text, session_id, created_at
FROM carts
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT 1
`
	return r.fetchCart(ctx, q, userID)
}

func (r *postgresRepo) GetActiveBySession(ctx context.Context, sessionID string) (*domain.Cart, error) {
	const q = `
SELECT id::text, user_id::text, session_id, created_at
FROM carts
WHERE session_id = $1
ORDER BY created_at DESC
LIMIT 1
`
	return r.fetchCart(ctx, q, sessionID)
}

func (r *postgresRepo) AddLine(ctx context.Context, cartID string, product domain.Product, quantity int, selections []domain.AttributeSelection) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var lineID string
	var existingQty int
	err = tx.QueryRow(ctx, `
SELECT id::text, quantity
FROM cart_lines
WHERE cart_id = $1 AND product_id = $2
`, cartID, product.ID).Scan(&lineID, &existingQty)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	if err == nil {
		if _, err := tx.Exec(ctx, `
UPDATE cart_lines
SET quantity = $1, attribute_selections = $2
WHERE id = $3
`, existingQty+quantity, selections, lineID); err != nil {
			return err
		}
	} else {
		snapshot := map[string]interface{}{
			"sku":        product.SKU,
			"name":       product.Name,
			"priceCents": product.PriceCents,
		}
		if selections == nil {
			selections = []domain.AttributeSelection{}
		}
		if _, err := tx.Exec(ctx, `
INSERT INTO cart_lines (cart_id, product_id, quantity, attribute_selections, snapshot)
VALUES ($1, $2, $3, $4, $5)
`, cartID, product.ID, quantity, selections, snapshot); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *postgresRepo) ChangeLineQuantity(ctx context.Context, cartID, lineID string, quantity int) error {
	if quantity <= 0 {
		return r.RemoveLine(ctx, cartID, lineID)
	}
	cmd, err := r.pool.Exec(ctx, `
UPDATE cart_lines
SET quantity = $1
WHERE id = $2 AND cart_id = $3
`, quantity, lineID, cartID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) RemoveLine(ctx context.Context, cartID, lineID string) error {
	cmd, err := r.pool.Exec(ctx, `
DELETE FROM cart_lines
WHERE id = $1 AND cart_id = $2
`, lineID, cartID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) fetchCart(ctx context.Context, cartQuery string, args ...interface{}) (*domain.Cart, error) {
	var cart domain.Cart
	err := r.pool.QueryRow(ctx, cartQuery, args...).Scan(
		&cart.ID,
		&cart.UserID,
		&cart.SessionID,
		&cart.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	// Lines carry the live product row so callers always price against the
	// current catalog, never a stale snapshot.
	const linesQuery = `
SELECT l.id::text, l.cart_id::text, l.product_id::text, l.quantity, l.attribute_selections, l.snapshot, l.created_at,
       p.id::text, p.sku, p.name, COALESCE(p.description, ''), p.price_cents, p.tax_cents, p.stock_quantity, p.allow_backorder, p.created_at
FROM cart_lines l
JOIN products p ON p.id = l.product_id
WHERE l.cart_id = $1
ORDER BY l.created_at ASC
`
	rows, err := r.pool.Query(ctx, linesQuery, cart.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.CartLine
		var p domain.Product
		if err := rows.Scan(
			&line.ID,
			&line.CartID,
			&line.ProductID,
			&line.Quantity,
			&line.Selections,
			&line.Snapshot,
			&line.CreatedAt,
			&p.ID,
			&p.SKU,
			&p.Name,
			&p.Description,
			&p.PriceCents,
			&p.TaxCents,
			&p.StockQuantity,
			&p.AllowBackorder,
			&p.CreatedAt,
		); err != nil {
			return nil, err
		}
		line.Product = &p
		cart.Lines = append(cart.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &cart, nil
}
