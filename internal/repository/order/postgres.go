package order

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

func (r *postgresRepo) Commit(ctx context.Context, in CommitInput) (*domain.Order, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// Conditional decrement: only touches the row if stock suffices or the
	// product backorders. Zero rows affected means the availability check this
	// request passed earlier has been invalidated by a concurrent checkout.
	const deductQ = `
UPDATE products
SET stock_quantity = GREATEST(stock_quantity - $2, 0)
WHERE id = $1 AND (allow_backorder OR stock_quantity >= $2)
`
	for _, d := range in.Stock {
		cmd, err := tx.Exec(ctx, deductQ, d.ProductID, d.Quantity)
		if err != nil {
			return nil, err
		}
		if cmd.RowsAffected() == 0 {
			r.logger.Printf("order repo: stock conflict product_id=%s qty=%d", d.ProductID, d.Quantity)
			return nil, domain.ErrConflict
		}
	}

	if in.CouponID != nil {
		// Compare-and-increment keeps times_used at or below usage_limit even
		// under concurrent redemptions of a near-limit coupon.
		const couponQ = `
UPDATE coupons
SET times_used = times_used + 1
WHERE id = $1 AND is_active AND (usage_limit IS NULL OR times_used < usage_limit)
`
		cmd, err := tx.Exec(ctx, couponQ, *in.CouponID)
		if err != nil {
			return nil, err
		}
		if cmd.RowsAffected() == 0 {
			r.logger.Printf("order repo: coupon conflict coupon_id=%s", *in.CouponID)
			return nil, domain.ErrConflict
		}
	}

	const orderQ = `
INSERT INTO orders (order_number, user_id, address_id, shipping_method_id, coupon_code,
                    subtotal_cents, discount_cents, shipping_cents, total_cents, status, payment_status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
RETURNING id::text, created_at
`
	res := in.Order
	if err := tx.QueryRow(ctx, orderQ,
		in.Order.OrderNumber,
		in.Order.UserID,
		in.Order.AddressID,
		in.Order.ShippingMethodID,
		in.Order.CouponCode,
		in.Order.SubtotalCents,
		in.Order.DiscountCents,
		in.Order.ShippingCents,
		in.Order.TotalCents,
		in.Order.Status,
		in.Order.PaymentStatus,
	).Scan(&res.ID, &res.CreatedAt); err != nil {
		return nil, err
	}

	const itemQ = `
INSERT INTO order_items (order_id, product_id, product_name, unit_price_cents, quantity)
VALUES ($1, $2, $3, $4, $5)
RETURNING id::text
`
	const attrQ = `
INSERT INTO order_item_attributes (order_item_id, attribute_id, attribute_name, value_id, value_name, value)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id::text
`
	res.Items = make([]domain.OrderItem, 0, len(in.Items))
	for _, item := range in.Items {
		saved := item
		saved.OrderID = res.ID
		if err := tx.QueryRow(ctx, itemQ,
			res.ID,
			item.ProductID,
			item.ProductName,
			item.UnitPriceCents,
			item.Quantity,
		).Scan(&saved.ID); err != nil {
			return nil, err
		}
		saved.Attributes = make([]domain.OrderItemAttribute, 0, len(item.Attributes))
		for _, attr := range item.Attributes {
			savedAttr := attr
			savedAttr.OrderItemID = saved.ID
			if err := tx.QueryRow(ctx, attrQ,
				saved.ID,
				attr.AttributeID,
				attr.AttributeName,
				attr.ValueID,
				attr.ValueName,
				attr.Value,
			).Scan(&savedAttr.ID); err != nil {
				return nil, err
			}
			saved.Attributes = append(saved.Attributes, savedAttr)
		}
		res.Items = append(res.Items, saved)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM cart_lines WHERE cart_id = $1`, in.CartID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.Printf("order repo: committed order_number=%s user_id=%s total_cents=%d", res.OrderNumber, res.UserID, res.TotalCents)
	return &res, nil
}

func (r *postgresRepo) GetByIDForUser(ctx context.Context, userID, id string) (*domain.Order, error) {
	const q = `
SELECT id::text, order_number, user_id::text, address_id::text, shipping_method_id::text, coupon_code,
       subtotal_cents, discount_cents, shipping_cents, total_cents, status, payment_status, tracking_number, created_at
FROM orders
WHERE user_id = $1 AND id = $2
`
	var o domain.Order
	err := r.pool.QueryRow(ctx, q, userID, id).Scan(
		&o.ID,
		&o.OrderNumber,
		&o.UserID,
		&o.AddressID,
		&o.ShippingMethodID,
		&o.CouponCode,
		&o.SubtotalCents,
		&o.DiscountCents,
		&o.ShippingCents,
		&o.TotalCents,
		&o.Status,
		&o.PaymentStatus,
		&o.TrackingNumber,
		&o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	const itemsQ = `
SELECT i.id::text, i.order_id::text, i.product_id::text, i.product_name, i.unit_price_cents, i.quantity
FROM order_items i
WHERE i.order_id = $1
ORDER BY i.id
`
	rows, err := r.pool.Query(ctx, itemsQ, o.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName, &item.UnitPriceCents, &item.Quantity); err != nil {
			return nil, err
		}
		o.Items = append(o.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	const attrsQ = `
SELECT a.id::text, a.order_item_id::text, a.attribute_id::text, a.attribute_name, a.value_id::text, a.value_name, a.value
FROM order_item_attributes a
JOIN order_items i ON i.id = a.order_item_id
WHERE i.order_id = $1
`
	attrRows, err := r.pool.Query(ctx, attrsQ, o.ID)
	if err != nil {
		return nil, err
	}
	defer attrRows.Close()
	byItem := make(map[string][]domain.OrderItemAttribute)
	for attrRows.Next() {
		var a domain.OrderItemAttribute
		if err := attrRows.Scan(&a.ID, &a.OrderItemID, &a.AttributeID, &a.AttributeName, &a.ValueID, &a.ValueName, &a.Value); err != nil {
			return nil, err
		}
		byItem[a.OrderItemID] = append(byItem[a.OrderItemID], a)
	}
	if err := attrRows.Err(); err != nil {
		return nil, err
	}
	for i := range o.Items {
		o.Items[i].Attributes = byItem[o.Items[i].ID]
	}

	return &o, nil
}

func (r *postgresRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	const q = `
SELECT id::text, order_number, user_id::text, address_id::text, shipping_method_id::text, coupon_code,
       subtotal_cents, discount_cents, shipping_cents, total_cents, status, payment_status, tracking_number, created_at
FROM orders
WHERE user_id = $1
ORDER BY created_at DESC
`
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Order
	for rows.Next() {
		var o domain.Order
		if err := rows.Scan(
			&o.ID,
			&o.OrderNumber,
			&o.UserID,
			&o.AddressID,
			&o.ShippingMethodID,
			&o.CouponCode,
			&o.SubtotalCents,
			&o.DiscountCents,
			&o.ShippingCents,
			&o.TotalCents,
			&o.Status,
			&o.PaymentStatus,
			&o.TrackingNumber,
			&o.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, o)
	}
	return result, rows.Err()
}
