package seed

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type productSeed struct {
	SKU            string
	Name           string
	Description    string
	PriceCents     int64
	TaxCents       int64
	Stock          int
	AllowBackorder bool
}

// Apply inserts basic seed data for manual testing. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	countryID, err := ensureCountry(ctx, pool, "Estonia")
	if err != nil {
		return fmt.Errorf("ensure country: %w", err)
	}
	cityID, err := ensureCity(ctx, pool, countryID, "Tallinn")
	if err != nil {
		return fmt.Errorf("ensure city: %w", err)
	}
	if _, err := ensureCity(ctx, pool, countryID, "Tartu"); err != nil {
		return fmt.Errorf("ensure city: %w", err)
	}

	products := []productSeed{
		{
			SKU:         "SKU-DEMO-TSHIRT",
			Name:        "Demo T-Shirt",
			Description: "Soft cotton tee for demo purposes",
			PriceCents:  1999,
			TaxCents:    200,
			Stock:       50,
		},
		{
			SKU:         "SKU-DEMO-MUG",
			Name:        "Demo Mug",
			Description: "Ceramic mug with demo logo",
			PriceCents:  1299,
			TaxCents:    130,
			Stock:       120,
		},
		{
			SKU:            "SKU-DEMO-POSTER",
			Name:           "Demo Poster",
			Description:    "Printed on demand, never out of stock",
			PriceCents:     899,
			Stock:          0,
			AllowBackorder: true,
		},
	}

	productIDs := make(map[string]string, len(products))
	for _, p := range products {
		id, err := upsertProduct(ctx, pool, p)
		if err != nil {
			return fmt.Errorf("upsert product %s: %w", p.SKU, err)
		}
		productIDs[p.SKU] = id
	}

	if err := seedAttributes(ctx, pool, productIDs["SKU-DEMO-TSHIRT"]); err != nil {
		return fmt.Errorf("seed attributes: %w", err)
	}
	if err := seedCoupons(ctx, pool); err != nil {
		return fmt.Errorf("seed coupons: %w", err)
	}
	if err := seedShipping(ctx, pool, countryID, cityID); err != nil {
		return fmt.Errorf("seed shipping: %w", err)
	}

	return nil
}

func ensureCountry(ctx context.Context, pool *pgxpool.Pool, name string) (string, error) {
	const q = `
INSERT INTO countries (name)
VALUES ($1)
ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
RETURNING id::text
`
	var id string
	if err := pool.QueryRow(ctx, q, name).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func ensureCity(ctx context.Context, pool *pgxpool.Pool, countryID, name string) (string, error) {
	const q = `
INSERT INTO cities (country_id, name)
VALUES ($1, $2)
ON CONFLICT (country_id, name) DO UPDATE SET name = EXCLUDED.name
RETURNING id::text
`
	var id string
	if err := pool.QueryRow(ctx, q, countryID, name).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func upsertProduct(ctx context.Context, pool *pgxpool.Pool, p productSeed) (string, error) {
	const q = `
INSERT INTO products (sku, name, description, price_cents, tax_cents, stock_quantity, allow_backorder)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (sku) DO UPDATE
SET name = EXCLUDED.name,
    description = EXCLUDED.description,
    price_cents = EXCLUDED.price_cents,
    tax_cents = EXCLUDED.tax_cents,
    allow_backorder = EXCLUDED.allow_backorder
RETURNING id::text
`
	var id string
	err := pool.QueryRow(ctx, q, p.SKU, p.Name, p.Description, p.PriceCents, p.TaxCents, p.Stock, p.AllowBackorder).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

// seedAttributes gives the t-shirt a fixed-choice size attribute and a
// free-form engraving attribute.
func seedAttributes(ctx context.Context, pool *pgxpool.Pool, productID string) error {
	sizeID, err := ensureAttribute(ctx, pool, "size")
	if err != nil {
		return err
	}
	engravingID, err := ensureAttribute(ctx, pool, "engraving")
	if err != nil {
		return err
	}

	for _, size := range []string{"S", "M", "L", "XL"} {
		valueID, err := ensureAttributeValue(ctx, pool, sizeID, size)
		if err != nil {
			return err
		}
		if err := ensureMapping(ctx, pool, productID, sizeID, &valueID); err != nil {
			return err
		}
	}

	// NULL value_id marks the attribute free-form.
	return ensureMapping(ctx, pool, productID, engravingID, nil)
}

func ensureAttribute(ctx context.Context, pool *pgxpool.Pool, name string) (string, error) {
	const q = `
INSERT INTO product_attributes (name)
VALUES ($1)
ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
RETURNING id::text
`
	var id string
	if err := pool.QueryRow(ctx, q, name).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func ensureAttributeValue(ctx context.Context, pool *pgxpool.Pool, attributeID, name string) (string, error) {
	const q = `
INSERT INTO product_attribute_values (attribute_id, name)
VALUES ($1, $2)
ON CONFLICT (attribute_id, name) DO UPDATE SET name = EXCLUDED.name
RETURNING id::text
`
	var id string
	if err := pool.QueryRow(ctx, q, attributeID, name).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func ensureMapping(ctx context.Context, pool *pgxpool.Pool, productID, attributeID string, valueID *string) error {
	const q = `
INSERT INTO product_attribute_mappings (product_id, attribute_id, value_id)
VALUES ($1, $2, $3)
ON CONFLICT (product_id, attribute_id, value_id) DO NOTHING
`
	_, err := pool.Exec(ctx, q, productID, attributeID, valueID)
	return err
}

func seedCoupons(ctx context.Context, pool *pgxpool.Pool) error {
	const q = `
INSERT INTO coupons (code, fixed_amount_cents, percentage, free_shipping, starts_at, ends_at, usage_limit, is_active)
VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE)
ON CONFLICT (code) DO UPDATE
SET fixed_amount_cents = EXCLUDED.fixed_amount_cents,
    percentage = EXCLUDED.percentage,
    free_shipping = EXCLUDED.free_shipping,
    starts_at = EXCLUDED.starts_at,
    ends_at = EXCLUDED.ends_at,
    usage_limit = EXCLUDED.usage_limit,
    is_active = TRUE
`
	now := time.Now().UTC()
	year := now.AddDate(1, 0, 0)

	coupons := []struct {
		code     string
		fixed    *int64
		pct      *float64
		freeShip bool
		limit    *int
	}{
		{code: "WELCOME10", pct: ptr(10.0), limit: ptr(1000)},
		{code: "FIVEOFF", fixed: ptr(int64(500))},
		{code: "SHIPFREE", freeShip: true, limit: ptr(200)},
	}
	for _, c := range coupons {
		if _, err := pool.Exec(ctx, q, c.code, c.fixed, c.pct, c.freeShip, now, year, c.limit); err != nil {
			return err
		}
	}
	return nil
}

func seedShipping(ctx context.Context, pool *pgxpool.Pool, countryID, cityID string) error {
	globalZone, err := ensureZone(ctx, pool, "Worldwide", nil, nil)
	if err != nil {
		return err
	}
	countryZone, err := ensureZone(ctx, pool, "Estonia", &countryID, nil)
	if err != nil {
		return err
	}
	cityZone, err := ensureZone(ctx, pool, "Tallinn", &countryID, &cityID)
	if err != nil {
		return err
	}

	methods := []struct {
		zoneID    string
		name      string
		costType  string
		cost      int64
		threshold *int64
		isDefault bool
	}{
		{zoneID: globalZone, name: "International Post", costType: "flat", cost: 1500, isDefault: true},
		{zoneID: countryZone, name: "Domestic Courier", costType: "flat", cost: 500, threshold: ptr(int64(5000)), isDefault: true},
		{zoneID: cityZone, name: "Same-Day Delivery", costType: "by_total", cost: 500, isDefault: true},
	}
	for _, m := range methods {
		if err := ensureMethod(ctx, pool, m.zoneID, m.name, m.costType, m.cost, m.threshold, m.isDefault); err != nil {
			return err
		}
	}
	return nil
}

func ensureZone(ctx context.Context, pool *pgxpool.Pool, name string, countryID, cityID *string) (string, error) {
	const sel = `
SELECT id::text FROM shipping_zones
WHERE name = $1 AND country_id IS NOT DISTINCT FROM $2 AND city_id IS NOT DISTINCT FROM $3
`
	var id string
	err := pool.QueryRow(ctx, sel, name, countryID, cityID).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return "", err
	}

	const ins = `
INSERT INTO shipping_zones (name, country_id, city_id)
VALUES ($1, $2, $3)
RETURNING id::text
`
	if err := pool.QueryRow(ctx, ins, name, countryID, cityID).Scan(&id); err != nil {
		return "", err
	}
	return id, nil
}

func ensureMethod(ctx context.Context, pool *pgxpool.Pool, zoneID, name, costType string, cost int64, threshold *int64, isDefault bool) error {
	const sel = `SELECT id::text FROM shipping_methods WHERE zone_id = $1 AND name = $2`
	var id string
	err := pool.QueryRow(ctx, sel, zoneID, name).Scan(&id)
	if err == nil {
		const upd = `
UPDATE shipping_methods
SET cost_type = $2, cost_cents = $3, free_shipping_threshold_cents = $4, is_default = $5
WHERE id = $1
`
		_, err = pool.Exec(ctx, upd, id, costType, cost, threshold, isDefault)
		return err
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	const ins = `
INSERT INTO shipping_methods (zone_id, name, cost_type, cost_cents, free_shipping_threshold_cents, is_default)
VALUES ($1, $2, $3, $4, $5, $6)
`
	_, err = pool.Exec(ctx, ins, zoneID, name, costType, cost, threshold, isDefault)
	return err
}

func ptr[T any](v T) *T { return &v }
