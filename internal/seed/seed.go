package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Apply inserts fixture data for manual testing: the default store, one
// registered customer, an anonymous active cart reserved as "test01", and an
// inactive customer-owned cart reserved as "test_order_1" holding one item.
// The customer cart stays inactive so the customer can still be assigned an
// anonymous cart without tripping the one-active-cart rule. Idempotent via
// ON CONFLICT / reserved-order-id upserts.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	storeID, err := ensureStore(ctx, pool, "default", "Default Store")
	if err != nil {
		return fmt.Errorf("ensure store: %w", err)
	}

	customerID, err := ensureCustomer(ctx, pool, "customer@example.com", "John", "Smith", storeID)
	if err != nil {
		return fmt.Errorf("ensure customer: %w", err)
	}

	if _, err := ensureCart(ctx, pool, "test01", storeID, nil, true); err != nil {
		return fmt.Errorf("ensure anonymous cart: %w", err)
	}

	customerCartID, err := ensureCart(ctx, pool, "test_order_1", storeID, &customerID, false)
	if err != nil {
		return fmt.Errorf("ensure customer cart: %w", err)
	}
	if err := ensureItem(ctx, pool, customerCartID, "simple", "Simple Product", "10.0000", 1); err != nil {
		return fmt.Errorf("ensure cart item: %w", err)
	}

	return nil
}

func ensureStore(ctx context.Context, pool *pgxpool.Pool, code, name string) (int64, error) {
	const q = `
INSERT INTO stores (code, name)
VALUES ($1, $2)
ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name
RETURNING id
`
	var id int64
	if err := pool.QueryRow(ctx, q, code, name).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func ensureCustomer(ctx context.Context, pool *pgxpool.Pool, email, first, last string, storeID int64) (int64, error) {
	const q = `
INSERT INTO customers (email, first_name, last_name, store_id)
VALUES ($1, $2, $3, $4)
ON CONFLICT (email) DO UPDATE SET first_name = EXCLUDED.first_name, last_name = EXCLUDED.last_name
RETURNING id
`
	var id int64
	if err := pool.QueryRow(ctx, q, email, first, last, storeID).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func ensureCart(ctx context.Context, pool *pgxpool.Pool, reservedOrderID string, storeID int64, customerID *int64, active bool) (int64, error) {
	const existing = `SELECT id FROM carts WHERE reserved_order_id = $1`
	var id int64
	err := pool.QueryRow(ctx, existing, reservedOrderID).Scan(&id)
	if err == nil {
		return id, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return 0, err
	}

	const q = `
INSERT INTO carts (store_id, customer_id, customer_is_guest, is_active, reserved_order_id)
VALUES ($1, $2, $3, $4, $5)
RETURNING id
`
	if err := pool.QueryRow(ctx, q, storeID, customerID, customerID == nil, active, reservedOrderID).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

func ensureItem(ctx context.Context, pool *pgxpool.Pool, cartID int64, sku, name, price string, qty int) error {
	const existing = `SELECT EXISTS (SELECT 1 FROM cart_items WHERE cart_id = $1 AND sku = $2)`
	var found bool
	if err := pool.QueryRow(ctx, existing, cartID, sku).Scan(&found); err != nil {
		return err
	}
	if found {
		return nil
	}

	if _, err := pool.Exec(ctx, `
INSERT INTO cart_items (cart_id, sku, name, price, quantity, row_total)
VALUES ($1, $2, $3, $4::numeric, $5, $4::numeric * $5)
`, cartID, sku, name, price, qty); err != nil {
		return err
	}

	_, err := pool.Exec(ctx, `
UPDATE carts
SET subtotal = (SELECT COALESCE(SUM(row_total), 0) FROM cart_items WHERE cart_id = $1),
    grand_total = (SELECT COALESCE(SUM(row_total), 0) FROM cart_items WHERE cart_id = $1),
    updated_at = now()
WHERE id = $1
`, cartID)
	return err
}
