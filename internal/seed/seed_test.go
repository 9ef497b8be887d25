package seed

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"magento-quote-replica/internal/migrate"
)

func TestApplyFixtures(t *testing.T) {
	ctx := context.Background()
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	defer pool.Close()

	if err := migrate.Apply(ctx, pool); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	if _, err := pool.Exec(ctx, `TRUNCATE order_items, orders, cart_items, carts, customers, stores RESTART IDENTITY CASCADE`); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}

	// Applying twice must not duplicate fixtures.
	if err := Apply(ctx, pool); err != nil {
		t.Fatalf("first apply: %v", err)
	}
	if err := Apply(ctx, pool); err != nil {
		t.Fatalf("second apply: %v", err)
	}

	var anonymousActive bool
	var anonymousOwner *int64
	err = pool.QueryRow(ctx, `SELECT is_active, customer_id FROM carts WHERE reserved_order_id = 'test01'`).Scan(&anonymousActive, &anonymousOwner)
	if err != nil {
		t.Fatalf("load anonymous cart: %v", err)
	}
	if !anonymousActive || anonymousOwner != nil {
		t.Fatalf("expected test01 anonymous and active, got active=%v owner=%v", anonymousActive, anonymousOwner)
	}

	// The customer cart stays inactive so assigning the customer an
	// anonymous cart does not trip the one-active-cart rule.
	var customerActive bool
	var customerOwner *int64
	err = pool.QueryRow(ctx, `SELECT is_active, customer_id FROM carts WHERE reserved_order_id = 'test_order_1'`).Scan(&customerActive, &customerOwner)
	if err != nil {
		t.Fatalf("load customer cart: %v", err)
	}
	if customerActive {
		t.Fatalf("expected test_order_1 inactive")
	}
	if customerOwner == nil {
		t.Fatalf("expected test_order_1 owned by the seeded customer")
	}

	var items int
	err = pool.QueryRow(ctx, `SELECT COUNT(*) FROM cart_items ci JOIN carts c ON c.id = ci.cart_id WHERE c.reserved_order_id = 'test_order_1'`).Scan(&items)
	if err != nil {
		t.Fatalf("count items: %v", err)
	}
	if items != 1 {
		t.Fatalf("expected one seeded item, got %d", items)
	}
}
