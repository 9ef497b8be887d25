package order

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"magento-quote-replica/internal/domain"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Convert(ctx context.Context, cart *domain.Cart) (int64, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	const q = `
INSERT INTO orders (cart_id, store_id, customer_id, grand_total, currency)
VALUES ($1, $2, $3, $4, $5)
RETURNING id
`
	var orderID int64
	if err := tx.QueryRow(ctx, q,
		cart.ID,
		cart.StoreID,
		cart.CustomerID,
		cart.Totals.GrandTotal,
		cart.Currency.QuoteCurrencyCode,
	).Scan(&orderID); err != nil {
		return 0, err
	}

	for _, item := range cart.Items {
		if _, err := tx.Exec(ctx, `
INSERT INTO order_items (order_id, sku, name, price, quantity, row_total)
VALUES ($1, $2, $3, $4, $5, $6)
`, orderID, item.SKU, item.Name, item.Price, item.Quantity, item.RowTotal); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return orderID, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	const q = `
SELECT id, cart_id, store_id, customer_id, grand_total, currency, created_at
FROM orders
WHERE id = $1
`
	var o domain.Order
	var customerID *int64
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&o.ID,
		&o.CartID,
		&o.StoreID,
		&customerID,
		&o.GrandTotal,
		&o.Currency,
		&o.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	o.CustomerID = customerID

	const itemsQuery = `
SELECT id, order_id, sku, name, price, quantity, row_total
FROM order_items
WHERE order_id = $1
ORDER BY id ASC
`
	rows, err := r.pool.Query(ctx, itemsQuery, o.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.SKU,
			&item.Name,
			&item.Price,
			&item.Quantity,
			&item.RowTotal,
		); err != nil {
			return nil, err
		}
		o.Items = append(o.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &o, nil
}
