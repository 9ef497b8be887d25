package cart

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"magento-quote-replica/internal/domain"
)

const cartColumns = `id, store_id, customer_id, customer_firstname, customer_lastname, customer_is_guest,
       is_active, is_virtual, reserved_order_id, orig_order_id, subtotal, grand_total,
       global_currency_code, base_currency_code, quote_currency_code, store_currency_code,
       base_to_global_rate, base_to_quote_rate, store_to_base_rate, store_to_quote_rate,
       created_at, updated_at`

type postgresRepo struct {
	pool *pgxpool.Pool
}

// NewPostgres returns a Repository backed by Postgres.
func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) Create(ctx context.Context, in CreateCartInput) (*domain.Cart, error) {
	const q = `
INSERT INTO carts (
    store_id, reserved_order_id,
    global_currency_code, base_currency_code, quote_currency_code, store_currency_code,
    base_to_global_rate, base_to_quote_rate, store_to_base_rate, store_to_quote_rate
) VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING ` + cartColumns
	row := r.pool.QueryRow(ctx, q,
		in.StoreID,
		in.ReservedOrderID,
		in.Currency.GlobalCurrencyCode,
		in.Currency.BaseCurrencyCode,
		in.Currency.QuoteCurrencyCode,
		in.Currency.StoreCurrencyCode,
		in.Currency.BaseToGlobalRate,
		in.Currency.BaseToQuoteRate,
		in.Currency.StoreToBaseRate,
		in.Currency.StoreToQuoteRate,
	)
	cart, err := scanCart(row)
	if err != nil {
		return nil, err
	}
	return cart, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Cart, error) {
	return r.fetchCart(ctx, `SELECT `+cartColumns+` FROM carts WHERE id = $1`, id)
}

func (r *postgresRepo) GetByReservedOrderID(ctx context.Context, reservedOrderID string) (*domain.Cart, error) {
	return r.fetchCart(ctx, `SELECT `+cartColumns+` FROM carts WHERE reserved_order_id = $1`, reservedOrderID)
}

func (r *postgresRepo) GetActiveByCustomer(ctx context.Context, customerID int64) (*domain.Cart, error) {
	const q = `SELECT ` + cartColumns + `
FROM carts
WHERE customer_id = $1 AND is_active
ORDER BY created_at DESC
LIMIT 1`
	return r.fetchCart(ctx, q, customerID)
}

func (r *postgresRepo) Save(ctx context.Context, cart *domain.Cart) error {
	const q = `
UPDATE carts
SET customer_id = $1,
    customer_firstname = $2,
    customer_lastname = $3,
    customer_is_guest = $4,
    is_active = $5,
    is_virtual = $6,
    reserved_order_id = COALESCE(reserved_order_id, NULLIF($7, '')),
    orig_order_id = $8,
    subtotal = $9,
    grand_total = $10,
    updated_at = now()
WHERE id = $11`
	cmd, err := r.pool.Exec(ctx, q,
		cart.CustomerID,
		cart.CustomerFirstname,
		cart.CustomerLastname,
		cart.CustomerIsGuest,
		cart.IsActive,
		cart.IsVirtual,
		cart.ReservedOrderID,
		cart.OrigOrderID,
		cart.Totals.Subtotal,
		cart.Totals.GrandTotal,
		cart.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Assign is a compare-and-set: the customer fields are written only if the
// cart row is still anonymous. The partial unique index on active carts per
// customer turns a lost one-active-cart race into a unique violation.
func (r *postgresRepo) Assign(ctx context.Context, cart *domain.Cart) error {
	const q = `
UPDATE carts
SET customer_id = $1,
    customer_firstname = $2,
    customer_lastname = $3,
    customer_is_guest = FALSE,
    is_active = $4,
    updated_at = now()
WHERE id = $5 AND customer_id IS NULL`
	cmd, err := r.pool.Exec(ctx, q,
		cart.CustomerID,
		cart.CustomerFirstname,
		cart.CustomerLastname,
		cart.IsActive,
		cart.ID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return domain.ErrActiveCartExists
		}
		return err
	}
	if cmd.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, cart.ID); err != nil {
			return err
		}
		return domain.ErrConflict
	}
	return nil
}

func (r *postgresRepo) AddItem(ctx context.Context, cartID int64, item domain.CartItem) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var lockedID int64
	if err := tx.QueryRow(ctx, `SELECT id FROM carts WHERE id = $1 FOR UPDATE`, cartID).Scan(&lockedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		return err
	}

	if _, err := tx.Exec(ctx, `
INSERT INTO cart_items (cart_id, sku, name, price, quantity, row_total)
VALUES ($1, $2, $3, $4, $5, $6)
`, cartID, item.SKU, item.Name, item.Price, item.Quantity, item.RowTotal); err != nil {
		return err
	}

	if err := updateCartTotals(ctx, tx, cartID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *postgresRepo) Delete(ctx context.Context, cartID int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM carts WHERE id = $1`, cartID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Restore re-inserts a claimed cart after a failed conversion, keeping its
// original id and timestamps.
func (r *postgresRepo) Restore(ctx context.Context, cart *domain.Cart) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	const q = `
INSERT INTO carts (
    id, store_id, customer_id, customer_firstname, customer_lastname, customer_is_guest,
    is_active, is_virtual, reserved_order_id, orig_order_id, subtotal, grand_total,
    global_currency_code, base_currency_code, quote_currency_code, store_currency_code,
    base_to_global_rate, base_to_quote_rate, store_to_base_rate, store_to_quote_rate,
    created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''), $10, $11, $12,
          $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)
ON CONFLICT (id) DO NOTHING`
	if _, err := tx.Exec(ctx, q,
		cart.ID,
		cart.StoreID,
		cart.CustomerID,
		cart.CustomerFirstname,
		cart.CustomerLastname,
		cart.CustomerIsGuest,
		cart.IsActive,
		cart.IsVirtual,
		cart.ReservedOrderID,
		cart.OrigOrderID,
		cart.Totals.Subtotal,
		cart.Totals.GrandTotal,
		cart.Currency.GlobalCurrencyCode,
		cart.Currency.BaseCurrencyCode,
		cart.Currency.QuoteCurrencyCode,
		cart.Currency.StoreCurrencyCode,
		cart.Currency.BaseToGlobalRate,
		cart.Currency.BaseToQuoteRate,
		cart.Currency.StoreToBaseRate,
		cart.Currency.StoreToQuoteRate,
		cart.CreatedAt,
		cart.UpdatedAt,
	); err != nil {
		return err
	}

	for _, item := range cart.Items {
		if _, err := tx.Exec(ctx, `
INSERT INTO cart_items (id, cart_id, sku, name, price, quantity, row_total)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (id) DO NOTHING
`, item.ID, cart.ID, item.SKU, item.Name, item.Price, item.Quantity, item.RowTotal); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *postgresRepo) fetchCart(ctx context.Context, query string, args ...interface{}) (*domain.Cart, error) {
	cart, err := scanCart(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return nil, err
	}

	const itemsQuery = `
SELECT id, cart_id, sku, name, price, quantity, row_total
FROM cart_items
WHERE cart_id = $1
ORDER BY id ASC`
	rows, err := r.pool.Query(ctx, itemsQuery, cart.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item domain.CartItem
		if err := rows.Scan(
			&item.ID,
			&item.CartID,
			&item.SKU,
			&item.Name,
			&item.Price,
			&item.Quantity,
			&item.RowTotal,
		); err != nil {
			return nil, err
		}
		cart.Items = append(cart.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return cart, nil
}

func scanCart(row pgx.Row) (*domain.Cart, error) {
	var cart domain.Cart
	var customerID *int64
	var reservedOrderID *string
	err := row.Scan(
		&cart.ID,
		&cart.StoreID,
		&customerID,
		&cart.CustomerFirstname,
		&cart.CustomerLastname,
		&cart.CustomerIsGuest,
		&cart.IsActive,
		&cart.IsVirtual,
		&reservedOrderID,
		&cart.OrigOrderID,
		&cart.Totals.Subtotal,
		&cart.Totals.GrandTotal,
		&cart.Currency.GlobalCurrencyCode,
		&cart.Currency.BaseCurrencyCode,
		&cart.Currency.QuoteCurrencyCode,
		&cart.Currency.StoreCurrencyCode,
		&cart.Currency.BaseToGlobalRate,
		&cart.Currency.BaseToQuoteRate,
		&cart.Currency.StoreToBaseRate,
		&cart.Currency.StoreToQuoteRate,
		&cart.CreatedAt,
		&cart.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	cart.CustomerID = customerID
	if reservedOrderID != nil {
		cart.ReservedOrderID = *reservedOrderID
	}
	return &cart, nil
}

func updateCartTotals(ctx context.Context, tx pgx.Tx, cartID int64) error {
	_, err := tx.Exec(ctx, `
UPDATE carts
SET subtotal = COALESCE((
	SELECT SUM(row_total)
	FROM cart_items
	WHERE cart_id = $1
), 0),
    grand_total = COALESCE((
	SELECT SUM(row_total)
	FROM cart_items
	WHERE cart_id = $1
), 0),
    updated_at = now()
WHERE id = $1
`, cartID)
	return err
}
