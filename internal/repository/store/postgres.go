package store

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

func (r *postgresRepo) GetByID(ctx context.Context, id int64) (*domain.Store, error) {
	const q = `
SELECT id, code, name, website_id, is_active,
       global_currency_code, base_currency_code, store_currency_code,
       base_to_global_rate, store_to_base_rate
FROM stores
WHERE id = $1
`
	var s domain.Store
	err := r.pool.QueryRow(ctx, q, id).Scan(
		&s.ID,
		&s.Code,
		&s.Name,
		&s.WebsiteID,
		&s.IsActive,
		&s.GlobalCurrencyCode,
		&s.BaseCurrencyCode,
		&s.StoreCurrencyCode,
		&s.BaseToGlobalRate,
		&s.StoreToBaseRate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}
