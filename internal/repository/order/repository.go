package order

import (
	"context"

	"magento-quote-replica/internal/domain"
)

// Repository is the order sink: it accepts a finalized cart and mints a new
// order, copying one order line per cart item.
type Repository interface {
	Convert(ctx context.Context, cart *domain.Cart) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
}
