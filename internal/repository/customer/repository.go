package customer

import (
	"context"

	"magento-quote-replica/internal/domain"
)

// Repository resolves customer identities. The cart service never writes
// customers.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*domain.Customer, error)
}
