package store

import (
	"context"

	"magento-quote-replica/internal/domain"
)

// Repository reads sales-channel configuration.
type Repository interface {
	GetByID(ctx context.Context, id int64) (*domain.Store, error)
}
