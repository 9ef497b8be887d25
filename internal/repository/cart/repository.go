package cart

import (
	"context"

	"magento-quote-replica/internal/domain"
)

// CreateCartInput carries the fields fixed at cart creation time.
type CreateCartInput struct {
	StoreID         int64
	ReservedOrderID string
	Currency        domain.CartCurrency
}

// Repository persists carts. The guarded writes carry the per-cart
// atomicity contract: Assign binds a customer only if the cart is still
// anonymous and the customer holds no active cart (domain.ErrConflict and
// domain.ErrActiveCartExists on losing those races), and Delete succeeds for
// exactly one caller per cart id, so claim-by-delete serializes conversion.
// Restore compensates a claimed cart when the downstream write fails.
type Repository interface {
	Create(ctx context.Context, in CreateCartInput) (*domain.Cart, error)
	GetByID(ctx context.Context, id int64) (*domain.Cart, error)
	GetByReservedOrderID(ctx context.Context, reservedOrderID string) (*domain.Cart, error)
	GetActiveByCustomer(ctx context.Context, customerID int64) (*domain.Cart, error)
	Save(ctx context.Context, cart *domain.Cart) error
	Assign(ctx context.Context, cart *domain.Cart) error
	AddItem(ctx context.Context, cartID int64, item domain.CartItem) error
	Delete(ctx context.Context, cartID int64) error
	Restore(ctx context.Context, cart *domain.Cart) error
}
