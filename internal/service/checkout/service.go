package checkout

import (
	"context"
	"errors"
	"fmt"

	"magento-quote-replica/internal/domain"
)

// Service converts carts into orders. Conversion is one-way: the source cart
// is deleted on success, so a second PlaceOrder on the same id fails with
// the cart-not-found kind.
type Service struct {
	carts  cartRepo
	orders orderRepo
}

type cartRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.Cart, error)
	Delete(ctx context.Context, cartID int64) error
	Restore(ctx context.Context, cart *domain.Cart) error
}

type orderRepo interface {
	Convert(ctx context.Context, cart *domain.Cart) (int64, error)
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
}

// New creates a Service with its collaborators.
func New(carts cartRepo, orders orderRepo) *Service {
	return &Service{carts: carts, orders: orders}
}

// PlaceOrder converts the cart into a new order and returns the order id.
// Empty carts are rejected before any mutation. Deleting the cart first
// claims it: Delete succeeds for exactly one caller, so concurrent
// conversions of the same cart mint exactly one order. If the order write
// then fails, the claimed cart is restored.
func (s *Service) PlaceOrder(ctx context.Context, cartID int64) (int64, error) {
	cart, err := s.carts.GetByID(ctx, cartID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, domain.ErrCartNotFound
		}
		return 0, err
	}

	if len(cart.Items) == 0 {
		return 0, domain.ErrEmptyCart
	}

	if err := s.carts.Delete(ctx, cart.ID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, domain.ErrCartNotFound
		}
		return 0, err
	}

	orderID, err := s.orders.Convert(ctx, cart)
	if err != nil {
		if restoreErr := s.carts.Restore(ctx, cart); restoreErr != nil {
			return 0, fmt.Errorf("convert cart: %w (restore failed: %v)", err, restoreErr)
		}
		return 0, err
	}

	return orderID, nil
}

// GetOrder returns a placed order with its lines.
func (s *Service) GetOrder(ctx context.Context, orderID int64) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}
