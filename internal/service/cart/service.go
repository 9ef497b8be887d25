package cart

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"

	"magento-quote-replica/internal/domain"
	cartrepo "magento-quote-replica/internal/repository/cart"
)

// Service owns cart creation, item additions, the customer-assignment rules,
// and the customer read path. It never calls the checkout service; the two
// share only the cart repository.
type Service struct {
	repo      cartRepo
	customers customerRepo
	stores    storeRepo
}

type cartRepo interface {
	Create(ctx context.Context, in cartrepo.CreateCartInput) (*domain.Cart, error)
	GetByID(ctx context.Context, id int64) (*domain.Cart, error)
	GetByReservedOrderID(ctx context.Context, reservedOrderID string) (*domain.Cart, error)
	GetActiveByCustomer(ctx context.Context, customerID int64) (*domain.Cart, error)
	Assign(ctx context.Context, cart *domain.Cart) error
	AddItem(ctx context.Context, cartID int64, item domain.CartItem) error
}

type customerRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.Customer, error)
}

type storeRepo interface {
	GetByID(ctx context.Context, id int64) (*domain.Store, error)
}

// New creates a Service with its collaborators.
func New(repo cartrepo.Repository, customers customerRepo, stores storeRepo) *Service {
	return &Service{repo: repo, customers: customers, stores: stores}
}

// CreateEmptyCart creates an anonymous, inactive, empty cart scoped to the
// given store and returns its id. The cart currency is snapshotted from the
// store configuration and never changes afterwards.
func (s *Service) CreateEmptyCart(ctx context.Context, storeID int64) (int64, error) {
	st, err := s.stores.GetByID(ctx, storeID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, domain.ErrStoreNotFound
		}
		return 0, err
	}
	if !st.IsActive {
		return 0, domain.ErrStoreNotFound
	}

	cart, err := s.repo.Create(ctx, cartrepo.CreateCartInput{
		StoreID:  st.ID,
		Currency: st.CurrencySnapshot(),
	})
	if err != nil {
		return 0, err
	}
	return cart.ID, nil
}

// AssignCustomer binds a customer identity to an anonymous cart and
// activates it, making it resolvable through GetCartForCustomer. The
// preconditions are checked in a fixed order and the first failure wins; no
// partial mutation is ever observable.
func (s *Service) AssignCustomer(ctx context.Context, cartID, customerID, storeID int64) error {
	cart, err := s.repo.GetByID(ctx, cartID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrCartNotFound
		}
		return err
	}

	customer, err := s.customers.GetByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrCustomerNotFound
		}
		return err
	}

	if cart.CustomerID != nil {
		return domain.ErrCartNotAnonymous
	}

	if cart.StoreID != storeID || !customer.InStore(cart.StoreID) {
		return domain.ErrCartWrongStore
	}

	_, err = s.repo.GetActiveByCustomer(ctx, customer.ID)
	switch {
	case err == nil:
		return domain.ErrActiveCartExists
	case errors.Is(err, domain.ErrNotFound):
		// No active cart; assignment may proceed.
	default:
		return err
	}

	cart.CustomerID = &customer.ID
	cart.CustomerIsGuest = false
	cart.CustomerFirstname = customer.FirstName
	cart.CustomerLastname = customer.LastName
	cart.IsActive = true

	// Assign is guarded in the store; a writer that raced past the checks
	// above still cannot double-assign or break the one-active-cart rule.
	err = s.repo.Assign(ctx, cart)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return domain.ErrCartNotFound
	case errors.Is(err, domain.ErrConflict):
		return domain.ErrCartNotAnonymous
	}
	return err
}

// ValidationError marks malformed request input, as opposed to a
// business-rule violation or an infrastructure failure.
type ValidationError string

func (e ValidationError) Error() string { return string(e) }

// AddItemInput carries an item addition request.
type AddItemInput struct {
	SKU      string          `json:"sku"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"qty"`
}

// AddItem appends a line to the cart and returns the reloaded cart with
// recomputed totals.
func (s *Service) AddItem(ctx context.Context, cartID int64, in AddItemInput) (*domain.Cart, error) {
	if strings.TrimSpace(in.SKU) == "" {
		return nil, ValidationError("sku required")
	}
	if strings.TrimSpace(in.Name) == "" {
		return nil, ValidationError("name required")
	}
	if in.Quantity <= 0 {
		return nil, ValidationError("qty must be positive")
	}
	if in.Price.IsNegative() {
		return nil, ValidationError("price must not be negative")
	}

	item := domain.CartItem{
		SKU:      strings.TrimSpace(in.SKU),
		Name:     in.Name,
		Price:    in.Price,
		Quantity: in.Quantity,
		RowTotal: in.Price.Mul(decimal.NewFromInt(int64(in.Quantity))),
	}
	if err := s.repo.AddItem(ctx, cartID, item); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrCartNotFound
		}
		return nil, err
	}
	return s.repo.GetByID(ctx, cartID)
}

// GetCartForCustomer returns the customer's single active cart.
func (s *Service) GetCartForCustomer(ctx context.Context, customerID int64) (*domain.Cart, error) {
	cart, err := s.repo.GetActiveByCustomer(ctx, customerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNoActiveCart
		}
		return nil, err
	}
	return cart, nil
}

// GetCartByReservedOrderID looks a cart up by its reserved order id handle.
func (s *Service) GetCartByReservedOrderID(ctx context.Context, reservedOrderID string) (*domain.Cart, error) {
	cart, err := s.repo.GetByReservedOrderID(ctx, reservedOrderID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrCartNotFound
		}
		return nil, err
	}
	return cart, nil
}
