package cart

import (
	"context"
	"sync"
	"time"

	"magento-quote-replica/internal/domain"
)

type memoryRepo struct {
	mu     sync.Mutex
	nextID int64
	carts  map[int64]*domain.Cart
}

// NewMemory returns an in-memory Repository guarded by a single mutex, so
// every operation is atomic with respect to the others.
func NewMemory() Repository {
	return &memoryRepo{carts: make(map[int64]*domain.Cart)}
}

func (r *memoryRepo) Create(_ context.Context, in CreateCartInput) (*domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	now := time.Now().UTC()
	cart := &domain.Cart{
		ID:              r.nextID,
		StoreID:         in.StoreID,
		CustomerIsGuest: true,
		ReservedOrderID: in.ReservedOrderID,
		Currency:        in.Currency,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	cart.RecalculateTotals()
	r.carts[cart.ID] = cart
	return cloneCart(cart), nil
}

func (r *memoryRepo) GetByID(_ context.Context, id int64) (*domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return cloneCart(cart), nil
}

func (r *memoryRepo) GetByReservedOrderID(_ context.Context, reservedOrderID string) (*domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, cart := range r.carts {
		if cart.ReservedOrderID == reservedOrderID && reservedOrderID != "" {
			return cloneCart(cart), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memoryRepo) GetActiveByCustomer(_ context.Context, customerID int64) (*domain.Cart, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, cart := range r.carts {
		if cart.IsActive && cart.CustomerID != nil && *cart.CustomerID == customerID {
			return cloneCart(cart), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memoryRepo) Save(_ context.Context, cart *domain.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, ok := r.carts[cart.ID]
	if !ok {
		return domain.ErrNotFound
	}
	next := cloneCart(cart)
	if next.ReservedOrderID == "" {
		next.ReservedOrderID = prev.ReservedOrderID
	}
	next.UpdatedAt = time.Now().UTC()
	r.carts[cart.ID] = next
	return nil
}

func (r *memoryRepo) Assign(_ context.Context, cart *domain.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	prev, ok := r.carts[cart.ID]
	if !ok {
		return domain.ErrNotFound
	}
	if prev.CustomerID != nil {
		return domain.ErrConflict
	}
	if cart.CustomerID != nil && cart.IsActive {
		for _, other := range r.carts {
			if other.IsActive && other.CustomerID != nil && *other.CustomerID == *cart.CustomerID {
				return domain.ErrActiveCartExists
			}
		}
	}

	next := cloneCart(cart)
	if next.ReservedOrderID == "" {
		next.ReservedOrderID = prev.ReservedOrderID
	}
	next.UpdatedAt = time.Now().UTC()
	r.carts[cart.ID] = next
	return nil
}

func (r *memoryRepo) AddItem(_ context.Context, cartID int64, item domain.CartItem) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	cart, ok := r.carts[cartID]
	if !ok {
		return domain.ErrNotFound
	}
	r.nextID++
	item.ID = r.nextID
	item.CartID = cartID
	cart.Items = append(cart.Items, item)
	cart.RecalculateTotals()
	cart.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *memoryRepo) Delete(_ context.Context, cartID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.carts[cartID]; !ok {
		return domain.ErrNotFound
	}
	delete(r.carts, cartID)
	return nil
}

func (r *memoryRepo) Restore(_ context.Context, cart *domain.Cart) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.carts[cart.ID] = cloneCart(cart)
	return nil
}

func cloneCart(cart *domain.Cart) *domain.Cart {
	out := *cart
	if cart.CustomerID != nil {
		id := *cart.CustomerID
		out.CustomerID = &id
	}
	out.Items = append([]domain.CartItem(nil), cart.Items...)
	return &out
}
