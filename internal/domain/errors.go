package domain

import "errors"

var (
	// ErrNotFound indicates the requested entity was not found. Repositories
	// return it; services translate it into the per-entity sentinels below.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates a guarded write lost to a concurrent mutation of
	// the same cart.
	ErrConflict = errors.New("concurrent modification")
)

// Business-rule sentinels. The assignment messages are part of the external
// contract and must not change.
var (
	ErrCartNotFound     = errors.New("no cart exists with the specified id")
	ErrCustomerNotFound = errors.New("no customer exists with the specified id")
	ErrStoreNotFound    = errors.New("no store exists with the specified id")
	ErrOrderNotFound    = errors.New("no order exists with the specified id")
	ErrNoActiveCart     = errors.New("customer does not have an active cart")

	ErrCartNotAnonymous = errors.New("Cannot assign customer to the given cart. The cart is not anonymous.")
	ErrCartWrongStore   = errors.New("Cannot assign customer to the given cart. The cart belongs to different store.")
	ErrActiveCartExists = errors.New("Cannot assign customer to the given cart. Customer already has active cart.")
	ErrEmptyCart        = errors.New("Cannot place an order on an empty cart.")
)
