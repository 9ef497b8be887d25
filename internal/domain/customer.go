package domain

import "time"

// Customer is a registered customer identity. The cart service only reads
// customers; ownership lives with the customer subsystem.
type Customer struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName,omitempty"`
	LastName  string    `json:"lastName,omitempty"`
	StoreID   int64     `json:"storeId"`
	WebsiteID int64     `json:"websiteId"`
	CreatedAt time.Time `json:"createdAt"`
}

// InStore reports whether the customer's home scope matches the given store.
func (c Customer) InStore(storeID int64) bool {
	return c.StoreID == storeID
}
