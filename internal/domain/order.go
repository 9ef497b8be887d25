package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is an immutable record produced by converting a cart. Order ids live
// in their own sequence; they are never comparable with cart ids.
type Order struct {
	ID         int64           `json:"id"`
	CartID     int64           `json:"cartId"`
	StoreID    int64           `json:"storeId"`
	CustomerID *int64          `json:"customerId,omitempty"`
	GrandTotal decimal.Decimal `json:"grandTotal"`
	Currency   string          `json:"currency"`
	Items      []OrderItem     `json:"items,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// OrderItem is one order line, copied from a cart item at conversion.
type OrderItem struct {
	ID       int64           `json:"id"`
	OrderID  int64           `json:"orderId"`
	SKU      string          `json:"sku"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	RowTotal decimal.Decimal `json:"rowTotal"`
}
