package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart is the mutable pre-order aggregate (a "quote"). A cart starts
// anonymous and inactive; item additions and customer assignment mutate it
// until it is converted into an order exactly once, after which it is
// deleted.
type Cart struct {
	ID                int64        `json:"id"`
	StoreID           int64        `json:"storeId"`
	CustomerID        *int64       `json:"customerId,omitempty"`
	CustomerFirstname string       `json:"customerFirstname,omitempty"`
	CustomerLastname  string       `json:"customerLastname,omitempty"`
	CustomerIsGuest   bool         `json:"customerIsGuest"`
	IsActive          bool         `json:"isActive"`
	IsVirtual         bool         `json:"isVirtual"`
	ReservedOrderID   string       `json:"reservedOrderId,omitempty"`
	OrigOrderID       int64        `json:"origOrderId"`
	Items             []CartItem   `json:"items,omitempty"`
	Totals            CartTotals   `json:"totals"`
	Currency          CartCurrency `json:"currency"`
	CreatedAt         time.Time    `json:"createdAt"`
	UpdatedAt         time.Time    `json:"updatedAt"`
}

// CartItem is a single cart line. Name and quantity are copied verbatim onto
// the order line at conversion time.
type CartItem struct {
	ID       int64           `json:"id"`
	CartID   int64           `json:"cartId"`
	SKU      string          `json:"sku"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity"`
	RowTotal decimal.Decimal `json:"rowTotal"`
}

// CartTotals holds the derived money totals. They are recomputed from the
// items, never mutated directly.
type CartTotals struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	GrandTotal decimal.Decimal `json:"grandTotal"`
}

// CartCurrency is the currency snapshot fixed at cart creation time: the
// four currency codes and the pairwise conversion rates among them.
type CartCurrency struct {
	GlobalCurrencyCode string          `json:"globalCurrencyCode"`
	BaseCurrencyCode   string          `json:"baseCurrencyCode"`
	QuoteCurrencyCode  string          `json:"quoteCurrencyCode"`
	StoreCurrencyCode  string          `json:"storeCurrencyCode"`
	BaseToGlobalRate   decimal.Decimal `json:"baseToGlobalRate"`
	BaseToQuoteRate    decimal.Decimal `json:"baseToQuoteRate"`
	StoreToBaseRate    decimal.Decimal `json:"storeToBaseRate"`
	StoreToQuoteRate   decimal.Decimal `json:"storeToQuoteRate"`
}

// ItemsQty is the summed quantity across all items.
func (c *Cart) ItemsQty() int {
	qty := 0
	for _, item := range c.Items {
		qty += item.Quantity
	}
	return qty
}

// RecalculateTotals recomputes subtotal and grand total from the items.
func (c *Cart) RecalculateTotals() {
	subtotal := decimal.Zero
	for _, item := range c.Items {
		subtotal = subtotal.Add(item.RowTotal)
	}
	c.Totals.Subtotal = subtotal
	c.Totals.GrandTotal = subtotal
}
