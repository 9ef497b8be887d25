package domain

import "github.com/shopspring/decimal"

// Store is a sales channel. Carts and customers are bound to a store scope;
// customer assignment requires matching scopes.
type Store struct {
	ID        int64  `json:"id"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	WebsiteID int64  `json:"websiteId"`
	IsActive  bool   `json:"isActive"`

	// Currency defaults snapshotted onto new carts.
	GlobalCurrencyCode string          `json:"globalCurrencyCode"`
	BaseCurrencyCode   string          `json:"baseCurrencyCode"`
	StoreCurrencyCode  string          `json:"storeCurrencyCode"`
	BaseToGlobalRate   decimal.Decimal `json:"baseToGlobalRate"`
	StoreToBaseRate    decimal.Decimal `json:"storeToBaseRate"`
}

// CurrencySnapshot builds the cart currency snapshot from the store
// configuration. The quote currency starts as the store currency.
func (s Store) CurrencySnapshot() CartCurrency {
	storeToBase := s.StoreToBaseRate
	if storeToBase.IsZero() {
		storeToBase = decimal.NewFromInt(1)
	}
	baseToGlobal := s.BaseToGlobalRate
	if baseToGlobal.IsZero() {
		baseToGlobal = decimal.NewFromInt(1)
	}
	return CartCurrency{
		GlobalCurrencyCode: s.GlobalCurrencyCode,
		BaseCurrencyCode:   s.BaseCurrencyCode,
		QuoteCurrencyCode:  s.StoreCurrencyCode,
		StoreCurrencyCode:  s.StoreCurrencyCode,
		BaseToGlobalRate:   baseToGlobal,
		BaseToQuoteRate:    decimal.NewFromInt(1).Div(storeToBase),
		StoreToBaseRate:    storeToBase,
		StoreToQuoteRate:   decimal.NewFromInt(1),
	}
}
