package httpserver

import (
	"time"

	"magento-quote-replica/internal/domain"
)

// timeLayout is the datetime format the legacy consumers expect.
const timeLayout = "2006-01-02 15:04:05"

// cartView is the wire shape for a projected cart. Field names and nesting
// are a contract with external consumers and must not change.
type cartView struct {
	ID          int64            `json:"id"`
	CreatedAt   string           `json:"created_at"`
	UpdatedAt   string           `json:"updated_at"`
	StoreID     int64            `json:"store_id"`
	IsActive    bool             `json:"is_active"`
	IsVirtual   bool             `json:"is_virtual"`
	OrigOrderID int64            `json:"orig_order_id"`
	ItemsCount  int              `json:"items_count"`
	ItemsQty    float64          `json:"items_qty"`
	Items       []cartItemView   `json:"items"`
	Customer    cartCustomerView `json:"customer"`
	Totals      cartTotalsView   `json:"totals"`
	Currency    cartCurrencyView `json:"currency"`
}

type cartItemView struct {
	ItemID   int64   `json:"item_id"`
	SKU      string  `json:"sku"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Qty      int     `json:"qty"`
	RowTotal float64 `json:"row_total"`
}

type cartCustomerView struct {
	ID        *int64 `json:"id,omitempty"`
	Firstname string `json:"firstname,omitempty"`
	Lastname  string `json:"lastname,omitempty"`
	IsGuest   bool   `json:"is_guest"`
}

type cartTotalsView struct {
	Subtotal   float64 `json:"subtotal"`
	GrandTotal float64 `json:"grand_total"`
}

type cartCurrencyView struct {
	GlobalCurrencyCode string  `json:"global_currency_code"`
	BaseCurrencyCode   string  `json:"base_currency_code"`
	QuoteCurrencyCode  string  `json:"quote_currency_code"`
	StoreCurrencyCode  string  `json:"store_currency_code"`
	BaseToGlobalRate   float64 `json:"base_to_global_rate"`
	BaseToQuoteRate    float64 `json:"base_to_quote_rate"`
	StoreToBaseRate    float64 `json:"store_to_base_rate"`
	StoreToQuoteRate   float64 `json:"store_to_quote_rate"`
}

// toCartView projects a cart into the wire shape. Pure, no side effects.
func toCartView(cart *domain.Cart) cartView {
	items := make([]cartItemView, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, cartItemView{
			ItemID:   item.ID,
			SKU:      item.SKU,
			Name:     item.Name,
			Price:    item.Price.InexactFloat64(),
			Qty:      item.Quantity,
			RowTotal: item.RowTotal.InexactFloat64(),
		})
	}

	return cartView{
		ID:          cart.ID,
		CreatedAt:   formatTime(cart.CreatedAt),
		UpdatedAt:   formatTime(cart.UpdatedAt),
		StoreID:     cart.StoreID,
		IsActive:    cart.IsActive,
		IsVirtual:   cart.IsVirtual,
		OrigOrderID: cart.OrigOrderID,
		ItemsCount:  len(cart.Items),
		ItemsQty:    float64(cart.ItemsQty()),
		Items:       items,
		Customer: cartCustomerView{
			ID:        cart.CustomerID,
			Firstname: cart.CustomerFirstname,
			Lastname:  cart.CustomerLastname,
			IsGuest:   cart.CustomerIsGuest,
		},
		Totals: cartTotalsView{
			Subtotal:   cart.Totals.Subtotal.InexactFloat64(),
			GrandTotal: cart.Totals.GrandTotal.InexactFloat64(),
		},
		Currency: cartCurrencyView{
			GlobalCurrencyCode: cart.Currency.GlobalCurrencyCode,
			BaseCurrencyCode:   cart.Currency.BaseCurrencyCode,
			QuoteCurrencyCode:  cart.Currency.QuoteCurrencyCode,
			StoreCurrencyCode:  cart.Currency.StoreCurrencyCode,
			BaseToGlobalRate:   cart.Currency.BaseToGlobalRate.InexactFloat64(),
			BaseToQuoteRate:    cart.Currency.BaseToQuoteRate.InexactFloat64(),
			StoreToBaseRate:    cart.Currency.StoreToBaseRate.InexactFloat64(),
			StoreToQuoteRate:   cart.Currency.StoreToQuoteRate.InexactFloat64(),
		},
	}
}

// orderView is the wire shape for a placed order.
type orderView struct {
	ID         int64           `json:"id"`
	CreatedAt  string          `json:"created_at"`
	StoreID    int64           `json:"store_id"`
	CustomerID *int64          `json:"customer_id,omitempty"`
	GrandTotal float64         `json:"grand_total"`
	Currency   string          `json:"currency"`
	Items      []orderItemView `json:"items"`
}

type orderItemView struct {
	ItemID   int64   `json:"item_id"`
	SKU      string  `json:"sku"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Qty      int     `json:"qty"`
	RowTotal float64 `json:"row_total"`
}

func toOrderView(order *domain.Order) orderView {
	items := make([]orderItemView, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderItemView{
			ItemID:   item.ID,
			SKU:      item.SKU,
			Name:     item.Name,
			Price:    item.Price.InexactFloat64(),
			Qty:      item.Quantity,
			RowTotal: item.RowTotal.InexactFloat64(),
		})
	}

	return orderView{
		ID:         order.ID,
		CreatedAt:  formatTime(order.CreatedAt),
		StoreID:    order.StoreID,
		CustomerID: order.CustomerID,
		GrandTotal: order.GrandTotal.InexactFloat64(),
		Currency:   order.Currency,
		Items:      items,
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeLayout)
}
