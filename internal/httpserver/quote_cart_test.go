package httpserver

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"magento-quote-replica/internal/domain"
	"magento-quote-replica/internal/service/cart"
)

type stubCartService struct {
	createID  int64
	createErr error

	assignErr error

	addItemCart *domain.Cart
	addItemErr  error

	customerCart *domain.Cart
	customerErr  error
}

func (s *stubCartService) CreateEmptyCart(_ context.Context, _ int64) (int64, error) {
	return s.createID, s.createErr
}

func (s *stubCartService) AssignCustomer(_ context.Context, _, _, _ int64) error {
	return s.assignErr
}

func (s *stubCartService) AddItem(_ context.Context, _ int64, _ cart.AddItemInput) (*domain.Cart, error) {
	return s.addItemCart, s.addItemErr
}

func (s *stubCartService) GetCartForCustomer(_ context.Context, _ int64) (*domain.Cart, error) {
	return s.customerCart, s.customerErr
}

type stubCheckoutService struct {
	orderID  int64
	err      error
	order    *domain.Order
	orderErr error
}

func (s *stubCheckoutService) PlaceOrder(_ context.Context, _ int64) (int64, error) {
	return s.orderID, s.err
}

func (s *stubCheckoutService) GetOrder(_ context.Context, _ int64) (*domain.Order, error) {
	return s.order, s.orderErr
}

func testRouter(carts CartService, checkout CheckoutService) http.Handler {
	logger := log.New(io.Discard, "", 0)
	return buildRouter(logger, nil, Deps{CartSvc: carts, CheckoutSvc: checkout})
}

func doRequest(t *testing.T, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body.Message
}

func sampleCart() *domain.Cart {
	customerID := int64(1)
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	price := decimal.RequireFromString("10.0000")
	cart := &domain.Cart{
		ID:                2,
		StoreID:           1,
		CustomerID:        &customerID,
		CustomerFirstname: "John",
		CustomerLastname:  "Smith",
		IsActive:          true,
		ReservedOrderID:   "test_order_1",
		Items: []domain.CartItem{{
			ID:       3,
			CartID:   2,
			SKU:      "simple",
			Name:     "Simple Product",
			Price:    price,
			Quantity: 1,
			RowTotal: price,
		}},
		Currency: domain.CartCurrency{
			GlobalCurrencyCode: "USD",
			BaseCurrencyCode:   "USD",
			QuoteCurrencyCode:  "USD",
			StoreCurrencyCode:  "USD",
			BaseToGlobalRate:   decimal.NewFromInt(1),
			BaseToQuoteRate:    decimal.NewFromInt(1),
			StoreToBaseRate:    decimal.NewFromInt(1),
			StoreToQuoteRate:   decimal.NewFromInt(1),
		},
		CreatedAt: created,
		UpdatedAt: created,
	}
	cart.RecalculateTotals()
	return cart
}

func TestCreateCartEndpoint(t *testing.T) {
	router := testRouter(&stubCartService{createID: 8}, &stubCheckoutService{})

	rec := doRequest(t, router, http.MethodPost, "/V1/carts", `{"storeId": 1}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "8" {
		t.Fatalf("expected bare cart id 8, got %q", got)
	}
}

func TestCreateCartMissingStore(t *testing.T) {
	router := testRouter(&stubCartService{createErr: domain.ErrStoreNotFound}, &stubCheckoutService{})

	rec := doRequest(t, router, http.MethodPost, "/V1/carts", `{"storeId": 99}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestCreateCartBadPayload(t *testing.T) {
	router := testRouter(&stubCartService{}, &stubCheckoutService{})

	rec := doRequest(t, router, http.MethodPost, "/V1/carts", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAssignCustomerEndpoint(t *testing.T) {
	router := testRouter(&stubCartService{}, &stubCheckoutService{})

	rec := doRequest(t, router, http.MethodPut, "/V1/carts/2", `{"customerId": 1, "storeId": 1}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "true" {
		t.Fatalf("expected body true, got %q", got)
	}
}

func TestAssignCustomerErrorMapping(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "cart not found",
			err:        domain.ErrCartNotFound,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "customer not found",
			err:        domain.ErrCustomerNotFound,
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "not anonymous",
			err:        domain.ErrCartNotAnonymous,
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Cannot assign customer to the given cart. The cart is not anonymous.",
		},
		{
			name:       "wrong store",
			err:        domain.ErrCartWrongStore,
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Cannot assign customer to the given cart. The cart belongs to different store.",
		},
		{
			name:       "active cart exists",
			err:        domain.ErrActiveCartExists,
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Cannot assign customer to the given cart. Customer already has active cart.",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := testRouter(&stubCartService{assignErr: tc.err}, &stubCheckoutService{})

			rec := doRequest(t, router, http.MethodPut, "/V1/carts/2", `{"customerId": 1, "storeId": 1}`)
			if rec.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d", tc.wantStatus, rec.Code)
			}
			if tc.wantMsg != "" {
				if got := decodeMessage(t, rec); got != tc.wantMsg {
					t.Fatalf("expected message %q, got %q", tc.wantMsg, got)
				}
			}
		})
	}
}

func TestAssignCustomerBadCartID(t *testing.T) {
	router := testRouter(&stubCartService{}, &stubCheckoutService{})

	rec := doRequest(t, router, http.MethodPut, "/V1/carts/abc", `{"customerId": 1, "storeId": 1}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAddItemEndpoint(t *testing.T) {
	router := testRouter(&stubCartService{addItemCart: sampleCart()}, &stubCheckoutService{})

	rec := doRequest(t, router, http.MethodPost, "/V1/carts/2/items", `{"sku": "simple", "name": "Simple Product", "price": "10.0000", "qty": 1}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var view struct {
		ID    int64 `json:"id"`
		Items []struct {
			SKU string `json:"sku"`
		} `json:"items"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode cart view: %v", err)
	}
	if view.ID != 2 || len(view.Items) != 1 || view.Items[0].SKU != "simple" {
		t.Fatalf("unexpected view %+v", view)
	}
}

func TestAddItemValidationError(t *testing.T) {
	router := testRouter(&stubCartService{addItemErr: cart.ValidationError("qty must be positive")}, &stubCheckoutService{})

	rec := doRequest(t, router, http.MethodPost, "/V1/carts/2/items", `{"sku": "simple", "name": "Simple Product", "price": "10.0000", "qty": -1}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if got := decodeMessage(t, rec); got != "qty must be positive" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestPlaceOrderEndpoint(t *testing.T) {
	router := testRouter(&stubCartService{}, &stubCheckoutService{orderID: 7})

	rec := doRequest(t, router, http.MethodPut, "/V1/carts/2/order", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "7" {
		t.Fatalf("expected bare order id 7, got %q", got)
	}
}

func TestPlaceOrderEmptyCart(t *testing.T) {
	router := testRouter(&stubCartService{}, &stubCheckoutService{err: domain.ErrEmptyCart})

	rec := doRequest(t, router, http.MethodPut, "/V1/carts/2/order", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if got := decodeMessage(t, rec); got != "Cannot place an order on an empty cart." {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestGetOrderEndpoint(t *testing.T) {
	customerID := int64(1)
	placed := &domain.Order{
		ID:         7,
		CartID:     2,
		StoreID:    1,
		CustomerID: &customerID,
		GrandTotal: decimal.RequireFromString("10"),
		Currency:   "USD",
		Items: []domain.OrderItem{{
			ID:       3,
			OrderID:  7,
			SKU:      "simple",
			Name:     "Simple Product",
			Price:    decimal.RequireFromString("10"),
			Quantity: 1,
			RowTotal: decimal.RequireFromString("10"),
		}},
		CreatedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	router := testRouter(&stubCartService{}, &stubCheckoutService{order: placed})

	rec := doRequest(t, router, http.MethodGet, "/V1/orders/7", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var view struct {
		ID    int64 `json:"id"`
		Items []struct {
			Name string `json:"name"`
			Qty  int    `json:"qty"`
		} `json:"items"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode order view: %v", err)
	}
	if view.ID != 7 {
		t.Fatalf("expected order 7, got %d", view.ID)
	}
	if len(view.Items) != 1 || view.Items[0].Name != "Simple Product" || view.Items[0].Qty != 1 {
		t.Fatalf("unexpected order items %+v", view.Items)
	}
}

func TestGetOrderNotFound(t *testing.T) {
	router := testRouter(&stubCartService{}, &stubCheckoutService{orderErr: domain.ErrOrderNotFound})

	rec := doRequest(t, router, http.MethodGet, "/V1/orders/9999", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestCartForCustomerEndpoint(t *testing.T) {
	router := testRouter(&stubCartService{customerCart: sampleCart()}, &stubCheckoutService{})

	rec := doRequest(t, router, http.MethodGet, "/V1/customer/1/cart", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var view struct {
		ID       int64 `json:"id"`
		Customer struct {
			ID      *int64 `json:"id"`
			IsGuest bool   `json:"is_guest"`
		} `json:"customer"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode cart view: %v", err)
	}
	if view.ID != 2 || view.Customer.ID == nil || *view.Customer.ID != 1 {
		t.Fatalf("unexpected view %+v", view)
	}
}

func TestCartForCustomerNoActiveCart(t *testing.T) {
	router := testRouter(&stubCartService{customerErr: domain.ErrNoActiveCart}, &stubCheckoutService{})

	rec := doRequest(t, router, http.MethodGet, "/V1/customer/1/cart", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestHealthz(t *testing.T) {
	router := testRouter(&stubCartService{}, &stubCheckoutService{})

	rec := doRequest(t, router, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
