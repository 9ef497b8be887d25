package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"magento-quote-replica/internal/domain"
)

func TestMemoryCreateStartsAnonymousAndInactive(t *testing.T) {
	ctx := context.Background()
	repo := NewMemory()

	cart, err := repo.Create(ctx, CreateCartInput{StoreID: 1})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if cart.ID <= 0 {
		t.Fatalf("expected positive id, got %d", cart.ID)
	}
	if cart.CustomerID != nil || !cart.CustomerIsGuest {
		t.Fatalf("expected anonymous cart, got %+v", cart)
	}
	if cart.IsActive {
		t.Fatalf("expected inactive cart")
	}
	if len(cart.Items) != 0 {
		t.Fatalf("expected empty cart")
	}
}

func TestMemoryGetByIDNotFound(t *testing.T) {
	repo := NewMemory()
	if _, err := repo.GetByID(context.Background(), 9999); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMemoryReservedOrderIDSetOnce(t *testing.T) {
	ctx := context.Background()
	repo := NewMemory()

	cart, err := repo.Create(ctx, CreateCartInput{StoreID: 1, ReservedOrderID: "test01"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Saving without a reserved id must not clear the existing handle.
	cart.IsActive = true
	cart.ReservedOrderID = ""
	if err := repo.Save(ctx, cart); err != nil {
		t.Fatalf("Save: %v", err)
	}

	fetched, err := repo.GetByReservedOrderID(ctx, "test01")
	if err != nil {
		t.Fatalf("GetByReservedOrderID: %v", err)
	}
	if fetched.ID != cart.ID || !fetched.IsActive {
		t.Fatalf("unexpected cart %+v", fetched)
	}
}

func TestMemoryActiveCartLookup(t *testing.T) {
	ctx := context.Background()
	repo := NewMemory()

	cart, err := repo.Create(ctx, CreateCartInput{StoreID: 1})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := repo.GetActiveByCustomer(ctx, 1); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found before assignment, got %v", err)
	}

	customerID := int64(1)
	cart.CustomerID = &customerID
	cart.CustomerIsGuest = false
	cart.IsActive = true
	if err := repo.Save(ctx, cart); err != nil {
		t.Fatalf("Save: %v", err)
	}

	active, err := repo.GetActiveByCustomer(ctx, 1)
	if err != nil {
		t.Fatalf("GetActiveByCustomer: %v", err)
	}
	if active.ID != cart.ID {
		t.Fatalf("expected cart %d, got %d", cart.ID, active.ID)
	}
}

func TestMemoryAssignGuards(t *testing.T) {
	ctx := context.Background()
	repo := NewMemory()

	cart, err := repo.Create(ctx, CreateCartInput{StoreID: 1})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	customerID := int64(1)
	assigned := *cart
	assigned.CustomerID = &customerID
	assigned.CustomerIsGuest = false
	assigned.IsActive = true
	if err := repo.Assign(ctx, &assigned); err != nil {
		t.Fatalf("Assign: %v", err)
	}

	// The cart is owned now; a second assignment must lose.
	other := assigned
	otherID := int64(2)
	other.CustomerID = &otherID
	if err := repo.Assign(ctx, &other); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict on owned cart, got %v", err)
	}

	// The customer holds an active cart; claiming another one must lose.
	second, err := repo.Create(ctx, CreateCartInput{StoreID: 1})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	claim := *second
	claim.CustomerID = &customerID
	claim.IsActive = true
	if err := repo.Assign(ctx, &claim); !errors.Is(err, domain.ErrActiveCartExists) {
		t.Fatalf("expected active-cart guard, got %v", err)
	}
}

func TestMemoryAssignMissingCart(t *testing.T) {
	repo := NewMemory()
	customerID := int64(1)
	ghost := &domain.Cart{ID: 404, CustomerID: &customerID, IsActive: true}
	if err := repo.Assign(context.Background(), ghost); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMemoryRestoreAfterDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewMemory()

	cart, err := repo.Create(ctx, CreateCartInput{StoreID: 1})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	price := decimal.RequireFromString("10")
	if err := repo.AddItem(ctx, cart.ID, domain.CartItem{SKU: "simple", Name: "Simple Product", Price: price, Quantity: 1, RowTotal: price}); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	claimed, err := repo.GetByID(ctx, cart.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}

	if err := repo.Delete(ctx, cart.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := repo.Restore(ctx, claimed); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	restored, err := repo.GetByID(ctx, cart.ID)
	if err != nil {
		t.Fatalf("GetByID after restore: %v", err)
	}
	if len(restored.Items) != 1 || restored.Items[0].SKU != "simple" {
		t.Fatalf("expected restored cart with its item, got %+v", restored.Items)
	}
}

func TestMemoryAddItemRecomputesTotals(t *testing.T) {
	ctx := context.Background()
	repo := NewMemory()

	cart, err := repo.Create(ctx, CreateCartInput{StoreID: 1})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	price := decimal.RequireFromString("10.5")
	item := domain.CartItem{SKU: "simple", Name: "Simple Product", Price: price, Quantity: 2, RowTotal: price.Mul(decimal.NewFromInt(2))}
	if err := repo.AddItem(ctx, cart.ID, item); err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	fetched, err := repo.GetByID(ctx, cart.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if len(fetched.Items) != 1 || fetched.Items[0].ID == 0 {
		t.Fatalf("expected one item with assigned id, got %+v", fetched.Items)
	}
	if !fetched.Totals.GrandTotal.Equal(decimal.RequireFromString("21")) {
		t.Fatalf("expected grand total 21, got %s", fetched.Totals.GrandTotal)
	}
}

func TestMemoryDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewMemory()

	cart, err := repo.Create(ctx, CreateCartInput{StoreID: 1})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Delete(ctx, cart.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, cart.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if err := repo.Delete(ctx, cart.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}
