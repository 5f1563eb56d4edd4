package service

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"fishmarket/internal/domain"
	"fishmarket/internal/repository"
)

func setup(t *testing.T) (*CatalogService, *OrderService, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "db.json")
	store, err := repository.Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	ordersRepo := repository.NewFileOrders(store)
	tx := repository.NewFileTx(store)
	cs := NewCatalogService(store)
	os := NewOrderService(store, ordersRepo, tx)
	return cs, os, path
}

func price(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad price %q: %v", s, err)
	}
	return d
}

func TestPlaceOrder(t *testing.T) {
	ctx := context.Background()
	cs, os, _ := setup(t)
	a, err := cs.Add(ctx, "Salmon", price(t, "10.00"), 5, "")
	if err != nil {
		t.Fatalf("add a: %v", err)
	}
	b, err := cs.Add(ctx, "Sardine", price(t, "3.50"), 1, "")
	if err != nil {
		t.Fatalf("add b: %v", err)
	}

	o, err := os.Place(ctx, "Ali", []domain.OrderLine{{FishID: a.ID, Qty: 2}, {FishID: b.ID, Qty: 1}})
	if err != nil {
		t.Fatalf("place: %v", err)
	}
	if o.ID != 1 {
		t.Fatalf("expected order id 1, got %d", o.ID)
	}
	if !o.Total.Equal(price(t, "23.50")) {
		t.Fatalf("expected total 23.50, got %s", o.Total)
	}
	if len(o.Items) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(o.Items))
	}
	if o.CreatedAt.IsZero() {
		t.Fatal("expected createdAt to be set")
	}

	list, _ := cs.List(ctx)
	byID := map[int64]int64{}
	for _, f := range list {
		byID[f.ID] = f.Qty
	}
	if byID[a.ID] != 3 || byID[b.ID] != 0 {
		t.Fatalf("stock not deducted: %v", byID)
	}
	orders, _ := os.Orders(ctx)
	if len(orders) != 1 {
		t.Fatalf("expected exactly one order, got %d", len(orders))
	}
}

func TestPlaceOrder_InsufficientStock_NoPartialDeduction(t *testing.T) {
	ctx := context.Background()
	cs, os, _ := setup(t)
	a, _ := cs.Add(ctx, "Salmon", price(t, "10.00"), 5, "")
	b, _ := cs.Add(ctx, "Sardine", price(t, "3.50"), 1, "")

	_, err := os.Place(ctx, "Ali", []domain.OrderLine{{FishID: a.ID, Qty: 2}, {FishID: b.ID, Qty: 2}})
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock, got %v", err)
	}
	if !strings.Contains(err.Error(), "Sardine") {
		t.Fatalf("error should name the offending fish: %v", err)
	}

	list, _ := cs.List(ctx)
	for _, f := range list {
		want := map[int64]int64{a.ID: 5, b.ID: 1}[f.ID]
		if f.Qty != want {
			t.Fatalf("stock changed on rejected order: %s has %d", f.Name, f.Qty)
		}
	}
	orders, _ := os.Orders(ctx)
	if len(orders) != 0 {
		t.Fatalf("no order should be recorded, got %d", len(orders))
	}
}

func TestPlaceOrder_UnknownFish(t *testing.T) {
	ctx := context.Background()
	cs, os, _ := setup(t)
	a, _ := cs.Add(ctx, "Salmon", price(t, "10.00"), 5, "")

	_, err := os.Place(ctx, "Ali", []domain.OrderLine{{FishID: a.ID, Qty: 1}, {FishID: 99, Qty: 1}})
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if !strings.Contains(err.Error(), "99") {
		t.Fatalf("error should name the missing id: %v", err)
	}
	got, _ := cs.List(ctx)
	if got[0].Qty != 5 {
		t.Fatalf("stock changed on rejected order: %d", got[0].Qty)
	}
}

func TestPlaceOrder_ZeroStockUnorderable(t *testing.T) {
	ctx := context.Background()
	cs, os, _ := setup(t)
	f, err := cs.Add(ctx, "Herring", price(t, "2.00"), 0, "")
	if err != nil {
		t.Fatalf("qty 0 must be addable: %v", err)
	}
	if _, err := os.Place(ctx, "Ali", []domain.OrderLine{{FishID: f.ID, Qty: 1}}); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock for qty-0 fish, got %v", err)
	}
}

func TestPlaceOrder_Validation(t *testing.T) {
	ctx := context.Background()
	cs, os, _ := setup(t)
	f, _ := cs.Add(ctx, "Salmon", price(t, "10.00"), 5, "")

	if _, err := os.Place(ctx, "", []domain.OrderLine{{FishID: f.ID, Qty: 1}}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for empty customer, got %v", err)
	}
	if _, err := os.Place(ctx, "Ali", nil); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error for empty lines, got %v", err)
	}
	if _, err := os.Place(ctx, "Ali", []domain.OrderLine{{FishID: f.ID, Qty: 0}}); !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock for qty 0 line, got %v", err)
	}
}

func TestPlaceOrder_DuplicateLinesShareStock(t *testing.T) {
	ctx := context.Background()
	cs, os, _ := setup(t)
	f, _ := cs.Add(ctx, "Salmon", price(t, "10.00"), 5, "")

	// two lines totalling more than available must not drive stock negative
	_, err := os.Place(ctx, "Ali", []domain.OrderLine{{FishID: f.ID, Qty: 3}, {FishID: f.ID, Qty: 3}})
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock, got %v", err)
	}
	got, _ := cs.List(ctx)
	if got[0].Qty != 5 {
		t.Fatalf("stock changed: %d", got[0].Qty)
	}

	o, err := os.Place(ctx, "Ali", []domain.OrderLine{{FishID: f.ID, Qty: 2}, {FishID: f.ID, Qty: 3}})
	if err != nil {
		t.Fatalf("place: %v", err)
	}
	if !o.Total.Equal(price(t, "50.00")) {
		t.Fatalf("expected total 50.00, got %s", o.Total)
	}
	got, _ = cs.List(ctx)
	if got[0].Qty != 0 {
		t.Fatalf("expected stock 0, got %d", got[0].Qty)
	}
}

func TestOrderIDsMonotonic(t *testing.T) {
	ctx := context.Background()
	cs, os, _ := setup(t)
	f, _ := cs.Add(ctx, "Salmon", price(t, "10.00"), 10, "")
	for want := int64(1); want <= 3; want++ {
		o, err := os.Place(ctx, "Ali", []domain.OrderLine{{FishID: f.ID, Qty: 1}})
		if err != nil {
			t.Fatalf("place %d: %v", want, err)
		}
		if o.ID != want {
			t.Fatalf("expected order id %d, got %d", want, o.ID)
		}
	}
}

func TestPlaceOrder_PersistedStateMatches(t *testing.T) {
	ctx := context.Background()
	cs, os, path := setup(t)
	f, _ := cs.Add(ctx, "Salmon", price(t, "10.00"), 5, "")
	if _, err := os.Place(ctx, "Ali", []domain.OrderLine{{FishID: f.ID, Qty: 2}}); err != nil {
		t.Fatalf("place: %v", err)
	}

	store2, err := repository.Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	fish, _ := store2.List(ctx)
	if len(fish) != 1 || fish[0].Qty != 3 {
		t.Fatalf("persisted catalog out of sync: %+v", fish)
	}
	orders, _ := repository.NewFileOrders(store2).List(ctx)
	if len(orders) != 1 || !orders[0].Total.Equal(price(t, "20.00")) {
		t.Fatalf("persisted orders out of sync: %+v", orders)
	}
}
