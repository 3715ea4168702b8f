package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dineflow/api/internal/enum"
	"github.com/dineflow/api/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestNextOrderSeq_StartsAt1001(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	seq, err := m.NextOrderSeq(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seq != 1001 {
		t.Errorf("expected first seq 1001, got %d", seq)
	}

	seq, _ = m.NextOrderSeq(ctx)
	if seq != 1002 {
		t.Errorf("expected second seq 1002, got %d", seq)
	}
}

func TestUpdateStatus_CompareAndSet(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	order, err := m.CreateOrder(ctx, models.Order{Status: enum.OrderStatusPending, OrderTime: time.Now()})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	updated, err := m.UpdateStatus(ctx, order.ID, enum.OrderStatusPending, enum.OrderStatusPreparing)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != enum.OrderStatusPreparing {
		t.Errorf("expected preparing, got %s", updated.Status)
	}

	// A second CAS from the stale status loses.
	_, err = m.UpdateStatus(ctx, order.ID, enum.OrderStatusPending, enum.OrderStatusPreparing)
	if !errors.Is(err, ErrStatusChanged) {
		t.Fatalf("expected ErrStatusChanged, got: %v", err)
	}
}

func TestUpdateStatus_UnknownOrder(t *testing.T) {
	m := NewMemory()

	_, err := m.UpdateStatus(context.Background(), uuid.New(), enum.OrderStatusPending, enum.OrderStatusPreparing)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

func TestListOrders_FilterAndPagination(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	base := time.Now()
	for i := 0; i < 5; i++ {
		status := enum.OrderStatusPending
		if i%2 == 1 {
			status = enum.OrderStatusServed
		}
		if _, err := m.CreateOrder(ctx, models.Order{
			Status:    status,
			OrderTime: base.Add(time.Duration(i) * time.Minute),
		}); err != nil {
			t.Fatalf("create order: %v", err)
		}
	}

	pending, err := m.ListOrders(ctx, ListOrdersParams{Status: enum.OrderStatusPending})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pending) != 3 {
		t.Errorf("expected 3 pending orders, got %d", len(pending))
	}

	// Newest first.
	all, _ := m.ListOrders(ctx, ListOrdersParams{})
	for i := 1; i < len(all); i++ {
		if all[i].OrderTime.After(all[i-1].OrderTime) {
			t.Fatal("expected newest-first ordering")
		}
	}

	page, _ := m.ListOrders(ctx, ListOrdersParams{Limit: 2, Offset: 1})
	if len(page) != 2 {
		t.Errorf("expected 2 orders on the page, got %d", len(page))
	}

	empty, _ := m.ListOrders(ctx, ListOrdersParams{Offset: 99})
	if len(empty) != 0 {
		t.Errorf("expected empty page past the end, got %d", len(empty))
	}
}

func TestListOrders_ZeroLimitMeansNoLimit(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	// Well past any default page size an implementation might be tempted
	// to apply; the report summary depends on seeing every order.
	base := time.Now()
	for i := 0; i < 75; i++ {
		if _, err := m.CreateOrder(ctx, models.Order{
			Status:    enum.OrderStatusPending,
			OrderTime: base.Add(time.Duration(i) * time.Second),
		}); err != nil {
			t.Fatalf("create order: %v", err)
		}
	}

	all, err := m.ListOrders(ctx, ListOrdersParams{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(all) != 75 {
		t.Errorf("expected all 75 orders with zero limit, got %d", len(all))
	}
}

func TestMarkPaid(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	order, _ := m.CreateOrder(ctx, models.Order{
		Status:        enum.OrderStatusPending,
		PaymentStatus: enum.PaymentStatusPending,
		OrderTime:     time.Now(),
	})

	updated, err := m.MarkPaid(ctx, order.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.PaymentStatus != enum.PaymentStatusPaid {
		t.Errorf("expected paid, got %s", updated.PaymentStatus)
	}

	// Idempotent.
	again, err := m.MarkPaid(ctx, order.ID)
	if err != nil {
		t.Fatalf("unexpected error on repeat: %v", err)
	}
	if again.PaymentStatus != enum.PaymentStatusPaid {
		t.Errorf("expected paid after repeat, got %s", again.PaymentStatus)
	}
}

func TestDeleteCategory_SoftDeletes(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	c, _ := m.CreateCategory(ctx, models.Category{Name: "Desserts", Active: true})
	if err := m.DeleteCategory(ctx, c.ID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cats, _ := m.ListCategories(ctx)
	if len(cats) != 1 {
		t.Fatalf("soft delete must keep the row, got %d categories", len(cats))
	}
	if cats[0].Active {
		t.Error("expected category inactive after delete")
	}
}

func TestOffers_CodeUniquenessAndCase(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if _, err := m.CreateOffer(ctx, models.Offer{Code: "welcome10", DiscountPercent: decimal.NewFromInt(10), Active: true}); err != nil {
		t.Fatalf("create offer: %v", err)
	}

	// Codes are stored uppercase and looked up case-insensitively.
	offer, err := m.GetOfferByCode(ctx, "Welcome10")
	if err != nil {
		t.Fatalf("get offer: %v", err)
	}
	if offer.Code != "WELCOME10" {
		t.Errorf("expected stored code WELCOME10, got %s", offer.Code)
	}

	_, err = m.CreateOffer(ctx, models.Offer{Code: "WELCOME10", DiscountPercent: decimal.NewFromInt(20), Active: true})
	if !errors.Is(err, ErrDuplicateCode) {
		t.Fatalf("expected ErrDuplicateCode, got: %v", err)
	}
}

func TestSetTableAvailability(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()
	m.SeedTables([]models.Table{{ID: 1, Name: "Table 1", Seats: 2, Available: true}})

	table, err := m.SetTableAvailability(ctx, 1, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if table.Available {
		t.Error("expected table unavailable")
	}

	_, err = m.SetTableAvailability(ctx, 99, true)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}

func TestUsers_LookupByUsername(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	created, err := m.CreateUser(ctx, models.User{Username: "admin", Role: enum.UserRoleAdmin})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}

	got, err := m.GetUserByUsername(ctx, "admin")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != created.ID {
		t.Errorf("expected user %s, got %s", created.ID, got.ID)
	}

	_, err = m.GetUserByUsername(ctx, "nobody")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got: %v", err)
	}
}
