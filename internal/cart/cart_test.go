package cart

import (
	"errors"
	"testing"

	"github.com/dineflow/api/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func menuItem(name, price string) models.MenuItem {
	p, err := decimal.NewFromString(price)
	if err != nil {
		panic(err)
	}
	return models.MenuItem{
		ID:        uuid.New(),
		Name:      name,
		Price:     p,
		Available: true,
	}
}

func TestAddItem_NewLine(t *testing.T) {
	c := New()
	pizza := menuItem("Margherita Pizza", "12.99")

	c.AddItem(pizza)

	lines := c.Lines()
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0].ID != pizza.ID {
		t.Errorf("expected line id %s, got %s", pizza.ID, lines[0].ID)
	}
	if lines[0].Quantity != 1 {
		t.Errorf("expected quantity 1, got %d", lines[0].Quantity)
	}
	if !lines[0].Price.Equal(pizza.Price) {
		t.Errorf("expected price %s, got %s", pizza.Price, lines[0].Price)
	}
}

func TestAddItem_IncrementsExistingLine(t *testing.T) {
	c := New()
	pizza := menuItem("Margherita Pizza", "12.99")

	c.AddItem(pizza)
	c.AddItem(pizza)
	c.AddItem(pizza)

	lines := c.Lines()
	if len(lines) != 1 {
		t.Fatalf("expected 1 line after repeated adds, got %d", len(lines))
	}
	if lines[0].Quantity != 3 {
		t.Errorf("expected quantity 3, got %d", lines[0].Quantity)
	}
}

func TestAddItem_PriceSnapshotIgnoresCatalogEdit(t *testing.T) {
	c := New()
	pizza := menuItem("Margherita Pizza", "12.99")
	c.AddItem(pizza)

	// Catalog price changes mid-session; the staged line keeps its price.
	pizza.Price = decimal.NewFromFloat(15.99)
	c.AddItem(pizza)

	lines := c.Lines()
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if !lines[0].Price.Equal(decimal.RequireFromString("12.99")) {
		t.Errorf("expected snapshotted price 12.99, got %s", lines[0].Price)
	}
	if !c.TotalPrice().Equal(decimal.RequireFromString("25.98")) {
		t.Errorf("expected total 25.98, got %s", c.TotalPrice())
	}
}

func TestRemoveItem_DecrementsQuantity(t *testing.T) {
	c := New()
	pizza := menuItem("Margherita Pizza", "12.99")
	c.AddItem(pizza)
	c.AddItem(pizza)

	c.RemoveItem(pizza.ID)

	lines := c.Lines()
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0].Quantity != 1 {
		t.Errorf("expected quantity 1, got %d", lines[0].Quantity)
	}
}

func TestRemoveItem_DeletesLineAtZero(t *testing.T) {
	c := New()
	pizza := menuItem("Margherita Pizza", "12.99")
	salad := menuItem("Caesar Salad", "8.99")
	c.AddItem(pizza)
	c.AddItem(salad)

	c.RemoveItem(pizza.ID)

	lines := c.Lines()
	if len(lines) != 1 {
		t.Fatalf("expected 1 line after delete-at-zero, got %d", len(lines))
	}
	if lines[0].ID != salad.ID {
		t.Errorf("wrong line survived: %s", lines[0].Name)
	}
}

func TestRemoveItem_UnknownIDIsNoOp(t *testing.T) {
	c := New()
	pizza := menuItem("Margherita Pizza", "12.99")
	c.AddItem(pizza)

	c.RemoveItem(uuid.New())

	if got := c.TotalItems(); got != 1 {
		t.Errorf("expected cart untouched, got %d items", got)
	}
}

func TestClear_EmptiesAllLines(t *testing.T) {
	c := New()
	c.AddItem(menuItem("Margherita Pizza", "12.99"))
	c.AddItem(menuItem("Caesar Salad", "8.99"))

	c.Clear()

	if len(c.Lines()) != 0 {
		t.Errorf("expected empty cart, got %d lines", len(c.Lines()))
	}
	if !c.TotalPrice().Equal(decimal.Zero) {
		t.Errorf("expected zero total, got %s", c.TotalPrice())
	}
}

func TestTotals_RecomputedFromLines(t *testing.T) {
	c := New()
	pizza := menuItem("Margherita Pizza", "12.99")
	salad := menuItem("Caesar Salad", "8.99")
	c.AddItem(pizza)
	c.AddItem(pizza)
	c.AddItem(salad)

	if got := c.TotalItems(); got != 3 {
		t.Errorf("expected 3 items, got %d", got)
	}
	want := decimal.RequireFromString("34.97")
	if !c.TotalPrice().Equal(want) {
		t.Errorf("expected total %s, got %s", want, c.TotalPrice())
	}
}

func TestLines_ReturnsCopy(t *testing.T) {
	c := New()
	c.AddItem(menuItem("Margherita Pizza", "12.99"))

	lines := c.Lines()
	lines[0].Quantity = 99

	if got := c.TotalItems(); got != 1 {
		t.Errorf("mutating the returned slice changed the cart: %d items", got)
	}
}

func TestRestore_RoundTripsSnapshot(t *testing.T) {
	c := New()
	pizza := menuItem("Margherita Pizza", "12.99")
	c.AddItem(pizza)
	c.AddItem(pizza)

	restored, err := Restore(c.Snapshot())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if restored.TotalItems() != 2 {
		t.Errorf("expected 2 items after restore, got %d", restored.TotalItems())
	}
	if !restored.TotalPrice().Equal(c.TotalPrice()) {
		t.Errorf("totals differ after restore: %s vs %s", restored.TotalPrice(), c.TotalPrice())
	}
}

func TestRestore_RejectsMalformedLines(t *testing.T) {
	bad := [][]models.CartLine{
		{{ID: uuid.Nil, Name: "x", Price: decimal.NewFromInt(1), Quantity: 1}},
		{{ID: uuid.New(), Name: "x", Price: decimal.NewFromInt(1), Quantity: 0}},
		{{ID: uuid.New(), Name: "x", Price: decimal.NewFromInt(-1), Quantity: 1}},
	}
	for i, lines := range bad {
		if _, err := Restore(lines); !errors.Is(err, models.ErrBadSnapshot) {
			t.Errorf("case %d: expected ErrBadSnapshot, got: %v", i, err)
		}
	}
}

func TestTotal_OverRawSnapshot(t *testing.T) {
	lines := []models.CartLine{
		{ID: uuid.New(), Name: "Margherita Pizza", Price: decimal.RequireFromString("12.99"), Quantity: 2},
		{ID: uuid.New(), Name: "Mojito", Price: decimal.RequireFromString("7.99"), Quantity: 1},
	}
	want := decimal.RequireFromString("33.97")
	if got := Total(lines); !got.Equal(want) {
		t.Errorf("expected %s, got %s", want, got)
	}
}
