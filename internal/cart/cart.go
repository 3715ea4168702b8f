// Package cart implements the customer's in-progress selection of menu
// items. The cart has no side effects beyond its own line list; handing
// the snapshot to storage is the checkout pipeline's job.
package cart

import (
	"github.com/dineflow/api/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cart tracks quantities of selected menu items during browsing. It keeps
// at most one line per distinct item id and never holds a zero-quantity
// line. Cart is not safe for concurrent use; each browsing session owns
// its own cart.
type Cart struct {
	lines []models.CartLine
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// AddItem increments the line for item.ID, or inserts a new line with
// quantity 1. Name, price, and image are copied from the catalog entry at
// call time; the price is deliberately not re-read from the catalog
// afterward, so a mid-session price edit does not change the cart.
// Availability is the caller's gate: the menu surface refuses to add
// unavailable items before the cart ever sees them.
func (c *Cart) AddItem(item models.MenuItem) {
	for i := range c.lines {
		if c.lines[i].ID == item.ID {
			c.lines[i].Quantity++
			return
		}
	}
	c.lines = append(c.lines, models.CartLine{
		ID:       item.ID,
		Name:     item.Name,
		Price:    item.Price,
		Quantity: 1,
		Image:    item.Image,
	})
}

// RemoveItem decrements the line for itemID, deleting it when the
// quantity would drop to zero. Absent ids are a no-op.
func (c *Cart) RemoveItem(itemID uuid.UUID) {
	for i := range c.lines {
		if c.lines[i].ID != itemID {
			continue
		}
		if c.lines[i].Quantity > 1 {
			c.lines[i].Quantity--
		} else {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
		}
		return
	}
}

// Clear empties all lines unconditionally.
func (c *Cart) Clear() {
	c.lines = nil
}

// Lines returns a copy of the current lines.
func (c *Cart) Lines() []models.CartLine {
	out := make([]models.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// TotalItems is the sum of quantities, recomputed on every read.
func (c *Cart) TotalItems() int32 {
	var n int32
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// TotalPrice is the sum of price times quantity, recomputed on every read.
func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Price.Mul(decimal.NewFromInt32(l.Quantity)))
	}
	return total
}

// Snapshot serializes the cart for the staged checkout handoff.
func (c *Cart) Snapshot() []models.CartLine {
	return c.Lines()
}

// Restore replaces the cart contents with a staged snapshot, rejecting
// malformed lines so undefined values cannot propagate past the
// storage-read boundary.
func Restore(lines []models.CartLine) (*Cart, error) {
	c := New()
	for _, l := range lines {
		if err := l.Validate(); err != nil {
			return nil, err
		}
	}
	c.lines = make([]models.CartLine, len(lines))
	copy(c.lines, lines)
	return c, nil
}

// Total computes the sum of price times quantity over a raw snapshot.
// Used by pipeline stages that only hold the serialized form.
func Total(lines []models.CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Price.Mul(decimal.NewFromInt32(l.Quantity)))
	}
	return total
}
