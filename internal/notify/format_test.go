package notify

import (
	"strings"
	"testing"
	"time"

	"github.com/dineflow/api/internal/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func sampleOrder() models.Order {
	return models.Order{
		ID:          uuid.New(),
		OrderNumber: "DF-1001",
		TableNumber: 5,
		Items: []models.OrderItem{
			{ID: uuid.New(), Name: "Margherita Pizza", Quantity: 2, Price: decimal.RequireFromString("12.99")},
			{ID: uuid.New(), Name: "Mojito", Quantity: 1, Price: decimal.RequireFromString("7.99"), Notes: "no mint"},
		},
		TotalAmount: decimal.RequireFromString("35.67"),
		OrderTime:   time.Date(2026, 8, 27, 19, 30, 0, 0, time.UTC),
		Contact:     "98765 43210",
	}
}

func TestFormatContact(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"+91 98765 43210", "+919876543210"},
		{"9876543210", "+9876543210"},
		{"+14155550100", "+14155550100"},
	}
	for _, tc := range cases {
		if got := FormatContact(tc.in); got != tc.want {
			t.Errorf("FormatContact(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestWhatsAppURL(t *testing.T) {
	url := WhatsAppURL("98765 43210", "hello there")

	if !strings.HasPrefix(url, "https://wa.me/+9876543210?text=") {
		t.Errorf("unexpected url prefix: %q", url)
	}
	if !strings.Contains(url, "hello+there") {
		t.Errorf("message not escaped into url: %q", url)
	}
}

func TestBillText(t *testing.T) {
	bill := BillText(sampleOrder(), "Spice Garden", "₹")

	for _, want := range []string{
		"*BILL DETAILS from Spice Garden*",
		"Order #: DF-1001",
		"Table #: 5",
		"2x Margherita Pizza: ₹25.98",
		"1x Mojito: ₹7.99",
		"*TOTAL: ₹35.67*",
		"Thank you for dining with us!",
	} {
		if !strings.Contains(bill, want) {
			t.Errorf("bill missing %q:\n%s", want, bill)
		}
	}
}

func TestKOTText(t *testing.T) {
	kot := KOTText(sampleOrder())

	for _, want := range []string{
		"KITCHEN ORDER TICKET",
		"Order #: DF-1001",
		"Table #: 5",
		"2x Margherita Pizza",
		"1x Mojito - no mint",
	} {
		if !strings.Contains(kot, want) {
			t.Errorf("KOT missing %q:\n%s", want, kot)
		}
	}
	// No prices on a kitchen ticket.
	if strings.Contains(kot, "12.99") || strings.Contains(kot, "₹") {
		t.Errorf("KOT must not carry prices:\n%s", kot)
	}
}
