package notify

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/dineflow/api/internal/models"
	"github.com/shopspring/decimal"
)

// FormatContact normalizes a WhatsApp number: spaces removed, leading +
// added when missing.
func FormatContact(contact string) string {
	c := strings.ReplaceAll(contact, " ", "")
	if !strings.HasPrefix(c, "+") {
		c = "+" + c
	}
	return c
}

// WhatsAppURL builds a wa.me link that opens a chat to the contact with
// the message prefilled.
func WhatsAppURL(contact, message string) string {
	return fmt.Sprintf("https://wa.me/%s?text=%s", FormatContact(contact), url.QueryEscape(message))
}

// BillText renders the customer's bill.
func BillText(order models.Order, restaurantName, currencySymbol string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*BILL DETAILS from %s*\n", restaurantName)
	fmt.Fprintf(&b, "Order #: %s\n", order.OrderNumber)
	fmt.Fprintf(&b, "Table #: %d\n", order.TableNumber)
	fmt.Fprintf(&b, "Date: %s\n\n", order.OrderTime.Format("02 Jan 2006 15:04"))
	b.WriteString("*ITEMS:*\n")
	for _, item := range order.Items {
		lineTotal := item.Price.Mul(decimal.NewFromInt32(item.Quantity))
		fmt.Fprintf(&b, "%dx %s: %s%s\n", item.Quantity, item.Name, currencySymbol, lineTotal.StringFixed(2))
	}
	fmt.Fprintf(&b, "\n*TOTAL: %s%s*\n\n", currencySymbol, order.TotalAmount.StringFixed(2))
	b.WriteString("Thank you for dining with us!")
	return b.String()
}

// KOTText renders the kitchen order ticket.
func KOTText(order models.Order) string {
	var b strings.Builder
	b.WriteString("KITCHEN ORDER TICKET\n")
	b.WriteString("------------------\n")
	fmt.Fprintf(&b, "Order #: %s\n", order.OrderNumber)
	fmt.Fprintf(&b, "Table #: %d\n", order.TableNumber)
	fmt.Fprintf(&b, "Date: %s\n", order.OrderTime.Format("02 Jan 2006 15:04"))
	b.WriteString("------------------\n")
	b.WriteString("ITEMS:\n")
	for _, item := range order.Items {
		fmt.Fprintf(&b, "%dx %s", item.Quantity, item.Name)
		if item.Notes != "" {
			fmt.Fprintf(&b, " - %s", item.Notes)
		}
		b.WriteString("\n")
	}
	b.WriteString("------------------\n")
	return b.String()
}
