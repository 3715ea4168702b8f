package payment

import (
	"fmt"
	"net/url"

	"github.com/shopspring/decimal"
)

// UPILink builds a upi://pay deep link for the given amount. The table
// number goes into the transaction note so the restaurant can match the
// incoming payment to the order.
func UPILink(vpa, payeeName string, amount decimal.Decimal, tableNumber int) string {
	note := fmt.Sprintf("Payment for order at table %d", tableNumber)
	return fmt.Sprintf(
		"upi://pay?pa=%s&pn=%s&am=%s&tn=%s",
		vpa,
		url.QueryEscape(payeeName),
		amount.StringFixed(2),
		url.QueryEscape(note),
	)
}
