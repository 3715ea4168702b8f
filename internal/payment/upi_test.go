package payment

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
)

func TestUPILink(t *testing.T) {
	link := UPILink("spicegarden@upi", "Spice Garden", decimal.RequireFromString("13.64"), 5)

	want := "upi://pay?pa=spicegarden@upi&pn=Spice+Garden&am=13.64&tn=Payment+for+order+at+table+5"
	if link != want {
		t.Errorf("expected %q, got %q", want, link)
	}
}

func TestUPILink_AmountAlwaysTwoDecimals(t *testing.T) {
	link := UPILink("a@upi", "A", decimal.NewFromInt(20), 1)

	if !strings.Contains(link, "am=20.00") {
		t.Errorf("expected am=20.00 in %q", link)
	}
}
