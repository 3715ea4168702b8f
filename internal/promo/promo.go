// Package promo validates offer codes applied at checkout.
package promo

import (
	"context"
	"errors"
	"strings"

	"github.com/dineflow/api/internal/store"
	"github.com/shopspring/decimal"
)

var ErrInvalidCode = errors.New("offer code is not valid")

// Validator checks offer codes against the offers managed from the admin
// dashboard.
type Validator struct {
	offers store.OfferStore
}

// NewValidator creates a validator backed by the given offer store.
func NewValidator(offers store.OfferStore) *Validator {
	return &Validator{offers: offers}
}

// IsValid reports whether the code names an active offer.
func (v *Validator) IsValid(ctx context.Context, code string) bool {
	_, err := v.Discount(ctx, code, decimal.Zero)
	return err == nil
}

// Discount returns the discount to subtract from the given subtotal for
// the code, or ErrInvalidCode if the code is unknown or inactive.
func (v *Validator) Discount(ctx context.Context, code string, subtotal decimal.Decimal) (decimal.Decimal, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return decimal.Zero, ErrInvalidCode
	}
	offer, err := v.offers.GetOfferByCode(ctx, code)
	if err != nil {
		return decimal.Zero, ErrInvalidCode
	}
	if !offer.Active {
		return decimal.Zero, ErrInvalidCode
	}
	return subtotal.Mul(offer.DiscountPercent).Div(decimal.NewFromInt(100)), nil
}
