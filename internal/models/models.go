package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrBadSnapshot is returned when a staged cart snapshot fails validation
// at the storage-read boundary (missing id, bad price, bad quantity).
var ErrBadSnapshot = errors.New("malformed cart snapshot")

// Category groups menu items on the customer-facing menu.
type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	SortOrder   int32     `json:"sort_order"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
}

// MenuItem is an immutable catalog entry. It is created, edited, and
// deleted only through admin menu management.
type MenuItem struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description,omitempty"`
	CategoryID  uuid.UUID       `json:"category_id"`
	Available   bool            `json:"available"`
	Image       string          `json:"image,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// CartLine is one selected menu item in a cart. Name, price, and image
// are copied from the catalog entry at add time; the price is a snapshot
// and is never re-read from the catalog.
type CartLine struct {
	ID       uuid.UUID       `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int32           `json:"quantity"`
	Image    string          `json:"image,omitempty"`
}

// Validate rejects lines that cannot have come from a well-formed cart.
func (l CartLine) Validate() error {
	if l.ID == uuid.Nil {
		return ErrBadSnapshot
	}
	if l.Quantity < 1 {
		return ErrBadSnapshot
	}
	if l.Price.IsNegative() {
		return ErrBadSnapshot
	}
	return nil
}

// Table is an entry in the fixed table catalog used during checkout.
type Table struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Seats     int    `json:"seats"`
	Available bool   `json:"available"`
}

// OrderItem is a line on a placed order.
type OrderItem struct {
	ID       uuid.UUID       `json:"id"`
	Name     string          `json:"name"`
	Quantity int32           `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Notes    string          `json:"notes,omitempty"`
}

// Order is an admin-visible order. TotalAmount is fixed at creation time
// and never recomputed. Orders are never deleted; cancellation is a status.
type Order struct {
	ID             uuid.UUID       `json:"id"`
	OrderNumber    string          `json:"order_number"`
	OrderSeq       int             `json:"-"`
	TableNumber    int             `json:"table_number"`
	Status         string          `json:"status"`
	Items          []OrderItem     `json:"items"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	TaxAmount      decimal.Decimal `json:"tax_amount"`
	TotalAmount    decimal.Decimal `json:"total_amount"`
	OrderTime      time.Time       `json:"order_time"`
	PaymentStatus  string          `json:"payment_status"`
	PaymentMethod  string          `json:"payment_method,omitempty"`
	Contact        string          `json:"contact,omitempty"`
	CustomerName   string          `json:"customer_name,omitempty"`
}

// Offer is a promotional discount code managed from the admin dashboard.
type Offer struct {
	ID              uuid.UUID       `json:"id"`
	Code            string          `json:"code"`
	Title           string          `json:"title"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	Active          bool            `json:"active"`
	CreatedAt       time.Time       `json:"created_at"`
}

// User is a dashboard operator account.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	PasswordHash []byte    `json:"-"`
	Role         string    `json:"role"`
}

// PaymentResult is the settled outcome of a gateway call. It is ephemeral:
// consumed immediately to decide the order's payment status, never stored.
// TransactionID is present exactly when Success is true.
type PaymentResult struct {
	Success       bool            `json:"success"`
	Message       string          `json:"message"`
	TransactionID string          `json:"transaction_id,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
}
