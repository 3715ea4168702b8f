package store

import (
	"context"
	"errors"

	"github.com/dineflow/api/internal/models"
	"github.com/google/uuid"
)

// Errors returned by stores.
var (
	ErrNotFound      = errors.New("not found")
	ErrStatusChanged = errors.New("status changed concurrently")
	ErrDuplicateCode = errors.New("code already exists")
)

// MenuStore provides access to the menu item catalog.
type MenuStore interface {
	ListMenuItems(ctx context.Context) ([]models.MenuItem, error)
	GetMenuItem(ctx context.Context, id uuid.UUID) (models.MenuItem, error)
	CreateMenuItem(ctx context.Context, item models.MenuItem) (models.MenuItem, error)
	UpdateMenuItem(ctx context.Context, item models.MenuItem) (models.MenuItem, error)
	DeleteMenuItem(ctx context.Context, id uuid.UUID) error
}

// CategoryStore provides access to menu categories.
type CategoryStore interface {
	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, c models.Category) (models.Category, error)
	UpdateCategory(ctx context.Context, c models.Category) (models.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

// TableStore provides access to the fixed table catalog.
type TableStore interface {
	ListTables(ctx context.Context) ([]models.Table, error)
	GetTable(ctx context.Context, id int) (models.Table, error)
	SetTableAvailability(ctx context.Context, id int, available bool) (models.Table, error)
}

// ListOrdersParams filters the admin order board. A Limit of 0 means no
// limit; every implementation must honor that so full scans (the report
// summary) see every order.
type ListOrdersParams struct {
	Status string
	Limit  int
	Offset int
}

// OrderStore persists orders. UpdateStatus performs a compare-and-set on
// the current status so concurrent operator actions cannot race a
// transition past a terminal state.
type OrderStore interface {
	NextOrderSeq(ctx context.Context) (int, error)
	CreateOrder(ctx context.Context, o models.Order) (models.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (models.Order, error)
	ListOrders(ctx context.Context, params ListOrdersParams) ([]models.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to string) (models.Order, error)
	MarkPaid(ctx context.Context, id uuid.UUID) (models.Order, error)
}

// OfferStore provides access to promotional offers.
type OfferStore interface {
	ListOffers(ctx context.Context) ([]models.Offer, error)
	GetOfferByCode(ctx context.Context, code string) (models.Offer, error)
	CreateOffer(ctx context.Context, o models.Offer) (models.Offer, error)
	UpdateOffer(ctx context.Context, o models.Offer) (models.Offer, error)
	DeleteOffer(ctx context.Context, id uuid.UUID) error
}

// UserStore provides access to dashboard operator accounts.
type UserStore interface {
	GetUserByUsername(ctx context.Context, username string) (models.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (models.User, error)
	CreateUser(ctx context.Context, u models.User) (models.User, error)
}
