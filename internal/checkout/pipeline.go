// Package checkout implements the three-stage pipeline that turns a cart
// into a persisted order: menu (cart + contact), table selection, payment.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/dineflow/api/internal/cart"
	"github.com/dineflow/api/internal/enum"
	"github.com/dineflow/api/internal/models"
	"github.com/dineflow/api/internal/notify"
	"github.com/dineflow/api/internal/payment"
	"github.com/dineflow/api/internal/promo"
	"github.com/dineflow/api/internal/service"
	"github.com/dineflow/api/internal/store"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Errors returned by the pipeline. All are recoverable by user action;
// none abort the session except ErrSessionNotFound.
var (
	ErrEmptyCart             = errors.New("cart is empty")
	ErrMissingContact        = errors.New("contact number is required")
	ErrMissingTableSelection = errors.New("no table selected")
	ErrTableNotFound         = errors.New("table not found")
	ErrTableUnavailable      = errors.New("table is not available")
	ErrItemUnavailable       = errors.New("menu item is not available")
	ErrInvalidPaymentMethod  = errors.New("invalid payment method")
	ErrPaymentFailed         = errors.New("payment failed")
	ErrPaymentInProgress     = errors.New("payment is being processed")
)

// Totals is the priced view of a session at the payment stage.
type Totals struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	Discount   decimal.Decimal `json:"discount"`
	Tax        decimal.Decimal `json:"tax"`
	GrandTotal decimal.Decimal `json:"grand_total"`
}

// Result is what a successful payment stage produces.
type Result struct {
	Order   models.Order         `json:"order"`
	Payment models.PaymentResult `json:"payment"`
}

// Pipeline wires the session store to the collaborators each stage needs.
type Pipeline struct {
	sessions SessionStore
	menu     store.MenuStore
	tables   store.TableStore
	offers   *promo.Validator
	gateway  payment.Gateway
	orders   *service.OrderService
	notifier *notify.Notifier
	settings *store.SettingsStore
}

// NewPipeline creates a checkout pipeline.
func NewPipeline(
	sessions SessionStore,
	menu store.MenuStore,
	tables store.TableStore,
	offers *promo.Validator,
	gateway payment.Gateway,
	orders *service.OrderService,
	notifier *notify.Notifier,
	settings *store.SettingsStore,
) *Pipeline {
	return &Pipeline{
		sessions: sessions,
		menu:     menu,
		tables:   tables,
		offers:   offers,
		gateway:  gateway,
		orders:   orders,
		notifier: notifier,
		settings: settings,
	}
}

// Start creates a fresh session with an empty cart.
func (p *Pipeline) Start(ctx context.Context) (Session, error) {
	s := Session{
		ID:        uuid.NewString(),
		Cart:      []models.CartLine{},
		Status:    enum.SessionActive,
		CreatedAt: time.Now(),
	}
	if err := p.sessions.Put(ctx, s); err != nil {
		return Session{}, fmt.Errorf("put session: %w", err)
	}
	return s, nil
}

// Get returns the staged session.
func (p *Pipeline) Get(ctx context.Context, sid string) (Session, error) {
	return p.sessions.Get(ctx, sid)
}

// getMutable loads the session for a write. While a payment is in flight
// the staged snapshot is what the gateway is charging against, so every
// mutation is refused until the payment settles.
func (p *Pipeline) getMutable(ctx context.Context, sid string) (Session, error) {
	s, err := p.sessions.Get(ctx, sid)
	if err != nil {
		return Session{}, err
	}
	if s.Status == enum.SessionProcessing {
		return Session{}, ErrPaymentInProgress
	}
	return s, nil
}

// AddItem puts one unit of the menu item into the session's cart. The
// catalog entry is resolved at call time and its price snapshotted into
// the line; unavailable items are rejected here, before the cart engine
// ever sees them.
func (p *Pipeline) AddItem(ctx context.Context, sid string, itemID uuid.UUID) (Session, error) {
	s, err := p.getMutable(ctx, sid)
	if err != nil {
		return Session{}, err
	}
	item, err := p.menu.GetMenuItem(ctx, itemID)
	if err != nil {
		return Session{}, err
	}
	if !item.Available {
		return Session{}, ErrItemUnavailable
	}

	c, err := cart.Restore(s.Cart)
	if err != nil {
		return Session{}, err
	}
	c.AddItem(item)
	s.Cart = c.Snapshot()

	if err := p.sessions.Put(ctx, s); err != nil {
		return Session{}, fmt.Errorf("put session: %w", err)
	}
	return s, nil
}

// RemoveItem takes one unit of the item out of the cart, deleting the
// line at zero. Unknown ids are a no-op.
func (p *Pipeline) RemoveItem(ctx context.Context, sid string, itemID uuid.UUID) (Session, error) {
	s, err := p.getMutable(ctx, sid)
	if err != nil {
		return Session{}, err
	}

	c, err := cart.Restore(s.Cart)
	if err != nil {
		return Session{}, err
	}
	c.RemoveItem(itemID)
	s.Cart = c.Snapshot()

	if err := p.sessions.Put(ctx, s); err != nil {
		return Session{}, fmt.Errorf("put session: %w", err)
	}
	return s, nil
}

// ClearCart empties the session's cart.
func (p *Pipeline) ClearCart(ctx context.Context, sid string) (Session, error) {
	s, err := p.getMutable(ctx, sid)
	if err != nil {
		return Session{}, err
	}
	s.Cart = []models.CartLine{}
	if err := p.sessions.Put(ctx, s); err != nil {
		return Session{}, fmt.Errorf("put session: %w", err)
	}
	return s, nil
}

// SetContact stores the customer's WhatsApp number. The only validation
// is non-blank after trim; no format or pattern checks.
func (p *Pipeline) SetContact(ctx context.Context, sid, contact string) (Session, error) {
	contact = strings.TrimSpace(contact)
	if contact == "" {
		return Session{}, ErrMissingContact
	}
	s, err := p.getMutable(ctx, sid)
	if err != nil {
		return Session{}, err
	}
	s.Contact = contact
	if err := p.sessions.Put(ctx, s); err != nil {
		return Session{}, fmt.Errorf("put session: %w", err)
	}
	return s, nil
}

// SetOffer applies an offer code to the session.
func (p *Pipeline) SetOffer(ctx context.Context, sid, code string) (Session, error) {
	s, err := p.getMutable(ctx, sid)
	if err != nil {
		return Session{}, err
	}
	if !p.offers.IsValid(ctx, code) {
		return Session{}, promo.ErrInvalidCode
	}
	s.OfferCode = strings.ToUpper(strings.TrimSpace(code))
	if err := p.sessions.Put(ctx, s); err != nil {
		return Session{}, fmt.Errorf("put session: %w", err)
	}
	return s, nil
}

// SelectTable advances the pipeline past the menu stage. It enforces the
// stage-1 gate (non-empty cart, non-blank contact) and then stages the
// chosen table; unavailable tables cannot be selected.
func (p *Pipeline) SelectTable(ctx context.Context, sid string, tableID int) (Session, error) {
	s, err := p.getMutable(ctx, sid)
	if err != nil {
		return Session{}, err
	}
	if len(s.Cart) == 0 {
		return Session{}, ErrEmptyCart
	}
	if strings.TrimSpace(s.Contact) == "" {
		return Session{}, ErrMissingContact
	}

	table, err := p.tables.GetTable(ctx, tableID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Session{}, ErrTableNotFound
		}
		return Session{}, fmt.Errorf("get table: %w", err)
	}
	if !table.Available {
		return Session{}, ErrTableUnavailable
	}

	s.TableNumber = table.ID
	if err := p.sessions.Put(ctx, s); err != nil {
		return Session{}, fmt.Errorf("put session: %w", err)
	}
	return s, nil
}

// Totals prices the session: subtotal from the staged snapshot, offer
// discount, then tax on the discounted subtotal.
func (p *Pipeline) Totals(ctx context.Context, s Session) Totals {
	subtotal := cart.Total(s.Cart)

	discount := decimal.Zero
	if s.OfferCode != "" {
		if d, err := p.offers.Discount(ctx, s.OfferCode, subtotal); err == nil {
			discount = d
		}
	}

	taxable := subtotal.Sub(discount)
	tax := taxable.Mul(p.settings.TaxRate())
	return Totals{
		Subtotal:   subtotal,
		Discount:   discount,
		Tax:        tax,
		GrandTotal: taxable.Add(tax),
	}
}

// UPILink builds the deep link for the session's grand total.
func (p *Pipeline) UPILink(ctx context.Context, sid string) (string, error) {
	s, err := p.sessions.Get(ctx, sid)
	if err != nil {
		return "", err
	}
	if s.TableNumber == 0 {
		return "", ErrMissingTableSelection
	}
	cfg := p.settings.Get()
	totals := p.Totals(ctx, s)
	return payment.UPILink(cfg.UPIVPA, cfg.RestaurantName, totals.GrandTotal, s.TableNumber), nil
}

// Pay runs the payment stage. The session must have passed the earlier
// gates: non-empty cart, contact, chosen table. On success the order is
// created with status pending, the session is deleted (the single
// invalidation point), and the bill and kitchen ticket are dispatched.
// On failure the session is left intact so the customer can retry.
func (p *Pipeline) Pay(ctx context.Context, sid, method string) (Result, error) {
	s, err := p.getMutable(ctx, sid)
	if err != nil {
		return Result{}, err
	}
	if len(s.Cart) == 0 {
		return Result{}, ErrEmptyCart
	}
	if strings.TrimSpace(s.Contact) == "" {
		return Result{}, ErrMissingContact
	}
	if s.TableNumber == 0 {
		return Result{}, ErrMissingTableSelection
	}
	if !validPaymentMethod(method) {
		return Result{}, ErrInvalidPaymentMethod
	}

	totals := p.Totals(ctx, s)

	// Mark the session as processing so the abandonment guard can refuse
	// navigation away while the gateway call is in flight.
	s.Status = enum.SessionProcessing
	if err := p.sessions.Put(ctx, s); err != nil {
		return Result{}, fmt.Errorf("put session: %w", err)
	}

	result, err := p.gateway.Process(ctx, totals.GrandTotal, method)
	if err != nil {
		// The gateway call itself did not settle; release the guard.
		p.releaseProcessing(ctx, sid)
		return Result{}, fmt.Errorf("process payment: %w", err)
	}

	// Stale-result guard: if the session vanished while the gateway call
	// was in flight, the flow was abandoned and the result is discarded.
	s, err = p.sessions.Get(ctx, sid)
	if err != nil {
		return Result{}, err
	}

	if !result.Success {
		// Leave the staged data in place for retry.
		s.Status = enum.SessionActive
		if err := p.sessions.Put(ctx, s); err != nil {
			return Result{}, fmt.Errorf("put session: %w", err)
		}
		return Result{Payment: result}, ErrPaymentFailed
	}

	order, err := p.orders.CreateOrder(ctx, service.CreateOrderRequest{
		TableNumber:    s.TableNumber,
		Items:          s.Cart,
		DiscountAmount: totals.Discount,
		TaxAmount:      totals.Tax,
		PaymentStatus:  paymentStatusFor(method),
		PaymentMethod:  method,
		Contact:        s.Contact,
	})
	if err != nil {
		p.releaseProcessing(ctx, sid)
		return Result{}, fmt.Errorf("create order: %w", err)
	}

	// Single invalidation point: the whole session goes at once.
	if err := p.sessions.Delete(ctx, sid); err != nil {
		log.Printf("ERROR: delete checkout session %s: %v", sid, err)
	}

	// Bill and kitchen ticket are fire-and-forget; a sink failure never
	// fails the order.
	if p.notifier != nil {
		if err := p.notifier.SendBill(ctx, order); err != nil {
			log.Printf("ERROR: send bill for %s: %v", order.OrderNumber, err)
		}
		if err := p.notifier.SendKOT(ctx, order); err != nil {
			log.Printf("ERROR: send KOT for %s: %v", order.OrderNumber, err)
		}
	}

	return Result{Order: order, Payment: result}, nil
}

// Abandon deletes the session unless a payment is actively processing.
func (p *Pipeline) Abandon(ctx context.Context, sid string) error {
	s, err := p.sessions.Get(ctx, sid)
	if err != nil {
		return err
	}
	if s.Status == enum.SessionProcessing {
		return ErrPaymentInProgress
	}
	return p.sessions.Delete(ctx, sid)
}

func (p *Pipeline) releaseProcessing(ctx context.Context, sid string) {
	s, err := p.sessions.Get(ctx, sid)
	if err != nil {
		return
	}
	s.Status = enum.SessionActive
	if err := p.sessions.Put(ctx, s); err != nil {
		log.Printf("ERROR: release checkout session %s: %v", sid, err)
	}
}

func validPaymentMethod(m string) bool {
	switch m {
	case enum.PaymentMethodCash, enum.PaymentMethodCard,
		enum.PaymentMethodUPI, enum.PaymentMethodQR:
		return true
	}
	return false
}

// paymentStatusFor maps the method to the order's initial payment status:
// cash is settled at the table when the food arrives, everything else is
// charged up front.
func paymentStatusFor(method string) string {
	if method == enum.PaymentMethodCash {
		return enum.PaymentStatusPending
	}
	return enum.PaymentStatusPaid
}
