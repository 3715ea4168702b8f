package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dineflow/api/internal/enum"
	"github.com/dineflow/api/internal/models"
	"github.com/dineflow/api/internal/store"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const maxOrderNumberRetries = 3

// Errors returned by the order service.
var (
	ErrEmptyItems        = errors.New("items are required")
	ErrInvalidQuantity   = errors.New("quantity must be > 0")
	ErrInvalidTable      = errors.New("table_number must be positive")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrOrderNotFound     = errors.New("order not found")
)

// statusSuccessor is the single permitted next state for each non-terminal
// status. served and cancelled have no successor.
var statusSuccessor = map[string]string{
	enum.OrderStatusPending:   enum.OrderStatusPreparing,
	enum.OrderStatusPreparing: enum.OrderStatusReady,
	enum.OrderStatusReady:     enum.OrderStatusServed,
}

// CreateOrderRequest is the validated input for creating an order from a
// completed checkout. Monetary fields arrive precomputed by the pipeline;
// the subtotal is recomputed here and must match the line items.
type CreateOrderRequest struct {
	TableNumber    int
	Items          []models.CartLine
	DiscountAmount decimal.Decimal
	TaxAmount      decimal.Decimal
	PaymentStatus  string
	PaymentMethod  string
	Contact        string
	CustomerName   string
}

// OrderService handles order lifecycle business logic.
type OrderService struct {
	store store.OrderStore
	now   func() time.Time
}

// NewOrderService creates a new OrderService.
func NewOrderService(st store.OrderStore) *OrderService {
	return &OrderService{store: st, now: time.Now}
}

// CreateOrder builds and persists a new order with status pending.
// TotalAmount is fixed here and never recomputed afterward.
func (s *OrderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (models.Order, error) {
	if len(req.Items) == 0 {
		return models.Order{}, ErrEmptyItems
	}
	if req.TableNumber <= 0 {
		return models.Order{}, ErrInvalidTable
	}

	subtotal := decimal.Zero
	items := make([]models.OrderItem, len(req.Items))
	for i, line := range req.Items {
		if line.Quantity <= 0 {
			return models.Order{}, fmt.Errorf("items[%d]: %w", i, ErrInvalidQuantity)
		}
		items[i] = models.OrderItem{
			ID:       line.ID,
			Name:     line.Name,
			Quantity: line.Quantity,
			Price:    line.Price,
		}
		subtotal = subtotal.Add(line.Price.Mul(decimal.NewFromInt32(line.Quantity)))
	}

	total := subtotal.Sub(req.DiscountAmount).Add(req.TaxAmount)
	if total.IsNegative() {
		total = decimal.Zero
	}

	paymentStatus := req.PaymentStatus
	if paymentStatus == "" {
		paymentStatus = enum.PaymentStatusPending
	}

	// Retry on sequence collisions: two checkouts can read the same MAX
	// from a shared store before either inserts.
	var lastErr error
	for attempt := 0; attempt < maxOrderNumberRetries; attempt++ {
		seq, err := s.store.NextOrderSeq(ctx)
		if err != nil {
			return models.Order{}, fmt.Errorf("next order seq: %w", err)
		}

		order, err := s.store.CreateOrder(ctx, models.Order{
			OrderNumber:    fmt.Sprintf("DF-%04d", seq),
			OrderSeq:       seq,
			TableNumber:    req.TableNumber,
			Status:         enum.OrderStatusPending,
			Items:          items,
			Subtotal:       subtotal,
			DiscountAmount: req.DiscountAmount,
			TaxAmount:      req.TaxAmount,
			TotalAmount:    total,
			OrderTime:      s.now(),
			PaymentStatus:  paymentStatus,
			PaymentMethod:  req.PaymentMethod,
			Contact:        req.Contact,
			CustomerName:   req.CustomerName,
		})
		if err == nil {
			return order, nil
		}
		lastErr = err
	}
	return models.Order{}, fmt.Errorf("create order: %w", lastErr)
}

// Advance moves an order to its single permitted next status. Orders that
// are already served or cancelled have no successor and the call is
// rejected with ErrInvalidTransition; the stored status is left unchanged.
func (s *OrderService) Advance(ctx context.Context, id uuid.UUID) (models.Order, error) {
	order, err := s.store.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.Order{}, ErrOrderNotFound
		}
		return models.Order{}, fmt.Errorf("get order: %w", err)
	}

	next, ok := statusSuccessor[order.Status]
	if !ok {
		return models.Order{}, fmt.Errorf("%w: cannot advance from %s", ErrInvalidTransition, order.Status)
	}

	updated, err := s.store.UpdateStatus(ctx, id, order.Status, next)
	if err != nil {
		if errors.Is(err, store.ErrStatusChanged) {
			return models.Order{}, fmt.Errorf("%w: status changed, please retry", ErrInvalidTransition)
		}
		return models.Order{}, fmt.Errorf("update status: %w", err)
	}
	return updated, nil
}

// Cancel sets the order to cancelled. Allowed from any non-terminal
// status; served and cancelled orders are rejected.
func (s *OrderService) Cancel(ctx context.Context, id uuid.UUID) (models.Order, error) {
	order, err := s.store.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.Order{}, ErrOrderNotFound
		}
		return models.Order{}, fmt.Errorf("get order: %w", err)
	}

	switch order.Status {
	case enum.OrderStatusServed:
		return models.Order{}, fmt.Errorf("%w: cannot cancel a served order", ErrInvalidTransition)
	case enum.OrderStatusCancelled:
		return models.Order{}, fmt.Errorf("%w: order is already cancelled", ErrInvalidTransition)
	}

	updated, err := s.store.UpdateStatus(ctx, id, order.Status, enum.OrderStatusCancelled)
	if err != nil {
		if errors.Is(err, store.ErrStatusChanged) {
			return models.Order{}, fmt.Errorf("%w: status changed, please retry", ErrInvalidTransition)
		}
		return models.Order{}, fmt.Errorf("update status: %w", err)
	}
	return updated, nil
}

// MarkPaid flips paymentStatus pending -> paid. The transition is
// one-directional: marking an already-paid order is a harmless no-op and
// the status is never reverted. Cancelled orders are rejected so revenue
// cannot be recorded against a dead ticket.
func (s *OrderService) MarkPaid(ctx context.Context, id uuid.UUID) (models.Order, error) {
	order, err := s.store.GetOrder(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.Order{}, ErrOrderNotFound
		}
		return models.Order{}, fmt.Errorf("get order: %w", err)
	}
	if order.Status == enum.OrderStatusCancelled {
		return models.Order{}, fmt.Errorf("%w: cannot mark a cancelled order paid", ErrInvalidTransition)
	}

	updated, err := s.store.MarkPaid(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return models.Order{}, ErrOrderNotFound
		}
		return models.Order{}, fmt.Errorf("mark paid: %w", err)
	}
	return updated, nil
}

// NextStatus exposes the successor table for read-only use (the dashboard
// shows the one-step action label per order card).
func NextStatus(status string) (string, bool) {
	next, ok := statusSuccessor[status]
	return next, ok
}

// CanCancel reports whether the order may still be cancelled.
func CanCancel(status string) bool {
	return status != enum.OrderStatusServed && status != enum.OrderStatusCancelled
}
