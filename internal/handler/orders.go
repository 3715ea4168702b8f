package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/dineflow/api/internal/notify"
	"github.com/dineflow/api/internal/service"
	"github.com/dineflow/api/internal/store"
	"github.com/dineflow/api/internal/ws"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// OrderHandler exposes the admin order board: listing, the single-step
// status advance, cancellation, and settling cash payments.
type OrderHandler struct {
	store    store.OrderStore
	service  *service.OrderService
	notifier *notify.Notifier
	hub      *ws.Hub
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(st store.OrderStore, svc *service.OrderService, notifier *notify.Notifier, hub *ws.Hub) *OrderHandler {
	return &OrderHandler{store: st, service: svc, notifier: notifier, hub: hub}
}

// RegisterRoutes registers the protected order endpoints.
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Get("/orders", h.List)
	r.Get("/orders/{id}", h.Get)
	r.Post("/orders/{id}/advance", h.Advance)
	r.Delete("/orders/{id}", h.Cancel)
	r.Post("/orders/{id}/payment", h.MarkPaid)
	r.Post("/orders/{id}/kot", h.ResendKOT)
}

// List handles GET /orders?status=&limit=&offset=.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	params := store.ListOrdersParams{
		Status: r.URL.Query().Get("status"),
		Limit:  50,
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 200 {
			writeError(w, http.StatusBadRequest, "limit must be between 1 and 200")
			return
		}
		params.Limit = n
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "offset must be >= 0")
			return
		}
		params.Offset = n
	}

	orders, err := h.store.ListOrders(r.Context(), params)
	if err != nil {
		log.Printf("ERROR: list orders: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// Get handles GET /orders/{id}.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	order, err := h.store.GetOrder(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		log.Printf("ERROR: get order: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// Advance handles POST /orders/{id}/advance. Each call moves the order
// exactly one step along pending -> preparing -> ready -> served.
func (h *OrderHandler) Advance(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	order, err := h.service.Advance(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			writeError(w, http.StatusNotFound, "order not found")
		case errors.Is(err, service.ErrInvalidTransition):
			writeError(w, http.StatusConflict, err.Error())
		default:
			log.Printf("ERROR: advance order: %v", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	h.hub.Broadcast(ws.NewEvent(ws.EventOrderStatusChanged, order))
	writeJSON(w, http.StatusOK, order)
}

// Cancel handles DELETE /orders/{id}. The order is not removed; its
// status becomes cancelled.
func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	order, err := h.service.Cancel(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			writeError(w, http.StatusNotFound, "order not found")
		case errors.Is(err, service.ErrInvalidTransition):
			writeError(w, http.StatusConflict, err.Error())
		default:
			log.Printf("ERROR: cancel order: %v", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	h.hub.Broadcast(ws.NewEvent(ws.EventOrderStatusChanged, order))
	writeJSON(w, http.StatusOK, order)
}

// MarkPaid handles POST /orders/{id}/payment. Used when a cash order is
// settled at the table; marking an already-paid order is a no-op.
func (h *OrderHandler) MarkPaid(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	order, err := h.service.MarkPaid(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrOrderNotFound):
			writeError(w, http.StatusNotFound, "order not found")
		case errors.Is(err, service.ErrInvalidTransition):
			writeError(w, http.StatusConflict, err.Error())
		default:
			log.Printf("ERROR: mark order paid: %v", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	h.hub.Broadcast(ws.NewEvent(ws.EventOrderPaid, order))
	writeJSON(w, http.StatusOK, order)
}

// ResendKOT handles POST /orders/{id}/kot, re-dispatching the kitchen
// ticket for an order (e.g. after a printer jam).
func (h *OrderHandler) ResendKOT(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	order, err := h.store.GetOrder(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "order not found")
			return
		}
		log.Printf("ERROR: get order: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	if err := h.notifier.SendKOT(r.Context(), order); err != nil {
		log.Printf("ERROR: resend KOT for %s: %v", order.OrderNumber, err)
		writeError(w, http.StatusBadGateway, "failed to dispatch kitchen ticket")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "dispatched"})
}
