package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/dineflow/api/internal/checkout"
	"github.com/dineflow/api/internal/payment"
	"github.com/dineflow/api/internal/promo"
	"github.com/dineflow/api/internal/store"
	"github.com/dineflow/api/internal/ws"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

// CheckoutHandler exposes the customer checkout flow: a staged session
// carries the cart through menu, table selection, and payment.
type CheckoutHandler struct {
	pipeline *checkout.Pipeline
	hub      *ws.Hub
}

// NewCheckoutHandler creates a new CheckoutHandler.
func NewCheckoutHandler(pipeline *checkout.Pipeline, hub *ws.Hub) *CheckoutHandler {
	return &CheckoutHandler{pipeline: pipeline, hub: hub}
}

// RegisterRoutes registers the public checkout endpoints.
func (h *CheckoutHandler) RegisterRoutes(r chi.Router) {
	r.Post("/checkout/sessions", h.Start)
	r.Route("/checkout/sessions/{sid}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Delete("/", h.Abandon)
		r.Post("/items", h.AddItem)
		r.Delete("/items/{itemID}", h.RemoveItem)
		r.Delete("/items", h.ClearCart)
		r.Put("/contact", h.SetContact)
		r.Put("/offer", h.SetOffer)
		r.Put("/table", h.SelectTable)
		r.Get("/totals", h.Totals)
		r.Get("/upi", h.UPILink)
		r.Get("/qr.png", h.QRCode)
		r.Post("/pay", h.Pay)
	})
}

// sessionView wraps the session with its live totals so clients never
// compute money themselves.
type sessionView struct {
	Session checkout.Session `json:"session"`
	Totals  checkout.Totals  `json:"totals"`
}

func (h *CheckoutHandler) view(r *http.Request, s checkout.Session) sessionView {
	return sessionView{Session: s, Totals: h.pipeline.Totals(r.Context(), s)}
}

// writeCheckoutError maps pipeline errors onto HTTP statuses. Stage-gate
// violations are 422 (the request was understood but the session isn't
// ready for it); conflicts over in-flight payments are 409.
func writeCheckoutError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, checkout.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "checkout session not found")
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, checkout.ErrMissingContact),
		errors.Is(err, checkout.ErrMissingTableSelection):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, checkout.ErrTableNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, checkout.ErrTableUnavailable),
		errors.Is(err, checkout.ErrItemUnavailable),
		errors.Is(err, checkout.ErrPaymentInProgress):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, checkout.ErrInvalidPaymentMethod),
		errors.Is(err, promo.ErrInvalidCode):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		log.Printf("ERROR: checkout: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// Start handles POST /checkout/sessions.
func (h *CheckoutHandler) Start(w http.ResponseWriter, r *http.Request) {
	s, err := h.pipeline.Start(r.Context())
	if err != nil {
		writeCheckoutError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, h.view(r, s))
}

// Get handles GET /checkout/sessions/{sid}.
func (h *CheckoutHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, err := h.pipeline.Get(r.Context(), chi.URLParam(r, "sid"))
	if err != nil {
		writeCheckoutError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.view(r, s))
}

// Abandon handles DELETE /checkout/sessions/{sid}.
func (h *CheckoutHandler) Abandon(w http.ResponseWriter, r *http.Request) {
	if err := h.pipeline.Abandon(r.Context(), chi.URLParam(r, "sid")); err != nil {
		writeCheckoutError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type addItemRequest struct {
	ItemID uuid.UUID `json:"item_id"`
}

// AddItem handles POST /checkout/sessions/{sid}/items.
func (h *CheckoutHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ItemID == uuid.Nil {
		writeError(w, http.StatusBadRequest, "item_id is required")
		return
	}

	s, err := h.pipeline.AddItem(r.Context(), chi.URLParam(r, "sid"), req.ItemID)
	if err != nil {
		writeCheckoutError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.view(r, s))
}

// RemoveItem handles DELETE /checkout/sessions/{sid}/items/{itemID}.
func (h *CheckoutHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	itemID, err := uuid.Parse(chi.URLParam(r, "itemID"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	s, err := h.pipeline.RemoveItem(r.Context(), chi.URLParam(r, "sid"), itemID)
	if err != nil {
		writeCheckoutError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.view(r, s))
}

// ClearCart handles DELETE /checkout/sessions/{sid}/items.
func (h *CheckoutHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	s, err := h.pipeline.ClearCart(r.Context(), chi.URLParam(r, "sid"))
	if err != nil {
		writeCheckoutError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.view(r, s))
}

type contactRequest struct {
	Contact string `json:"contact"`
}

// SetContact handles PUT /checkout/sessions/{sid}/contact.
func (h *CheckoutHandler) SetContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s, err := h.pipeline.SetContact(r.Context(), chi.URLParam(r, "sid"), req.Contact)
	if err != nil {
		writeCheckoutError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.view(r, s))
}

type offerRequest struct {
	Code string `json:"code"`
}

// SetOffer handles PUT /checkout/sessions/{sid}/offer.
func (h *CheckoutHandler) SetOffer(w http.ResponseWriter, r *http.Request) {
	var req offerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	s, err := h.pipeline.SetOffer(r.Context(), chi.URLParam(r, "sid"), req.Code)
	if err != nil {
		writeCheckoutError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.view(r, s))
}

type tableRequest struct {
	TableID int `json:"table_id"`
}

// SelectTable handles PUT /checkout/sessions/{sid}/table.
func (h *CheckoutHandler) SelectTable(w http.ResponseWriter, r *http.Request) {
	var req tableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.TableID <= 0 {
		writeError(w, http.StatusBadRequest, "table_id is required")
		return
	}

	s, err := h.pipeline.SelectTable(r.Context(), chi.URLParam(r, "sid"), req.TableID)
	if err != nil {
		writeCheckoutError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.view(r, s))
}

// Totals handles GET /checkout/sessions/{sid}/totals.
func (h *CheckoutHandler) Totals(w http.ResponseWriter, r *http.Request) {
	s, err := h.pipeline.Get(r.Context(), chi.URLParam(r, "sid"))
	if err != nil {
		writeCheckoutError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.pipeline.Totals(r.Context(), s))
}

// UPILink handles GET /checkout/sessions/{sid}/upi.
func (h *CheckoutHandler) UPILink(w http.ResponseWriter, r *http.Request) {
	link, err := h.pipeline.UPILink(r.Context(), chi.URLParam(r, "sid"))
	if err != nil {
		writeCheckoutError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"upi_link": link})
}

// QRCode handles GET /checkout/sessions/{sid}/qr.png, returning a scannable
// PNG of the session's UPI deep link.
func (h *CheckoutHandler) QRCode(w http.ResponseWriter, r *http.Request) {
	link, err := h.pipeline.UPILink(r.Context(), chi.URLParam(r, "sid"))
	if err != nil {
		writeCheckoutError(w, err)
		return
	}

	png, err := payment.QRCode(link)
	if err != nil {
		log.Printf("ERROR: encode QR: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(png)))
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

type payRequest struct {
	Method string `json:"method"`
}

// Pay handles POST /checkout/sessions/{sid}/pay. A declined payment is
// 402 with the gateway's message; the session survives for retry.
func (h *CheckoutHandler) Pay(w http.ResponseWriter, r *http.Request) {
	var req payRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.pipeline.Pay(r.Context(), chi.URLParam(r, "sid"), req.Method)
	if err != nil {
		if errors.Is(err, checkout.ErrPaymentFailed) {
			writeJSON(w, http.StatusPaymentRequired, result)
			return
		}
		writeCheckoutError(w, err)
		return
	}

	h.hub.Broadcast(ws.NewEvent(ws.EventOrderCreated, result.Order))
	writeJSON(w, http.StatusCreated, result)
}
