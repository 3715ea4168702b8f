package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/dineflow/api/internal/models"
	"github.com/dineflow/api/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OfferHandler handles admin offer management.
type OfferHandler struct {
	offers store.OfferStore
}

// NewOfferHandler creates a new OfferHandler.
func NewOfferHandler(offers store.OfferStore) *OfferHandler {
	return &OfferHandler{offers: offers}
}

// RegisterRoutes registers the protected offer endpoints.
func (h *OfferHandler) RegisterRoutes(r chi.Router) {
	r.Get("/offers", h.List)
	r.Post("/offers", h.Create)
	r.Put("/offers/{id}", h.Update)
	r.Delete("/offers/{id}", h.Delete)
}

// List handles GET /offers.
func (h *OfferHandler) List(w http.ResponseWriter, r *http.Request) {
	offers, err := h.offers.ListOffers(r.Context())
	if err != nil {
		log.Printf("ERROR: list offers: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, offers)
}

type offerRequestBody struct {
	Code            string          `json:"code"`
	Title           string          `json:"title"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	Active          *bool           `json:"active"`
}

func (req offerRequestBody) validate() error {
	if strings.TrimSpace(req.Code) == "" {
		return errors.New("code is required")
	}
	if req.DiscountPercent.IsNegative() || req.DiscountPercent.GreaterThan(decimal.NewFromInt(100)) {
		return errors.New("discount_percent must be between 0 and 100")
	}
	return nil
}

// Create handles POST /offers.
func (h *OfferHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req offerRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	offer, err := h.offers.CreateOffer(r.Context(), models.Offer{
		ID:              uuid.New(),
		Code:            strings.ToUpper(strings.TrimSpace(req.Code)),
		Title:           req.Title,
		DiscountPercent: req.DiscountPercent,
		Active:          active,
		CreatedAt:       time.Now(),
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicateCode) {
			writeError(w, http.StatusConflict, "offer code already exists")
			return
		}
		log.Printf("ERROR: create offer: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusCreated, offer)
}

// Update handles PUT /offers/{id}.
func (h *OfferHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid offer id")
		return
	}

	var req offerRequestBody
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	offer, err := h.offers.UpdateOffer(r.Context(), models.Offer{
		ID:              id,
		Code:            strings.ToUpper(strings.TrimSpace(req.Code)),
		Title:           req.Title,
		DiscountPercent: req.DiscountPercent,
		Active:          active,
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			writeError(w, http.StatusNotFound, "offer not found")
		case errors.Is(err, store.ErrDuplicateCode):
			writeError(w, http.StatusConflict, "offer code already exists")
		default:
			log.Printf("ERROR: update offer: %v", err)
			writeError(w, http.StatusInternalServerError, "internal server error")
		}
		return
	}

	writeJSON(w, http.StatusOK, offer)
}

// Delete handles DELETE /offers/{id}.
func (h *OfferHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid offer id")
		return
	}

	if err := h.offers.DeleteOffer(r.Context(), id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "offer not found")
			return
		}
		log.Printf("ERROR: delete offer: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
