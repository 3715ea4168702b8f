package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dineflow/api/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// SettingsHandler exposes the restaurant-wide settings page.
type SettingsHandler struct {
	settings *store.SettingsStore
}

// NewSettingsHandler creates a new SettingsHandler.
func NewSettingsHandler(settings *store.SettingsStore) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// RegisterRoutes registers the protected settings endpoints.
func (h *SettingsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/settings", h.Get)
	r.Put("/settings", h.Update)
}

// Get handles GET /settings.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.settings.Get())
}

// Update handles PUT /settings. The new tax rate applies to the next
// checkout; placed orders keep the totals they were created with.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req store.Settings
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.RestaurantName) == "" {
		writeError(w, http.StatusBadRequest, "restaurant_name is required")
		return
	}
	if req.TaxRate.IsNegative() || req.TaxRate.GreaterThan(decimal.NewFromInt(1)) {
		writeError(w, http.StatusBadRequest, "tax_rate must be between 0 and 1")
		return
	}

	writeJSON(w, http.StatusOK, h.settings.Update(req))
}
