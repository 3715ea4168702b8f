package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/dineflow/api/internal/store"
	"github.com/go-chi/chi/v5"
)

// TableHandler exposes the fixed table catalog.
type TableHandler struct {
	tables store.TableStore
}

// NewTableHandler creates a new TableHandler.
func NewTableHandler(tables store.TableStore) *TableHandler {
	return &TableHandler{tables: tables}
}

// RegisterPublicRoutes registers the customer-facing table listing.
func (h *TableHandler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/tables", h.List)
}

// RegisterAdminRoutes registers the availability toggle. Listing stays
// on the public route; the dashboard reads the same catalog the
// customers see.
func (h *TableHandler) RegisterAdminRoutes(r chi.Router) {
	r.Put("/tables/{id}/availability", h.SetAvailability)
}

// List handles GET /tables.
func (h *TableHandler) List(w http.ResponseWriter, r *http.Request) {
	tables, err := h.tables.ListTables(r.Context())
	if err != nil {
		log.Printf("ERROR: list tables: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, tables)
}

type availabilityRequest struct {
	Available bool `json:"available"`
}

// SetAvailability handles PUT /tables/{id}/availability.
func (h *TableHandler) SetAvailability(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid table id")
		return
	}

	var req availabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	table, err := h.tables.SetTableAvailability(r.Context(), id, req.Available)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "table not found")
			return
		}
		log.Printf("ERROR: set table availability: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, table)
}
