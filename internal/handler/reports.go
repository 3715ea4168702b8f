package handler

import (
	"log"
	"net/http"
	"sort"
	"time"

	"github.com/dineflow/api/internal/enum"
	"github.com/dineflow/api/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

// ReportHandler serves the dashboard summary numbers.
type ReportHandler struct {
	orders store.OrderStore
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(orders store.OrderStore) *ReportHandler {
	return &ReportHandler{orders: orders}
}

// RegisterRoutes registers the protected report endpoints.
func (h *ReportHandler) RegisterRoutes(r chi.Router) {
	r.Get("/reports/summary", h.Summary)
}

type topItem struct {
	Name     string `json:"name"`
	Quantity int32  `json:"quantity"`
}

type summaryResponse struct {
	From          time.Time       `json:"from"`
	TotalOrders   int             `json:"total_orders"`
	CountByStatus map[string]int  `json:"count_by_status"`
	Revenue       decimal.Decimal `json:"revenue"`
	PendingDues   decimal.Decimal `json:"pending_dues"`
	TopItems      []topItem       `json:"top_items"`
}

// Summary handles GET /reports/summary?since=RFC3339. Revenue counts only
// paid, non-cancelled orders; pending dues are unpaid cash totals still on
// the floor. Defaults to the last 24 hours.
func (h *ReportHandler) Summary(w http.ResponseWriter, r *http.Request) {
	since := time.Now().Add(-24 * time.Hour)
	if v := r.URL.Query().Get("since"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "since must be RFC3339")
			return
		}
		since = t
	}

	orders, err := h.orders.ListOrders(r.Context(), store.ListOrdersParams{})
	if err != nil {
		log.Printf("ERROR: list orders: %v", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	resp := summaryResponse{
		From:          since,
		CountByStatus: map[string]int{},
		Revenue:       decimal.Zero,
		PendingDues:   decimal.Zero,
		TopItems:      []topItem{},
	}

	quantities := map[string]int32{}
	for _, o := range orders {
		if o.OrderTime.Before(since) {
			continue
		}
		resp.TotalOrders++
		resp.CountByStatus[o.Status]++

		if o.Status == enum.OrderStatusCancelled {
			continue
		}
		if o.PaymentStatus == enum.PaymentStatusPaid {
			resp.Revenue = resp.Revenue.Add(o.TotalAmount)
		} else {
			resp.PendingDues = resp.PendingDues.Add(o.TotalAmount)
		}
		for _, item := range o.Items {
			quantities[item.Name] += item.Quantity
		}
	}

	for name, qty := range quantities {
		resp.TopItems = append(resp.TopItems, topItem{Name: name, Quantity: qty})
	}
	sort.Slice(resp.TopItems, func(i, j int) bool {
		if resp.TopItems[i].Quantity != resp.TopItems[j].Quantity {
			return resp.TopItems[i].Quantity > resp.TopItems[j].Quantity
		}
		return resp.TopItems[i].Name < resp.TopItems[j].Name
	})
	if len(resp.TopItems) > 5 {
		resp.TopItems = resp.TopItems[:5]
	}

	writeJSON(w, http.StatusOK, resp)
}
