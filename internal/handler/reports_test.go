package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dineflow/api/internal/enum"
	"github.com/dineflow/api/internal/handler"
	"github.com/dineflow/api/internal/models"
	"github.com/dineflow/api/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

type summaryBody struct {
	TotalOrders   int             `json:"total_orders"`
	CountByStatus map[string]int  `json:"count_by_status"`
	Revenue       decimal.Decimal `json:"revenue"`
	PendingDues   decimal.Decimal `json:"pending_dues"`
	TopItems      []struct {
		Name     string `json:"name"`
		Quantity int32  `json:"quantity"`
	} `json:"top_items"`
}

func reportFixture(t *testing.T) (chi.Router, *store.Memory) {
	t.Helper()
	mem := store.NewMemory()
	r := chi.NewRouter()
	handler.NewReportHandler(mem).RegisterRoutes(r)
	return r, mem
}

func seedReportOrder(t *testing.T, mem *store.Memory, status, paymentStatus string, total string, when time.Time, items ...models.OrderItem) {
	t.Helper()
	if _, err := mem.CreateOrder(context.Background(), models.Order{
		Status:        status,
		PaymentStatus: paymentStatus,
		TotalAmount:   decimal.RequireFromString(total),
		OrderTime:     when,
		Items:         items,
	}); err != nil {
		t.Fatalf("seed order: %v", err)
	}
}

func getSummary(t *testing.T, r chi.Router, path string) (*httptest.ResponseRecorder, summaryBody) {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	var body summaryBody
	if rr.Code == http.StatusOK {
		if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
	}
	return rr, body
}

func TestReports_Summary(t *testing.T) {
	r, mem := reportFixture(t)
	now := time.Now()

	pizza := models.OrderItem{Name: "Margherita Pizza", Quantity: 2, Price: decimal.RequireFromString("12.99")}
	mojito := models.OrderItem{Name: "Mojito", Quantity: 1, Price: decimal.RequireFromString("7.99")}

	seedReportOrder(t, mem, enum.OrderStatusServed, enum.PaymentStatusPaid, "34.62", now, pizza, mojito)
	seedReportOrder(t, mem, enum.OrderStatusPending, enum.PaymentStatusPending, "13.64", now, pizza)
	seedReportOrder(t, mem, enum.OrderStatusCancelled, enum.PaymentStatusPending, "99.99", now)

	rr, body := getSummary(t, r, "/reports/summary")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d: %s", rr.Code, rr.Body)
	}

	if body.TotalOrders != 3 {
		t.Errorf("expected 3 orders counted, got %d", body.TotalOrders)
	}
	if body.CountByStatus[enum.OrderStatusCancelled] != 1 {
		t.Errorf("expected 1 cancelled in the status counts, got %d", body.CountByStatus[enum.OrderStatusCancelled])
	}
	if !body.Revenue.Equal(decimal.RequireFromString("34.62")) {
		t.Errorf("revenue must count paid non-cancelled orders only, got %s", body.Revenue)
	}
	if !body.PendingDues.Equal(decimal.RequireFromString("13.64")) {
		t.Errorf("pending dues must exclude cancelled orders, got %s", body.PendingDues)
	}

	// Pizza appears on two orders with quantity 2 each.
	if len(body.TopItems) == 0 || body.TopItems[0].Name != "Margherita Pizza" || body.TopItems[0].Quantity != 4 {
		t.Errorf("expected pizza x4 on top, got %+v", body.TopItems)
	}
}

func TestReports_SinceFilter(t *testing.T) {
	r, mem := reportFixture(t)
	now := time.Now()

	seedReportOrder(t, mem, enum.OrderStatusServed, enum.PaymentStatusPaid, "10.00", now.Add(-48*time.Hour))
	seedReportOrder(t, mem, enum.OrderStatusServed, enum.PaymentStatusPaid, "20.00", now)

	rr, body := getSummary(t, r, "/reports/summary?since="+now.Add(-time.Hour).Format(time.RFC3339))
	if rr.Code != http.StatusOK {
		t.Fatalf("status: got %d", rr.Code)
	}
	if body.TotalOrders != 1 {
		t.Errorf("expected only the recent order, got %d", body.TotalOrders)
	}
	if !body.Revenue.Equal(decimal.RequireFromString("20.00")) {
		t.Errorf("expected revenue 20.00, got %s", body.Revenue)
	}
}

func TestReports_BadSinceIs400(t *testing.T) {
	r, _ := reportFixture(t)

	rr, _ := getSummary(t, r, "/reports/summary?since=yesterday")
	if rr.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusBadRequest)
	}
}
