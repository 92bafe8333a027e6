package orders_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/features/orders"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/live"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/auth"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/roles"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/domain/models"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/testutil"
)

func testDeriver() roles.Deriver {
	return roles.Deriver{
		AdminEmail:     "admin@hyjain.com",
		StaffDomain:    "staff.hyjain.com",
		DeliveryDomain: "delivery.hyjain.com",
	}
}

func newTestHandler(t *testing.T, src *testutil.MemSource) *orders.Handler {
	t.Helper()
	agg := live.New(src, testDeriver(), time.Millisecond, zap.NewNop())
	t.Cleanup(agg.Close)
	agg.Reconcile(context.Background(), nil)
	return orders.NewHandler(agg, zap.NewNop())
}

func customerReq(method, target, body, uid string) *http.Request {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	return auth.WithTestUser(r, &auth.SessionUser{UID: uid, Name: "Asha Verma", Email: uid + "@example.com"})
}

func staffReq(method, target, body string) *http.Request {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	return auth.WithTestUser(r, &auth.SessionUser{UID: "staff-1", Name: "Ravi", Email: "ravi@staff.hyjain.com"})
}

func TestHandleCheckout(t *testing.T) {
	src := testutil.NewMemSource()
	src.Seed(models.ColSiteSettings, live.Record{"site_name": "Hyjain Foods", "delivery_fee": 40, "free_delivery_threshold": 500})
	p1 := src.Seed(models.ColProducts, live.Record{"name": "Turmeric", "category": "Masalas", "price": 120, "stock": 10})
	p2 := src.Seed(models.ColProducts, live.Record{"name": "Chilli", "category": "Masalas", "price": 90})
	h := newTestHandler(t, src)

	body := `{"items":[{"product_id":"` + p1 + `","qty":2},{"product_id":"` + p2 + `","qty":1}],"address":"12 MG Road, Pune","payment_method":"cod"}`
	rec := httptest.NewRecorder()
	h.HandleCheckout(rec, customerReq("POST", "/api/orders", body, "uid-1"))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want 201: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		ID          string `json:"id"`
		Subtotal    int    `json:"subtotal"`
		DeliveryFee int    `json:"delivery_fee"`
		Total       int    `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if resp.Subtotal != 330 {
		t.Errorf("subtotal: got %d, want 330", resp.Subtotal)
	}
	if resp.DeliveryFee != 40 || resp.Total != 370 {
		t.Errorf("fee/total: got %d/%d, want 40/370", resp.DeliveryFee, resp.Total)
	}

	order := src.Records(models.ColOrders)[0]
	if order["uid"] != "uid-1" || order["status"] != models.OrderPlaced {
		t.Errorf("order fields: %v", order)
	}
	if order["customer_email"] != "uid-1@example.com" {
		t.Errorf("customer email from session: %v", order["customer_email"])
	}

	// Stock decremented on the tracked product only.
	products := src.Records(models.ColProducts)
	for _, p := range products {
		if p.ID() == p1 && p["stock"] != 8 {
			t.Errorf("stock: got %v, want 8", p["stock"])
		}
	}
}

func TestHandleCheckout_FreeDeliveryOverThreshold(t *testing.T) {
	src := testutil.NewMemSource()
	src.Seed(models.ColSiteSettings, live.Record{"site_name": "Hyjain Foods", "delivery_fee": 40, "free_delivery_threshold": 500})
	p1 := src.Seed(models.ColProducts, live.Record{"name": "Ghee", "category": "Dairy", "price": 600})
	h := newTestHandler(t, src)

	body := `{"items":[{"product_id":"` + p1 + `","qty":1}],"address":"12 MG Road","payment_method":"online"}`
	rec := httptest.NewRecorder()
	h.HandleCheckout(rec, customerReq("POST", "/api/orders", body, "uid-1"))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		DeliveryFee int `json:"delivery_fee"`
		Total       int `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if resp.DeliveryFee != 0 || resp.Total != 600 {
		t.Errorf("fee/total: got %d/%d, want 0/600", resp.DeliveryFee, resp.Total)
	}
}

func TestHandleCheckout_IgnoresClientPrices(t *testing.T) {
	src := testutil.NewMemSource()
	p1 := src.Seed(models.ColProducts, live.Record{"name": "Turmeric", "category": "Masalas", "price": 120})
	h := newTestHandler(t, src)

	// Client tries to smuggle a price field; unknown fields are rejected.
	body := `{"items":[{"product_id":"` + p1 + `","qty":1,"price":1}],"address":"x","payment_method":"cod"}`
	rec := httptest.NewRecorder()
	h.HandleCheckout(rec, customerReq("POST", "/api/orders", body, "uid-1"))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
}

func TestHandleCheckout_Rejections(t *testing.T) {
	src := testutil.NewMemSource()
	p1 := src.Seed(models.ColProducts, live.Record{"name": "Turmeric", "category": "Masalas", "price": 120, "stock": 1})
	h := newTestHandler(t, src)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"empty cart", `{"items":[],"address":"x","payment_method":"cod"}`, http.StatusBadRequest},
		{"no address", `{"items":[{"product_id":"` + p1 + `","qty":1}],"address":" ","payment_method":"cod"}`, http.StatusBadRequest},
		{"bad payment", `{"items":[{"product_id":"` + p1 + `","qty":1}],"address":"x","payment_method":"upi"}`, http.StatusBadRequest},
		{"zero qty", `{"items":[{"product_id":"` + p1 + `","qty":0}],"address":"x","payment_method":"cod"}`, http.StatusBadRequest},
		{"unknown product", `{"items":[{"product_id":"zzz","qty":1}],"address":"x","payment_method":"cod"}`, http.StatusBadRequest},
		{"insufficient stock", `{"items":[{"product_id":"` + p1 + `","qty":5}],"address":"x","payment_method":"cod"}`, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.HandleCheckout(rec, customerReq("POST", "/api/orders", tt.body, "uid-1"))
			if rec.Code != tt.want {
				t.Errorf("status: got %d, want %d: %s", rec.Code, tt.want, rec.Body.String())
			}
		})
	}

	if got := len(src.Records(models.ColOrders)); got != 0 {
		t.Errorf("no orders should have been written, got %d", got)
	}
}

func TestServeMine_FiltersByOwner(t *testing.T) {
	src := testutil.NewMemSource()
	src.Seed(models.ColOrders, live.Record{"uid": "uid-1", "status": models.OrderPlaced})
	src.Seed(models.ColOrders, live.Record{"uid": "uid-2", "status": models.OrderPlaced})
	h := newTestHandler(t, src)

	rec := httptest.NewRecorder()
	h.ServeMine(rec, customerReq("GET", "/api/orders/mine", "", "uid-1"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	var got []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(got) != 1 || got[0]["uid"] != "uid-1" {
		t.Errorf("expected only uid-1 orders, got %v", got)
	}
}

func TestServeOrder_Access(t *testing.T) {
	src := testutil.NewMemSource()
	id := src.Seed(models.ColOrders, live.Record{"uid": "uid-1", "status": models.OrderPlaced})
	h := newTestHandler(t, src)

	// Owner can view.
	rec := httptest.NewRecorder()
	h.ServeOrder(rec, testutil.WithChiURLParam(customerReq("GET", "/api/orders/"+id, "", "uid-1"), "id", id))
	if rec.Code != http.StatusOK {
		t.Errorf("owner: got %d, want 200", rec.Code)
	}

	// Staff can view.
	rec = httptest.NewRecorder()
	h.ServeOrder(rec, testutil.WithChiURLParam(staffReq("GET", "/api/orders/"+id, ""), "id", id))
	if rec.Code != http.StatusOK {
		t.Errorf("staff: got %d, want 200", rec.Code)
	}

	// Another customer sees 404, not 403.
	rec = httptest.NewRecorder()
	h.ServeOrder(rec, testutil.WithChiURLParam(customerReq("GET", "/api/orders/"+id, "", "uid-2"), "id", id))
	if rec.Code != http.StatusNotFound {
		t.Errorf("foreign customer: got %d, want 404", rec.Code)
	}
}

func TestHandleUpdateStatus(t *testing.T) {
	src := testutil.NewMemSource()
	id := src.Seed(models.ColOrders, live.Record{"uid": "uid-1", "status": models.OrderPlaced})
	h := newTestHandler(t, src)

	req := staffReq("PATCH", "/api/orders/"+id+"/status", `{"status":"out_for_delivery"}`)
	rec := httptest.NewRecorder()
	h.HandleUpdateStatus(rec, testutil.WithChiURLParam(req, "id", id))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if order := src.Records(models.ColOrders)[0]; order["status"] != models.OrderOutForDelivery {
		t.Errorf("order status: got %v", order["status"])
	}

	// Unknown status is rejected.
	req = staffReq("PATCH", "/api/orders/"+id+"/status", `{"status":"teleported"}`)
	rec = httptest.NewRecorder()
	h.HandleUpdateStatus(rec, testutil.WithChiURLParam(req, "id", id))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown status: got %d, want 400", rec.Code)
	}
}

func TestHandleUpdateStatus_CancelledIsFinal(t *testing.T) {
	src := testutil.NewMemSource()
	id := src.Seed(models.ColOrders, live.Record{"uid": "uid-1", "status": models.OrderCancelled})
	h := newTestHandler(t, src)

	req := staffReq("PATCH", "/api/orders/"+id+"/status", `{"status":"confirmed"}`)
	rec := httptest.NewRecorder()
	h.HandleUpdateStatus(rec, testutil.WithChiURLParam(req, "id", id))
	if rec.Code != http.StatusConflict {
		t.Errorf("status: got %d, want 409", rec.Code)
	}
}

func TestHandleCancel(t *testing.T) {
	src := testutil.NewMemSource()
	pid := src.Seed(models.ColProducts, live.Record{"name": "Turmeric", "category": "Masalas", "price": 120, "stock": 3})
	id := src.Seed(models.ColOrders, live.Record{
		"uid":    "uid-1",
		"status": models.OrderPlaced,
		"items": []any{
			map[string]any{"product_id": pid, "name": "Turmeric", "price": 120, "qty": 2},
		},
	})
	h := newTestHandler(t, src)

	rec := httptest.NewRecorder()
	h.HandleCancel(rec, testutil.WithChiURLParam(customerReq("POST", "/api/orders/"+id+"/cancel", "", "uid-1"), "id", id))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if order := src.Records(models.ColOrders)[0]; order["status"] != models.OrderCancelled {
		t.Errorf("status: got %v", order["status"])
	}
	// Stock restored.
	if p := src.Records(models.ColProducts)[0]; p["stock"] != 5 {
		t.Errorf("stock: got %v, want 5", p["stock"])
	}
}

func TestHandleCancel_TooLate(t *testing.T) {
	src := testutil.NewMemSource()
	id := src.Seed(models.ColOrders, live.Record{"uid": "uid-1", "status": models.OrderOutForDelivery})
	h := newTestHandler(t, src)

	rec := httptest.NewRecorder()
	h.HandleCancel(rec, testutil.WithChiURLParam(customerReq("POST", "/api/orders/"+id+"/cancel", "", "uid-1"), "id", id))
	if rec.Code != http.StatusConflict {
		t.Errorf("status: got %d, want 409", rec.Code)
	}
}

func TestHandleCancel_ForeignOrder(t *testing.T) {
	src := testutil.NewMemSource()
	id := src.Seed(models.ColOrders, live.Record{"uid": "uid-1", "status": models.OrderPlaced})
	h := newTestHandler(t, src)

	rec := httptest.NewRecorder()
	h.HandleCancel(rec, testutil.WithChiURLParam(customerReq("POST", "/api/orders/"+id+"/cancel", "", "uid-2"), "id", id))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", rec.Code)
	}
}
