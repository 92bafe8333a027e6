package livefeed_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/features/livefeed"
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

func newTestHandler(src *testutil.MemSource) *livefeed.Handler {
	return livefeed.NewHandler(src, testDeriver(), time.Millisecond, zap.NewNop())
}

// streamRequest builds a request whose context expires, so the SSE loop
// terminates and the handler returns.
func streamRequest(t *testing.T, target string, u *auth.SessionUser) *http.Request {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	t.Cleanup(cancel)
	r := httptest.NewRequest("GET", target, nil).WithContext(ctx)
	if u != nil {
		r = auth.WithTestUser(r, u)
	}
	return r
}

func TestServeFeed_AnonymousGetsPublicCollections(t *testing.T) {
	src := testutil.NewMemSource()
	src.Seed(models.ColProducts, live.Record{"name": "Turmeric", "category": "Masalas", "price": 120})
	src.Seed(models.ColOrders, live.Record{"uid": "uid-1", "status": models.OrderPlaced})
	h := newTestHandler(src)

	rec := httptest.NewRecorder()
	h.ServeFeed(rec, streamRequest(t, "/api/live", nil))

	if ct := rec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("content type: got %q", ct)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "event: hello") {
		t.Error("expected a hello event")
	}
	if !strings.Contains(body, `"role":"customer"`) {
		t.Error("expected anonymous connection to carry the customer role")
	}
	if !strings.Contains(body, "event: products") {
		t.Error("expected a products snapshot event")
	}
	if !strings.Contains(body, "Turmeric") {
		t.Error("expected product data in the stream")
	}
	if strings.Contains(body, "event: orders") {
		t.Error("anonymous stream must not carry orders")
	}
}

func TestServeFeed_AdminGetsPrivilegedCollections(t *testing.T) {
	src := testutil.NewMemSource()
	src.Seed(models.ColOrders, live.Record{"uid": "uid-1", "customer_name": "Asha", "status": models.OrderPlaced})
	src.Seed(models.ColSubscribers, live.Record{"email": "a@example.com"})
	h := newTestHandler(src)

	admin := &auth.SessionUser{UID: "admin-1", Name: "Admin", Email: "admin@hyjain.com"}
	rec := httptest.NewRecorder()
	h.ServeFeed(rec, streamRequest(t, "/api/live", admin))

	body := rec.Body.String()
	if !strings.Contains(body, `"role":"admin"`) {
		t.Error("expected the admin role in the hello event")
	}
	if !strings.Contains(body, "event: orders") {
		t.Error("expected an orders snapshot event for admin")
	}
	if !strings.Contains(body, "event: subscribers") {
		t.Error("expected a subscribers snapshot event for admin")
	}
}

func TestServeFeed_StaffGetsOrdersButNotAdminCollections(t *testing.T) {
	src := testutil.NewMemSource()
	src.Seed(models.ColOrders, live.Record{"uid": "uid-1", "status": models.OrderPlaced})
	src.Seed(models.ColSubscribers, live.Record{"email": "a@example.com"})
	h := newTestHandler(src)

	staff := &auth.SessionUser{UID: "staff-1", Name: "Ravi", Email: "ravi@staff.hyjain.com"}
	rec := httptest.NewRecorder()
	h.ServeFeed(rec, streamRequest(t, "/api/live", staff))

	body := rec.Body.String()
	if !strings.Contains(body, "event: orders") {
		t.Error("expected an orders snapshot event for staff")
	}
	if strings.Contains(body, "event: subscribers") {
		t.Error("staff stream must not carry subscribers")
	}
}

func TestServeOwnOrders_FiltersToOwner(t *testing.T) {
	src := testutil.NewMemSource()
	src.Seed(models.ColOrders, live.Record{"uid": "uid-1", "customer_name": "Asha", "status": models.OrderPlaced})
	src.Seed(models.ColOrders, live.Record{"uid": "uid-2", "customer_name": "Bela", "status": models.OrderPlaced})
	h := newTestHandler(src)

	customer := &auth.SessionUser{UID: "uid-1", Name: "Asha", Email: "asha@example.com"}
	rec := httptest.NewRecorder()
	h.ServeOwnOrders(rec, streamRequest(t, "/api/live/orders", customer))

	body := rec.Body.String()
	if !strings.Contains(body, "event: orders") {
		t.Error("expected an orders snapshot event")
	}
	if !strings.Contains(body, "Asha") {
		t.Error("expected the caller's order in the stream")
	}
	if strings.Contains(body, "Bela") {
		t.Error("another customer's order leaked into the stream")
	}
}

func TestRoutes_OwnOrdersRequireSession(t *testing.T) {
	src := testutil.NewMemSource()
	router := livefeed.Routes(newTestHandler(src))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/orders", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rec.Code)
	}
}
