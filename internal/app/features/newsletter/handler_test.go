package newsletter_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/features/newsletter"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/live"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/roles"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/domain/models"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/testutil"
)

func newTestHandler(t *testing.T, src *testutil.MemSource) *newsletter.Handler {
	t.Helper()
	agg := live.New(src, roles.Default(), time.Millisecond, zap.NewNop())
	t.Cleanup(agg.Close)
	return newsletter.NewHandler(agg, zap.NewNop())
}

func subscribe(t *testing.T, h *newsletter.Handler, email string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	body := `{"email":"` + email + `"}`
	h.HandleSubscribe(rec, httptest.NewRequest("POST", "/api/newsletter", strings.NewReader(body)))
	return rec
}

func TestHandleSubscribe(t *testing.T) {
	src := testutil.NewMemSource()
	h := newTestHandler(t, src)

	rec := subscribe(t, h, "Reader@Example.COM")
	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want 201: %s", rec.Code, rec.Body.String())
	}

	subs := src.Records(models.ColSubscribers)
	if len(subs) != 1 {
		t.Fatalf("expected 1 subscriber, got %d", len(subs))
	}
	if subs[0]["email"] != "reader@example.com" {
		t.Errorf("email not normalized: %v", subs[0]["email"])
	}
	if _, ok := subs[0]["subscribed_at"]; !ok {
		t.Error("subscribed_at not stamped")
	}
}

func TestHandleSubscribe_AlreadySubscribed(t *testing.T) {
	src := testutil.NewMemSource()
	h := newTestHandler(t, src)

	if rec := subscribe(t, h, "reader@example.com"); rec.Code != http.StatusCreated {
		t.Fatalf("first subscribe: got %d", rec.Code)
	}
	rec := subscribe(t, h, "READER@example.com")
	if rec.Code != http.StatusOK {
		t.Fatalf("second subscribe: got %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if body["status"] != "already_subscribed" {
		t.Errorf("status: got %q", body["status"])
	}
	if got := len(src.Records(models.ColSubscribers)); got != 1 {
		t.Errorf("expected 1 subscriber, got %d", got)
	}
}

func TestHandleSubscribe_InvalidEmail(t *testing.T) {
	h := newTestHandler(t, testutil.NewMemSource())

	for _, email := range []string{"", "not-an-email", "user @example.com"} {
		rec := subscribe(t, h, email)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("email %q: got %d, want 400", email, rec.Code)
		}
	}
}

func TestHandleUnsubscribe(t *testing.T) {
	src := testutil.NewMemSource()
	src.Seed(models.ColSubscribers, live.Record{"email": "reader@example.com"})
	h := newTestHandler(t, src)

	rec := httptest.NewRecorder()
	h.HandleUnsubscribe(rec, httptest.NewRequest("DELETE", "/api/newsletter", strings.NewReader(`{"email":"reader@example.com"}`)))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status: got %d, want 204", rec.Code)
	}
	if got := len(src.Records(models.ColSubscribers)); got != 0 {
		t.Errorf("expected 0 subscribers, got %d", got)
	}

	rec = httptest.NewRecorder()
	h.HandleUnsubscribe(rec, httptest.NewRequest("DELETE", "/api/newsletter", strings.NewReader(`{"email":"reader@example.com"}`)))
	if rec.Code != http.StatusNotFound {
		t.Errorf("second unsubscribe: got %d, want 404", rec.Code)
	}
}

func TestServeSubscribers(t *testing.T) {
	src := testutil.NewMemSource()
	src.Seed(models.ColSubscribers, live.Record{"email": "a@example.com"})
	src.Seed(models.ColSubscribers, live.Record{"email": "b@example.com"})
	h := newTestHandler(t, src)

	rec := httptest.NewRecorder()
	h.ServeSubscribers(rec, httptest.NewRequest("GET", "/api/newsletter", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	var subs []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &subs); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(subs) != 2 {
		t.Errorf("expected 2 subscribers, got %d", len(subs))
	}
}
