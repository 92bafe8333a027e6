package sitesettings_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/features/sitesettings"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/live"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/roles"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/domain/models"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/testutil"
)

func newTestHandler(t *testing.T, src *testutil.MemSource) *sitesettings.Handler {
	t.Helper()
	agg := live.New(src, roles.Default(), time.Millisecond, zap.NewNop())
	t.Cleanup(agg.Close)
	agg.Reconcile(context.Background(), nil)
	return sitesettings.NewHandler(agg, zap.NewNop())
}

func TestServeSettings_Defaults(t *testing.T) {
	h := newTestHandler(t, testutil.NewMemSource())

	rec := httptest.NewRecorder()
	h.ServeSettings(rec, httptest.NewRequest("GET", "/api/settings", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if body["site_name"] != models.DefaultSiteName {
		t.Errorf("site_name: got %v", body["site_name"])
	}
}

func TestHandleUpdateSettings(t *testing.T) {
	src := testutil.NewMemSource()
	src.Seed(models.ColSiteSettings, live.Record{"site_name": "Hyjain Foods", "delivery_fee": 40})
	h := newTestHandler(t, src)

	body := `{"site_name":"Hyjain Organics","footer_html":"<p>hi</p><script>x()</script>","delivery_fee":50}`
	rec := httptest.NewRecorder()
	h.HandleUpdateSettings(rec, httptest.NewRequest("PUT", "/api/settings", strings.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200: %s", rec.Code, rec.Body.String())
	}

	settings := src.Records(models.ColSiteSettings)[0]
	if settings["site_name"] != "Hyjain Organics" {
		t.Errorf("site_name: got %v", settings["site_name"])
	}
	if settings["delivery_fee"] != 50 {
		t.Errorf("delivery_fee: got %v", settings["delivery_fee"])
	}
	footer, _ := settings["footer_html"].(string)
	if strings.Contains(footer, "script") {
		t.Errorf("footer not sanitized: %q", footer)
	}
}

func TestHandleUpdateSettings_NegativeFee(t *testing.T) {
	src := testutil.NewMemSource()
	src.Seed(models.ColSiteSettings, live.Record{"site_name": "Hyjain Foods"})
	h := newTestHandler(t, src)

	rec := httptest.NewRecorder()
	h.HandleUpdateSettings(rec, httptest.NewRequest("PUT", "/api/settings", strings.NewReader(`{"delivery_fee":-1}`)))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
}

func TestHandleUpdateSettings_NotInitialized(t *testing.T) {
	h := newTestHandler(t, testutil.NewMemSource())

	rec := httptest.NewRecorder()
	h.HandleUpdateSettings(rec, httptest.NewRequest("PUT", "/api/settings", strings.NewReader(`{"site_name":"X"}`)))
	if rec.Code != http.StatusConflict {
		t.Errorf("status: got %d, want 409", rec.Code)
	}
}
