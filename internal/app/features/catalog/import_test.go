package catalog_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/features/catalog"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/auth"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/domain/models"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/testutil"
)

func csvUpload(t *testing.T, csv string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "products.csv")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	if _, err := fw.Write([]byte(csv)); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	mw.Close()

	req := httptest.NewRequest("POST", "/api/catalog/products/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestHandleImportProducts(t *testing.T) {
	src := testutil.NewMemSource()
	h, agg := newTestHandler(t, src)

	csv := `name,category,price,mrp,stock,weight,description
Turmeric Powder,Masalas,120,140,50,500g,Stone-ground
Cumin Seeds,Masalas,90,,20,250g,`

	rec := httptest.NewRecorder()
	h.HandleImportProducts(rec, csvUpload(t, csv))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want 201: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Imported int `json:"imported"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if body.Imported != 2 {
		t.Errorf("imported: got %d, want 2", body.Imported)
	}

	products := src.Records(models.ColProducts)
	if len(products) != 2 {
		t.Fatalf("expected 2 products in store, got %d", len(products))
	}
	p := products[0]
	if p["name"] != "Turmeric Powder" || p["name_ci"] != "turmeric powder" {
		t.Errorf("first product: %v", p)
	}
	if p["active"] != true {
		t.Errorf("imported product should be active: %v", p["active"])
	}

	// The read model picks the rows up too.
	if got := agg.Records(models.ColProducts); len(got) != 2 {
		t.Errorf("read model: expected 2 products, got %d", len(got))
	}
}

func TestHandleImportProducts_RejectsBadRows(t *testing.T) {
	src := testutil.NewMemSource()
	h, _ := newTestHandler(t, src)

	csv := `name,category,price
Turmeric Powder,Masalas,120
,Masalas,free`

	rec := httptest.NewRecorder()
	h.HandleImportProducts(rec, csvUpload(t, csv))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400: %s", rec.Code, rec.Body.String())
	}

	// Nothing is written when any row is bad.
	if got := src.Records(models.ColProducts); len(got) != 0 {
		t.Errorf("expected no products written, got %d", len(got))
	}

	var body struct {
		Rows []struct {
			Line   int    `json:"line"`
			Reason string `json:"reason"`
		} `json:"rows"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if len(body.Rows) == 0 {
		t.Error("expected row-level problems in the response")
	}
}

func TestHandleImportProducts_MissingFile(t *testing.T) {
	h, _ := newTestHandler(t, testutil.NewMemSource())

	rec := httptest.NewRecorder()
	h.HandleImportProducts(rec, httptest.NewRequest("POST", "/api/catalog/products/import", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
}

func TestHandleImportProducts_EmptyFile(t *testing.T) {
	h, _ := newTestHandler(t, testutil.NewMemSource())

	rec := httptest.NewRecorder()
	h.HandleImportProducts(rec, csvUpload(t, ""))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
}

func TestRoutes_ImportRequiresAdmin(t *testing.T) {
	if err := auth.InitSessionStore("0123456789abcdef0123456789abcdef", "test-session", "", false, zap.NewNop()); err != nil {
		t.Fatalf("InitSessionStore: %v", err)
	}
	auth.UseDeriver(testDeriver())

	h, _ := newTestHandler(t, testutil.NewMemSource())
	router := catalog.Routes(h)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, csvUploadAt(t, "/products/import"))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous import: got %d, want 401", rec.Code)
	}
}

func csvUploadAt(t *testing.T, path string) *http.Request {
	t.Helper()
	req := csvUpload(t, "name,category,price\nX,Y,1")
	req.URL.Path = path
	return req
}
