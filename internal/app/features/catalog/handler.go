// internal/app/features/catalog/handler.go
package catalog

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/live"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/htmlsanitize"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/respond"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/timeouts"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/domain/models"
)

// Handler owns the storefront catalog: products, categories, slideshow.
//
// Public reads come straight from the shared aggregator's read model, so
// a storefront page load never touches Mongo. Writes go through the
// aggregator so schema validation runs and the live feed picks up every
// change.
type Handler struct {
	Live *live.Aggregator
	Log  *zap.Logger
}

// NewHandler constructs a Handler bound to the shared public aggregator.
func NewHandler(agg *live.Aggregator, logger *zap.Logger) *Handler {
	return &Handler{
		Live: agg,
		Log:  logger,
	}
}

// ServeStorefront handles GET /api/catalog.
//
// Returns everything the storefront needs for first paint in one
// response: settings, categories, products and the slideshow, plus a
// loading flag that is true only while the read model is still settling
// after startup.
func (h *Handler) ServeStorefront(w http.ResponseWriter, r *http.Request) {
	settings := map[string]any{}
	if recs := h.Live.Records(models.ColSiteSettings); len(recs) > 0 {
		settings = recs[0]
	}

	respond.JSON(w, http.StatusOK, map[string]any{
		"loading":    h.Live.Loading(),
		"settings":   settings,
		"categories": h.Live.Records(models.ColCategories),
		"products":   h.Live.Records(models.ColProducts),
		"slideshow":  h.Live.Records(models.ColShopSlideshow),
	})
}

// ServeProducts handles GET /api/catalog/products.
func (h *Handler) ServeProducts(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, h.Live.Records(models.ColProducts))
}

// ServeProduct handles GET /api/catalog/products/{id}.
func (h *Handler) ServeProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.ShortCtx(r)
	defer cancel()

	id := chi.URLParam(r, "id")
	rec, err := h.Live.Get(ctx, models.ColProducts, id)
	if err != nil {
		h.Log.Error("product lookup failed", zap.String("id", id), zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "lookup failed")
		return
	}
	if rec == nil {
		respond.Error(w, http.StatusNotFound, "product not found")
		return
	}
	respond.JSON(w, http.StatusOK, rec)
}

// ServeCategories handles GET /api/catalog/categories.
func (h *Handler) ServeCategories(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, h.Live.Records(models.ColCategories))
}

// ResolveCategory handles GET /api/catalog/categories/resolve?name=…
//
// Resolves a category by case-folded name, so storefront URLs like
// /shop/Masalas and /shop/masalas land on the same category.
func (h *Handler) ResolveCategory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.ShortCtx(r)
	defer cancel()

	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		respond.Error(w, http.StatusBadRequest, "name is required")
		return
	}

	rec, err := h.Live.FindByField(ctx, models.ColCategories, "name_ci", text.Fold(name))
	if err != nil {
		h.Log.Error("category resolve failed", zap.String("name", name), zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "lookup failed")
		return
	}
	if rec == nil {
		respond.Error(w, http.StatusNotFound, "category not found")
		return
	}
	respond.JSON(w, http.StatusOK, rec)
}

// ServeSlideshow handles GET /api/catalog/slideshow.
func (h *Handler) ServeSlideshow(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, h.Live.Records(models.ColShopSlideshow))
}

/*─────────────────────────────────────────────────────────────────────────────*
| Admin writes                                                               |
*─────────────────────────────────────────────────────────────────────────────*/

type productRequest struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Price       *int   `json:"price"`
	MRP         *int   `json:"mrp"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
	Stock       *int   `json:"stock"`
	Weight      string `json:"weight"`
	Active      *bool  `json:"active"`
}

// HandleCreateProduct handles POST /api/catalog/products (admin).
func (h *Handler) HandleCreateProduct(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.MediumCtx(r)
	defer cancel()

	var req productRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Price == nil || *req.Price < 0 {
		respond.Error(w, http.StatusBadRequest, "price must be a non-negative number")
		return
	}

	payload := live.Record{
		"name":        strings.TrimSpace(req.Name),
		"name_ci":     text.Fold(strings.TrimSpace(req.Name)),
		"category":    strings.TrimSpace(req.Category),
		"price":       *req.Price,
		"description": htmlsanitize.Sanitize(req.Description),
	}
	// New products default to zero stock and active so they satisfy the
	// collection validator without extra fields in the request.
	payload["stock"] = 0
	payload["active"] = true
	if req.MRP != nil {
		payload["mrp"] = *req.MRP
	}
	if req.ImageURL != "" {
		payload["image_url"] = req.ImageURL
	}
	if req.Stock != nil {
		payload["stock"] = *req.Stock
	}
	if req.Weight != "" {
		payload["weight"] = req.Weight
	}
	if req.Active != nil {
		payload["active"] = *req.Active
	}

	id, err := h.Live.Create(ctx, models.ColProducts, payload)
	if err != nil {
		writeMutationError(w, h.Log, "product create failed", err)
		return
	}
	respond.JSON(w, http.StatusCreated, map[string]string{"id": id})
}

// HandleUpdateProduct handles PATCH /api/catalog/products/{id} (admin).
func (h *Handler) HandleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	h.updateRecord(w, r, models.ColProducts, func(partial live.Record) {
		if name, ok := partial["name"].(string); ok {
			partial["name"] = strings.TrimSpace(name)
			partial["name_ci"] = text.Fold(strings.TrimSpace(name))
		}
		if desc, ok := partial["description"].(string); ok {
			partial["description"] = htmlsanitize.Sanitize(desc)
		}
	})
}

// HandleDeleteProduct handles DELETE /api/catalog/products/{id} (admin).
func (h *Handler) HandleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	h.deleteRecord(w, r, models.ColProducts)
}

type categoryRequest struct {
	Name     string `json:"name"`
	ImageURL string `json:"image_url"`
	Position *int   `json:"position"`
}

// HandleCreateCategory handles POST /api/catalog/categories (admin).
func (h *Handler) HandleCreateCategory(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.MediumCtx(r)
	defer cancel()

	var req categoryRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	payload := live.Record{
		"name":     strings.TrimSpace(req.Name),
		"name_ci":  text.Fold(strings.TrimSpace(req.Name)),
		"position": 0,
	}
	if req.ImageURL != "" {
		payload["image_url"] = req.ImageURL
	}
	if req.Position != nil {
		payload["position"] = *req.Position
	}

	id, err := h.Live.Create(ctx, models.ColCategories, payload)
	if err != nil {
		writeMutationError(w, h.Log, "category create failed", err)
		return
	}
	respond.JSON(w, http.StatusCreated, map[string]string{"id": id})
}

// HandleUpdateCategory handles PATCH /api/catalog/categories/{id} (admin).
func (h *Handler) HandleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	h.updateRecord(w, r, models.ColCategories, func(partial live.Record) {
		if name, ok := partial["name"].(string); ok {
			partial["name"] = strings.TrimSpace(name)
			partial["name_ci"] = text.Fold(strings.TrimSpace(name))
		}
	})
}

// HandleDeleteCategory handles DELETE /api/catalog/categories/{id} (admin).
func (h *Handler) HandleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	h.deleteRecord(w, r, models.ColCategories)
}

type slideRequest struct {
	ImageURL string `json:"image_url"`
	Caption  string `json:"caption"`
	LinkURL  string `json:"link_url"`
	Position *int   `json:"position"`
}

// HandleCreateSlide handles POST /api/catalog/slideshow (admin).
func (h *Handler) HandleCreateSlide(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.MediumCtx(r)
	defer cancel()

	var req slideRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	payload := live.Record{
		"image_url": strings.TrimSpace(req.ImageURL),
	}
	if req.Caption != "" {
		payload["caption"] = htmlsanitize.SanitizeText(req.Caption)
	}
	if req.LinkURL != "" {
		payload["link_url"] = req.LinkURL
	}
	if req.Position != nil {
		payload["position"] = *req.Position
	}

	id, err := h.Live.Create(ctx, models.ColShopSlideshow, payload)
	if err != nil {
		writeMutationError(w, h.Log, "slide create failed", err)
		return
	}
	respond.JSON(w, http.StatusCreated, map[string]string{"id": id})
}

// HandleDeleteSlide handles DELETE /api/catalog/slideshow/{id} (admin).
func (h *Handler) HandleDeleteSlide(w http.ResponseWriter, r *http.Request) {
	h.deleteRecord(w, r, models.ColShopSlideshow)
}

/*─────────────────────────────────────────────────────────────────────────────*
| helpers                                                                    |
*─────────────────────────────────────────────────────────────────────────────*/

func (h *Handler) updateRecord(w http.ResponseWriter, r *http.Request, collection string, fix func(live.Record)) {
	ctx, cancel := timeouts.MediumCtx(r)
	defer cancel()

	var partial live.Record
	if err := respond.Decode(r, &partial); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if fix != nil {
		fix(partial)
	}

	id := chi.URLParam(r, "id")
	if err := h.Live.Update(ctx, collection, id, partial); err != nil {
		writeMutationError(w, h.Log, "update failed", err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"id": id})
}

func (h *Handler) deleteRecord(w http.ResponseWriter, r *http.Request, collection string) {
	ctx, cancel := timeouts.MediumCtx(r)
	defer cancel()

	id := chi.URLParam(r, "id")
	if err := h.Live.Delete(ctx, collection, id); err != nil {
		writeMutationError(w, h.Log, "delete failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// writeMutationError maps the live-layer error taxonomy onto HTTP status
// codes and keeps the response body free of internals.
func writeMutationError(w http.ResponseWriter, log *zap.Logger, msg string, err error) {
	var vErr *live.ValidationError
	var nfErr *live.NotFoundError

	switch {
	case errors.As(err, &vErr):
		respond.Error(w, http.StatusBadRequest, vErr.Error())
	case errors.As(err, &nfErr):
		respond.Error(w, http.StatusNotFound, "not found")
	default:
		log.Error(msg, zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "write failed")
	}
}
