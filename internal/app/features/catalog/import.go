// internal/app/features/catalog/import.go
package catalog

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/text"
	"go.uber.org/zap"

	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/live"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/csvutil"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/htmlsanitize"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/respond"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/timeouts"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/domain/models"
)

// HandleImportProducts handles POST /api/catalog/products/import (admin).
//
// Accepts a multipart upload with a "file" field holding a product CSV
// (columns: name, category, price, mrp, stock, weight, description).
// The whole file is validated before anything is written; an upload
// with any bad row imports nothing and reports the offending lines.
func (h *Handler) HandleImportProducts(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.LongCtx(r)
	defer cancel()

	r.Body = http.MaxBytesReader(w, r.Body, csvutil.MaxUploadSize)
	file, _, err := r.FormFile("file")
	if err != nil {
		respond.Error(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	rows, rowErrs, err := csvutil.PreScanProductsCSV(file)
	if err != nil {
		respond.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(rowErrs) > 0 {
		respond.JSON(w, http.StatusBadRequest, map[string]any{
			"error":  "upload rejected, fix the listed rows and retry",
			"rows":   rowErrs,
			"issues": len(rowErrs),
		})
		return
	}
	if len(rows) == 0 {
		respond.Error(w, http.StatusBadRequest, "file has no product rows")
		return
	}

	imported := 0
	for _, row := range rows {
		payload := live.Record{
			"name":     row.Name,
			"name_ci":  text.Fold(row.Name),
			"category": row.Category,
			"price":    row.Price,
			"stock":    row.Stock,
			"active":   true,
		}
		if row.MRP > 0 {
			payload["mrp"] = row.MRP
		}
		if row.Weight != "" {
			payload["weight"] = row.Weight
		}
		if row.Description != "" {
			payload["description"] = htmlsanitize.Sanitize(row.Description)
		}

		if _, err := h.Live.Create(ctx, models.ColProducts, payload); err != nil {
			h.Log.Error("product import row failed",
				zap.String("name", row.Name), zap.Error(err))
			respond.JSON(w, http.StatusInternalServerError, map[string]any{
				"error":    "import stopped after a write failure",
				"imported": imported,
			})
			return
		}
		imported++
	}

	h.Log.Info("products imported", zap.Int("count", imported))
	respond.JSON(w, http.StatusCreated, map[string]any{"imported": imported})
}
