// internal/app/features/reviews/handler.go
package reviews

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/live"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/auth"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/htmlsanitize"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/inputval"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/respond"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/timeouts"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/domain/models"
)

// Handler owns product reviews. A customer may review a product once
// per order, and only after the order carrying it was delivered.
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

type reviewRequest struct {
	OrderID   string `json:"order_id"`
	ProductID string `json:"product_id"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

// HandleCreateReview handles POST /api/reviews (signed-in).
//
// The order is the proof of purchase: it must belong to the caller, be
// delivered, contain the product, and not already have a review for it.
// Writing the review and marking the order line reviewed are two store
// writes; reviewed_items uses a set union so a retry after a partial
// failure cannot double-mark.
func (h *Handler) HandleCreateReview(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.LongCtx(r)
	defer cancel()

	u, ok := auth.CurrentUser(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req reviewRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.OrderID == "" || req.ProductID == "" {
		respond.Error(w, http.StatusBadRequest, "order_id and product_id are required")
		return
	}
	if !inputval.IsValidRating(req.Rating) {
		respond.Error(w, http.StatusBadRequest, "rating must be between 1 and 5")
		return
	}

	order, err := h.Live.Get(ctx, models.ColOrders, req.OrderID)
	if err != nil {
		h.Log.Error("order lookup failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "lookup failed")
		return
	}
	if order == nil || order["uid"] != u.UID {
		// A foreign order reads as absent, not forbidden.
		respond.Error(w, http.StatusNotFound, "order not found")
		return
	}
	if order["status"] != models.OrderDelivered {
		respond.Error(w, http.StatusConflict, "order not delivered yet")
		return
	}
	if !orderContainsProduct(order, req.ProductID) {
		respond.Error(w, http.StatusBadRequest, "product is not part of this order")
		return
	}
	if alreadyReviewed(order, req.ProductID) {
		respond.Error(w, http.StatusConflict, "product already reviewed for this order")
		return
	}

	payload := live.Record{
		"uid":        u.UID,
		"product_id": req.ProductID,
		"rating":     req.Rating,
		"author":     u.Name,
	}
	if req.Comment != "" {
		payload["comment"] = htmlsanitize.SanitizeText(req.Comment)
	}

	id, err := h.Live.Create(ctx, models.ColReviews, payload)
	if err != nil {
		var vErr *live.ValidationError
		if errors.As(err, &vErr) {
			respond.Error(w, http.StatusBadRequest, vErr.Error())
			return
		}
		h.Log.Error("review create failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "review failed")
		return
	}

	if err := h.Live.AddToSet(ctx, models.ColOrders, req.OrderID, "reviewed_items", req.ProductID); err != nil {
		// The review exists; the mark is reconcilable on the next attempt.
		h.Log.Error("marking order line reviewed failed",
			zap.String("order_id", req.OrderID),
			zap.String("product_id", req.ProductID),
			zap.Error(err))
	}

	respond.JSON(w, http.StatusCreated, map[string]string{"id": id})
}

// ServeProductReviews handles GET /api/reviews/product/{id} (public),
// newest first.
func (h *Handler) ServeProductReviews(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.MediumCtx(r)
	defer cancel()

	productID := chi.URLParam(r, "id")
	revs, err := h.Live.List(ctx, models.ColReviews, live.SubscribeOptions{
		SortField:   "created_at",
		SortDesc:    true,
		FilterField: "product_id",
		FilterValue: productID,
	})
	if err != nil {
		h.Log.Error("review list failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "list failed")
		return
	}
	respond.JSON(w, http.StatusOK, revs)
}

// HandleDeleteReview handles DELETE /api/reviews/{id} (admin).
func (h *Handler) HandleDeleteReview(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.MediumCtx(r)
	defer cancel()

	id := chi.URLParam(r, "id")
	if err := h.Live.Delete(ctx, models.ColReviews, id); err != nil {
		var nfErr *live.NotFoundError
		if errors.As(err, &nfErr) {
			respond.Error(w, http.StatusNotFound, "review not found")
			return
		}
		h.Log.Error("review delete failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "delete failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func orderContainsProduct(order live.Record, productID string) bool {
	items, _ := order["items"].([]any)
	for _, it := range items {
		if m, ok := it.(map[string]any); ok && m["product_id"] == productID {
			return true
		}
	}
	return false
}

func alreadyReviewed(order live.Record, productID string) bool {
	reviewed, _ := order["reviewed_items"].([]any)
	for _, v := range reviewed {
		if v == productID {
			return true
		}
	}
	return false
}
