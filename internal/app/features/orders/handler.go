// internal/app/features/orders/handler.go
package orders

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/live"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/auth"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/authz"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/inputval"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/normalize"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/respond"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/timeouts"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/domain/models"
)

// Handler owns checkout and order fulfillment.
//
// Checkout never trusts client prices: every line is repriced from the
// current catalog, and the delivery fee comes from site settings. The
// resulting totals are stored on the order so later catalog edits don't
// change history.
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

type checkoutItem struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
}

type checkoutRequest struct {
	Items         []checkoutItem `json:"items"`
	Address       string         `json:"address"`
	Phone         string         `json:"phone"`
	PaymentMethod string         `json:"payment_method"`
}

// HandleCheckout handles POST /api/orders (signed-in).
func (h *Handler) HandleCheckout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.LongCtx(r)
	defer cancel()

	u, ok := auth.CurrentUser(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req checkoutRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if len(req.Items) == 0 {
		respond.Error(w, http.StatusBadRequest, "cart is empty")
		return
	}
	if strings.TrimSpace(req.Address) == "" {
		respond.Error(w, http.StatusBadRequest, "address is required")
		return
	}
	if !inputval.IsValidPaymentMethod(req.PaymentMethod) {
		respond.Error(w, http.StatusBadRequest, `payment_method must be "cod" or "online"`)
		return
	}
	if req.Phone != "" && !inputval.IsValidPhone(req.Phone) {
		respond.Error(w, http.StatusBadRequest, "invalid phone number")
		return
	}

	// Reprice every line from the current catalog.
	items := make([]any, 0, len(req.Items))
	subtotal := 0
	for _, it := range req.Items {
		if it.Qty <= 0 {
			respond.Error(w, http.StatusBadRequest, "qty must be positive")
			return
		}
		product, err := h.Live.Get(ctx, models.ColProducts, it.ProductID)
		if err != nil {
			h.Log.Error("product lookup failed", zap.String("id", it.ProductID), zap.Error(err))
			respond.Error(w, http.StatusInternalServerError, "lookup failed")
			return
		}
		if product == nil {
			respond.Error(w, http.StatusBadRequest, "unknown product in cart")
			return
		}
		if stock, has := asInt(product["stock"]); has && stock < it.Qty {
			respond.Error(w, http.StatusConflict, "insufficient stock for "+recString(product, "name"))
			return
		}

		price, _ := asInt(product["price"])
		line := map[string]any{
			"product_id": it.ProductID,
			"name":       recString(product, "name"),
			"price":      price,
			"qty":        it.Qty,
		}
		if img := recString(product, "image_url"); img != "" {
			line["image_url"] = img
		}
		items = append(items, line)
		subtotal += price * it.Qty
	}

	fee := h.deliveryFee(subtotal)
	payload := live.Record{
		"uid":            u.UID,
		"customer_name":  u.Name,
		"customer_email": normalize.Email(u.Email),
		"address":        strings.TrimSpace(req.Address),
		"items":          items,
		"subtotal":       subtotal,
		"delivery_fee":   fee,
		"total":          subtotal + fee,
		"payment_method": strings.ToLower(strings.TrimSpace(req.PaymentMethod)),
		"status":         models.OrderPlaced,
	}
	if req.Phone != "" {
		payload["customer_phone"] = normalize.Phone(req.Phone)
	}

	id, err := h.Live.Create(ctx, models.ColOrders, payload)
	if err != nil {
		var vErr *live.ValidationError
		if errors.As(err, &vErr) {
			respond.Error(w, http.StatusBadRequest, vErr.Error())
			return
		}
		h.Log.Error("order create failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "checkout failed")
		return
	}

	// Stock bookkeeping is best-effort: the order is already placed.
	for _, it := range req.Items {
		h.adjustStock(ctx, it.ProductID, -it.Qty)
	}

	respond.JSON(w, http.StatusCreated, map[string]any{
		"id":           id,
		"subtotal":     subtotal,
		"delivery_fee": fee,
		"total":        subtotal + fee,
	})
}

// ServeMine handles GET /api/orders/mine (signed-in), newest first.
func (h *Handler) ServeMine(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.MediumCtx(r)
	defer cancel()

	u, ok := auth.CurrentUser(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	orders, err := h.Live.List(ctx, models.ColOrders, live.SubscribeOptions{
		SortField:   "created_at",
		SortDesc:    true,
		FilterField: "uid",
		FilterValue: u.UID,
	})
	if err != nil {
		h.Log.Error("order list failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "list failed")
		return
	}
	respond.JSON(w, http.StatusOK, orders)
}

// ServeAll handles GET /api/orders (admin/staff/delivery), newest first.
func (h *Handler) ServeAll(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.MediumCtx(r)
	defer cancel()

	orders, err := h.Live.List(ctx, models.ColOrders, live.SubscribeOptions{
		SortField: "created_at",
		SortDesc:  true,
	})
	if err != nil {
		h.Log.Error("order list failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "list failed")
		return
	}
	respond.JSON(w, http.StatusOK, orders)
}

// ServeOrder handles GET /api/orders/{id}. The owner and fulfillment
// roles may view; everyone else sees 404.
func (h *Handler) ServeOrder(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.ShortCtx(r)
	defer cancel()

	id := chi.URLParam(r, "id")
	order, err := h.Live.Get(ctx, models.ColOrders, id)
	if err != nil {
		h.Log.Error("order lookup failed", zap.String("id", id), zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "lookup failed")
		return
	}
	if order == nil || !authz.OwnsOrCanView(r, recString(order, "uid")) {
		respond.Error(w, http.StatusNotFound, "order not found")
		return
	}
	respond.JSON(w, http.StatusOK, order)
}

type statusRequest struct {
	Status string `json:"status"`
}

// HandleUpdateStatus handles PATCH /api/orders/{id}/status
// (admin/staff/delivery).
func (h *Handler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.MediumCtx(r)
	defer cancel()

	var req statusRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if !models.ValidOrderStatus(req.Status) {
		respond.Error(w, http.StatusBadRequest, "unknown order status")
		return
	}

	id := chi.URLParam(r, "id")
	order, err := h.Live.Get(ctx, models.ColOrders, id)
	if err != nil {
		h.Log.Error("order lookup failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "lookup failed")
		return
	}
	if order == nil {
		respond.Error(w, http.StatusNotFound, "order not found")
		return
	}
	if recString(order, "status") == models.OrderCancelled {
		respond.Error(w, http.StatusConflict, "order is cancelled")
		return
	}

	if err := h.Live.Update(ctx, models.ColOrders, id, live.Record{"status": req.Status}); err != nil {
		h.Log.Error("status update failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "update failed")
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"id": id, "status": req.Status})
}

// HandleCancel handles POST /api/orders/{id}/cancel (owner).
//
// Customers can cancel while the order is still placed or confirmed.
// Cancelled lines go back into stock.
func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.LongCtx(r)
	defer cancel()

	u, ok := auth.CurrentUser(r)
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	id := chi.URLParam(r, "id")
	order, err := h.Live.Get(ctx, models.ColOrders, id)
	if err != nil {
		h.Log.Error("order lookup failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "lookup failed")
		return
	}
	if order == nil || recString(order, "uid") != u.UID {
		respond.Error(w, http.StatusNotFound, "order not found")
		return
	}

	status := recString(order, "status")
	if status != models.OrderPlaced && status != models.OrderConfirmed {
		respond.Error(w, http.StatusConflict, "order can no longer be cancelled")
		return
	}

	if err := h.Live.Update(ctx, models.ColOrders, id, live.Record{"status": models.OrderCancelled}); err != nil {
		h.Log.Error("cancel failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "cancel failed")
		return
	}

	items, _ := order["items"].([]any)
	for _, it := range items {
		line, ok := it.(map[string]any)
		if !ok {
			continue
		}
		pid, _ := line["product_id"].(string)
		qty, _ := asInt(line["qty"])
		h.adjustStock(ctx, pid, qty)
	}

	respond.JSON(w, http.StatusOK, map[string]string{"id": id, "status": models.OrderCancelled})
}

// deliveryFee reads the fee schedule from the settings read model.
func (h *Handler) deliveryFee(subtotal int) int {
	recs := h.Live.Records(models.ColSiteSettings)
	if len(recs) == 0 {
		return models.DefaultDeliveryFee
	}
	settings := recs[0]

	fee, has := asInt(settings["delivery_fee"])
	if !has {
		fee = models.DefaultDeliveryFee
	}
	if threshold, has := asInt(settings["free_delivery_threshold"]); has && threshold > 0 && subtotal >= threshold {
		return 0
	}
	return fee
}

// adjustStock applies a stock delta to a product that tracks stock.
// Failures are logged, not surfaced: stock is advisory bookkeeping.
func (h *Handler) adjustStock(ctx context.Context, productID string, delta int) {
	product, err := h.Live.Get(ctx, models.ColProducts, productID)
	if err != nil || product == nil {
		return
	}
	stock, has := asInt(product["stock"])
	if !has {
		return
	}
	next := stock + delta
	if next < 0 {
		next = 0
	}
	if err := h.Live.Update(ctx, models.ColProducts, productID, live.Record{"stock": next}); err != nil {
		h.Log.Warn("stock adjustment failed",
			zap.String("product_id", productID),
			zap.Int("delta", delta),
			zap.Error(err))
	}
}

func recString(rec live.Record, key string) string {
	s, _ := rec[key].(string)
	return s
}

// asInt normalizes the numeric types a record can carry after a trip
// through BSON or JSON.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	}
	return 0, false
}
