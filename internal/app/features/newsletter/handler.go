// internal/app/features/newsletter/handler.go
package newsletter

import (
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/live"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/store/records"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/inputval"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/normalize"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/respond"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/timeouts"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/domain/models"
)

// Handler owns newsletter subscriptions.
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

type subscribeRequest struct {
	Email string `json:"email"`
}

// HandleSubscribe handles POST /api/newsletter.
//
// Subscribing twice is not an error: the second attempt reports
// already_subscribed so the storefront form stays friendly.
func (h *Handler) HandleSubscribe(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.MediumCtx(r)
	defer cancel()

	var req subscribeRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if !inputval.IsValidEmail(req.Email) {
		respond.Error(w, http.StatusBadRequest, "invalid email address")
		return
	}
	email := normalize.Email(req.Email)

	existing, err := h.Live.FindByField(ctx, models.ColSubscribers, "email", email)
	if err != nil {
		h.Log.Error("subscriber lookup failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "lookup failed")
		return
	}
	if existing != nil {
		respond.JSON(w, http.StatusOK, map[string]string{"status": "already_subscribed"})
		return
	}

	_, err = h.Live.Create(ctx, models.ColSubscribers, live.Record{
		"email":         email,
		"subscribed_at": time.Now().UTC(),
	})
	if err != nil {
		// The unique index can still race a concurrent subscribe.
		if errors.Is(err, records.ErrDuplicate) {
			respond.JSON(w, http.StatusOK, map[string]string{"status": "already_subscribed"})
			return
		}
		h.Log.Error("subscribe failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "subscribe failed")
		return
	}
	respond.JSON(w, http.StatusCreated, map[string]string{"status": "subscribed"})
}

type unsubscribeRequest struct {
	Email string `json:"email"`
}

// HandleUnsubscribe handles DELETE /api/newsletter.
func (h *Handler) HandleUnsubscribe(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.MediumCtx(r)
	defer cancel()

	var req unsubscribeRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	email := normalize.Email(req.Email)

	rec, err := h.Live.FindByField(ctx, models.ColSubscribers, "email", email)
	if err != nil {
		h.Log.Error("subscriber lookup failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "lookup failed")
		return
	}
	if rec == nil {
		respond.Error(w, http.StatusNotFound, "not subscribed")
		return
	}
	if err := h.Live.Delete(ctx, models.ColSubscribers, rec.ID()); err != nil {
		h.Log.Error("unsubscribe failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "unsubscribe failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ServeSubscribers handles GET /api/newsletter (admin), newest first.
func (h *Handler) ServeSubscribers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.MediumCtx(r)
	defer cancel()

	subs, err := h.Live.List(ctx, models.ColSubscribers, live.SubscribeOptions{
		SortField: "subscribed_at",
		SortDesc:  true,
	})
	if err != nil {
		h.Log.Error("subscriber list failed", zap.Error(err))
		respond.Error(w, http.StatusInternalServerError, "list failed")
		return
	}
	respond.JSON(w, http.StatusOK, subs)
}
