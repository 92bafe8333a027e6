// internal/app/features/livefeed/handler.go
package livefeed

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/live"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/auth"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/respond"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/roles"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/domain/models"
)

// heartbeatInterval keeps proxies from timing out idle SSE connections.
const heartbeatInterval = 25 * time.Second

// Handler streams live read-model snapshots over Server-Sent Events.
// Every connection gets its own aggregator reconciled to the caller's
// session, so the collection set follows the caller's role.
type Handler struct {
	Src     live.Source
	Deriver roles.Deriver
	Settle  time.Duration
	Log     *zap.Logger
}

func NewHandler(src live.Source, deriver roles.Deriver, settle time.Duration, logger *zap.Logger) *Handler {
	return &Handler{
		Src:     src,
		Deriver: deriver,
		Settle:  settle,
		Log:     logger,
	}
}

// ServeFeed handles GET /api/live: one SSE stream of snapshot events,
// one event per collection replacement. Event names are collection names.
func (h *Handler) ServeFeed(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		respond.Error(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	var ident *live.Identity
	if u, signedIn := auth.CurrentUser(r); signedIn {
		ident = &live.Identity{UID: u.UID, Email: u.Email, Name: u.Name}
	}

	agg := live.New(h.Src, h.Deriver, h.Settle, h.Log)
	defer agg.Close()
	agg.Reconcile(r.Context(), ident)

	connID := uuid.NewString()
	h.Log.Info("live feed connected",
		zap.String("conn", connID),
		zap.String("role", string(agg.Role())))
	defer h.Log.Info("live feed disconnected", zap.String("conn", connID))

	setStreamHeaders(w)

	hello := map[string]any{
		"connection_id": connID,
		"role":          string(agg.Role()),
		"collections":   agg.ActiveSubscriptions(),
	}
	if err := writeEvent(w, flusher, "hello", hello); err != nil {
		return
	}

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case snap := <-agg.Events():
			if err := writeEvent(w, flusher, snap.Collection, snap.Records); err != nil {
				return
			}
		case <-ticker.C:
			if err := writeHeartbeat(w, flusher); err != nil {
				return
			}
		case <-r.Context().Done():
			return
		}
	}
}

// ServeOwnOrders handles GET /api/live/orders (signed-in): a live query
// over the caller's own orders, newest first. Customers use this for the
// order-tracking page; it never exposes another customer's orders.
func (h *Handler) ServeOwnOrders(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		respond.Error(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	u, signedIn := auth.CurrentUser(r)
	if !signedIn {
		respond.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	agg := live.New(h.Src, h.Deriver, h.Settle, h.Log)
	defer agg.Close()

	snaps := make(chan []live.Record, 16)
	cancel, err := agg.SubscribeOwned(r.Context(), models.ColOrders, u.UID, func(recs []live.Record) {
		select {
		case snaps <- recs:
		default:
			// Slow consumer; the next snapshot supersedes this one anyway.
		}
	})
	if err != nil {
		h.Log.Error("owned-orders subscription failed", zap.Error(err), zap.String("uid", u.UID))
		respond.Error(w, http.StatusInternalServerError, "subscription failed")
		return
	}
	defer cancel()

	setStreamHeaders(w)

	ticker := time.NewTicker(heartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case recs := <-snaps:
			if err := writeEvent(w, flusher, models.ColOrders, recs); err != nil {
				return
			}
		case <-ticker.C:
			if err := writeHeartbeat(w, flusher); err != nil {
				return
			}
		case <-r.Context().Done():
			return
		}
	}
}

func setStreamHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // disable nginx buffering
	w.WriteHeader(http.StatusOK)
}

func writeEvent(w http.ResponseWriter, flusher http.Flusher, event string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, payload); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}

func writeHeartbeat(w http.ResponseWriter, flusher http.Flusher) error {
	if _, err := fmt.Fprint(w, ": heartbeat\n\n"); err != nil {
		return err
	}
	flusher.Flush()
	return nil
}
