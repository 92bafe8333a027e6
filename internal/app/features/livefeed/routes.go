// internal/app/features/livefeed/routes.go
package livefeed

import (
	"github.com/go-chi/chi/v5"

	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/auth"
)

// Routes mounts the SSE endpoints under /api/live. The main feed is open
// to anonymous callers (it scopes itself to the public collections); the
// owned-orders feed requires a session.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeFeed)
	r.With(auth.RequireSignedIn).Get("/orders", h.ServeOwnOrders)

	return r
}
