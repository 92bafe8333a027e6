// internal/app/features/newsletter/routes.go
package newsletter

import (
	"github.com/go-chi/chi/v5"

	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/auth"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/roles"
)

// Routes returns the newsletter subrouter. Subscribe/unsubscribe are
// public; the subscriber list is admin only.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.HandleSubscribe)
	r.Delete("/", h.HandleUnsubscribe)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireRole(roles.Admin))
		r.Get("/", h.ServeSubscribers)
	})
	return r
}
