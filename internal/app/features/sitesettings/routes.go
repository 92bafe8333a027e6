// internal/app/features/sitesettings/routes.go
package sitesettings

import (
	"github.com/go-chi/chi/v5"

	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/auth"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/roles"
)

// Routes returns the settings subrouter. Reads are public; the update
// is admin only.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeSettings)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireRole(roles.Admin))
		r.Put("/", h.HandleUpdateSettings)
	})
	return r
}
