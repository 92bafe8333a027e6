// internal/app/features/messages/routes.go
package messages

import (
	"github.com/go-chi/chi/v5"

	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/auth"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/roles"
)

// Routes returns the messages subrouter. Help messages require a
// session; contact submissions are public; everything else is admin
// only.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.With(auth.RequireSignedIn).Post("/help", h.HandleCreateHelp)
	r.Post("/contact", h.HandleCreateContact)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireRole(roles.Admin))

		r.Get("/help", h.ServeHelp)
		r.Patch("/help/{id}/read", h.HandleMarkHelpRead)
		r.Delete("/help/{id}", h.HandleDeleteHelp)

		r.Get("/contact", h.ServeContact)
		r.Patch("/contact/{id}/read", h.HandleMarkContactRead)
		r.Delete("/contact/{id}", h.HandleDeleteContact)
	})
	return r
}
