// internal/app/features/authsession/routes.go
package authsession

import (
	"github.com/go-chi/chi/v5"

	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/auth"
)

// Routes mounts the auth endpoints under /api/auth.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/register", h.HandleRegister)
	r.Post("/login", h.HandleLogin)
	r.Post("/logout", h.HandleLogout)

	r.Get("/google", h.ServeGoogleLogin)
	r.Get("/google/callback", h.ServeGoogleCallback)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireSignedIn)
		r.Get("/me", h.ServeMe)
		r.Put("/profile", h.HandleUpdateProfile)
	})

	return r
}
