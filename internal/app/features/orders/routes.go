// internal/app/features/orders/routes.go
package orders

import (
	"github.com/go-chi/chi/v5"

	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/auth"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/roles"
)

// Routes returns the orders subrouter. Checkout and order history need
// a session; the full order book is for fulfillment roles.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireSignedIn)
		r.Post("/", h.HandleCheckout)
		r.Get("/mine", h.ServeMine)
		r.Get("/{id}", h.ServeOrder)
		r.Post("/{id}/cancel", h.HandleCancel)
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireRole(roles.Admin, roles.Staff, roles.Delivery))
		r.Get("/", h.ServeAll)
		r.Patch("/{id}/status", h.HandleUpdateStatus)
	})

	return r
}
