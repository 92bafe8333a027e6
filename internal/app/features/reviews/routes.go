// internal/app/features/reviews/routes.go
package reviews

import (
	"github.com/go-chi/chi/v5"

	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/auth"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/roles"
)

// Routes returns the reviews subrouter. Product review lists are
// public; creating requires a session; deletion is admin only.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/product/{id}", h.ServeProductReviews)
	r.With(auth.RequireSignedIn).Post("/", h.HandleCreateReview)
	r.With(auth.RequireRole(roles.Admin)).Delete("/{id}", h.HandleDeleteReview)
	return r
}
