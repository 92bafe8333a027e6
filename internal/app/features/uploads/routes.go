// internal/app/features/uploads/routes.go
package uploads

import (
	"github.com/go-chi/chi/v5"

	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/auth"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/roles"
)

// Routes mounts the upload endpoints under /api/uploads. Admin only:
// images land on product and slideshow records, which are admin writes.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireRole(roles.Admin))

	r.Post("/images", h.HandleUploadImage)

	return r
}
