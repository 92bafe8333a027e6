// internal/app/features/adminusers/routes.go
package adminusers

import (
	"github.com/go-chi/chi/v5"

	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/auth"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/roles"
)

// Routes mounts the account-management endpoints under /api/admin/users.
// Admin only.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireRole(roles.Admin))

	r.Get("/", h.ServeUsers)
	r.Patch("/{uid}/status", h.HandleSetStatus)

	return r
}
