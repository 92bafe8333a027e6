// internal/app/features/catalog/routes.go
package catalog

import (
	"github.com/go-chi/chi/v5"

	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/auth"
	"github.com/nidhishatechnology96-eng/hyjain-server/internal/app/system/roles"
)

// Routes returns the catalog subrouter. Reads are public; writes are
// admin only.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.ServeStorefront)
	r.Get("/products", h.ServeProducts)
	r.Get("/products/{id}", h.ServeProduct)
	r.Get("/categories", h.ServeCategories)
	r.Get("/categories/resolve", h.ResolveCategory)
	r.Get("/slideshow", h.ServeSlideshow)

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireRole(roles.Admin))

		r.Post("/products", h.HandleCreateProduct)
		r.Post("/products/import", h.HandleImportProducts)
		r.Patch("/products/{id}", h.HandleUpdateProduct)
		r.Delete("/products/{id}", h.HandleDeleteProduct)

		r.Post("/categories", h.HandleCreateCategory)
		r.Patch("/categories/{id}", h.HandleUpdateCategory)
		r.Delete("/categories/{id}", h.HandleDeleteCategory)

		r.Post("/slideshow", h.HandleCreateSlide)
		r.Delete("/slideshow/{id}", h.HandleDeleteSlide)
	})

	return r
}
