// internal/app/features/blogs/routes.go
package blogs

import (
	"github.com/dalemusser/collegesite/internal/app/system/auth"
	"github.com/dalemusser/collegesite/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes mounts at /api/blogs. Listing and detail are public; editing needs
// an editor or admin; deletion is admin only.
func Routes(h *Handler, gate *auth.Gate) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.List)
	r.Get("/detail/{slug}", h.Detail)

	r.Group(func(r chi.Router) {
		r.Use(gate.Protect(authz.EditorOrAdmin))
		r.Get("/admin", h.AdminList)
		r.Get("/admin/{id}", h.AdminGet)
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
	})

	r.With(gate.Protect(authz.AdminOnly)).Delete("/{id}", h.Delete)
	return r
}
