// internal/app/features/media/routes.go
package media

import (
	"github.com/dalemusser/collegesite/internal/app/system/auth"
	"github.com/dalemusser/collegesite/internal/app/system/authz"
	"github.com/dalemusser/collegesite/internal/app/system/limits"
	"github.com/go-chi/chi/v5"
)

// Routes mounts at /api/media. Every route needs an editor or admin.
func Routes(h *Handler, gate *auth.Gate) chi.Router {
	r := chi.NewRouter()
	r.Use(gate.Protect(authz.EditorOrAdmin))
	r.With(limits.MaxBody(h.Uploads.BodyCap(1))).Post("/upload", h.Upload)
	r.Get("/", h.List)
	r.Delete("/{id}", h.Delete)
	return r
}
