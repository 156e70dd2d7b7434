package dashboard

import (
	"github.com/dalemusser/collegesite/internal/app/system/auth"
	"github.com/dalemusser/collegesite/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the dashboard under /api/dashboard for content staff.
func Routes(h *Handler, gate *auth.Gate) chi.Router {
	r := chi.NewRouter()
	r.Use(gate.Protect(authz.EditorOrAdmin))
	r.Get("/", h.ServeDashboard)
	return r
}
