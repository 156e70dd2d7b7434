// internal/app/features/auditlog/routes.go
package auditlog

import (
	"github.com/dalemusser/collegesite/internal/app/system/auth"
	"github.com/dalemusser/collegesite/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes mounts the audit viewer (typically at /api/audit). Admins only.
func Routes(h *Handler, gate *auth.Gate) chi.Router {
	r := chi.NewRouter()
	r.Use(gate.Protect(authz.AdminOnly))
	r.Get("/", h.List)
	r.Get("/failed-logins", h.FailedLogins)
	r.Get("/orphans", h.OrphanBacklog)
	return r
}
