// internal/app/features/admissions/routes.go
package admissions

import (
	"github.com/dalemusser/collegesite/internal/app/system/auth"
	"github.com/dalemusser/collegesite/internal/app/system/authz"
	"github.com/dalemusser/collegesite/internal/app/system/limits"
	"github.com/dalemusser/collegesite/internal/app/system/ratelimit"
	"github.com/go-chi/chi/v5"
)

// MsgTooManySubmissions is returned when one client submits too often.
const MsgTooManySubmissions = "Too many applications submitted, please try again later"

// Routes mounts at /api/admissions. Submission is public and rate limited
// per client IP; everything else is admin only.
func Routes(h *Handler, gate *auth.Gate, submitLimiter *ratelimit.Limiter) chi.Router {
	r := chi.NewRouter()

	submit := r.With(limits.MaxBody(h.Uploads.BodyCap(len(documentFields))))
	if submitLimiter != nil {
		submit = submit.With(ratelimit.Middleware(submitLimiter, MsgTooManySubmissions, h.Log, nil))
	}
	submit.Post("/", h.Submit)

	r.Group(func(r chi.Router) {
		r.Use(gate.Protect(authz.AdminOnly))
		r.Get("/", h.List)
		r.Get("/stats", h.Stats)
		r.Get("/{id}", h.Get)
		r.Put("/{id}/status", h.Review)
		r.Delete("/{id}", h.Delete)
	})
	return r
}
