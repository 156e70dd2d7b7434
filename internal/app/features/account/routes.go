// internal/app/features/account/routes.go
package account

import (
	"net/http"

	"github.com/dalemusser/collegesite/internal/app/system/authz"
	"github.com/dalemusser/collegesite/internal/app/system/ratelimit"
	"github.com/go-chi/chi/v5"
)

// MsgTooManyLogins is the 429 message for the login limiter.
const MsgTooManyLogins = "Too many login attempts, please try again later"

// Routes mounts at /api/auth.
func Routes(h *Handler, loginLimiter *ratelimit.Limiter) chi.Router {
	r := chi.NewRouter()

	login := r.With()
	if loginLimiter != nil {
		login = r.With(ratelimit.Middleware(loginLimiter, MsgTooManyLogins, h.Log, func(req *http.Request) {
			h.Audit.LoginFailedRateLimit(req.Context(), req, "")
		}))
	}
	login.Post("/login", h.Login)
	r.Post("/setup", h.Setup)

	r.Group(func(r chi.Router) {
		r.Use(h.Gate.Protect(authz.AdminOnly))
		r.Post("/register", h.Register)
		r.Put("/users/{id}/active", h.SetActive)
	})
	r.Group(func(r chi.Router) {
		r.Use(h.Gate.Protect(authz.AnyPrincipal))
		r.Get("/me", h.Me)
		r.Post("/logout", h.Logout)
	})
	return r
}
