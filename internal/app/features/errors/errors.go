// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/dalemusser/collegesite/internal/app/system/apierr"
	"go.uber.org/zap"
)

// Handler renders router-level failures in the API envelope.
type Handler struct {
	Log *zap.Logger
}

// NewHandler constructs an errors Handler.
func NewHandler(logger *zap.Logger) *Handler {
	return &Handler{Log: logger}
}

// NotFound is the router's 404 for unknown paths.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	apierr.Write(w, r, h.Log, apierr.NotFound("Route not found"))
}

// MethodNotAllowed is the router's 405 for a known path with the wrong verb.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	apierr.Write(w, r, h.Log, &apierr.Error{Kind: apierr.KindMethodNotAllowed, Message: "Method not allowed"})
}
