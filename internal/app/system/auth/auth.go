// Package auth authenticates API requests. Tokens are stateless HS256 JWTs
// sent as a Bearer header or an HttpOnly cookie; every request re-loads the
// user so deactivation takes effect immediately.
package auth

import (
	"context"
	"net/http"

	"github.com/dalemusser/collegesite/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Principal is the authenticated user attached to the request context.
type Principal struct {
	ID    primitive.ObjectID
	Name  string
	Email string
	Role  models.Role
}

// PrincipalFromUser builds the request principal for u.
func PrincipalFromUser(u models.User) *Principal {
	return &Principal{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the principal and a found flag.
func CurrentUser(r *http.Request) (*Principal, bool) {
	p, ok := r.Context().Value(currentUserKey).(*Principal)
	return p, ok && p != nil
}

// WithPrincipal returns r carrying p. Tests use it to simulate a signed-in user.
func WithPrincipal(r *http.Request, p *Principal) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, p))
}
