package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/collegesite/internal/app/system/apierr"
	"github.com/dalemusser/collegesite/internal/app/system/authz"
	"github.com/dalemusser/collegesite/internal/app/system/timeouts"
	"github.com/dalemusser/collegesite/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// UserLoader loads the user named by a token subject. A missing user is
// reported as mongo.ErrNoDocuments.
type UserLoader interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
}

// CookieConfig controls the auth cookie.
type CookieConfig struct {
	Name   string
	Domain string
	Secure bool
}

// Gate is the authentication and authorization middleware.
type Gate struct {
	tokens *Tokens
	users  UserLoader
	cookie CookieConfig
	log    *zap.Logger
}

func NewGate(tokens *Tokens, users UserLoader, cookie CookieConfig, log *zap.Logger) *Gate {
	if cookie.Name == "" {
		cookie.Name = "token"
	}
	return &Gate{tokens: tokens, users: users, cookie: cookie, log: log}
}

// Tokens returns the signer used by the gate.
func (g *Gate) Tokens() *Tokens { return g.tokens }

// BearerToken returns the token from the Authorization header, falling back
// to the named cookie.
func BearerToken(r *http.Request, cookieName string) string {
	if h := r.Header.Get("Authorization"); h != "" {
		if scheme, tok, ok := strings.Cut(h, " "); ok && strings.EqualFold(scheme, "Bearer") {
			if tok = strings.TrimSpace(tok); tok != "" {
				return tok
			}
		}
	}
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		return c.Value
	}
	return ""
}

// Resolve authenticates r and returns its principal.
func (g *Gate) Resolve(r *http.Request) (*Principal, error) {
	tok := BearerToken(r, g.cookie.Name)
	if tok == "" {
		return nil, ErrNoToken
	}
	sub, err := g.tokens.Verify(tok)
	if err != nil {
		return nil, err
	}
	id, err := primitive.ObjectIDFromHex(sub)
	if err != nil {
		return nil, ErrTokenInvalid
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()
	u, err := g.users.GetByID(ctx, id)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apierr.Unauthorized("User not found")
	}
	if err != nil {
		return nil, err
	}
	if !u.IsActive {
		return nil, apierr.Unauthorized("User account is deactivated")
	}
	return PrincipalFromUser(*u), nil
}

// Authenticate rejects requests without a valid token for an active user
// (401) and attaches the principal otherwise.
func (g *Gate) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, err := g.Resolve(r)
		if err != nil {
			apierr.Write(w, r, g.log, err)
			return
		}
		next.ServeHTTP(w, WithPrincipal(r, p))
	})
}

// Require returns 403 unless the attached principal satisfies policy. It
// must run after Authenticate; a missing principal is a 401.
func (g *Gate) Require(policy authz.Policy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := CurrentUser(r)
			if !ok {
				apierr.Write(w, r, g.log, ErrNoToken)
				return
			}
			if !policy.Allows(p.Role) {
				apierr.Write(w, r, g.log, apierr.Forbidden(policy.DeniedMessage()))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Protect is Authenticate followed by Require(policy).
func (g *Gate) Protect(policy authz.Policy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return g.Authenticate(g.Require(policy)(next))
	}
}

// SetCookie writes the HttpOnly auth cookie.
func (g *Gate) SetCookie(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     g.cookie.Name,
		Value:    token,
		Path:     "/",
		Domain:   g.cookie.Domain,
		Expires:  expires,
		HttpOnly: true,
		Secure:   g.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// ClearCookie expires the auth cookie.
func (g *Gate) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     g.cookie.Name,
		Value:    "",
		Path:     "/",
		Domain:   g.cookie.Domain,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   g.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
