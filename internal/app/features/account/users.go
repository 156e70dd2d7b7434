// internal/app/features/account/users.go
package account

import (
	"context"
	"errors"
	"net/http"

	userstore "github.com/dalemusser/collegesite/internal/app/store/users"
	"github.com/dalemusser/collegesite/internal/app/system/apierr"
	"github.com/dalemusser/collegesite/internal/app/system/auth"
	"github.com/dalemusser/collegesite/internal/app/system/formdecode"
	"github.com/dalemusser/collegesite/internal/app/system/inputval"
	"github.com/dalemusser/collegesite/internal/app/system/normalize"
	"github.com/dalemusser/collegesite/internal/app/system/respond"
	"github.com/dalemusser/collegesite/internal/app/system/timeouts"
	"github.com/dalemusser/collegesite/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

type userInput struct {
	Name     string `validate:"required,max=100" label:"Name"`
	Email    string `validate:"required,simpleemail" label:"Email"`
	Password string `validate:"required,min=6" label:"Password"`
	Role     string `validate:"required,oneof=admin editor" label:"Role"`
}

func decodeUser(r *http.Request, defaultRole models.Role) (userInput, error) {
	vals, err := formdecode.Parse(r, formdecode.DefaultMaxMemory)
	if err != nil {
		return userInput{}, err
	}
	in := userInput{
		Name:     normalize.Name(vals.String("name")),
		Email:    normalize.Email(vals.String("email")),
		Password: vals.String("password"),
		Role:     normalize.Role(vals.String("role")),
	}
	if in.Role == "" {
		in.Role = string(defaultRole)
	}
	return in, inputval.Validate(in).Err()
}

func (h *Handler) create(ctx context.Context, in userInput) (models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), h.Cost)
	if err != nil {
		return models.User{}, err
	}
	u, err := h.Users.Create(ctx, models.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         models.Role(in.Role),
	})
	if errors.Is(err, userstore.ErrDuplicateEmail) {
		return models.User{}, apierr.Conflict("User already exists")
	}
	return u, err
}

// Setup serves POST /api/auth/setup. It creates the first administrator and
// signs them in; once any admin exists it always fails.
func (h *Handler) Setup(w http.ResponseWriter, r *http.Request) {
	in, err := decodeUser(r, models.RoleAdmin)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	in.Role = string(models.RoleAdmin)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	exists, err := h.Users.AdminExists(ctx)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	if exists {
		apierr.Write(w, r, h.Log, apierr.Validation("Admin already exists"))
		return
	}
	u, err := h.create(ctx, in)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	h.Audit.AdminSetup(ctx, r, u.ID, u.Email)
	h.signIn(w, r, http.StatusCreated, u)
}

// Register serves POST /api/auth/register (admin only). The new account is
// not signed in.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.CurrentUser(r)

	in, err := decodeUser(r, models.RoleEditor)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.create(ctx, in)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	h.Audit.UserCreated(ctx, r, p.ID, u.ID, string(u.Role))
	respond.Created(w, "User registered successfully", u)
}

// Me serves GET /api/auth/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.CurrentUser(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByID(ctx, p.ID)
	if err != nil {
		apierr.Write(w, r, h.Log, apierr.Missing(err, "User not found"))
		return
	}
	respond.OK(w, u)
}

// Logout serves POST /api/auth/logout. Tokens are stateless, so this only
// expires the cookie.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.CurrentUser(r)
	h.Gate.ClearCookie(w)
	h.Audit.Logout(r.Context(), r, p.ID.Hex())
	respond.Message(w, "Logged out successfully", nil)
}

type activeInput struct {
	IsActive *bool `validate:"required" label:"isActive"`
}

// SetActive serves PUT /api/auth/users/{id}/active. An administrator cannot
// deactivate their own account.
func (h *Handler) SetActive(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.CurrentUser(r)

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierr.Write(w, r, h.Log, apierr.Missing(err, "User not found"))
		return
	}

	vals, err := formdecode.Parse(r, formdecode.DefaultMaxMemory)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	var in activeInput
	in.IsActive, err = vals.Bool("isActive")
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	if err := inputval.Validate(in).Err(); err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	if id == p.ID && !*in.IsActive {
		apierr.Write(w, r, h.Log, apierr.Validation("You cannot deactivate your own account"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Users.SetActive(ctx, id, *in.IsActive); err != nil {
		apierr.Write(w, r, h.Log, apierr.Missing(err, "User not found"))
		return
	}
	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		apierr.Write(w, r, h.Log, apierr.Missing(err, "User not found"))
		return
	}

	h.Audit.UserStatusChanged(r.Context(), r, p.ID, id, *in.IsActive)
	respond.Message(w, "User status updated", u)
}
