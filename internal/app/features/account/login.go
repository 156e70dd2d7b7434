// internal/app/features/account/login.go
package account

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/collegesite/internal/app/system/apierr"
	"github.com/dalemusser/collegesite/internal/app/system/formdecode"
	"github.com/dalemusser/collegesite/internal/app/system/inputval"
	"github.com/dalemusser/collegesite/internal/app/system/normalize"
	"github.com/dalemusser/collegesite/internal/app/system/respond"
	"github.com/dalemusser/collegesite/internal/app/system/timeouts"
	"github.com/dalemusser/collegesite/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const msgBadCredentials = "Invalid credentials"

type loginInput struct {
	Email    string `validate:"required" label:"Email"`
	Password string `validate:"required" label:"Password"`
}

// Login serves POST /api/auth/login. Unknown emails and wrong passwords get
// the same message.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	vals, err := formdecode.Parse(r, formdecode.DefaultMaxMemory)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	in := loginInput{Email: normalize.Email(vals.String("email")), Password: vals.String("password")}
	if err := inputval.Validate(in).Err(); err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, in.Email)
	if errors.Is(err, mongo.ErrNoDocuments) {
		h.Audit.LoginFailedUserNotFound(ctx, r, in.Email)
		apierr.Write(w, r, h.Log, apierr.Unauthorized(msgBadCredentials))
		return
	}
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)) != nil {
		h.Audit.LoginFailedWrongPassword(ctx, r, u.ID, in.Email)
		apierr.Write(w, r, h.Log, apierr.Unauthorized(msgBadCredentials))
		return
	}
	if !u.IsActive {
		h.Audit.LoginFailedUserDisabled(ctx, r, u.ID, in.Email)
		apierr.Write(w, r, h.Log, apierr.Unauthorized("User account is deactivated"))
		return
	}

	if err := h.Users.TouchLastLogin(ctx, u.ID); err != nil {
		h.Log.Warn("touch last login", zap.String("user_id", u.ID.Hex()), zap.Error(err))
	}
	h.Audit.LoginSuccess(ctx, r, u.ID, u.Email)
	h.signIn(w, r, http.StatusOK, *u)
}

// signIn issues a token for u, sets the auth cookie and writes the session.
func (h *Handler) signIn(w http.ResponseWriter, r *http.Request, status int, u models.User) {
	tok, exp, err := h.Gate.Tokens().Issue(u.ID.Hex())
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	h.Gate.SetCookie(w, tok, exp)
	respond.JSON(w, status, session{Success: true, Token: tok, User: u})
}
