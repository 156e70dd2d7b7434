// internal/app/features/account/handler.go
package account

import (
	"context"

	"github.com/dalemusser/collegesite/internal/app/system/auditlog"
	"github.com/dalemusser/collegesite/internal/app/system/auth"
	"github.com/dalemusser/collegesite/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Store is the subset of userstore.Store the account handlers use.
type Store interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, u models.User) (models.User, error)
	AdminExists(ctx context.Context) (bool, error)
	TouchLastLogin(ctx context.Context, id primitive.ObjectID) error
	SetActive(ctx context.Context, id primitive.ObjectID, active bool) error
}

// Handler serves sign-in, first-admin setup and staff registration.
type Handler struct {
	Users Store
	Gate  *auth.Gate
	Audit *auditlog.Logger
	Log   *zap.Logger

	// Cost is the bcrypt cost for new passwords.
	Cost int
}

func NewHandler(users Store, gate *auth.Gate, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		Users: users,
		Gate:  gate,
		Audit: audit,
		Log:   logger,
		Cost:  bcrypt.DefaultCost,
	}
}

// session is the body returned after a successful sign-in or setup.
type session struct {
	Success bool        `json:"success"`
	Token   string      `json:"token"`
	User    models.User `json:"user"`
}
