// internal/app/features/admissions/handler.go
package admissions

import (
	"context"

	"github.com/dalemusser/collegesite/internal/app/features/shared/authors"
	admissionstore "github.com/dalemusser/collegesite/internal/app/store/admissions"
	"github.com/dalemusser/collegesite/internal/app/system/assets"
	"github.com/dalemusser/collegesite/internal/app/system/auditlog"
	"github.com/dalemusser/collegesite/internal/app/system/limits"
	"github.com/dalemusser/collegesite/internal/app/system/paging"
	"github.com/dalemusser/collegesite/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Store is the subset of admissionstore.Store the handlers use.
type Store interface {
	Create(ctx context.Context, a models.Admission) (models.Admission, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Admission, error)
	List(ctx context.Context, f admissionstore.ListFilter, p paging.Params) ([]models.Admission, int64, error)
	Review(ctx context.Context, id primitive.ObjectID, status models.AdmissionStatus, remarks *string, reviewer primitive.ObjectID) (*models.Admission, error)
	Delete(ctx context.Context, id primitive.ObjectID) (*models.Admission, error)
	Stats(ctx context.Context) (admissionstore.Stats, error)
}

// Handler owns the admission intake and review handlers.
type Handler struct {
	Store   Store
	Users   authors.Lookup
	Assets  assets.Delegate
	Orphans assets.OrphanSink
	Audit   *auditlog.Logger
	Uploads limits.Uploads
	Log     *zap.Logger
}

// NewHandler constructs an admissions Handler.
func NewHandler(store Store, users authors.Lookup, delegate assets.Delegate, orphans assets.OrphanSink, audit *auditlog.Logger, uploads limits.Uploads, logger *zap.Logger) *Handler {
	return &Handler{
		Store:   store,
		Users:   users,
		Assets:  delegate,
		Orphans: orphans,
		Audit:   audit,
		Uploads: uploads,
		Log:     logger,
	}
}

// admissionView is an application with its reviewer resolved.
type admissionView struct {
	models.Admission
	Reviewer *models.UserRef `json:"reviewedBy,omitempty"`
}

func (h *Handler) views(ctx context.Context, as []models.Admission) ([]admissionView, error) {
	ids := make([]*primitive.ObjectID, len(as))
	for i := range as {
		ids[i] = as[i].ReviewedBy
	}
	names, err := authors.Load(ctx, h.Users, authors.IDs(ids...)...)
	if err != nil {
		return nil, err
	}
	out := make([]admissionView, len(as))
	for i := range as {
		out[i] = admissionView{Admission: as[i], Reviewer: names.RefPtr(as[i].ReviewedBy)}
	}
	return out, nil
}

func (h *Handler) view(ctx context.Context, a *models.Admission) (admissionView, error) {
	vs, err := h.views(ctx, []models.Admission{*a})
	if err != nil {
		return admissionView{}, err
	}
	return vs[0], nil
}
