// internal/app/features/notices/handler.go
package notices

import (
	"context"
	"time"

	"github.com/dalemusser/collegesite/internal/app/features/shared/authors"
	"github.com/dalemusser/collegesite/internal/app/system/assets"
	"github.com/dalemusser/collegesite/internal/app/system/auditlog"
	"github.com/dalemusser/collegesite/internal/app/system/limits"
	"github.com/dalemusser/collegesite/internal/app/system/paging"
	"github.com/dalemusser/collegesite/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Store is the subset of noticestore.Store the handlers use.
type Store interface {
	ListVisible(ctx context.Context, now time.Time, p paging.Params) ([]models.Notice, int64, error)
	Highlights(ctx context.Context, now time.Time, limit int64) ([]models.Notice, error)
	List(ctx context.Context, p paging.Params) ([]models.Notice, int64, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Notice, error)
	GetActive(ctx context.Context, id primitive.ObjectID) (*models.Notice, error)
	Create(ctx context.Context, n models.Notice) (models.Notice, error)
	Save(ctx context.Context, n *models.Notice) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// Handler owns all notice handlers.
type Handler struct {
	Store   Store
	Users   authors.Lookup
	Assets  assets.Delegate
	Orphans assets.OrphanSink
	Audit   *auditlog.Logger
	Uploads limits.Uploads
	Log     *zap.Logger

	now func() time.Time
}

// NewHandler constructs a notices Handler.
func NewHandler(store Store, users authors.Lookup, delegate assets.Delegate, orphans assets.OrphanSink, audit *auditlog.Logger, uploads limits.Uploads, logger *zap.Logger) *Handler {
	return &Handler{
		Store:   store,
		Users:   users,
		Assets:  delegate,
		Orphans: orphans,
		Audit:   audit,
		Uploads: uploads,
		Log:     logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

type noticeView struct {
	models.Notice
	Author *models.UserRef `json:"author,omitempty"`
}

func (h *Handler) views(ctx context.Context, ns []models.Notice) ([]noticeView, error) {
	ids := make([]*primitive.ObjectID, len(ns))
	for i := range ns {
		ids[i] = ns[i].AuthorID
	}
	names, err := authors.Load(ctx, h.Users, authors.IDs(ids...)...)
	if err != nil {
		return nil, err
	}
	out := make([]noticeView, len(ns))
	for i := range ns {
		out[i] = noticeView{Notice: ns[i], Author: names.RefPtr(ns[i].AuthorID)}
	}
	return out, nil
}

func (h *Handler) view(ctx context.Context, n *models.Notice) (noticeView, error) {
	vs, err := h.views(ctx, []models.Notice{*n})
	if err != nil {
		return noticeView{}, err
	}
	return vs[0], nil
}
