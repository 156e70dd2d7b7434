// internal/app/features/pages/handler.go
package pages

import (
	"context"

	"github.com/dalemusser/collegesite/internal/app/features/shared/authors"
	"github.com/dalemusser/collegesite/internal/app/system/assets"
	"github.com/dalemusser/collegesite/internal/app/system/auditlog"
	"github.com/dalemusser/collegesite/internal/app/system/limits"
	"github.com/dalemusser/collegesite/internal/app/system/paging"
	"github.com/dalemusser/collegesite/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Store is the subset of pagestore.Store the handlers use.
type Store interface {
	ListPublished(ctx context.Context, p paging.Params) ([]models.Page, int64, error)
	ListAll(ctx context.Context) ([]models.Page, error)
	GetPublishedBySlug(ctx context.Context, slug string) (*models.Page, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Page, error)
	Create(ctx context.Context, p models.Page) (models.Page, error)
	Save(ctx context.Context, p *models.Page) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// Handler owns the CMS page handlers.
type Handler struct {
	Store   Store
	Users   authors.Lookup
	Assets  assets.Delegate
	Orphans assets.OrphanSink
	Audit   *auditlog.Logger
	Uploads limits.Uploads
	Log     *zap.Logger
}

// NewHandler constructs a pages Handler.
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

type pageView struct {
	models.Page
	Author *models.UserRef `json:"author,omitempty"`
}

func (h *Handler) views(ctx context.Context, ps []models.Page) ([]pageView, error) {
	ids := make([]*primitive.ObjectID, len(ps))
	for i := range ps {
		ids[i] = ps[i].AuthorID
	}
	names, err := authors.Load(ctx, h.Users, authors.IDs(ids...)...)
	if err != nil {
		return nil, err
	}
	out := make([]pageView, len(ps))
	for i := range ps {
		out[i] = pageView{Page: ps[i], Author: names.RefPtr(ps[i].AuthorID)}
	}
	return out, nil
}

func (h *Handler) view(ctx context.Context, p *models.Page) (pageView, error) {
	vs, err := h.views(ctx, []models.Page{*p})
	if err != nil {
		return pageView{}, err
	}
	return vs[0], nil
}
