// internal/app/features/blogs/handler.go
package blogs

import (
	"context"

	"github.com/dalemusser/collegesite/internal/app/features/shared/authors"
	blogstore "github.com/dalemusser/collegesite/internal/app/store/blogs"
	"github.com/dalemusser/collegesite/internal/app/system/assets"
	"github.com/dalemusser/collegesite/internal/app/system/auditlog"
	"github.com/dalemusser/collegesite/internal/app/system/limits"
	"github.com/dalemusser/collegesite/internal/app/system/paging"
	"github.com/dalemusser/collegesite/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Store is the subset of blogstore.Store the handlers use.
type Store interface {
	List(ctx context.Context, f blogstore.ListFilter, p paging.Params) ([]models.Blog, int64, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Blog, error)
	ViewPublished(ctx context.Context, slug string) (*models.Blog, error)
	Create(ctx context.Context, b models.Blog) (models.Blog, error)
	Save(ctx context.Context, b *models.Blog) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// Handler owns all blog handlers.
type Handler struct {
	Store   Store
	Users   authors.Lookup
	Assets  assets.Delegate
	Orphans assets.OrphanSink
	Audit   *auditlog.Logger
	Uploads limits.Uploads
	Log     *zap.Logger
}

// NewHandler constructs a blogs Handler.
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

func (h *Handler) imageOptions() assets.Options {
	return assets.BlogFolder.WithFit(h.Uploads.MaxWidth, h.Uploads.MaxHeight)
}

// blogView is a post with its author resolved.
type blogView struct {
	models.Blog
	Author *models.UserRef `json:"author"`
}

func (h *Handler) views(ctx context.Context, posts []models.Blog) ([]blogView, error) {
	ids := make([]primitive.ObjectID, len(posts))
	for i := range posts {
		ids[i] = posts[i].AuthorID
	}
	names, err := authors.Load(ctx, h.Users, ids...)
	if err != nil {
		return nil, err
	}
	out := make([]blogView, len(posts))
	for i := range posts {
		out[i] = blogView{Blog: posts[i], Author: names.Ref(posts[i].AuthorID)}
	}
	return out, nil
}

func (h *Handler) view(ctx context.Context, b *models.Blog) (blogView, error) {
	vs, err := h.views(ctx, []models.Blog{*b})
	if err != nil {
		return blogView{}, err
	}
	return vs[0], nil
}
