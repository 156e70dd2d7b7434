// internal/app/features/blogs/list.go
package blogs

import (
	"context"
	"net/http"

	blogstore "github.com/dalemusser/collegesite/internal/app/store/blogs"
	"github.com/dalemusser/collegesite/internal/app/system/apierr"
	"github.com/dalemusser/collegesite/internal/app/system/normalize"
	"github.com/dalemusser/collegesite/internal/app/system/paging"
	"github.com/dalemusser/collegesite/internal/app/system/respond"
	"github.com/dalemusser/collegesite/internal/app/system/timeouts"
	"github.com/dalemusser/collegesite/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// List serves GET /api/blogs: published posts, newest first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	p := paging.Parse(r, paging.DefaultLimit)
	f := blogstore.ListFilter{
		PublishedOnly: true,
		Category:      normalize.QueryParam(query.Get(r, "category")),
		Search:        normalize.QueryParam(query.Get(r, "search")),
	}
	h.list(w, r, f, p)
}

// AdminList serves GET /api/blogs/admin: every post including drafts.
func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, blogstore.ListFilter{}, paging.Parse(r, paging.DefaultLimit))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, f blogstore.ListFilter, p paging.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	posts, total, err := h.Store.List(ctx, f, p)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	views, err := h.views(ctx, posts)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	respond.List(w, views, total, p)
}

// Detail serves GET /api/blogs/detail/{slug}. Each call counts one view.
func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	b, err := h.Store.ViewPublished(ctx, chi.URLParam(r, "slug"))
	if err != nil {
		apierr.Write(w, r, h.Log, apierr.Missing(err, "Blog not found"))
		return
	}
	v, err := h.view(ctx, b)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	respond.OK(w, v)
}

// AdminGet serves GET /api/blogs/admin/{id}.
func (h *Handler) AdminGet(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	b, err := h.load(ctx, chi.URLParam(r, "id"))
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	v, err := h.view(ctx, b)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	respond.OK(w, v)
}

func (h *Handler) load(ctx context.Context, hexID string) (*models.Blog, error) {
	id, err := primitive.ObjectIDFromHex(hexID)
	if err != nil {
		return nil, apierr.Missing(err, "Blog not found")
	}
	b, err := h.Store.GetByID(ctx, id)
	if err != nil {
		return nil, apierr.Missing(err, "Blog not found")
	}
	return b, nil
}
