// internal/app/features/pages/view.go
package pages

import (
	"context"
	"net/http"

	"github.com/dalemusser/collegesite/internal/app/system/apierr"
	"github.com/dalemusser/collegesite/internal/app/system/paging"
	"github.com/dalemusser/collegesite/internal/app/system/respond"
	"github.com/dalemusser/collegesite/internal/app/system/timeouts"
	"github.com/dalemusser/collegesite/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// List serves GET /api/pages: published page summaries in menu order.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p := paging.Parse(r, paging.PageListLimit)
	ps, total, err := h.Store.ListPublished(ctx, p)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	respond.List(w, ps, total, p)
}

// Detail serves GET /api/pages/detail/{slug}.
func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	pg, err := h.Store.GetPublishedBySlug(ctx, chi.URLParam(r, "slug"))
	if err != nil {
		apierr.Write(w, r, h.Log, apierr.Missing(err, "Page not found"))
		return
	}
	respond.OK(w, pg)
}

// AdminList serves GET /api/pages/admin: every page with its author.
func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	ps, err := h.Store.ListAll(ctx)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	views, err := h.views(ctx, ps)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	respond.Items(w, views)
}

// AdminGet serves GET /api/pages/admin/{id}.
func (h *Handler) AdminGet(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	pg, err := h.load(ctx, chi.URLParam(r, "id"))
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	v, err := h.view(ctx, pg)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	respond.OK(w, v)
}

func (h *Handler) load(ctx context.Context, hexID string) (*models.Page, error) {
	id, err := primitive.ObjectIDFromHex(hexID)
	if err != nil {
		return nil, apierr.Missing(err, "Page not found")
	}
	pg, err := h.Store.GetByID(ctx, id)
	if err != nil {
		return nil, apierr.Missing(err, "Page not found")
	}
	return pg, nil
}
