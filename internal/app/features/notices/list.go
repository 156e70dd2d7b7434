// internal/app/features/notices/list.go
package notices

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

// List serves GET /api/notices: active, unexpired notices by priority.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p := paging.Parse(r, paging.NoticeLimit)
	ns, total, err := h.Store.ListVisible(ctx, h.now(), p)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	h.writeList(ctx, w, r, ns, total, p)
}

// Highlights serves GET /api/notices/highlights.
func (h *Handler) Highlights(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	ns, err := h.Store.Highlights(ctx, h.now(), paging.HighlightsLimit)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	views, err := h.views(ctx, ns)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	respond.Items(w, views)
}

// AdminList serves GET /api/notices/admin: every notice, newest first.
func (h *Handler) AdminList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p := paging.Parse(r, paging.NoticeLimit)
	ns, total, err := h.Store.List(ctx, p)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	h.writeList(ctx, w, r, ns, total, p)
}

func (h *Handler) writeList(ctx context.Context, w http.ResponseWriter, r *http.Request, ns []models.Notice, total int64, p paging.Params) {
	views, err := h.views(ctx, ns)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	respond.List(w, views, total, p)
}

// Detail serves GET /api/notices/detail/{id}. Inactive notices are hidden.
func (h *Handler) Detail(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierr.Write(w, r, h.Log, apierr.Missing(err, "Notice not found"))
		return
	}
	n, err := h.Store.GetActive(ctx, id)
	if err != nil {
		apierr.Write(w, r, h.Log, apierr.Missing(err, "Notice not found"))
		return
	}
	v, err := h.view(ctx, n)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	respond.OK(w, v)
}

func (h *Handler) load(ctx context.Context, hexID string) (*models.Notice, error) {
	id, err := primitive.ObjectIDFromHex(hexID)
	if err != nil {
		return nil, apierr.Missing(err, "Notice not found")
	}
	n, err := h.Store.GetByID(ctx, id)
	if err != nil {
		return nil, apierr.Missing(err, "Notice not found")
	}
	return n, nil
}
