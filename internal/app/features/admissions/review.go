// internal/app/features/admissions/review.go
package admissions

import (
	"context"
	"net/http"

	admissionstore "github.com/dalemusser/collegesite/internal/app/store/admissions"
	"github.com/dalemusser/collegesite/internal/app/system/apierr"
	"github.com/dalemusser/collegesite/internal/app/system/assets"
	"github.com/dalemusser/collegesite/internal/app/system/auth"
	"github.com/dalemusser/collegesite/internal/app/system/formdecode"
	"github.com/dalemusser/collegesite/internal/app/system/normalize"
	"github.com/dalemusser/collegesite/internal/app/system/paging"
	"github.com/dalemusser/collegesite/internal/app/system/respond"
	"github.com/dalemusser/collegesite/internal/app/system/timeouts"
	"github.com/dalemusser/collegesite/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const msgNotFound = "Admission not found"

// List serves GET /api/admissions.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	f := admissionstore.ListFilter{Search: normalize.QueryParam(query.Get(r, "search"))}
	if s := normalize.QueryParam(query.Get(r, "status")); s != "" {
		st, ok := models.ParseAdmissionStatus(s)
		if !ok {
			apierr.Write(w, r, h.Log, apierr.Validation("Invalid status"))
			return
		}
		f.Status = st
	}
	p := paging.Parse(r, paging.DefaultLimit)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	items, total, err := h.Store.List(ctx, f, p)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	views, err := h.views(ctx, items)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	respond.List(w, views, total, p)
}

// Get serves GET /api/admissions/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	a, err := h.load(ctx, chi.URLParam(r, "id"))
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	v, err := h.view(ctx, a)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	respond.OK(w, v)
}

// Review serves PUT /api/admissions/{id}/status. Any status may be set at
// any time; each call re-stamps the reviewer and review time.
func (h *Handler) Review(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.CurrentUser(r)

	vals, err := formdecode.Parse(r, formdecode.DefaultMaxMemory)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	status, ok := models.ParseAdmissionStatus(vals.String("status"))
	if !ok {
		apierr.Write(w, r, h.Log, apierr.Validation("Invalid status"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	before, err := h.load(ctx, chi.URLParam(r, "id"))
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	after, err := h.Store.Review(ctx, before.ID, status, vals.OptString("remarks"), p.ID)
	if err != nil {
		apierr.Write(w, r, h.Log, apierr.Missing(err, msgNotFound))
		return
	}
	h.Audit.AdmissionStatusChanged(ctx, r, p.ID, after.ID, string(before.Status), string(after.Status))

	v, err := h.view(ctx, after)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	respond.OK(w, v)
}

// Delete serves DELETE /api/admissions/{id}. Each stored document is deleted
// best-effort; the application is removed regardless.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.CurrentUser(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	a, err := h.load(ctx, chi.URLParam(r, "id"))
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	if a.Documents != nil {
		for _, ref := range a.Documents.Refs() {
			assets.Discard(ctx, h.Assets, h.Orphans, h.Log, &ref, "admission deleted")
		}
	}
	if _, err := h.Store.Delete(ctx, a.ID); err != nil {
		apierr.Write(w, r, h.Log, apierr.Missing(err, msgNotFound))
		return
	}
	h.Audit.AdmissionDeleted(ctx, r, p.ID, a.ID)
	respond.Message(w, "Admission deleted successfully", nil)
}

// Stats serves GET /api/admissions/stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	stats, err := h.Store.Stats(ctx)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	respond.OK(w, stats)
}

func (h *Handler) load(ctx context.Context, hexID string) (*models.Admission, error) {
	id, err := primitive.ObjectIDFromHex(hexID)
	if err != nil {
		return nil, apierr.Missing(err, msgNotFound)
	}
	a, err := h.Store.GetByID(ctx, id)
	if err != nil {
		return nil, apierr.Missing(err, msgNotFound)
	}
	return a, nil
}
