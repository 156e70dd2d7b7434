// internal/app/features/notices/edit.go
package notices

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/collegesite/internal/app/store/audit"
	"github.com/dalemusser/collegesite/internal/app/system/apierr"
	"github.com/dalemusser/collegesite/internal/app/system/assets"
	"github.com/dalemusser/collegesite/internal/app/system/auth"
	"github.com/dalemusser/collegesite/internal/app/system/formdecode"
	"github.com/dalemusser/collegesite/internal/app/system/htmlsanitize"
	"github.com/dalemusser/collegesite/internal/app/system/inputval"
	"github.com/dalemusser/collegesite/internal/app/system/respond"
	"github.com/dalemusser/collegesite/internal/app/system/timeouts"
	"github.com/dalemusser/collegesite/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

type noticeInput struct {
	Title   string `validate:"required,max=200" label:"Title"`
	Content string `validate:"required" label:"Content"`
}

// decode overlays the fields present in vals onto n and validates the
// result.
func decode(n *models.Notice, vals *formdecode.Values) error {
	if vals.Has("title") {
		n.Title = vals.String("title")
	}
	if vals.Has("content") {
		n.Content = htmlsanitize.Content(vals.String("content"))
	}

	var errs inputval.Errors
	collect := func(err error) {
		var fe inputval.Errors
		if errors.As(err, &fe) {
			errs = append(errs, fe...)
		}
	}

	hl, err := vals.Bool("isHighlight")
	collect(err)
	if hl != nil {
		n.IsHighlight = *hl
	}
	active, err := vals.Bool("isActive")
	collect(err)
	if active != nil {
		n.IsActive = *active
	}
	prio, err := vals.Int("priority")
	collect(err)
	if prio != nil {
		n.Priority = *prio
	}
	if vals.Has("expiresAt") {
		exp, err := vals.Time("expiresAt")
		collect(err)
		n.ExpiresAt = exp
	}

	if res := inputval.Validate(noticeInput{Title: n.Title, Content: n.Content}); res.HasErrors() {
		errs = append(errs, res.Errors...)
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (h *Handler) imageOptions() assets.Options {
	return assets.NoticesFolder.WithFit(h.Uploads.MaxWidth, h.Uploads.MaxHeight)
}

// Create serves POST /api/notices.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.CurrentUser(r)

	vals, err := formdecode.Parse(r, formdecode.DefaultMaxMemory)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	author := p.ID
	n := models.Notice{IsActive: true, AuthorID: &author}
	if err := decode(&n, vals); err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	file, err := vals.File("image", h.Uploads.FileCap())
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	batch := assets.NewBatch(h.Assets, h.Orphans, h.Log)
	if file != nil {
		s, err := batch.Store(ctx, *file, h.imageOptions())
		if err != nil {
			apierr.Write(w, r, h.Log, err)
			return
		}
		ref := s.Ref()
		n.Image = &ref
	}

	created, err := h.Store.Create(ctx, n)
	if err != nil {
		batch.Rollback(ctx, "notice create failed")
		apierr.Write(w, r, h.Log, err)
		return
	}
	h.Audit.ContentChanged(ctx, r, p.ID, audit.EventNoticeCreated, created.ID, nil)

	v, err := h.view(ctx, &created)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	respond.Created(w, "", v)
}

// Update serves PUT /api/notices/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.CurrentUser(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	n, err := h.load(ctx, chi.URLParam(r, "id"))
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	vals, err := formdecode.Parse(r, formdecode.DefaultMaxMemory)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	if err := decode(n, vals); err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	file, err := vals.File("image", h.Uploads.FileCap())
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}

	if file != nil {
		_, err = assets.Replace(ctx, h.Assets, h.Orphans, h.Log, n.Image, *file, h.imageOptions(),
			func(ctx context.Context, ref models.AssetRef) error {
				n.Image = &ref
				return h.Store.Save(ctx, n)
			})
	} else {
		err = h.Store.Save(ctx, n)
	}
	if err != nil {
		apierr.Write(w, r, h.Log, apierr.Missing(err, "Notice not found"))
		return
	}
	h.Audit.ContentChanged(ctx, r, p.ID, audit.EventNoticeUpdated, n.ID, nil)

	v, err := h.view(ctx, n)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	respond.OK(w, v)
}

// Delete serves DELETE /api/notices/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.CurrentUser(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	n, err := h.load(ctx, chi.URLParam(r, "id"))
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	assets.Discard(ctx, h.Assets, h.Orphans, h.Log, n.Image, "notice deleted")

	if err := h.Store.Delete(ctx, n.ID); err != nil {
		apierr.Write(w, r, h.Log, apierr.Missing(err, "Notice not found"))
		return
	}
	h.Audit.ContentChanged(ctx, r, p.ID, audit.EventNoticeDeleted, n.ID, nil)
	respond.Message(w, "Notice deleted successfully", nil)
}
