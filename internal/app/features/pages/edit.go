// internal/app/features/pages/edit.go
package pages

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
	"github.com/dalemusser/collegesite/internal/app/system/slug"
	"github.com/dalemusser/collegesite/internal/app/system/timeouts"
	"github.com/dalemusser/collegesite/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

type pageInput struct {
	Title           string `validate:"required,max=200" label:"Title"`
	Content         string `validate:"required" label:"Content"`
	MetaTitle       string `validate:"max=60" label:"Meta title"`
	MetaDescription string `validate:"max=160" label:"Meta description"`
}

// decode overlays the fields present in vals onto pg. A changed title
// regenerates the slug.
func decode(pg *models.Page, vals *formdecode.Values) error {
	if vals.Has("title") {
		title := vals.String("title")
		if pg.Slug == "" || title != pg.Title {
			pg.Slug = slug.Make(title)
		}
		pg.Title = title
	}
	if vals.Has("content") {
		pg.Content = htmlsanitize.Content(vals.String("content"))
	}
	if vals.Has("metaTitle") {
		pg.MetaTitle = vals.String("metaTitle")
	}
	if vals.Has("metaDescription") {
		pg.MetaDescription = vals.String("metaDescription")
	}

	var errs inputval.Errors
	collect := func(err error) {
		var fe inputval.Errors
		if errors.As(err, &fe) {
			errs = append(errs, fe...)
		}
	}
	pub, err := vals.Bool("isPublished")
	collect(err)
	if pub != nil {
		pg.IsPublished = *pub
	}
	order, err := vals.Int("order")
	collect(err)
	if order != nil {
		pg.Order = *order
	}

	res := inputval.Validate(pageInput{
		Title:           pg.Title,
		Content:         pg.Content,
		MetaTitle:       pg.MetaTitle,
		MetaDescription: pg.MetaDescription,
	})
	errs = append(errs, res.Errors...)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func (h *Handler) imageOptions() assets.Options {
	return assets.PagesFolder.WithFit(h.Uploads.MaxWidth, h.Uploads.MaxHeight)
}

// Create serves POST /api/pages.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.CurrentUser(r)

	vals, err := formdecode.Parse(r, formdecode.DefaultMaxMemory)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	author := p.ID
	pg := models.Page{AuthorID: &author}
	if err := decode(&pg, vals); err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	file, err := vals.File("featuredImage", h.Uploads.FileCap())
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
		pg.FeaturedImage = &ref
	}

	created, err := h.Store.Create(ctx, pg)
	if err != nil {
		batch.Rollback(ctx, "page create failed")
		apierr.Write(w, r, h.Log, err)
		return
	}
	h.Audit.ContentChanged(ctx, r, p.ID, audit.EventPageCreated, created.ID, map[string]string{"slug": created.Slug})

	v, err := h.view(ctx, &created)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	respond.Created(w, "", v)
}

// Update serves PUT /api/pages/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.CurrentUser(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	pg, err := h.load(ctx, chi.URLParam(r, "id"))
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	vals, err := formdecode.Parse(r, formdecode.DefaultMaxMemory)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	if err := decode(pg, vals); err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	file, err := vals.File("featuredImage", h.Uploads.FileCap())
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}

	if file != nil {
		_, err = assets.Replace(ctx, h.Assets, h.Orphans, h.Log, pg.FeaturedImage, *file, h.imageOptions(),
			func(ctx context.Context, ref models.AssetRef) error {
				pg.FeaturedImage = &ref
				return h.Store.Save(ctx, pg)
			})
	} else {
		err = h.Store.Save(ctx, pg)
	}
	if err != nil {
		apierr.Write(w, r, h.Log, apierr.Missing(err, "Page not found"))
		return
	}
	h.Audit.ContentChanged(ctx, r, p.ID, audit.EventPageUpdated, pg.ID, map[string]string{"slug": pg.Slug})

	v, err := h.view(ctx, pg)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	respond.OK(w, v)
}

// Delete serves DELETE /api/pages/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.CurrentUser(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	pg, err := h.load(ctx, chi.URLParam(r, "id"))
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	assets.Discard(ctx, h.Assets, h.Orphans, h.Log, pg.FeaturedImage, "page deleted")

	if err := h.Store.Delete(ctx, pg.ID); err != nil {
		apierr.Write(w, r, h.Log, apierr.Missing(err, "Page not found"))
		return
	}
	h.Audit.ContentChanged(ctx, r, p.ID, audit.EventPageDeleted, pg.ID, map[string]string{"slug": pg.Slug})
	respond.Message(w, "Page deleted successfully", nil)
}
