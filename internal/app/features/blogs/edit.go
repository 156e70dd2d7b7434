// internal/app/features/blogs/edit.go
package blogs

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dalemusser/collegesite/internal/app/store/audit"
	"github.com/dalemusser/collegesite/internal/app/system/apierr"
	"github.com/dalemusser/collegesite/internal/app/system/assets"
	"github.com/dalemusser/collegesite/internal/app/system/auth"
	"github.com/dalemusser/collegesite/internal/app/system/formdecode"
	"github.com/dalemusser/collegesite/internal/app/system/htmlsanitize"
	"github.com/dalemusser/collegesite/internal/app/system/inputval"
	"github.com/dalemusser/collegesite/internal/app/system/normalize"
	"github.com/dalemusser/collegesite/internal/app/system/respond"
	"github.com/dalemusser/collegesite/internal/app/system/slug"
	"github.com/dalemusser/collegesite/internal/app/system/timeouts"
	"github.com/dalemusser/collegesite/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// blogInput is the validated shape of a post after merging a request onto
// the stored record (or onto defaults for a new post).
type blogInput struct {
	Title       string   `validate:"required,max=200" label:"Title"`
	Excerpt     string   `validate:"required,max=500" label:"Excerpt"`
	Content     string   `validate:"required" label:"Content"`
	Category    string   `validate:"required,oneof=news events academic sports achievements general" label:"Category"`
	Tags        []string `label:"Tags"`
	IsPublished bool
}

func inputFrom(b *models.Blog) blogInput {
	return blogInput{
		Title:       b.Title,
		Excerpt:     b.Excerpt,
		Content:     b.Content,
		Category:    b.Category,
		Tags:        b.Tags,
		IsPublished: b.IsPublished,
	}
}

// merge overlays the fields present in vals onto in.
func merge(in blogInput, vals *formdecode.Values) (blogInput, error) {
	if vals.Has("title") {
		in.Title = vals.String("title")
	}
	if vals.Has("excerpt") {
		in.Excerpt = vals.String("excerpt")
	}
	if vals.Has("content") {
		in.Content = htmlsanitize.Content(vals.String("content"))
	}
	if vals.Has("category") {
		in.Category = strings.ToLower(vals.String("category"))
		if in.Category == "" {
			in.Category = models.DefaultBlogCategory
		}
	}
	if vals.Has("tags") {
		in.Tags = normalize.Tags(vals.Strings("tags")...)
	}
	pub, err := vals.Bool("isPublished")
	if err != nil {
		return in, err
	}
	if pub != nil {
		in.IsPublished = *pub
	}
	if res := inputval.Validate(in); res.HasErrors() {
		return in, res.Err()
	}
	return in, nil
}

// apply copies in onto b. The slug follows the title only when the title
// changed; publishedAt is stamped once, on first publish.
func apply(b *models.Blog, in blogInput, now time.Time) {
	if b.Slug == "" || in.Title != b.Title {
		b.Slug = slug.Make(in.Title)
	}
	b.Title = in.Title
	b.Excerpt = in.Excerpt
	b.Content = in.Content
	b.Category = in.Category
	b.Tags = in.Tags
	if b.Tags == nil {
		b.Tags = []string{}
	}
	b.IsPublished = in.IsPublished
	if b.IsPublished && b.PublishedAt == nil {
		b.PublishedAt = &now
	}
}

// Create serves POST /api/blogs.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.CurrentUser(r)

	vals, err := formdecode.Parse(r, formdecode.DefaultMaxMemory)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	in, err := merge(blogInput{Category: models.DefaultBlogCategory}, vals)
	if err != nil {
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

	b := models.Blog{AuthorID: p.ID}
	apply(&b, in, time.Now().UTC())

	batch := assets.NewBatch(h.Assets, h.Orphans, h.Log)
	if file != nil {
		s, err := batch.Store(ctx, *file, h.imageOptions())
		if err != nil {
			apierr.Write(w, r, h.Log, err)
			return
		}
		ref := s.Ref()
		b.FeaturedImage = &ref
	}

	created, err := h.Store.Create(ctx, b)
	if err != nil {
		batch.Rollback(ctx, "blog create failed")
		apierr.Write(w, r, h.Log, err)
		return
	}

	h.Audit.ContentChanged(ctx, r, p.ID, audit.EventBlogCreated, created.ID, map[string]string{"slug": created.Slug})

	v, err := h.view(ctx, &created)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	respond.Created(w, "", v)
}

// Update serves PUT /api/blogs/{id}. Only the fields sent are changed. A new
// featuredImage replaces the old one after the record is saved.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.CurrentUser(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	b, err := h.load(ctx, chi.URLParam(r, "id"))
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}

	vals, err := formdecode.Parse(r, formdecode.DefaultMaxMemory)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	in, err := merge(inputFrom(b), vals)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	file, err := vals.File("featuredImage", h.Uploads.FileCap())
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}

	oldSlug := b.Slug
	apply(b, in, time.Now().UTC())

	if file != nil {
		old := b.FeaturedImage
		_, err = assets.Replace(ctx, h.Assets, h.Orphans, h.Log, old, *file, h.imageOptions(),
			func(ctx context.Context, ref models.AssetRef) error {
				b.FeaturedImage = &ref
				return h.Store.Save(ctx, b)
			})
	} else {
		err = h.Store.Save(ctx, b)
	}
	if err != nil {
		apierr.Write(w, r, h.Log, apierr.Missing(err, "Blog not found"))
		return
	}

	details := map[string]string{"slug": b.Slug}
	if oldSlug != b.Slug {
		details["previous_slug"] = oldSlug
	}
	h.Audit.ContentChanged(ctx, r, p.ID, audit.EventBlogUpdated, b.ID, details)

	v, err := h.view(ctx, b)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	respond.OK(w, v)
}

// Delete serves DELETE /api/blogs/{id}. The image is deleted best-effort;
// the record is removed even if that fails.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.CurrentUser(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	b, err := h.load(ctx, chi.URLParam(r, "id"))
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}

	assets.Discard(ctx, h.Assets, h.Orphans, h.Log, b.FeaturedImage, "blog deleted")

	if err := h.Store.Delete(ctx, b.ID); err != nil {
		apierr.Write(w, r, h.Log, apierr.Missing(err, "Blog not found"))
		return
	}
	h.Audit.ContentChanged(ctx, r, p.ID, audit.EventBlogDeleted, b.ID, map[string]string{"slug": b.Slug})
	respond.Message(w, "Blog deleted successfully", nil)
}
