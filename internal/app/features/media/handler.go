// internal/app/features/media/handler.go
package media

import (
	"context"
	"net/http"
	"path"
	"strings"

	"github.com/dalemusser/collegesite/internal/app/features/shared/authors"
	"github.com/dalemusser/collegesite/internal/app/store/audit"
	"github.com/dalemusser/collegesite/internal/app/system/apierr"
	"github.com/dalemusser/collegesite/internal/app/system/assets"
	"github.com/dalemusser/collegesite/internal/app/system/auditlog"
	"github.com/dalemusser/collegesite/internal/app/system/auth"
	"github.com/dalemusser/collegesite/internal/app/system/formdecode"
	"github.com/dalemusser/collegesite/internal/app/system/limits"
	"github.com/dalemusser/collegesite/internal/app/system/normalize"
	"github.com/dalemusser/collegesite/internal/app/system/paging"
	"github.com/dalemusser/collegesite/internal/app/system/respond"
	"github.com/dalemusser/collegesite/internal/app/system/timeouts"
	"github.com/dalemusser/collegesite/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/gabriel-vasile/mimetype"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Store is the subset of mediastore.Store the handlers use.
type Store interface {
	List(ctx context.Context, typ models.MediaType, p paging.Params) ([]models.Media, int64, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Media, error)
	Create(ctx context.Context, m models.Media) (models.Media, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// Handler owns the media library handlers.
type Handler struct {
	Store   Store
	Users   authors.Lookup
	Assets  assets.Delegate
	Orphans assets.OrphanSink
	Audit   *auditlog.Logger
	Uploads limits.Uploads
	Log     *zap.Logger
}

// NewHandler constructs a media Handler.
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

type mediaView struct {
	models.Media
	UploadedBy *models.UserRef `json:"uploadedBy"`
}

// classify picks the media type and folder preset from the sniffed MIME.
func (h *Handler) classify(data []byte) (models.MediaType, assets.Options) {
	mime := mimetype.Detect(data).String()
	switch {
	case strings.HasPrefix(mime, "image/"):
		return models.MediaImage, assets.ImagesFolder.WithFit(h.Uploads.MaxWidth, h.Uploads.MaxHeight)
	case strings.HasPrefix(mime, "video/"):
		return models.MediaVideo, assets.VideosFolder
	}
	return models.MediaDocument, assets.DocumentsFolder
}

// resourceType maps a media type back to the delegate's storage class.
func resourceType(t models.MediaType) assets.ResourceType {
	switch t {
	case models.MediaImage:
		return assets.ResourceImage
	case models.MediaVideo:
		return assets.ResourceVideo
	}
	return assets.ResourceRaw
}

// Upload serves POST /api/media/upload.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.CurrentUser(r)

	vals, err := formdecode.Parse(r, formdecode.DefaultMaxMemory)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	file, err := vals.File("file", h.Uploads.FileCap())
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	if file == nil {
		apierr.Write(w, r, h.Log, apierr.Validation("Please upload a file"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	typ, opts := h.classify(file.Data)
	batch := assets.NewBatch(h.Assets, h.Orphans, h.Log)
	s, err := batch.Store(ctx, *file, opts)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}

	m, err := h.Store.Create(ctx, models.Media{
		Filename:     path.Base(s.ExternalID),
		OriginalName: file.Filename,
		URL:          s.URL,
		ExternalID:   s.ExternalID,
		Type:         typ,
		Format:       s.Format,
		Size:         s.Bytes,
		Width:        s.Width,
		Height:       s.Height,
		UploadedBy:   p.ID,
	})
	if err != nil {
		batch.Rollback(ctx, "media record insert failed")
		apierr.Write(w, r, h.Log, err)
		return
	}

	h.Audit.ContentChanged(ctx, r, p.ID, audit.EventMediaUploaded, m.ID, map[string]string{
		"type":        string(m.Type),
		"external_id": m.ExternalID,
	})
	respond.Created(w, "", mediaView{Media: m, UploadedBy: &models.UserRef{ID: p.ID, Name: p.Name}})
}

// List serves GET /api/media.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	p := paging.Parse(r, paging.MediaLimit)
	typ := models.MediaType(normalize.QueryParam(query.Get(r, "type")))

	items, total, err := h.Store.List(ctx, typ, p)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}

	ids := make([]primitive.ObjectID, len(items))
	for i := range items {
		ids[i] = items[i].UploadedBy
	}
	names, err := authors.Load(ctx, h.Users, ids...)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	views := make([]mediaView, len(items))
	for i := range items {
		views[i] = mediaView{Media: items[i], UploadedBy: names.Ref(items[i].UploadedBy)}
	}
	respond.List(w, views, total, p)
}

// Delete serves DELETE /api/media/{id}. The hosted file is deleted
// best-effort; the record is always removed.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	p, _ := auth.CurrentUser(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		apierr.Write(w, r, h.Log, apierr.Missing(err, "Media not found"))
		return
	}
	m, err := h.Store.GetByID(ctx, id)
	if err != nil {
		apierr.Write(w, r, h.Log, apierr.Missing(err, "Media not found"))
		return
	}

	ref := models.AssetRef{URL: m.URL, ExternalID: m.ExternalID, ResourceType: string(resourceType(m.Type))}
	assets.Discard(ctx, h.Assets, h.Orphans, h.Log, &ref, "media deleted")

	if err := h.Store.Delete(ctx, m.ID); err != nil {
		apierr.Write(w, r, h.Log, apierr.Missing(err, "Media not found"))
		return
	}
	h.Audit.ContentChanged(ctx, r, p.ID, audit.EventMediaDeleted, m.ID, map[string]string{"external_id": m.ExternalID})
	respond.Message(w, "Media deleted successfully", nil)
}
