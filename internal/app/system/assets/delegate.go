// Package assets is the boundary to the external file host. Handlers hand it
// raw uploads and get back a public URL plus an opaque external id that is
// later used for deletion.
//
// Two adapters ship: Local (files on disk, served under /uploads) and S3 (any
// S3-compatible store through minio-go). Tests use testutil.FakeAssets.
package assets

import (
	"context"
	"fmt"
	"strings"

	"github.com/dalemusser/collegesite/internal/domain/models"
)

// ResourceType is the delegate's storage class for an object.
type ResourceType string

const (
	ResourceImage ResourceType = "image"
	ResourceVideo ResourceType = "video"
	ResourceRaw   ResourceType = "raw"
	// ResourceAuto asks the delegate to classify by MIME type.
	ResourceAuto ResourceType = "auto"
)

// Classify maps a MIME type to a resource type by prefix.
func Classify(mime string) ResourceType {
	switch {
	case strings.HasPrefix(mime, "image/"):
		return ResourceImage
	case strings.HasPrefix(mime, "video/"):
		return ResourceVideo
	}
	return ResourceRaw
}

// Upload is a file received from a client.
type Upload struct {
	Filename string // client-supplied name
	Data     []byte
}

// Options controls where and how an upload is stored.
type Options struct {
	Folder         string
	AllowedFormats []string // lowercase extensions; empty allows anything
	ResourceType   ResourceType
	// MaxWidth/MaxHeight fit raster images within the box, keeping aspect
	// ratio. Zero disables resizing.
	MaxWidth  int
	MaxHeight int
}

// Stored describes an object after the delegate accepted it.
type Stored struct {
	URL          string
	ExternalID   string
	Format       string
	MIME         string
	Bytes        int64
	Width        int
	Height       int
	ResourceType ResourceType
}

// Ref returns the reference persisted on content records.
func (s Stored) Ref() models.AssetRef {
	return models.AssetRef{URL: s.URL, ExternalID: s.ExternalID, ResourceType: string(s.ResourceType)}
}

// Delegate stores and deletes binary objects on an external host.
type Delegate interface {
	Store(ctx context.Context, up Upload, opts Options) (Stored, error)
	Delete(ctx context.Context, externalID string, rt ResourceType) error
}

// FormatError reports an upload whose format is not in Options.AllowedFormats.
type FormatError struct {
	Format string
}

func (e *FormatError) Error() string {
	if e.Format == "" {
		return "File format is not allowed"
	}
	return fmt.Sprintf("File format %s is not allowed", e.Format)
}

// DelegateError wraps a failure from the underlying host.
type DelegateError struct {
	Op  string // "store" or "delete"
	Err error
}

func (e *DelegateError) Error() string { return "asset " + e.Op + ": " + e.Err.Error() }
func (e *DelegateError) Unwrap() error { return e.Err }

// Folder presets used by the content handlers.
var (
	imageFormats = []string{"jpg", "jpeg", "png", "gif", "webp"}

	ImagesFolder     = Options{Folder: "images", AllowedFormats: imageFormats, ResourceType: ResourceImage}
	BlogFolder       = Options{Folder: "blog", AllowedFormats: imageFormats, ResourceType: ResourceImage}
	NoticesFolder    = Options{Folder: "notices", AllowedFormats: imageFormats, ResourceType: ResourceImage}
	PagesFolder      = Options{Folder: "pages", AllowedFormats: imageFormats, ResourceType: ResourceImage}
	VideosFolder     = Options{Folder: "videos", AllowedFormats: []string{"mp4", "webm", "mov", "avi"}, ResourceType: ResourceVideo}
	DocumentsFolder  = Options{Folder: "documents", AllowedFormats: []string{"pdf", "doc", "docx", "xls", "xlsx", "ppt", "pptx", "txt"}, ResourceType: ResourceRaw}
	AdmissionsFolder = Options{Folder: "admissions", AllowedFormats: []string{"jpg", "jpeg", "png", "pdf"}, ResourceType: ResourceAuto}
)

// WithFit returns a copy of o that fits images within w×h.
func (o Options) WithFit(w, h int) Options {
	o.MaxWidth, o.MaxHeight = w, h
	return o
}
