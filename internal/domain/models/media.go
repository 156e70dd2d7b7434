package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MediaType classifies an uploaded file by its MIME prefix.
type MediaType string

const (
	MediaImage    MediaType = "image"
	MediaVideo    MediaType = "video"
	MediaDocument MediaType = "document"
)

// ParseMediaType returns the MediaType for s, or false if unknown.
func ParseMediaType(s string) (MediaType, bool) {
	switch MediaType(s) {
	case MediaImage, MediaVideo, MediaDocument:
		return MediaType(s), true
	}
	return "", false
}

type Media struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Filename     string             `bson:"filename" json:"filename"`
	OriginalName string             `bson:"original_name" json:"originalName"`
	URL          string             `bson:"url" json:"url"`
	ExternalID   string             `bson:"external_id" json:"externalId"`
	Type         MediaType          `bson:"type" json:"type"`
	Format       string             `bson:"format" json:"format"`
	Size         int64              `bson:"size" json:"size"`
	Width        int                `bson:"width,omitempty" json:"width,omitempty"`
	Height       int                `bson:"height,omitempty" json:"height,omitempty"`
	UploadedBy   primitive.ObjectID `bson:"uploaded_by" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
