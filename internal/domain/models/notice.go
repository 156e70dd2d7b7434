package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Notice struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title       string              `bson:"title" json:"title"`
	Content     string              `bson:"content" json:"content"`
	Image       *AssetRef           `bson:"image,omitempty" json:"image,omitempty"`
	IsHighlight bool                `bson:"is_highlight" json:"isHighlight"`
	IsActive    bool                `bson:"is_active" json:"isActive"`
	Priority    int                 `bson:"priority" json:"priority"` // higher sorts first
	ExpiresAt   *time.Time          `bson:"expires_at,omitempty" json:"expiresAt,omitempty"`
	AuthorID    *primitive.ObjectID `bson:"author_id,omitempty" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// Expired reports whether the notice has an expiry at or before now.
func (n Notice) Expired(now time.Time) bool {
	return n.ExpiresAt != nil && !n.ExpiresAt.After(now)
}
