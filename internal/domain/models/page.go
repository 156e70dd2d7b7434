package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Page is a static CMS page (About, Programs, ...).
type Page struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title           string              `bson:"title" json:"title"`
	Slug            string              `bson:"slug" json:"slug"`
	Content         string              `bson:"content,omitempty" json:"content,omitempty"`
	MetaTitle       string              `bson:"meta_title,omitempty" json:"metaTitle,omitempty"`
	MetaDescription string              `bson:"meta_description,omitempty" json:"metaDescription,omitempty"`
	FeaturedImage   *AssetRef           `bson:"featured_image,omitempty" json:"featuredImage,omitempty"`
	IsPublished     bool                `bson:"is_published" json:"isPublished"`
	Order           int                 `bson:"order" json:"order"`
	AuthorID        *primitive.ObjectID `bson:"author_id,omitempty" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
