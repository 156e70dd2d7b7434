package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BlogCategories lists the accepted blog categories.
var BlogCategories = []string{"news", "events", "academic", "sports", "achievements", "general"}

const DefaultBlogCategory = "general"

type Blog struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title         string             `bson:"title" json:"title"`
	Slug          string             `bson:"slug" json:"slug"`
	Excerpt       string             `bson:"excerpt" json:"excerpt"`
	Content       string             `bson:"content" json:"content"`
	FeaturedImage *AssetRef          `bson:"featured_image,omitempty" json:"featuredImage,omitempty"`
	AuthorID      primitive.ObjectID `bson:"author_id" json:"-"`
	Category      string             `bson:"category" json:"category"`
	Tags          []string           `bson:"tags" json:"tags"`
	IsPublished   bool               `bson:"is_published" json:"isPublished"`
	PublishedAt   *time.Time         `bson:"published_at,omitempty" json:"publishedAt,omitempty"`
	Views         int64              `bson:"views" json:"views"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}
