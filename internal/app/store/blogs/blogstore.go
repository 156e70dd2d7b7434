package blogstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dalemusser/collegesite/internal/app/system/paging"
	"github.com/dalemusser/collegesite/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicateSlug is returned when another post already uses the slug.
var ErrDuplicateSlug = errors.New("a blog post with this slug already exists")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("blogs")}
}

// ListFilter narrows List.
type ListFilter struct {
	PublishedOnly bool
	Category      string
	Search        string // $text search over title, content and tags
}

func (f ListFilter) bson() bson.M {
	q := bson.M{}
	if f.PublishedOnly {
		q["is_published"] = true
	}
	if f.Category != "" {
		q["category"] = f.Category
	}
	if f.Search != "" {
		q["$text"] = bson.M{"$search": f.Search}
	}
	return q
}

// List returns a page of posts. Published listings sort by published_at
// desc; otherwise by created_at desc.
func (s *Store) List(ctx context.Context, f ListFilter, p paging.Params) ([]models.Blog, int64, error) {
	sort := bson.D{{Key: "created_at", Value: -1}}
	if f.PublishedOnly {
		sort = bson.D{{Key: "published_at", Value: -1}, {Key: "_id", Value: -1}}
	}
	return paging.FindPage[models.Blog](ctx, s.c, paging.Query{Filter: f.bson(), Sort: sort}, p)
}

// GetByID loads any post. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Blog, error) {
	var b models.Blog
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&b); err != nil {
		return nil, err
	}
	return &b, nil
}

// ViewPublished returns the published post with slug after atomically
// incrementing its view counter.
func (s *Store) ViewPublished(ctx context.Context, slug string) (*models.Blog, error) {
	var b models.Blog
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"slug": slug, "is_published": true},
		bson.M{"$inc": bson.M{"views": 1}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&b)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Create inserts b with a new id, zero views and fresh timestamps.
func (s *Store) Create(ctx context.Context, b models.Blog) (models.Blog, error) {
	now := time.Now().UTC()
	b.ID = primitive.NewObjectID()
	b.Views = 0
	b.CreatedAt = now
	b.UpdatedAt = now
	if b.Tags == nil {
		b.Tags = []string{}
	}
	if _, err := s.c.InsertOne(ctx, b); err != nil {
		return models.Blog{}, wrapDup(err)
	}
	return b, nil
}

// Save replaces the stored post with b (matched by id) and bumps
// updated_at. The view counter is left untouched.
func (s *Store) Save(ctx context.Context, b *models.Blog) error {
	b.UpdatedAt = time.Now().UTC()
	set := bson.M{
		"title":          b.Title,
		"slug":           b.Slug,
		"excerpt":        b.Excerpt,
		"content":        b.Content,
		"featured_image": b.FeaturedImage,
		"category":       b.Category,
		"tags":           b.Tags,
		"is_published":   b.IsPublished,
		"published_at":   b.PublishedAt,
		"updated_at":     b.UpdatedAt,
	}
	res, err := s.c.UpdateByID(ctx, b.ID, bson.M{"$set": set})
	if err != nil {
		return wrapDup(err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// Delete removes the post. Returns mongo.ErrNoDocuments if it did not exist.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// SlugEntry is a published slug with its modification time.
type SlugEntry struct {
	Slug      string    `bson:"slug"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// PublishedSlugs lists up to limit published slugs, newest first.
func (s *Store) PublishedSlugs(ctx context.Context, limit int64) ([]SlugEntry, error) {
	cur, err := s.c.Find(ctx, bson.M{"is_published": true},
		options.Find().
			SetProjection(bson.M{"slug": 1, "updated_at": 1}).
			SetSort(bson.D{{Key: "published_at", Value: -1}}).
			SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []SlugEntry
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func wrapDup(err error) error {
	if wafflemongo.IsDup(err) || mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %w", ErrDuplicateSlug, err)
	}
	return err
}
