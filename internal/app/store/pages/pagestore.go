package pagestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	blogstore "github.com/dalemusser/collegesite/internal/app/store/blogs"
	"github.com/dalemusser/collegesite/internal/app/system/paging"
	"github.com/dalemusser/collegesite/internal/domain/models"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrDuplicateSlug is returned when another page already uses the slug.
var ErrDuplicateSlug = errors.New("a page with this slug already exists")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("pages")}
}

var (
	orderSort = bson.D{{Key: "order", Value: 1}, {Key: "title", Value: 1}}

	summaryProjection = bson.M{
		"title":            1,
		"slug":             1,
		"meta_title":       1,
		"meta_description": 1,
		"order":            1,
		"featured_image":   1,
		"is_published":     1,
		"created_at":       1,
		"updated_at":       1,
	}
)

// ListPublished returns published pages without content, by order.
func (s *Store) ListPublished(ctx context.Context, p paging.Params) ([]models.Page, int64, error) {
	return paging.FindPage[models.Page](ctx, s.c, paging.Query{
		Filter:     bson.M{"is_published": true},
		Sort:       orderSort,
		Projection: summaryProjection,
	}, p)
}

// ListAll returns every page, by order then title.
func (s *Store) ListAll(ctx context.Context) ([]models.Page, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(orderSort))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Page{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetPublishedBySlug returns mongo.ErrNoDocuments for drafts.
func (s *Store) GetPublishedBySlug(ctx context.Context, slug string) (*models.Page, error) {
	var p models.Page
	if err := s.c.FindOne(ctx, bson.M{"slug": slug, "is_published": true}).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Page, error) {
	var p models.Page
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Store) Create(ctx context.Context, p models.Page) (models.Page, error) {
	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.CreatedAt = now
	p.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, p); err != nil {
		return models.Page{}, wrapDup(err)
	}
	return p, nil
}

// Save writes the mutable fields of p and bumps updated_at.
func (s *Store) Save(ctx context.Context, p *models.Page) error {
	p.UpdatedAt = time.Now().UTC()
	set := bson.M{
		"title":            p.Title,
		"slug":             p.Slug,
		"content":          p.Content,
		"meta_title":       p.MetaTitle,
		"meta_description": p.MetaDescription,
		"featured_image":   p.FeaturedImage,
		"is_published":     p.IsPublished,
		"order":            p.Order,
		"updated_at":       p.UpdatedAt,
	}
	res, err := s.c.UpdateByID(ctx, p.ID, bson.M{"$set": set})
	if err != nil {
		return wrapDup(err)
	}
	if res.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

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

// PublishedSlugs lists published page slugs by order.
func (s *Store) PublishedSlugs(ctx context.Context, limit int64) ([]blogstore.SlugEntry, error) {
	cur, err := s.c.Find(ctx, bson.M{"is_published": true},
		options.Find().
			SetProjection(bson.M{"slug": 1, "updated_at": 1}).
			SetSort(orderSort).
			SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []blogstore.SlugEntry
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
