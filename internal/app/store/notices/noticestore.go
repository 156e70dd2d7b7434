package noticestore

import (
	"context"
	"time"

	"github.com/dalemusser/collegesite/internal/app/system/paging"
	"github.com/dalemusser/collegesite/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("notices")}
}

var publicSort = bson.D{{Key: "priority", Value: -1}, {Key: "created_at", Value: -1}}

// visible matches active notices that have not expired at now. A null or
// missing expires_at never expires.
func visible(now time.Time) bson.M {
	return bson.M{
		"is_active": true,
		"$or": bson.A{
			bson.M{"expires_at": nil},
			bson.M{"expires_at": bson.M{"$gt": now}},
		},
	}
}

// ListVisible returns active, unexpired notices by priority then recency.
func (s *Store) ListVisible(ctx context.Context, now time.Time, p paging.Params) ([]models.Notice, int64, error) {
	return paging.FindPage[models.Notice](ctx, s.c, paging.Query{Filter: visible(now), Sort: publicSort}, p)
}

// Highlights returns up to limit visible notices flagged as highlights.
func (s *Store) Highlights(ctx context.Context, now time.Time, limit int64) ([]models.Notice, error) {
	f := visible(now)
	f["is_highlight"] = true
	cur, err := s.c.Find(ctx, f, options.Find().SetSort(publicSort).SetLimit(limit))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Notice{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// List returns every notice, newest first.
func (s *Store) List(ctx context.Context, p paging.Params) ([]models.Notice, int64, error) {
	return paging.FindPage[models.Notice](ctx, s.c, paging.Query{Sort: bson.D{{Key: "created_at", Value: -1}}}, p)
}

// GetByID loads any notice. Returns mongo.ErrNoDocuments if not found.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Notice, error) {
	var n models.Notice
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&n); err != nil {
		return nil, err
	}
	return &n, nil
}

// GetActive loads a notice only if it is active.
func (s *Store) GetActive(ctx context.Context, id primitive.ObjectID) (*models.Notice, error) {
	var n models.Notice
	if err := s.c.FindOne(ctx, bson.M{"_id": id, "is_active": true}).Decode(&n); err != nil {
		return nil, err
	}
	return &n, nil
}

func (s *Store) Create(ctx context.Context, n models.Notice) (models.Notice, error) {
	now := time.Now().UTC()
	n.ID = primitive.NewObjectID()
	n.CreatedAt = now
	n.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, n); err != nil {
		return models.Notice{}, err
	}
	return n, nil
}

// Save writes the mutable fields of n and bumps updated_at.
func (s *Store) Save(ctx context.Context, n *models.Notice) error {
	n.UpdatedAt = time.Now().UTC()
	set := bson.M{
		"title":        n.Title,
		"content":      n.Content,
		"image":        n.Image,
		"is_highlight": n.IsHighlight,
		"is_active":    n.IsActive,
		"priority":     n.Priority,
		"expires_at":   n.ExpiresAt,
		"updated_at":   n.UpdatedAt,
	}
	res, err := s.c.UpdateByID(ctx, n.ID, bson.M{"$set": set})
	if err != nil {
		return err
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
