package mediastore

import (
	"context"
	"time"

	"github.com/dalemusser/collegesite/internal/app/system/paging"
	"github.com/dalemusser/collegesite/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("media")}
}

// List returns media newest first, optionally restricted to one type.
func (s *Store) List(ctx context.Context, typ models.MediaType, p paging.Params) ([]models.Media, int64, error) {
	filter := bson.M{}
	if typ != "" {
		filter["type"] = typ
	}
	return paging.FindPage[models.Media](ctx, s.c, paging.Query{
		Filter: filter,
		Sort:   bson.D{{Key: "created_at", Value: -1}},
	}, p)
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Media, error) {
	var m models.Media
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *Store) Create(ctx context.Context, m models.Media) (models.Media, error) {
	now := time.Now().UTC()
	m.ID = primitive.NewObjectID()
	m.CreatedAt = now
	m.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, m); err != nil {
		return models.Media{}, err
	}
	return m, nil
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
