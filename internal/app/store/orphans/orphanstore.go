// internal/app/store/orphans/orphanstore.go
package orphanstore

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/collegesite/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	// MaxAttempts is the number of failed deletes before an orphan is
	// parked with gave_up=true.
	MaxAttempts = 10
	baseBackoff = time.Minute
	maxBackoff  = 24 * time.Hour
)

// Orphan is a delegate object whose inline delete failed.
type Orphan struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ExternalID    string             `bson:"external_id" json:"externalId"`
	URL           string             `bson:"url,omitempty" json:"url,omitempty"`
	ResourceType  string             `bson:"resource_type,omitempty" json:"resourceType,omitempty"`
	Reason        string             `bson:"reason" json:"reason"`
	Attempts      int                `bson:"attempts" json:"attempts"`
	LastError     string             `bson:"last_error,omitempty" json:"lastError,omitempty"`
	NextAttemptAt time.Time          `bson:"next_attempt_at" json:"nextAttemptAt"`
	GaveUp        bool               `bson:"gave_up" json:"gaveUp"`
	CreatedAt     time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updatedAt"`
}

type Store struct {
	c   *mongo.Collection
	now func() time.Time
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("orphaned_assets"), now: time.Now}
}

// Backoff returns the delay before retry number attempts+1.
func Backoff(attempts int) time.Duration {
	if attempts < 1 {
		return baseBackoff
	}
	d := baseBackoff
	for i := 1; i < attempts; i++ {
		d *= 2
		if d >= maxBackoff {
			return maxBackoff
		}
	}
	return d
}

// Record upserts an orphan keyed by external id. Recording the same object
// again resets it to due-now without losing its attempt count.
func (s *Store) Record(ctx context.Context, ref models.AssetRef, reason string, cause error) error {
	now := s.now().UTC()
	lastErr := ""
	if cause != nil {
		lastErr = cause.Error()
	}
	_, err := s.c.UpdateOne(ctx,
		bson.M{"external_id": ref.ExternalID},
		bson.M{
			"$set": bson.M{
				"url":             ref.URL,
				"resource_type":   ref.ResourceType,
				"reason":          reason,
				"last_error":      lastErr,
				"next_attempt_at": now,
				"gave_up":         false,
				"updated_at":      now,
			},
			"$setOnInsert": bson.M{
				"_id":        primitive.NewObjectID(),
				"attempts":   0,
				"created_at": now,
			},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("record orphan %s: %w", ref.ExternalID, err)
	}
	return nil
}

// Due returns up to limit orphans whose next attempt is at or before now.
func (s *Store) Due(ctx context.Context, now time.Time, limit int64) ([]Orphan, error) {
	cur, err := s.c.Find(ctx,
		bson.M{"gave_up": false, "next_attempt_at": bson.M{"$lte": now}},
		options.Find().SetSort(bson.D{{Key: "next_attempt_at", Value: 1}}).SetLimit(limit),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []Orphan
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MarkFailed increments the attempt count and schedules the next retry, or
// parks the orphan once MaxAttempts is reached. Reports whether it gave up.
func (s *Store) MarkFailed(ctx context.Context, o Orphan, cause error) (bool, error) {
	now := s.now().UTC()
	attempts := o.Attempts + 1
	gaveUp := attempts >= MaxAttempts
	set := bson.M{
		"attempts":        attempts,
		"last_error":      cause.Error(),
		"next_attempt_at": now.Add(Backoff(attempts)),
		"gave_up":         gaveUp,
		"updated_at":      now,
	}
	if _, err := s.c.UpdateByID(ctx, o.ID, bson.M{"$set": set}); err != nil {
		return false, err
	}
	return gaveUp, nil
}

// Remove deletes the orphan after a successful retry.
func (s *Store) Remove(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

// Get returns the orphan for externalID.
func (s *Store) Get(ctx context.Context, externalID string) (Orphan, error) {
	var o Orphan
	err := s.c.FindOne(ctx, bson.M{"external_id": externalID}).Decode(&o)
	return o, err
}

// CountPending counts orphans still being retried.
func (s *Store) CountPending(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"gave_up": false})
}
