package admissionstore

import (
	"context"
	"time"

	"github.com/dalemusser/collegesite/internal/app/system/paging"
	"github.com/dalemusser/collegesite/internal/app/system/search"
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
	return &Store{c: db.Collection("admissions")}
}

// Create inserts a pending application stamped with submitted_at.
func (s *Store) Create(ctx context.Context, a models.Admission) (models.Admission, error) {
	now := time.Now().UTC()
	a.ID = primitive.NewObjectID()
	a.Status = models.AdmissionPending
	a.SubmittedAt = now
	a.ReviewedAt = nil
	a.ReviewedBy = nil
	a.CreatedAt = now
	a.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, a); err != nil {
		return models.Admission{}, err
	}
	return a, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Admission, error) {
	var a models.Admission
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		return nil, err
	}
	return &a, nil
}

// ListFilter narrows List.
type ListFilter struct {
	Status models.AdmissionStatus
	Search string // case-insensitive substring of full name or email
}

// List returns applications newest first without their documents.
func (s *Store) List(ctx context.Context, f ListFilter, p paging.Params) ([]models.Admission, int64, error) {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if or := search.AnyField(f.Search, "full_name", "email"); or != nil {
		filter["$or"] = or
	}
	return paging.FindPage[models.Admission](ctx, s.c, paging.Query{
		Filter:     filter,
		Sort:       bson.D{{Key: "submitted_at", Value: -1}, {Key: "_id", Value: -1}},
		Projection: bson.M{"documents": 0},
	}, p)
}

// Review sets status and remarks and stamps the reviewer. Every call
// re-stamps reviewed_at. Returns the updated record.
func (s *Store) Review(ctx context.Context, id primitive.ObjectID, status models.AdmissionStatus, remarks *string, reviewer primitive.ObjectID) (*models.Admission, error) {
	now := time.Now().UTC()
	set := bson.M{
		"status":      status,
		"reviewed_at": now,
		"reviewed_by": reviewer,
		"updated_at":  now,
	}
	if remarks != nil {
		set["remarks"] = *remarks
	}
	var a models.Admission
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&a)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Delete removes the application and returns it, so the caller can clean
// up its documents.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (*models.Admission, error) {
	var a models.Admission
	if err := s.c.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		return nil, err
	}
	return &a, nil
}

// Bucket is one $group result.
type Bucket struct {
	ID    string `bson:"_id" json:"_id"`
	Count int64  `bson:"count" json:"count"`
}

// Stats summarizes applications by status and shift.
type Stats struct {
	Total    int64    `json:"total"`
	ByStatus []Bucket `json:"byStatus"`
	ByShift  []Bucket `json:"byShift"`
}

func (s *Store) Stats(ctx context.Context) (Stats, error) {
	group := func(field string) bson.A {
		return bson.A{
			bson.M{"$group": bson.M{"_id": "$" + field, "count": bson.M{"$sum": 1}}},
			bson.M{"$sort": bson.M{"_id": 1}},
		}
	}
	pipeline := mongo.Pipeline{
		{{Key: "$facet", Value: bson.M{
			"total":    bson.A{bson.M{"$count": "n"}},
			"byStatus": group("status"),
			"byShift":  group("shift"),
		}}},
	}

	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return Stats{}, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		Total    []struct{ N int64 `bson:"n"` } `bson:"total"`
		ByStatus []Bucket                       `bson:"byStatus"`
		ByShift  []Bucket                       `bson:"byShift"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return Stats{}, err
	}

	out := Stats{ByStatus: []Bucket{}, ByShift: []Bucket{}}
	if len(rows) == 0 {
		return out, nil
	}
	r := rows[0]
	if len(r.Total) > 0 {
		out.Total = r.Total[0].N
	}
	if r.ByStatus != nil {
		out.ByStatus = r.ByStatus
	}
	if r.ByShift != nil {
		out.ByShift = r.ByShift
	}
	return out, nil
}
