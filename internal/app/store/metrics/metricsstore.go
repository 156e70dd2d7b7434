package metricsstore

import (
	"context"

	"github.com/dalemusser/collegesite/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// AdmissionCounts totals applications by status.
type AdmissionCounts struct {
	Total       int64 `json:"total"`
	Pending     int64 `json:"pending"`
	UnderReview int64 `json:"underReview"`
	Approved    int64 `json:"approved"`
	Rejected    int64 `json:"rejected"`
}

// Counts is the set of totals shown on the admin dashboard.
type Counts struct {
	Blogs          int64           `json:"blogs"`
	PublishedBlogs int64           `json:"publishedBlogs"`
	Notices        int64           `json:"notices"`
	ActiveNotices  int64           `json:"activeNotices"`
	Pages          int64           `json:"pages"`
	Media          int64           `json:"media"`
	Admissions     AdmissionCounts `json:"admissions"`
}

// FetchDashboardCounts returns the high-level counts used by the dashboard.
// Intentionally tolerant: on error it returns 0 for that counter.
func FetchDashboardCounts(ctx context.Context, db *mongo.Database) Counts {
	var out Counts

	count := func(coll string, filter bson.M, dst *int64) {
		if n, err := db.Collection(coll).CountDocuments(ctx, filter); err == nil {
			*dst = n
		}
	}

	count("blogs", bson.M{}, &out.Blogs)
	count("blogs", bson.M{"is_published": true}, &out.PublishedBlogs)
	count("notices", bson.M{}, &out.Notices)
	count("notices", bson.M{"is_active": true}, &out.ActiveNotices)
	count("pages", bson.M{}, &out.Pages)
	count("media", bson.M{}, &out.Media)

	count("admissions", bson.M{}, &out.Admissions.Total)
	count("admissions", bson.M{"status": models.AdmissionPending}, &out.Admissions.Pending)
	count("admissions", bson.M{"status": models.AdmissionUnderReview}, &out.Admissions.UnderReview)
	count("admissions", bson.M{"status": models.AdmissionApproved}, &out.Admissions.Approved)
	count("admissions", bson.M{"status": models.AdmissionRejected}, &out.Admissions.Rejected)

	return out
}
