package metricsstore_test

import (
	"testing"
	"time"

	metricsstore "github.com/dalemusser/collegesite/internal/app/store/metrics"
	"github.com/dalemusser/collegesite/internal/domain/models"
	"github.com/dalemusser/collegesite/internal/testutil"
)

func TestFetchDashboardCounts_Empty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	counts := metricsstore.FetchDashboardCounts(ctx, db)

	if counts != (metricsstore.Counts{}) {
		t.Errorf("expected all zero counts, got %+v", counts)
	}
}

func TestFetchDashboardCounts_WithData(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	admin := fixtures.CreateAdmin(ctx, "Admin", "admin@college.test")
	now := time.Now().UTC()

	fixtures.CreateBlog(ctx, "Orientation Week", "orientation-week", true, admin.ID, now)
	fixtures.CreateBlog(ctx, "Sports Day", "sports-day", true, admin.ID, now)
	fixtures.CreateBlog(ctx, "Draft", "draft", false, admin.ID, now)

	fixtures.CreateNotice(ctx, "Exam Routine", true, false, 0, nil)
	fixtures.CreateNotice(ctx, "Old Notice", false, false, 0, nil)

	fixtures.CreatePage(ctx, "About", "about", true, 1)

	fixtures.CreateAdmission(ctx, "Sita Sharma", "sita@example.com", models.AdmissionPending)
	fixtures.CreateAdmission(ctx, "Ram Thapa", "ram@example.com", models.AdmissionPending)
	fixtures.CreateAdmission(ctx, "Gita Rai", "gita@example.com", models.AdmissionApproved)
	fixtures.CreateAdmission(ctx, "Hari KC", "hari@example.com", models.AdmissionRejected)

	counts := metricsstore.FetchDashboardCounts(ctx, db)

	if counts.Blogs != 3 {
		t.Errorf("Blogs: got %d, want 3", counts.Blogs)
	}
	if counts.PublishedBlogs != 2 {
		t.Errorf("PublishedBlogs: got %d, want 2", counts.PublishedBlogs)
	}
	if counts.Notices != 2 || counts.ActiveNotices != 1 {
		t.Errorf("Notices: got %d/%d active, want 2/1", counts.Notices, counts.ActiveNotices)
	}
	if counts.Pages != 1 {
		t.Errorf("Pages: got %d, want 1", counts.Pages)
	}
	if counts.Media != 0 {
		t.Errorf("Media: got %d, want 0", counts.Media)
	}

	want := metricsstore.AdmissionCounts{Total: 4, Pending: 2, Approved: 1, Rejected: 1}
	if counts.Admissions != want {
		t.Errorf("Admissions: got %+v, want %+v", counts.Admissions, want)
	}
}
