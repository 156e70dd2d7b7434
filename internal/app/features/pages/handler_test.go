package pages_test

import (
	"net/http"
	"testing"

	"github.com/dalemusser/collegesite/internal/app/features/pages"
	pagestore "github.com/dalemusser/collegesite/internal/app/store/pages"
	userstore "github.com/dalemusser/collegesite/internal/app/store/users"
	"github.com/dalemusser/collegesite/internal/app/system/auth"
	"github.com/dalemusser/collegesite/internal/app/system/limits"
	"github.com/dalemusser/collegesite/internal/domain/models"
	"github.com/dalemusser/collegesite/internal/testutil"
	"go.uber.org/zap"
)

func newHandler(t *testing.T) (*pages.Handler, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	h := pages.NewHandler(pagestore.New(db), userstore.New(db), testutil.NewFakeAssets(), &testutil.FakeOrphans{}, nil, limits.Defaults(), zap.NewNop())
	return h, testutil.NewFixtures(t, db)
}

func createPage(t *testing.T, h *pages.Handler, fields map[string]string) models.Page {
	t.Helper()
	req := auth.WithPrincipal(testutil.NewMultipartRequest(t, http.MethodPost, "/api/pages", fields), testutil.AdminPrincipal())
	rec := testutil.NewRecorder()
	h.Create(rec, req)
	rec.AssertStatus(t, http.StatusCreated)
	var pg models.Page
	rec.DecodeData(t, &pg)
	return pg
}

func updatePage(t *testing.T, h *pages.Handler, id string, body map[string]any) models.Page {
	t.Helper()
	req := testutil.NewJSONRequest(t, http.MethodPut, "/api/pages/"+id, body)
	req = testutil.WithChiURLParam(auth.WithPrincipal(req, testutil.EditorPrincipal()), "id", id)
	rec := testutil.NewRecorder()
	h.Update(rec, req)
	rec.AssertStatus(t, http.StatusOK)
	var pg models.Page
	rec.DecodeData(t, &pg)
	return pg
}

func TestCreate_SlugFromTitle(t *testing.T) {
	h, _ := newHandler(t)
	pg := createPage(t, h, map[string]string{
		"title":       "Mission & Vision!!",
		"content":     "Our mission",
		"isPublished": "1",
		"order":       "2",
	})
	if pg.Slug != "mission-vision" {
		t.Errorf("slug = %q, want mission-vision", pg.Slug)
	}
	if !pg.IsPublished || pg.Order != 2 {
		t.Errorf("unexpected page: %+v", pg)
	}
}

func TestUpdate_SlugOnlyChangesWithTitle(t *testing.T) {
	h, _ := newHandler(t)
	pg := createPage(t, h, map[string]string{"title": "About Us", "content": "x"})

	same := updatePage(t, h, pg.ID.Hex(), map[string]any{"title": "About Us", "content": "y"})
	if same.Slug != "about-us" {
		t.Errorf("unchanged title changed slug to %q", same.Slug)
	}
	renamed := updatePage(t, h, pg.ID.Hex(), map[string]any{"title": "About the College"})
	if renamed.Slug != "about-the-college" {
		t.Errorf("renamed slug = %q", renamed.Slug)
	}
}

func TestCreate_MetaLimits(t *testing.T) {
	h, _ := newHandler(t)
	long := make([]byte, 61)
	for i := range long {
		long[i] = 'a'
	}
	req := auth.WithPrincipal(testutil.NewMultipartRequest(t, http.MethodPost, "/api/pages", map[string]string{
		"title": "T", "content": "C", "metaTitle": string(long), "order": "first",
	}), testutil.AdminPrincipal())
	rec := testutil.NewRecorder()
	h.Create(rec, req)

	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertContains(t, "Meta title cannot exceed 60 characters")
	rec.AssertContains(t, "order must be a whole number")
}

func TestList_PublishedSummaries(t *testing.T) {
	h, fixtures := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	fixtures.CreatePage(ctx, "Programs", "programs", true, 2)
	fixtures.CreatePage(ctx, "About", "about", true, 1)
	fixtures.CreatePage(ctx, "Draft", "draft", false, 0)

	rec := testutil.NewRecorder()
	h.List(rec, testutil.NewRequest(http.MethodGet, "/api/pages"))
	rec.AssertStatus(t, http.StatusOK)

	var got []models.Page
	rec.DecodeData(t, &got)
	if len(got) != 2 || got[0].Slug != "about" {
		t.Fatalf("unexpected list: %+v", got)
	}
	if got[0].Content != "" {
		t.Error("summary should not include content")
	}
}

func TestDetail_DraftNotFound(t *testing.T) {
	h, fixtures := newHandler(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	fixtures.CreatePage(ctx, "Hidden", "hidden", false, 0)

	req := testutil.WithChiURLParam(testutil.NewRequest(http.MethodGet, "/"), "slug", "hidden")
	rec := testutil.NewRecorder()
	h.Detail(rec, req)
	rec.AssertStatus(t, http.StatusNotFound)
	rec.AssertContains(t, "Page not found")
}
