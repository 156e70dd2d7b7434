package blogs_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/collegesite/internal/app/features/blogs"
	blogstore "github.com/dalemusser/collegesite/internal/app/store/blogs"
	userstore "github.com/dalemusser/collegesite/internal/app/store/users"
	"github.com/dalemusser/collegesite/internal/app/system/auth"
	"github.com/dalemusser/collegesite/internal/app/system/indexes"
	"github.com/dalemusser/collegesite/internal/app/system/limits"
	"github.com/dalemusser/collegesite/internal/domain/models"
	"github.com/dalemusser/collegesite/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type env struct {
	h        *blogs.Handler
	store    *blogstore.Store
	fixtures *testutil.Fixtures
	assets   *testutil.FakeAssets
	orphans  *testutil.FakeOrphans
}

func newEnv(t *testing.T) env {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	e := env{
		store:    blogstore.New(db),
		fixtures: testutil.NewFixtures(t, db),
		assets:   testutil.NewFakeAssets(),
		orphans:  &testutil.FakeOrphans{},
	}
	e.h = blogs.NewHandler(e.store, userstore.New(db), e.assets, e.orphans, nil, limits.Defaults(), zap.NewNop())
	return e
}

func TestList_PaginatesPublished(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	author := e.fixtures.CreateEditor(ctx, "Editor Ed", "ed@test.edu")
	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 25; i++ {
		e.fixtures.CreateBlog(ctx, fmt.Sprintf("Post %d", i), fmt.Sprintf("post-%d", i), true, author.ID, base.Add(time.Duration(i)*time.Minute))
	}
	e.fixtures.CreateBlog(ctx, "Draft", "draft", false, author.ID, base)

	rec := testutil.NewRecorder()
	e.h.List(rec, testutil.NewRequest(http.MethodGet, "/api/blogs?limit=10"))

	rec.AssertStatus(t, http.StatusOK)
	env := rec.Envelope(t)
	if env.Count != 10 || env.Total != 25 || env.Pages != 3 || env.CurrentPage != 1 {
		t.Errorf("unexpected paging: count=%d total=%d pages=%d page=%d", env.Count, env.Total, env.Pages, env.CurrentPage)
	}

	var items []struct {
		Slug   string          `json:"slug"`
		Author *models.UserRef `json:"author"`
	}
	rec.DecodeData(t, &items)
	if items[0].Slug != "post-24" {
		t.Errorf("expected newest first, got %s", items[0].Slug)
	}
	if items[0].Author == nil || items[0].Author.Name != "Editor Ed" {
		t.Errorf("author not resolved: %+v", items[0].Author)
	}
}

func TestDetail_CountsEveryView(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	b := e.fixtures.CreateBlog(ctx, "Hello", "hello", true, primitive.NewObjectID(), time.Now().UTC())

	const n = 7
	for i := 0; i < n; i++ {
		req := testutil.WithChiURLParam(testutil.NewRequest(http.MethodGet, "/api/blogs/detail/hello"), "slug", "hello")
		rec := testutil.NewRecorder()
		e.h.Detail(rec, req)
		rec.AssertStatus(t, http.StatusOK)
	}

	got, err := e.store.GetByID(ctx, b.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Views != n {
		t.Errorf("views = %d, want %d", got.Views, n)
	}
}

func TestDetail_DraftIsNotFound(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	e.fixtures.CreateBlog(ctx, "Secret", "secret", false, primitive.NewObjectID(), time.Now().UTC())

	req := testutil.WithChiURLParam(testutil.NewRequest(http.MethodGet, "/api/blogs/detail/secret"), "slug", "secret")
	rec := testutil.NewRecorder()
	e.h.Detail(rec, req)

	rec.AssertStatus(t, http.StatusNotFound)
	rec.AssertContains(t, "Blog not found")
}

func TestCreate_WithImage(t *testing.T) {
	e := newEnv(t)
	editor := testutil.EditorPrincipal()

	req := testutil.NewMultipartRequest(t, http.MethodPost, "/api/blogs", map[string]string{
		"title":       "Annual Sports Week 2024",
		"excerpt":     "Highlights from the week",
		"content":     "Plain text body",
		"category":    "sports",
		"tags":        "sports, events, sports",
		"isPublished": "true",
	}, testutil.FormFile{Field: "featuredImage", Filename: "cover.png", Data: testutil.PNG(t, 2400, 1200)})
	req = auth.WithPrincipal(req, editor)

	rec := testutil.NewRecorder()
	e.h.Create(rec, req)
	rec.AssertStatus(t, http.StatusCreated)

	var got models.Blog
	rec.DecodeData(t, &got)
	if got.Slug != "annual-sports-week-2024" {
		t.Errorf("slug = %q", got.Slug)
	}
	if got.PublishedAt == nil {
		t.Error("publishing on create should stamp publishedAt")
	}
	if len(got.Tags) != 2 {
		t.Errorf("tags = %v", got.Tags)
	}
	if got.Content != "<p>Plain text body</p>" {
		t.Errorf("content = %q", got.Content)
	}
	if len(e.assets.Stored) != 1 {
		t.Fatalf("expected one stored asset, got %d", len(e.assets.Stored))
	}
	s := e.assets.Stored[0]
	if s.Width != 1200 || s.Height != 600 {
		t.Errorf("image not fitted: %dx%d", s.Width, s.Height)
	}
	if got.FeaturedImage == nil || got.FeaturedImage.ExternalID != s.ExternalID {
		t.Errorf("featuredImage = %+v", got.FeaturedImage)
	}
}

func TestCreate_InvalidInputStoresNothing(t *testing.T) {
	e := newEnv(t)

	req := testutil.NewMultipartRequest(t, http.MethodPost, "/api/blogs", map[string]string{
		"title":    "No excerpt",
		"content":  "body",
		"category": "gossip",
	}, testutil.FormFile{Field: "featuredImage", Filename: "cover.png", Data: testutil.PNG(t, 10, 10)})
	req = auth.WithPrincipal(req, testutil.EditorPrincipal())

	rec := testutil.NewRecorder()
	e.h.Create(rec, req)

	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertContains(t, "Excerpt is required")
	rec.AssertContains(t, "Category must be one of")
	if len(e.assets.Stored) != 0 {
		t.Error("no asset should be stored for an invalid post")
	}
}

func TestCreate_BadBooleanIsRejected(t *testing.T) {
	e := newEnv(t)

	req := testutil.NewMultipartRequest(t, http.MethodPost, "/api/blogs", map[string]string{
		"title": "T", "excerpt": "E", "content": "C", "isPublished": "maybe",
	})
	req = auth.WithPrincipal(req, testutil.EditorPrincipal())

	rec := testutil.NewRecorder()
	e.h.Create(rec, req)
	rec.AssertStatus(t, http.StatusBadRequest)
}

func TestCreate_DuplicateSlugIsConflict(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	e.fixtures.CreateBlog(ctx, "Open House", "open-house", true, primitive.NewObjectID(), time.Now().UTC())

	req := testutil.NewJSONRequest(t, http.MethodPost, "/api/blogs", map[string]any{
		"title": "Open House!", "excerpt": "E", "content": "C",
	})
	req = auth.WithPrincipal(req, testutil.EditorPrincipal())

	rec := testutil.NewRecorder()
	e.h.Create(rec, req)

	rec.AssertStatus(t, http.StatusBadRequest)
	rec.AssertContains(t, "Duplicate field value: slug")
}

func TestUpdate_SlugFollowsTitle(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	b := e.fixtures.CreateBlog(ctx, "Old Title", "custom-slug", false, primitive.NewObjectID(), time.Now().UTC())

	update := func(body map[string]any) models.Blog {
		req := testutil.NewJSONRequest(t, http.MethodPut, "/api/blogs/"+b.ID.Hex(), body)
		req = testutil.WithChiURLParam(auth.WithPrincipal(req, testutil.EditorPrincipal()), "id", b.ID.Hex())
		rec := testutil.NewRecorder()
		e.h.Update(rec, req)
		rec.AssertStatus(t, http.StatusOK)
		var got models.Blog
		rec.DecodeData(t, &got)
		return got
	}

	got := update(map[string]any{"title": "Old Title", "excerpt": "New excerpt"})
	if got.Slug != "custom-slug" {
		t.Errorf("unchanged title should keep slug, got %q", got.Slug)
	}
	if got.PublishedAt != nil {
		t.Error("draft should not have publishedAt")
	}

	got = update(map[string]any{"title": "Brand New Title", "isPublished": true})
	if got.Slug != "brand-new-title" {
		t.Errorf("title change should regenerate slug, got %q", got.Slug)
	}
	if got.PublishedAt == nil {
		t.Fatal("first publish should stamp publishedAt")
	}
	first := *got.PublishedAt

	got = update(map[string]any{"isPublished": "true"})
	if !got.PublishedAt.Equal(first) {
		t.Error("publishedAt should be stamped only once")
	}
}

func TestUpdate_ReplacesImage(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	b := e.fixtures.CreateBlog(ctx, "Pic", "pic", true, primitive.NewObjectID(), time.Now().UTC())
	old := e.assets.Seed("blog")
	b.FeaturedImage = &old
	if err := e.store.Save(ctx, &b); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	req := testutil.NewMultipartRequest(t, http.MethodPut, "/api/blogs/"+b.ID.Hex(), nil,
		testutil.FormFile{Field: "featuredImage", Filename: "new.png", Data: testutil.PNG(t, 20, 20)})
	req = testutil.WithChiURLParam(auth.WithPrincipal(req, testutil.EditorPrincipal()), "id", b.ID.Hex())
	rec := testutil.NewRecorder()
	e.h.Update(rec, req)
	rec.AssertStatus(t, http.StatusOK)

	if e.assets.DeleteCount(old.ExternalID) != 1 {
		t.Error("old image should be deleted exactly once")
	}
	got, _ := e.store.GetByID(ctx, b.ID)
	if got.FeaturedImage == nil || got.FeaturedImage.ExternalID == old.ExternalID {
		t.Errorf("record should point at the new image: %+v", got.FeaturedImage)
	}
	live := e.assets.Live()
	if len(live) != 1 || live[0] != got.FeaturedImage.ExternalID {
		t.Errorf("live objects = %v", live)
	}
}

func TestDelete_RemovesImageOnce(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	b := e.fixtures.CreateBlog(ctx, "Bye", "bye", true, primitive.NewObjectID(), time.Now().UTC())
	img := e.assets.Seed("blog")
	b.FeaturedImage = &img
	_ = e.store.Save(ctx, &b)

	req := testutil.WithChiURLParam(auth.WithPrincipal(testutil.NewRequest(http.MethodDelete, "/api/blogs/"+b.ID.Hex()), testutil.AdminPrincipal()), "id", b.ID.Hex())
	rec := testutil.NewRecorder()
	e.h.Delete(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "Blog deleted successfully")
	if len(e.assets.Deleted) != 1 || e.assets.Deleted[0] != img.ExternalID {
		t.Errorf("deleted = %v", e.assets.Deleted)
	}
	if _, err := e.store.GetByID(ctx, b.ID); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Error("record should be gone")
	}
}

func TestDelete_DelegateFailureStillRemovesRecord(t *testing.T) {
	e := newEnv(t)
	e.assets.DeleteErr = errors.New("host down")
	ctx, cancel := testutil.TestContext()
	defer cancel()

	b := e.fixtures.CreateBlog(ctx, "Stuck", "stuck", true, primitive.NewObjectID(), time.Now().UTC())
	img := e.assets.Seed("blog")
	b.FeaturedImage = &img
	_ = e.store.Save(ctx, &b)

	req := testutil.WithChiURLParam(auth.WithPrincipal(testutil.NewRequest(http.MethodDelete, "/"), testutil.AdminPrincipal()), "id", b.ID.Hex())
	rec := testutil.NewRecorder()
	e.h.Delete(rec, req)

	rec.AssertStatus(t, http.StatusOK)
	if e.assets.DeleteCount(img.ExternalID) != 1 {
		t.Errorf("expected exactly one delete call, got %d", e.assets.DeleteCount(img.ExternalID))
	}
	if len(e.orphans.Refs) != 1 || e.orphans.Refs[0].ExternalID != img.ExternalID {
		t.Errorf("orphan not recorded: %+v", e.orphans.Refs)
	}
	if _, err := e.store.GetByID(ctx, b.ID); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Error("record should be removed even when the delegate fails")
	}
}

func TestAdminGet_BadIDIsNotFound(t *testing.T) {
	e := newEnv(t)
	req := testutil.WithChiURLParam(testutil.NewRequest(http.MethodGet, "/api/blogs/admin/xyz"), "id", "xyz")
	rec := testutil.NewRecorder()
	e.h.AdminGet(rec, req)
	rec.AssertStatus(t, http.StatusNotFound)
}
