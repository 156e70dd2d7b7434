package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/collegesite/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Calling it twice on the same request keeps the earlier parameters.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx, ok := r.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok || rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// TestPassword is the plaintext password of users created by Fixtures.
const TestPassword = "password123"

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

func (f *Fixtures) insert(ctx context.Context, coll string, doc any) {
	f.t.Helper()
	if _, err := f.db.Collection(coll).InsertOne(ctx, doc); err != nil {
		f.t.Fatalf("failed to insert test %s: %v", coll, err)
	}
}

// CreateUser creates an active user with TestPassword.
func (f *Fixtures) CreateUser(ctx context.Context, name, email string, role models.Role) models.User {
	f.t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(TestPassword), bcrypt.MinCost)
	if err != nil {
		f.t.Fatalf("hash password: %v", err)
	}
	now := time.Now().UTC()
	u := models.User{
		ID:           primitive.NewObjectID(),
		Name:         name,
		Email:        email,
		EmailCI:      text.Fold(email),
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	f.insert(ctx, "users", u)
	return u
}

func (f *Fixtures) CreateAdmin(ctx context.Context, name, email string) models.User {
	return f.CreateUser(ctx, name, email, models.RoleAdmin)
}

func (f *Fixtures) CreateEditor(ctx context.Context, name, email string) models.User {
	return f.CreateUser(ctx, name, email, models.RoleEditor)
}

// CreateDisabledUser creates a deactivated editor.
func (f *Fixtures) CreateDisabledUser(ctx context.Context, name, email string) models.User {
	f.t.Helper()
	u := f.CreateUser(ctx, name, email, models.RoleEditor)
	if _, err := f.db.Collection("users").UpdateByID(ctx, u.ID, map[string]any{"$set": map[string]any{"is_active": false}}); err != nil {
		f.t.Fatalf("disable user: %v", err)
	}
	u.IsActive = false
	return u
}

// CreateBlog creates a blog post. Published posts get PublishedAt = at.
func (f *Fixtures) CreateBlog(ctx context.Context, title, slug string, published bool, author primitive.ObjectID, at time.Time) models.Blog {
	f.t.Helper()
	b := models.Blog{
		ID:          primitive.NewObjectID(),
		Title:       title,
		Slug:        slug,
		Excerpt:     "Excerpt for " + title,
		Content:     "<p>" + title + "</p>",
		AuthorID:    author,
		Category:    models.DefaultBlogCategory,
		Tags:        []string{},
		IsPublished: published,
		CreatedAt:   at,
		UpdatedAt:   at,
	}
	if published {
		b.PublishedAt = &at
	}
	f.insert(ctx, "blogs", b)
	return b
}

// CreateNotice creates a notice.
func (f *Fixtures) CreateNotice(ctx context.Context, title string, active, highlight bool, priority int, expiresAt *time.Time) models.Notice {
	f.t.Helper()
	now := time.Now().UTC()
	n := models.Notice{
		ID:          primitive.NewObjectID(),
		Title:       title,
		Content:     "<p>" + title + "</p>",
		IsHighlight: highlight,
		IsActive:    active,
		Priority:    priority,
		ExpiresAt:   expiresAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	f.insert(ctx, "notices", n)
	return n
}

// CreatePage creates a page.
func (f *Fixtures) CreatePage(ctx context.Context, title, slug string, published bool, order int) models.Page {
	f.t.Helper()
	now := time.Now().UTC()
	p := models.Page{
		ID:          primitive.NewObjectID(),
		Title:       title,
		Slug:        slug,
		Content:     "<p>" + title + "</p>",
		IsPublished: published,
		Order:       order,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	f.insert(ctx, "pages", p)
	return p
}

// NewAdmission returns a valid, unsaved application.
func NewAdmission(fullName, email string) models.Admission {
	now := time.Now().UTC()
	return models.Admission{
		ID:          primitive.NewObjectID(),
		FullName:    fullName,
		Email:       email,
		Phone:       "9812345678",
		DateOfBirth: time.Date(2004, 5, 17, 0, 0, 0, 0, time.UTC),
		Gender:      "Female",
		Address:     models.Address{District: "Kaski", Municipality: "Pokhara", Ward: 8},
		PreviousEducation: models.PreviousEducation{
			Level:       "+2",
			Board:       "NEB",
			Institution: "Pokhara Secondary School",
			PassedYear:  2022,
		},
		Program:     models.DefaultProgram,
		Shift:       "Morning",
		Guardian:    models.Guardian{Name: "Hari Sharma", Relation: "Father", Phone: "9800000000"},
		Status:      models.AdmissionPending,
		SubmittedAt: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// CreateAdmission inserts NewAdmission with the given status.
func (f *Fixtures) CreateAdmission(ctx context.Context, fullName, email string, status models.AdmissionStatus) models.Admission {
	f.t.Helper()
	a := NewAdmission(fullName, email)
	a.Status = status
	f.insert(ctx, "admissions", a)
	return a
}
