package userstore_test

import (
	"errors"
	"testing"

	userstore "github.com/dalemusser/collegesite/internal/app/store/users"
	"github.com/dalemusser/collegesite/internal/app/system/indexes"
	"github.com/dalemusser/collegesite/internal/domain/models"
	"github.com/dalemusser/collegesite/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.User{
		Name:         "  Admin   User ",
		Email:        "Admin@Example.COM",
		PasswordHash: "hash",
		Role:         models.RoleAdmin,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.Email != "admin@example.com" {
		t.Errorf("expected lowercased email, got %q", created.Email)
	}
	if created.Name != "Admin User" {
		t.Errorf("expected collapsed name, got %q", created.Name)
	}
	if !created.IsActive {
		t.Error("expected new user to be active")
	}

	got, err := store.GetByEmail(ctx, "ADMIN@example.com")
	if err != nil {
		t.Fatalf("GetByEmail failed: %v", err)
	}
	if got.ID != created.ID {
		t.Error("GetByEmail returned a different user")
	}
}

func TestStore_Create_InvalidRole(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.Create(ctx, models.User{Name: "X", Email: "x@example.com", Role: "superuser"})
	if err == nil {
		t.Fatal("expected error for unknown role")
	}
}

func TestStore_Create_DuplicateEmail(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
	store := userstore.New(db)

	if _, err := store.Create(ctx, models.User{Name: "A", Email: "dup@example.com", Role: models.RoleEditor}); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	_, err := store.Create(ctx, models.User{Name: "B", Email: "DUP@example.com", Role: models.RoleEditor})
	if !errors.Is(err, userstore.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestStore_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := store.GetByID(ctx, primitive.NewObjectID())
	if !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("expected ErrNoDocuments, got %v", err)
	}
}

func TestStore_AdminExists(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if ok, _ := store.AdminExists(ctx); ok {
		t.Fatal("empty database should have no admin")
	}
	fixtures.CreateEditor(ctx, "Ed", "ed@example.com")
	if ok, _ := store.AdminExists(ctx); ok {
		t.Fatal("an editor is not an admin")
	}
	fixtures.CreateAdmin(ctx, "Ad", "ad@example.com")
	if ok, err := store.AdminExists(ctx); err != nil || !ok {
		t.Fatalf("AdminExists = %v, %v", ok, err)
	}
}

func TestStore_NamesByIDs(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	a := fixtures.CreateAdmin(ctx, "Alice", "alice@example.com")
	b := fixtures.CreateEditor(ctx, "Bob", "bob@example.com")
	missing := primitive.NewObjectID()

	names, err := store.NamesByIDs(ctx, []primitive.ObjectID{a.ID, b.ID, missing})
	if err != nil {
		t.Fatalf("NamesByIDs failed: %v", err)
	}
	if names[a.ID] != "Alice" || names[b.ID] != "Bob" {
		t.Errorf("names = %v", names)
	}
	if _, ok := names[missing]; ok {
		t.Error("unknown id should be absent")
	}
}

func TestStore_TouchLastLoginAndSetActive(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := userstore.New(db)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	u := fixtures.CreateEditor(ctx, "Ed", "ed@example.com")
	if err := store.TouchLastLogin(ctx, u.ID); err != nil {
		t.Fatalf("TouchLastLogin failed: %v", err)
	}
	if err := store.SetActive(ctx, u.ID, false); err != nil {
		t.Fatalf("SetActive failed: %v", err)
	}
	got, _ := store.GetByID(ctx, u.ID)
	if got.LastLogin == nil {
		t.Error("expected LastLogin to be set")
	}
	if got.IsActive {
		t.Error("expected user to be deactivated")
	}
	if err := store.SetActive(ctx, primitive.NewObjectID(), true); !errors.Is(err, mongo.ErrNoDocuments) {
		t.Errorf("expected ErrNoDocuments, got %v", err)
	}
}
