package indexes_test

import (
	"testing"

	"github.com/dalemusser/collegesite/internal/app/system/indexes"
	"github.com/dalemusser/collegesite/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

func indexNames(t *testing.T, coll *mongo.Collection) map[string]bool {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		t.Fatalf("List indexes failed: %v", err)
	}
	defer cur.Close(ctx)

	names := make(map[string]bool)
	for cur.Next(ctx) {
		var idx bson.M
		if err := cur.Decode(&idx); err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		names[idx["name"].(string)] = true
	}
	return names
}

func TestEnsureAll(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("First EnsureAll failed: %v", err)
	}
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("Second EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_CreatesUniqueSlugIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	if !indexNames(t, db.Collection("blogs"))["uniq_blogs_slug"] {
		t.Error("expected uniq_blogs_slug on blogs")
	}
	if !indexNames(t, db.Collection("blogs"))["text_blogs"] {
		t.Error("expected text_blogs on blogs")
	}
	if !indexNames(t, db.Collection("pages"))["uniq_pages_slug"] {
		t.Error("expected uniq_pages_slug on pages")
	}
	if !indexNames(t, db.Collection("users"))["uniq_users_email"] {
		t.Error("expected uniq_users_email on users")
	}
}

func TestEnsureAll_RenamesMismatchedIndex(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// Same keys and uniqueness as uniq_pages_slug, different name.
	_, err := db.Collection("pages").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "slug", Value: 1}},
	})
	if err != nil {
		t.Fatalf("seed index failed: %v", err)
	}

	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	names := indexNames(t, db.Collection("pages"))
	if !names["uniq_pages_slug"] {
		t.Error("expected uniq_pages_slug after reconcile")
	}
	if names["slug_1"] {
		t.Error("expected slug_1 to be dropped")
	}
}
