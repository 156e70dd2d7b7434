// internal/app/system/validators/validators.go
package validators

import (
	"context"
	"errors"
	"strings"

	"github.com/dalemusser/collegesite/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// EnsureAll creates collections (if missing) and attaches JSON-Schema
// validators. Deployments without collMod/validator support are logged and
// skipped.
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	ensure := func(coll string, schema bson.M) {
		if err := ensureCollection(ctx, db, coll); err != nil {
			problems = append(problems, coll+": "+err.Error())
			return
		}
		if schema == nil {
			return
		}
		if err := setValidator(ctx, db, coll, schema); err != nil {
			if isUnsupported(err) {
				zap.L().Info("validator skipped (unsupported)", zap.String("collection", coll))
				return
			}
			problems = append(problems, coll+": "+err.Error())
		}
	}

	ensure("users", usersSchema())
	ensure("blogs", blogsSchema())
	ensure("notices", noticesSchema())
	ensure("pages", pagesSchema())
	ensure("media", mediaSchema())
	ensure("admissions", admissionsSchema())
	ensure("audit_events", nil)
	ensure("orphaned_assets", nil)

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string) error {
	names, err := db.ListCollectionNames(ctx, bson.M{"name": name})
	if err == nil && len(names) > 0 {
		return nil
	}
	if err := db.CreateCollection(ctx, name); err != nil {
		if isNamespaceExistsErr(err) {
			return nil
		}
		zap.L().Warn("createCollection failed", zap.String("collection", name), zap.Error(err))
		return err
	}
	zap.L().Info("created collection", zap.String("collection", name))
	return nil
}

func setValidator(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	cmd := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
		{Key: "validationLevel", Value: "moderate"},
		{Key: "validationAction", Value: "error"},
	}
	var out bson.M
	if err := db.RunCommand(ctx, cmd).Decode(&out); err != nil {
		return err
	}
	zap.L().Info("validator ensured", zap.String("collection", name))
	return nil
}

func isNamespaceExistsErr(err error) bool {
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Code == 48 {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "already exists") || strings.Contains(s, "namespace exists")
}

// isUnsupported matches "no such command" (59) and "not implemented" (115).
func isUnsupported(err error) bool {
	var ce mongo.CommandError
	if errors.As(err, &ce) && (ce.Code == 59 || ce.Code == 115) {
		return true
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "no such command") ||
		strings.Contains(s, "not implemented") ||
		strings.Contains(s, "not supported")
}

/* ------------------------- JSON-Schema docs ---------------------- */

func nonEmpty() bson.M {
	return bson.M{"bsonType": "string", "minLength": 1, "pattern": ".*\\S.*"}
}

func enumOf(vals ...string) bson.M {
	a := bson.A{}
	for _, v := range vals {
		a = append(a, v)
	}
	return bson.M{"enum": a}
}

func usersSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"name", "email", "password_hash", "role", "is_active"},
			"properties": bson.M{
				"name":          nonEmpty(),
				"email":         nonEmpty(),
				"password_hash": nonEmpty(),
				"role":          enumOf(string(models.RoleAdmin), string(models.RoleEditor)),
				"is_active":     bson.M{"bsonType": "bool"},
			},
		},
	}
}

func blogsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"title", "slug", "category", "is_published"},
			"properties": bson.M{
				"title":        nonEmpty(),
				"slug":         nonEmpty(),
				"category":     enumOf(models.BlogCategories...),
				"is_published": bson.M{"bsonType": "bool"},
				"views":        bson.M{"bsonType": bson.A{"int", "long"}, "minimum": 0},
			},
		},
	}
}

func noticesSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"title", "is_active"},
			"properties": bson.M{
				"title":     nonEmpty(),
				"is_active": bson.M{"bsonType": "bool"},
			},
		},
	}
}

func pagesSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"title", "slug"},
			"properties": bson.M{
				"title": nonEmpty(),
				"slug":  nonEmpty(),
			},
		},
	}
}

func mediaSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"url", "external_id", "type"},
			"properties": bson.M{
				"url":         nonEmpty(),
				"external_id": nonEmpty(),
				"type":        enumOf(string(models.MediaImage), string(models.MediaVideo), string(models.MediaDocument)),
			},
		},
	}
}

func admissionsSchema() bson.M {
	return bson.M{
		"$jsonSchema": bson.M{
			"bsonType": "object",
			"required": bson.A{"full_name", "email", "phone", "shift", "status", "submitted_at"},
			"properties": bson.M{
				"full_name": nonEmpty(),
				"email":     nonEmpty(),
				"phone":     bson.M{"bsonType": "string", "pattern": "^[0-9]{10}$"},
				"gender":    enumOf(models.Genders...),
				"shift":     enumOf(models.Shifts...),
				"status": enumOf(
					string(models.AdmissionPending),
					string(models.AdmissionUnderReview),
					string(models.AdmissionApproved),
					string(models.AdmissionRejected),
				),
			},
		},
	}
}
