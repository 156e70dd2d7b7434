// internal/app/system/search/search.go
package search

import (
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Substring returns a case-insensitive regex that matches q literally
// anywhere in a field. Regex metacharacters in q have no special meaning.
func Substring(q string) primitive.Regex {
	return primitive.Regex{Pattern: regexp.QuoteMeta(strings.TrimSpace(q)), Options: "i"}
}

// AnyField builds an $or clause matching q as a substring of any of fields.
// Returns nil for a blank query.
func AnyField(q string, fields ...string) bson.A {
	if strings.TrimSpace(q) == "" || len(fields) == 0 {
		return nil
	}
	rx := Substring(q)
	out := make(bson.A, 0, len(fields))
	for _, f := range fields {
		out = append(out, bson.M{f: rx})
	}
	return out
}
