// Package authors resolves the user ids stored on content records (author,
// uploader, reviewer) into {id, name} references with one batched lookup.
package authors

import (
	"context"

	"github.com/dalemusser/collegesite/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Lookup is satisfied by userstore.Store.
type Lookup interface {
	NamesByIDs(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]string, error)
}

// Names maps user ids to display names.
type Names map[primitive.ObjectID]string

// Load fetches names for ids in one query. Zero and duplicate ids are skipped.
func Load(ctx context.Context, l Lookup, ids ...primitive.ObjectID) (Names, error) {
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	uniq := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if id.IsZero() {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		uniq = append(uniq, id)
	}
	if len(uniq) == 0 {
		return Names{}, nil
	}
	m, err := l.NamesByIDs(ctx, uniq)
	if err != nil {
		return nil, err
	}
	return Names(m), nil
}

// Ref returns the reference for id, or nil when the user is unknown.
func (n Names) Ref(id primitive.ObjectID) *models.UserRef {
	name, ok := n[id]
	if !ok {
		return nil
	}
	return &models.UserRef{ID: id, Name: name}
}

// RefPtr is Ref for optional ids.
func (n Names) RefPtr(id *primitive.ObjectID) *models.UserRef {
	if id == nil {
		return nil
	}
	return n.Ref(*id)
}

// IDs collects the non-nil ids from optional references.
func IDs(ptrs ...*primitive.ObjectID) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ptrs))
	for _, p := range ptrs {
		if p != nil {
			out = append(out, *p)
		}
	}
	return out
}
