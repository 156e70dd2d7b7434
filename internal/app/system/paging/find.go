package paging

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/sync/errgroup"
)

// Query describes one paginated listing.
type Query struct {
	Filter     any
	Sort       bson.D
	Projection any
}

// FindPage runs the count and the page fetch concurrently and returns the
// decoded items with the total match count.
func FindPage[T any](ctx context.Context, c *mongo.Collection, q Query, p Params) ([]T, int64, error) {
	filter := q.Filter
	if filter == nil {
		filter = bson.M{}
	}

	var (
		items []T
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := c.CountDocuments(gctx, filter)
		total = n
		return err
	})
	g.Go(func() error {
		opts := p.FindOptions()
		if len(q.Sort) > 0 {
			opts.SetSort(q.Sort)
		}
		if q.Projection != nil {
			opts.SetProjection(q.Projection)
		}
		cur, err := c.Find(gctx, filter, opts)
		if err != nil {
			return err
		}
		defer cur.Close(gctx)
		return cur.All(gctx, &items)
	})
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	if items == nil {
		items = []T{}
	}
	return items, total, nil
}
