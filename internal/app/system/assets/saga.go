package assets

import (
	"context"

	"github.com/dalemusser/collegesite/internal/domain/models"
	"go.uber.org/zap"
)

// OrphanSink records delegate objects that could not be deleted inline. The
// asset reaper worker retries them later.
type OrphanSink interface {
	Record(ctx context.Context, ref models.AssetRef, reason string, cause error) error
}

// Discard deletes ref best-effort. A delegate failure is logged and handed to
// sink; the caller always proceeds. Reports whether the object was deleted.
func Discard(ctx context.Context, d Delegate, sink OrphanSink, log *zap.Logger, ref *models.AssetRef, reason string) bool {
	if ref.IsZero() {
		return true
	}
	err := d.Delete(ctx, ref.ExternalID, ResourceType(ref.ResourceType))
	if err == nil {
		return true
	}

	log.Warn("asset delete failed; recording orphan",
		zap.String("external_id", ref.ExternalID),
		zap.String("reason", reason),
		zap.Error(err))
	if sink != nil {
		if serr := sink.Record(ctx, *ref, reason, err); serr != nil {
			log.Error("failed to record orphaned asset",
				zap.String("external_id", ref.ExternalID),
				zap.Error(serr))
		}
	}
	return false
}

// Batch stores uploads for one request and can roll all of them back if a
// later step fails.
type Batch struct {
	d      Delegate
	sink   OrphanSink
	log    *zap.Logger
	stored []Stored
}

func NewBatch(d Delegate, sink OrphanSink, log *zap.Logger) *Batch {
	return &Batch{d: d, sink: sink, log: log}
}

// Store stores up and remembers it for Rollback.
func (b *Batch) Store(ctx context.Context, up Upload, opts Options) (Stored, error) {
	s, err := b.d.Store(ctx, up, opts)
	if err != nil {
		return Stored{}, err
	}
	b.stored = append(b.stored, s)
	return s, nil
}

// Stored returns everything stored so far.
func (b *Batch) Stored() []Stored { return b.stored }

// Rollback discards every object stored by the batch.
func (b *Batch) Rollback(ctx context.Context, reason string) {
	for _, s := range b.stored {
		ref := s.Ref()
		Discard(ctx, b.d, b.sink, b.log, &ref, reason)
	}
	b.stored = nil
}

// Replace swaps the asset on a record in three ordered steps:
//
//  1. store the new upload;
//  2. save persists the record pointing at the new object. If save fails the
//     new object is discarded and save's error is returned;
//  3. the old object, if any, is discarded best-effort.
//
// The record never points at a deleted object.
func Replace(
	ctx context.Context,
	d Delegate,
	sink OrphanSink,
	log *zap.Logger,
	old *models.AssetRef,
	up Upload,
	opts Options,
	save func(ctx context.Context, ref models.AssetRef) error,
) (Stored, error) {
	batch := NewBatch(d, sink, log)
	s, err := batch.Store(ctx, up, opts)
	if err != nil {
		return Stored{}, err
	}
	if err := save(ctx, s.Ref()); err != nil {
		batch.Rollback(ctx, "replace: save failed")
		return Stored{}, err
	}
	Discard(ctx, d, sink, log, old, "replace: previous asset")
	return s, nil
}
