// internal/app/system/workers/assetreaper.go
package workers

import (
	"context"
	"sync"
	"time"

	orphanstore "github.com/dalemusser/collegesite/internal/app/store/orphans"
	"github.com/dalemusser/collegesite/internal/app/system/assets"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const reapBatch = 100

// OrphanQueue is the slice of the orphan store the reaper needs.
type OrphanQueue interface {
	Due(ctx context.Context, now time.Time, limit int64) ([]orphanstore.Orphan, error)
	MarkFailed(ctx context.Context, o orphanstore.Orphan, cause error) (bool, error)
	Remove(ctx context.Context, id primitive.ObjectID) error
}

// AssetReaper is a background worker that retries deletes of orphaned
// delegate objects.
type AssetReaper struct {
	orphans  OrphanQueue
	delegate assets.Delegate
	log      *zap.Logger
	interval time.Duration
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewAssetReaper creates a reaper that runs every interval.
func NewAssetReaper(orphans OrphanQueue, delegate assets.Delegate, logger *zap.Logger, interval time.Duration) *AssetReaper {
	return &AssetReaper{
		orphans:  orphans,
		delegate: delegate,
		log:      logger,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

// Start begins the background loop.
func (w *AssetReaper) Start() {
	w.wg.Add(1)
	go w.run()
	w.log.Info("asset reaper started", zap.Duration("interval", w.interval))
}

// Stop signals the worker to stop and waits for it to finish.
func (w *AssetReaper) Stop() {
	close(w.stopCh)
	w.wg.Wait()
	w.log.Info("asset reaper stopped")
}

func (w *AssetReaper) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.RunOnce(context.Background())
		}
	}
}

// RunOnce processes one batch of due orphans and returns how many were
// deleted.
func (w *AssetReaper) RunOnce(parent context.Context) int {
	ctx, cancel := context.WithTimeout(parent, 2*time.Minute)
	defer cancel()

	due, err := w.orphans.Due(ctx, time.Now().UTC(), reapBatch)
	if err != nil {
		w.log.Error("failed to load orphaned assets", zap.Error(err))
		return 0
	}

	deleted := 0
	for _, o := range due {
		if err := w.delegate.Delete(ctx, o.ExternalID, assets.ResourceType(o.ResourceType)); err != nil {
			gaveUp, merr := w.orphans.MarkFailed(ctx, o, err)
			if merr != nil {
				w.log.Error("failed to reschedule orphaned asset", zap.String("external_id", o.ExternalID), zap.Error(merr))
				continue
			}
			if gaveUp {
				w.log.Error("giving up on orphaned asset",
					zap.String("external_id", o.ExternalID),
					zap.Int("attempts", o.Attempts+1),
					zap.Error(err))
			}
			continue
		}
		if err := w.orphans.Remove(ctx, o.ID); err != nil {
			w.log.Error("failed to remove reaped orphan", zap.String("external_id", o.ExternalID), zap.Error(err))
			continue
		}
		deleted++
	}

	if deleted > 0 {
		w.log.Info("reaped orphaned assets", zap.Int("count", deleted))
	}
	return deleted
}
