// internal/app/features/auditlog/handler.go
package auditlog

import (
	"context"
	"time"

	"github.com/dalemusser/collegesite/internal/app/store/audit"
	"go.uber.org/zap"
)

// Events is the subset of audit.Store the viewer reads.
type Events interface {
	Query(ctx context.Context, f audit.QueryFilter) ([]audit.Event, error)
	CountByFilter(ctx context.Context, f audit.QueryFilter) (int64, error)
	GetFailedLogins(ctx context.Context, since time.Time, limit int64) ([]audit.Event, error)
}

// Orphans reports the asset reaper's backlog.
type Orphans interface {
	CountPending(ctx context.Context) (int64, error)
}

type Handler struct {
	Events  Events
	Orphans Orphans
	Log     *zap.Logger
	now     func() time.Time
}

// NewHandler constructs the audit log viewer.
func NewHandler(events Events, orphans Orphans, logger *zap.Logger) *Handler {
	return &Handler{
		Events:  events,
		Orphans: orphans,
		Log:     logger,
		now:     time.Now,
	}
}
