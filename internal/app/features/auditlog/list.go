// internal/app/features/auditlog/list.go
package auditlog

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/collegesite/internal/app/store/audit"
	"github.com/dalemusser/collegesite/internal/app/system/apierr"
	"github.com/dalemusser/collegesite/internal/app/system/formdecode"
	"github.com/dalemusser/collegesite/internal/app/system/inputval"
	"github.com/dalemusser/collegesite/internal/app/system/normalize"
	"github.com/dalemusser/collegesite/internal/app/system/paging"
	"github.com/dalemusser/collegesite/internal/app/system/respond"
	"github.com/dalemusser/collegesite/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/pantry/query"
)

const pageSize = 50

// List handles GET /api/audit. Filters: category, eventType, startDate and
// endDate (YYYY-MM-DD, inclusive).
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	p := paging.Parse(r, pageSize)
	f := audit.QueryFilter{
		Category:  normalize.QueryParam(query.Get(r, "category")),
		EventType: normalize.QueryParam(query.Get(r, "eventType")),
		Limit:     int64(p.Limit),
		Offset:    p.Skip(),
	}

	var errs inputval.Errors
	if s := normalize.QueryParam(query.Get(r, "startDate")); s != "" {
		t, err := formdecode.ParseTime(s)
		if err != nil {
			errs = append(errs, inputval.FieldError{Field: "startDate", Message: "startDate must be a date (YYYY-MM-DD)"})
		} else {
			f.StartTime = &t
		}
	}
	if s := normalize.QueryParam(query.Get(r, "endDate")); s != "" {
		t, err := formdecode.ParseTime(s)
		if err != nil {
			errs = append(errs, inputval.FieldError{Field: "endDate", Message: "endDate must be a date (YYYY-MM-DD)"})
		} else {
			end := t.Add(24*time.Hour - time.Nanosecond)
			f.EndTime = &end
		}
	}
	if len(errs) > 0 {
		apierr.Write(w, r, h.Log, errs)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	events, err := h.Events.Query(ctx, f)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	total, err := h.Events.CountByFilter(ctx, f)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	respond.List(w, events, total, p)
}

// FailedLogins handles GET /api/audit/failed-logins: failed sign-ins in the
// last 24 hours.
func (h *Handler) FailedLogins(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	events, err := h.Events.GetFailedLogins(ctx, h.now().Add(-24*time.Hour), pageSize)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	respond.Items(w, events)
}

// OrphanBacklog handles GET /api/audit/orphans: how many deleted assets the
// reaper is still retrying.
func (h *Handler) OrphanBacklog(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	n, err := h.Orphans.CountPending(ctx)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	respond.OK(w, map[string]int64{"pending": n})
}
