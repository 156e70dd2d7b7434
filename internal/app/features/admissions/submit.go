// internal/app/features/admissions/submit.go
package admissions

import (
	"context"
	"net/http"

	"github.com/dalemusser/collegesite/internal/app/system/apierr"
	"github.com/dalemusser/collegesite/internal/app/system/assets"
	"github.com/dalemusser/collegesite/internal/app/system/formdecode"
	"github.com/dalemusser/collegesite/internal/app/system/respond"
	"github.com/dalemusser/collegesite/internal/app/system/timeouts"
	"github.com/dalemusser/collegesite/internal/domain/models"
	"go.uber.org/zap"
)

// submitted is the public receipt returned to an applicant.
type submitted struct {
	ID          string                 `json:"id"`
	FullName    string                 `json:"fullName"`
	Email       string                 `json:"email"`
	Status      models.AdmissionStatus `json:"status"`
	SubmittedAt string                 `json:"submittedAt"`
}

// Submit serves POST /api/admissions.
//
// The form is decoded and validated before anything is uploaded. Documents
// are then stored one by one; if any upload or the insert fails, every
// document already stored for this request is deleted again.
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	vals, err := formdecode.Parse(r, formdecode.DefaultMaxMemory)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	cmd, err := decodeSubmit(vals)
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}
	uploads, err := collectDocuments(vals, h.Uploads.FileCap())
	if err != nil {
		apierr.Write(w, r, h.Log, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	a := cmd.admission()
	batch := assets.NewBatch(h.Assets, h.Orphans, h.Log)
	if len(uploads) > 0 {
		docs := &models.AdmissionDocuments{}
		for _, field := range documentFields {
			up, ok := uploads[field]
			if !ok {
				continue
			}
			s, err := batch.Store(ctx, *up, assets.AdmissionsFolder)
			if err != nil {
				batch.Rollback(ctx, "admission submit: upload failed")
				apierr.Write(w, r, h.Log, err)
				return
			}
			setDocument(docs, field, s.Ref())
		}
		a.Documents = docs
	}

	created, err := h.Store.Create(ctx, a)
	if err != nil {
		batch.Rollback(ctx, "admission submit: insert failed")
		apierr.Write(w, r, h.Log, err)
		return
	}

	h.Log.Info("admission submitted",
		zap.String("admission_id", created.ID.Hex()),
		zap.String("shift", created.Shift),
		zap.Int("documents", len(batch.Stored())))
	h.Audit.AdmissionSubmitted(ctx, r, created.ID, created.Program, created.Shift)

	respond.Created(w, "Application submitted successfully", submitted{
		ID:          created.ID.Hex(),
		FullName:    created.FullName,
		Email:       created.Email,
		Status:      created.Status,
		SubmittedAt: created.SubmittedAt.Format("2006-01-02T15:04:05.000Z07:00"),
	})
}
