package errors_test

import (
	"net/http"
	"testing"

	apperrors "github.com/dalemusser/collegesite/internal/app/features/errors"
	"github.com/dalemusser/collegesite/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func TestRouterFallbacks(t *testing.T) {
	h := apperrors.NewHandler(zap.NewNop())
	r := chi.NewRouter()
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)
	r.Get("/api/blogs", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	rec := testutil.NewRecorder()
	r.ServeHTTP(rec, testutil.NewRequest(http.MethodGet, "/api/nope"))
	rec.AssertStatus(t, http.StatusNotFound)
	env := rec.Envelope(t)
	if env.Success || env.Message != "Route not found" || env.StatusCode != http.StatusNotFound {
		t.Errorf("unexpected envelope %+v", env)
	}

	rec = testutil.NewRecorder()
	r.ServeHTTP(rec, testutil.NewRequest(http.MethodPatch, "/api/blogs"))
	rec.AssertStatus(t, http.StatusMethodNotAllowed)
	rec.AssertContains(t, "Method not allowed")
}
