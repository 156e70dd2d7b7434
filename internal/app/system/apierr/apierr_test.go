package apierr_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/collegesite/internal/app/system/apierr"
	"github.com/dalemusser/collegesite/internal/app/system/assets"
	"github.com/dalemusser/collegesite/internal/app/system/inputval"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func dupErr(field string) error {
	return mongo.WriteException{WriteErrors: []mongo.WriteError{{
		Code:    11000,
		Message: fmt.Sprintf(`E11000 duplicate key error collection: test.blogs index: uniq_blogs_%s dup key: { %s: "hello" }`, field, field),
	}}}
}

func TestNormalize(t *testing.T) {
	_, hexErr := primitive.ObjectIDFromHex("not-an-id")

	tests := []struct {
		name   string
		err    error
		status int
		msg    string
	}{
		{"classified passes through", apierr.Forbidden("Admin access required"), 403, "Admin access required"},
		{"wrapped classified", fmt.Errorf("gate: %w", apierr.Unauthorized("Token expired")), 401, "Token expired"},
		{"validation joined", inputval.Errors{{Message: "Full name is required"}, {Message: "Shift is required"}}, 400, "Full name is required, Shift is required"},
		{"invalid hex", hexErr, 404, "Resource not found"},
		{"no documents", fmt.Errorf("get blog: %w", mongo.ErrNoDocuments), 404, "Resource not found"},
		{"duplicate slug", dupErr("slug"), 400, "Duplicate field value: slug. Please use another value."},
		{"format rejected", &assets.FormatError{Format: "exe"}, 400, "File format exe is not allowed"},
		{"delegate failure", &assets.DelegateError{Op: "store", Err: errors.New("timeout")}, 502, "File upload failed"},
		{"unknown", errors.New("boom"), 500, "Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := apierr.Normalize(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.status, got.Status())
			assert.Equal(t, tt.msg, got.Message)
		})
	}
}

func TestNormalize_Nil(t *testing.T) {
	assert.Nil(t, apierr.Normalize(nil))
}

func TestDuplicateField_SnakeToCamel(t *testing.T) {
	assert.Equal(t, "externalId", apierr.DuplicateField(dupErr("external_id")))
	assert.Equal(t, "", apierr.DuplicateField(errors.New("something else")))
}

func TestWrite_Envelope(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/blogs/detail/missing", nil)
	rec := httptest.NewRecorder()

	apierr.Write(rec, req, zap.NewNop(), mongo.ErrNoDocuments)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Resource not found", body["message"])
	assert.Equal(t, float64(404), body["statusCode"])
}

func TestWrite_HidesInternalDetail(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/pages", nil)
	rec := httptest.NewRecorder()

	apierr.Write(rec, req, zap.NewNop(), errors.New("connection reset by peer"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection reset")
}

func TestMissing(t *testing.T) {
	e := apierr.Normalize(apierr.Missing(mongo.ErrNoDocuments, "Blog not found"))
	assert.Equal(t, apierr.KindNotFound, e.Kind)
	assert.Equal(t, "Blog not found", e.Message)

	_, hexErr := primitive.ObjectIDFromHex("nope")
	assert.Equal(t, "Blog not found", apierr.Normalize(apierr.Missing(hexErr, "Blog not found")).Message)

	other := errors.New("boom")
	assert.Same(t, other, apierr.Missing(other, "Blog not found"))
}
