package respond_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/collegesite/internal/app/system/paging"
	"github.com/dalemusser/collegesite/internal/app/system/respond"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestList_Envelope(t *testing.T) {
	rec := httptest.NewRecorder()
	items := make([]int, 10)

	respond.List(rec, items, 25, paging.Params{Page: 1, Limit: 10})

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Success     bool  `json:"success"`
		Count       int   `json:"count"`
		Total       int64 `json:"total"`
		Pages       int   `json:"pages"`
		CurrentPage int   `json:"currentPage"`
		Data        []int `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, 10, body.Count)
	assert.Equal(t, int64(25), body.Total)
	assert.Equal(t, 3, body.Pages)
	assert.Equal(t, 1, body.CurrentPage)
	assert.Len(t, body.Data, 10)
}

func TestList_NilItemsRenderEmptyArray(t *testing.T) {
	rec := httptest.NewRecorder()
	var items []string

	respond.List(rec, items, 0, paging.Params{Page: 1, Limit: 10})

	assert.Contains(t, rec.Body.String(), `"data":[]`)
}

func TestCreated(t *testing.T) {
	rec := httptest.NewRecorder()

	respond.Created(rec, "Blog created", map[string]string{"slug": "hello"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"success":true,"message":"Blog created","data":{"slug":"hello"}}`, rec.Body.String())
}

func TestMessage_OmitsNilData(t *testing.T) {
	rec := httptest.NewRecorder()

	respond.Message(rec, "Logged out", nil)

	assert.JSONEq(t, `{"success":true,"message":"Logged out"}`, rec.Body.String())
}
