// Package respond writes the success envelope shared by every JSON endpoint:
//
//	{"success": true, "message": "...", "data": ...}
//
// List endpoints add count, total, pages and currentPage.
package respond

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/collegesite/internal/app/system/paging"
)

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type listEnvelope struct {
	Success     bool  `json:"success"`
	Count       int   `json:"count"`
	Total       int64 `json:"total"`
	Pages       int   `json:"pages"`
	CurrentPage int   `json:"currentPage"`
	Data        any   `json:"data"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// OK writes 200 with data.
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, envelope{Success: true, Data: data})
}

// Created writes 201 with a message and data.
func Created(w http.ResponseWriter, msg string, data any) {
	JSON(w, http.StatusCreated, envelope{Success: true, Message: msg, Data: data})
}

// Message writes 200 with a message and optional data.
func Message(w http.ResponseWriter, msg string, data any) {
	JSON(w, http.StatusOK, envelope{Success: true, Message: msg, Data: data})
}

// List writes a page of items. count is len(items); pages is ceil(total/limit).
func List[T any](w http.ResponseWriter, items []T, total int64, p paging.Params) {
	if items == nil {
		items = []T{}
	}
	JSON(w, http.StatusOK, listEnvelope{
		Success:     true,
		Count:       len(items),
		Total:       total,
		Pages:       p.Pages(total),
		CurrentPage: p.Page,
		Data:        items,
	})
}

// Items writes an unpaginated list with its count.
func Items[T any](w http.ResponseWriter, items []T) {
	if items == nil {
		items = []T{}
	}
	JSON(w, http.StatusOK, struct {
		Success bool `json:"success"`
		Count   int  `json:"count"`
		Data    []T  `json:"data"`
	}{true, len(items), items})
}
