// Package apierr is the single boundary that turns store, auth, validation
// and delegate failures into the JSON error envelope
//
//	{"success": false, "message": "...", "statusCode": 400}
//
// Handlers never write error bodies themselves; they call Write.
package apierr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/dalemusser/collegesite/internal/app/system/assets"
	"github.com/dalemusser/collegesite/internal/app/system/inputval"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/go-chi/chi/v5/middleware"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Kind classifies a failure. Each kind maps to one HTTP status.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindAuth
	KindForbidden
	KindTooManyRequests
	KindUpstream
	KindMethodNotAllowed
)

// Status returns the HTTP status for k.
func (k Kind) Status() int {
	switch k {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindAuth:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindTooManyRequests:
		return http.StatusTooManyRequests
	case KindUpstream:
		return http.StatusBadGateway
	case KindMethodNotAllowed:
		return http.StatusMethodNotAllowed
	}
	return http.StatusInternalServerError
}

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindAuth:
		return "auth"
	case KindForbidden:
		return "forbidden"
	case KindTooManyRequests:
		return "too_many_requests"
	case KindUpstream:
		return "upstream"
	case KindMethodNotAllowed:
		return "method_not_allowed"
	}
	return "internal"
}

// Error is a classified failure with a client-safe message. Err, when set,
// carries detail that is logged but never sent to the client.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Status is shorthand for e.Kind.Status().
func (e *Error) Status() int { return e.Kind.Status() }

func Validation(msg string) *Error   { return &Error{Kind: KindValidation, Message: msg} }
func NotFound(msg string) *Error     { return &Error{Kind: KindNotFound, Message: msg} }
func Conflict(msg string) *Error     { return &Error{Kind: KindConflict, Message: msg} }
func Unauthorized(msg string) *Error { return &Error{Kind: KindAuth, Message: msg} }
func Forbidden(msg string) *Error    { return &Error{Kind: KindForbidden, Message: msg} }
func TooManyRequests(msg string) *Error {
	return &Error{Kind: KindTooManyRequests, Message: msg}
}
func Upstream(msg string, err error) *Error {
	return &Error{Kind: KindUpstream, Message: msg, Err: err}
}

// MsgNotFound is the generic message for unknown ids and slugs.
const MsgNotFound = "Resource not found"

// Missing replaces a not-found store error (or an unparsable id) with a
// NotFound carrying msg. Other errors pass through unchanged.
func Missing(err error, msg string) error {
	if errors.Is(err, mongo.ErrNoDocuments) || errors.Is(err, primitive.ErrInvalidHex) {
		return &Error{Kind: KindNotFound, Message: msg, Err: err}
	}
	return err
}

// MsgServerError is returned for anything unclassified.
const MsgServerError = "Server Error"

var dupKeyRe = regexp.MustCompile(`dup key: \{\s*"?([A-Za-z0-9_.]+)"?\s*:`)

// DuplicateField extracts the conflicting field from a duplicate-key error,
// converted to the API's camelCase. Returns "" if it cannot be found.
func DuplicateField(err error) string {
	m := dupKeyRe.FindStringSubmatch(err.Error())
	if m == nil {
		return ""
	}
	return camel(m[1])
}

func camel(s string) string {
	parts := strings.Split(s, "_")
	for i := 1; i < len(parts); i++ {
		if parts[i] != "" {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}
	return strings.Join(parts, "")
}

// Normalize classifies any error. It never returns nil for a non-nil err.
func Normalize(err error) *Error {
	if err == nil {
		return nil
	}

	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}

	var ve inputval.Errors
	if errors.As(err, &ve) {
		return &Error{Kind: KindValidation, Message: ve.Error(), Err: err}
	}

	var fe *assets.FormatError
	if errors.As(err, &fe) {
		return &Error{Kind: KindValidation, Message: fe.Error(), Err: err}
	}

	var de *assets.DelegateError
	if errors.As(err, &de) {
		return &Error{Kind: KindUpstream, Message: "File upload failed", Err: err}
	}

	if errors.Is(err, primitive.ErrInvalidHex) || errors.Is(err, mongo.ErrNoDocuments) {
		return &Error{Kind: KindNotFound, Message: MsgNotFound, Err: err}
	}

	if mongo.IsDuplicateKeyError(err) || wafflemongo.IsDup(err) {
		field := DuplicateField(err)
		if field == "" {
			field = "value"
		}
		return &Error{
			Kind:    KindConflict,
			Message: fmt.Sprintf("Duplicate field value: %s. Please use another value.", field),
			Err:     err,
		}
	}

	return &Error{Kind: KindInternal, Message: MsgServerError, Err: err}
}

type body struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	StatusCode int    `json:"statusCode"`
}

// Write normalizes err, logs it and renders the error envelope. 5xx detail
// is logged at error level; client errors at debug.
func Write(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	e := Normalize(err)
	status := e.Status()

	if log != nil {
		fields := []zap.Field{
			zap.String("kind", e.Kind.String()),
			zap.Int("status", status),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err),
		}
		if status >= http.StatusInternalServerError {
			log.Error("request failed", fields...)
		} else {
			log.Debug("request rejected", fields...)
		}
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body{Success: false, Message: e.Message, StatusCode: status})
}
