package testutil

import (
	"bytes"
	"encoding/json"
	"image"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dalemusser/collegesite/internal/app/system/auth"
	"github.com/dalemusser/collegesite/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AdminPrincipal returns a signed-in administrator.
func AdminPrincipal() *auth.Principal {
	return &auth.Principal{
		ID:    primitive.NewObjectID(),
		Name:  "Test Admin",
		Email: "admin@test.edu",
		Role:  models.RoleAdmin,
	}
}

// EditorPrincipal returns a signed-in editor.
func EditorPrincipal() *auth.Principal {
	return &auth.Principal{
		ID:    primitive.NewObjectID(),
		Name:  "Test Editor",
		Email: "editor@test.edu",
		Role:  models.RoleEditor,
	}
}

// PrincipalFor returns the principal for a fixture user.
func PrincipalFor(u models.User) *auth.Principal {
	return auth.PrincipalFromUser(u)
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

// NewJSONRequest creates a request with a JSON body.
func NewJSONRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	r := httptest.NewRequest(method, target, bytes.NewReader(data))
	r.Header.Set("Content-Type", "application/json")
	return r
}

// FormFile is a file part for NewMultipartRequest.
type FormFile struct {
	Field    string
	Filename string
	Data     []byte
}

// NewMultipartRequest creates a multipart/form-data request.
func NewMultipartRequest(t *testing.T, method, target string, fields map[string]string, files ...FormFile) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	for _, f := range files {
		fw, err := mw.CreateFormFile(f.Field, f.Filename)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		fw.Write(f.Data)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	r := httptest.NewRequest(method, target, &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	return r
}

// PNG returns an encoded w×h PNG.
func PNG(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

// PDF returns a minimal PDF byte string.
func PDF() []byte {
	return []byte("%PDF-1.4\n1 0 obj<<>>endobj\ntrailer<<>>\n%%EOF\n")
}

// ResponseRecorder wraps httptest.ResponseRecorder with helper methods.
type ResponseRecorder struct {
	*httptest.ResponseRecorder
}

// NewRecorder creates a new ResponseRecorder.
func NewRecorder() *ResponseRecorder {
	return &ResponseRecorder{httptest.NewRecorder()}
}

// AssertStatus checks the response status code.
func (r *ResponseRecorder) AssertStatus(t interface{ Errorf(string, ...any) }, expected int) {
	if r.Code != expected {
		t.Errorf("status code: got %d, want %d (body %s)", r.Code, expected, r.Body.String())
	}
}

// AssertContains checks if the response body contains the expected string.
func (r *ResponseRecorder) AssertContains(t interface{ Errorf(string, ...any) }, expected string) {
	if !strings.Contains(r.Body.String(), expected) {
		t.Errorf("response body does not contain %q", expected)
	}
}

// Envelope is the decoded JSON response envelope.
type Envelope struct {
	Success     bool            `json:"success"`
	Message     string          `json:"message"`
	StatusCode  int             `json:"statusCode"`
	Count       int             `json:"count"`
	Total       int64           `json:"total"`
	Pages       int             `json:"pages"`
	CurrentPage int             `json:"currentPage"`
	Data        json.RawMessage `json:"data"`
}

// Envelope decodes the body. Data is left raw; use DecodeData.
func (r *ResponseRecorder) Envelope(t *testing.T) Envelope {
	t.Helper()
	var env Envelope
	if err := json.Unmarshal(r.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (body %s)", err, r.Body.String())
	}
	return env
}

// DecodeData unmarshals the envelope's data into dst.
func (r *ResponseRecorder) DecodeData(t *testing.T, dst any) {
	t.Helper()
	env := r.Envelope(t)
	if err := json.Unmarshal(env.Data, dst); err != nil {
		t.Fatalf("decode data: %v (data %s)", err, env.Data)
	}
}
