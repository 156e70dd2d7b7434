// Package formdecode is the decode step between an HTTP request and a typed
// command. It reads JSON, urlencoded and multipart bodies through one API so
// handlers do not care which encoding the client used.
//
// Multipart submissions carry everything as strings; the typed accessors
// parse them and return an inputval error (400) on a shape mismatch instead of
// coercing silently.
package formdecode

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/collegesite/internal/app/system/assets"
	"github.com/dalemusser/collegesite/internal/app/system/inputval"
)

// DefaultMaxMemory is the multipart memory threshold before parts spill to
// temporary files.
const DefaultMaxMemory = 10 << 20

// Values is a decoded request body.
type Values struct {
	form  url.Values
	files map[string][]*multipart.FileHeader
	json  map[string]json.RawMessage
}

// Parse decodes r's body according to its Content-Type.
func Parse(r *http.Request, maxMemory int64) (*Values, error) {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch ct {
	case "application/json":
		v := &Values{json: map[string]json.RawMessage{}}
		data, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, fmt.Errorf("read body: %w", err)
		}
		if len(bytes.TrimSpace(data)) == 0 {
			return v, nil
		}
		if err := json.Unmarshal(data, &v.json); err != nil {
			return nil, inputval.Fail("body", "Request body must be a JSON object")
		}
		return v, nil
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxMemory); err != nil {
			var mbe *http.MaxBytesError
			if errors.As(err, &mbe) {
				return nil, inputval.Fail("body", "Request body is too large")
			}
			return nil, inputval.Fail("body", "Malformed multipart form")
		}
		return &Values{form: r.MultipartForm.Value, files: r.MultipartForm.File}, nil
	default:
		if err := r.ParseForm(); err != nil {
			return nil, inputval.Fail("body", "Malformed form body")
		}
		return &Values{form: r.PostForm}, nil
	}
}

// Has reports whether key was sent (even if empty).
func (v *Values) Has(key string) bool {
	if v.json != nil {
		_, ok := v.json[key]
		return ok
	}
	_, ok := v.form[key]
	return ok
}

// raw returns the textual value of key. JSON strings are unquoted; other JSON
// scalars are returned verbatim; null is treated as absent.
func (v *Values) raw(key string) (string, bool) {
	if v.json != nil {
		rm, ok := v.json[key]
		if !ok || string(rm) == "null" {
			return "", false
		}
		var s string
		if err := json.Unmarshal(rm, &s); err == nil {
			return s, true
		}
		return string(rm), true
	}
	vals, ok := v.form[key]
	if !ok || len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}

// String returns the trimmed value of key, or "".
func (v *Values) String(key string) string {
	s, _ := v.raw(key)
	return strings.TrimSpace(s)
}

// OptString returns nil when key is absent, otherwise its trimmed value.
func (v *Values) OptString(key string) *string {
	s, ok := v.raw(key)
	if !ok {
		return nil
	}
	s = strings.TrimSpace(s)
	return &s
}

// Strings returns every value for key. A JSON array of strings or a single
// string are both accepted.
func (v *Values) Strings(key string) []string {
	if v.json != nil {
		rm, ok := v.json[key]
		if !ok {
			return nil
		}
		var arr []string
		if err := json.Unmarshal(rm, &arr); err == nil {
			return arr
		}
		if s, ok := v.raw(key); ok {
			return []string{s}
		}
		return nil
	}
	return v.form[key]
}

// Bool parses true/false, 1/0, on/off and yes/no. Absent or empty → nil.
func (v *Values) Bool(key string) (*bool, error) {
	s, ok := v.raw(key)
	s = strings.ToLower(strings.TrimSpace(s))
	if !ok || s == "" {
		return nil, nil
	}
	var b bool
	switch s {
	case "true", "1", "on", "yes":
		b = true
	case "false", "0", "off", "no":
		b = false
	default:
		return nil, inputval.Fail(key, key+" must be true or false")
	}
	return &b, nil
}

// Int parses a base-10 integer. Absent or empty → nil.
func (v *Values) Int(key string) (*int, error) {
	s, ok := v.raw(key)
	s = strings.TrimSpace(s)
	if !ok || s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, inputval.Fail(key, key+" must be a whole number")
	}
	return &n, nil
}

// Float parses a decimal number. Absent or empty → nil.
func (v *Values) Float(key string) (*float64, error) {
	s, ok := v.raw(key)
	s = strings.TrimSpace(s)
	if !ok || s == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, inputval.Fail(key, key+" must be a number")
	}
	return &f, nil
}

// Time parses YYYY-MM-DD or RFC 3339. Absent or empty → nil.
func (v *Values) Time(key string) (*time.Time, error) {
	s, ok := v.raw(key)
	s = strings.TrimSpace(s)
	if !ok || s == "" {
		return nil, nil
	}
	t, err := ParseTime(s)
	if err != nil {
		return nil, inputval.Fail(key, key+" must be a date (YYYY-MM-DD)")
	}
	return &t, nil
}

// ParseTime accepts YYYY-MM-DD or RFC 3339.
func ParseTime(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// Object decodes the sub-object key into dst. It accepts a native JSON
// object, a JSON-encoded string, or bracketed form fields (key[field]).
// Empty bracketed fields are skipped. Reports whether anything was found.
func (v *Values) Object(key string, dst any) (bool, error) {
	var data []byte

	if v.json != nil {
		rm, ok := v.json[key]
		if !ok || string(rm) == "null" {
			return false, nil
		}
		var s string
		if err := json.Unmarshal(rm, &s); err == nil {
			data = []byte(s)
		} else {
			data = rm
		}
	} else if vals, ok := v.form[key]; ok && len(vals) > 0 && strings.TrimSpace(vals[0]) != "" {
		data = []byte(vals[0])
	} else {
		fields := map[string]string{}
		prefix := key + "["
		for k, vals := range v.form {
			if !strings.HasPrefix(k, prefix) || !strings.HasSuffix(k, "]") || len(vals) == 0 {
				continue
			}
			if s := strings.TrimSpace(vals[0]); s != "" {
				fields[k[len(prefix):len(k)-1]] = s
			}
		}
		if len(fields) == 0 {
			return false, nil
		}
		data, _ = json.Marshal(fields)
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return true, inputval.Fail(key, fmt.Sprintf("Invalid %s data", key))
	}
	return true, nil
}

// File reads the first file sent under key. Absent → nil. Files larger than
// max bytes are rejected with a validation error.
func (v *Values) File(key string, max int64) (*assets.Upload, error) {
	fhs := v.files[key]
	if len(fhs) == 0 {
		return nil, nil
	}
	fh := fhs[0]
	if max > 0 && fh.Size > max {
		return nil, inputval.Fail(key, fmt.Sprintf("%s exceeds the %d MB upload limit", fh.Filename, max>>20))
	}
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload %q: %w", key, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read upload %q: %w", key, err)
	}
	if len(data) == 0 {
		return nil, inputval.Fail(key, fmt.Sprintf("%s is empty", fh.Filename))
	}
	return &assets.Upload{Filename: fh.Filename, Data: data}, nil
}
