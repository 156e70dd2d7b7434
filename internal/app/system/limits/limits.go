// internal/app/system/limits/limits.go
package limits

import "net/http"

// Request body size limits.
const (
	// MaxJSONBody caps non-multipart request bodies.
	MaxJSONBody = 1 << 20 // 1 MB

	// DefaultUploadBytes is the per-file upload cap.
	DefaultUploadBytes = 10 << 20 // 10 MB

	// Default box uploaded raster images are fitted within.
	DefaultImageWidth  = 1200
	DefaultImageHeight = 800
)

// Uploads holds the configured upload limits handed to every handler that
// accepts files.
type Uploads struct {
	MaxBytes  int64 // per file
	MaxWidth  int
	MaxHeight int
}

// Defaults returns the built-in upload limits.
func Defaults() Uploads {
	return Uploads{MaxBytes: DefaultUploadBytes, MaxWidth: DefaultImageWidth, MaxHeight: DefaultImageHeight}
}

// FileCap returns the per-file cap, falling back to DefaultUploadBytes.
func (u Uploads) FileCap() int64 {
	if u.MaxBytes <= 0 {
		return DefaultUploadBytes
	}
	return u.MaxBytes
}

// BodyCap is the largest request body accepted from a form carrying up to
// files uploads plus ordinary fields.
func (u Uploads) BodyCap(files int) int64 {
	if files < 1 {
		files = 1
	}
	return u.FileCap()*int64(files) + MaxJSONBody
}

// MaxBody wraps the request body in http.MaxBytesReader. Reads past n fail
// with *http.MaxBytesError, which formdecode reports as a 400.
func MaxBody(n int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, n)
			}
			next.ServeHTTP(w, r)
		})
	}
}
