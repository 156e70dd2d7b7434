package assets

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Local stores objects under a directory on disk. The external id is the
// object's slash-separated path relative to Dir; URLs are BaseURL + "/" + id.
type Local struct {
	Dir     string
	BaseURL string
}

// NewLocal creates dir if needed.
func NewLocal(dir, baseURL string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create asset dir: %w", err)
	}
	return &Local{Dir: dir, BaseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (l *Local) Store(ctx context.Context, up Upload, opts Options) (Stored, error) {
	p, err := Prepare(up, opts)
	if err != nil {
		return Stored{}, err
	}
	if err := ctx.Err(); err != nil {
		return Stored{}, &DelegateError{Op: "store", Err: err}
	}

	id := objectKey(opts.Folder, p.Format)
	full, err := l.resolve(id)
	if err != nil {
		return Stored{}, &DelegateError{Op: "store", Err: err}
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return Stored{}, &DelegateError{Op: "store", Err: err}
	}
	if err := os.WriteFile(full, p.Data, 0o644); err != nil {
		return Stored{}, &DelegateError{Op: "store", Err: err}
	}

	return Stored{
		URL:          l.BaseURL + "/" + id,
		ExternalID:   id,
		Format:       p.Format,
		MIME:         p.MIME,
		Bytes:        int64(len(p.Data)),
		Width:        p.Width,
		Height:       p.Height,
		ResourceType: p.ResourceType,
	}, nil
}

// Delete removes the object. A missing object is not an error.
func (l *Local) Delete(ctx context.Context, externalID string, _ ResourceType) error {
	full, err := l.resolve(externalID)
	if err != nil {
		return &DelegateError{Op: "delete", Err: err}
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &DelegateError{Op: "delete", Err: err}
	}
	return nil
}

// resolve maps an external id to a path inside Dir, rejecting ids that
// would escape it.
func (l *Local) resolve(id string) (string, error) {
	clean := path.Clean("/" + id)
	if clean == "/" {
		return "", fmt.Errorf("empty object id")
	}
	return filepath.Join(l.Dir, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}

func objectKey(folder, format string) string {
	name := uuid.NewString()
	if format != "" {
		name += "." + format
	}
	if folder == "" {
		return name
	}
	return strings.Trim(folder, "/") + "/" + name
}
