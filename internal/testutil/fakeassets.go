package testutil

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dalemusser/collegesite/internal/app/system/assets"
	"github.com/dalemusser/collegesite/internal/domain/models"
	"github.com/google/uuid"
)

// FakeAssets is an in-memory assets.Delegate that records every call.
type FakeAssets struct {
	mu sync.Mutex

	// StoreErr, when set, fails every Store after format checks pass.
	StoreErr error
	// StoreErrAfter fails Store calls once this many have succeeded (0 = never).
	StoreErrAfter int
	// DeleteErr fails every Delete; DeleteErrFor fails deletes of specific ids.
	DeleteErr    error
	DeleteErrFor map[string]error

	Stored  []assets.Stored
	Deleted []string
	objects map[string]bool
}

func NewFakeAssets() *FakeAssets {
	return &FakeAssets{objects: map[string]bool{}}
}

func (f *FakeAssets) Store(_ context.Context, up assets.Upload, opts assets.Options) (assets.Stored, error) {
	p, err := assets.Prepare(up, opts)
	if err != nil {
		return assets.Stored{}, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.StoreErr != nil {
		return assets.Stored{}, &assets.DelegateError{Op: "store", Err: f.StoreErr}
	}
	if f.StoreErrAfter > 0 && len(f.Stored) >= f.StoreErrAfter {
		return assets.Stored{}, &assets.DelegateError{Op: "store", Err: errors.New("fake store failure")}
	}

	id := strings.Trim(opts.Folder, "/") + "/" + uuid.NewString() + "." + p.Format
	s := assets.Stored{
		URL:          "https://assets.test/" + id,
		ExternalID:   id,
		Format:       p.Format,
		MIME:         p.MIME,
		Bytes:        int64(len(p.Data)),
		Width:        p.Width,
		Height:       p.Height,
		ResourceType: p.ResourceType,
	}
	f.Stored = append(f.Stored, s)
	f.objects[id] = true
	return s, nil
}

func (f *FakeAssets) Delete(_ context.Context, externalID string, _ assets.ResourceType) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Deleted = append(f.Deleted, externalID)
	if err := f.DeleteErrFor[externalID]; err != nil {
		return &assets.DelegateError{Op: "delete", Err: err}
	}
	if f.DeleteErr != nil {
		return &assets.DelegateError{Op: "delete", Err: f.DeleteErr}
	}
	delete(f.objects, externalID)
	return nil
}

// Live returns the ids stored and not yet deleted.
func (f *FakeAssets) Live() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.objects))
	for id := range f.objects {
		out = append(out, id)
	}
	return out
}

// DeleteCount returns how many Delete calls named externalID.
func (f *FakeAssets) DeleteCount(externalID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, id := range f.Deleted {
		if id == externalID {
			n++
		}
	}
	return n
}

// Seed marks externalID as an existing object and returns its ref.
func (f *FakeAssets) Seed(folder string) models.AssetRef {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := fmt.Sprintf("%s/%s.png", folder, uuid.NewString())
	f.objects[id] = true
	return models.AssetRef{URL: "https://assets.test/" + id, ExternalID: id, ResourceType: string(assets.ResourceImage)}
}

// FakeOrphans is an in-memory assets.OrphanSink.
type FakeOrphans struct {
	mu   sync.Mutex
	Refs []models.AssetRef
}

func (f *FakeOrphans) Record(_ context.Context, ref models.AssetRef, _ string, _ error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Refs = append(f.Refs, ref)
	return nil
}
