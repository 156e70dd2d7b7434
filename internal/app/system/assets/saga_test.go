package assets

import (
	"context"
	"errors"
	"testing"

	"github.com/dalemusser/collegesite/internal/domain/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeDelegate struct {
	n         int
	deleted   []string
	deleteErr error
	storeErr  error
}

func (f *fakeDelegate) Store(ctx context.Context, up Upload, opts Options) (Stored, error) {
	if f.storeErr != nil {
		return Stored{}, f.storeErr
	}
	f.n++
	id := objectKey(opts.Folder, "png")
	return Stored{URL: "/uploads/" + id, ExternalID: id, ResourceType: ResourceImage}, nil
}

func (f *fakeDelegate) Delete(ctx context.Context, externalID string, _ ResourceType) error {
	f.deleted = append(f.deleted, externalID)
	return f.deleteErr
}

type fakeSink struct{ refs []models.AssetRef }

func (s *fakeSink) Record(ctx context.Context, ref models.AssetRef, reason string, cause error) error {
	s.refs = append(s.refs, ref)
	return nil
}

func TestReplace_DiscardsOldAfterSave(t *testing.T) {
	d := &fakeDelegate{}
	old := &models.AssetRef{URL: "/uploads/blog/old.png", ExternalID: "blog/old.png"}

	var saved models.AssetRef
	s, err := Replace(context.Background(), d, nil, zap.NewNop(), old, Upload{Filename: "n.png"}, BlogFolder,
		func(ctx context.Context, ref models.AssetRef) error {
			// The old object must still exist while the record is saved.
			assert.Empty(t, d.deleted)
			saved = ref
			return nil
		})
	require.NoError(t, err)
	assert.Equal(t, s.ExternalID, saved.ExternalID)
	assert.Equal(t, []string{"blog/old.png"}, d.deleted)
}

func TestReplace_SaveFailureDiscardsNew(t *testing.T) {
	d := &fakeDelegate{}
	old := &models.AssetRef{ExternalID: "blog/old.png"}
	saveErr := errors.New("write conflict")

	var newID string
	_, err := Replace(context.Background(), d, nil, zap.NewNop(), old, Upload{Filename: "n.png"}, BlogFolder,
		func(ctx context.Context, ref models.AssetRef) error {
			newID = ref.ExternalID
			return saveErr
		})
	require.ErrorIs(t, err, saveErr)
	assert.Equal(t, []string{newID}, d.deleted, "only the new object is discarded")
}

func TestReplace_StoreFailureTouchesNothing(t *testing.T) {
	d := &fakeDelegate{storeErr: &DelegateError{Op: "store", Err: errors.New("down")}}
	called := false
	_, err := Replace(context.Background(), d, nil, zap.NewNop(), &models.AssetRef{ExternalID: "x"}, Upload{}, BlogFolder,
		func(ctx context.Context, ref models.AssetRef) error { called = true; return nil })
	require.Error(t, err)
	assert.False(t, called)
	assert.Empty(t, d.deleted)
}

func TestDiscard_RecordsOrphanOnFailure(t *testing.T) {
	d := &fakeDelegate{deleteErr: errors.New("timeout")}
	sink := &fakeSink{}
	ref := &models.AssetRef{ExternalID: "notices/a.png"}

	ok := Discard(context.Background(), d, sink, zap.NewNop(), ref, "notice delete")
	assert.False(t, ok)
	require.Len(t, sink.refs, 1)
	assert.Equal(t, "notices/a.png", sink.refs[0].ExternalID)

	// Zero refs are ignored.
	assert.True(t, Discard(context.Background(), d, sink, zap.NewNop(), nil, "noop"))
	assert.Len(t, d.deleted, 1)
}

func TestBatch_Rollback(t *testing.T) {
	d := &fakeDelegate{}
	b := NewBatch(d, nil, zap.NewNop())
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := b.Store(ctx, Upload{Filename: "doc.png"}, AdmissionsFolder)
		require.NoError(t, err)
	}
	require.Len(t, b.Stored(), 3)

	b.Rollback(ctx, "admission insert failed")
	assert.Len(t, d.deleted, 3)
	assert.Empty(t, b.Stored())
}
