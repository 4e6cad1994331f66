package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/Dosada05/league-tracker/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct{ err error }

func (s failingStore) Save(context.Context, *models.League) error { return s.err }
func (s failingStore) Load(context.Context, string) (*models.League, error) {
	return nil, s.err
}
func (s failingStore) List(context.Context) ([]string, error) { return nil, s.err }

func TestMirrorStoreWritesEveryBackend(t *testing.T) {
	ctx := context.Background()
	primary, err := NewFileStore(t.TempDir(), JSONCodec{})
	require.NoError(t, err)
	bucket := newFakeBucket()
	mirror := newR2Store(bucket, "leagues", "", JSONCodec{})

	store, err := NewMirrorStore(primary, mirror)
	require.NoError(t, err)

	want := sampleLeague(t)
	require.NoError(t, store.Save(ctx, want))
	assert.Contains(t, bucket.objects, "Spring_Cup.json")

	got, err := store.Load(ctx, want.Name)
	require.NoError(t, err)
	assertSameLeague(t, want, got)

	keys, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Spring_Cup"}, keys)
}

func TestMirrorStoreReportsMirrorFailure(t *testing.T) {
	primary, err := NewFileStore(t.TempDir(), JSONCodec{})
	require.NoError(t, err)
	offline := errors.New("offline")

	store, err := NewMirrorStore(primary, failingStore{err: offline})
	require.NoError(t, err)

	err = store.Save(context.Background(), sampleLeague(t))
	require.ErrorIs(t, err, offline)
	assert.Contains(t, err.Error(), "mirror store 1")
}

func TestNewMirrorStoreNeedsPrimary(t *testing.T) {
	_, err := NewMirrorStore(nil)
	assert.Error(t, err)
}
