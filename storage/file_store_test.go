package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore(t *testing.T) {
	for _, codec := range []Codec{JSONCodec{}, YAMLCodec{}} {
		t.Run(codec.Extension(), func(t *testing.T) {
			ctx := context.Background()
			dir := t.TempDir()
			store, err := NewFileStore(dir, codec)
			require.NoError(t, err)

			want := sampleLeague(t)
			require.NoError(t, store.Save(ctx, want))
			assert.FileExists(t, filepath.Join(dir, "Spring_Cup"+codec.Extension()))

			got, err := store.Load(ctx, "Spring Cup")
			require.NoError(t, err)
			assertSameLeague(t, want, got)

			byKey, err := store.Load(ctx, "Spring_Cup"+codec.Extension())
			require.NoError(t, err)
			assert.Equal(t, want.Name, byKey.Name)

			keys, err := store.List(ctx)
			require.NoError(t, err)
			assert.Equal(t, []string{"Spring_Cup"}, keys)
		})
	}
}

func TestFileStoreOverwritesSnapshot(t *testing.T) {
	ctx := context.Background()
	store, err := NewFileStore(t.TempDir(), JSONCodec{})
	require.NoError(t, err)

	l := sampleLeague(t)
	require.NoError(t, store.Save(ctx, l))
	l.NextRound()
	require.NoError(t, store.Save(ctx, l))

	got, err := store.Load(ctx, l.Name)
	require.NoError(t, err)
	assert.Equal(t, 2, got.CurrentRound)

	entries, err := os.ReadDir(store.dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestFileStoreErrors(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewFileStore(dir, JSONCodec{})
	require.NoError(t, err)

	_, err = store.Load(ctx, "missing")
	assert.ErrorIs(t, err, ErrLeagueNotFound)

	_, err = store.Load(ctx, "../outside")
	assert.ErrorIs(t, err, ErrInvalidName)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte(`{"name": `), 0o644))
	_, err = store.Load(ctx, "broken")
	assert.ErrorIs(t, err, ErrMalformedRecord)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	keys, err := store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"broken"}, keys)
}

func TestCodecFor(t *testing.T) {
	c, err := CodecFor("YAML")
	require.NoError(t, err)
	assert.Equal(t, ".yaml", c.Extension())

	c, err = CodecFor("")
	require.NoError(t, err)
	assert.Equal(t, ".json", c.Extension())

	_, err = CodecFor("xml")
	assert.Error(t, err)
}

func TestFileStoreRejectsSnapshotUnderForeignKey(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewFileStore(dir, JSONCodec{})
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, sampleLeague(t)))

	data, err := os.ReadFile(filepath.Join(dir, "Spring_Cup.json"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "foo.json"), data, 0o644))

	_, err = store.Load(ctx, "foo")
	require.ErrorIs(t, err, ErrMalformedRecord)
	assert.Contains(t, err.Error(), "Spring_Cup")

	got, err := store.Load(ctx, "Spring Cup")
	require.NoError(t, err)
	assert.Equal(t, "Spring Cup", got.Name)
}

func TestFileStoreRejectsTrailingData(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := NewFileStore(dir, JSONCodec{})
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, sampleLeague(t)))

	path := filepath.Join(dir, "Spring_Cup.json")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, append(data, []byte(`{"name": "Spring Cup"}`)...), 0o644))

	_, err = store.Load(ctx, "Spring Cup")
	assert.ErrorIs(t, err, ErrMalformedRecord)
}
