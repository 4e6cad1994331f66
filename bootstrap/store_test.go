package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/Dosada05/league-tracker/config"
	"github.com/Dosada05/league-tracker/models"
	"github.com/Dosada05/league-tracker/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestOpenStoresFileBackend(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "leagues")
	cfg := &config.Config{
		StorageBackends: []string{config.BackendFile},
		DataDir:         dir,
		StorageFormat:   "yaml",
	}

	stores, err := OpenStores(context.Background(), cfg, discard)
	require.NoError(t, err)
	defer stores.Close()
	assert.IsType(t, &storage.FileStore{}, stores.Store)

	require.NoError(t, stores.Store.Save(context.Background(), models.NewLeague("Autumn Cup")))
	_, err = os.Stat(filepath.Join(dir, "Autumn_Cup.yaml"))
	assert.NoError(t, err)
}

func TestOpenStoresMirrors(t *testing.T) {
	cfg := &config.Config{
		StorageBackends: []string{config.BackendFile, config.BackendFile},
		DataDir:         t.TempDir(),
		StorageFormat:   "json",
	}

	stores, err := OpenStores(context.Background(), cfg, discard)
	require.NoError(t, err)
	assert.IsType(t, &storage.MirrorStore{}, stores.Store)
	assert.NoError(t, stores.Close())
}

func TestOpenStoresErrors(t *testing.T) {
	_, err := OpenStores(context.Background(), &config.Config{
		StorageBackends: []string{config.BackendFile, "tape"},
		DataDir:         t.TempDir(),
		StorageFormat:   "json",
	}, discard)
	assert.ErrorContains(t, err, `unknown storage backend "tape"`)

	_, err = OpenStores(context.Background(), &config.Config{
		StorageBackends: []string{config.BackendFile},
		DataDir:         t.TempDir(),
		StorageFormat:   "csv",
	}, discard)
	assert.Error(t, err)

	_, err = OpenStores(context.Background(), &config.Config{
		StorageBackends: []string{config.BackendR2},
		StorageFormat:   "json",
	}, discard)
	assert.ErrorContains(t, err, "storage backend r2")
}
