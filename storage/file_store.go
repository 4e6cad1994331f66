package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Dosada05/league-tracker/models"
)

// FileStore keeps one file per league in a directory.
type FileStore struct {
	dir   string
	codec Codec
}

func NewFileStore(dir string, codec Codec) (*FileStore, error) {
	if dir == "" {
		return nil, errors.New("file store directory is required")
	}
	if codec == nil {
		codec = JSONCodec{}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", dir, err)
	}
	return &FileStore{dir: dir, codec: codec}, nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, key+s.codec.Extension())
}

// Save writes the snapshot to a temp file and renames it into place so a
// failed write never truncates the previous snapshot.
func (s *FileStore) Save(ctx context.Context, league *models.League) error {
	if err := ValidateLeagueName(league.Name); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	key := RecordKey(league.Name)

	tmp, err := os.CreateTemp(s.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file for league %s: %w", key, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := EncodeLeague(s.codec, tmp, league); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode league %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write league %s: %w", key, err)
	}
	if err := os.Rename(tmpName, s.path(key)); err != nil {
		return fmt.Errorf("failed to store league %s: %w", key, err)
	}
	return nil
}

// Load accepts the league name or its key, with or without the extension.
func (s *FileStore) Load(ctx context.Context, name string) (*models.League, error) {
	if err := ValidateLeagueName(name); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := RecordKey(strings.TrimSuffix(name, s.codec.Extension()))

	f, err := os.Open(s.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrLeagueNotFound, key)
		}
		return nil, fmt.Errorf("failed to open league %s: %w", key, err)
	}
	defer f.Close()

	return decodeStored(s.codec, f, key)
}

func (s *FileStore) List(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.dir, err)
	}

	ext := s.codec.Extension()
	keys := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ext) {
			continue
		}
		keys = append(keys, strings.TrimSuffix(e.Name(), ext))
	}
	sort.Strings(keys)
	return keys, nil
}
