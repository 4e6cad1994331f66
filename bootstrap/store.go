// Package bootstrap builds the league store stack shared by the server and
// leaguectl from the loaded configuration.
package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/league-tracker/config"
	"github.com/Dosada05/league-tracker/db"
	"github.com/Dosada05/league-tracker/repositories"
	"github.com/Dosada05/league-tracker/storage"
)

// Stores is the opened store stack. Close releases the database connection
// when postgres is in use.
type Stores struct {
	Store storage.LeagueStore
	db    *sql.DB
}

func (s *Stores) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// OpenStores opens every backend listed in cfg.StorageBackends. The first
// backend serves loads; saves go to all of them.
func OpenStores(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Stores, error) {
	codec, err := storage.CodecFor(cfg.StorageFormat)
	if err != nil {
		return nil, err
	}

	stores := &Stores{}
	backends := make([]storage.LeagueStore, 0, len(cfg.StorageBackends))
	for _, name := range cfg.StorageBackends {
		var backend storage.LeagueStore
		switch name {
		case config.BackendFile:
			backend, err = storage.NewFileStore(cfg.DataDir, codec)

		case config.BackendPostgres:
			if stores.db == nil {
				stores.db, err = db.Connect(cfg.DatabaseURL, 5*time.Second, logger)
				if err != nil {
					break
				}
				if err = db.Migrate(ctx, stores.db); err != nil {
					err = fmt.Errorf("failed to migrate database: %w", err)
					break
				}
			}
			backend = repositories.NewLeagueRepository(stores.db, logger)

		case config.BackendR2:
			backend, err = storage.NewR2Store(ctx, storage.R2Config{
				AccountID:       cfg.R2AccountID,
				AccessKeyID:     cfg.R2AccessKeyID,
				SecretAccessKey: cfg.R2SecretAccessKey,
				BucketName:      cfg.R2BucketName,
				Prefix:          cfg.R2Prefix,
			}, codec)

		default:
			err = fmt.Errorf("unknown storage backend %q", name)
		}
		if err != nil {
			stores.Close()
			return nil, fmt.Errorf("storage backend %s: %w", name, err)
		}
		logger.Info("storage backend ready", slog.String("backend", name))
		backends = append(backends, backend)
	}

	if len(backends) == 1 {
		stores.Store = backends[0]
		return stores, nil
	}
	mirror, err := storage.NewMirrorStore(backends[0], backends[1:]...)
	if err != nil {
		stores.Close()
		return nil, err
	}
	stores.Store = mirror
	return stores, nil
}
