package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/Dosada05/league-tracker/models"
	"golang.org/x/sync/errgroup"
)

// MirrorStore writes every snapshot to a primary store and its mirrors. Reads
// are served by the primary.
type MirrorStore struct {
	primary LeagueStore
	mirrors []LeagueStore
}

func NewMirrorStore(primary LeagueStore, mirrors ...LeagueStore) (*MirrorStore, error) {
	if primary == nil {
		return nil, errors.New("mirror store needs a primary backend")
	}
	return &MirrorStore{primary: primary, mirrors: mirrors}, nil
}

// Save writes to all backends concurrently. The league must not be mutated
// until Save returns.
func (m *MirrorStore) Save(ctx context.Context, league *models.League) error {
	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := m.primary.Save(gCtx, league); err != nil {
			return fmt.Errorf("primary store: %w", err)
		}
		return nil
	})
	for i, mirror := range m.mirrors {
		i, mirror := i, mirror
		g.Go(func() error {
			if err := mirror.Save(gCtx, league); err != nil {
				return fmt.Errorf("mirror store %d: %w", i+1, err)
			}
			return nil
		})
	}

	return g.Wait()
}

func (m *MirrorStore) Load(ctx context.Context, name string) (*models.League, error) {
	return m.primary.Load(ctx, name)
}

func (m *MirrorStore) List(ctx context.Context) ([]string, error) {
	return m.primary.List(ctx)
}
