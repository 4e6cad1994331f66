package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Dosada05/league-tracker/models"
)

var (
	ErrLeagueNotFound  = errors.New("league record not found")
	ErrMalformedRecord = errors.New("malformed league record")
	ErrInvalidName     = errors.New("invalid league name")
)

// LeagueStore persists whole league snapshots. Implementations restore tallies
// from the stored counters and never replay match results.
type LeagueStore interface {
	Save(ctx context.Context, league *models.League) error
	Load(ctx context.Context, name string) (*models.League, error)
	List(ctx context.Context) ([]string, error)
}

// RecordKey is the identifier a league is stored under: the name with spaces
// replaced by underscores.
func RecordKey(name string) string {
	return strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
}

// ValidateLeagueName rejects names that cannot be used as a record key.
func ValidateLeagueName(name string) error {
	key := RecordKey(name)
	switch {
	case key == "":
		return fmt.Errorf("%w: name is required", ErrInvalidName)
	case key == "." || key == "..":
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	case strings.ContainsAny(key, `/\`):
		return fmt.Errorf("%w: %q must not contain path separators", ErrInvalidName, name)
	}
	return nil
}
