package repositories

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/Dosada05/league-tracker/db"
	"github.com/Dosada05/league-tracker/models"
	"github.com/Dosada05/league-tracker/storage"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlePQError(t *testing.T) {
	err := handlePQError(&pq.Error{Code: "23505", Constraint: "leagues_pkey"})
	assert.ErrorIs(t, err, ErrLeagueConflict)
	assert.Contains(t, err.Error(), "leagues_pkey")

	err = handlePQError(&pq.Error{Code: "23503", Constraint: "players_league_key_team_id_fkey"})
	assert.ErrorIs(t, err, ErrReferenceInvalid)

	other := errors.New("connection reset")
	assert.Equal(t, other, handlePQError(other))
	assert.NoError(t, handlePQError(nil))
}

func openTestDB(t *testing.T) *LeagueRepository {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	conn, err := db.Connect(dsn, 5*time.Second, logger)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, db.Migrate(context.Background(), conn))
	return NewLeagueRepository(conn, logger)
}

func TestLeagueRepositoryRoundTrip(t *testing.T) {
	repo := openTestDB(t)
	ctx := context.Background()

	l := models.NewLeague("Repo Test " + time.Now().Format("150405.000000"))
	red := models.NewTeam("red", "Red")
	red.AddPlayer(models.NewPlayer("kim", "Kim"))
	l.AddTeam(red)
	l.AddTeam(models.NewTeam("blue", "Blue"))
	m, err := l.CreateMatch("red", "blue")
	require.NoError(t, err)
	require.NoError(t, m.SetScore(3, 3))
	require.NoError(t, m.AddPlayerResult("kim", models.Draw))

	require.NoError(t, repo.Save(ctx, l))
	// A second save replaces the snapshot instead of duplicating rows.
	require.NoError(t, repo.Save(ctx, l))

	got, err := repo.Load(ctx, l.Name)
	require.NoError(t, err)
	assert.Equal(t, l.Name, got.Name)
	require.Len(t, got.Matches, 1)
	assert.Equal(t, m.ID, got.Matches[0].ID)
	assert.Equal(t, models.Draw, got.Matches[0].PlayerResults["kim"])
	gotRed, _ := got.Team("red")
	assert.Equal(t, 1, gotRed.Draws)
	assert.Equal(t, 3, gotRed.GoalsFor)

	keys, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, keys, storage.RecordKey(l.Name))

	_, err = repo.Load(ctx, "no such league")
	assert.ErrorIs(t, err, storage.ErrLeagueNotFound)
}
