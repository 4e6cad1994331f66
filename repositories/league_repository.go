package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/league-tracker/models"
	"github.com/Dosada05/league-tracker/storage"
)

// LeagueRepository stores league snapshots in Postgres. It implements
// storage.LeagueStore.
type LeagueRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewLeagueRepository(db *sql.DB, logger *slog.Logger) *LeagueRepository {
	return &LeagueRepository{db: db, logger: logger}
}

// Save replaces every row of the league in one transaction.
func (r *LeagueRepository) Save(ctx context.Context, league *models.League) (err error) {
	if err := storage.ValidateLeagueName(league.Name); err != nil {
		return err
	}
	key := storage.RecordKey(league.Name)
	rec := storage.ToRecord(league)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				r.logger.Error("rollback failed", slog.String("league", key), slog.Any("error", rbErr))
			}
		} else if cErr := tx.Commit(); cErr != nil {
			err = fmt.Errorf("failed to commit league %s: %w", key, cErr)
		}
	}()

	if err = r.writeRecord(ctx, tx, key, rec); err != nil {
		return fmt.Errorf("failed to save league %s: %w", key, err)
	}
	r.logger.Debug("league saved to postgres", slog.String("league", key), slog.Int("matches", len(rec.Matches)))
	return nil
}

func (r *LeagueRepository) writeRecord(ctx context.Context, exec SQLExecutor, key string, rec storage.LeagueRecord) error {
	_, err := exec.ExecContext(ctx, `
		INSERT INTO leagues (record_key, name, current_round, updated_at)
		VALUES ($1, $2, $3, now())
		ON CONFLICT (record_key) DO UPDATE
		SET name = EXCLUDED.name, current_round = EXCLUDED.current_round, updated_at = now()`,
		key, rec.Name, rec.CurrentRound)
	if err != nil {
		return handlePQError(err)
	}

	// Children cascade from teams and matches.
	if _, err := exec.ExecContext(ctx, `DELETE FROM matches WHERE league_key = $1`, key); err != nil {
		return handlePQError(err)
	}
	if _, err := exec.ExecContext(ctx, `DELETE FROM teams WHERE league_key = $1`, key); err != nil {
		return handlePQError(err)
	}

	for _, t := range rec.Teams {
		_, err := exec.ExecContext(ctx, `
			INSERT INTO teams (league_key, id, name, matches_played, wins, losses, draws, goals_for, goals_against)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
			key, t.ID, t.Name, t.MatchesPlayed, t.Wins, t.Losses, t.Draws, t.GoalsFor, t.GoalsAgainst)
		if err != nil {
			return fmt.Errorf("team %s: %w", t.ID, handlePQError(err))
		}
		for _, p := range t.Players {
			_, err := exec.ExecContext(ctx, `
				INSERT INTO players (league_key, id, team_id, name, position, age, matches_played, wins, losses, draws)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
				key, p.ID, t.ID, p.Name, nullString(p.Position), nullInt(p.Age),
				p.MatchesPlayed, p.Wins, p.Losses, p.Draws)
			if err != nil {
				return fmt.Errorf("player %s: %w", p.ID, handlePQError(err))
			}
		}
	}

	for seq, m := range rec.Matches {
		date, err := time.ParseInLocation(storage.DateLayout, m.Date, time.Local)
		if err != nil {
			return fmt.Errorf("match %s: invalid date %q: %w", m.ID, m.Date, err)
		}
		_, err = exec.ExecContext(ctx, `
			INSERT INTO matches (league_key, id, seq, home_team_id, away_team_id, match_date,
			                     round_number, home_score, away_score, is_finished)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			key, m.ID, seq, m.HomeTeamID, m.AwayTeamID, date,
			nullInt(m.RoundNumber), nullInt(m.HomeScore), nullInt(m.AwayScore), m.IsFinished)
		if err != nil {
			return fmt.Errorf("match %s: %w", m.ID, handlePQError(err))
		}
		for playerID, outcome := range m.PlayerResults {
			_, err := exec.ExecContext(ctx, `
				INSERT INTO match_player_results (league_key, match_id, player_id, outcome)
				VALUES ($1, $2, $3, $4)`,
				key, m.ID, playerID, outcome)
			if err != nil {
				return fmt.Errorf("match %s, player %s: %w", m.ID, playerID, handlePQError(err))
			}
		}
	}
	return nil
}

// Load reads the league rows and rebuilds the league through
// storage.FromRecord.
func (r *LeagueRepository) Load(ctx context.Context, name string) (*models.League, error) {
	if err := storage.ValidateLeagueName(name); err != nil {
		return nil, err
	}
	key := storage.RecordKey(name)

	rec, err := r.readRecord(ctx, r.db, key)
	if err != nil {
		return nil, err
	}
	league, err := storage.FromRecord(*rec)
	if err != nil {
		return nil, fmt.Errorf("league %s: %w", key, err)
	}
	return league, nil
}

func (r *LeagueRepository) readRecord(ctx context.Context, exec SQLExecutor, key string) (*storage.LeagueRecord, error) {
	rec := &storage.LeagueRecord{}
	err := exec.QueryRowContext(ctx,
		`SELECT name, current_round FROM leagues WHERE record_key = $1`, key,
	).Scan(&rec.Name, &rec.CurrentRound)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", storage.ErrLeagueNotFound, key)
		}
		return nil, fmt.Errorf("failed to read league %s: %w", key, err)
	}

	if err := r.readTeams(ctx, exec, key, rec); err != nil {
		return nil, err
	}
	if err := r.readMatches(ctx, exec, key, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *LeagueRepository) readTeams(ctx context.Context, exec SQLExecutor, key string, rec *storage.LeagueRecord) error {
	rows, err := exec.QueryContext(ctx, `
		SELECT id, name, matches_played, wins, losses, draws, goals_for, goals_against
		FROM teams WHERE league_key = $1 ORDER BY id`, key)
	if err != nil {
		return fmt.Errorf("failed to read teams of %s: %w", key, err)
	}
	defer rows.Close()

	index := make(map[string]int)
	for rows.Next() {
		var t storage.TeamRecord
		if err := rows.Scan(&t.ID, &t.Name, &t.MatchesPlayed, &t.Wins, &t.Losses, &t.Draws, &t.GoalsFor, &t.GoalsAgainst); err != nil {
			return fmt.Errorf("failed to scan team of %s: %w", key, err)
		}
		t.Players = []storage.PlayerRecord{}
		index[t.ID] = len(rec.Teams)
		rec.Teams = append(rec.Teams, t)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read teams of %s: %w", key, err)
	}

	prows, err := exec.QueryContext(ctx, `
		SELECT id, team_id, name, position, age, matches_played, wins, losses, draws
		FROM players WHERE league_key = $1 ORDER BY id`, key)
	if err != nil {
		return fmt.Errorf("failed to read players of %s: %w", key, err)
	}
	defer prows.Close()

	for prows.Next() {
		var (
			p        storage.PlayerRecord
			teamID   string
			position sql.NullString
			age      sql.NullInt64
		)
		if err := prows.Scan(&p.ID, &teamID, &p.Name, &position, &age, &p.MatchesPlayed, &p.Wins, &p.Losses, &p.Draws); err != nil {
			return fmt.Errorf("failed to scan player of %s: %w", key, err)
		}
		i, ok := index[teamID]
		if !ok {
			return fmt.Errorf("%w: player %s references unknown team %s", storage.ErrMalformedRecord, p.ID, teamID)
		}
		p.TeamID = &teamID
		p.Position = stringPtr(position)
		p.Age = intPtr(age)
		rec.Teams[i].Players = append(rec.Teams[i].Players, p)
	}
	return prows.Err()
}

func (r *LeagueRepository) readMatches(ctx context.Context, exec SQLExecutor, key string, rec *storage.LeagueRecord) error {
	rows, err := exec.QueryContext(ctx, `
		SELECT id, home_team_id, away_team_id, match_date, round_number, home_score, away_score, is_finished
		FROM matches WHERE league_key = $1 ORDER BY seq`, key)
	if err != nil {
		return fmt.Errorf("failed to read matches of %s: %w", key, err)
	}
	defer rows.Close()

	index := make(map[string]int)
	for rows.Next() {
		var (
			m                          storage.MatchRecord
			date                       time.Time
			round, homeScore, awayScore sql.NullInt64
		)
		if err := rows.Scan(&m.ID, &m.HomeTeamID, &m.AwayTeamID, &date, &round, &homeScore, &awayScore, &m.IsFinished); err != nil {
			return fmt.Errorf("failed to scan match of %s: %w", key, err)
		}
		m.Date = date.In(time.Local).Format(storage.DateLayout)
		m.RoundNumber = intPtr(round)
		m.HomeScore = intPtr(homeScore)
		m.AwayScore = intPtr(awayScore)
		m.PlayerResults = map[string]string{}
		index[m.ID] = len(rec.Matches)
		rec.Matches = append(rec.Matches, m)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to read matches of %s: %w", key, err)
	}

	rrows, err := exec.QueryContext(ctx, `
		SELECT match_id, player_id, outcome FROM match_player_results WHERE league_key = $1`, key)
	if err != nil {
		return fmt.Errorf("failed to read player results of %s: %w", key, err)
	}
	defer rrows.Close()

	for rrows.Next() {
		var matchID, playerID, outcome string
		if err := rrows.Scan(&matchID, &playerID, &outcome); err != nil {
			return fmt.Errorf("failed to scan player result of %s: %w", key, err)
		}
		i, ok := index[matchID]
		if !ok {
			return fmt.Errorf("%w: result for unknown match %s", storage.ErrMalformedRecord, matchID)
		}
		rec.Matches[i].PlayerResults[playerID] = outcome
	}
	return rrows.Err()
}

func (r *LeagueRepository) List(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT record_key FROM leagues ORDER BY record_key`)
	if err != nil {
		return nil, fmt.Errorf("failed to list leagues: %w", err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("failed to scan league key: %w", err)
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}
