package storage

import (
	"errors"
	"fmt"
	"time"

	"github.com/Dosada05/league-tracker/models"
	"github.com/google/uuid"
)

// DateLayout is the timestamp format used in league records.
const DateLayout = "2006-01-02 15:04:05"

type LeagueRecord struct {
	Name         string        `json:"name" yaml:"name"`
	CurrentRound int           `json:"current_round" yaml:"current_round"`
	Teams        []TeamRecord  `json:"teams" yaml:"teams"`
	Matches      []MatchRecord `json:"matches" yaml:"matches"`
}

type TeamRecord struct {
	ID            string         `json:"id" yaml:"id"`
	Name          string         `json:"name" yaml:"name"`
	MatchesPlayed int            `json:"matches_played" yaml:"matches_played"`
	Wins          int            `json:"wins" yaml:"wins"`
	Losses        int            `json:"losses" yaml:"losses"`
	Draws         int            `json:"draws" yaml:"draws"`
	GoalsFor      int            `json:"goals_for" yaml:"goals_for"`
	GoalsAgainst  int            `json:"goals_against" yaml:"goals_against"`
	Players       []PlayerRecord `json:"players" yaml:"players"`
}

type PlayerRecord struct {
	ID            string  `json:"id" yaml:"id"`
	Name          string  `json:"name" yaml:"name"`
	TeamID        *string `json:"team_id" yaml:"team_id"`
	Position      *string `json:"position" yaml:"position"`
	Age           *int    `json:"age" yaml:"age"`
	MatchesPlayed int     `json:"matches_played" yaml:"matches_played"`
	Wins          int     `json:"wins" yaml:"wins"`
	Losses        int     `json:"losses" yaml:"losses"`
	Draws         int     `json:"draws" yaml:"draws"`
}

type MatchRecord struct {
	ID            string            `json:"id,omitempty" yaml:"id,omitempty"`
	HomeTeamID    string            `json:"home_team_id" yaml:"home_team_id"`
	AwayTeamID    string            `json:"away_team_id" yaml:"away_team_id"`
	Date          string            `json:"date" yaml:"date"`
	RoundNumber   *int              `json:"round_number" yaml:"round_number"`
	HomeScore     *int              `json:"home_score" yaml:"home_score"`
	AwayScore     *int              `json:"away_score" yaml:"away_score"`
	IsFinished    bool              `json:"is_finished" yaml:"is_finished"`
	PlayerResults map[string]string `json:"player_results" yaml:"player_results"`
}

// ToRecord flattens a league into its storage shape. Teams and players are
// written in id order so snapshots diff cleanly.
func ToRecord(l *models.League) LeagueRecord {
	rec := LeagueRecord{
		Name:         l.Name,
		CurrentRound: l.CurrentRound,
		Teams:        make([]TeamRecord, 0, len(l.Teams)),
		Matches:      make([]MatchRecord, 0, len(l.Matches)),
	}

	for _, t := range l.SortedTeams() {
		tr := TeamRecord{
			ID:            t.ID,
			Name:          t.Name,
			MatchesPlayed: t.MatchesPlayed,
			Wins:          t.Wins,
			Losses:        t.Losses,
			Draws:         t.Draws,
			GoalsFor:      t.GoalsFor,
			GoalsAgainst:  t.GoalsAgainst,
			Players:       make([]PlayerRecord, 0, len(t.Players)),
		}
		for _, p := range t.SortedPlayers() {
			tr.Players = append(tr.Players, PlayerRecord{
				ID:            p.ID,
				Name:          p.Name,
				TeamID:        optionalString(p.TeamID),
				Position:      optionalString(p.Position),
				Age:           copyInt(p.Age),
				MatchesPlayed: p.MatchesPlayed,
				Wins:          p.Wins,
				Losses:        p.Losses,
				Draws:         p.Draws,
			})
		}
		rec.Teams = append(rec.Teams, tr)
	}

	for _, m := range l.Matches {
		mr := MatchRecord{
			ID:            m.ID,
			HomeTeamID:    m.Home.ID,
			AwayTeamID:    m.Away.ID,
			Date:          m.Date.Format(DateLayout),
			HomeScore:     copyInt(m.HomeScore),
			AwayScore:     copyInt(m.AwayScore),
			IsFinished:    m.Finished,
			PlayerResults: make(map[string]string, len(m.PlayerResults)),
		}
		if m.Round > 0 {
			round := m.Round
			mr.RoundNumber = &round
		}
		for playerID, outcome := range m.PlayerResults {
			mr.PlayerResults[playerID] = outcome.String()
		}
		rec.Matches = append(rec.Matches, mr)
	}

	return rec
}

// FromRecord rebuilds a league from a stored record. Counters and finished
// scores are assigned directly. Any inconsistency fails with
// ErrMalformedRecord naming the offending field.
func FromRecord(rec LeagueRecord) (*models.League, error) {
	if rec.Name == "" {
		return nil, malformed("name", "is required")
	}
	if rec.CurrentRound < 1 {
		return nil, malformed("current_round", "must be at least 1, got %d", rec.CurrentRound)
	}

	l := models.NewLeague(rec.Name)
	l.CurrentRound = rec.CurrentRound
	playerIDs := make(map[string]string)

	for i, tr := range rec.Teams {
		path := fmt.Sprintf("teams[%d]", i)
		team, err := teamFromRecord(path, tr)
		if err != nil {
			return nil, err
		}
		if _, dup := l.Team(team.ID); dup {
			return nil, malformed(path+".id", "duplicate team id %q", team.ID)
		}
		for j, pr := range tr.Players {
			ppath := fmt.Sprintf("%s.players[%d]", path, j)
			player, err := playerFromRecord(ppath, pr)
			if err != nil {
				return nil, err
			}
			if owner, dup := playerIDs[player.ID]; dup {
				return nil, malformed(ppath+".id", "player id %q already on team %q", player.ID, owner)
			}
			if pr.TeamID != nil && *pr.TeamID != "" && *pr.TeamID != team.ID {
				return nil, malformed(ppath+".team_id", "%q does not match owning team %q", *pr.TeamID, team.ID)
			}
			playerIDs[player.ID] = team.ID
			team.AddPlayer(player)
		}
		l.AddTeam(team)
	}

	for i, mr := range rec.Matches {
		m, err := matchFromRecord(fmt.Sprintf("matches[%d]", i), mr, l)
		if err != nil {
			return nil, err
		}
		l.AppendMatch(m)
	}

	return l, nil
}

func teamFromRecord(path string, tr TeamRecord) (*models.Team, error) {
	if tr.ID == "" {
		return nil, malformed(path+".id", "is required")
	}
	if tr.Name == "" {
		return nil, malformed(path+".name", "is required")
	}
	if err := checkTally(path, tr.MatchesPlayed, tr.Wins, tr.Losses, tr.Draws); err != nil {
		return nil, err
	}
	if tr.GoalsFor < 0 || tr.GoalsAgainst < 0 {
		return nil, malformed(path, "goal counters must not be negative")
	}

	team := models.NewTeam(tr.ID, tr.Name)
	team.MatchesPlayed = tr.MatchesPlayed
	team.Wins = tr.Wins
	team.Losses = tr.Losses
	team.Draws = tr.Draws
	team.GoalsFor = tr.GoalsFor
	team.GoalsAgainst = tr.GoalsAgainst
	return team, nil
}

func playerFromRecord(path string, pr PlayerRecord) (*models.Player, error) {
	if pr.ID == "" {
		return nil, malformed(path+".id", "is required")
	}
	if pr.Name == "" {
		return nil, malformed(path+".name", "is required")
	}
	if pr.Age != nil && *pr.Age < 0 {
		return nil, malformed(path+".age", "must not be negative, got %d", *pr.Age)
	}
	if err := checkTally(path, pr.MatchesPlayed, pr.Wins, pr.Losses, pr.Draws); err != nil {
		return nil, err
	}

	p := models.NewPlayer(pr.ID, pr.Name)
	if pr.Position != nil {
		p.Position = *pr.Position
	}
	p.Age = copyInt(pr.Age)
	p.MatchesPlayed = pr.MatchesPlayed
	p.Wins = pr.Wins
	p.Losses = pr.Losses
	p.Draws = pr.Draws
	return p, nil
}

func matchFromRecord(path string, mr MatchRecord, l *models.League) (*models.Match, error) {
	home, ok := l.Team(mr.HomeTeamID)
	if !ok {
		return nil, malformed(path+".home_team_id", "unknown team %q", mr.HomeTeamID)
	}
	away, ok := l.Team(mr.AwayTeamID)
	if !ok {
		return nil, malformed(path+".away_team_id", "unknown team %q", mr.AwayTeamID)
	}
	if home.ID == away.ID {
		return nil, malformed(path, "home and away team are both %q", home.ID)
	}

	date, err := parseDate(mr.Date)
	if err != nil {
		return nil, malformed(path+".date", "%v", err)
	}

	round := 0
	if mr.RoundNumber != nil {
		if *mr.RoundNumber < 1 {
			return nil, malformed(path+".round_number", "must be at least 1, got %d", *mr.RoundNumber)
		}
		round = *mr.RoundNumber
	}

	scored := mr.HomeScore != nil && mr.AwayScore != nil
	if mr.IsFinished != scored {
		return nil, malformed(path, "is_finished=%t does not match the recorded scores", mr.IsFinished)
	}
	if !scored && (mr.HomeScore != nil || mr.AwayScore != nil) {
		return nil, malformed(path, "only one score is set")
	}

	m := models.NewMatch(home, away, date, round)
	if mr.ID != "" {
		if _, err := uuid.Parse(mr.ID); err != nil {
			return nil, malformed(path+".id", "%v", err)
		}
		m.ID = mr.ID
	}
	if _, dup := l.Match(m.ID); dup {
		return nil, malformed(path+".id", "duplicate match id %q", m.ID)
	}
	if scored {
		m.HomeScore = copyInt(mr.HomeScore)
		m.AwayScore = copyInt(mr.AwayScore)
		m.Finished = true
	}

	for playerID, symbol := range mr.PlayerResults {
		outcome, err := models.ParseOutcome(symbol)
		if err != nil {
			return nil, malformed(path+".player_results."+playerID, "%v", err)
		}
		_, onHome := home.Player(playerID)
		_, onAway := away.Player(playerID)
		if !onHome && !onAway {
			return nil, malformed(path+".player_results."+playerID, "player is on neither team")
		}
		m.PlayerResults[playerID] = outcome
	}

	return m, nil
}

func checkTally(path string, played, wins, losses, draws int) error {
	if played < 0 || wins < 0 || losses < 0 || draws < 0 {
		return malformed(path, "tally counters must not be negative")
	}
	if played != wins+losses+draws {
		return malformed(path+".matches_played", "%d does not equal wins+losses+draws (%d)", played, wins+losses+draws)
	}
	return nil
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errors.New("is required")
	}
	if t, err := time.ParseInLocation(DateLayout, s, time.Local); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

func malformed(field, format string, args ...any) error {
	return fmt.Errorf("%w: %s %s", ErrMalformedRecord, field, fmt.Sprintf(format, args...))
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
