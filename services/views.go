package services

import (
	"time"

	"github.com/Dosada05/league-tracker/models"
	"github.com/Dosada05/league-tracker/storage"
)

// Views are detached copies of league entities. They are safe to use after
// the service lock is released.

type LeagueSummary struct {
	Name            string `json:"name"`
	Key             string `json:"key"`
	CurrentRound    int    `json:"current_round"`
	TeamCount       int    `json:"team_count"`
	PlayerCount     int    `json:"player_count"`
	MatchCount      int    `json:"match_count"`
	FinishedMatches int    `json:"finished_matches"`
}

type LeagueListing struct {
	Open  []LeagueSummary `json:"open"`
	Saved []string        `json:"saved"`
}

type PlayerView struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	TeamID        string  `json:"team_id"`
	TeamName      string  `json:"team_name"`
	Position      string  `json:"position,omitempty"`
	Age           *int    `json:"age,omitempty"`
	MatchesPlayed int     `json:"matches_played"`
	Wins          int     `json:"wins"`
	Losses        int     `json:"losses"`
	Draws         int     `json:"draws"`
	WinRate       float64 `json:"win_rate"`
}

type TeamView struct {
	ID             string       `json:"id"`
	Name           string       `json:"name"`
	MatchesPlayed  int          `json:"matches_played"`
	Wins           int          `json:"wins"`
	Losses         int          `json:"losses"`
	Draws          int          `json:"draws"`
	GoalsFor       int          `json:"goals_for"`
	GoalsAgainst   int          `json:"goals_against"`
	GoalDifference int          `json:"goal_difference"`
	Points         int          `json:"points"`
	WinRate        float64      `json:"win_rate"`
	Players        []PlayerView `json:"players"`
}

type MatchView struct {
	ID            string                    `json:"id"`
	Round         int                       `json:"round_number"`
	Date          time.Time                 `json:"date"`
	HomeTeamID    string                    `json:"home_team_id"`
	HomeTeamName  string                    `json:"home_team_name"`
	AwayTeamID    string                    `json:"away_team_id"`
	AwayTeamName  string                    `json:"away_team_name"`
	HomeScore     *int                      `json:"home_score"`
	AwayScore     *int                      `json:"away_score"`
	Finished      bool                      `json:"is_finished"`
	Result        string                    `json:"result,omitempty"`
	PlayerResults map[string]models.Outcome `json:"player_results"`
	Summary       string                    `json:"summary"`
}

type StandingView struct {
	Rank           int     `json:"rank"`
	TeamID         string  `json:"team_id"`
	TeamName       string  `json:"team_name"`
	MatchesPlayed  int     `json:"matches_played"`
	Wins           int     `json:"wins"`
	Draws          int     `json:"draws"`
	Losses         int     `json:"losses"`
	Points         int     `json:"points"`
	WinRate        float64 `json:"win_rate"`
	GoalsFor       int     `json:"goals_for"`
	GoalsAgainst   int     `json:"goals_against"`
	GoalDifference int     `json:"goal_difference"`
}

type RankingView struct {
	Rank          int     `json:"rank"`
	PlayerID      string  `json:"player_id"`
	PlayerName    string  `json:"player_name"`
	TeamName      string  `json:"team_name"`
	MatchesPlayed int     `json:"matches_played"`
	Wins          int     `json:"wins"`
	Draws         int     `json:"draws"`
	Losses        int     `json:"losses"`
	WinRate       float64 `json:"win_rate"`
}

// MatchFilter narrows ListMatches. Nil fields match everything.
type MatchFilter struct {
	Round    *int
	Finished *bool
}

func (f MatchFilter) matches(m *models.Match) bool {
	if f.Round != nil && m.Round != *f.Round {
		return false
	}
	if f.Finished != nil && m.Finished != *f.Finished {
		return false
	}
	return true
}

func toLeagueSummary(l *models.League) LeagueSummary {
	finished := 0
	for _, m := range l.Matches {
		if m.Finished {
			finished++
		}
	}
	return LeagueSummary{
		Name:            l.Name,
		Key:             storage.RecordKey(l.Name),
		CurrentRound:    l.CurrentRound,
		TeamCount:       len(l.Teams),
		PlayerCount:     l.PlayerCount(),
		MatchCount:      len(l.Matches),
		FinishedMatches: finished,
	}
}

func toPlayerView(p *models.Player, team *models.Team) PlayerView {
	v := PlayerView{
		ID:            p.ID,
		Name:          p.Name,
		TeamID:        team.ID,
		TeamName:      team.Name,
		Position:      p.Position,
		MatchesPlayed: p.MatchesPlayed,
		Wins:          p.Wins,
		Losses:        p.Losses,
		Draws:         p.Draws,
		WinRate:       p.WinRate(),
	}
	if p.Age != nil {
		age := *p.Age
		v.Age = &age
	}
	return v
}

func toTeamView(t *models.Team) TeamView {
	v := TeamView{
		ID:             t.ID,
		Name:           t.Name,
		MatchesPlayed:  t.MatchesPlayed,
		Wins:           t.Wins,
		Losses:         t.Losses,
		Draws:          t.Draws,
		GoalsFor:       t.GoalsFor,
		GoalsAgainst:   t.GoalsAgainst,
		GoalDifference: t.GoalDifference(),
		Points:         t.Points(),
		WinRate:        t.WinRate(),
		Players:        make([]PlayerView, 0, len(t.Players)),
	}
	for _, p := range t.SortedPlayers() {
		v.Players = append(v.Players, toPlayerView(p, t))
	}
	return v
}

func toMatchView(m *models.Match) MatchView {
	v := MatchView{
		ID:            m.ID,
		Round:         m.Round,
		Date:          m.Date,
		HomeTeamID:    m.Home.ID,
		HomeTeamName:  m.Home.Name,
		AwayTeamID:    m.Away.ID,
		AwayTeamName:  m.Away.Name,
		Finished:      m.Finished,
		PlayerResults: make(map[string]models.Outcome, len(m.PlayerResults)),
		Summary:       m.String(),
	}
	if m.HomeScore != nil {
		s := *m.HomeScore
		v.HomeScore = &s
	}
	if m.AwayScore != nil {
		s := *m.AwayScore
		v.AwayScore = &s
	}
	if home, away, ok := m.Outcomes(); ok {
		v.Result = home.Symbol() + "-" + away.Symbol()
	}
	for id, o := range m.PlayerResults {
		v.PlayerResults[id] = o
	}
	return v
}

func toStandingViews(table []models.Standing) []StandingView {
	views := make([]StandingView, 0, len(table))
	for _, s := range table {
		views = append(views, StandingView{
			Rank:           s.Rank,
			TeamID:         s.Team.ID,
			TeamName:       s.Team.Name,
			MatchesPlayed:  s.Team.MatchesPlayed,
			Wins:           s.Team.Wins,
			Draws:          s.Team.Draws,
			Losses:         s.Team.Losses,
			Points:         s.Points,
			WinRate:        s.WinRate,
			GoalsFor:       s.Team.GoalsFor,
			GoalsAgainst:   s.Team.GoalsAgainst,
			GoalDifference: s.GoalDifference,
		})
	}
	return views
}

func toRankingViews(rankings []models.PlayerRanking) []RankingView {
	views := make([]RankingView, 0, len(rankings))
	for _, r := range rankings {
		views = append(views, RankingView{
			Rank:          r.Rank,
			PlayerID:      r.Player.ID,
			PlayerName:    r.Player.Name,
			TeamName:      r.TeamName,
			MatchesPlayed: r.MatchesPlayed,
			Wins:          r.Player.Wins,
			Draws:         r.Player.Draws,
			Losses:        r.Player.Losses,
			WinRate:       r.WinRate,
		})
	}
	return views
}
