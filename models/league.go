package models

import (
	"fmt"
	"sort"
	"time"
)

// League is the aggregate for one competition: teams, fixtures in creation
// order and the current round. It is not safe for concurrent use.
type League struct {
	Name         string
	Teams        map[string]*Team
	Matches      []*Match
	CurrentRound int
}

func NewLeague(name string) *League {
	return &League{
		Name:         name,
		Teams:        make(map[string]*Team),
		CurrentRound: 1,
	}
}

// AddTeam inserts t, replacing a team with the same id.
func (l *League) AddTeam(t *Team) {
	if l.Teams == nil {
		l.Teams = make(map[string]*Team)
	}
	l.Teams[t.ID] = t
}

func (l *League) Team(id string) (*Team, bool) {
	t, ok := l.Teams[id]
	return t, ok
}

// TeamByName returns the first team with the exact name, scanning in team id
// order. Names are not unique.
func (l *League) TeamByName(name string) (*Team, bool) {
	for _, t := range l.SortedTeams() {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}

// SortedTeams returns every team ordered by id.
func (l *League) SortedTeams() []*Team {
	teams := make([]*Team, 0, len(l.Teams))
	for _, t := range l.Teams {
		teams = append(teams, t)
	}
	sort.Slice(teams, func(i, j int) bool {
		return teams[i].ID < teams[j].ID
	})
	return teams
}

// FindPlayer looks a player up across every roster.
func (l *League) FindPlayer(id string) (*Player, *Team, bool) {
	for _, t := range l.SortedTeams() {
		if p, ok := t.Player(id); ok {
			return p, t, true
		}
	}
	return nil, nil, false
}

// CreateMatch appends a fixture tagged with the current round.
func (l *League) CreateMatch(homeID, awayID string) (*Match, error) {
	home, ok := l.Team(homeID)
	if !ok {
		return nil, fmt.Errorf("home team %q: %w", homeID, ErrTeamNotFound)
	}
	away, ok := l.Team(awayID)
	if !ok {
		return nil, fmt.Errorf("away team %q: %w", awayID, ErrTeamNotFound)
	}
	if homeID == awayID {
		return nil, fmt.Errorf("team %q: %w", homeID, ErrSameTeam)
	}

	m := NewMatch(home, away, time.Time{}, l.CurrentRound)
	l.Matches = append(l.Matches, m)
	return m, nil
}

// AppendMatch adds an already built match. Used when restoring from storage.
func (l *League) AppendMatch(m *Match) {
	l.Matches = append(l.Matches, m)
}

func (l *League) Match(id string) (*Match, bool) {
	for _, m := range l.Matches {
		if m.ID == id {
			return m, true
		}
	}
	return nil, false
}

func (l *League) RoundMatches(round int) []*Match {
	var matches []*Match
	for _, m := range l.Matches {
		if m.Round == round {
			matches = append(matches, m)
		}
	}
	return matches
}

func (l *League) UnfinishedMatches(round int) []*Match {
	var matches []*Match
	for _, m := range l.RoundMatches(round) {
		if !m.Finished {
			matches = append(matches, m)
		}
	}
	return matches
}

// NextRound increments the round counter without any checks.
func (l *League) NextRound() {
	l.CurrentRound++
}

// AdvanceRound moves to the next round only when every match of the current
// round is finished.
func (l *League) AdvanceRound() error {
	if pending := l.UnfinishedMatches(l.CurrentRound); len(pending) > 0 {
		return fmt.Errorf("round %d: %w (%d pending)", l.CurrentRound, ErrRoundIncomplete, len(pending))
	}
	l.NextRound()
	return nil
}

func (l *League) PlayerCount() int {
	n := 0
	for _, t := range l.Teams {
		n += len(t.Players)
	}
	return n
}

func (l *League) String() string {
	return fmt.Sprintf("%s - %d teams, %d matches, round %d", l.Name, len(l.Teams), len(l.Matches), l.CurrentRound)
}
