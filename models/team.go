package models

import (
	"fmt"
	"sort"
)

// Team owns its roster. Tallies change only through AddMatchResult.
type Team struct {
	ID      string
	Name    string
	Players map[string]*Player

	MatchesPlayed int
	Wins          int
	Losses        int
	Draws         int
	GoalsFor      int
	GoalsAgainst  int
}

func NewTeam(id, name string) *Team {
	return &Team{
		ID:      id,
		Name:    name,
		Players: make(map[string]*Player),
	}
}

// AddPlayer puts p on the roster, replacing any player with the same id, and
// stamps p.TeamID.
func (t *Team) AddPlayer(p *Player) {
	if t.Players == nil {
		t.Players = make(map[string]*Player)
	}
	p.TeamID = t.ID
	t.Players[p.ID] = p
}

func (t *Team) Player(id string) (*Player, bool) {
	p, ok := t.Players[id]
	return p, ok
}

// SortedPlayers returns the roster ordered by player id.
func (t *Team) SortedPlayers() []*Player {
	players := make([]*Player, 0, len(t.Players))
	for _, p := range t.Players {
		players = append(players, p)
	}
	sort.Slice(players, func(i, j int) bool {
		return players[i].ID < players[j].ID
	})
	return players
}

// AddMatchResult applies one finished match to the team tally. Player tallies
// are not touched.
func (t *Team) AddMatchResult(ownScore, opponentScore int, outcome Outcome) error {
	switch outcome {
	case Win:
		t.Wins++
	case Loss:
		t.Losses++
	case Draw:
		t.Draws++
	default:
		return fmt.Errorf("team %s: %w: %d", t.ID, ErrInvalidOutcome, int(outcome))
	}
	t.MatchesPlayed++
	t.GoalsFor += ownScore
	t.GoalsAgainst += opponentScore
	return nil
}

func (t *Team) WinRate() float64 {
	if t.MatchesPlayed == 0 {
		return 0
	}
	return float64(t.Wins) / float64(t.MatchesPlayed)
}

// Points: 3 for a win, 1 for a draw.
func (t *Team) Points() int {
	return t.Wins*3 + t.Draws
}

func (t *Team) GoalDifference() int {
	return t.GoalsFor - t.GoalsAgainst
}

func (t *Team) String() string {
	return fmt.Sprintf("%s (%d players) %dW %dL %dD, %d pts, GF %d GA %d GD %+d",
		t.Name, len(t.Players), t.Wins, t.Losses, t.Draws, t.Points(),
		t.GoalsFor, t.GoalsAgainst, t.GoalDifference())
}
