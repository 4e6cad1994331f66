package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayerAddResult(t *testing.T) {
	p := NewPlayer("ann", "Ann")
	assert.Zero(t, p.WinRate())

	for _, o := range []Outcome{Win, Win, Loss, Draw} {
		require.NoError(t, p.AddResult(o))
	}
	require.ErrorIs(t, p.AddResult(Outcome(0)), ErrInvalidOutcome)

	assert.Equal(t, 4, p.MatchesPlayed)
	assert.Equal(t, p.Wins+p.Losses+p.Draws, p.MatchesPlayed)
	assert.Equal(t, 2, p.Wins)
	assert.InDelta(t, 0.5, p.WinRate(), 1e-9)
}

func TestTeamAddPlayerStampsTeamID(t *testing.T) {
	team := NewTeam("lions", "Lions")
	first := NewPlayer("ann", "Ann")
	team.AddPlayer(first)
	assert.Equal(t, "lions", first.TeamID)

	replacement := NewPlayer("ann", "Ann Again")
	team.AddPlayer(replacement)
	require.Len(t, team.Players, 1)
	got, _ := team.Player("ann")
	assert.Same(t, replacement, got)

	team.AddPlayer(NewPlayer("aaron", "Aaron"))
	sorted := team.SortedPlayers()
	assert.Equal(t, "aaron", sorted[0].ID)
	assert.Equal(t, "ann", sorted[1].ID)
}

func TestTeamAddMatchResult(t *testing.T) {
	team := NewTeam("lions", "Lions")
	require.NoError(t, team.AddMatchResult(3, 1, Win))
	require.NoError(t, team.AddMatchResult(0, 2, Loss))
	require.NoError(t, team.AddMatchResult(1, 1, Draw))
	require.ErrorIs(t, team.AddMatchResult(9, 0, Outcome(7)), ErrInvalidOutcome)

	assert.Equal(t, 3, team.MatchesPlayed)
	assert.Equal(t, 4, team.Points())
	assert.Equal(t, 4, team.GoalsFor)
	assert.Equal(t, 4, team.GoalsAgainst)
	assert.Equal(t, 0, team.GoalDifference())
	assert.InDelta(t, 1.0/3.0, team.WinRate(), 1e-9)
}

func TestParseOutcome(t *testing.T) {
	tests := map[string]Outcome{
		"win": Win, "W": Win, "○": Win,
		"loss": Loss, "l": Loss, "×": Loss,
		"Draw": Draw, "d": Draw, " △ ": Draw,
	}
	for in, want := range tests {
		got, err := ParseOutcome(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseOutcome("maybe")
	assert.ErrorIs(t, err, ErrInvalidOutcome)
}

func TestParseOutcomePair(t *testing.T) {
	home, away, err := ParseOutcomePair("○-×")
	require.NoError(t, err)
	assert.Equal(t, Win, home)
	assert.Equal(t, Loss, away)

	_, _, err = ParseOutcomePair("○×")
	assert.ErrorIs(t, err, ErrInvalidOutcome)
	_, _, err = ParseOutcomePair("○-?")
	assert.ErrorIs(t, err, ErrInvalidOutcome)
}

func TestOutcomeJSON(t *testing.T) {
	data, err := json.Marshal(map[string]Outcome{"ann": Win})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ann":"win"}`, string(data))

	var decoded map[string]Outcome
	require.NoError(t, json.Unmarshal([]byte(`{"bob":"△"}`), &decoded))
	assert.Equal(t, Draw, decoded["bob"])

	_, err = json.Marshal(Outcome(0))
	assert.Error(t, err)
}
