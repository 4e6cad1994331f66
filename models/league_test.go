package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func standingIDs(table []Standing) []string {
	ids := make([]string, 0, len(table))
	for _, s := range table {
		ids = append(ids, s.Team.ID)
	}
	return ids
}

func TestStandingsOrder(t *testing.T) {
	l := NewLeague("Spring Cup")

	// a: 6 pts, 0.60 win rate, +3
	a := &Team{ID: "a", Name: "A", MatchesPlayed: 5, Wins: 3, Losses: 2, GoalsFor: 8, GoalsAgainst: 5}
	// b: 6 pts, 0.60 win rate, +1
	b := &Team{ID: "b", Name: "B", MatchesPlayed: 5, Wins: 3, Losses: 2, GoalsFor: 6, GoalsAgainst: 5}
	// c: 9 pts
	c := &Team{ID: "c", Name: "C", MatchesPlayed: 3, Wins: 3}
	for _, team := range []*Team{b, a, c} {
		l.AddTeam(team)
	}

	table := l.Standings()

	require.Len(t, table, 3)
	assert.Equal(t, []string{"c", "a", "b"}, standingIDs(table))
	assert.Equal(t, []int{1, 2, 3}, []int{table[0].Rank, table[1].Rank, table[2].Rank})
	assert.Equal(t, 6, table[1].Points)
	assert.InDelta(t, 0.6, table[1].WinRate, 1e-9)
	assert.Equal(t, 3, table[1].GoalDifference)
}

func TestStandingsWinRateBeforeGoalDifference(t *testing.T) {
	l := NewLeague("L")
	// Same points, x has the better win rate but the worse goal difference.
	l.AddTeam(&Team{ID: "x", MatchesPlayed: 2, Wins: 2, GoalsFor: 2})
	l.AddTeam(&Team{ID: "y", MatchesPlayed: 6, Wins: 1, Draws: 3, Losses: 2, GoalsFor: 20})

	assert.Equal(t, []string{"x", "y"}, standingIDs(l.Standings()))
}

func TestStandingsFullTieUsesTeamID(t *testing.T) {
	l := NewLeague("L")
	for _, id := range []string{"delta", "alpha", "charlie", "bravo"} {
		l.AddTeam(NewTeam(id, id))
	}

	for i := 0; i < 5; i++ {
		assert.Equal(t, []string{"alpha", "bravo", "charlie", "delta"}, standingIDs(l.Standings()))
	}
}

func TestPlayerRankings(t *testing.T) {
	l := NewLeague("L")
	home := NewTeam("home", "Home")
	away := NewTeam("away", "Away")
	l.AddTeam(home)
	l.AddTeam(away)

	home.AddPlayer(&Player{ID: "p1", Name: "One", MatchesPlayed: 4, Wins: 2, Losses: 2})
	home.AddPlayer(&Player{ID: "p2", Name: "Two", MatchesPlayed: 2, Wins: 1, Draws: 1})
	away.AddPlayer(&Player{ID: "p3", Name: "Three", MatchesPlayed: 1, Wins: 1})
	away.AddPlayer(&Player{ID: "p4", Name: "Bench"})

	m, err := l.CreateMatch("home", "away")
	require.NoError(t, err)
	require.NoError(t, m.SetScore(1, 0))

	rankings := l.PlayerRankings()

	require.Len(t, rankings, 3)
	assert.Equal(t, "p3", rankings[0].Player.ID)
	assert.Equal(t, "Away", rankings[0].TeamName)
	// p1 and p2 share 0.5; more matches played ranks higher.
	assert.Equal(t, "p1", rankings[1].Player.ID)
	assert.Equal(t, "p2", rankings[2].Player.ID)
	assert.Equal(t, 3, rankings[2].Rank)
	for _, r := range rankings {
		assert.NotEqual(t, "p4", r.Player.ID)
	}
}

func TestCreateMatch(t *testing.T) {
	l := NewLeague("L")
	l.AddTeam(NewTeam("a", "A"))
	l.AddTeam(NewTeam("b", "B"))

	m, err := l.CreateMatch("a", "b")
	require.NoError(t, err)
	assert.Equal(t, 1, m.Round)
	assert.Len(t, l.Matches, 1)

	found, ok := l.Match(m.ID)
	require.True(t, ok)
	assert.Same(t, m, found)

	_, err = l.CreateMatch("a", "missing")
	assert.ErrorIs(t, err, ErrTeamNotFound)
	_, err = l.CreateMatch("missing", "b")
	assert.ErrorIs(t, err, ErrTeamNotFound)
	_, err = l.CreateMatch("a", "a")
	assert.ErrorIs(t, err, ErrSameTeam)
	assert.Len(t, l.Matches, 1)
}

func TestAdvanceRoundGating(t *testing.T) {
	l := NewLeague("L")
	for _, id := range []string{"a", "b", "c", "d"} {
		l.AddTeam(NewTeam(id, id))
	}
	first, err := l.CreateMatch("a", "b")
	require.NoError(t, err)
	second, err := l.CreateMatch("c", "d")
	require.NoError(t, err)

	require.NoError(t, first.SetScore(1, 1))

	err = l.AdvanceRound()
	require.ErrorIs(t, err, ErrRoundIncomplete)
	assert.Equal(t, 1, l.CurrentRound)
	assert.Equal(t, []*Match{second}, l.UnfinishedMatches(1))

	require.NoError(t, second.SetScore(0, 2))
	require.NoError(t, l.AdvanceRound())
	assert.Equal(t, 2, l.CurrentRound)

	next, err := l.CreateMatch("a", "c")
	require.NoError(t, err)
	assert.Equal(t, 2, next.Round)
	assert.Len(t, l.RoundMatches(1), 2)
}

func TestNextRoundIsUnconditional(t *testing.T) {
	l := NewLeague("L")
	l.AddTeam(NewTeam("a", "A"))
	l.AddTeam(NewTeam("b", "B"))
	_, err := l.CreateMatch("a", "b")
	require.NoError(t, err)

	l.NextRound()
	assert.Equal(t, 2, l.CurrentRound)
}

func TestTeamByNameFirstMatchWins(t *testing.T) {
	l := NewLeague("L")
	l.AddTeam(NewTeam("zeta", "United"))
	l.AddTeam(NewTeam("alpha", "United"))

	team, ok := l.TeamByName("United")
	require.True(t, ok)
	assert.Equal(t, "alpha", team.ID)

	_, ok = l.TeamByName("united")
	assert.False(t, ok)
}

func TestFindPlayer(t *testing.T) {
	l := NewLeague("L")
	team := NewTeam("a", "A")
	team.AddPlayer(NewPlayer("ann", "Ann"))
	l.AddTeam(team)

	p, owner, ok := l.FindPlayer("ann")
	require.True(t, ok)
	assert.Equal(t, "Ann", p.Name)
	assert.Equal(t, "a", owner.ID)
	assert.Equal(t, 1, l.PlayerCount())

	_, _, ok = l.FindPlayer("nobody")
	assert.False(t, ok)
}
