package models

import "sort"

// Standing is one row of the league table.
type Standing struct {
	Rank           int
	Team           *Team
	Points         int
	WinRate        float64
	GoalDifference int
}

// PlayerRanking is one row of the player win-rate ranking.
type PlayerRanking struct {
	Rank          int
	Player        *Player
	TeamName      string
	WinRate       float64
	MatchesPlayed int
}

// Standings ranks every team by points, then win rate, then goal difference,
// all descending. Full ties fall back to team id ascending.
func (l *League) Standings() []Standing {
	table := make([]Standing, 0, len(l.Teams))
	for _, t := range l.Teams {
		table = append(table, Standing{
			Team:           t,
			Points:         t.Points(),
			WinRate:        t.WinRate(),
			GoalDifference: t.GoalDifference(),
		})
	}

	sort.Slice(table, func(i, j int) bool {
		a, b := table[i], table[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.WinRate != b.WinRate {
			return a.WinRate > b.WinRate
		}
		if a.GoalDifference != b.GoalDifference {
			return a.GoalDifference > b.GoalDifference
		}
		return a.Team.ID < b.Team.ID
	})

	for i := range table {
		table[i].Rank = i + 1
	}
	return table
}

// PlayerRankings ranks players who have played at least once by win rate,
// then matches played, both descending. Full ties fall back to player id.
func (l *League) PlayerRankings() []PlayerRanking {
	var rankings []PlayerRanking
	for _, t := range l.Teams {
		for _, p := range t.Players {
			if p.MatchesPlayed == 0 {
				continue
			}
			rankings = append(rankings, PlayerRanking{
				Player:        p,
				TeamName:      t.Name,
				WinRate:       p.WinRate(),
				MatchesPlayed: p.MatchesPlayed,
			})
		}
	}

	sort.Slice(rankings, func(i, j int) bool {
		a, b := rankings[i], rankings[j]
		if a.WinRate != b.WinRate {
			return a.WinRate > b.WinRate
		}
		if a.MatchesPlayed != b.MatchesPlayed {
			return a.MatchesPlayed > b.MatchesPlayed
		}
		return a.Player.ID < b.Player.ID
	})

	for i := range rankings {
		rankings[i].Rank = i + 1
	}
	return rankings
}
