package console

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/Dosada05/league-tracker/services"
)

// WriteStandings renders the team table.
func WriteStandings(w io.Writer, rows []services.StandingView) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tTEAM\tP\tW\tD\tL\tPTS\tWIN%\tGF\tGA\tGD")
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%d\t%d\t%.3f\t%d\t%d\t%+d\n",
			r.Rank, r.TeamName, r.MatchesPlayed, r.Wins, r.Draws, r.Losses,
			r.Points, r.WinRate, r.GoalsFor, r.GoalsAgainst, r.GoalDifference)
	}
	return tw.Flush()
}

// WriteRankings renders the player win-rate table.
func WriteRankings(w io.Writer, rows []services.RankingView) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tPLAYER\tTEAM\tP\tW\tD\tL\tWIN%")
	for _, r := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%d\t%d\t%.3f\n",
			r.Rank, r.PlayerName, r.TeamName, r.MatchesPlayed, r.Wins, r.Draws, r.Losses, r.WinRate)
	}
	return tw.Flush()
}
