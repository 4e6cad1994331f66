// Package console is the interactive text menu used by leaguectl. It drives
// the same LeagueService as the HTTP API.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Dosada05/league-tracker/models"
	"github.com/Dosada05/league-tracker/services"
)

type Console struct {
	svc    services.LeagueService
	league string
	tty    *os.File
	lines  *bufio.Reader
	out    io.Writer
}

// New opens a console on an already open league. When in is a terminal the
// prompts take it over directly; any other reader is consumed line by line.
func New(svc services.LeagueService, league string, in io.Reader, out io.Writer) *Console {
	c := &Console{svc: svc, league: league, out: out}
	if c.tty = terminal(in); c.tty == nil {
		c.lines = bufio.NewReader(in)
	}
	return c
}

// League returns the name of the league the console is working on. It
// changes when another league is loaded from the file menu.
func (c *Console) League() string { return c.league }

// Run shows the main menu until the operator exits or input ends.
func (c *Console) Run(ctx context.Context) error {
	for {
		c.header(c.league + " league manager")
		c.println("1. Teams")
		c.println("2. Players")
		c.println("3. Matches")
		c.println("4. Stats")
		c.println("5. File")
		c.println("0. Exit")

		cmd, err := c.prompt(ctx, "Select a command")
		if err != nil {
			return c.exit(ctx, err)
		}

		switch cmd {
		case "1":
			err = c.menu(ctx, "Teams", []menuItem{
				{"List teams", c.listTeams},
				{"Add team", c.addTeam},
				{"Team details", c.teamDetails},
			})
		case "2":
			err = c.menu(ctx, "Players", []menuItem{
				{"List players", c.listPlayers},
				{"Add player", c.addPlayer},
				{"Player details", c.playerDetails},
			})
		case "3":
			err = c.menu(ctx, "Matches", []menuItem{
				{"List matches", c.listMatches},
				{"Add match", c.addMatch},
				{"Enter score", c.enterScore},
				{"Enter result (○×△)", c.enterOutcome},
				{"Enter player result", c.enterPlayerResult},
				{"Next round", c.nextRound},
			})
		case "4":
			err = c.menu(ctx, "Stats", []menuItem{
				{"Team standings", c.showStandings},
				{"Player rankings", c.showRankings},
			})
		case "5":
			err = c.menu(ctx, "File", []menuItem{
				{"Save league", c.saveLeague},
				{"Load league", c.loadLeague},
			})
		case "0":
			return c.exit(ctx, nil)
		default:
			c.println("Invalid command.")
		}
		if err != nil {
			return c.exit(ctx, err)
		}
	}
}

type menuItem struct {
	label  string
	action func(ctx context.Context) error
}

// menu returns nil when the operator goes back and io.EOF when input ends.
// Errors from actions are printed and the menu continues.
func (c *Console) menu(ctx context.Context, title string, items []menuItem) error {
	for {
		c.header(title)
		for i, item := range items {
			c.printf("%d. %s\n", i+1, item.label)
		}
		c.println("0. Back")

		cmd, err := c.prompt(ctx, "Select a command")
		if err != nil {
			return err
		}
		if cmd == "0" {
			return nil
		}
		n, err := strconv.Atoi(cmd)
		if err != nil || n < 1 || n > len(items) {
			c.println("Invalid command.")
			continue
		}

		c.header(items[n-1].label)
		if err := items[n-1].action(ctx); err != nil {
			if errors.Is(err, io.EOF) {
				return err
			}
			c.printf("Error: %v\n", err)
		}
	}
}

// exit offers to save a league that has data before leaving.
func (c *Console) exit(ctx context.Context, cause error) error {
	if cause != nil && !errors.Is(cause, io.EOF) {
		return cause
	}
	if cause == nil {
		summary, err := c.svc.GetLeague(ctx, c.league)
		if err == nil && (summary.TeamCount > 0 || summary.MatchCount > 0) {
			if ok, err := c.confirm(ctx, "Save the league before exiting?"); err == nil && ok {
				if err := c.svc.SaveLeague(ctx, c.league); err != nil {
					c.printf("Save failed: %v\n", err)
				} else {
					c.printf("League %q saved.\n", summary.Name)
				}
			}
		}
	}
	c.println("Bye.")
	return nil
}

func (c *Console) header(title string) {
	c.println(strings.Repeat("=", 50))
	c.println(" " + title)
	c.println(strings.Repeat("=", 50))
}

func (c *Console) println(s string) {
	fmt.Fprintln(c.out, s)
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

// prompt returns the trimmed answer, or io.EOF when input ends.
func (c *Console) prompt(ctx context.Context, label string) (string, error) {
	return c.ask(ctx, question{Text: label})
}

// confirm treats an empty answer as no.
func (c *Console) confirm(ctx context.Context, text string) (bool, error) {
	answer, err := c.ask(ctx, question{Text: text + " (y/n)", DefaultValue: "n"})
	if err != nil {
		return false, err
	}
	return strings.EqualFold(answer, "y"), nil
}

// choose prints the numbered options and returns the picked index.
func (c *Console) choose(ctx context.Context, label string, options []string) (int, error) {
	for i, o := range options {
		c.printf("%d. %s\n", i+1, o)
	}
	var picked int
	_, err := c.ask(ctx, question{
		Text: label,
		Parse: func(raw string) error {
			n, err := strconv.Atoi(raw)
			if err != nil {
				return fmt.Errorf("%q is not a number", raw)
			}
			if n < 1 || n > len(options) {
				return fmt.Errorf("no option %d", n)
			}
			picked = n - 1
			return nil
		},
	})
	if err != nil {
		return 0, err
	}
	return picked, nil
}

func (c *Console) listTeams(ctx context.Context) error {
	teams, err := c.svc.ListTeams(ctx, c.league)
	if err != nil {
		return err
	}
	if len(teams) == 0 {
		c.println("No teams yet.")
		return nil
	}
	for i, t := range teams {
		c.printf("%d. %s (%d players)\n", i+1, t.Name, len(t.Players))
	}
	return nil
}

func (c *Console) addTeam(ctx context.Context) error {
	name, err := c.prompt(ctx, "Team name")
	if err != nil {
		return err
	}
	team, err := c.svc.AddTeam(ctx, c.league, services.CreateTeamInput{Name: name})
	if err != nil {
		return err
	}
	c.printf("Team %q added (id %s).\n", team.Name, team.ID)
	return nil
}

func (c *Console) teamDetails(ctx context.Context) error {
	name, err := c.prompt(ctx, "Team name")
	if err != nil {
		return err
	}
	team, err := c.svc.FindTeamByName(ctx, c.league, name)
	if err != nil {
		return err
	}
	c.printf("%s: %dW %dL %dD, GF %d GA %d, %d pts\n",
		team.Name, team.Wins, team.Losses, team.Draws, team.GoalsFor, team.GoalsAgainst, team.Points)
	if len(team.Players) == 0 {
		c.println("  No players.")
		return nil
	}
	for i, p := range team.Players {
		c.printf("  %d. %s - win rate %.3f (%dW %dL %dD)\n", i+1, p.Name, p.WinRate, p.Wins, p.Losses, p.Draws)
	}
	return nil
}

func (c *Console) listPlayers(ctx context.Context) error {
	players, err := c.svc.ListPlayers(ctx, c.league)
	if err != nil {
		return err
	}
	if len(players) == 0 {
		c.println("No players yet.")
		return nil
	}
	for i, p := range players {
		c.printf("%d. %s (%s)\n", i+1, p.Name, p.TeamName)
	}
	return nil
}

func (c *Console) addPlayer(ctx context.Context) error {
	teamName, err := c.prompt(ctx, "Team name")
	if err != nil {
		return err
	}
	team, err := c.svc.FindTeamByName(ctx, c.league, teamName)
	if err != nil {
		return err
	}
	name, err := c.prompt(ctx, "Player name")
	if err != nil {
		return err
	}
	position, err := c.prompt(ctx, "Position (optional)")
	if err != nil {
		return err
	}
	ageRaw, err := c.prompt(ctx, "Age (optional)")
	if err != nil {
		return err
	}

	input := services.CreatePlayerInput{Name: name, Position: position}
	if age, convErr := strconv.Atoi(ageRaw); convErr == nil && age >= 0 {
		input.Age = &age
	}
	player, err := c.svc.AddPlayer(ctx, c.league, team.ID, input)
	if err != nil {
		return err
	}
	c.printf("Player %q added to %q.\n", player.Name, team.Name)
	return nil
}

func (c *Console) playerDetails(ctx context.Context) error {
	name, err := c.prompt(ctx, "Player name")
	if err != nil {
		return err
	}
	players, err := c.svc.ListPlayers(ctx, c.league)
	if err != nil {
		return err
	}
	for _, p := range players {
		if p.Name != name {
			continue
		}
		c.printf("Team: %s\n", p.TeamName)
		profile := p.Name
		if p.Position != "" {
			profile += " (" + p.Position + ")"
		}
		if p.Age != nil {
			profile += fmt.Sprintf(", age %d", *p.Age)
		}
		c.printf("%s: %dW %dL %dD, win rate %.3f\n", profile, p.Wins, p.Losses, p.Draws, p.WinRate)
		return nil
	}
	c.printf("Player %q not found.\n", name)
	return nil
}

func (c *Console) listMatches(ctx context.Context) error {
	matches, err := c.svc.ListMatches(ctx, c.league, services.MatchFilter{})
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		c.println("No matches yet.")
		return nil
	}
	for i, m := range matches {
		c.printf("%d. %s\n", i+1, m.Summary)
	}
	return nil
}

func (c *Console) addMatch(ctx context.Context) error {
	homeName, err := c.prompt(ctx, "Home team name")
	if err != nil {
		return err
	}
	awayName, err := c.prompt(ctx, "Away team name")
	if err != nil {
		return err
	}
	home, err := c.svc.FindTeamByName(ctx, c.league, homeName)
	if err != nil {
		return err
	}
	away, err := c.svc.FindTeamByName(ctx, c.league, awayName)
	if err != nil {
		return err
	}
	match, err := c.svc.CreateMatch(ctx, c.league, home.ID, away.ID)
	if err != nil {
		return err
	}
	c.printf("Round %d: %s vs %s added.\n", match.Round, match.HomeTeamName, match.AwayTeamName)
	return nil
}

// pickMatch lists the matches with the given finished state and returns the
// chosen one, or nil when there is nothing to choose from.
func (c *Console) pickMatch(ctx context.Context, finished bool) (*services.MatchView, error) {
	matches, err := c.svc.ListMatches(ctx, c.league, services.MatchFilter{Finished: &finished})
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		if finished {
			c.println("No finished matches.")
		} else {
			c.println("Every match is finished.")
		}
		return nil, nil
	}

	options := make([]string, len(matches))
	for i, m := range matches {
		options[i] = m.Summary
	}
	idx, err := c.choose(ctx, "Match number", options)
	if err != nil {
		return nil, err
	}
	return &matches[idx], nil
}

func (c *Console) enterScore(ctx context.Context) error {
	m, err := c.pickMatch(ctx, false)
	if err != nil || m == nil {
		return err
	}
	home, err := c.promptScore(ctx, m.HomeTeamName)
	if err != nil {
		return err
	}
	away, err := c.promptScore(ctx, m.AwayTeamName)
	if err != nil {
		return err
	}
	if _, err := c.svc.RecordScore(ctx, c.league, m.ID, home, away); err != nil {
		return err
	}
	c.printf("Score recorded: %s %d-%d %s\n", m.HomeTeamName, home, away, m.AwayTeamName)
	return nil
}

func (c *Console) promptScore(ctx context.Context, team string) (int, error) {
	var score int
	_, err := c.ask(ctx, question{
		Text: team + " score",
		Parse: func(raw string) error {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				return fmt.Errorf("score must be a whole number of at least 0, got %q", raw)
			}
			score = n
			return nil
		},
	})
	if err != nil {
		return 0, err
	}
	return score, nil
}

func (c *Console) enterOutcome(ctx context.Context) error {
	m, err := c.pickMatch(ctx, false)
	if err != nil || m == nil {
		return err
	}
	c.printf("%s vs %s\n", m.HomeTeamName, m.AwayTeamName)
	c.println("Enter ○-× (home win), ×-○ (away win) or △-△ (draw).")
	raw, err := c.prompt(ctx, "Result")
	if err != nil {
		return err
	}
	home, away, err := models.ParseOutcomePair(raw)
	if err != nil {
		return err
	}
	if _, err := c.svc.RecordOutcome(ctx, c.league, m.ID, home, away); err != nil {
		return err
	}
	c.printf("Result recorded: %s %s %s\n", m.HomeTeamName, raw, m.AwayTeamName)
	return nil
}

func (c *Console) enterPlayerResult(ctx context.Context) error {
	m, err := c.pickMatch(ctx, true)
	if err != nil || m == nil {
		return err
	}
	side, err := c.prompt(ctx, "Which side? (1: home, 2: away)")
	if err != nil {
		return err
	}
	var teamID string
	switch side {
	case "1":
		teamID = m.HomeTeamID
	case "2":
		teamID = m.AwayTeamID
	default:
		return fmt.Errorf("enter 1 or 2, got %q", side)
	}

	team, err := c.svc.GetTeam(ctx, c.league, teamID)
	if err != nil {
		return err
	}
	if len(team.Players) == 0 {
		c.printf("%s has no players.\n", team.Name)
		return nil
	}
	names := make([]string, len(team.Players))
	for i, p := range team.Players {
		names[i] = p.Name
	}
	idx, err := c.choose(ctx, "Player number", names)
	if err != nil {
		return err
	}
	player := team.Players[idx]

	raw, err := c.prompt(ctx, player.Name + " result (○/×/△)")
	if err != nil {
		return err
	}
	outcome, err := models.ParseOutcome(raw)
	if err != nil {
		return err
	}
	if _, err := c.svc.RecordPlayerResult(ctx, c.league, m.ID, player.ID, outcome); err != nil {
		return err
	}
	c.printf("%s: %s recorded.\n", player.Name, outcome.Symbol())
	return nil
}

func (c *Console) nextRound(ctx context.Context) error {
	before, err := c.svc.GetLeague(ctx, c.league)
	if err != nil {
		return err
	}
	after, err := c.svc.AdvanceRound(ctx, c.league)
	if err != nil {
		return err
	}
	c.printf("Moved from round %d to round %d.\n", before.CurrentRound, after.CurrentRound)
	return nil
}

func (c *Console) showStandings(ctx context.Context) error {
	rows, err := c.svc.Standings(ctx, c.league)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		c.println("No teams yet.")
		return nil
	}
	return WriteStandings(c.out, rows)
}

func (c *Console) showRankings(ctx context.Context) error {
	rows, err := c.svc.PlayerRankings(ctx, c.league)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		c.println("No players yet.")
		return nil
	}
	return WriteRankings(c.out, rows)
}

func (c *Console) saveLeague(ctx context.Context) error {
	summary, err := c.svc.GetLeague(ctx, c.league)
	if err != nil {
		return err
	}
	c.printf("League: %s\nTeams: %d\nMatches: %d\n", summary.Name, summary.TeamCount, summary.MatchCount)
	ok, err := c.confirm(ctx, "Save this league?")
	if err != nil {
		return err
	}
	if !ok {
		c.println("Save cancelled.")
		return nil
	}
	if err := c.svc.SaveLeague(ctx, c.league); err != nil {
		return err
	}
	c.printf("League %q saved.\n", summary.Name)
	return nil
}

func (c *Console) loadLeague(ctx context.Context) error {
	current, err := c.svc.GetLeague(ctx, c.league)
	if err != nil {
		return err
	}
	if current.TeamCount > 0 || current.MatchCount > 0 {
		c.println("Warning: unsaved changes to the current league will be lost.")
		ok, err := c.confirm(ctx, "Continue?")
		if err != nil {
			return err
		}
		if !ok {
			c.println("Load cancelled.")
			return nil
		}
	}

	saved, err := c.svc.ListSaved(ctx)
	if err != nil {
		return err
	}
	if len(saved) == 0 {
		c.println("No saved leagues.")
		return nil
	}
	idx, err := c.choose(ctx, "League number", saved)
	if err != nil {
		return err
	}

	loaded, err := c.svc.LoadLeague(ctx, saved[idx])
	if err != nil {
		return err
	}
	if loaded.Key != current.Key {
		if err := c.svc.CloseLeague(ctx, current.Name); err != nil {
			return err
		}
	}
	c.league = loaded.Name
	c.printf("League %q loaded.\nTeams: %d\nMatches: %d\n", loaded.Name, loaded.TeamCount, loaded.MatchCount)
	return nil
}
