package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Match is a fixture between two teams. Home and Away are not owned by the
// match. Finished is true exactly when both scores are set.
type Match struct {
	ID            string
	Home          *Team
	Away          *Team
	Date          time.Time
	Round         int
	HomeScore     *int
	AwayScore     *int
	Finished      bool
	PlayerResults map[string]Outcome
}

// NewMatch creates an unscored fixture. A zero date means now; round 0 leaves
// the match untagged.
func NewMatch(home, away *Team, date time.Time, round int) *Match {
	if date.IsZero() {
		date = time.Now()
	}
	return &Match{
		ID:            uuid.NewString(),
		Home:          home,
		Away:          away,
		Date:          date,
		Round:         round,
		PlayerResults: make(map[string]Outcome),
	}
}

// SetScore finishes the match and applies the result to both team tallies.
// Negative scores are not rejected here; callers validate input. A finished
// match cannot be scored again.
func (m *Match) SetScore(homeScore, awayScore int) error {
	if m.Finished {
		return fmt.Errorf("match %s: %w", m.ID, ErrMatchFinished)
	}

	homeOutcome := Draw
	switch {
	case homeScore > awayScore:
		homeOutcome = Win
	case homeScore < awayScore:
		homeOutcome = Loss
	}
	awayOutcome := homeOutcome.Opposite()

	// Both outcomes are valid here, so neither call can fail and the two
	// tallies change together.
	if err := m.Home.AddMatchResult(homeScore, awayScore, homeOutcome); err != nil {
		return err
	}
	if err := m.Away.AddMatchResult(awayScore, homeScore, awayOutcome); err != nil {
		return err
	}

	m.HomeScore = &homeScore
	m.AwayScore = &awayScore
	m.Finished = true
	return nil
}

// SetScoreByOutcome records a result when exact scores are not tracked. The
// goals recorded are placeholders: 1-0, 0-1 or 0-0.
func (m *Match) SetScoreByOutcome(home, away Outcome) error {
	switch {
	case home == Win && away == Loss:
		return m.SetScore(1, 0)
	case home == Loss && away == Win:
		return m.SetScore(0, 1)
	case home == Draw && away == Draw:
		return m.SetScore(0, 0)
	}
	return fmt.Errorf("match %s: %w: %s-%s", m.ID, ErrInconsistentOutcomes, home, away)
}

// AddPlayerResult records an individual result for a player on either roster
// and updates that player's tally. Player results are independent of the team
// score.
func (m *Match) AddPlayerResult(playerID string, outcome Outcome) error {
	if !outcome.Valid() {
		return fmt.Errorf("match %s: %w: %d", m.ID, ErrInvalidOutcome, int(outcome))
	}
	if !m.Finished {
		return fmt.Errorf("match %s: %w", m.ID, ErrMatchNotFinished)
	}
	if _, ok := m.PlayerResults[playerID]; ok {
		return fmt.Errorf("match %s, player %s: %w", m.ID, playerID, ErrPlayerResultRecorded)
	}

	player, ok := m.Home.Player(playerID)
	if !ok {
		player, ok = m.Away.Player(playerID)
	}
	if !ok {
		return fmt.Errorf("match %s, player %s: %w", m.ID, playerID, ErrPlayerNotInMatch)
	}

	if err := player.AddResult(outcome); err != nil {
		return err
	}
	if m.PlayerResults == nil {
		m.PlayerResults = make(map[string]Outcome)
	}
	m.PlayerResults[playerID] = outcome
	return nil
}

// Outcomes reports the home and away outcome of a finished match.
func (m *Match) Outcomes() (home, away Outcome, ok bool) {
	if !m.Finished || m.HomeScore == nil || m.AwayScore == nil {
		return 0, 0, false
	}
	switch {
	case *m.HomeScore > *m.AwayScore:
		return Win, Loss, true
	case *m.HomeScore < *m.AwayScore:
		return Loss, Win, true
	default:
		return Draw, Draw, true
	}
}

// Involves reports whether the team plays in this match.
func (m *Match) Involves(teamID string) bool {
	return m.Home.ID == teamID || m.Away.ID == teamID
}

func (m *Match) String() string {
	roundInfo := ""
	if m.Round > 0 {
		roundInfo = fmt.Sprintf("Round %d: ", m.Round)
	}
	date := m.Date.Format("2006-01-02")
	if m.Finished && m.HomeScore != nil && m.AwayScore != nil {
		return fmt.Sprintf("%s%s %d-%d %s (%s)", roundInfo, m.Home.Name, *m.HomeScore, *m.AwayScore, m.Away.Name, date)
	}
	return fmt.Sprintf("%s%s vs %s (%s)", roundInfo, m.Home.Name, m.Away.Name, date)
}
