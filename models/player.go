package models

import "fmt"

// Player is an individual on a team roster with their own win/loss/draw tally.
// TeamID is a back-reference stamped by Team.AddPlayer.
type Player struct {
	ID       string
	Name     string
	TeamID   string
	Position string
	Age      *int

	MatchesPlayed int
	Wins          int
	Losses        int
	Draws         int
}

func NewPlayer(id, name string) *Player {
	return &Player{ID: id, Name: name}
}

// AddResult records one match result for the player.
func (p *Player) AddResult(outcome Outcome) error {
	switch outcome {
	case Win:
		p.Wins++
	case Loss:
		p.Losses++
	case Draw:
		p.Draws++
	default:
		return fmt.Errorf("player %s: %w: %d", p.ID, ErrInvalidOutcome, int(outcome))
	}
	p.MatchesPlayed++
	return nil
}

// WinRate is 0 for a player who has not played yet.
func (p *Player) WinRate() float64 {
	if p.MatchesPlayed == 0 {
		return 0
	}
	return float64(p.Wins) / float64(p.MatchesPlayed)
}

func (p *Player) String() string {
	profile := p.Name
	if p.Position != "" {
		profile += " (" + p.Position + ")"
	}
	if p.Age != nil {
		profile += fmt.Sprintf(", age %d", *p.Age)
	}
	return fmt.Sprintf("%s: %dW %dL %dD, win rate %.3f", profile, p.Wins, p.Losses, p.Draws, p.WinRate())
}
