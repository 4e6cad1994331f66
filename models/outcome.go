package models

import (
	"fmt"
	"strings"
)

// Outcome is a win/loss/draw result for a team or a player. The zero value is
// not a valid outcome.
type Outcome int

const (
	Win Outcome = iota + 1
	Loss
	Draw
)

// Console symbols used by operators when entering results.
const (
	SymbolWin  = "○"
	SymbolLoss = "×"
	SymbolDraw = "△"
)

func (o Outcome) Valid() bool {
	return o == Win || o == Loss || o == Draw
}

func (o Outcome) String() string {
	switch o {
	case Win:
		return "win"
	case Loss:
		return "loss"
	case Draw:
		return "draw"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Symbol returns the console symbol for the outcome.
func (o Outcome) Symbol() string {
	switch o {
	case Win:
		return SymbolWin
	case Loss:
		return SymbolLoss
	case Draw:
		return SymbolDraw
	default:
		return "?"
	}
}

// Opposite returns the outcome the other side of a match gets.
func (o Outcome) Opposite() Outcome {
	switch o {
	case Win:
		return Loss
	case Loss:
		return Win
	default:
		return o
	}
}

// ParseOutcome accepts the long names, their first letters and the console
// symbols, case-insensitively.
func ParseOutcome(s string) (Outcome, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "win", "w", SymbolWin:
		return Win, nil
	case "loss", "l", SymbolLoss:
		return Loss, nil
	case "draw", "d", SymbolDraw:
		return Draw, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidOutcome, s)
}

// ParseOutcomePair parses a "home-away" pair such as "○-×" or "w-l".
func ParseOutcomePair(s string) (home, away Outcome, err error) {
	parts := strings.Split(s, "-")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("%w: expected home-away pair, got %q", ErrInvalidOutcome, s)
	}
	if home, err = ParseOutcome(parts[0]); err != nil {
		return 0, 0, err
	}
	if away, err = ParseOutcome(parts[1]); err != nil {
		return 0, 0, err
	}
	return home, away, nil
}

func (o Outcome) MarshalText() ([]byte, error) {
	if !o.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidOutcome, int(o))
	}
	return []byte(o.String()), nil
}

func (o *Outcome) UnmarshalText(text []byte) error {
	parsed, err := ParseOutcome(string(text))
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}
