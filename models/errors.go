package models

import "errors"

var (
	ErrInvalidOutcome       = errors.New("invalid outcome")
	ErrInconsistentOutcomes = errors.New("home and away outcomes are inconsistent")

	ErrTeamNotFound = errors.New("team not found")
	ErrSameTeam     = errors.New("a team cannot play against itself")

	ErrMatchFinished        = errors.New("match is already finished")
	ErrMatchNotFinished     = errors.New("match is not finished yet")
	ErrPlayerNotInMatch     = errors.New("player is not on either team of the match")
	ErrPlayerResultRecorded = errors.New("player result is already recorded for this match")

	ErrRoundIncomplete = errors.New("current round has unfinished matches")
)
