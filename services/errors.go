package services

import "errors"

// Errors returned by the league service. Model and storage errors are wrapped
// with one of these so callers can classify them with errors.Is.
var (
	// InvalidInput
	ErrValidationFailed = errors.New("validation failed")

	// NotFound
	ErrLeagueNotFound = errors.New("league not found")
	ErrTeamNotFound   = errors.New("team not found")
	ErrPlayerNotFound = errors.New("player not found")
	ErrMatchNotFound  = errors.New("match not found")

	// Conflicts with existing data or the current league state
	ErrLeagueConflict = errors.New("league is already open")
	ErrTeamConflict   = errors.New("team id is already in use")
	ErrPlayerConflict = errors.New("player id is already in use")
	ErrStateConflict  = errors.New("operation conflicts with the current league state")

	// PersistenceFailure
	ErrStorageFailed = errors.New("league storage failed")
)
