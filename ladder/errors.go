package ladder

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedPlayerCount = errors.New("ladder match supports only 4 or 5 players")
	ErrInvalidPlayTo          = errors.New("play-to must be between 1 and 99")
	ErrTooManyNames           = errors.New("more player names than player slots")
	ErrCellOutOfRange         = errors.New("game or player index out of range")
	ErrCellInactive           = errors.New("player sits out this game")
	ErrPlayerOutOfRange       = errors.New("player index out of range")
	ErrIncomplete             = errors.New("please fill in all scores before submitting the match")
	ErrNoSuggestion           = errors.New("no replay suggestion is available")
	ErrSessionNotStarted      = errors.New("match has not been started")
	ErrSessionStarted         = errors.New("match is already in progress")
)

// ValidationError is returned when a score exceeds the play-to target.
// The cell stays editable; ClampedLoser is the score to record for the losing
// side of a win-by-two game that ran past the cap.
type ValidationError struct {
	PlayTo       int `json:"play_to"`
	ClampedLoser int `json:"clamped_loser"`
}

func newValidationError(playTo int) *ValidationError {
	return &ValidationError{PlayTo: playTo, ClampedLoser: playTo - 1}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("max points for this match is %d; if the real score exceeded %d due to win-by-2, enter it as %d-%d",
		e.PlayTo, e.PlayTo, e.PlayTo, e.ClampedLoser)
}
