package game

import (
	"errors"
	"fmt"
)

// Validation errors are reported to the acting player only and never mutate
// round state. Structural errors abort the triggering operation and leave
// the session exactly as it was.
var (
	ErrInsufficientPlayers = errors.New("not enough players to start the round")
	ErrNoActiveRound       = errors.New("no active round for session")
	ErrPlayerNotInRound    = errors.New("player is not in the round")
	ErrNotPlayerTurn       = errors.New("not your turn")
	ErrPlayerCannotAct     = errors.New("player cannot act")
	ErrInvalidCheck        = errors.New("cannot check, the current bet must be called")
	ErrInvalidRaiseAmount  = errors.New("raise amount must be positive")
	ErrRaiseTooSmall       = errors.New("raise too small")
	ErrUnknownAction       = errors.New("unknown action")
)

// raiseTooSmallError reports the minimum raise the player must make
func raiseTooSmallError(minimum int) error {
	return fmt.Errorf("%w: minimum raise is %d", ErrRaiseTooSmall, minimum)
}
