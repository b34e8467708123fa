package game

import "errors"

// gameWarning is an error that is received due to a player action that is not allowed.
// Warnings are relayed to the offending player, other errors are logged as server faults.
type gameWarning string

// Error implements the error interface, returning the warning text.
func (w gameWarning) Error() string {
	return string(w)
}

// errInvariantViolated marks internal state corruption.  The room ends and
// viewers only see a generic error; the detail is logged.
var errInvariantViolated = errors.New("game state invariant violated")
