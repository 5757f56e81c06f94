package battle

import "errors"

var (
	ErrNoLegalMove      = errors.New("battle: no legal move")
	ErrNoStrategy       = errors.New("battle: no strategy for fighter ai")
	ErrEmptyRoster      = errors.New("battle: empty roster")
	ErrNotStarted       = errors.New("battle: instance not started")
	ErrNotWaitingPlayer = errors.New("battle: instance is not waiting for player input")
	ErrPendingActions   = errors.New("battle: queued actions not yet consumed")
	ErrIllegalMove      = errors.New("battle: move not known or not affordable")
)
