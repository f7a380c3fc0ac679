package timer

import "errors"

// Sentinel kinds for clock errors.
var (
	ErrFinished = errors.New("clock: match finished")
	ErrClosed   = errors.New("clock: closed")
)
