package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrClosed   = errors.New("store closed")
	ErrEmptyKey = errors.New("empty store key")
	ErrCorrupt  = errors.New("stored value is not valid json")
	ErrBackend  = errors.New("store backend failed")
)
