package repository

import (
	"time"

	"github.com/okian/pitchside/pkg/logger"
)

// StoreOption configures a MatchStore.
type StoreOption func(*MatchStore)

// WithStoreLogger sets the logger used for store failures.
func WithStoreLogger(l logger.Logger) StoreOption {
	return func(s *MatchStore) {
		if l != nil {
			s.log = l
		}
	}
}

// SQLiteOption configures a SQLiteStore.
type SQLiteOption func(*SQLiteStore)

// WithBusyTimeout sets how long a write waits on a locked database.
func WithBusyTimeout(d time.Duration) SQLiteOption {
	return func(s *SQLiteStore) {
		if d > 0 {
			s.busyTimeout = d
		}
	}
}

// WithSQLiteLogger sets the logger used while opening and migrating.
func WithSQLiteLogger(l logger.Logger) SQLiteOption {
	return func(s *SQLiteStore) {
		if l != nil {
			s.log = l
		}
	}
}
