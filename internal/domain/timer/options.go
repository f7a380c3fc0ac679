// Package timer implements the cancellable match clock.
package timer

import (
	"time"

	"github.com/okian/pitchside/pkg/logger"
)

// Option applies a configuration option to the Clock.
type Option func(*Clock)

// WithMatchLength sets the full match length in minutes.
func WithMatchLength(minutes int) Option {
	return func(c *Clock) {
		if minutes > 0 {
			c.halfLength = minutes * 60 / 2
		}
	}
}

// WithInterval sets the tick period. The nominal resolution is one second.
func WithInterval(d time.Duration) Option {
	return func(c *Clock) {
		if d > 0 {
			c.interval = d
		}
	}
}

// WithInjuryTime keeps the clock running past the nominal half length and
// tracks the overflow as injury time.
func WithInjuryTime(enabled bool) Option {
	return func(c *Clock) {
		c.injury = enabled
	}
}

// OnHalfEnd registers a callback for the end of the first half.
func OnHalfEnd(fn func()) Option {
	return func(c *Clock) {
		c.onHalfEnd = fn
	}
}

// OnMatchEnd registers a callback for the end of the second half.
func OnMatchEnd(fn func()) Option {
	return func(c *Clock) {
		c.onMatchEnd = fn
	}
}

// WithLogger sets the clock logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Clock) {
		if l != nil {
			c.log = l
		}
	}
}
