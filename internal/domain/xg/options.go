// Package xg estimates expected goals for shots and goals.
package xg

import "math/rand"

// Option applies a configuration option to the Estimator.
type Option func(*Estimator)

// WithCapacityHint pre-sizes the memo for the expected number of attempts.
func WithCapacityHint(n int) Option {
	return func(e *Estimator) {
		if n > 0 {
			e.memo = make(map[string]float64, n)
		}
	}
}

// ShadingOption applies a configuration option to Shading.
type ShadingOption func(*Shading)

// WithRand sets the randomness source used for shading jitter.
func WithRand(r *rand.Rand) ShadingOption {
	return func(s *Shading) {
		if r != nil {
			s.rng = r
		}
	}
}

// WithMaxJitter sets the upper bound of the uniform shading jitter.
func WithMaxJitter(v float64) ShadingOption {
	return func(s *Shading) {
		if v >= 0 {
			s.maxJitter = v
		}
	}
}
