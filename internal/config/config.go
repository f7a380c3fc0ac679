// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Every field carries a koanf key and, where it has a range, a validate tag.
// - External errors must be wrapped with this package's sentinels.
package config

import "time"

// Store drivers.
const (
	DriverMemory = "memory"
	DriverSQLite = "sqlite"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"oneof=debug info warn warning error"`

	// LogFormat selects the slog handler: text or json.
	LogFormat string `koanf:"log_format" validate:"oneof=text json"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr" validate:"required"`

	// StoreDriver selects the key-value backend holding matches and settings.
	StoreDriver string `koanf:"store_driver" validate:"oneof=memory sqlite"`

	// StorePath is the SQLite database file.
	StorePath string `koanf:"store_path" validate:"required_if=StoreDriver sqlite"`

	// MatchesKey is the store key the match collection lives under.
	MatchesKey string `koanf:"matches_key" validate:"required"`

	// SubstitutionCap is the default number of substitution windows per team.
	SubstitutionCap int `koanf:"substitution_cap" validate:"gte=1,lte=5"`

	// MatchLength is the default match length in minutes.
	MatchLength int `koanf:"match_length" validate:"gt=0"`

	// TickInterval is how often running clocks advance by one second.
	TickInterval time.Duration `koanf:"tick_interval" validate:"gt=0"`

	// InjuryTime lets clocks keep counting past the half length.
	InjuryTime bool `koanf:"injury_time"`

	// MaxPlayersPerTeam caps each side's roster.
	MaxPlayersPerTeam int `koanf:"max_players_per_team" validate:"gte=1"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":9080",
		StoreDriver:       DriverMemory,
		StorePath:         "pitchside.db",
		MatchesKey:        "soccerMatches",
		SubstitutionCap:   3,
		MatchLength:       90,
		TickInterval:      time.Second,
		InjuryTime:        false,
		MaxPlayersPerTeam: 20,
	}
}
