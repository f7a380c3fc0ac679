// Package simulate drives a running pitchside API with generated matches
// and checks that the ledger stayed consistent.
package simulate

import "time"

// Config holds configuration for a simulation run.
type Config struct {
	BaseURL        string        // Base URL of the service
	Matches        int           // Number of matches to create
	EventsPerMatch int           // Events recorded in each match
	Workers        int           // Matches driven concurrently
	Timeout        time.Duration // HTTP request timeout
	Seed           uint64        // Seed for generated matches and events
	Verbose        bool          // Log every refused request
}

// Stats holds simulation statistics.
type Stats struct {
	MatchesCreated       int
	MatchesVerified      int
	EventsSubmitted      int
	EventsAccepted       int
	EventsRejected       int
	SubstitutionsGranted int
	SubstitutionsRefused int
	Mismatches           []string
	StartTime            time.Time
	EndTime              time.Time
	Duration             time.Duration
}

// matchRequest mirrors the POST /matches body.
type matchRequest struct {
	HomeTeam        string          `json:"homeTeam"`
	AwayTeam        string          `json:"awayTeam"`
	Category        string          `json:"category"`
	LegNumber       int             `json:"legNumber"`
	SubstitutionCap int             `json:"substitutionCap,omitempty"`
	Players         []playerRequest `json:"players"`
}

type playerRequest struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Number int    `json:"number"`
	Team   string `json:"team"`
}

// eventRequest mirrors the POST /matches/{id}/events body.
type eventRequest struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	Team        string  `json:"team"`
	X           float64 `json:"x"`
	Y           float64 `json:"y"`
	Coordinates string  `json:"coordinates,omitempty"`
	Width       float64 `json:"width,omitempty"`
	Height      float64 `json:"height,omitempty"`
	PlayerID    string  `json:"playerId,omitempty"`
}

// matchPlan is a generated match and the events to record in it.
type matchPlan struct {
	Setup  matchRequest
	Events []eventRequest
}
