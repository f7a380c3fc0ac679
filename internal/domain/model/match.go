package model

import (
	"encoding/json"
	"fmt"
)

// Substitution window caps. The base variant allows three windows per side;
// a match may raise its cap up to MaxSubstitutionCap.
const (
	DefaultSubstitutionCap = 3
	MaxSubstitutionCap     = 5
	DefaultMatchLength     = 90
)

// Half is the match phase. It only moves forward.
type Half int

const (
	FirstHalf Half = iota + 1
	SecondHalf
	Finished
)

const finishedLabel = "finished"

func (h Half) String() string {
	switch h {
	case FirstHalf:
		return "1"
	case SecondHalf:
		return "2"
	case Finished:
		return finishedLabel
	default:
		return fmt.Sprintf("half(%d)", int(h))
	}
}

// MarshalJSON encodes halves as 1, 2 or "finished".
func (h Half) MarshalJSON() ([]byte, error) {
	switch h {
	case FirstHalf, SecondHalf:
		return json.Marshal(int(h))
	case Finished:
		return json.Marshal(finishedLabel)
	default:
		return nil, fmt.Errorf("marshal half %d: %w", int(h), ErrValidation)
	}
}

// UnmarshalJSON accepts 1, 2 or "finished".
func (h *Half) UnmarshalJSON(b []byte) error {
	var n int
	if err := json.Unmarshal(b, &n); err == nil {
		switch Half(n) {
		case FirstHalf, SecondHalf:
			*h = Half(n)
			return nil
		}
		return fmt.Errorf("unmarshal half %d: %w", n, ErrValidation)
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("unmarshal half: %w", err)
	}
	if s != finishedLabel {
		return fmt.Errorf("unmarshal half %q: %w", s, ErrValidation)
	}
	*h = Finished
	return nil
}

// Match is the persisted unit of a fixture with its roster and events.
// HomeScore and AwayScore are a cache of the goal events and must only be
// changed through RecomputeScore.
type Match struct {
	ID                      string   `json:"id"`
	HomeTeam                string   `json:"homeTeam"`
	AwayTeam                string   `json:"awayTeam"`
	HomeScore               int      `json:"homeScore"`
	AwayScore               int      `json:"awayScore"`
	CurrentHalf             Half     `json:"currentHalf"`
	HomeSubstitutionWindows int      `json:"homeSubstitutionWindows"`
	AwaySubstitutionWindows int      `json:"awaySubstitutionWindows"`
	SubstitutionCap         int      `json:"substitutionCap,omitempty"`
	StartTime               int64    `json:"startTime"`
	Events                  []Event  `json:"events"`
	Players                 []Player `json:"players"`
	LegNumber               int      `json:"legNumber"`
	Category                string   `json:"category"`
	MatchLength             int      `json:"matchLength,omitempty"`
	AgeCategory             string   `json:"ageCategory,omitempty"`
}

// Cap returns the substitution window cap, defaulting matches stored
// without one to the base variant.
func (m *Match) Cap() int {
	if m.SubstitutionCap <= 0 {
		return DefaultSubstitutionCap
	}
	return m.SubstitutionCap
}

// Length returns the match length in minutes.
func (m *Match) Length() int {
	if m.MatchLength <= 0 {
		return DefaultMatchLength
	}
	return m.MatchLength
}

// Finished reports whether the match has ended.
func (m *Match) Finished() bool {
	return m.CurrentHalf == Finished
}

// TeamName returns the literal team name playing on side s.
func (m *Match) TeamName(s Side) string {
	if s == Away {
		return m.AwayTeam
	}
	return m.HomeTeam
}

// SideOf resolves which side a team name played in this match.
func (m *Match) SideOf(team string) (Side, bool) {
	switch team {
	case m.HomeTeam:
		return Home, true
	case m.AwayTeam:
		return Away, true
	default:
		return "", false
	}
}

// Windows returns the substitution windows used by side s.
func (m *Match) Windows(s Side) int {
	if s == Away {
		return m.AwaySubstitutionWindows
	}
	return m.HomeSubstitutionWindows
}

// HasEvent reports whether an event with id is already recorded.
func (m *Match) HasEvent(id string) bool {
	for i := range m.Events {
		if m.Events[i].ID == id {
			return true
		}
	}
	return false
}

// Player looks up a roster entry by id.
func (m *Match) Player(id string) (Player, bool) {
	for _, p := range m.Players {
		if p.ID == id {
			return p, true
		}
	}
	return Player{}, false
}

// RecomputeScore rebuilds the score cache from the goal events.
func (m *Match) RecomputeScore() {
	home, away := 0, 0
	for _, e := range m.Events {
		if e.Type != Goal {
			continue
		}
		switch e.Team {
		case Home:
			home++
		case Away:
			away++
		}
	}
	m.HomeScore, m.AwayScore = home, away
}

// Clone returns a deep copy safe to hand to readers.
func (m *Match) Clone() Match {
	c := *m
	c.Events = make([]Event, len(m.Events))
	for i, e := range m.Events {
		if e.Player != nil {
			p := *e.Player
			e.Player = &p
		}
		c.Events[i] = e
	}
	c.Players = append([]Player(nil), m.Players...)
	return c
}
