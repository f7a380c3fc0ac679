// Package model contains domain models passed between layers.
package model

// EventType is the closed set of things an operator can record on the pitch.
type EventType string

const (
	Goal       EventType = "goal"
	Shot       EventType = "shot"
	Foul       EventType = "foul"
	Corner     EventType = "corner"
	YellowCard EventType = "yellowCard"
	RedCard    EventType = "redCard"
	Injury     EventType = "injury"
	Offside    EventType = "offside"
	Assist     EventType = "assist"
)

// EventTypes lists every recordable type in display order.
func EventTypes() []EventType {
	return []EventType{Goal, Shot, Foul, Corner, YellowCard, RedCard, Injury, Offside, Assist}
}

// Valid reports whether t is one of the known event types.
func (t EventType) Valid() bool {
	switch t {
	case Goal, Shot, Foul, Corner, YellowCard, RedCard, Injury, Offside, Assist:
		return true
	default:
		return false
	}
}

// Attempt reports whether t counts as an attempt on goal for xG.
func (t EventType) Attempt() bool {
	switch t {
	case Goal, Shot:
		return true
	case Foul, Corner, YellowCard, RedCard, Injury, Offside, Assist:
		return false
	default:
		return false
	}
}

// Side identifies the home or away team of a match.
type Side string

const (
	Home Side = "home"
	Away Side = "away"
)

// Valid reports whether s is home or away.
func (s Side) Valid() bool {
	return s == Home || s == Away
}

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == Home {
		return Away
	}
	return Home
}

// Player is a roster entry. Events hold a copy, never a reference into the roster.
type Player struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Number int    `json:"number"`
	Team   Side   `json:"team"`
}

// Event is a single recorded occurrence at a pitch position.
// X and Y are percentages of pitch length and width.
// Timestamp is epoch milliseconds and is not guaranteed to be monotonic.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	X         float64   `json:"x"`
	Y         float64   `json:"y"`
	Timestamp int64     `json:"timestamp"`
	Team      Side      `json:"team"`
	Player    *Player   `json:"player,omitempty"`
	MatchID   string    `json:"matchId"`
}

// WithPlayer returns a copy of e carrying its own copy of p.
func (e Event) WithPlayer(p Player) Event {
	e.Player = &p
	return e
}
