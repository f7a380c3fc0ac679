package xg

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/okian/pitchside/internal/domain/model"
)

// Shading constants for heat-map markers.
const (
	shadingScale     = 0.7
	defaultMaxJitter = 0.05
	markerBaseRadius = 5.0
	markerRadiusSpan = 15.0
)

// Shading is the heat-map xG variant. It draws fresh randomness on every
// call and keeps no memo; its values must not feed report totals, so it
// deliberately does not implement Source.
type Shading struct {
	mu        sync.Mutex
	rng       *rand.Rand
	maxJitter float64
}

// NewShading creates a shading estimator seeded from the wall clock.
func NewShading(opts ...ShadingOption) *Shading {
	s := &Shading{
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // visual jitter only
		maxJitter: defaultMaxJitter,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Shade returns a display intensity in [0,1] for a position.
func (s *Shading) Shade(x, y float64) float64 {
	pitchY := math.Abs(y - centerLine)
	distance := math.Hypot(x-goalLine, pitchY)
	distanceFactor := math.Max(0, 1-distance/goalLine)
	angleFactor := 1 - pitchY/centerLine

	s.mu.Lock()
	noise := s.rng.Float64() * s.maxJitter
	s.mu.Unlock()

	return clamp01(distanceFactor*angleFactor*shadingScale + noise)
}

// Marker is the rendering hint for one attempt on a heat map.
type Marker struct {
	EventID string          `json:"eventId"`
	Type    model.EventType `json:"type"`
	Team    model.Side      `json:"team"`
	X       float64         `json:"x"`
	Y       float64         `json:"y"`
	Value   float64         `json:"value"`
	Radius  float64         `json:"radius"`
	Opacity float64         `json:"opacity"`
}

// Markers shades every attempt in events.
func (s *Shading) Markers(events []model.Event) []Marker {
	out := make([]Marker, 0, len(events))
	for _, ev := range events {
		if !ev.Type.Attempt() {
			continue
		}
		v := s.Shade(ev.X, ev.Y)
		out = append(out, Marker{
			EventID: ev.ID,
			Type:    ev.Type,
			Team:    ev.Team,
			X:       ev.X,
			Y:       ev.Y,
			Value:   v,
			Radius:  markerBaseRadius + v*markerRadiusSpan,
			Opacity: v,
		})
	}
	return out
}
