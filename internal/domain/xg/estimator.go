package xg

import (
	"math"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/okian/pitchside/internal/domain/model"
)

// Geometry of the goal in percentage space.
const (
	goalWidth  = 7.32
	pitchWidth = 75.0
	centerLine = 50.0
	goalLine   = 100.0

	distanceDecay    = 0.05
	angleExponent    = 1.5
	distanceWeight   = 0.4
	angleWeight      = 0.4
	centralityWeight = 0.2

	jitterSpan  = 0.04
	jitterFloor = 0.01
	seedDigits  = 8
)

// Source returns a deterministic xG value for an attempt. Report totals
// depend on this interface only.
type Source interface {
	Estimate(id string, x, y float64) float64
}

// TeamXG holds summed expected goals per side.
type TeamXG struct {
	Home float64 `json:"home"`
	Away float64 `json:"away"`
}

// Stats reports memo usage.
type Stats struct {
	Entries int   `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}

// Estimator computes the geometric xG model and memoizes the result per
// event id for its lifetime.
type Estimator struct {
	mu     sync.RWMutex
	memo   map[string]float64
	hits   atomic.Int64
	misses atomic.Int64
}

// NewEstimator creates an Estimator with an empty memo.
func NewEstimator(opts ...Option) *Estimator {
	e := &Estimator{memo: make(map[string]float64)}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Estimate returns the xG for the attempt identified by id. The first call
// for an id fixes the value; later calls return it unchanged.
func (e *Estimator) Estimate(id string, x, y float64) float64 {
	e.mu.RLock()
	v, ok := e.memo[id]
	e.mu.RUnlock()
	if ok {
		e.hits.Add(1)
		return v
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if v, ok := e.memo[id]; ok {
		e.hits.Add(1)
		return v
	}
	v = Compute(id, x, y)
	e.memo[id] = v
	e.misses.Add(1)
	return v
}

// Total sums xG over the goal and shot events, split by side.
func (e *Estimator) Total(events []model.Event) TeamXG {
	return Sum(e, events)
}

// Stats returns a snapshot of memo usage.
func (e *Estimator) Stats() Stats {
	e.mu.RLock()
	n := len(e.memo)
	e.mu.RUnlock()
	return Stats{Entries: n, Hits: e.hits.Load(), Misses: e.misses.Load()}
}

// Sum totals src over the attempts in events.
func Sum(src Source, events []model.Event) TeamXG {
	var t TeamXG
	for _, ev := range events {
		if !ev.Type.Attempt() {
			continue
		}
		v := src.Estimate(ev.ID, ev.X, ev.Y)
		switch ev.Team {
		case model.Home:
			t.Home += v
		case model.Away:
			t.Away += v
		}
	}
	return t
}

// Compute evaluates the model without memoization.
func Compute(id string, x, y float64) float64 {
	return clamp01(Base(x, y) + Jitter(id))
}

// Base is the geometric part of the model before the id jitter.
func Base(x, y float64) float64 {
	pitchY := math.Abs(y - centerLine)
	distance := math.Hypot(goalLine-x, pitchY)

	postOffset := goalWidth / pitchWidth * centerLine
	post1 := centerLine + postOffset
	post2 := centerLine - postOffset
	angle1 := math.Atan2(math.Abs(y-post1), goalLine-x)
	angle2 := math.Atan2(math.Abs(y-post2), goalLine-x)
	angleDeg := math.Abs(angle1-angle2) * 180 / math.Pi

	distanceFactor := math.Exp(-distanceDecay * distance)
	angleFactor := math.Pow(angleDeg/90, angleExponent)
	centralityFactor := 1 - pitchY/centerLine

	return distanceWeight*distanceFactor + angleWeight*angleFactor + centralityWeight*centralityFactor
}

// Jitter derives the deterministic per-event variation from the last eight
// characters of id, read as hexadecimal.
func Jitter(id string) float64 {
	seed := float64(hexSeed(id)%100) / 100
	return seed*jitterSpan + jitterFloor
}

// hexSeed parses the leading hex digits of the id tail. Tails without any
// hex digit yield 0.
func hexSeed(id string) int64 {
	tail := id
	if len(tail) > seedDigits {
		tail = tail[len(tail)-seedDigits:]
	}
	tail = strings.TrimLeft(tail, " \t\n\r")
	neg := false
	switch {
	case strings.HasPrefix(tail, "-"):
		neg, tail = true, tail[1:]
	case strings.HasPrefix(tail, "+"):
		tail = tail[1:]
	}
	if len(tail) > 2 && (tail[:2] == "0x" || tail[:2] == "0X") && isHex(tail[2]) {
		tail = tail[2:]
	}
	var n int64
	for i := 0; i < len(tail) && isHex(tail[i]); i++ {
		n = n*16 + int64(hexVal(tail[i]))
	}
	if neg {
		return -n
	}
	return n
}

func isHex(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func hexVal(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return math.Max(0, math.Min(1, v))
}
