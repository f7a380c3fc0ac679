package timer

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/pitchside/internal/domain/model"
	"github.com/okian/pitchside/pkg/logger"
)

const (
	defaultInterval  = time.Second
	subscriberBuffer = 16
)

// Signal is what a tick reports to the owner of the match.
type Signal int

const (
	None Signal = iota
	HalfEnd
	MatchEnd
)

func (s Signal) String() string {
	switch s {
	case HalfEnd:
		return "half_end"
	case MatchEnd:
		return "match_end"
	default:
		return "none"
	}
}

// MarshalText encodes the signal name.
func (s Signal) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// State is a snapshot of the clock.
type State struct {
	Half       model.Half `json:"half"`
	Running    bool       `json:"running"`
	Elapsed    int        `json:"elapsed"`
	HalfLength int        `json:"halfLength"`
	InjuryTime int        `json:"injuryTime"`
	Added      int        `json:"added"`
	Display    string     `json:"display"`
	Signal     Signal     `json:"signal"`
}

// Clock counts elapsed seconds of the current half. It signals half end
// and match end but never changes the match; the owner reacts to signals.
type Clock struct {
	mu         sync.Mutex
	halfLength int
	interval   time.Duration
	injury     bool

	half      model.Half
	running   bool
	elapsed   int
	added     int
	signalled bool
	closed    bool

	// gen invalidates ticks of superseded run loops.
	gen    uint64
	cancel context.CancelFunc
	wg     sync.WaitGroup

	subs    map[int]chan State
	nextSub int

	onHalfEnd  func()
	onMatchEnd func()
	log        logger.Logger
}

// New creates a stopped clock for the first half of a 90 minute match.
func New(opts ...Option) *Clock {
	c := &Clock{
		halfLength: model.DefaultMatchLength * 60 / 2,
		interval:   defaultInterval,
		half:       model.FirstHalf,
		subs:       make(map[int]chan State),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.Get().Named("clock")
	}
	return c
}

// Start runs the periodic tick until ctx ends or the clock is paused.
// Any previous run loop is cancelled first.
func (c *Clock) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.half == model.Finished {
		c.mu.Unlock()
		return ErrFinished
	}
	c.haltLocked()
	c.running = true
	gen := c.gen
	runCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.wg.Add(1)
	c.mu.Unlock()

	go c.run(runCtx, gen)
	c.log.Debug(ctx, "clock started", logger.Int("elapsed", c.Elapsed()))
	return nil
}

func (c *Clock) run(ctx context.Context, gen uint64) {
	defer c.wg.Done()
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			c.mu.Lock()
			stale := gen != c.gen
			if !stale {
				c.running = false
				c.cancel = nil
			}
			c.mu.Unlock()
			if !stale {
				c.publish()
			}
			return
		case <-ticker.C:
			if _, ok := c.tick(gen); !ok {
				return
			}
		}
	}
}

// Pause stops counting. Once Pause returns no further tick is applied.
func (c *Clock) Pause() {
	c.mu.Lock()
	c.haltLocked()
	c.mu.Unlock()
	c.publish()
}

// Stop halts the clock and closes all subscriptions. It waits for the run
// loop to exit, so it must not be called from a signal callback.
func (c *Clock) Stop() {
	c.mu.Lock()
	c.haltLocked()
	c.closed = true
	for id, ch := range c.subs {
		close(ch)
		delete(c.subs, id)
	}
	c.mu.Unlock()
	c.wg.Wait()
}

func (c *Clock) haltLocked() {
	c.running = false
	c.gen++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

// Reset zeroes elapsed and injury time for a new half. Running state is kept.
func (c *Clock) Reset() {
	c.mu.Lock()
	c.elapsed = 0
	c.added = 0
	c.signalled = false
	c.mu.Unlock()
	c.publish()
}

// SetHalf binds the clock to the match's current half. Finished halts it.
func (c *Clock) SetHalf(h model.Half) {
	c.mu.Lock()
	if h != c.half {
		c.half = h
		c.signalled = false
	}
	if h == model.Finished {
		c.haltLocked()
	}
	c.mu.Unlock()
	c.publish()
}

// AddInjuryTime grants extra seconds beyond the nominal half length.
// It only has an effect when injury time is enabled.
func (c *Clock) AddInjuryTime(seconds int) {
	if seconds <= 0 {
		return
	}
	c.mu.Lock()
	if c.injury {
		c.added += seconds
	}
	c.mu.Unlock()
}

// Tick advances the clock by one step and returns the signal it produced.
// It does nothing while paused or after the match finished.
func (c *Clock) Tick() Signal {
	c.mu.Lock()
	gen := c.gen
	c.mu.Unlock()
	sig, _ := c.tick(gen)
	return sig
}

func (c *Clock) tick(gen uint64) (Signal, bool) {
	c.mu.Lock()
	if gen != c.gen || !c.running || c.half == model.Finished {
		c.mu.Unlock()
		return None, false
	}
	c.elapsed++
	sig := None
	if !c.signalled && c.elapsed >= c.halfLength+c.added {
		c.signalled = true
		if c.half == model.FirstHalf {
			sig = HalfEnd
		} else {
			sig = MatchEnd
		}
		if !c.injury {
			c.haltLocked()
		}
	}
	still := c.running
	onHalf, onMatch := c.onHalfEnd, c.onMatchEnd
	c.mu.Unlock()

	c.publishSignal(sig)
	switch sig {
	case HalfEnd:
		if onHalf != nil {
			onHalf()
		}
	case MatchEnd:
		if onMatch != nil {
			onMatch()
		}
	}
	return sig, still
}

// Elapsed returns the seconds counted in the current half.
func (c *Clock) Elapsed() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.elapsed
}

// InjuryTime returns the seconds counted beyond the nominal half length.
func (c *Clock) InjuryTime() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.overflowLocked()
}

func (c *Clock) overflowLocked() int {
	if c.elapsed <= c.halfLength {
		return 0
	}
	return c.elapsed - c.halfLength
}

// Running reports whether the clock is counting.
func (c *Clock) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}

// State returns a snapshot of the clock.
func (c *Clock) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked(None)
}

func (c *Clock) stateLocked(sig Signal) State {
	return State{
		Half:       c.half,
		Running:    c.running,
		Elapsed:    c.elapsed,
		HalfLength: c.halfLength,
		InjuryTime: c.overflowLocked(),
		Added:      c.added,
		Display:    Format(c.elapsed),
		Signal:     sig,
	}
}

// Subscribe returns a channel of state updates and a function that ends
// the subscription. Slow subscribers miss updates instead of blocking ticks.
func (c *Clock) Subscribe() (<-chan State, func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ch := make(chan State, subscriberBuffer)
	if c.closed {
		close(ch)
		return ch, func() {}
	}
	id := c.nextSub
	c.nextSub++
	c.subs[id] = ch
	return ch, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if sub, ok := c.subs[id]; ok {
			close(sub)
			delete(c.subs, id)
		}
	}
}

func (c *Clock) publish() {
	c.publishSignal(None)
}

func (c *Clock) publishSignal(sig Signal) {
	c.mu.Lock()
	defer c.mu.Unlock()
	st := c.stateLocked(sig)
	for _, ch := range c.subs {
		select {
		case ch <- st:
		default:
		}
	}
}

// Format renders seconds as MM:SS.
func Format(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
