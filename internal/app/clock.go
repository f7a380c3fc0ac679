package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/okian/pitchside/internal/domain/model"
	"github.com/okian/pitchside/internal/domain/timer"
	"github.com/okian/pitchside/pkg/logger"
	"github.com/okian/pitchside/pkg/metrics"
)

// Clock actions accepted by ClockAction.
const (
	ClockStart = "start"
	ClockPause = "pause"
	ClockReset = "reset"
)

// ClockAction starts, pauses or resets the clock of a match.
func (s *Service) ClockAction(ctx context.Context, matchID, action string) (timer.State, error) {
	const op = "service.clock"
	m, err := s.GetMatch(ctx, matchID)
	if err != nil {
		return timer.State{}, err
	}
	c := s.clockFor(m)

	switch action {
	case ClockStart:
		if err := c.Start(s.baseContext()); err != nil {
			if errors.Is(err, timer.ErrFinished) || errors.Is(err, timer.ErrClosed) {
				return timer.State{}, model.WrapKind(op, model.ErrState, err)
			}
			return timer.State{}, err
		}
	case ClockPause:
		c.Pause()
	case ClockReset:
		c.Reset()
	default:
		return timer.State{}, model.WrapKind(op, model.ErrValidation, fmt.Errorf("unknown clock action %q", action))
	}

	metrics.UpdateActiveClocks(s.runningClocks())
	s.logger.Debug(ctx, "clock action",
		logger.String("match", matchID),
		logger.String("action", action),
		logger.Int("elapsed", c.Elapsed()),
	)
	return c.State(), nil
}

// AddInjuryTime grants extra seconds to the current half of a match.
func (s *Service) AddInjuryTime(ctx context.Context, matchID string, seconds int) (timer.State, error) {
	m, err := s.GetMatch(ctx, matchID)
	if err != nil {
		return timer.State{}, err
	}
	if seconds <= 0 {
		return timer.State{}, model.WrapKind("service.injury_time", model.ErrValidation,
			fmt.Errorf("injury time must be positive, got %d", seconds))
	}
	c := s.clockFor(m)
	c.AddInjuryTime(seconds)
	return c.State(), nil
}

// ClockState returns the clock of a match, creating a stopped one if none
// exists yet.
func (s *Service) ClockState(ctx context.Context, matchID string) (timer.State, error) {
	m, err := s.GetMatch(ctx, matchID)
	if err != nil {
		return timer.State{}, err
	}
	return s.clockFor(m).State(), nil
}

// clockFor returns the single clock of m, creating it bound to m's current
// half. Clock signals drive the half transitions of the match.
func (s *Service) clockFor(m model.Match) *timer.Clock {
	s.clockMu.Lock()
	defer s.clockMu.Unlock()

	if c, ok := s.clocks[m.ID]; ok {
		return c
	}
	id := m.ID
	c := timer.New(
		timer.WithMatchLength(m.Length()),
		timer.WithInterval(s.tickInterval),
		timer.WithInjuryTime(s.injuryTime),
		// Callbacks run on the tick goroutine; transitions go elsewhere so
		// they can pause the clock.
		timer.OnHalfEnd(func() { go s.onClockSignal(id, timer.HalfEnd) }),
		timer.OnMatchEnd(func() { go s.onClockSignal(id, timer.MatchEnd) }),
		timer.WithLogger(s.logger.Named("clock")),
	)
	c.SetHalf(m.CurrentHalf)

	updates, _ := c.Subscribe()
	go func() {
		for st := range updates {
			s.pub.Publish(id, LiveMessage{Kind: KindClock, MatchID: id, Clock: &st})
		}
	}()

	s.clocks[id] = c
	return c
}

func (s *Service) onClockSignal(matchID string, sig timer.Signal) {
	ctx := s.baseContext()
	var err error
	switch sig {
	case timer.HalfEnd:
		_, err = s.NextHalf(ctx, matchID)
	case timer.MatchEnd:
		_, err = s.Finish(ctx, matchID)
	}
	if err != nil {
		s.logger.Error(ctx, "clock transition failed",
			logger.String("match", matchID),
			logger.String("signal", sig.String()),
			logger.Error(err),
		)
	}
	metrics.UpdateActiveClocks(s.runningClocks())
}

func (s *Service) existingClock(matchID string) *timer.Clock {
	s.clockMu.Lock()
	defer s.clockMu.Unlock()
	return s.clocks[matchID]
}

func (s *Service) dropClock(matchID string) {
	s.clockMu.Lock()
	c, ok := s.clocks[matchID]
	delete(s.clocks, matchID)
	s.clockMu.Unlock()
	if ok {
		c.Stop()
	}
}

func (s *Service) stopAllClocks() {
	s.clockMu.Lock()
	clocks := s.clocks
	s.clocks = make(map[string]*timer.Clock)
	s.clockMu.Unlock()
	for _, c := range clocks {
		c.Stop()
	}
	metrics.UpdateActiveClocks(0)
}

func (s *Service) runningClocks() int {
	s.clockMu.Lock()
	defer s.clockMu.Unlock()
	n := 0
	for _, c := range s.clocks {
		if c.Running() {
			n++
		}
	}
	return n
}
