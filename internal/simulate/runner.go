package simulate

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/pitchside/internal/domain/model"
	"github.com/okian/pitchside/pkg/logger"
)

// ErrVerification is returned when the ledger disagrees with what was sent.
var ErrVerification = errors.New("verification failed")

// counters are shared by the match workers.
type counters struct {
	created     atomic.Int64
	verified    atomic.Int64
	submitted   atomic.Int64
	accepted    atomic.Int64
	rejected    atomic.Int64
	subsGranted atomic.Int64
	subsRefused atomic.Int64

	mu         sync.Mutex
	mismatches []string
}

func (c *counters) mismatch(format string, args ...any) {
	c.mu.Lock()
	c.mismatches = append(c.mismatches, fmt.Sprintf(format, args...))
	c.mu.Unlock()
}

// Run drives the service at config.BaseURL and verifies every match it
// played. Stats are returned even when verification fails.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get().Named("simulate")

	log.Info(ctx, "starting match simulation",
		logger.String("baseURL", config.BaseURL),
		logger.Int("matches", config.Matches),
		logger.Int("eventsPerMatch", config.EventsPerMatch),
		logger.Int("workers", config.Workers),
		logger.Duration("timeout", config.Timeout),
		logger.Any("seed", config.Seed),
	)

	c := newClient(config.BaseURL, config.Timeout)

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, c); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate matches
	plans := newGenerator(config.Seed).plans(config.Matches, config.EventsPerMatch)

	// Step 3: Play matches concurrently
	cnt := &counters{}
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(max(config.Workers, 1))
	for _, p := range plans {
		g.Go(func() error {
			return playMatch(gCtx, c, config, p, cnt, log)
		})
	}
	err := g.Wait()

	stats.MatchesCreated = int(cnt.created.Load())
	stats.MatchesVerified = int(cnt.verified.Load())
	stats.EventsSubmitted = int(cnt.submitted.Load())
	stats.EventsAccepted = int(cnt.accepted.Load())
	stats.EventsRejected = int(cnt.rejected.Load())
	stats.SubstitutionsGranted = int(cnt.subsGranted.Load())
	stats.SubstitutionsRefused = int(cnt.subsRefused.Load())
	stats.Mismatches = cnt.mismatches
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	if err != nil {
		return stats, fmt.Errorf("match simulation failed: %w", err)
	}
	displayFinalStats(ctx, log, stats)
	if len(stats.Mismatches) > 0 {
		return stats, fmt.Errorf("%w: %d mismatches", ErrVerification, len(stats.Mismatches))
	}
	log.Info(ctx, "simulation completed successfully")
	return stats, nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, c *client) error {
	if _, err := c.do(ctx, http.MethodGet, "/healthz", nil, nil); err != nil {
		return fmt.Errorf("failed to reach service: %w", err)
	}
	return nil
}

// playMatch creates one match, records its events, spends every
// substitution window plus one, finishes it and verifies the result.
func playMatch(ctx context.Context, c *client, config *Config, p matchPlan, cnt *counters, log logger.Logger) error {
	var m model.Match
	if _, err := c.do(ctx, http.MethodPost, "/matches", p.Setup, &m); err != nil {
		return fmt.Errorf("create match %s vs %s: %w", p.Setup.HomeTeam, p.Setup.AwayTeam, err)
	}
	cnt.created.Add(1)
	path := "/matches/" + m.ID

	// Events are sent in order so the ledger keeps the plan's sequence.
	for _, e := range p.Events {
		cnt.submitted.Add(1)
		if _, err := c.do(ctx, http.MethodPost, path+"/events", e, nil); err != nil {
			cnt.rejected.Add(1)
			cnt.mismatch("match %s: event %s refused: %v", m.ID, e.ID, err)
			if config.Verbose {
				log.Warn(ctx, "event refused", logger.String("match", m.ID), logger.Error(err))
			}
			continue
		}
		cnt.accepted.Add(1)
	}

	cnt.submitted.Add(1)
	status, err := c.do(ctx, http.MethodPost, path+"/events", offPitch(), nil)
	if status != http.StatusBadRequest {
		cnt.mismatch("match %s: off-pitch event got status %d (%v)", m.ID, status, err)
	} else {
		cnt.rejected.Add(1)
	}

	for _, side := range []model.Side{model.Home, model.Away} {
		for i := 0; i <= p.Setup.SubstitutionCap; i++ {
			status, err := c.do(ctx, http.MethodPost, path+"/substitutions", map[string]string{"team": string(side)}, nil)
			switch {
			case err == nil && i < p.Setup.SubstitutionCap:
				cnt.subsGranted.Add(1)
			case status == http.StatusConflict && i == p.Setup.SubstitutionCap:
				cnt.subsRefused.Add(1)
			default:
				cnt.mismatch("match %s: %s window %d of cap %d got status %d (%v)",
					m.ID, side, i+1, p.Setup.SubstitutionCap, status, err)
			}
		}
	}

	if _, err := c.do(ctx, http.MethodPost, path+"/finish", nil, nil); err != nil {
		return fmt.Errorf("finish match %s: %w", m.ID, err)
	}

	ok, err := verifyMatch(ctx, c, m.ID, p, cnt)
	if err != nil {
		return err
	}
	if ok {
		cnt.verified.Add(1)
	}
	log.Debug(ctx, "match played", logger.String("match", m.ID), logger.Bool("verified", ok))
	return nil
}

// displayFinalStats logs the final simulation statistics.
func displayFinalStats(ctx context.Context, log logger.Logger, stats *Stats) {
	var eventsPerSecond float64
	if stats.Duration > 0 {
		eventsPerSecond = float64(stats.EventsSubmitted) / stats.Duration.Seconds()
	}
	log.Info(ctx, "final statistics",
		logger.Int("matchesCreated", stats.MatchesCreated),
		logger.Int("matchesVerified", stats.MatchesVerified),
		logger.Int("eventsSubmitted", stats.EventsSubmitted),
		logger.Int("eventsAccepted", stats.EventsAccepted),
		logger.Int("eventsRejected", stats.EventsRejected),
		logger.Int("substitutionsGranted", stats.SubstitutionsGranted),
		logger.Int("substitutionsRefused", stats.SubstitutionsRefused),
		logger.Int("mismatches", len(stats.Mismatches)),
		logger.Duration("duration", stats.Duration),
		logger.Float64("eventsPerSecond", eventsPerSecond),
	)
}
