// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/okian/pitchside/internal/adapters/repository"
	"github.com/okian/pitchside/internal/domain/model"
	"github.com/okian/pitchside/internal/domain/pitch"
	"github.com/okian/pitchside/internal/domain/report"
	"github.com/okian/pitchside/internal/domain/timer"
	"github.com/okian/pitchside/internal/domain/xg"
	"github.com/okian/pitchside/pkg/logger"
	"github.com/okian/pitchside/pkg/metrics"
)

// DefaultMatchesKey is the store key of the match collection.
const DefaultMatchesKey = "soccerMatches"

// Publisher receives live updates for a match. Implementations must not
// block.
type Publisher interface {
	Publish(matchID string, msg LiveMessage)
}

type nopPublisher struct{}

func (nopPublisher) Publish(string, LiveMessage) {}

// Live message kinds.
const (
	KindEvent        = "event"
	KindHalf         = "half"
	KindSubstitution = "substitution"
	KindClock        = "clock"
	KindDeleted      = "deleted"
)

// LiveMessage is one update pushed to live subscribers of a match.
type LiveMessage struct {
	Kind    string       `json:"kind"`
	MatchID string       `json:"matchId"`
	Match   *model.Match `json:"match,omitempty"`
	Event   *model.Event `json:"event,omitempty"`
	Clock   *timer.State `json:"clock,omitempty"`
}

// Service implements the API dependencies for match tracking.
type Service struct {
	// mu serializes every load, mutate and save of the match collection.
	mu sync.Mutex

	kv    repository.KV
	store *repository.MatchStore
	key   string

	// Match defaults
	substitutionCap int
	matchLength     int
	maxPlayers      int
	extent          pitch.Extent

	// Clock configuration
	tickInterval time.Duration
	injuryTime   bool

	xg      *xg.Estimator
	shading *xg.Shading
	builder *report.Builder
	pub     Publisher

	clockMu sync.Mutex
	clocks  map[string]*timer.Clock

	// State
	started   bool
	runCtx    context.Context
	cancelRun context.CancelFunc

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the key-value backend. The service closes it on Stop.
func WithStore(kv repository.KV) Option {
	return func(s *Service) {
		if kv != nil {
			s.kv = kv
		}
	}
}

// WithMatchesKey sets the store key of the match collection.
func WithMatchesKey(key string) Option {
	return func(s *Service) {
		if key != "" {
			s.key = key
		}
	}
}

// WithSubstitutionCap sets the window cap given to new matches.
func WithSubstitutionCap(n int) Option {
	return func(s *Service) {
		if n >= 1 && n <= model.MaxSubstitutionCap {
			s.substitutionCap = n
		}
	}
}

// WithMatchLength sets the length in minutes given to new matches.
func WithMatchLength(minutes int) Option {
	return func(s *Service) {
		if minutes > 0 {
			s.matchLength = minutes
		}
	}
}

// WithMaxPlayersPerTeam caps each side's roster.
func WithMaxPlayersPerTeam(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxPlayers = n
		}
	}
}

// WithPitchExtent sets the rendered pitch size used for pixel coordinates.
func WithPitchExtent(ext pitch.Extent) Option {
	return func(s *Service) {
		if ext.Validate() == nil {
			s.extent = ext
		}
	}
}

// WithTickInterval sets the clock tick period.
func WithTickInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.tickInterval = d
		}
	}
}

// WithInjuryTime lets clocks count past the half length.
func WithInjuryTime(enabled bool) Option {
	return func(s *Service) {
		s.injuryTime = enabled
	}
}

// WithPublisher sets the receiver of live updates.
func WithPublisher(p Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.pub = p
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		key:             DefaultMatchesKey,
		substitutionCap: model.DefaultSubstitutionCap,
		matchLength:     model.DefaultMatchLength,
		maxPlayers:      report.DefaultRosterLimit,
		extent:          pitch.DefaultExtent,
		tickInterval:    time.Second,
		xg:              xg.NewEstimator(),
		shading:         xg.NewShading(),
		pub:             nopPublisher{},
		clocks:          make(map[string]*timer.Clock),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}
	if s.kv == nil {
		s.kv = repository.NewMemoryStore()
	}
	s.store = repository.NewMatchStore(s.kv, repository.WithStoreLogger(s.logger.Named("store")))
	s.builder = report.NewBuilder(s.xg)
	return s
}

// Start checks the store is readable and binds clocks to ctx.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	matches, err := s.store.Load(ctx, s.key)
	if err != nil {
		return err
	}
	s.runCtx, s.cancelRun = context.WithCancel(ctx)
	s.started = true

	metrics.UpdateMatchCount(len(matches))
	s.logger.Info(ctx, "match service started",
		logger.Int("matches", len(matches)),
		logger.Int("substitutionCap", s.substitutionCap),
		logger.Int("matchLength", s.matchLength),
		logger.Duration("tick", s.tickInterval),
		logger.Bool("injuryTime", s.injuryTime),
	)
	return nil
}

// Stop halts every clock and closes the store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.logger.Info(context.Background(), "stopping match service...")

	s.cancelRun()
	s.stopAllClocks()
	if err := s.kv.Close(); err != nil {
		s.logger.Error(context.Background(), "close store", logger.Error(err))
	}

	s.started = false
	s.logger.Info(context.Background(), "match service stopped")
}

func (s *Service) baseContext() context.Context {
	if s.runCtx != nil {
		return s.runCtx
	}
	return context.Background()
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	ctx := context.Background()

	s.mu.Lock()
	matches, err := s.store.Load(ctx, s.key)
	started := s.started
	s.mu.Unlock()

	running := s.runningClocks()
	memo := s.xg.Stats()

	stats := map[string]interface{}{
		"started":         started,
		"runningClocks":   running,
		"xgMemoEntries":   memo.Entries,
		"xgMemoHits":      memo.Hits,
		"xgMemoMisses":    memo.Misses,
		"substitutionCap": s.substitutionCap,
		"matchLength":     s.matchLength,
		"goroutines":      runtime.NumGoroutine(),
	}
	if err == nil {
		finished, events := 0, 0
		for i := range matches {
			if matches[i].Finished() {
				finished++
			}
			events += len(matches[i].Events)
		}
		stats["matches"] = len(matches)
		stats["finishedMatches"] = finished
		stats["events"] = events
		metrics.UpdateMatchCount(len(matches))
	}

	metrics.UpdateActiveClocks(running)
	metrics.UpdateXGMemo(memo.Entries, memo.Hits, memo.Misses)
	return stats
}
