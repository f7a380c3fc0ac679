// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/okian/pitchside/internal/domain/model"
	"github.com/okian/pitchside/pkg/logger"
)

// maxBodyBytes bounds request bodies; settings may carry an emblem image.
const maxBodyBytes = 2 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	MatchDependencies
	EventDependencies
	ClockDependencies
	ReportDependencies
	SettingsDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	matchesHandler  *MatchesHandler
	eventsHandler   *EventsHandler
	clockHandler    *ClockHandler
	reportsHandler  *ReportsHandler
	settingsHandler *SettingsHandler
	live            http.Handler
	logger          logger.Logger
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithLive mounts the websocket handler serving GET /matches/{id}/live.
func WithLive(h http.Handler) Option {
	return func(s *Server) {
		s.live = h
	}
}

// WithLogger sets a custom logger for request logging.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		matchesHandler:  NewMatchesHandler(deps),
		eventsHandler:   NewEventsHandler(deps),
		clockHandler:    NewClockHandler(deps),
		reportsHandler:  NewReportsHandler(deps),
		settingsHandler: NewSettingsHandler(deps),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("api")
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	route := func(pattern, endpoint string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, MetricsMiddleware(h, endpoint, s.logger))
	}

	route("GET /healthz", "healthz", s.healthHandler.HandleHealth)
	route("GET /stats", "stats", s.statsHandler.HandleStats)

	route("POST /matches", "matches", s.matchesHandler.HandleCreate)
	route("GET /matches", "matches", s.matchesHandler.HandleList)
	route("GET /matches/{id}", "match", s.matchesHandler.HandleGet)
	route("DELETE /matches/{id}", "match", s.matchesHandler.HandleDelete)
	route("POST /matches/{id}/half", "half", s.matchesHandler.HandleNextHalf)
	route("POST /matches/{id}/finish", "finish", s.matchesHandler.HandleFinish)
	route("POST /matches/{id}/substitutions", "substitutions", s.matchesHandler.HandleSubstitution)
	route("POST /matches/{id}/roster", "roster", s.matchesHandler.HandleImportRoster)

	route("POST /matches/{id}/events", "events", s.eventsHandler.HandleRecord)
	route("GET /matches/{id}/events", "events", s.eventsHandler.HandleList)

	route("GET /matches/{id}/clock", "clock", s.clockHandler.HandleState)
	route("POST /matches/{id}/clock", "clock", s.clockHandler.HandleAction)
	route("POST /matches/{id}/clock/injury", "clock_injury", s.clockHandler.HandleInjuryTime)

	route("GET /reports", "reports", s.reportsHandler.HandleReport)
	route("GET /reports/csv", "reports_csv", s.reportsHandler.HandleCSV)
	route("GET /reports/shading", "reports_shading", s.reportsHandler.HandleShading)
	route("GET /reports/filters", "reports_filters", s.reportsHandler.HandleFilters)
	route("GET /players", "players", s.reportsHandler.HandlePlayers)

	route("GET /settings", "settings", s.settingsHandler.HandleGet)
	route("PUT /settings", "settings", s.settingsHandler.HandleUpdate)
	route("GET /settings/categories", "categories", s.settingsHandler.HandleCategories)
	route("POST /settings/categories", "categories", s.settingsHandler.HandleAddCategory)
	route("DELETE /settings/categories/{name}", "categories", s.settingsHandler.HandleRemoveCategory)
	route("DELETE /settings/data", "clear_data", s.settingsHandler.HandleClearData)

	// Websocket upgrades hijack the connection, so live stays outside the
	// metrics wrapper.
	mux.HandleFunc("GET /matches/{id}/live", func(w http.ResponseWriter, r *http.Request) {
		if s.live == nil {
			writeError(w, http.StatusServiceUnavailable, "live_unavailable", ErrLiveUnavailable)
			return
		}
		s.live.ServeHTTP(w, r)
	})
}

var validate = validator.New()

// decode reads a JSON body into v and validates its struct tags.
func decode(w http.ResponseWriter, r *http.Request, op string, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return model.WrapKind(op, ErrBadRequest, fmt.Errorf("decode body: %w", err))
	}
	if err := validate.Struct(v); err != nil {
		return model.WrapKind(op, ErrBadRequest, err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
