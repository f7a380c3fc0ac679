package api

import (
	"context"
	"net/http"
	"time"

	service "github.com/okian/pitchside/internal/app"
	"github.com/okian/pitchside/internal/domain/model"
	"github.com/okian/pitchside/internal/domain/pitch"
	"github.com/okian/pitchside/internal/domain/report"
)

// Coordinate systems accepted by POST /matches/{id}/events.
const (
	coordsPercent = "percent"
	coordsPixels  = "pixels"
)

// EventDependencies defines the interface for event recording dependencies.
type EventDependencies interface {
	RecordEvent(ctx context.Context, matchID string, in service.EventInput) (model.Event, error)
	ListEvents(ctx context.Context, matchID string) ([]report.Line, error)
}

// eventRequest mirrors the OpenAPI schema for POST /matches/{id}/events.
// With pixel coordinates, width and height give the drawn pitch size; the
// service default applies when they are omitted.
type eventRequest struct {
	ID          string   `json:"id"`
	Type        string   `json:"type" validate:"required"`
	Team        string   `json:"team" validate:"oneof=home away"`
	X           *float64 `json:"x" validate:"required"`
	Y           *float64 `json:"y" validate:"required"`
	Coordinates string   `json:"coordinates" validate:"omitempty,oneof=percent pixels"`
	Width       float64  `json:"width" validate:"gte=0"`
	Height      float64  `json:"height" validate:"gte=0"`
	PlayerID    string   `json:"playerId"`
	Timestamp   string   `json:"timestamp" validate:"omitempty,datetime=2006-01-02T15:04:05.999999999Z07:00"`
}

func (req eventRequest) input() service.EventInput {
	in := service.EventInput{
		ID:       req.ID,
		Type:     model.EventType(req.Type),
		Team:     model.Side(req.Team),
		X:        *req.X,
		Y:        *req.Y,
		Pixels:   req.Coordinates == coordsPixels,
		Extent:   pitch.Extent{Width: req.Width, Height: req.Height},
		PlayerID: req.PlayerID,
	}
	if req.Timestamp != "" {
		in.Timestamp, _ = time.Parse(time.RFC3339Nano, req.Timestamp)
	}
	return in
}

// EventsHandler handles event requests.
type EventsHandler struct {
	deps EventDependencies
}

// NewEventsHandler creates a new events handler.
func NewEventsHandler(deps EventDependencies) *EventsHandler {
	return &EventsHandler{deps: deps}
}

// HandleRecord handles POST /matches/{id}/events requests.
func (h *EventsHandler) HandleRecord(w http.ResponseWriter, r *http.Request) {
	var req eventRequest
	if err := decode(w, r, "api.record_event", &req); err != nil {
		writeFailure(w, err)
		return
	}
	e, err := h.deps.RecordEvent(r.Context(), r.PathValue("id"), req.input())
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, e)
}

// HandleList handles GET /matches/{id}/events requests.
func (h *EventsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	lines, err := h.deps.ListEvents(r.Context(), r.PathValue("id"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lines)
}
