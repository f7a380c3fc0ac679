package api

import (
	"context"
	"net/http"

	"github.com/okian/pitchside/internal/domain/timer"
)

// ClockDependencies drives the per-match clock.
type ClockDependencies interface {
	ClockAction(ctx context.Context, matchID, action string) (timer.State, error)
	ClockState(ctx context.Context, matchID string) (timer.State, error)
	AddInjuryTime(ctx context.Context, matchID string, seconds int) (timer.State, error)
}

type clockRequest struct {
	Action string `json:"action" validate:"oneof=start pause reset"`
}

type injuryRequest struct {
	Seconds int `json:"seconds" validate:"gt=0"`
}

// ClockHandler handles clock requests.
type ClockHandler struct {
	deps ClockDependencies
}

// NewClockHandler creates a new clock handler.
func NewClockHandler(deps ClockDependencies) *ClockHandler {
	return &ClockHandler{deps: deps}
}

// HandleState handles GET /matches/{id}/clock requests.
func (h *ClockHandler) HandleState(w http.ResponseWriter, r *http.Request) {
	st, err := h.deps.ClockState(r.Context(), r.PathValue("id"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// HandleAction handles POST /matches/{id}/clock requests.
func (h *ClockHandler) HandleAction(w http.ResponseWriter, r *http.Request) {
	var req clockRequest
	if err := decode(w, r, "api.clock", &req); err != nil {
		writeFailure(w, err)
		return
	}
	st, err := h.deps.ClockAction(r.Context(), r.PathValue("id"), req.Action)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}

// HandleInjuryTime handles POST /matches/{id}/clock/injury requests.
func (h *ClockHandler) HandleInjuryTime(w http.ResponseWriter, r *http.Request) {
	var req injuryRequest
	if err := decode(w, r, "api.injury_time", &req); err != nil {
		writeFailure(w, err)
		return
	}
	st, err := h.deps.AddInjuryTime(r.Context(), r.PathValue("id"), req.Seconds)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, st)
}
