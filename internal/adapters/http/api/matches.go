package api

import (
	"context"
	"net/http"
	"time"

	"github.com/okian/pitchside/internal/domain/match"
	"github.com/okian/pitchside/internal/domain/model"
)

// MatchDependencies covers match lifecycle operations.
type MatchDependencies interface {
	CreateMatch(ctx context.Context, setup match.Setup) (model.Match, error)
	ListMatches(ctx context.Context) ([]model.Match, error)
	GetMatch(ctx context.Context, id string) (model.Match, error)
	DeleteMatch(ctx context.Context, id string) error
	NextHalf(ctx context.Context, id string) (model.Match, error)
	Finish(ctx context.Context, id string) (model.Match, error)
	RequestSubstitution(ctx context.Context, id string, side model.Side) (model.Match, error)
	ImportRoster(ctx context.Context, id string, side model.Side, text string) ([]model.Player, error)
}

// playerRequest is one roster entry of a new match.
type playerRequest struct {
	ID     string `json:"id"`
	Name   string `json:"name" validate:"required"`
	Number int    `json:"number" validate:"gte=0"`
	Team   string `json:"team" validate:"oneof=home away"`
}

// createMatchRequest mirrors the OpenAPI schema for POST /matches.
type createMatchRequest struct {
	ID              string          `json:"id"`
	HomeTeam        string          `json:"homeTeam" validate:"required"`
	AwayTeam        string          `json:"awayTeam" validate:"required"`
	Category        string          `json:"category" validate:"required"`
	LegNumber       int             `json:"legNumber" validate:"gte=1"`
	MatchLength     int             `json:"matchLength" validate:"omitempty,gt=0"`
	AgeCategory     string          `json:"ageCategory"`
	SubstitutionCap int             `json:"substitutionCap" validate:"omitempty,gte=1,lte=5"`
	StartTime       string          `json:"startTime" validate:"omitempty,datetime=2006-01-02T15:04:05.999999999Z07:00"`
	Players         []playerRequest `json:"players" validate:"dive"`
}

func (req createMatchRequest) setup() match.Setup {
	s := match.Setup{
		ID:              req.ID,
		HomeTeam:        req.HomeTeam,
		AwayTeam:        req.AwayTeam,
		Category:        req.Category,
		LegNumber:       req.LegNumber,
		MatchLength:     req.MatchLength,
		AgeCategory:     req.AgeCategory,
		SubstitutionCap: req.SubstitutionCap,
	}
	if req.StartTime != "" {
		// Validated by the datetime tag.
		s.StartTime, _ = time.Parse(time.RFC3339Nano, req.StartTime)
	}
	for _, p := range req.Players {
		s.Players = append(s.Players, model.Player{
			ID: p.ID, Name: p.Name, Number: p.Number, Team: model.Side(p.Team),
		})
	}
	return s
}

type sideRequest struct {
	Team string `json:"team" validate:"oneof=home away"`
}

type rosterRequest struct {
	Team string `json:"team" validate:"oneof=home away"`
	Text string `json:"text" validate:"required"`
}

// MatchesHandler handles match lifecycle requests.
type MatchesHandler struct {
	deps MatchDependencies
}

// NewMatchesHandler creates a new matches handler.
func NewMatchesHandler(deps MatchDependencies) *MatchesHandler {
	return &MatchesHandler{deps: deps}
}

// HandleCreate handles POST /matches requests.
func (h *MatchesHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req createMatchRequest
	if err := decode(w, r, "api.create_match", &req); err != nil {
		writeFailure(w, err)
		return
	}
	m, err := h.deps.CreateMatch(r.Context(), req.setup())
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, m)
}

// HandleList handles GET /matches requests.
func (h *MatchesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	matches, err := h.deps.ListMatches(r.Context())
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, matches)
}

// HandleGet handles GET /matches/{id} requests.
func (h *MatchesHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	m, err := h.deps.GetMatch(r.Context(), r.PathValue("id"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// HandleDelete handles DELETE /matches/{id} requests.
func (h *MatchesHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.DeleteMatch(r.Context(), r.PathValue("id")); err != nil {
		writeFailure(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleNextHalf handles POST /matches/{id}/half requests.
func (h *MatchesHandler) HandleNextHalf(w http.ResponseWriter, r *http.Request) {
	m, err := h.deps.NextHalf(r.Context(), r.PathValue("id"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// HandleFinish handles POST /matches/{id}/finish requests.
func (h *MatchesHandler) HandleFinish(w http.ResponseWriter, r *http.Request) {
	m, err := h.deps.Finish(r.Context(), r.PathValue("id"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// HandleSubstitution handles POST /matches/{id}/substitutions requests.
func (h *MatchesHandler) HandleSubstitution(w http.ResponseWriter, r *http.Request) {
	var req sideRequest
	if err := decode(w, r, "api.substitution", &req); err != nil {
		writeFailure(w, err)
		return
	}
	m, err := h.deps.RequestSubstitution(r.Context(), r.PathValue("id"), model.Side(req.Team))
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// HandleImportRoster handles POST /matches/{id}/roster requests.
func (h *MatchesHandler) HandleImportRoster(w http.ResponseWriter, r *http.Request) {
	var req rosterRequest
	if err := decode(w, r, "api.import_roster", &req); err != nil {
		writeFailure(w, err)
		return
	}
	added, err := h.deps.ImportRoster(r.Context(), r.PathValue("id"), model.Side(req.Team), req.Text)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, added)
}
