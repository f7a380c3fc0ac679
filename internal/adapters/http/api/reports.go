package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	service "github.com/okian/pitchside/internal/app"
	"github.com/okian/pitchside/internal/domain/ledger"
	"github.com/okian/pitchside/internal/domain/model"
	"github.com/okian/pitchside/internal/domain/report"
	"github.com/okian/pitchside/internal/domain/xg"
)

// ReportDependencies builds reports over the stored matches.
type ReportDependencies interface {
	Report(ctx context.Context, q ledger.Query) (report.Report, error)
	ExportCSV(ctx context.Context, q ledger.Query, w io.Writer) (string, error)
	Shading(ctx context.Context, q ledger.Query) ([]xg.Marker, error)
	Players(ctx context.Context) ([]report.PlayerWithHistory, error)
	Filters(ctx context.Context) (service.Filters, error)
}

// ReportsHandler handles report requests.
type ReportsHandler struct {
	deps ReportDependencies
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(deps ReportDependencies) *ReportsHandler {
	return &ReportsHandler{deps: deps}
}

// parseQuery reads the team, match, leg and player filters. Players may be
// repeated or comma separated.
func parseQuery(r *http.Request) (ledger.Query, error) {
	const op = "api.report_query"
	v := r.URL.Query()
	q := ledger.Query{
		TeamName: strings.TrimSpace(v.Get("team")),
		MatchID:  strings.TrimSpace(v.Get("match")),
	}
	if raw := strings.TrimSpace(v.Get("leg")); raw != "" {
		leg, err := strconv.Atoi(raw)
		if err != nil || leg < 1 {
			return ledger.Query{}, model.WrapKind(op, ErrBadRequest, fmt.Errorf("invalid leg %q", raw))
		}
		q.Leg = &leg
	}
	for _, raw := range v["player"] {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				q.PlayerIDs = append(q.PlayerIDs, id)
			}
		}
	}
	return q, nil
}

// HandleReport handles GET /reports requests.
func (h *ReportsHandler) HandleReport(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		writeFailure(w, err)
		return
	}
	rep, err := h.deps.Report(r.Context(), q)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}

// HandleCSV handles GET /reports/csv requests.
func (h *ReportsHandler) HandleCSV(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		writeFailure(w, err)
		return
	}
	var buf bytes.Buffer
	name, err := h.deps.ExportCSV(r.Context(), q, &buf)
	if err != nil {
		writeFailure(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}

// HandleShading handles GET /reports/shading requests.
func (h *ReportsHandler) HandleShading(w http.ResponseWriter, r *http.Request) {
	q, err := parseQuery(r)
	if err != nil {
		writeFailure(w, err)
		return
	}
	markers, err := h.deps.Shading(r.Context(), q)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, markers)
}

// HandleFilters handles GET /reports/filters requests.
func (h *ReportsHandler) HandleFilters(w http.ResponseWriter, r *http.Request) {
	f, err := h.deps.Filters(r.Context())
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

// HandlePlayers handles GET /players requests.
func (h *ReportsHandler) HandlePlayers(w http.ResponseWriter, r *http.Request) {
	players, err := h.deps.Players(r.Context())
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, players)
}
