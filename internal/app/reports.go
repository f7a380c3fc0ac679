package service

import (
	"context"
	"io"
	"time"

	"github.com/okian/pitchside/internal/domain/ledger"
	"github.com/okian/pitchside/internal/domain/report"
	"github.com/okian/pitchside/internal/domain/xg"
	"github.com/okian/pitchside/pkg/metrics"
)

// Filters lists the values the report filters can take.
type Filters struct {
	Teams []string `json:"teams"`
	Legs  []int    `json:"legs"`
}

// Report builds the report for q over all stored matches.
func (s *Service) Report(ctx context.Context, q ledger.Query) (report.Report, error) {
	matches, err := s.ListMatches(ctx)
	if err != nil {
		return report.Report{}, err
	}
	start := time.Now()
	r := s.builder.Build(matches, q)
	metrics.RecordReportBuild(float64(time.Since(start).Microseconds()) / 1000)
	return r, nil
}

// ExportCSV writes the filtered events of q as CSV and returns the
// download file name. Rows keep the stored sides so team names resolve
// through the owning match.
func (s *Service) ExportCSV(ctx context.Context, q ledger.Query, w io.Writer) (string, error) {
	matches, err := s.ListMatches(ctx)
	if err != nil {
		return "", err
	}
	r := s.builder.Build(matches, q)
	if err := report.WriteCSV(w, q.Apply(matches).Events, matches); err != nil {
		return "", err
	}
	return report.CSVFilename(r.Match), nil
}

// Shading returns heat-map markers for the attempts selected by q. Values
// carry fresh visual jitter on every call.
func (s *Service) Shading(ctx context.Context, q ledger.Query) ([]xg.Marker, error) {
	r, err := s.Report(ctx, q)
	if err != nil {
		return nil, err
	}
	return s.shading.Markers(r.Attempts), nil
}

// Players merges player histories across all matches.
func (s *Service) Players(ctx context.Context) ([]report.PlayerWithHistory, error) {
	matches, err := s.ListMatches(ctx)
	if err != nil {
		return nil, err
	}
	return report.Players(matches), nil
}

// Filters returns the team names and legs present in the stored matches.
func (s *Service) Filters(ctx context.Context) (Filters, error) {
	matches, err := s.ListMatches(ctx)
	if err != nil {
		return Filters{}, err
	}
	return Filters{Teams: report.TeamNames(matches), Legs: report.Legs(matches)}, nil
}
