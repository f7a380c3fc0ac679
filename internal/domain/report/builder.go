package report

import (
	"github.com/okian/pitchside/internal/domain/ledger"
	"github.com/okian/pitchside/internal/domain/model"
	"github.com/okian/pitchside/internal/domain/xg"
)

// Labels of the synthesized aggregate match.
const (
	AggregatedID  = "aggregated"
	AllTeams      = "All Teams"
	AllCategories = "all"
)

// Report is the read-only result handed to rendering and export.
type Report struct {
	// Match is the selected match, or the aggregate synthesized over all
	// candidate matches when none is selected.
	Match      model.Match                       `json:"match"`
	Aggregated bool                              `json:"aggregated"`
	Events     []model.Event                     `json:"events"`
	Summary    EventSummary                      `json:"summary"`
	XG         xg.TeamXG                         `json:"xg"`
	Heat       map[model.EventType][]model.Event `json:"heat"`
	Attempts   []model.Event                     `json:"attempts"`
}

// Builder composes the ledger filters with a deterministic xG source.
type Builder struct {
	src xg.Source
}

// NewBuilder returns a Builder using src for all xG totals.
func NewBuilder(src xg.Source) *Builder {
	return &Builder{src: src}
}

// Build filters matches with q and aggregates the result.
func (b *Builder) Build(matches []model.Match, q ledger.Query) Report {
	res := q.Apply(matches)
	if res.Selected != nil {
		return b.single(res.Selected.Clone(), res.Events, q.TeamName)
	}
	return b.aggregate(res.Matches, res.Events, q.TeamName)
}

func (b *Builder) single(m model.Match, events []model.Event, team string) Report {
	own := events
	if team != "" {
		own = make([]model.Event, 0, len(events))
		for _, e := range events {
			if m.TeamName(e.Team) == team {
				own = append(own, e)
			}
		}
	}
	return Report{
		Match:    m,
		Events:   events,
		Summary:  Summary(events),
		XG:       xg.Sum(b.src, events),
		Heat:     HeatBins(own),
		Attempts: ledger.ByType(own, model.Shot, model.Goal),
	}
}

// aggregate reports over the synthesized match. Events carry the same
// sides as the aggregate, so with a team selected they are re-sided too.
func (b *Builder) aggregate(candidates []model.Match, events []model.Event, team string) Report {
	agg := Aggregate(candidates, events, team)
	own := agg.Events
	if team != "" {
		own = make([]model.Event, 0, len(agg.Events))
		for _, e := range agg.Events {
			if e.Team == model.Home {
				own = append(own, e)
			}
		}
	}
	return Report{
		Match:      agg,
		Aggregated: true,
		Events:     agg.Events,
		Summary:    Summary(agg.Events),
		XG:         xg.Sum(b.src, agg.Events),
		Heat:       HeatBins(own),
		Attempts:   ledger.ByType(own, model.Shot, model.Goal),
	}
}

// Aggregate synthesizes a pseudo-match over events drawn from candidates.
// With a team name, every event is re-sided from that team's point of
// view: events of the team become home events and everything its
// opponents did becomes away, resolved through the owning match. Events
// whose match is not among candidates are dropped. The score is derived
// from the re-sided goals, so it stays comparable with the xG totals.
func Aggregate(candidates []model.Match, events []model.Event, team string) model.Match {
	agg := model.Match{
		ID:          AggregatedID,
		HomeTeam:    AllTeams,
		CurrentHalf: model.Finished,
		Players:     []model.Player{},
		Category:    AllCategories,
	}
	if team == "" {
		agg.Events = append([]model.Event{}, events...)
		agg.RecomputeScore()
		return agg
	}

	agg.HomeTeam = team
	if len(candidates) == 1 {
		if candidates[0].HomeTeam == team {
			agg.AwayTeam = candidates[0].AwayTeam
		} else {
			agg.AwayTeam = candidates[0].HomeTeam
		}
	}

	owners := make(map[string]*model.Match, len(candidates))
	for i := range candidates {
		owners[candidates[i].ID] = &candidates[i]
	}
	agg.Events = make([]model.Event, 0, len(events))
	for _, e := range events {
		m, ok := owners[e.MatchID]
		if !ok {
			continue
		}
		if m.TeamName(e.Team) == team {
			e.Team = model.Home
		} else {
			e.Team = model.Away
		}
		agg.Events = append(agg.Events, e)
	}
	agg.RecomputeScore()
	return agg
}
