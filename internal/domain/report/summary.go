// Package report turns filtered match events into summaries, xG totals,
// heat-map partitions, player histories and exports.
package report

import "github.com/okian/pitchside/internal/domain/model"

// Counts are the per-side tallies shown in a summary.
type Counts struct {
	Goals       int `json:"goals"`
	Shots       int `json:"shots"`
	Fouls       int `json:"fouls"`
	Corners     int `json:"corners"`
	YellowCards int `json:"yellowCards"`
	RedCards    int `json:"redCards"`
	Offsides    int `json:"offsides"`
}

// EventSummary holds home and away tallies.
type EventSummary struct {
	Home Counts `json:"home"`
	Away Counts `json:"away"`
}

// Summary counts events by side in a single pass. Injuries and assists
// are not part of the summary.
func Summary(events []model.Event) EventSummary {
	var s EventSummary
	for _, e := range events {
		var c *Counts
		switch e.Team {
		case model.Home:
			c = &s.Home
		case model.Away:
			c = &s.Away
		default:
			continue
		}
		switch e.Type {
		case model.Goal:
			c.Goals++
		case model.Shot:
			c.Shots++
		case model.Foul:
			c.Fouls++
		case model.Corner:
			c.Corners++
		case model.YellowCard:
			c.YellowCards++
		case model.RedCard:
			c.RedCards++
		case model.Offside:
			c.Offsides++
		case model.Injury, model.Assist:
		}
	}
	return s
}

// HeatBins partitions events by type, preserving order within each type.
func HeatBins(events []model.Event) map[model.EventType][]model.Event {
	bins := make(map[model.EventType][]model.Event, len(model.EventTypes()))
	for _, e := range events {
		bins[e.Type] = append(bins[e.Type], e)
	}
	return bins
}
