package ledger

import "github.com/okian/pitchside/internal/domain/model"

// Query is the reporting filter. Zero values disable each stage.
type Query struct {
	TeamName  string   `json:"team,omitempty"`
	MatchID   string   `json:"match,omitempty"`
	Leg       *int     `json:"leg,omitempty"`
	PlayerIDs []string `json:"players,omitempty"`
}

// Result is the outcome of applying a Query.
type Result struct {
	// Matches are the candidates left by the team filter.
	Matches []model.Match
	// Selected is the single match the events come from, if any.
	Selected *model.Match
	// Events are the fully filtered events.
	Events []model.Event
}

// Apply runs the stages in their fixed order: the team name narrows the
// matches, the match selection picks the event source, then leg, then
// players. Each stage narrows the previous result.
func (q Query) Apply(matches []model.Match) Result {
	candidates := matches
	if q.TeamName != "" {
		candidates = ByTeamName(matches, q.TeamName)
	}

	var res Result
	res.Matches = candidates

	selectedID := q.MatchID
	if selectedID == "" && q.TeamName != "" && len(candidates) == 1 {
		selectedID = candidates[0].ID
	}

	var events []model.Event
	if selectedID != "" {
		m, ok := FindMatch(candidates, selectedID)
		if !ok {
			res.Events = []model.Event{}
			return res
		}
		res.Selected = &m
		events = m.Events
	} else {
		events = Flatten(candidates)
	}

	if q.Leg != nil {
		events = ByLeg(events, candidates, *q.Leg)
	}
	events = ByPlayers(events, q.PlayerIDs...)

	res.Events = events
	return res
}
