package ledger

import "github.com/okian/pitchside/internal/domain/model"

// ByType keeps events whose type is in types. No types keeps nothing.
func ByType(events []model.Event, types ...model.EventType) []model.Event {
	set := make(map[model.EventType]struct{}, len(types))
	for _, t := range types {
		set[t] = struct{}{}
	}
	out := make([]model.Event, 0, len(events))
	for _, e := range events {
		if _, ok := set[e.Type]; ok {
			out = append(out, e)
		}
	}
	return out
}

// ByTeamName keeps matches in which name played on either side.
// Comparison is exact and case-sensitive.
func ByTeamName(matches []model.Match, name string) []model.Match {
	out := make([]model.Match, 0, len(matches))
	for _, m := range matches {
		if m.HomeTeam == name || m.AwayTeam == name {
			out = append(out, m)
		}
	}
	return out
}

// ByPlayers keeps events credited to one of ids. An empty id set disables
// the filter; otherwise events without a player are dropped.
func ByPlayers(events []model.Event, ids ...string) []model.Event {
	if len(ids) == 0 {
		return events
	}
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	out := make([]model.Event, 0, len(events))
	for _, e := range events {
		if e.Player == nil {
			continue
		}
		if _, ok := set[e.Player.ID]; ok {
			out = append(out, e)
		}
	}
	return out
}

// ByLeg keeps events whose owning match in matches has the given leg.
// Events whose match cannot be found are excluded.
func ByLeg(events []model.Event, matches []model.Match, leg int) []model.Event {
	legs := make(map[string]int, len(matches))
	for _, m := range matches {
		legs[m.ID] = m.LegNumber
	}
	out := make([]model.Event, 0, len(events))
	for _, e := range events {
		if l, ok := legs[e.MatchID]; ok && l == leg {
			out = append(out, e)
		}
	}
	return out
}

// ByMatch keeps events recorded for matchID.
func ByMatch(events []model.Event, matchID string) []model.Event {
	out := make([]model.Event, 0, len(events))
	for _, e := range events {
		if e.MatchID == matchID {
			out = append(out, e)
		}
	}
	return out
}

// Flatten concatenates the events of matches in order.
func Flatten(matches []model.Match) []model.Event {
	n := 0
	for _, m := range matches {
		n += len(m.Events)
	}
	out := make([]model.Event, 0, n)
	for _, m := range matches {
		out = append(out, m.Events...)
	}
	return out
}

// FindMatch looks up a match by id.
func FindMatch(matches []model.Match, id string) (model.Match, bool) {
	for _, m := range matches {
		if m.ID == id {
			return m, true
		}
	}
	return model.Match{}, false
}

// EventOwner returns the id of the match that already holds an event with
// id. Event ids are unique across all matches.
func EventOwner(matches []model.Match, id string) (string, bool) {
	for i := range matches {
		if matches[i].HasEvent(id) {
			return matches[i].ID, true
		}
	}
	return "", false
}
