package report

import (
	"sort"

	"github.com/okian/pitchside/internal/domain/model"
)

// PlayerWithHistory merges a player's appearances across matches.
type PlayerWithHistory struct {
	ID                 string     `json:"id"`
	Name               string     `json:"name"`
	Team               model.Side `json:"team"`
	CurrentNumber      int        `json:"currentNumber"`
	Numbers            []int      `json:"numbers"`
	HasMultipleNumbers bool       `json:"hasMultipleNumbers"`
}

// Players scans matches from the most recently started and merges rosters
// by player id. The first sighting fixes name and current number.
func Players(matches []model.Match) []PlayerWithHistory {
	ordered := append([]model.Match(nil), matches...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].StartTime > ordered[j].StartTime
	})

	index := make(map[string]int)
	var out []PlayerWithHistory
	for _, m := range ordered {
		for _, p := range m.Players {
			i, ok := index[p.ID]
			if !ok {
				index[p.ID] = len(out)
				out = append(out, PlayerWithHistory{
					ID:            p.ID,
					Name:          p.Name,
					Team:          p.Team,
					CurrentNumber: p.Number,
					Numbers:       []int{p.Number},
				})
				continue
			}
			h := &out[i]
			if !containsInt(h.Numbers, p.Number) {
				h.Numbers = append(h.Numbers, p.Number)
				h.HasMultipleNumbers = true
			}
		}
	}
	if out == nil {
		out = []PlayerWithHistory{}
	}
	return out
}

func containsInt(xs []int, v int) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}

// Legs returns the distinct leg numbers in ascending order.
func Legs(matches []model.Match) []int {
	seen := make(map[int]struct{})
	out := []int{}
	for _, m := range matches {
		if _, ok := seen[m.LegNumber]; ok {
			continue
		}
		seen[m.LegNumber] = struct{}{}
		out = append(out, m.LegNumber)
	}
	sort.Ints(out)
	return out
}

// TeamNames returns every team name that played, sorted and unique.
func TeamNames(matches []model.Match) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, m := range matches {
		for _, name := range []string{m.HomeTeam, m.AwayTeam} {
			if name == "" {
				continue
			}
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	sort.Strings(out)
	return out
}
