package report

import (
	"bufio"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/okian/pitchside/internal/domain/model"
)

// DefaultRosterLimit is the number of players a team may list.
const DefaultRosterLimit = 20

// ParseRoster reads a pasted squad list. A line holding only digits sets
// the shirt number for the next non-numeric line, which is the name. Names
// without a preceding number are ignored. The result is sorted by number
// and truncated to the free slots left under limit given existing players
// of that side. newID supplies ids for the new players.
func ParseRoster(text string, side model.Side, existing []model.Player, limit int, newID func() string) ([]model.Player, error) {
	const op = "report.parse_roster"
	if !side.Valid() {
		return nil, model.WrapKind(op, model.ErrValidation, fmt.Errorf("unknown side %q", side))
	}
	if limit <= 0 {
		limit = DefaultRosterLimit
	}

	var parsed []model.Player
	number := ""
	sc := bufio.NewScanner(strings.NewReader(text))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if isDigits(line) {
			number = line
			continue
		}
		if number == "" {
			continue
		}
		n, err := strconv.Atoi(number)
		if err != nil {
			return nil, model.WrapKind(op, model.ErrValidation, err)
		}
		parsed = append(parsed, model.Player{ID: newID(), Name: line, Number: n, Team: side})
		number = ""
	}
	if err := sc.Err(); err != nil {
		return nil, model.WrapKind(op, model.ErrValidation, err)
	}

	sort.SliceStable(parsed, func(i, j int) bool { return parsed[i].Number < parsed[j].Number })

	used := 0
	for _, p := range existing {
		if p.Team == side {
			used++
		}
	}
	free := limit - used
	if free <= 0 {
		return []model.Player{}, nil
	}
	if len(parsed) > free {
		parsed = parsed[:free]
	}
	if parsed == nil {
		parsed = []model.Player{}
	}
	return parsed, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
