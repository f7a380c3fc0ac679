package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/okian/pitchside/internal/domain/model"
)

// CSVHeader is the column layout of event exports.
var CSVHeader = []string{
	"Match ID", "Event ID", "Timestamp", "Type", "Team", "Player", "Position X", "Position Y",
}

const unknownPlayer = "Unknown"

var unsafeFilename = regexp.MustCompile(`[^a-zA-Z0-9]`)

// WriteCSV writes one row per event. Team names are resolved through the
// owning match in matches; events whose match is absent fall back to the
// side name.
func WriteCSV(w io.Writer, events []model.Event, matches []model.Match) error {
	owners := make(map[string]*model.Match, len(matches))
	for i := range matches {
		owners[matches[i].ID] = &matches[i]
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, e := range events {
		team := string(e.Team)
		if m, ok := owners[e.MatchID]; ok {
			team = m.TeamName(e.Team)
		}
		row := []string{
			e.MatchID,
			e.ID,
			time.UnixMilli(e.Timestamp).UTC().Format(time.RFC3339),
			string(e.Type),
			team,
			PlayerLabel(e.Player),
			strconv.FormatFloat(e.X, 'f', 2, 64),
			strconv.FormatFloat(e.Y, 'f', 2, 64),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %s: %w", e.ID, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// PlayerLabel renders "Name (number)" or Unknown.
func PlayerLabel(p *model.Player) string {
	if p == nil {
		return unknownPlayer
	}
	return fmt.Sprintf("%s (%d)", p.Name, p.Number)
}

// CSVFilename builds a download name with every non-alphanumeric rune
// replaced by an underscore.
func CSVFilename(m model.Match) string {
	return fmt.Sprintf("match-events-%s-vs-%s.csv",
		unsafeFilename.ReplaceAllString(m.HomeTeam, "_"),
		unsafeFilename.ReplaceAllString(m.AwayTeam, "_"))
}

// Line is the display form of an event in an event list.
type Line struct {
	ID       string          `json:"id"`
	Type     model.EventType `json:"type"`
	Team     model.Side      `json:"team"`
	Position string          `json:"position"`
	Player   string          `json:"player"`
	Time     string          `json:"time"`
}

// Describe formats an event for listing: the position rounded to whole
// percentages and the player name stripped of angle brackets.
func Describe(e model.Event) Line {
	player := unknownPlayer
	if e.Player != nil {
		player = strings.NewReplacer("<", "", ">", "").Replace(e.Player.Name)
	}
	return Line{
		ID:       e.ID,
		Type:     e.Type,
		Team:     e.Team,
		Position: fmt.Sprintf("(%d, %d)", roundHalfUp(e.X), roundHalfUp(e.Y)),
		Player:   player,
		Time:     time.UnixMilli(e.Timestamp).UTC().Format("15:04"),
	}
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
