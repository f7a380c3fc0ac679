package report_test

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/okian/pitchside/internal/domain/model"
	"github.com/okian/pitchside/internal/domain/report"
	. "github.com/smartystreets/goconvey/convey"
)

func TestWriteCSV(t *testing.T) {
	Convey("Given events from one match", t, func() {
		m := model.Match{ID: "m1", HomeTeam: "FC Lions", AwayTeam: "Tigers/B"}
		events := []model.Event{
			model.Event{ID: "e1", Type: model.Goal, X: 91.456, Y: 50, Team: model.Home, MatchID: "m1", Timestamp: 0}.
				WithPlayer(model.Player{ID: "p", Name: "Ana, Jr.", Number: 9}),
			{ID: "e2", Type: model.Foul, X: 3, Y: 7.005, Team: model.Away, MatchID: "m1"},
			{ID: "e3", Type: model.Shot, X: 1, Y: 1, Team: model.Away, MatchID: "other"},
		}

		Convey("When exporting", func() {
			var buf bytes.Buffer
			err := report.WriteCSV(&buf, events, []model.Match{m})
			So(err, ShouldBeNil)
			rows, err := csv.NewReader(&buf).ReadAll()
			So(err, ShouldBeNil)

			Convey("Then there should be a header and one row per event", func() {
				So(rows, ShouldHaveLength, 4)
				So(rows[0], ShouldResemble, report.CSVHeader)
			})

			Convey("And cells should follow the export contract", func() {
				So(rows[1], ShouldResemble, []string{
					"m1", "e1", "1970-01-01T00:00:00Z", "goal", "FC Lions", "Ana, Jr. (9)", "91.46", "50.00",
				})
				So(rows[2][4], ShouldEqual, "Tigers/B")
				So(rows[2][5], ShouldEqual, "Unknown")
				So(rows[3][4], ShouldEqual, "away")
			})
		})

		Convey("When naming the file", func() {
			So(report.CSVFilename(m), ShouldEqual, "match-events-FC_Lions-vs-Tigers_B.csv")
		})
	})
}

func TestDescribe(t *testing.T) {
	Convey("Given an event with a hostile player name", t, func() {
		e := model.Event{ID: "e", Type: model.Shot, X: 12.5, Y: 87.4, Team: model.Home}.
			WithPlayer(model.Player{Name: "<b>Ana</b>", Number: 9})
		line := report.Describe(e)

		Convey("Then the position should be rounded and brackets stripped", func() {
			So(line.Position, ShouldEqual, "(13, 87)")
			So(line.Player, ShouldEqual, "bAna/b")
		})

		Convey("And events without a player should read Unknown", func() {
			So(report.Describe(model.Event{}).Player, ShouldEqual, "Unknown")
		})
	})
}
