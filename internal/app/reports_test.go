package service_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	service "github.com/okian/pitchside/internal/app"
	"github.com/okian/pitchside/internal/domain/ledger"
	"github.com/okian/pitchside/internal/domain/match"
	"github.com/okian/pitchside/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestService_Reports(t *testing.T) {
	Convey("Given two legs of the Lions", t, func() {
		svc := newService(t)
		ctx := context.Background()

		first, err := svc.CreateMatch(ctx, lionsSetup())
		So(err, ShouldBeNil)
		second, err := svc.CreateMatch(ctx, match.Setup{
			HomeTeam: "Bears", AwayTeam: "Lions", Category: "U12", LegNumber: 2,
		})
		So(err, ShouldBeNil)

		record := func(id string, typ model.EventType, side model.Side, x, y float64) {
			_, err := svc.RecordEvent(ctx, id, service.EventInput{Type: typ, Team: side, X: x, Y: y})
			So(err, ShouldBeNil)
		}
		record(first.ID, model.Goal, model.Home, 90, 50)
		record(first.ID, model.Shot, model.Home, 80, 30)
		record(first.ID, model.Goal, model.Away, 10, 50)
		record(second.ID, model.Goal, model.Away, 88, 45)
		record(second.ID, model.Corner, model.Home, 99, 1)

		Convey("When building the unfiltered report", func() {
			r, err := svc.Report(ctx, ledger.Query{})

			Convey("Then it aggregates every match", func() {
				So(err, ShouldBeNil)
				So(r.Aggregated, ShouldBeTrue)
				So(r.Events, ShouldHaveLength, 5)
				So(r.Attempts, ShouldHaveLength, 4)
			})
		})

		Convey("When filtering by a team playing both legs", func() {
			r, err := svc.Report(ctx, ledger.Query{TeamName: "Lions"})

			Convey("Then goals are counted from the Lions perspective", func() {
				So(err, ShouldBeNil)
				So(r.Match.HomeTeam, ShouldEqual, "Lions")
				So(r.Match.HomeScore, ShouldEqual, 2)
				So(r.Match.AwayScore, ShouldEqual, 1)
			})

			Convey("And the event list agrees with the aggregate sides", func() {
				So(r.Events, ShouldHaveLength, len(r.Match.Events))
				for i := range r.Events {
					So(r.Events[i].Team, ShouldEqual, r.Match.Events[i].Team)
				}
				So(r.Events[3].Team, ShouldEqual, model.Home)
			})
		})

		Convey("When selecting one match", func() {
			r, err := svc.Report(ctx, ledger.Query{MatchID: second.ID})

			Convey("Then only its events are used", func() {
				So(err, ShouldBeNil)
				So(r.Aggregated, ShouldBeFalse)
				So(r.Match.ID, ShouldEqual, second.ID)
				So(r.Events, ShouldHaveLength, 2)
			})
		})

		Convey("When exporting the first match", func() {
			var buf bytes.Buffer
			name, err := svc.ExportCSV(ctx, ledger.Query{MatchID: first.ID}, &buf)

			Convey("Then every event becomes a row under the header", func() {
				So(err, ShouldBeNil)
				So(name, ShouldEqual, "match-events-Lions-vs-Tigers.csv")
				lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
				So(lines, ShouldHaveLength, 4)
				So(lines[0], ShouldStartWith, "Match ID,")
				So(lines[1], ShouldContainSubstring, "Lions")
			})
		})

		Convey("When exporting both Lions legs", func() {
			var buf bytes.Buffer
			_, err := svc.ExportCSV(ctx, ledger.Query{TeamName: "Lions"}, &buf)

			Convey("Then each row names the team that literally acted", func() {
				So(err, ShouldBeNil)
				lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
				So(lines, ShouldHaveLength, 6)
				So(lines[3], ShouldContainSubstring, ",Tigers,")
				So(lines[4], ShouldContainSubstring, ",Lions,")
				So(lines[5], ShouldContainSubstring, ",Bears,")
			})
		})

		Convey("When shading the attempts", func() {
			markers, err := svc.Shading(ctx, ledger.Query{})

			Convey("Then each attempt gets a marker in range", func() {
				So(err, ShouldBeNil)
				So(markers, ShouldHaveLength, 4)
				for _, mk := range markers {
					So(mk.Value, ShouldBeBetweenOrEqual, 0, 1)
				}
			})
		})

		Convey("When listing filters and players", func() {
			f, err := svc.Filters(ctx)
			So(err, ShouldBeNil)
			players, err := svc.Players(ctx)
			So(err, ShouldBeNil)

			Convey("Then they reflect the stored matches", func() {
				So(f.Legs, ShouldResemble, []int{1, 2})
				So(f.Teams, ShouldResemble, []string{"Bears", "Lions", "Tigers"})
				So(players, ShouldHaveLength, 2)
			})
		})
	})
}

func TestService_Settings(t *testing.T) {
	Convey("Given a fresh service", t, func() {
		svc := newService(t)
		ctx := context.Background()

		Convey("When no settings were saved", func() {
			st, err := svc.GetSettings(ctx)

			Convey("Then the language defaults to english", func() {
				So(err, ShouldBeNil)
				So(st.Language, ShouldEqual, service.DefaultLanguage)
			})
		})

		Convey("When saving a supported language", func() {
			_, err := svc.UpdateSettings(ctx, service.Settings{Language: "ca", Emblem: "data:image/png;base64,AA=="})
			So(err, ShouldBeNil)
			st, err := svc.GetSettings(ctx)

			Convey("Then it is returned afterwards", func() {
				So(err, ShouldBeNil)
				So(st.Language, ShouldEqual, "ca")
				So(st.Emblem, ShouldStartWith, "data:image/png")
			})
		})

		Convey("When saving an unsupported language", func() {
			_, err := svc.UpdateSettings(ctx, service.Settings{Language: "fr"})

			Convey("Then it is a validation error", func() {
				So(errors.Is(err, model.ErrValidation), ShouldBeTrue)
			})
		})

		Convey("When managing categories", func() {
			_, err := svc.AddCategory(ctx, "  U12 ")
			So(err, ShouldBeNil)
			_, err = svc.AddCategory(ctx, "U14")
			So(err, ShouldBeNil)
			cats, err := svc.AddCategory(ctx, "U12")
			So(err, ShouldBeNil)

			Convey("Then names are trimmed and unique", func() {
				So(cats, ShouldResemble, []string{"U12", "U14"})
			})

			Convey("And removing one keeps the rest", func() {
				cats, err := svc.RemoveCategory(ctx, "U12")
				So(err, ShouldBeNil)
				So(cats, ShouldResemble, []string{"U14"})

				_, err = svc.RemoveCategory(ctx, "U12")
				So(errors.Is(err, model.ErrNotFound), ShouldBeTrue)
			})

			Convey("And an empty name is refused", func() {
				_, err := svc.AddCategory(ctx, "   ")
				So(errors.Is(err, model.ErrValidation), ShouldBeTrue)
			})
		})

		Convey("When clearing data", func() {
			_, err := svc.CreateMatch(ctx, lionsSetup())
			So(err, ShouldBeNil)
			_, err = svc.AddCategory(ctx, "U12")
			So(err, ShouldBeNil)
			So(svc.ClearData(ctx), ShouldBeNil)

			Convey("Then matches are gone but categories remain", func() {
				matches, err := svc.ListMatches(ctx)
				So(err, ShouldBeNil)
				So(matches, ShouldBeEmpty)
				cats, _ := svc.Categories(ctx)
				So(cats, ShouldResemble, []string{"U12"})
			})
		})
	})
}
