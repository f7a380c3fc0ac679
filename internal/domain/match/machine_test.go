package match_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/okian/pitchside/internal/domain/match"
	"github.com/okian/pitchside/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func setup() match.Setup {
	return match.Setup{
		ID:        "m1",
		HomeTeam:  "Lions",
		AwayTeam:  "Tigers",
		Category:  "U12",
		LegNumber: 1,
	}
}

func TestNew(t *testing.T) {
	Convey("Given a valid setup", t, func() {
		s := setup()
		s.StartTime = time.UnixMilli(1_700_000_000_000)

		Convey("When opening the match", func() {
			m, err := match.New(s)

			Convey("Then it should start at 0-0 in the first half", func() {
				So(err, ShouldBeNil)
				So(m.HomeScore, ShouldEqual, 0)
				So(m.AwayScore, ShouldEqual, 0)
				So(m.CurrentHalf, ShouldEqual, model.FirstHalf)
				So(m.Events, ShouldBeEmpty)
				So(m.StartTime, ShouldEqual, int64(1_700_000_000_000))
				So(m.Cap(), ShouldEqual, 3)
			})
		})

		Convey("When required fields are missing", func() {
			for _, mutate := range []func(*match.Setup){
				func(s *match.Setup) { s.HomeTeam = "  " },
				func(s *match.Setup) { s.AwayTeam = "" },
				func(s *match.Setup) { s.Category = "" },
				func(s *match.Setup) { s.AwayTeam = "Lions" },
				func(s *match.Setup) { s.LegNumber = 0 },
				func(s *match.Setup) { s.MatchLength = 75 },
				func(s *match.Setup) { s.SubstitutionCap = 6 },
				func(s *match.Setup) { s.Players = []model.Player{{Name: "no id", Team: model.Home}} },
			} {
				bad := setup()
				mutate(&bad)
				_, err := match.New(bad)
				So(errors.Is(err, model.ErrValidation), ShouldBeTrue)
			}
		})

		Convey("When a roster exceeds the per-side cap", func() {
			s.MaxPlayersPerSide = 2
			for i := 0; i < 3; i++ {
				s.Players = append(s.Players, model.Player{ID: fmt.Sprintf("p%d", i), Number: i + 1, Team: model.Home})
			}
			_, err := match.New(s)

			Convey("Then it should be a capacity error", func() {
				So(errors.Is(err, model.ErrCapacity), ShouldBeTrue)
			})
		})
	})
}

func TestHalves(t *testing.T) {
	Convey("Given a match in the first half", t, func() {
		m, err := match.New(setup())
		So(err, ShouldBeNil)
		mc := match.Wrap(m)

		Convey("When advancing the half twice", func() {
			first := mc.NextHalf()
			second := mc.NextHalf()

			Convey("Then the second call should be a no-op", func() {
				So(first, ShouldEqual, match.HalfTime)
				So(second, ShouldEqual, match.NoChange)
				So(m.CurrentHalf, ShouldEqual, model.SecondHalf)
			})
		})

		Convey("When the match finishes", func() {
			So(mc.Finish(), ShouldEqual, match.FullTime)

			Convey("Then no operation should move it back", func() {
				So(mc.NextHalf(), ShouldEqual, match.NoChange)
				So(mc.Finish(), ShouldEqual, match.NoChange)
				So(mc.RequestSubstitutionWindow(model.Home), ShouldNotBeNil)
				So(mc.Record(model.Event{ID: "e", Type: model.Goal, X: 1, Y: 1, Team: model.Home, MatchID: "m1"}), ShouldNotBeNil)
				So(m.CurrentHalf, ShouldEqual, model.Finished)
				So(m.HomeScore, ShouldEqual, 0)
			})
		})
	})
}

func TestSubstitutionWindows(t *testing.T) {
	Convey("Given a match with the base cap of three", t, func() {
		m, err := match.New(setup())
		So(err, ShouldBeNil)
		mc := match.Wrap(m)

		Convey("When home requests three windows", func() {
			for i := 0; i < 3; i++ {
				So(mc.RequestSubstitutionWindow(model.Home), ShouldBeNil)
			}

			Convey("Then the fourth request should be rejected at capacity", func() {
				err := mc.RequestSubstitutionWindow(model.Home)
				So(errors.Is(err, model.ErrCapacity), ShouldBeTrue)
				So(m.HomeSubstitutionWindows, ShouldEqual, 3)
				So(mc.Remaining(model.Home), ShouldEqual, 0)
			})

			Convey("And the away side should be unaffected", func() {
				So(mc.Remaining(model.Away), ShouldEqual, 3)
				So(mc.RequestSubstitutionWindow(model.Away), ShouldBeNil)
				So(m.AwaySubstitutionWindows, ShouldEqual, 1)
			})
		})

		Convey("When the match is finished", func() {
			So(mc.RequestSubstitutionWindow(model.Away), ShouldBeNil)
			mc.Finish()
			err := mc.RequestSubstitutionWindow(model.Away)

			Convey("Then the request should be a state error and the counter should stay", func() {
				So(errors.Is(err, model.ErrState), ShouldBeTrue)
				So(m.AwaySubstitutionWindows, ShouldEqual, 1)
			})
		})

		Convey("When the side is unknown", func() {
			err := mc.RequestSubstitutionWindow("bench")
			So(errors.Is(err, model.ErrValidation), ShouldBeTrue)
		})
	})

	Convey("Given a match on the extended cap of five", t, func() {
		s := setup()
		s.SubstitutionCap = 5
		m, err := match.New(s)
		So(err, ShouldBeNil)
		mc := match.Wrap(m)

		Convey("Then exactly five windows should be granted", func() {
			granted := 0
			for i := 0; i < 8; i++ {
				if mc.RequestSubstitutionWindow(model.Away) == nil {
					granted++
				}
				So(m.AwaySubstitutionWindows, ShouldBeLessThanOrEqualTo, 5)
			}
			So(granted, ShouldEqual, 5)
		})
	})
}

func TestRecord(t *testing.T) {
	Convey("Given a match", t, func() {
		m, err := match.New(setup())
		So(err, ShouldBeNil)
		mc := match.Wrap(m)

		Convey("When a goal is recorded for away", func() {
			err := mc.Record(model.Event{ID: "g1", Type: model.Goal, X: 10, Y: 50, Team: model.Away, MatchID: "m1"})

			Convey("Then the score should follow the ledger", func() {
				So(err, ShouldBeNil)
				So(m.AwayScore, ShouldEqual, 1)
				So(mc.Match(), ShouldEqual, m)
			})
		})
	})
}
