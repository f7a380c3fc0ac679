package model_test

import (
	"encoding/json"
	"testing"

	model "github.com/okian/pitchside/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestHalfJSON(t *testing.T) {
	convey.Convey("Given match halves", t, func() {
		convey.Convey("When encoding", func() {
			first, err1 := json.Marshal(model.FirstHalf)
			done, err2 := json.Marshal(model.Finished)

			convey.Convey("Then halves should use the persisted shape", func() {
				convey.So(err1, convey.ShouldBeNil)
				convey.So(err2, convey.ShouldBeNil)
				convey.So(string(first), convey.ShouldEqual, "1")
				convey.So(string(done), convey.ShouldEqual, `"finished"`)
			})
		})

		convey.Convey("When decoding", func() {
			var h model.Half
			convey.So(json.Unmarshal([]byte("2"), &h), convey.ShouldBeNil)
			convey.So(h, convey.ShouldEqual, model.SecondHalf)
			convey.So(json.Unmarshal([]byte(`"finished"`), &h), convey.ShouldBeNil)
			convey.So(h, convey.ShouldEqual, model.Finished)

			convey.Convey("Then unknown values should be rejected", func() {
				convey.So(json.Unmarshal([]byte("3"), &h), convey.ShouldNotBeNil)
				convey.So(json.Unmarshal([]byte(`"halftime"`), &h), convey.ShouldNotBeNil)
			})
		})
	})
}

func TestMatch(t *testing.T) {
	convey.Convey("Given a match between Lions and Tigers", t, func() {
		m := &model.Match{
			ID:          "m1",
			HomeTeam:    "Lions",
			AwayTeam:    "Tigers",
			CurrentHalf: model.FirstHalf,
			Players: []model.Player{
				{ID: "p1", Name: "Ana", Number: 9, Team: model.Home},
			},
		}

		convey.Convey("When no cap or length is stored", func() {
			convey.Convey("Then base defaults should apply", func() {
				convey.So(m.Cap(), convey.ShouldEqual, model.DefaultSubstitutionCap)
				convey.So(m.Length(), convey.ShouldEqual, 90)
			})
		})

		convey.Convey("When resolving team names", func() {
			side, ok := m.SideOf("Tigers")
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(side, convey.ShouldEqual, model.Away)
			_, ok = m.SideOf("tigers")
			convey.So(ok, convey.ShouldBeFalse)
			convey.So(m.TeamName(model.Home), convey.ShouldEqual, "Lions")
		})

		convey.Convey("When events are present", func() {
			m.Events = []model.Event{
				{ID: "e1", Type: model.Goal, Team: model.Home},
				{ID: "e2", Type: model.Shot, Team: model.Home},
				{ID: "e3", Type: model.Goal, Team: model.Away},
				{ID: "e4", Type: model.Goal, Team: model.Home},
			}
			m.HomeScore = 7
			m.RecomputeScore()

			convey.Convey("Then the score should equal the goal count per side", func() {
				convey.So(m.HomeScore, convey.ShouldEqual, 2)
				convey.So(m.AwayScore, convey.ShouldEqual, 1)
				convey.So(m.HasEvent("e3"), convey.ShouldBeTrue)
				convey.So(m.HasEvent("e9"), convey.ShouldBeFalse)
			})
		})

		convey.Convey("When cloning", func() {
			p := m.Players[0]
			m.Events = []model.Event{model.Event{ID: "e1", Type: model.Goal, Team: model.Home}.WithPlayer(p)}
			c := m.Clone()
			c.Events[0].Player.Name = "changed"
			c.Players[0].Name = "changed"

			convey.Convey("Then the original should be untouched", func() {
				convey.So(m.Events[0].Player.Name, convey.ShouldEqual, "Ana")
				convey.So(m.Players[0].Name, convey.ShouldEqual, "Ana")
			})
		})

		convey.Convey("When looking up players", func() {
			p, ok := m.Player("p1")
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(p.Number, convey.ShouldEqual, 9)
			_, ok = m.Player("nobody")
			convey.So(ok, convey.ShouldBeFalse)
		})
	})
}
