package simulate

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/pitchside/internal/adapters/http/api"
	service "github.com/okian/pitchside/internal/app"
	"github.com/okian/pitchside/internal/domain/model"
	"github.com/okian/pitchside/pkg/logger"
)

func init() {
	_ = logger.Init()
}

func newStack(t *testing.T) string {
	t.Helper()
	svc := service.New()
	if err := svc.Start(context.Background()); err != nil {
		t.Fatalf("start service: %v", err)
	}
	mux := http.NewServeMux()
	api.NewServer(svc, svc).Register(context.Background(), mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(func() {
		srv.Close()
		svc.Stop()
	})
	return srv.URL
}

func TestGenerator(t *testing.T) {
	Convey("Given two generators with the same seed", t, func() {
		a := newGenerator(7).plans(6, 20)
		b := newGenerator(7).plans(6, 20)

		Convey("They pick the same fixtures and event types", func() {
			So(len(a), ShouldEqual, 6)
			for i := range a {
				So(a[i].Setup.HomeTeam, ShouldEqual, b[i].Setup.HomeTeam)
				So(a[i].Setup.AwayTeam, ShouldEqual, b[i].Setup.AwayTeam)
				So(a[i].Setup.LegNumber, ShouldEqual, b[i].Setup.LegNumber)
				for j := range a[i].Events {
					So(a[i].Events[j].Type, ShouldEqual, b[i].Events[j].Type)
				}
			}
		})

		Convey("Every plan is a valid fixture", func() {
			for _, p := range a {
				So(p.Setup.HomeTeam, ShouldNotEqual, p.Setup.AwayTeam)
				So(p.Setup.SubstitutionCap, ShouldBeBetweenOrEqual, 1, model.MaxSubstitutionCap)
				So(len(p.Setup.Players), ShouldEqual, 2*playersPerSide)
				So(len(p.Events), ShouldEqual, 20)
			}
		})

		Convey("Events stay on the pitch and name players of their own side", func() {
			sides := map[string]string{}
			for _, p := range a {
				for _, pl := range p.Setup.Players {
					sides[pl.ID] = pl.Team
				}
				for _, e := range p.Events {
					limitX, limitY := 100.0, 100.0
					if e.Coordinates == "pixels" {
						limitX, limitY = pixelWidth, pixelHeight
					}
					So(e.X, ShouldBeBetweenOrEqual, 0.0, limitX)
					So(e.Y, ShouldBeBetweenOrEqual, 0.0, limitY)
					if e.PlayerID != "" {
						So(sides[e.PlayerID], ShouldEqual, e.Team)
					}
				}
			}
		})
	})
}

func TestRun(t *testing.T) {
	Convey("Given a running service", t, func() {
		cfg := &Config{
			BaseURL:        newStack(t),
			Matches:        4,
			EventsPerMatch: 15,
			Workers:        2,
			Timeout:        5 * time.Second,
			Seed:           42,
		}

		Convey("When the simulation runs", func() {
			stats, err := Run(context.Background(), cfg)

			Convey("Every match is played and verified", func() {
				So(err, ShouldBeNil)
				So(stats.Mismatches, ShouldBeEmpty)
				So(stats.MatchesCreated, ShouldEqual, 4)
				So(stats.MatchesVerified, ShouldEqual, 4)
				So(stats.EventsAccepted, ShouldEqual, 4*15)
				So(stats.EventsRejected, ShouldEqual, 4)
				So(stats.EventsSubmitted, ShouldEqual, 4*16)
				So(stats.SubstitutionsRefused, ShouldEqual, 8)
				So(stats.SubstitutionsGranted, ShouldBeGreaterThanOrEqualTo, 8)
			})
		})
	})

	Convey("Given no service", t, func() {
		cfg := &Config{BaseURL: "http://127.0.0.1:1", Matches: 1, EventsPerMatch: 1, Workers: 1, Timeout: time.Second}

		Convey("The health check fails", func() {
			_, err := Run(context.Background(), cfg)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "health check")
		})
	})
}

func TestClientErrors(t *testing.T) {
	Convey("Given a service answering with an error body", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"code":"capacity_exceeded","message":"no windows left"}`))
		}))
		defer srv.Close()

		status, err := newClient(srv.URL+"/", time.Second).do(context.Background(), http.MethodPost, "/x", map[string]int{"a": 1}, nil)

		Convey("The status and code come back", func() {
			So(status, ShouldEqual, http.StatusConflict)
			So(errors.Is(err, ErrStatus), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "capacity_exceeded")
		})
	})
}
