package timer_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/okian/pitchside/internal/domain/model"
	"github.com/okian/pitchside/internal/domain/timer"
	"github.com/okian/pitchside/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

// manual returns a running clock whose loop never fires on its own.
func manual(opts ...timer.Option) *timer.Clock {
	c := timer.New(append([]timer.Option{timer.WithInterval(time.Hour)}, opts...)...)
	if err := c.Start(context.Background()); err != nil {
		panic(err)
	}
	return c
}

func TestTick(t *testing.T) {
	Convey("Given a running clock for a two minute match", t, func() {
		var halves, ends atomic.Int32
		c := manual(
			timer.WithMatchLength(2),
			timer.OnHalfEnd(func() { halves.Add(1) }),
			timer.OnMatchEnd(func() { ends.Add(1) }),
		)
		defer c.Stop()

		Convey("When ticking up to the half length", func() {
			var last timer.Signal
			for i := 0; i < 60; i++ {
				last = c.Tick()
			}

			Convey("Then the last tick should signal half end exactly once", func() {
				So(last, ShouldEqual, timer.HalfEnd)
				So(halves.Load(), ShouldEqual, 1)
				So(c.Elapsed(), ShouldEqual, 60)
			})

			Convey("And the base clock should stop counting by itself", func() {
				So(c.Running(), ShouldBeFalse)
				So(c.Tick(), ShouldEqual, timer.None)
				So(c.Elapsed(), ShouldEqual, 60)
			})

			Convey("And the second half should signal match end", func() {
				c.SetHalf(model.SecondHalf)
				c.Reset()
				So(c.Start(context.Background()), ShouldBeNil)
				for i := 0; i < 59; i++ {
					So(c.Tick(), ShouldEqual, timer.None)
				}
				So(c.Tick(), ShouldEqual, timer.MatchEnd)
				So(ends.Load(), ShouldEqual, 1)
			})
		})

		Convey("When paused", func() {
			c.Tick()
			c.Pause()

			Convey("Then ticks should not count", func() {
				So(c.Tick(), ShouldEqual, timer.None)
				So(c.Elapsed(), ShouldEqual, 1)
			})
		})

		Convey("When the half is finished", func() {
			c.SetHalf(model.Finished)

			Convey("Then the clock should refuse to count or start", func() {
				So(c.Tick(), ShouldEqual, timer.None)
				So(c.Elapsed(), ShouldEqual, 0)
				So(errors.Is(c.Start(context.Background()), timer.ErrFinished), ShouldBeTrue)
			})
		})
	})
}

func TestInjuryTime(t *testing.T) {
	Convey("Given a clock with injury time enabled", t, func() {
		c := manual(timer.WithMatchLength(2), timer.WithInjuryTime(true))
		defer c.Stop()
		c.SetHalf(model.SecondHalf)
		c.AddInjuryTime(5)

		Convey("When ticking past the nominal length", func() {
			signals := map[timer.Signal]int{}
			for i := 0; i < 64; i++ {
				signals[c.Tick()]++
			}

			Convey("Then overflow should be tracked without ending the match", func() {
				So(signals[timer.MatchEnd], ShouldEqual, 0)
				So(c.InjuryTime(), ShouldEqual, 4)
				So(c.Running(), ShouldBeTrue)
			})

			Convey("And match end should fire once the added time runs out", func() {
				So(c.Tick(), ShouldEqual, timer.MatchEnd)
				So(c.Tick(), ShouldEqual, timer.None)
				So(c.InjuryTime(), ShouldEqual, 6)
				So(c.State().Display, ShouldEqual, "01:06")
			})
		})
	})
}

func stopsWithin(c *timer.Clock, d time.Duration) bool {
	deadline := time.Now().Add(d)
	for c.Running() && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	return !c.Running()
}

func TestRunLoop(t *testing.T) {
	Convey("Given a fast clock", t, func() {
		c := timer.New(timer.WithInterval(time.Millisecond), timer.WithMatchLength(90))
		updates, cancel := c.Subscribe()
		defer cancel()

		Convey("When started twice", func() {
			began := time.Now()
			So(c.Start(context.Background()), ShouldBeNil)
			So(c.Start(context.Background()), ShouldBeNil)
			time.Sleep(30 * time.Millisecond)
			c.Pause()
			window := int(time.Since(began) / time.Millisecond)
			frozen := c.Elapsed()
			time.Sleep(20 * time.Millisecond)

			Convey("Then only one loop should have counted and pausing should freeze it", func() {
				So(frozen, ShouldBeGreaterThan, 0)
				So(frozen, ShouldBeLessThanOrEqualTo, window)
				So(c.Elapsed(), ShouldEqual, frozen)
			})

			Convey("And subscribers should have seen updates", func() {
				select {
				case st := <-updates:
					So(st.HalfLength, ShouldEqual, 45*60)
				case <-time.After(time.Second):
					So("no update", ShouldBeEmpty)
				}
			})

			c.Stop()
		})

		Convey("When the parent context ends while running", func() {
			ctx, stop := context.WithCancel(context.Background())
			So(c.Start(ctx), ShouldBeNil)
			So(c.Running(), ShouldBeTrue)
			stop()

			Convey("Then the clock reports itself stopped", func() {
				So(stopsWithin(c, time.Second), ShouldBeTrue)
				So(c.State().Running, ShouldBeFalse)
			})

			Convey("And it can be started again", func() {
				So(stopsWithin(c, time.Second), ShouldBeTrue)
				So(c.Start(context.Background()), ShouldBeNil)
				So(c.Running(), ShouldBeTrue)
			})

			c.Stop()
		})

		Convey("When the context is cancelled", func() {
			ctx, stop := context.WithCancel(context.Background())
			So(c.Start(ctx), ShouldBeNil)
			stop()
			c.Stop()

			Convey("Then the clock should refuse to start again after Stop", func() {
				So(errors.Is(c.Start(context.Background()), timer.ErrClosed), ShouldBeTrue)
			})
		})
	})
}

func TestFormat(t *testing.T) {
	Convey("Given elapsed seconds", t, func() {
		So(timer.Format(0), ShouldEqual, "00:00")
		So(timer.Format(61), ShouldEqual, "01:01")
		So(timer.Format(45*60), ShouldEqual, "45:00")
		So(timer.Format(-3), ShouldEqual, "00:00")
	})
}
