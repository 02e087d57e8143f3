package app

import (
	"testing"
	"time"

	"github.com/CinkadeusBG/LCARSTV/input"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeStation struct {
	ups   int
	downs int
	ticks int

	// order records actions so the drain-before-tick guarantee is checkable.
	order []string
}

func (f *fakeStation) Up() error {
	f.ups++
	f.order = append(f.order, "up")
	return nil
}

func (f *fakeStation) Down() error {
	f.downs++
	f.order = append(f.order, "down")
	return nil
}

func (f *fakeStation) Tick(time.Time) {
	f.ticks++
	f.order = append(f.order, "tick")
}

func TestLoopIterate(t *testing.T) {
	Convey("Loop iteration", t, func() {
		station := &fakeStation{}
		queue := input.NewQueue()
		loop := &Loop{Station: station, Input: queue, Tick: 200 * time.Millisecond}

		base := time.Now()

		Convey("Should drain every pending input event before ticking", func() {
			queue.Push(input.Event{Kind: input.ChannelUp})
			queue.Push(input.Event{Kind: input.ChannelDown})
			queue.Push(input.Event{Kind: input.ChannelUp})

			So(loop.iterate(base), ShouldBeFalse)
			So(station.order, ShouldResemble, []string{"up", "down", "up", "tick"})
		})

		Convey("Should tick only when the scheduler interval has elapsed", func() {
			So(loop.iterate(base), ShouldBeFalse)
			So(station.ticks, ShouldEqual, 1)

			loop.iterate(base.Add(50 * time.Millisecond))
			loop.iterate(base.Add(100 * time.Millisecond))
			So(station.ticks, ShouldEqual, 1)

			loop.iterate(base.Add(250 * time.Millisecond))
			So(station.ticks, ShouldEqual, 2)
		})

		Convey("A quit event should stop the loop before any tick", func() {
			queue.Push(input.Event{Kind: input.Quit})

			So(loop.iterate(base), ShouldBeTrue)
			So(station.ticks, ShouldEqual, 0)
		})

		Convey("A quit event should win even behind other events", func() {
			queue.Push(input.Event{Kind: input.ChannelUp})
			queue.Push(input.Event{Kind: input.Quit})

			So(loop.iterate(base), ShouldBeTrue)
			So(station.ups, ShouldEqual, 1)
		})
	})
}

func TestLoopRun(t *testing.T) {
	Convey("Loop.Run", t, func() {
		station := &fakeStation{}
		queue := input.NewQueue()

		Convey("Should return nil on quit", func() {
			loop := &Loop{Station: station, Input: queue, Sleep: time.Millisecond, Tick: time.Hour}
			queue.Push(input.Event{Kind: input.Quit})

			So(loop.Run(), ShouldBeNil)
		})

		Convey("Should surface the player's death", func() {
			done := make(chan struct{})
			close(done)
			loop := &Loop{Station: station, Input: queue, Done: done, Sleep: time.Millisecond, Tick: time.Hour}

			So(loop.Run(), ShouldEqual, ErrPlayerExited)
		})
	})
}
