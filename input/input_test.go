package input

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestDecode(t *testing.T) {
	Convey("Decode", t, func() {
		Convey("Should map quit keys", func() {
			for _, raw := range [][]byte{{'q'}, {'Q'}, {0x03}} {
				event, ok := Decode(raw)
				So(ok, ShouldBeTrue)
				So(event.Kind, ShouldEqual, Quit)
			}
		})

		Convey("Should map channel navigation keys and escape sequences", func() {
			up := [][]byte{{'+'}, {'k'}, []byte("\x1b[A"), []byte("\x1b[5~")}
			for _, raw := range up {
				event, ok := Decode(raw)
				So(ok, ShouldBeTrue)
				So(event.Kind, ShouldEqual, ChannelUp)
			}

			down := [][]byte{{'-'}, {'j'}, []byte("\x1b[B"), []byte("\x1b[6~")}
			for _, raw := range down {
				event, ok := Decode(raw)
				So(ok, ShouldBeTrue)
				So(event.Kind, ShouldEqual, ChannelDown)
			}
		})

		Convey("Should ignore unrecognized input", func() {
			for _, raw := range [][]byte{nil, {'x'}, []byte("\x1b[C")} {
				_, ok := Decode(raw)
				So(ok, ShouldBeFalse)
			}
		})
	})
}

func TestQueue(t *testing.T) {
	Convey("Queue", t, func() {
		queue := NewQueue()

		Convey("Poll on an empty queue should not block", func() {
			_, ok := queue.Poll()
			So(ok, ShouldBeFalse)
		})

		Convey("Events should come out in push order", func() {
			queue.Push(Event{Kind: ChannelUp})
			queue.Push(Event{Kind: Quit})

			first, ok := queue.Poll()
			So(ok, ShouldBeTrue)
			So(first.Kind, ShouldEqual, ChannelUp)

			second, ok := queue.Poll()
			So(ok, ShouldBeTrue)
			So(second.Kind, ShouldEqual, Quit)
		})

		Convey("Push on a full queue should drop instead of blocking", func() {
			for i := 0; i < queueCapacity*2; i++ {
				queue.Push(Event{Kind: ChannelUp})
			}

			drained := 0
			for {
				if _, ok := queue.Poll(); !ok {
					break
				}
				drained++
			}
			So(drained, ShouldEqual, queueCapacity)
		})
	})
}
