package player

import (
	"encoding/json"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

// countingCaller fakes the transport and counts underlying calls per property.
type countingCaller struct {
	calls  map[string]int
	values map[string]string
}

func (c *countingCaller) Call(method string, args ...any) (json.RawMessage, error) {
	name := args[0].(string)
	c.calls[name]++
	return json.RawMessage(c.values[name]), nil
}

func TestPropertyCache(t *testing.T) {
	Convey("Given a property cache with a fixed clock", t, func() {
		caller := &countingCaller{
			calls: map[string]int{},
			values: map[string]string{
				"time-pos":    "17.25",
				"eof-reached": "false",
			},
		}
		cache := NewPropertyCacheTTL(caller, 250*time.Millisecond)

		now := time.Unix(1000, 0)
		cache.now = func() time.Time { return now }

		Convey("Two reads within the TTL should cost one underlying call", func() {
			first, err := cache.Float("time-pos")
			So(err, ShouldBeNil)
			So(first, ShouldEqual, 17.25)

			now = now.Add(100 * time.Millisecond)
			second, err := cache.Float("time-pos")
			So(err, ShouldBeNil)
			So(second, ShouldEqual, 17.25)

			So(caller.calls["time-pos"], ShouldEqual, 1)
		})

		Convey("A read after TTL expiry should issue exactly one fresh call", func() {
			_, _ = cache.Float("time-pos")
			now = now.Add(300 * time.Millisecond)
			_, _ = cache.Float("time-pos")

			So(caller.calls["time-pos"], ShouldEqual, 2)
		})

		Convey("Distinct keys should be cached independently", func() {
			_, _ = cache.Float("time-pos")
			eof, err := cache.Bool("eof-reached")
			So(err, ShouldBeNil)
			So(eof, ShouldBeFalse)

			So(caller.calls["time-pos"], ShouldEqual, 1)
			So(caller.calls["eof-reached"], ShouldEqual, 1)
		})

		Convey("InvalidateAll should force fresh calls for every key", func() {
			_, _ = cache.Float("time-pos")
			_, _ = cache.Bool("eof-reached")

			cache.InvalidateAll()

			_, _ = cache.Float("time-pos")
			_, _ = cache.Bool("eof-reached")

			So(caller.calls["time-pos"], ShouldEqual, 2)
			So(caller.calls["eof-reached"], ShouldEqual, 2)
		})
	})
}
