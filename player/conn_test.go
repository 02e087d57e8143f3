//go:build !windows

package player

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"path/filepath"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

// fakePlayer is a scripted mpv stand-in on a real Unix socket. For every
// decoded command it asks the handler for raw lines to write back, which lets
// tests interleave events and foreign responses ahead of the real response.
type fakePlayer struct {
	listener net.Listener
	handler  func(method string, id int64) []string
}

func newFakePlayer(t *testing.T, handler func(method string, id int64) []string) string {
	t.Helper()
	endpoint := filepath.Join(t.TempDir(), "mpv.sock")

	listener, err := net.Listen("unix", endpoint)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = listener.Close() })

	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			go func(conn net.Conn) {
				defer conn.Close()
				scanner := bufio.NewScanner(conn)
				for scanner.Scan() {
					var cmd struct {
						Command   []any `json:"command"`
						RequestID int64 `json:"request_id"`
					}
					if err := json.Unmarshal(scanner.Bytes(), &cmd); err != nil || len(cmd.Command) == 0 {
						continue
					}
					method, _ := cmd.Command[0].(string)
					for _, line := range handler(method, cmd.RequestID) {
						_, _ = conn.Write([]byte(line + "\n"))
					}
				}
			}(conn)
		}
	}()

	return endpoint
}

func response(id int64, data string) string {
	return fmt.Sprintf(`{"request_id":%d,"error":"success","data":%s}`, id, data)
}

func TestConnCall(t *testing.T) {
	Convey("Given a connected control channel", t, func() {
		Convey("Call should return the response matching its own id", func() {
			endpoint := newFakePlayer(t, func(method string, id int64) []string {
				// Unrelated noise first: events and a foreign response.
				return []string{
					`{"event":"property-change","name":"time-pos","data":12.5}`,
					response(id+1000, `"wrong"`),
					`{"event":"seek"}`,
					response(id, `42.5`),
				}
			})
			conn := NewConn(endpoint)
			So(conn.Connect(time.Second), ShouldBeNil)
			defer conn.Close()

			data, err := conn.Call("get_property", "time-pos")
			So(err, ShouldBeNil)
			So(string(data), ShouldEqual, "42.5")

			Convey("And the interleaved events should be buffered in order", func() {
				evt, ok := conn.PollEvent()
				So(ok, ShouldBeTrue)
				So(evt.Kind, ShouldEqual, "property-change")

				evt, ok = conn.PollEvent()
				So(ok, ShouldBeTrue)
				So(evt.Kind, ShouldEqual, "seek")

				_, ok = conn.PollEvent()
				So(ok, ShouldBeFalse)
			})
		})

		Convey("Call should surface the player's error code", func() {
			endpoint := newFakePlayer(t, func(method string, id int64) []string {
				return []string{fmt.Sprintf(`{"request_id":%d,"error":"property unavailable"}`, id)}
			})
			conn := NewConn(endpoint)
			So(conn.Connect(time.Second), ShouldBeNil)
			defer conn.Close()

			_, err := conn.Call("get_property", "eof-reached")
			So(err, ShouldNotBeNil)

			var cmdErr *CommandError
			So(err, ShouldHaveSameTypeAs, cmdErr)
			So(IsUnavailable(err), ShouldBeTrue)
		})

		Convey("Call should time out when no response ever arrives", func() {
			endpoint := newFakePlayer(t, func(method string, id int64) []string {
				return nil
			})
			conn := NewConn(endpoint)
			So(conn.Connect(time.Second), ShouldBeNil)
			defer conn.Close()

			_, err := conn.CallTimeout(100*time.Millisecond, "get_property", "pause")
			So(err, ShouldNotBeNil)

			var timeoutErr *TimeoutError
			So(err, ShouldHaveSameTypeAs, timeoutErr)
		})
	})
}

func TestConnBacklog(t *testing.T) {
	Convey("Given a player that floods the channel with notifications", t, func() {
		// Every command is answered behind a burst of 500 unsolicited events.
		// Calls must keep matching their own responses and the event ring
		// must stay bounded no matter how many bursts accumulate.
		burst := newFakePlayer(t, func(method string, id int64) []string {
			lines := make([]string, 0, 501)
			for i := 0; i < 500; i++ {
				lines = append(lines, `{"event":"property-change","name":"time-pos","data":1.0}`)
			}
			return append(lines, response(id, `7.0`))
		})
		noisy := NewConn(burst)
		So(noisy.Connect(time.Second), ShouldBeNil)
		defer noisy.Close()

		for i := 0; i < 5; i++ {
			data, err := noisy.Call("get_property", "time-pos")
			So(err, ShouldBeNil)
			So(string(data), ShouldEqual, "7.0")
		}

		Convey("The event ring should stay at its fixed capacity", func() {
			So(noisy.BufferedEvents(), ShouldBeLessThanOrEqualTo, eventRingCapacity)
		})

		Convey("The rolling latency average should be tracked", func() {
			So(noisy.AverageLatency(), ShouldBeGreaterThan, 0)
		})
	})
}

func TestConnConnect(t *testing.T) {
	Convey("Connect", t, func() {
		Convey("Should fail with ConnectionError when the endpoint does not exist", func() {
			conn := NewConn(filepath.Join(t.TempDir(), "missing.sock"))
			err := conn.Connect(200 * time.Millisecond)
			So(err, ShouldNotBeNil)

			var connErr *ConnectionError
			So(err, ShouldHaveSameTypeAs, connErr)
			So(conn.Connected(), ShouldBeFalse)
		})
	})
}

func TestEventRing(t *testing.T) {
	Convey("eventRing", t, func() {
		var ring eventRing

		Convey("Should discard oldest first when full", func() {
			for i := 0; i < eventRingCapacity+10; i++ {
				ring.push(Event{Kind: fmt.Sprintf("evt-%d", i)})
			}
			So(ring.len(), ShouldEqual, eventRingCapacity)

			evt, ok := ring.pop()
			So(ok, ShouldBeTrue)
			So(evt.Kind, ShouldEqual, "evt-10")
		})
	})
}
