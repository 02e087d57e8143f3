package player

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/CinkadeusBG/LCARSTV/key"
	"github.com/CinkadeusBG/LCARSTV/log"
	"github.com/spf13/viper"
)

const (
	readChunkSize = 4096
	// maxBufferedBytes guards the undecoded remainder. If that much data
	// accumulates without a complete line, the buffer is corrupt junk and
	// gets cleared rather than grow without bound.
	maxBufferedBytes = 16 * 1024
	// drainMessageBudget caps how many backlogged messages a single drain
	// pass decodes, so a pathological burst cannot stall the next command.
	drainMessageBudget = 50
)

// transport is the platform duplex stream to the player process.
type transport interface {
	io.ReadWriteCloser
	SetReadDeadline(t time.Time) error
}

// command is the outbound JSON-IPC request frame.
type command struct {
	Command   []any `json:"command"`
	RequestID int64 `json:"request_id"`
}

// inbound is the decoded shape of any message the player sends: a response
// (request_id set) or an unsolicited event (event set, no request_id).
type inbound struct {
	RequestID int64           `json:"request_id"`
	Error     string          `json:"error"`
	Data      json.RawMessage `json:"data"`
	Event     string          `json:"event"`
}

// Conn is the duplex control-channel client. One persistent connection,
// synchronous request/response with request-id correlation, and a bounded
// ring of unsolicited events demultiplexed off the same stream.
//
// Draining and chunked reads are the load-bearing properties here: without
// them, hours of accumulated property-change notifications sit in front of
// every response and call latency grows with uptime.
type Conn struct {
	path      string
	tr        transport
	drainable bool
	trace     bool

	nextID  int64
	readBuf []byte
	events  eventRing
	latency latencyWindow

	mu sync.Mutex
}

// NewConn creates a client for the given endpoint path without connecting.
func NewConn(path string) *Conn {
	return &Conn{
		path:  path,
		trace: viper.GetBool(key.PlayerIPCTrace),
	}
}

// Connect opens the control channel, retrying with backoff until the timeout
// elapses. The timeout is deliberately generous: the player process may still
// be initializing its listener well after its own startup.
func (c *Conn) Connect(timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	var lastErr error

	for attempt := 0; time.Now().Before(deadline); attempt++ {
		tr, drainable, err := dial(c.path)
		if err == nil {
			c.tr = tr
			c.drainable = drainable
			c.readBuf = nil
			log.Debugf("ipc: connected to %s", c.path)
			return nil
		}
		lastErr = err

		// Fast retries first; the endpoint usually appears within a second.
		switch {
		case attempt < 3:
			time.Sleep(50 * time.Millisecond)
		case attempt < 10:
			time.Sleep(100 * time.Millisecond)
		default:
			time.Sleep(200 * time.Millisecond)
		}
	}

	if lastErr == nil {
		lastErr = errors.New("connect timeout")
	}
	return &ConnectionError{Path: c.path, Err: lastErr}
}

// Connected reports whether a transport is currently open.
func (c *Conn) Connected() bool {
	return c.tr != nil
}

// Close shuts the transport down, unblocking any in-flight read.
func (c *Conn) Close() error {
	if c.tr == nil {
		return nil
	}
	err := c.tr.Close()
	c.tr = nil
	return err
}

// Call sends a command and waits for its matching response using the
// configured default call timeout.
func (c *Conn) Call(method string, args ...any) (json.RawMessage, error) {
	timeout := time.Duration(viper.GetInt(key.PlayerCallTimeout)) * time.Second
	return c.CallTimeout(timeout, method, args...)
}

// CallTimeout sends a command and waits for the response carrying the same
// request id. Unsolicited events read along the way go to the event ring;
// responses to other (timed out) requests are discarded.
func (c *Conn) CallTimeout(timeout time.Duration, method string, args ...any) (json.RawMessage, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.tr == nil {
		return nil, &ConnectionError{Path: c.path, Err: errors.New("not connected")}
	}

	// Clear any backlog sitting in the read side so the response we are
	// about to wait for is not queued behind stale notifications.
	c.drain()

	c.nextID++
	id := c.nextID

	payload, err := json.Marshal(command{Command: append([]any{method}, args...), RequestID: id})
	if err != nil {
		return nil, fmt.Errorf("marshal command: %w", err)
	}
	if c.trace {
		log.Tracef("ipc >>> %s", payload)
	}

	start := time.Now()
	if _, err := c.tr.Write(append(payload, '\n')); err != nil {
		return nil, &ConnectionError{Path: c.path, Err: fmt.Errorf("write: %w", err)}
	}

	deadline := start.Add(timeout)
	for {
		if resp, ok, _ := c.decodeLines(id); ok {
			elapsed := time.Since(start)
			c.latency.record(elapsed)
			if elapsed > slowCallThreshold {
				log.Warnf("ipc: slow call %s (%s, avg %s)", method, elapsed, c.latency.average())
			}
			if c.trace {
				log.Tracef("ipc <<< id=%d error=%q data=%s", id, resp.Error, resp.Data)
			}
			if resp.Error != "" && resp.Error != "success" {
				return nil, &CommandError{Method: method, Code: resp.Error}
			}
			return resp.Data, nil
		}

		if !time.Now().Before(deadline) {
			return nil, &TimeoutError{Method: method, Elapsed: time.Since(start)}
		}

		_ = c.tr.SetReadDeadline(deadline)
		chunk := make([]byte, readChunkSize)
		n, err := c.tr.Read(chunk)
		if n > 0 {
			c.readBuf = append(c.readBuf, chunk[:n]...)
		}
		if err != nil {
			if errors.Is(err, os.ErrDeadlineExceeded) {
				return nil, &TimeoutError{Method: method, Elapsed: time.Since(start)}
			}
			return nil, &ConnectionError{Path: c.path, Err: fmt.Errorf("read: %w", err)}
		}
	}
}

// PollEvent returns the oldest buffered unsolicited event, if any. Non-blocking.
func (c *Conn) PollEvent() (Event, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.events.pop()
}

// BufferedEvents returns the number of unsolicited events currently held.
func (c *Conn) BufferedEvents() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.events.len()
}

// AverageLatency returns the rolling mean duration of recent calls.
func (c *Conn) AverageLatency() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.latency.average()
}

// drain soaks up whatever is already buffered on the read side, ring-buffering
// events and dropping orphan responses. Reads are non-blocking: an immediate
// deadline makes Read return instantly when nothing is pending. Transports
// without deadlines (named pipes) skip draining entirely.
func (c *Conn) drain() {
	if !c.drainable {
		return
	}

	decoded := 0
	for decoded < drainMessageBudget {
		_ = c.tr.SetReadDeadline(time.Now())
		chunk := make([]byte, readChunkSize)
		n, err := c.tr.Read(chunk)
		if n > 0 {
			c.readBuf = append(c.readBuf, chunk[:n]...)
			_, _, consumed := c.decodeLines(0)
			decoded += consumed
		}
		if err != nil {
			// Deadline exceeded means the backlog is empty. Anything else
			// will resurface on the upcoming call's own read.
			return
		}
	}
}

// decodeLines consumes complete newline-terminated frames from the read
// buffer. Events are pushed to the ring; a response matching targetID is
// returned; all other responses are dropped. targetID 0 matches nothing.
func (c *Conn) decodeLines(targetID int64) (inbound, bool, int) {
	consumed := 0
	for {
		idx := bytes.IndexByte(c.readBuf, '\n')
		if idx < 0 {
			if len(c.readBuf) > maxBufferedBytes {
				log.Warnf("ipc: clearing oversized read buffer (%d bytes, no frame boundary)", len(c.readBuf))
				c.readBuf = nil
			}
			return inbound{}, false, consumed
		}

		line := bytes.TrimSpace(c.readBuf[:idx])
		c.readBuf = c.readBuf[idx+1:]
		if len(line) == 0 {
			continue
		}

		var msg inbound
		if err := json.Unmarshal(line, &msg); err != nil {
			continue
		}
		consumed++

		if msg.Event != "" {
			c.events.push(Event{Kind: msg.Event, Payload: append(json.RawMessage(nil), line...)})
			continue
		}
		if targetID != 0 && msg.RequestID == targetID {
			return msg, true, consumed
		}
		// Response for a request that already timed out. Drop it.
	}
}
