package player

import "encoding/json"

// Event is an unsolicited notification from the player: a message carrying an
// "event" field and no request_id. Events are diagnostic and best-effort; the
// scheduler's own polling never depends on them.
type Event struct {
	Kind    string
	Payload json.RawMessage
}

// eventRingCapacity bounds the unsolicited event backlog. Oldest events are
// discarded first; correctness never depends on seeing every event.
const eventRingCapacity = 100

// eventRing is a fixed-capacity ring buffer of Events.
type eventRing struct {
	buf  [eventRingCapacity]Event
	head int
	size int
}

// push appends an event, overwriting the oldest when full.
func (r *eventRing) push(e Event) {
	if r.size < len(r.buf) {
		r.buf[(r.head+r.size)%len(r.buf)] = e
		r.size++
		return
	}
	r.buf[r.head] = e
	r.head = (r.head + 1) % len(r.buf)
}

// pop removes and returns the oldest buffered event.
func (r *eventRing) pop() (Event, bool) {
	if r.size == 0 {
		return Event{}, false
	}
	e := r.buf[r.head]
	r.buf[r.head] = Event{}
	r.head = (r.head + 1) % len(r.buf)
	r.size--
	return e, true
}

func (r *eventRing) len() int {
	return r.size
}
