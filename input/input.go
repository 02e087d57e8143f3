// Package input turns keyboard activity into the discrete control events the
// main loop consumes: channel up, channel down, quit.
package input

import (
	"github.com/CinkadeusBG/LCARSTV/log"
)

// Kind enumerates the discrete control events.
type Kind int

const (
	ChannelUp Kind = iota
	ChannelDown
	Quit
)

func (k Kind) String() string {
	switch k {
	case ChannelUp:
		return "channel-up"
	case ChannelDown:
		return "channel-down"
	case Quit:
		return "quit"
	default:
		return "unknown"
	}
}

// Event is one discrete control action.
type Event struct {
	Kind Kind
}

// queueCapacity bounds the hand-off queue. Control events are sparse; a full
// queue means the loop is wedged and dropping the extra zaps is harmless.
const queueCapacity = 16

// Queue is the thread-safe hand-off between event producers and the main
// loop. Producers push without blocking, the loop polls without blocking;
// neither side can wedge the other.
type Queue struct {
	events chan Event
}

func NewQueue() *Queue {
	return &Queue{events: make(chan Event, queueCapacity)}
}

// Push enqueues an event, dropping it when the queue is full.
func (q *Queue) Push(event Event) {
	select {
	case q.events <- event:
	default:
		log.Warnf("input queue full, dropping %s", event.Kind)
	}
}

// Poll dequeues one event without blocking.
func (q *Queue) Poll() (Event, bool) {
	select {
	case event := <-q.events:
		return event, true
	default:
		return Event{}, false
	}
}
