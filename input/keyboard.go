package input

import (
	"bytes"
	"os"

	"github.com/CinkadeusBG/LCARSTV/log"
	"golang.org/x/term"
)

// Escape sequences for the navigation keys, as emitted by common terminals.
var (
	seqUp       = []byte("\x1b[A")
	seqDown     = []byte("\x1b[B")
	seqPageUp   = []byte("\x1b[5~")
	seqPageDown = []byte("\x1b[6~")
)

// Decode maps one raw keyboard read to a control event. Unrecognized input
// is ignored rather than erroring; the terminal is a noisy source.
func Decode(buf []byte) (Event, bool) {
	if len(buf) == 0 {
		return Event{}, false
	}

	switch {
	case buf[0] == 'q', buf[0] == 'Q', buf[0] == 0x03:
		// 0x03 is Ctrl-C, delivered as a byte in raw mode.
		return Event{Kind: Quit}, true
	case buf[0] == '+', buf[0] == 'k':
		return Event{Kind: ChannelUp}, true
	case buf[0] == '-', buf[0] == 'j':
		return Event{Kind: ChannelDown}, true
	case bytes.Equal(buf, seqUp), bytes.Equal(buf, seqPageUp):
		return Event{Kind: ChannelUp}, true
	case bytes.Equal(buf, seqDown), bytes.Equal(buf, seqPageDown):
		return Event{Kind: ChannelDown}, true
	}
	return Event{}, false
}

// ListenKeyboard puts the terminal into raw mode and feeds decoded key events
// into the queue from a background reader. The returned restore function
// resets the terminal; the reader itself ends with the process.
func ListenKeyboard(queue *Queue) (restore func(), err error) {
	fd := int(os.Stdin.Fd())

	state, err := term.MakeRaw(fd)
	if err != nil {
		return nil, err
	}

	go func() {
		buf := make([]byte, 8)
		for {
			n, err := os.Stdin.Read(buf)
			if err != nil {
				log.Warnf("keyboard reader stopped: %s", err)
				return
			}
			if event, ok := Decode(buf[:n]); ok {
				queue.Push(event)
			}
		}
	}()

	return func() {
		_ = term.Restore(fd, state)
	}, nil
}
