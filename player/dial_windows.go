//go:build windows

package player

import (
	"os"
	"time"
)

// pipeTransport wraps the duplex file handle of a Windows named pipe.
// File handles have no read deadlines, so draining is disabled: named pipes
// do not accumulate an async backlog the way Unix sockets do.
type pipeTransport struct {
	*os.File
}

func (pipeTransport) SetReadDeadline(time.Time) error {
	return nil
}

// dial opens the named pipe created by mpv's --input-ipc-server.
func dial(path string) (transport, bool, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, false, err
	}
	return pipeTransport{f}, false, nil
}
