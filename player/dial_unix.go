//go:build !windows

package player

import (
	"net"
	"time"
)

// dial opens the Unix domain socket created by mpv's --input-ipc-server.
// net.Conn supports read deadlines, so pre-command draining is enabled.
func dial(path string) (transport, bool, error) {
	conn, err := net.DialTimeout("unix", path, 250*time.Millisecond)
	if err != nil {
		return nil, false, err
	}
	return conn, true, nil
}
