// Package player manages the controlled mpv process and its JSON-IPC control channel.
package player

import (
	"errors"
	"fmt"
	"time"
)

// ConnectionError indicates the control channel endpoint is unavailable or refused within the connect timeout.
type ConnectionError struct {
	Path string
	Err  error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("control channel %q unavailable: %v", e.Path, e.Err)
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// CommandError indicates the player rejected a single command with an error code.
type CommandError struct {
	Method string
	Code   string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command %q failed: %s", e.Method, e.Code)
}

// TimeoutError indicates no matching response arrived within the call timeout.
type TimeoutError struct {
	Method  string
	Elapsed time.Duration
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("command %q timed out after %s", e.Method, e.Elapsed)
}

// IsUnavailable reports whether err is the player's "property unavailable"
// rejection, which signals absent state (nothing loaded) rather than failure.
func IsUnavailable(err error) bool {
	var cmdErr *CommandError
	return errors.As(err, &cmdErr) && cmdErr.Code == "property unavailable"
}
