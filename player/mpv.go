package player

import (
	"encoding/json"
	"fmt"
	"os/exec"
	"time"

	"github.com/CinkadeusBG/LCARSTV/key"
	"github.com/CinkadeusBG/LCARSTV/log"
	"github.com/CinkadeusBG/LCARSTV/where"
	"github.com/spf13/viper"
)

// MPV launches and supervises a single mpv process, controlling it through
// the JSON-IPC Conn. The process idles between items; item changes go through
// Load rather than process restarts.
type MPV struct {
	endpoint string
	exe      string
	cmd      *exec.Cmd
	exited   chan struct{}
	conn     *Conn
}

// NewMPV creates a player supervisor (does not start the process).
func NewMPV() *MPV {
	return &MPV{
		endpoint: where.Socket(),
		exe:      viper.GetString(key.PlayerExecutable),
		exited:   make(chan struct{}),
	}
}

// Conn returns the control channel client. Valid after Start.
func (m *MPV) Conn() *Conn {
	return m.conn
}

// Start launches mpv idle and controllable via IPC, then connects the control
// channel. The connect timeout is generous because mpv creates its listener
// late in its own startup.
func (m *MPV) Start() error {
	if m.cmd != nil {
		return nil
	}

	args := []string{
		"--idle=yes",
		"--force-window=yes",
		"--no-terminal",
		"--really-quiet",
		"--audio-display=no",
		"--keep-open=no",
		fmt.Sprintf("--input-ipc-server=%s", m.endpoint),
	}

	m.cmd = exec.Command(m.exe, args...)
	m.cmd.SysProcAttr = sysProcAttr()
	m.cmd.Stdin = nil
	m.cmd.Stdout = nil
	m.cmd.Stderr = nil

	if err := m.cmd.Start(); err != nil {
		m.cmd = nil
		return fmt.Errorf("start %s: %w", m.exe, err)
	}

	// Reap the process so it never zombies.
	m.exited = make(chan struct{})
	go func(cmd *exec.Cmd) {
		_ = cmd.Wait()
		close(m.exited)
	}(m.cmd)

	m.conn = NewConn(m.endpoint)
	timeout := time.Duration(viper.GetInt(key.PlayerConnectTimeout)) * time.Second
	if err := m.conn.Connect(timeout); err != nil {
		select {
		case <-m.exited:
			// Already gone; nothing to kill.
		default:
			log.Warnf("killing %s: control channel never became ready", m.exe)
			_ = killProcess(m.cmd)
		}
		m.cmd = nil
		return err
	}

	log.Infof("player started, control channel at %s", m.endpoint)
	return nil
}

// Wait returns a channel that is closed when the player process exits.
func (m *MPV) Wait() <-chan struct{} {
	return m.exited
}

// Load replaces the current media with the given file and seeks to the start
// offset. Loads get a long timeout; mpv stalls on slow storage spin-up.
func (m *MPV) Load(path string, startSec float64) error {
	if startSec < 0 {
		startSec = 0
	}

	if _, err := m.conn.CallTimeout(10*time.Second, "loadfile", path, "replace"); err != nil {
		return err
	}
	if startSec > 0 {
		if _, err := m.conn.CallTimeout(10*time.Second, "seek", startSec, "absolute", "exact"); err != nil {
			return err
		}
	}
	return nil
}

// Seek moves playback to an absolute position in seconds.
func (m *MPV) Seek(seconds float64) error {
	_, err := m.conn.Call("seek", seconds, "absolute", "exact")
	return err
}

// Stop unloads the current media and returns the player to idle.
func (m *MPV) Stop() error {
	_, err := m.conn.Call("stop")
	return err
}

// ShowText flashes OSD text, used for the channel banner on tune.
func (m *MPV) ShowText(text string, duration time.Duration) error {
	_, err := m.conn.Call("show-text", text, duration.Milliseconds())
	return err
}

// Path returns the path of the currently loaded media, or "" when idle.
func (m *MPV) Path() (string, error) {
	raw, err := m.conn.Call("get_property", "path")
	if err != nil {
		if IsUnavailable(err) {
			return "", nil
		}
		return "", err
	}
	var p string
	if err := json.Unmarshal(raw, &p); err != nil {
		return "", &CommandError{Method: "get_property path", Code: "unexpected value type"}
	}
	return p, nil
}

// Close shuts the player down: graceful quit over IPC, then a bounded wait,
// then a hard kill. Closing the connection unblocks any in-flight read.
func (m *MPV) Close() error {
	if m.conn != nil && m.conn.Connected() {
		_, _ = m.conn.CallTimeout(time.Second, "quit")
	}

	if m.cmd != nil {
		select {
		case <-m.exited:
		case <-time.After(3 * time.Second):
			_ = killProcess(m.cmd)
		}
		m.cmd = nil
	}

	if m.conn != nil {
		_ = m.conn.Close()
		m.conn = nil
	}
	return nil
}
