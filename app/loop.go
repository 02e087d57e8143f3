// Package app runs the cooperative main loop: one thread of control that
// drains input events and ticks the active channel scheduler.
package app

import (
	"errors"
	"time"

	"github.com/CinkadeusBG/LCARSTV/input"
	"github.com/CinkadeusBG/LCARSTV/key"
	"github.com/CinkadeusBG/LCARSTV/log"
	"github.com/spf13/viper"
)

// ErrPlayerExited reports that the controlled player process died out from
// under the loop.
var ErrPlayerExited = errors.New("player process exited")

// Station is the zapping and scheduling surface the loop drives.
type Station interface {
	Up() error
	Down() error
	Tick(now time.Time)
}

// Loop is the single thread of control. Every iteration drains all pending
// input first, so zapping latency is bounded by the sleep interval no matter
// how expensive scheduler ticks get; the scheduler only runs when its own
// interval has elapsed.
type Loop struct {
	Station Station
	Input   *input.Queue

	// Done signals that the player process exited; the loop stops with
	// ErrPlayerExited. Nil disables the check.
	Done <-chan struct{}

	// Sleep is the per-iteration floor, Tick the scheduler cadence.
	// Zero values are filled from configuration by Run.
	Sleep time.Duration
	Tick  time.Duration

	lastTick time.Time
}

// New builds a loop with the configured cadence.
func New(station Station, queue *input.Queue, done <-chan struct{}) *Loop {
	return &Loop{
		Station: station,
		Input:   queue,
		Done:    done,
		Sleep:   time.Duration(viper.GetInt(key.LoopSleepMs)) * time.Millisecond,
		Tick:    time.Duration(viper.GetInt(key.LoopTickMs)) * time.Millisecond,
	}
}

// Run iterates until a quit event arrives or the player dies.
func (l *Loop) Run() error {
	for {
		if quit := l.iterate(time.Now()); quit {
			return nil
		}

		select {
		case <-l.Done:
			return ErrPlayerExited
		default:
		}

		time.Sleep(l.Sleep)
	}
}

// iterate performs one loop pass: drain every pending input event, then tick
// the scheduler if due. Reports whether a quit was requested.
func (l *Loop) iterate(now time.Time) bool {
	for {
		event, ok := l.Input.Poll()
		if !ok {
			break
		}

		switch event.Kind {
		case input.Quit:
			return true
		case input.ChannelUp:
			if err := l.Station.Up(); err != nil {
				log.Errorf("channel up failed: %s", err)
			}
		case input.ChannelDown:
			if err := l.Station.Down(); err != nil {
				log.Errorf("channel down failed: %s", err)
			}
		}
	}

	if now.Sub(l.lastTick) >= l.Tick {
		l.lastTick = now
		l.Station.Tick(now)
	}
	return false
}
