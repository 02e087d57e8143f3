// Package station implements the TV-channel layer: the channel lineup,
// per-channel playback scheduling with commercial insertion, persisted
// channel state and zapping between channels.
package station

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/CinkadeusBG/LCARSTV/filesystem"
	"github.com/CinkadeusBG/LCARSTV/log"
)

// Selection policies a channel can run.
const (
	OrderSequential = "sequential"
	OrderRandom     = "random"
)

// Channel is one lineup entry: a call sign, the directories holding its
// media, and the selection policy cycling through them.
type Channel struct {
	CallSign string   `json:"call_sign"`
	Name     string   `json:"name"`
	Dirs     []string `json:"dirs"`
	Order    string   `json:"order"`
}

// Key returns the channel's catalog cache key.
func (c Channel) Key() string {
	return strings.ToLower(c.CallSign)
}

// lineupFile is the channels.json wire format.
type lineupFile struct {
	Version  int       `json:"version"`
	Channels []Channel `json:"channels"`
}

// lineupVersion is the channels.json format version this build understands.
const lineupVersion = 1

// LoadLineup reads and validates the channel lineup definition. Entries with
// no call sign or no media directories are dropped with a warning; an unknown
// selection order falls back to sequential. An empty resulting lineup is an
// error, there is nothing to play.
func LoadLineup(path string) ([]Channel, error) {
	raw, err := filesystem.API().ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read channel lineup %q: %w", path, err)
	}

	var file lineupFile
	if err := json.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("parse channel lineup %q: %w", path, err)
	}
	if file.Version != lineupVersion {
		return nil, fmt.Errorf("channel lineup %q: unsupported version %d", path, file.Version)
	}

	channels := make([]Channel, 0, len(file.Channels))
	seen := make(map[string]bool)
	for _, ch := range file.Channels {
		switch {
		case ch.CallSign == "":
			log.Warnf("channel lineup: dropping entry with empty call sign")
			continue
		case len(ch.Dirs) == 0:
			log.Warnf("channel lineup: dropping %s: no media directories", ch.CallSign)
			continue
		case seen[ch.Key()]:
			log.Warnf("channel lineup: dropping duplicate call sign %s", ch.CallSign)
			continue
		}

		if ch.Order != OrderSequential && ch.Order != OrderRandom {
			if ch.Order != "" {
				log.Warnf("channel %s: unknown order %q, using sequential", ch.CallSign, ch.Order)
			}
			ch.Order = OrderSequential
		}
		if ch.Name == "" {
			ch.Name = ch.CallSign
		}

		seen[ch.Key()] = true
		channels = append(channels, ch)
	}

	if len(channels) == 0 {
		return nil, errors.New("channel lineup: no usable channels")
	}
	return channels, nil
}
