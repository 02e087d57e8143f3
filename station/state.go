package station

import (
	"github.com/CinkadeusBG/LCARSTV/filesystem"
	"github.com/CinkadeusBG/LCARSTV/log"
	"github.com/CinkadeusBG/LCARSTV/where"
	"github.com/metafates/gache"
)

// ChannelState is the persisted playback position of one channel, written
// after every transition so a restart resumes the lineup where it left off.
type ChannelState struct {
	// SequentialIndex is the cursor into the derived sequential ordering.
	SequentialIndex int `json:"sequential_index"`

	// CurrentItem is the absolute path of the item last loaded.
	CurrentItem string `json:"current_item"`

	// HandledBreaks holds the start timestamps of breaks already replaced
	// within CurrentItem. Reset on every item change.
	HandledBreaks []float64 `json:"handled_breaks"`

	// Recent holds the last selections under random order, newest last,
	// bounded by the cooldown length.
	Recent []string `json:"recent"`
}

// stateFile is the persisted wire format, one record per call sign key.
type stateFile struct {
	Version  int                      `json:"version"`
	Channels map[string]*ChannelState `json:"channels"`
}

const stateVersion = 1

// StateStore is the disk-backed registry of per-channel playback state.
// Corrupt or missing state degrades to a fresh start, never a crash.
type StateStore struct {
	cacher *gache.Cache[*stateFile]
}

// NewStateStore returns a store over the default state file location.
func NewStateStore() *StateStore {
	return NewStateStoreAt(where.State())
}

// NewStateStoreAt returns a store over an explicit path.
func NewStateStoreAt(path string) *StateStore {
	return &StateStore{
		cacher: gache.New[*stateFile](&gache.Options{
			Path:       path,
			FileSystem: &filesystem.GacheFs{},
		}),
	}
}

// Get returns the state for a call sign, zero-valued when none is recorded.
func (s *StateStore) Get(callSign string) *ChannelState {
	file := s.read()
	if state, ok := file.Channels[callSign]; ok && state != nil {
		return state
	}
	return &ChannelState{}
}

// Put records the state for a call sign and persists the whole file.
func (s *StateStore) Put(callSign string, state *ChannelState) error {
	file := s.read()
	file.Channels[callSign] = state
	return s.cacher.Set(file)
}

func (s *StateStore) read() *stateFile {
	cached, expired, err := s.cacher.Get()
	if err != nil {
		log.Warnf("channel state unreadable, starting fresh: %s", err)
	}
	if err != nil || expired || cached == nil || cached.Version != stateVersion || cached.Channels == nil {
		return &stateFile{Version: stateVersion, Channels: make(map[string]*ChannelState)}
	}
	return cached
}
