package station

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/CinkadeusBG/LCARSTV/catalog"
	"github.com/CinkadeusBG/LCARSTV/filesystem"
	"github.com/CinkadeusBG/LCARSTV/key"
	"github.com/CinkadeusBG/LCARSTV/log"
	"github.com/CinkadeusBG/LCARSTV/metadata"
	"github.com/CinkadeusBG/LCARSTV/player"
	"github.com/CinkadeusBG/LCARSTV/selector"
	"github.com/spf13/viper"
)

// Controller is the slice of the player the station drives.
type Controller interface {
	Load(path string, startSec float64) error
	ShowText(text string, duration time.Duration) error
}

// Properties is the cached read surface over the control channel.
type Properties interface {
	Float(name string) (float64, error)
	Bool(name string) (bool, error)
	InvalidateAll()
}

// Deps bundles the collaborators a scheduler works against. All of them are
// owned by the single control loop; nothing here is safe for concurrent use.
type Deps struct {
	Player   Controller
	Props    Properties
	Catalogs *catalog.Store
	Breaks   *metadata.Cache
	States   *StateStore
	Pool     *Pool
	Rand     *rand.Rand
}

// Tuning holds the knobs governing selection and break behavior.
type Tuning struct {
	Extensions           []string
	Cooldown             int
	LookaheadSec         float64
	BreakCheckEvery      time.Duration
	DefaultCommercialSec float64
}

// TuningFromConfig reads the tuning from the global configuration.
func TuningFromConfig() Tuning {
	return Tuning{
		Extensions:           viper.GetStringSlice(key.StationExtensions),
		Cooldown:             viper.GetInt(key.StationCooldown),
		LookaheadSec:         float64(viper.GetInt(key.CommercialsLookaheadSec)),
		BreakCheckEvery:      time.Duration(viper.GetInt(key.LoopBreakCheckSec)) * time.Second,
		DefaultCommercialSec: float64(viper.GetInt(key.CommercialsDefaultDurationSec)),
	}
}

type phase int

const (
	phaseIdle phase = iota
	phasePlaying
	phaseCommercial
)

// commercialBlock tracks one in-progress break replacement: which item to
// come back to, where, and how much of the break is still uncovered.
type commercialBlock struct {
	resumeItem string
	resumePos  float64
	remaining  float64
	played     []string

	// currentDur is the reported duration of the commercial now playing,
	// captured opportunistically because the property becomes unavailable
	// once the item ends.
	currentDur float64
}

// Scheduler runs one channel: it keeps something playing forever, advancing
// through the channel's catalog by its selection policy and replacing break
// windows with commercial blocks. All decisions happen inside Tick; the only
// blocking points are the transport calls it makes.
type Scheduler struct {
	channel Channel
	deps    Deps
	tuning  Tuning

	phase          phase
	state          *ChannelState
	lastBreakCheck time.Time
	block          *commercialBlock
}

// NewScheduler builds a scheduler for one channel. Call Start to begin playback.
func NewScheduler(channel Channel, deps Deps, tuning Tuning) *Scheduler {
	return &Scheduler{channel: channel, deps: deps, tuning: tuning}
}

// Channel returns the lineup entry this scheduler runs.
func (s *Scheduler) Channel() Channel {
	return s.channel
}

// Current returns the path of the item this channel is playing, empty before
// Start.
func (s *Scheduler) Current() string {
	if s.state == nil {
		return ""
	}
	return s.state.CurrentItem
}

// Start restores the persisted channel state and begins playback: the
// recorded current item when it still exists, otherwise the next selection.
func (s *Scheduler) Start() error {
	s.state = s.deps.States.Get(s.channel.CallSign)

	if s.state.CurrentItem != "" && s.itemExists(s.state.CurrentItem) {
		return s.load(s.state.CurrentItem, 0)
	}
	return s.advance()
}

// Tick is the single periodic entry point. Transient per-tick failures are
// logged and retried on the next tick; nothing here takes the loop down.
func (s *Scheduler) Tick(now time.Time) {
	switch s.phase {
	case phaseIdle:
		return
	case phaseCommercial:
		s.tickCommercial()
		return
	}

	eof, err := s.eofReached()
	if err != nil {
		log.Warnf("channel %s: eof probe failed: %s", s.channel.CallSign, err)
		return
	}
	if eof {
		if err := s.advance(); err != nil {
			log.Errorf("channel %s: advance failed: %s", s.channel.CallSign, err)
		}
		return
	}

	// Break windows are seconds-wide; checking every tick would waste
	// transport calls on the cheap common case.
	if now.Sub(s.lastBreakCheck) < s.tuning.BreakCheckEvery {
		return
	}
	s.lastBreakCheck = now
	s.checkBreak()
}

// advance selects the next item for the channel and loads it. A catalogued
// file missing from disk invalidates the catalog entry and reselects against
// a fresh scan, bounded so a wiped library cannot loop forever.
func (s *Scheduler) advance() error {
	for attempt := 0; attempt < 3; attempt++ {
		items, err := s.deps.Catalogs.GetOrScan(s.channel.Key(), s.channel.Dirs, s.tuning.Extensions)
		if err != nil {
			return err
		}

		var item string
		switch s.channel.Order {
		case OrderRandom:
			item, s.state.Recent, err = selector.PickRandom(items, s.state.Recent, s.tuning.Cooldown, s.deps.Rand)
		default:
			item, s.state.SequentialIndex, err = selector.NextSequential(items, s.state.SequentialIndex)
		}
		if err != nil {
			return fmt.Errorf("channel %s: %w", s.channel.CallSign, err)
		}

		if !s.itemExists(item) {
			log.Warn(&MissingMediaError{Channel: s.channel.CallSign, Path: item})
			s.deps.Catalogs.Invalidate(s.channel.Key())
			continue
		}

		s.state.CurrentItem = item
		s.state.HandledBreaks = nil
		return s.load(item, 0)
	}

	return fmt.Errorf("channel %s: selection kept hitting missing media", s.channel.CallSign)
}

// load points the player at an item. Stale property values must never inform
// decisions about the new item, so the cache is dropped before the load.
func (s *Scheduler) load(path string, startSec float64) error {
	s.deps.Props.InvalidateAll()
	if err := s.deps.Player.Load(path, startSec); err != nil {
		return err
	}
	s.phase = phasePlaying
	return s.persist()
}

// checkBreak runs the two-stage break evaluation: the cheap lookahead gate
// first, precise boundary evaluation only when a break is near.
func (s *Scheduler) checkBreak() {
	breaks := s.deps.Breaks.Breaks(s.state.CurrentItem)
	if len(breaks) == 0 {
		return
	}

	pos, err := s.deps.Props.Float("time-pos")
	if err != nil {
		if !player.IsUnavailable(err) {
			log.Warnf("channel %s: position probe failed: %s", s.channel.CallSign, err)
		}
		return
	}

	brk, near := metadata.NearWindow(breaks, pos, s.tuning.LookaheadSec, s.state.HandledBreaks)
	if !near || !brk.Contains(pos) {
		return
	}

	if err := s.enterBreak(brk); err != nil {
		log.Warnf("channel %s: entering break at %.1fs failed: %s", s.channel.CallSign, brk.Start, err)
	}
}

// enterBreak marks the break handled and starts the commercial block. The
// marker is recorded even when insertion is skipped, so one break never
// triggers twice within the same item playthrough.
func (s *Scheduler) enterBreak(brk metadata.Break) error {
	s.state.HandledBreaks = append(s.state.HandledBreaks, brk.Start)

	if !s.deps.Pool.Enabled() {
		log.Warnf("channel %s: no commercial pool, skipping break at %.1fs", s.channel.CallSign, brk.Start)
		return s.persist()
	}

	item, err := s.deps.Pool.Pick(nil)
	if err != nil {
		log.Warnf("channel %s: commercial pool empty, skipping break at %.1fs", s.channel.CallSign, brk.Start)
		return s.persist()
	}

	s.deps.Props.InvalidateAll()
	if err := s.deps.Player.Load(item, 0); err != nil {
		return err
	}

	s.block = &commercialBlock{
		resumeItem: s.state.CurrentItem,
		resumePos:  brk.End,
		remaining:  brk.Duration(),
		played:     []string{item},
	}
	s.phase = phaseCommercial
	return s.persist()
}

// tickCommercial drives an in-progress block: charge each finished commercial
// against the break duration, chain another while uncovered time remains,
// then resume the original item at the break end.
func (s *Scheduler) tickCommercial() {
	if s.block.currentDur <= 0 {
		if d, err := s.deps.Props.Float("duration"); err == nil && d > 0 {
			s.block.currentDur = d
		}
	}

	eof, err := s.eofReached()
	if err != nil {
		log.Warnf("channel %s: eof probe failed during block: %s", s.channel.CallSign, err)
		return
	}
	if !eof {
		return
	}

	charged := s.block.currentDur
	if charged <= 0 {
		charged = s.tuning.DefaultCommercialSec
	}
	s.block.remaining -= charged
	s.block.currentDur = 0

	if s.block.remaining <= 0 {
		s.resumeFromBreak()
		return
	}

	item, err := s.deps.Pool.Pick(s.block.played)
	if err != nil {
		log.Warnf("channel %s: commercial pool dried up mid-block: %s", s.channel.CallSign, err)
		s.resumeFromBreak()
		return
	}

	s.deps.Props.InvalidateAll()
	if err := s.deps.Player.Load(item, 0); err != nil {
		log.Warnf("channel %s: commercial load failed: %s", s.channel.CallSign, err)
		s.resumeFromBreak()
		return
	}
	s.block.played = append(s.block.played, item)
}

// resumeFromBreak returns to the interrupted item just past the break window.
func (s *Scheduler) resumeFromBreak() {
	block := s.block
	s.block = nil

	if err := s.load(block.resumeItem, block.resumePos); err != nil {
		log.Errorf("channel %s: resume after break failed: %s", s.channel.CallSign, err)
		s.phase = phasePlaying
	}
}

// eofReached probes end-of-file through the property cache. With keep-open
// disabled the player drops to idle when an item ends, making the property
// unavailable; that reads as end-of-file here.
func (s *Scheduler) eofReached() (bool, error) {
	eof, err := s.deps.Props.Bool("eof-reached")
	if err != nil {
		if player.IsUnavailable(err) {
			return true, nil
		}
		return false, err
	}
	return eof, nil
}

func (s *Scheduler) itemExists(path string) bool {
	exists, err := filesystem.API().Exists(path)
	return err == nil && exists
}

func (s *Scheduler) persist() error {
	return s.deps.States.Put(s.channel.CallSign, s.state)
}
