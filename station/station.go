package station

import (
	"fmt"
	"strings"
	"time"

	"github.com/CinkadeusBG/LCARSTV/color"
	"github.com/CinkadeusBG/LCARSTV/log"
	"github.com/CinkadeusBG/LCARSTV/style"
	"github.com/CinkadeusBG/LCARSTV/util"
	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
)

// bannerDuration is how long the channel banner stays on screen after a tune.
const bannerDuration = 4 * time.Second

// Station owns the channel lineup and the one active scheduler, and handles
// zapping between channels. Exactly one channel plays at a time; tuning away
// persists the old channel's state so tuning back resumes it.
type Station struct {
	channels []Channel
	deps     Deps
	tuning   Tuning

	active    int
	scheduler *Scheduler
}

// New builds a station over a validated lineup.
func New(channels []Channel, deps Deps, tuning Tuning) *Station {
	return &Station{channels: channels, deps: deps, tuning: tuning}
}

// Active returns the channel currently tuned in.
func (s *Station) Active() Channel {
	return s.channels[s.active]
}

// Start tunes the first channel of the lineup.
func (s *Station) Start() error {
	return s.tune(0)
}

// Up zaps to the next channel, wrapping past the end of the lineup.
func (s *Station) Up() error {
	return s.tune((s.active + 1) % len(s.channels))
}

// Down zaps to the previous channel, wrapping past the start of the lineup.
func (s *Station) Down() error {
	return s.tune((s.active - 1 + len(s.channels)) % len(s.channels))
}

// TuneTo zaps to a channel by call sign or name: exact match first, then a
// fuzzy match. An unknown name errors with the closest call sign suggested.
func (s *Station) TuneTo(name string) error {
	needle := strings.ToLower(name)

	for i, ch := range s.channels {
		if strings.ToLower(ch.CallSign) == needle || strings.ToLower(ch.Name) == needle {
			return s.tune(i)
		}
	}

	callSigns := lo.Map(s.channels, func(ch Channel, _ int) string {
		return ch.CallSign
	})
	if ranks := fuzzy.RankFindNormalizedFold(name, callSigns); len(ranks) > 0 {
		return s.tune(ranks[0].OriginalIndex)
	}

	return fmt.Errorf("no channel %q, closest is %s", name, closest(needle, callSigns))
}

// Tick forwards the periodic tick to the active scheduler.
func (s *Station) Tick(now time.Time) {
	if s.scheduler != nil {
		s.scheduler.Tick(now)
	}
}

func (s *Station) tune(index int) error {
	s.active = index
	s.scheduler = NewScheduler(s.channels[index], s.deps, s.tuning)

	if err := s.scheduler.Start(); err != nil {
		return err
	}

	s.banner()
	return nil
}

// banner flashes the channel identity on the player OSD and the terminal.
func (s *Station) banner() {
	ch := s.Active()

	osd := fmt.Sprintf("%s  %s", ch.CallSign, ch.Name)
	if err := s.deps.Player.ShowText(osd, bannerDuration); err != nil {
		log.Warnf("channel banner failed: %s", err)
	}

	sign := style.Colored(color.Black, color.HiYellow).Bold(true).Padding(0, 1).Render(ch.CallSign)
	line := sign + " " + style.Faint(ch.Name)
	if current := s.scheduler.Current(); current != "" {
		line += style.Faint(" · " + util.FileStem(current))
	}
	fmt.Println(line)
}

// closest returns the call sign with the smallest edit distance to the query.
func closest(needle string, callSigns []string) string {
	best := callSigns[0]
	bestDistance := levenshtein.Distance(needle, strings.ToLower(best))

	for _, candidate := range callSigns[1:] {
		if d := levenshtein.Distance(needle, strings.ToLower(candidate)); d < bestDistance {
			best, bestDistance = candidate, d
		}
	}
	return best
}
