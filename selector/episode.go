// Package selector implements the pure item-selection policies for a channel:
// sequential playthrough with wraparound and random selection with cooldown.
package selector

import (
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/CinkadeusBG/LCARSTV/util"
	"github.com/samber/mo"
)

// episodePattern matches "S<digits>E<digits>" anywhere in a filename, case-insensitive.
var episodePattern = regexp.MustCompile(`(?i)s(?P<season>\d+)e(?P<episode>\d+)`)

// Episode is a season/episode pair parsed from a filename.
type Episode struct {
	Season int
	Number int
}

// ParseEpisode extracts the season/episode pair from the file's base name.
// Returns None for files that carry no recognizable pattern.
func ParseEpisode(path string) mo.Option[Episode] {
	groups := util.ReGroups(episodePattern, filepath.Base(path))
	if len(groups) == 0 {
		return mo.None[Episode]()
	}

	season, err := strconv.Atoi(groups["season"])
	if err != nil {
		return mo.None[Episode]()
	}
	number, err := strconv.Atoi(groups["episode"])
	if err != nil {
		return mo.None[Episode]()
	}

	return mo.Some(Episode{Season: season, Number: number})
}
