package selector

import (
	"errors"
	"sort"
	"strings"
)

// ErrEmptyList is returned when a policy is asked to select from nothing.
var ErrEmptyList = errors.New("selector: empty item list")

// Order derives the sequential playthrough ordering: items with a parsed
// SxxEyy pair ascending by (season, episode), then everything else
// alphabetically. The ordering is re-derived from list content alone, so the
// persisted cursor stays meaningful as long as the list is unchanged.
func Order(items []string) []string {
	ordered := make([]string, len(items))
	copy(ordered, items)

	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ParseEpisode(ordered[i]), ParseEpisode(ordered[j])

		switch {
		case a.IsPresent() && b.IsPresent():
			ea, eb := a.MustGet(), b.MustGet()
			if ea.Season != eb.Season {
				return ea.Season < eb.Season
			}
			return ea.Number < eb.Number
		case a.IsPresent():
			return true
		case b.IsPresent():
			return false
		default:
			return strings.ToLower(ordered[i]) < strings.ToLower(ordered[j])
		}
	})

	return ordered
}

// NextSequential returns the item at the cursor within the derived ordering
// and the advanced cursor, wrapping to 0 past the last item. The cycle is
// infinite and strictly periodic.
func NextSequential(items []string, cursor int) (string, int, error) {
	if len(items) == 0 {
		return "", 0, ErrEmptyList
	}

	ordered := Order(items)
	if cursor < 0 || cursor >= len(ordered) {
		// A stale cursor (library shrank since last persist) restarts the cycle.
		cursor = 0
	}

	return ordered[cursor], (cursor + 1) % len(ordered), nil
}
