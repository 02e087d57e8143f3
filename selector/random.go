package selector

import (
	"math/rand"

	"github.com/CinkadeusBG/LCARSTV/util"
	"github.com/samber/lo"
)

// PickRandom selects uniformly from items outside the recent cooldown window.
// recent holds prior selections oldest-first; only its last cooldown entries
// exclude candidates. When every item is cooling down (library of size N with
// N <= cooldown) the cooldown is relaxed to the full set, so selection always
// makes forward progress.
//
// Pure with respect to (items, recent) given the rng: returns the pick and
// the updated recent list, trimmed to the cooldown length.
func PickRandom(items []string, recent []string, cooldown int, rng *rand.Rand) (string, []string, error) {
	if len(items) == 0 {
		return "", recent, ErrEmptyList
	}
	cooldown = util.Max(cooldown, 0)

	window := recent
	if len(window) > cooldown {
		window = window[len(window)-cooldown:]
	}

	candidates := lo.Filter(items, func(item string, _ int) bool {
		return !lo.Contains(window, item)
	})
	if len(candidates) == 0 {
		candidates = items
	}

	pick := candidates[rng.Intn(len(candidates))]

	updated := append(append([]string(nil), window...), pick)
	if len(updated) > cooldown {
		updated = updated[len(updated)-cooldown:]
	}
	return pick, updated, nil
}
