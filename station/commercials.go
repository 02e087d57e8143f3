package station

import (
	"math/rand"

	"github.com/CinkadeusBG/LCARSTV/catalog"
	"github.com/CinkadeusBG/LCARSTV/selector"
)

// poolKey is the shared catalog cache key for the commercial pool. All
// channels draw from the same catalog entry.
const poolKey = "commercials"

// Pool supplies commercial items for break replacement, backed by the shared
// catalog entry. A nil or directory-less pool disables insertion entirely.
type Pool struct {
	store      *catalog.Store
	dir        string
	extensions []string
	rng        *rand.Rand
}

// NewPool returns a pool over dir. An empty dir yields a disabled pool.
func NewPool(store *catalog.Store, dir string, extensions []string, rng *rand.Rand) *Pool {
	return &Pool{store: store, dir: dir, extensions: extensions, rng: rng}
}

// Enabled reports whether commercial insertion is configured.
func (p *Pool) Enabled() bool {
	return p != nil && p.dir != ""
}

// Pick selects a random commercial, avoiding the items already played within
// the current block. The exclusion relaxes rather than stalls when the pool
// is smaller than the block. Returns selector.ErrEmptyList for an empty pool.
func (p *Pool) Pick(played []string) (string, error) {
	items, err := p.store.GetOrScan(poolKey, []string{p.dir}, p.extensions)
	if err != nil {
		return "", err
	}

	pick, _, err := selector.PickRandom(items, played, len(played), p.rng)
	return pick, err
}
