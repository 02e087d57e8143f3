package metadata

import (
	"github.com/CinkadeusBG/LCARSTV/log"
	"github.com/CinkadeusBG/LCARSTV/util"
)

// maxCacheEntries bounds the in-memory break cache. The working set of a
// zapping session is small; when the bound is hit the oldest half is evicted
// in bulk so eviction cost stays amortized.
const maxCacheEntries = 64

// Cache memoizes per-item break lists so each sidecar is read at most once
// while the item stays in the working set. Keys are normalized paths, so the
// same file reached through different separators or casing shares one entry.
type Cache struct {
	entries map[string][]Break
	order   []string
}

func NewCache() *Cache {
	return &Cache{entries: make(map[string][]Break)}
}

// Breaks returns the normalized break list for a media file, loading its
// sidecar on first access. A malformed sidecar is logged once and cached as
// an empty list; playback continues without breaks for that item.
func (c *Cache) Breaks(mediaPath string) []Break {
	key := util.NormPath(mediaPath)
	if breaks, ok := c.entries[key]; ok {
		return breaks
	}

	breaks, err := Load(mediaPath)
	if err != nil {
		log.Warn(err)
		breaks = nil
	}

	if len(c.entries) >= maxCacheEntries {
		c.evictOldest(maxCacheEntries / 2)
	}
	c.entries[key] = breaks
	c.order = append(c.order, key)
	return breaks
}

// Len reports the number of cached items.
func (c *Cache) Len() int {
	return len(c.entries)
}

func (c *Cache) evictOldest(n int) {
	n = util.Min(n, len(c.order))
	for _, key := range c.order[:n] {
		delete(c.entries, key)
	}
	c.order = c.order[n:]
}
