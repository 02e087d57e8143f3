package player

import (
	"encoding/json"
	"time"

	"github.com/CinkadeusBG/LCARSTV/key"
	"github.com/spf13/viper"
)

// Caller is the slice of the control channel the property cache needs.
type Caller interface {
	Call(method string, args ...any) (json.RawMessage, error)
}

type cachedProperty struct {
	value     json.RawMessage
	fetchedAt time.Time
}

// PropertyCache memoizes frequently-polled idempotent property reads for a
// short TTL, so several logical callers within one tick cost one transport
// call per distinct key. Owned by the single scheduler thread; no locking.
type PropertyCache struct {
	caller  Caller
	ttl     time.Duration
	entries map[string]cachedProperty

	// now is swappable for tests.
	now func() time.Time
}

// NewPropertyCache builds a cache over the given transport using the
// configured TTL.
func NewPropertyCache(caller Caller) *PropertyCache {
	ttl := time.Duration(viper.GetInt(key.PlayerPropertyTTL)) * time.Millisecond
	return NewPropertyCacheTTL(caller, ttl)
}

// NewPropertyCacheTTL builds a cache with an explicit TTL.
func NewPropertyCacheTTL(caller Caller, ttl time.Duration) *PropertyCache {
	return &PropertyCache{
		caller:  caller,
		ttl:     ttl,
		entries: make(map[string]cachedProperty),
		now:     time.Now,
	}
}

// Get returns the property value, issuing at most one underlying call per
// TTL window. Errors are not cached; the next Get retries.
func (p *PropertyCache) Get(name string) (json.RawMessage, error) {
	if entry, ok := p.entries[name]; ok && p.now().Sub(entry.fetchedAt) < p.ttl {
		return entry.value, nil
	}

	value, err := p.caller.Call("get_property", name)
	if err != nil {
		return nil, err
	}
	p.entries[name] = cachedProperty{value: value, fetchedAt: p.now()}
	return value, nil
}

// Float reads a property and decodes it as float64.
func (p *PropertyCache) Float(name string) (float64, error) {
	raw, err := p.Get(name)
	if err != nil {
		return 0, err
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, &CommandError{Method: "get_property " + name, Code: "unexpected value type"}
	}
	return v, nil
}

// Bool reads a property and decodes it as bool.
func (p *PropertyCache) Bool(name string) (bool, error) {
	raw, err := p.Get(name)
	if err != nil {
		return false, err
	}
	var v bool
	if err := json.Unmarshal(raw, &v); err != nil {
		return false, &CommandError{Method: "get_property " + name, Code: "unexpected value type"}
	}
	return v, nil
}

// String reads a property and decodes it as string.
func (p *PropertyCache) String(name string) (string, error) {
	raw, err := p.Get(name)
	if err != nil {
		return "", err
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", &CommandError{Method: "get_property " + name, Code: "unexpected value type"}
	}
	return v, nil
}

// InvalidateAll drops every entry. Called on media change so values from the
// previous item can never leak into decisions about the new one.
func (p *PropertyCache) InvalidateAll() {
	clear(p.entries)
}
