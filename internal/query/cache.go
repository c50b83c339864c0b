package query

import (
	"sync"
	"time"
)

// Cache is the client-side store of fetched server views, indexed by
// [Key]. It is constructed once at application startup and injected into
// everything that reads or writes cached data; there is no package-level
// instance.
//
// Stored values are treated as immutable: writers install a replacement
// value, never edit the stored one in place. That makes Snapshot a cheap
// header copy instead of a deep clone.
type Cache struct {
	mu      sync.Mutex
	entries map[Key]entry
}

type entry struct {
	value     any
	stale     bool
	updatedAt time.Time
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[Key]entry)}
}

// Get returns the cached value for key. ok is false when the key has
// never been set or was dropped.
func (c *Cache) Get(key Key) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}

	return e.value, true
}

// Stale reports whether key is present but marked stale. Missing keys
// are not stale; they are absent.
func (c *Cache) Stale(key Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]

	return ok && e.stale
}

// Set installs a fresh value for key, clearing any stale mark.
func (c *Cache) Set(key Key, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry{value: value, updatedAt: time.Now()}
}

// MarkStale flags each present key as stale so readers refetch before
// trusting it. Absent keys are skipped; there is nothing to flag.
func (c *Cache) MarkStale(keys ...Key) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, key := range keys {
		e, ok := c.entries[key]
		if !ok {
			continue
		}

		e.stale = true
		c.entries[key] = e
	}
}

// Drop removes key entirely.
func (c *Cache) Drop(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// Snapshot is the tagged pre-mutation state of one cache entry, threaded
// from the start of an optimistic mutation to its completion handler.
// The zero value is the "no snapshot" variant: Restore of it is a no-op,
// which is what a mutation with rollback disabled threads through.
type Snapshot struct {
	key     Key
	value   any
	present bool
	taken   bool
}

// Taken reports whether this snapshot captured anything.
func (s Snapshot) Taken() bool {
	return s.taken
}

// Snapshot captures the current state of key, including its absence, so
// Restore can put the entry back exactly as it was.
func (c *Cache) Snapshot(key Key) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]

	return Snapshot{key: key, value: e.value, present: ok, taken: true}
}

// Restore reverts key to the snapshotted state. Restoring a zero
// Snapshot does nothing.
func (c *Cache) Restore(s Snapshot) {
	if !s.taken {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !s.present {
		delete(c.entries, s.key)

		return
	}

	c.entries[s.key] = entry{value: s.value, updatedAt: time.Now()}
}
