package tasks

import "sync"

// DedupCache maps content hash → remote media id for the lifetime of one
// run. Entries are inserted at most once per hash, first writer wins, and
// never removed.
//
// The cache only prevents a redundant upload for hashes already resolved by
// an earlier completed unit. Two units carrying identical content that race
// through their first upload concurrently will both upload; the cache then
// decides which id wins in program state. Upload-exactly-once is not
// guaranteed under that race.
type DedupCache struct {
	mu  sync.Mutex
	ids map[string]string
}

// NewDedupCache creates an empty cache.
func NewDedupCache() *DedupCache {
	return &DedupCache{ids: make(map[string]string)}
}

// Lookup returns the media id recorded for the hash, if any.
func (c *DedupCache) Lookup(hash string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id, ok := c.ids[hash]
	return id, ok
}

// RecordIfAbsent inserts hash → mediaID unless another writer got there
// first. Returns true if this call inserted the entry; false means the
// caller lost the race and must treat the pre-existing id as canonical for
// dedup bookkeeping.
func (c *DedupCache) RecordIfAbsent(hash, mediaID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.ids[hash]; ok {
		return false
	}
	c.ids[hash] = mediaID
	return true
}

// Len returns the number of distinct hashes recorded.
func (c *DedupCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.ids)
}
