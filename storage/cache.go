package storage

import (
	"math"
	"sqt/feature"
	"sync"
)

// lruQueryCache is a simple LRU (least recently used) cache for query results keyed by the queried region. It has an
// internal lock and can be used by concurrent readers. The recency of an entry is a counter value that only gets
// updated when the entry is read or written.
type lruQueryCache struct {
	entries     map[string][]feature.Item
	accessTimes map[string]uint64
	clock       uint64
	mutex       *sync.Mutex
	maxSize     int
}

func newLruQueryCache(maxSize int) *lruQueryCache {
	return &lruQueryCache{
		entries:     map[string][]feature.Item{},
		accessTimes: map[string]uint64{},
		mutex:       &sync.Mutex{},
		maxSize:     maxSize,
	}
}

// get returns a copy of the cached result. The boolean is false when the key is not cached.
func (c *lruQueryCache) get(key string) ([]feature.Item, bool) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	items, ok := c.entries[key]
	if !ok {
		return nil, false
	}

	c.touch(key)
	return copyItems(items), true
}

// put stores a copy of the result. The entry unused for the longest time is evicted when the cache is full.
func (c *lruQueryCache) put(key string, items []feature.Item) {
	if c.maxSize <= 0 {
		return
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	if _, ok := c.entries[key]; !ok && len(c.entries) >= c.maxSize {
		longestUnusedKey := c.getMinEntry()
		delete(c.entries, longestUnusedKey)
		delete(c.accessTimes, longestUnusedKey)
	}

	c.entries[key] = copyItems(items)
	c.touch(key)
}

func (c *lruQueryCache) has(key string) bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	_, ok := c.entries[key]
	return ok
}

func (c *lruQueryCache) len() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	return len(c.entries)
}

// invalidate drops all entries. Any mutation of the tree makes all cached results stale.
func (c *lruQueryCache) invalidate() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries = map[string][]feature.Item{}
	c.accessTimes = map[string]uint64{}
}

// touch does NOT lock and is meant for internal use only.
func (c *lruQueryCache) touch(key string) {
	c.clock++
	c.accessTimes[key] = c.clock
}

// getMinEntry returns the key that hasn't been used longest. This function does NOT lock and is meant for internal
// use only.
func (c *lruQueryCache) getMinEntry() string {
	minTimestamp := uint64(math.MaxUint64)
	minKey := ""

	for key, timestamp := range c.accessTimes {
		if timestamp < minTimestamp {
			minTimestamp = timestamp
			minKey = key
		}
	}

	return minKey
}

func copyItems(items []feature.Item) []feature.Item {
	if items == nil {
		return nil
	}
	result := make([]feature.Item, len(items))
	copy(result, items)
	return result
}
