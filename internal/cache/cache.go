// Package cache provides a simple in-memory concurrency-safe key-value
// store for team member lists, with optional expiration. The approval
// evaluator uses one instance per run to resolve each code-owner team
// only once, no matter how many files it owns.
package cache

import (
	"sync"
	"time"
)

// Cache is an in-memory concurrency-safe key-value store for
// team member lists, with optional expiration.
type Cache struct {
	mu   sync.RWMutex
	data map[string]Item

	defaultExpiration time.Duration
}

// Item represents a single cache item, with its value and expiration time.
// An Expiration of zero means the item never expires.
type Item struct {
	Value      []string
	Expiration time.Time
}

// Expired checks if the item is expired.
func (i *Item) Expired() bool {
	if i.Expiration.IsZero() {
		return false
	}
	return time.Now().After(i.Expiration)
}

const (
	DefaultExpiration time.Duration = 0
	NoCleanup         time.Duration = 0 // For use in [New] only.
	NoExpiration      time.Duration = -1
)

// New creates a new [Cache] instance.
func New(defaultExpiration, _ time.Duration) *Cache {
	if defaultExpiration <= DefaultExpiration {
		defaultExpiration = NoExpiration
	}

	return &Cache{
		data:              make(map[string]Item),
		defaultExpiration: defaultExpiration,
	}
}

// Del removes a specified item from the cache. If the item does not exist, this is a no-op.
func (c *Cache) Del(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.data, key)
}

// Get retrieves a value from the cache, and also returns a boolean indicating if it was
// found and not expired. It also handles lazy expiration (deleting expired items).
//
// A cached nil value is a meaningful negative result (an unresolvable
// team), so callers must check the boolean, not the slice.
func (c *Cache) Get(key string) ([]string, bool) {
	item, ok := c.Item(key)
	return item.Value, ok
}

// Item retrieves a copy of an [Item] from the cache, and also returns a boolean indicating
// if it was found and not expired. It also handles lazy expiration (deleting expired items).
func (c *Cache) Item(key string) (Item, bool) {
	c.mu.RLock()
	item, ok := c.data[key]
	c.mu.RUnlock()

	if !ok {
		return Item{}, false
	}

	if item.Expired() {
		c.Del(key)
		return Item{}, false
	}

	return item, true
}

func (c *Cache) expirationTime(ttl time.Duration) time.Time {
	if ttl == DefaultExpiration {
		ttl = c.defaultExpiration
	}
	if ttl > DefaultExpiration {
		return time.Now().Add(ttl)
	}
	return time.Time{}
}

// Set adds a value to the cache with an optional Time-To-Live duration
// until it expires (see also [DefaultExpiration] and [NoExpiration]).
// Note that any negative TTL value is treated as [NoExpiration].
func (c *Cache) Set(key string, value []string, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data[key] = Item{
		Value:      value,
		Expiration: c.expirationTime(ttl),
	}
}

// Add adds a value to the cache only if the key does not already exist
// or is expired. It returns true if the item was added, false otherwise.
// Note that any negative TTL value is treated as [NoExpiration].
func (c *Cache) Add(key string, value []string, ttl time.Duration) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if item, ok := c.data[key]; ok && !item.Expired() {
		return false
	}

	c.data[key] = Item{
		Value:      value,
		Expiration: c.expirationTime(ttl),
	}
	return true
}

// ItemCount returns the number of unexpired items in the cache.
// This is different from [Len], which returns the total number
// of items, including expired-but-still-present ones.
func (c *Cache) ItemCount() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	count := 0
	for _, item := range c.data {
		if !item.Expired() {
			count++
		}
	}
	return count
}

// Len returns the total number of items in the cache,
// including expired-but-still-present ones.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.data)
}
