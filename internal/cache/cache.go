// Package cache provides a TTL-expiring in-memory result cache with lazily
// evaluated expiry: entries past their TTL are dropped on access rather than
// by a background sweeper.
package cache

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// DefaultTTL is how long a cached API response stays fresh.
const DefaultTTL = 24 * time.Hour

// Cache is a thin wrapper over go-cache configured for lazy expiry
// (no janitor goroutine).
type Cache struct {
	store *gocache.Cache
	ttl   time.Duration
}

// New builds a cache with the given TTL. A non-positive TTL falls back to
// DefaultTTL.
func New(ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	// Cleanup interval 0 disables the janitor; expired entries are evicted
	// on read.
	return &Cache{store: gocache.New(ttl, 0), ttl: ttl}
}

// Key derives a stable cache key from an operation name and its arguments.
// Keyword-style arguments should be passed as "name=value" strings so that
// callers can sort-normalize them; positional arguments are hashed in order.
func Key(op string, args ...string) string {
	sorted := make([]string, len(args))
	copy(sorted, args)
	sort.Strings(sorted)
	h := md5.Sum([]byte(op + ":" + strings.Join(sorted, "|")))
	return op + ":" + hex.EncodeToString(h[:])
}

// KV formats one keyword argument for Key.
func KV(name string, value any) string {
	return fmt.Sprintf("%s=%v", name, value)
}

// Get returns the cached value for key, or false if absent or expired.
func (c *Cache) Get(key string) (any, bool) {
	return c.store.Get(key)
}

// Set stores value under key with the cache's TTL.
func (c *Cache) Set(key string, value any) {
	c.store.Set(key, value, c.ttl)
}

// SetWithTTL stores value under key with an explicit TTL.
func (c *Cache) SetWithTTL(key string, value any, ttl time.Duration) {
	c.store.Set(key, value, ttl)
}

// Delete removes one entry.
func (c *Cache) Delete(key string) {
	c.store.Delete(key)
}

// Clear removes all entries.
func (c *Cache) Clear() {
	c.store.Flush()
}

// Len reports the number of live entries, counting not-yet-evicted expired
// ones the way the underlying store does.
func (c *Cache) Len() int {
	return c.store.ItemCount()
}
