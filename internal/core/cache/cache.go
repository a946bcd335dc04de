// Package cache keeps decoded chance definitions in memory so hot chances are
// not re-read and re-decoded on every evaluation.
package cache

import (
	"fmt"
	"time"

	"github.com/maypok86/otter"

	"github.com/solatis/chancekeeper/internal/core/metrics"
	"github.com/solatis/chancekeeper/internal/rules"
)

// ChanceCache maps normalized chance names to decoded chances using otter's
// S3-FIFO cache. Entries expire after the configured TTL so definitions
// written by other instances are picked up eventually.
//
// Cached chances are shared between goroutines and must not be mutated.
type ChanceCache struct {
	store otter.Cache[string, *rules.Chance]
}

// New returns a cache holding at most capacity chances for ttl each.
func New(capacity int, ttl time.Duration) (*ChanceCache, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("cache capacity must be positive, got %d", capacity)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("cache ttl must be positive, got %s", ttl)
	}

	store, err := otter.MustBuilder[string, *rules.Chance](capacity).
		WithTTL(ttl).
		Build()
	if err != nil {
		return nil, err
	}

	return &ChanceCache{store: store}, nil
}

// Get returns the cached chance for name.
func (c *ChanceCache) Get(name string) (*rules.Chance, bool) {
	chance, ok := c.store.Get(name)
	if ok {
		metrics.CacheHits.Inc()
	} else {
		metrics.CacheMisses.Inc()
	}
	return chance, ok
}

// Set caches chance under name.
func (c *ChanceCache) Set(name string, chance *rules.Chance) {
	c.store.Set(name, chance)
}

// Invalidate drops name from the cache.
func (c *ChanceCache) Invalidate(name string) {
	c.store.Delete(name)
	metrics.CacheInvalidations.Inc()
}

// Len returns the number of cached chances.
func (c *ChanceCache) Len() int {
	return c.store.Size()
}

// Close stops the cache's background goroutines.
func (c *ChanceCache) Close() {
	c.store.Close()
}
