// Package ristretto caches composed prompt markdown in-process, keyed by the
// normalized utterance and IDE context. It implements the cache port.
package ristretto

import (
	"context"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

// expectedEntryBytes sizes the admission counters; composed prompts are
// short markdown documents.
const expectedEntryBytes = 512

// Cache wraps a ristretto cache for composed prompts.
type Cache struct {
	c *ristretto.Cache[string, []byte]
}

// New creates a cache bounded by maxCostBytes of stored values. Admission
// metrics are enabled so the hit ratio can be reported at shutdown.
func New(maxCostBytes int64) (*Cache, error) {
	c, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: maxCostBytes / expectedEntryBytes * 10, // ~10x the expected prompt count
		MaxCost:     maxCostBytes,
		BufferItems: 64,
		Metrics:     true,
	})
	if err != nil {
		return nil, err
	}
	return &Cache{c: c}, nil
}

// Get retrieves a composed prompt from the cache.
func (c *Cache) Get(_ context.Context, key string) (data []byte, ok bool, err error) {
	val, found := c.c.Get(key)
	if !found {
		return nil, false, nil
	}
	return val, true, nil
}

// Set stores a composed prompt, costed by its size, with the given TTL.
func (c *Cache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.c.SetWithTTL(key, value, int64(len(value)), ttl)
	return nil
}

// Delete removes a value from the cache.
func (c *Cache) Delete(_ context.Context, key string) error {
	c.c.Del(key)
	return nil
}

// Wait blocks until buffered writes have been applied. Admission is
// asynchronous; callers that need to observe their own Set use this.
func (c *Cache) Wait() {
	c.c.Wait()
}

// HitRatio reports the fraction of lookups served from the cache.
func (c *Cache) HitRatio() float64 {
	return c.c.Metrics.Ratio()
}

// Close shuts down the cache and releases resources.
func (c *Cache) Close() {
	c.c.Close()
}
