// Package insightcache keeps generated artist insights in memory so repeat
// lookups skip the Spotify and LLM round trips.
package insightcache

import (
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto/v2"

	"github.com/ewilliams-labs/typetune/internal/core/domain"
)

// Cache is a TTL-bounded ristretto cache. Every entry costs 1, so MaxCost is
// the entry limit.
type Cache struct {
	store *ristretto.Cache[string, domain.ArtistInsight]
	ttl   time.Duration
}

// New creates a cache holding up to maxEntries insights for ttl each.
func New(maxEntries int64, ttl time.Duration) (*Cache, error) {
	if maxEntries < 1 {
		maxEntries = 1
	}
	store, err := ristretto.NewCache(&ristretto.Config[string, domain.ArtistInsight]{
		NumCounters: maxEntries * 10,
		MaxCost:     maxEntries,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("insightcache: create: %w", err)
	}
	return &Cache{store: store, ttl: ttl}, nil
}

func (c *Cache) Get(trackID string) (domain.ArtistInsight, bool) {
	return c.store.Get(trackID)
}

// Set stores the insight. Writes are buffered; callers needing read-after-write
// should call Wait.
func (c *Cache) Set(trackID string, insight domain.ArtistInsight) {
	c.store.SetWithTTL(trackID, insight, 1, c.ttl)
}

// Wait blocks until buffered writes are applied.
func (c *Cache) Wait() {
	c.store.Wait()
}

func (c *Cache) Close() {
	c.store.Close()
}
