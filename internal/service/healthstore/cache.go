package healthstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/whaeuser/healthterm/internal/model"
	"github.com/whaeuser/healthterm/internal/service/metrics"
)

// CacheConfig is the configuration of the caching provider.
type CacheConfig struct {
	// TTL is how long cache entries remain valid.
	TTL time.Duration
	// MaxSize is the maximum number of cache entries.
	MaxSize int
	// Now is the clock, used for testing.
	Now func() time.Time
	// MetricsRecorder records the cache hits and misses.
	MetricsRecorder metrics.Recorder
}

func (c *CacheConfig) defaults() {
	if c.TTL <= 0 {
		c.TTL = 30 * time.Second
	}
	if c.MaxSize <= 0 {
		c.MaxSize = 100
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.MetricsRecorder == nil {
		c.MetricsRecorder = metrics.Dummy
	}
}

// cacheEntry holds a cached query result with expiration.
type cacheEntry struct {
	value      float64
	categories []model.CategorySample
	created    time.Time
	expires    time.Time
}

// Cache is a Provider that caches the successful query results of the
// wrapped provider. Entries are keyed by the window start and the day of
// the window end, so a query repeated in the same window during the TTL
// reuses the last result even if the window end moved forward in the day.
type Cache struct {
	Provider
	cfg CacheConfig

	mu      sync.Mutex
	entries map[string]*cacheEntry
}

// NewCache returns a caching provider wrapping next.
func NewCache(cfg CacheConfig, next Provider) *Cache {
	cfg.defaults()

	return &Cache{
		Provider: next,
		cfg:      cfg,
		entries:  map[string]*cacheEntry{},
	}
}

// Statistic satisfies Querier interface.
func (c *Cache) Statistic(ctx context.Context, st model.SampleType, w model.TimeWindow, kind model.AggregationKind) (float64, error) {
	key := c.key("statistic", st, string(kind), w)
	if e, ok := c.get(key); ok {
		return e.value, nil
	}

	v, err := c.Provider.Statistic(ctx, st, w, kind)
	if err != nil {
		return 0, err
	}
	c.set(key, &cacheEntry{value: v})

	return v, nil
}

// CategorySamples satisfies Querier interface.
func (c *Cache) CategorySamples(ctx context.Context, st model.SampleType, w model.TimeWindow) ([]model.CategorySample, error) {
	key := c.key("category", st, "", w)
	if e, ok := c.get(key); ok {
		return e.categories, nil
	}

	samples, err := c.Provider.CategorySamples(ctx, st, w)
	if err != nil {
		return nil, err
	}
	c.set(key, &cacheEntry{categories: samples})

	return samples, nil
}

func (c *Cache) key(op string, st model.SampleType, kind string, w model.TimeWindow) string {
	return fmt.Sprintf("%s:%s:%s:%s:%d:%s", c.Provider.ID(), op, st, kind, w.Start.UnixNano(), w.End.Format("2006-01-02"))
}

func (c *Cache) get(key string) (*cacheEntry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		if c.cfg.Now().Before(e.expires) {
			c.cfg.MetricsRecorder.IncProviderCacheLookup(c.Provider.ID(), true)
			return e, true
		}
		delete(c.entries, key)
	}

	c.cfg.MetricsRecorder.IncProviderCacheLookup(c.Provider.ID(), false)
	return nil, false
}

func (c *Cache) set(key string, e *cacheEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.cfg.Now()
	e.created = now
	e.expires = now.Add(c.cfg.TTL)

	if _, ok := c.entries[key]; !ok && len(c.entries) >= c.cfg.MaxSize {
		c.evict(now)
	}
	c.entries[key] = e
}

// evict removes the expired entries, if none is expired it removes the
// oldest one.
func (c *Cache) evict(now time.Time) {
	var oldestKey string
	var oldest time.Time
	removed := false
	for k, e := range c.entries {
		if !now.Before(e.expires) {
			delete(c.entries, k)
			removed = true
			continue
		}
		if oldestKey == "" || e.created.Before(oldest) {
			oldestKey = k
			oldest = e.created
		}
	}

	if !removed && oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}
