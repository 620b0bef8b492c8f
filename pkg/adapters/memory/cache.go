package memory

import (
	"context"
	"sync"
	"time"

	"github.com/aretw0/weatherbot/pkg/domain"
	"github.com/aretw0/weatherbot/pkg/ports"
)

type entry struct {
	snapshot  domain.WeatherSnapshot
	expiresAt time.Time // zero means never
}

// Cache implements ports.WeatherCache in memory.
// Safe for concurrent use.
type Cache struct {
	data      map[string]entry
	mu        sync.RWMutex
	now       func() time.Time
	lastSweep time.Time
}

// SweepInterval is the minimum time between two passes that drop expired entries.
// Sweeps run inside Set, so a cache nobody writes to never sweeps.
const SweepInterval = 30 * time.Second

var _ ports.WeatherCache = (*Cache)(nil)

// NewCache creates a new in-memory cache.
func NewCache() *Cache {
	return &Cache{
		data:      make(map[string]entry),
		now:       time.Now,
		lastSweep: time.Now(),
	}
}

// NewCacheWithClock is NewCache with an injectable clock, for tests.
func NewCacheWithClock(now func() time.Time) *Cache {
	c := NewCache()
	c.now = now
	c.lastSweep = now()
	return c
}

// Get retrieves a snapshot. Expired entries are evicted lazily.
func (c *Cache) Get(ctx context.Context, key string) (domain.WeatherSnapshot, error) {
	c.mu.RLock()
	e, ok := c.data[key]
	c.mu.RUnlock()

	if !ok {
		return domain.WeatherSnapshot{}, domain.ErrCacheMiss
	}
	if !e.expiresAt.IsZero() && !c.now().Before(e.expiresAt) {
		c.mu.Lock()
		if cur, ok := c.data[key]; ok && cur.expiresAt.Equal(e.expiresAt) {
			delete(c.data, key)
		}
		c.mu.Unlock()
		return domain.WeatherSnapshot{}, domain.ErrCacheMiss
	}
	return e.snapshot, nil
}

// Set stores the snapshot. WeatherSnapshot holds no references, so storing by value isolates it.
func (c *Cache) Set(ctx context.Context, key string, snapshot domain.WeatherSnapshot, ttl time.Duration) error {
	now := c.now()
	e := entry{snapshot: snapshot}
	if ttl > 0 {
		e.expiresAt = now.Add(ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if now.Sub(c.lastSweep) >= SweepInterval {
		c.sweep(now)
	}
	c.data[key] = e
	return nil
}

// sweep drops every expired entry. Callers hold the write lock.
func (c *Cache) sweep(now time.Time) {
	for k, e := range c.data {
		if !e.expiresAt.IsZero() && !now.Before(e.expiresAt) {
			delete(c.data, k)
		}
	}
	c.lastSweep = now
}

// Len returns the number of stored entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}
