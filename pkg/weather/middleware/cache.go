package middleware

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/aretw0/weatherbot/pkg/domain"
	"github.com/aretw0/weatherbot/pkg/ports"
)

// CacheConfig configures the caching middleware.
type CacheConfig struct {
	Cache  ports.WeatherCache
	TTL    time.Duration
	Logger *slog.Logger
}

type cacheMiddleware struct {
	next   ports.WeatherProvider
	config CacheConfig
}

// NewCacheMiddleware serves repeated lookups of the same city from cache.
// Only successful lookups are stored. Cache failures are logged and bypassed,
// so a broken cache never turns into a failed lookup.
func NewCacheMiddleware(config CacheConfig) Middleware {
	if config.Cache == nil {
		panic("cache middleware requires a WeatherCache")
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return func(next ports.WeatherProvider) ports.WeatherProvider {
		return &cacheMiddleware{next: next, config: config}
	}
}

// CacheKey normalizes a city name so "Lisboa" and " lisboa " share an entry.
func CacheKey(city string) string {
	return strings.ToLower(strings.Join(strings.Fields(city), " "))
}

func (m *cacheMiddleware) Lookup(ctx context.Context, city string) (domain.WeatherSnapshot, error) {
	key := CacheKey(city)
	if key == "" {
		return m.next.Lookup(ctx, city)
	}

	snapshot, err := m.config.Cache.Get(ctx, key)
	if err == nil {
		m.config.Logger.Debug("weather cache hit", "city", city)
		return snapshot, nil
	}
	if !errors.Is(err, domain.ErrCacheMiss) {
		m.config.Logger.Warn("weather cache read failed", "city", city, "error", err)
	}

	snapshot, err = m.next.Lookup(ctx, city)
	if err != nil {
		return snapshot, err
	}

	if err := m.config.Cache.Set(ctx, key, snapshot, m.config.TTL); err != nil {
		m.config.Logger.Warn("weather cache write failed", "city", city, "error", err)
	}
	return snapshot, nil
}
