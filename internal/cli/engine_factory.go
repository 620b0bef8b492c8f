package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/weatherbot"
	"github.com/aretw0/weatherbot/internal/config"
	"github.com/aretw0/weatherbot/pkg/adapters/memory"
	"github.com/aretw0/weatherbot/pkg/adapters/openweather"
	"github.com/aretw0/weatherbot/pkg/adapters/redis"
	"github.com/aretw0/weatherbot/pkg/observability"
	"github.com/aretw0/weatherbot/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Stack is a fully wired bot plus the pieces the transports expose.
type Stack struct {
	Bot       *weatherbot.Bot
	Collector *observability.Collector
	Registry  *prometheus.Registry

	// MaxInputBytes bounds the user input the HTTP and MCP transports accept.
	MaxInputBytes int

	closers []func() error
}

// Close releases external connections (the redis client, when configured).
func (s *Stack) Close() error {
	var first error
	for _, c := range s.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// stackOption lets tests swap the provider without a network.
type stackOption func(*[]weatherbot.Option)

func withProvider(p ports.WeatherProvider) stackOption {
	return func(opts *[]weatherbot.Option) {
		*opts = append(*opts, weatherbot.WithProvider(p))
	}
}

// createStack initializes a Bot from the configuration with standard conventions:
// a redis cache when an address is set, an in-process cache otherwise, and
// counters registered on a fresh Prometheus registry.
func createStack(ctx context.Context, cfg config.Config, logger *slog.Logger, extra ...stackOption) (*Stack, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	s := &Stack{
		Collector:     observability.NewCollector(reg),
		Registry:      reg,
		MaxInputBytes: cfg.Chat.MaxInputBytes,
	}

	if cfg.Weather.APIKey == "" {
		logger.Warn("No weather API key configured; lookups will fail", "env", config.EnvWeatherKey)
	}

	opts := []weatherbot.Option{
		weatherbot.WithAPIKey(cfg.Weather.APIKey),
		weatherbot.WithWeatherOptions(
			openweather.WithBaseURL(cfg.Weather.BaseURL),
			openweather.WithLanguage(cfg.Weather.Language),
			openweather.WithTimeout(cfg.Weather.Timeout.Std()),
		),
		weatherbot.WithMetrics(s.Collector),
		weatherbot.WithLogger(logger),
		weatherbot.WithLifecycleHooks(observability.NewLogHooks(logger)),
	}
	if d := cfg.Weather.Timeout.Std(); d > 0 {
		// The engine deadline would otherwise cap the configured client timeout.
		opts = append(opts, weatherbot.WithLookupTimeout(d))
	}

	cache, err := createCache(ctx, cfg.Cache, logger, s)
	if err != nil {
		return nil, err
	}
	if cache != nil {
		opts = append(opts, weatherbot.WithCache(cache, cfg.Cache.TTL.Std()))
	}

	for _, o := range extra {
		o(&opts)
	}

	s.Bot = weatherbot.New(opts...)
	return s, nil
}

func createCache(ctx context.Context, cfg config.CacheConfig, logger *slog.Logger, s *Stack) (ports.WeatherCache, error) {
	if cfg.TTL.Std() <= 0 {
		logger.Info("Weather cache disabled")
		return nil, nil
	}
	if cfg.RedisAddr == "" {
		logger.Info("Using in-process weather cache", "ttl", cfg.TTL.Std())
		return memory.NewCache(), nil
	}

	cache := redis.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := cache.Ping(pingCtx); err != nil {
		cache.Close()
		return nil, fmt.Errorf("redis at %s: %w", cfg.RedisAddr, err)
	}
	s.closers = append(s.closers, cache.Close)
	logger.Info("Using redis weather cache", "addr", cfg.RedisAddr, "ttl", cfg.TTL.Std())
	return cache, nil
}
