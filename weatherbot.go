package weatherbot

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/weatherbot/internal/runtime"
	"github.com/aretw0/weatherbot/pkg/adapters/openweather"
	"github.com/aretw0/weatherbot/pkg/domain"
	"github.com/aretw0/weatherbot/pkg/observability"
	"github.com/aretw0/weatherbot/pkg/ports"
	"github.com/aretw0/weatherbot/pkg/weather/middleware"
)

// Bot is the high-level entry point for the weather bot library.
// It wires the dialog engine, the weather provider and the counters together.
type Bot struct {
	engine   *runtime.Engine
	provider ports.WeatherProvider
	metrics  *observability.Collector
	logger   *slog.Logger

	apiKey        string
	weatherOpts   []openweather.Option
	cache         ports.WeatherCache
	cacheTTL      time.Duration
	hooks         []domain.LifecycleHooks
	lookupTimeout time.Duration
}

// Option defines a functional option for configuring the Bot.
type Option func(*Bot)

// WithAPIKey sets the OpenWeatherMap key. Without it every lookup fails with a retry prompt.
func WithAPIKey(key string) Option {
	return func(b *Bot) {
		b.apiKey = key
	}
}

// WithWeatherOptions passes options to the default OpenWeatherMap client.
func WithWeatherOptions(opts ...openweather.Option) Option {
	return func(b *Bot) {
		b.weatherOpts = append(b.weatherOpts, opts...)
	}
}

// WithProvider injects a custom WeatherProvider, bypassing the OpenWeatherMap client.
func WithProvider(p ports.WeatherProvider) Option {
	return func(b *Bot) {
		b.provider = p
	}
}

// WithCache serves repeated lookups of a city from cache for ttl.
func WithCache(cache ports.WeatherCache, ttl time.Duration) Option {
	return func(b *Bot) {
		b.cache = cache
		b.cacheTTL = ttl
	}
}

// WithMetrics shares a Collector, e.g. one registered on a Prometheus registry.
func WithMetrics(c *observability.Collector) Option {
	return func(b *Bot) {
		b.metrics = c
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bot) {
		b.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks. May be given more than once.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(b *Bot) {
		b.hooks = append(b.hooks, hooks)
	}
}

// WithLookupTimeout bounds every lookup made by the engine.
func WithLookupTimeout(d time.Duration) Option {
	return func(b *Bot) {
		b.lookupTimeout = d
	}
}

// New initializes a Bot. With no options it talks to OpenWeatherMap without a key,
// which is valid: lookups then fail in character.
func New(opts ...Option) *Bot {
	b := &Bot{lookupTimeout: runtime.DefaultLookupTimeout}
	for _, opt := range opts {
		opt(b)
	}

	if b.logger == nil {
		b.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	if b.metrics == nil {
		b.metrics = observability.NewCollector(nil)
	}
	if b.provider == nil {
		clientOpts := append([]openweather.Option{openweather.WithLogger(b.logger)}, b.weatherOpts...)
		b.provider = openweather.New(b.apiKey, clientOpts...)
	}
	if b.cache != nil {
		b.provider = middleware.NewCacheMiddleware(middleware.CacheConfig{
			Cache:  b.cache,
			TTL:    b.cacheTTL,
			Logger: b.logger,
		})(b.provider)
	}

	b.engine = runtime.NewEngine(b.provider,
		runtime.WithMetrics(b.metrics),
		runtime.WithLogger(b.logger),
		runtime.WithLookupTimeout(b.lookupTimeout),
		runtime.WithLifecycleHooks(observability.MergeHooks(b.hooks...)),
	)
	return b
}

var _ ports.DialogEngine = (*Bot)(nil)

// Transition runs a single turn. See runtime.Engine.Transition.
func (b *Bot) Transition(ctx context.Context, req domain.TransitionRequest) (domain.TransitionResult, error) {
	return b.engine.Transition(ctx, req)
}

// Lookup queries the configured provider directly, cache included, outside any conversation.
// It feeds the same counters as a lookup made during a turn.
func (b *Bot) Lookup(ctx context.Context, city string) (domain.WeatherSnapshot, error) {
	start := time.Now()
	snapshot, err := b.provider.Lookup(ctx, city)
	b.metrics.IncWeatherQueries()
	b.metrics.ObserveLookup(err == nil, time.Since(start))
	if err != nil {
		b.metrics.IncErrors()
	}
	return snapshot, err
}

// Metrics returns the counters fed by this bot.
func (b *Bot) Metrics() *observability.Collector {
	return b.metrics
}
