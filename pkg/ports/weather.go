package ports

import (
	"context"
	"time"

	"github.com/aretw0/weatherbot/pkg/domain"
)

// WeatherProvider resolves a city name into a weather snapshot.
// Every failure is reported as a *domain.LookupError.
type WeatherProvider interface {
	Lookup(ctx context.Context, city string) (domain.WeatherSnapshot, error)
}

// WeatherProviderFunc adapts a plain function to WeatherProvider.
type WeatherProviderFunc func(ctx context.Context, city string) (domain.WeatherSnapshot, error)

// Lookup calls f.
func (f WeatherProviderFunc) Lookup(ctx context.Context, city string) (domain.WeatherSnapshot, error) {
	return f(ctx, city)
}

// WeatherCache stores recent snapshots keyed by a normalized city name.
type WeatherCache interface {
	// Get returns domain.ErrCacheMiss when no fresh entry exists.
	Get(ctx context.Context, key string) (domain.WeatherSnapshot, error)

	// Set stores the snapshot for ttl. A zero ttl means no expiration.
	Set(ctx context.Context, key string, snapshot domain.WeatherSnapshot, ttl time.Duration) error
}
