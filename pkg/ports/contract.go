package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/weatherbot/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunWeatherCacheContract runs a suite of tests to verify that a WeatherCache implementation
// adheres to the defined interface contract.
func RunWeatherCacheContract(t *testing.T, cache WeatherCache) {
	ctx := context.Background()
	key := "contract-city-" + time.Now().Format("20060102150405")

	t.Run("Set and Get", func(t *testing.T) {
		snapshot := domain.WeatherSnapshot{
			TemperatureC:         18.5,
			FeelsLikeC:           17,
			ConditionDescription: "céu limpo",
			City:                 "Lisboa",
		}

		err := cache.Set(ctx, key, snapshot, time.Minute)
		require.NoError(t, err, "Set should not return error")

		loaded, err := cache.Get(ctx, key)
		require.NoError(t, err, "Get should not return error")
		assert.Equal(t, snapshot, loaded)
	})

	t.Run("Get Missing", func(t *testing.T) {
		_, err := cache.Get(ctx, "missing-"+key)
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
	})

	t.Run("Overwrite", func(t *testing.T) {
		k := key + "-overwrite"
		require.NoError(t, cache.Set(ctx, k, domain.WeatherSnapshot{TemperatureC: 1}, time.Minute))
		require.NoError(t, cache.Set(ctx, k, domain.WeatherSnapshot{TemperatureC: 2}, time.Minute))

		loaded, err := cache.Get(ctx, k)
		require.NoError(t, err)
		assert.Equal(t, 2.0, loaded.TemperatureC)
	})

	t.Run("No Expiration", func(t *testing.T) {
		k := key + "-forever"
		require.NoError(t, cache.Set(ctx, k, domain.WeatherSnapshot{TemperatureC: 3}, 0))

		loaded, err := cache.Get(ctx, k)
		require.NoError(t, err)
		assert.Equal(t, 3.0, loaded.TemperatureC)
	})
}
