package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv(EnvWeatherKey, "")
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	def := Default()
	assert.Equal(t, def.Port, cfg.Port)
	assert.Equal(t, def.Weather.Timeout, cfg.Weather.Timeout)
	assert.Empty(t, cfg.Weather.APIKey, "a missing key is not a startup error")
}

func TestLoad_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weatherbot.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "8080"
weather:
  api_key: from-file
  timeout: 2s
cache:
  ttl: 1m
  redis_addr: localhost:6379
chat:
  max_input_bytes: 256
log:
  level: debug
`), 0o644))

	cfg := Default()
	require.NoError(t, loadFile(path, &cfg))

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "from-file", cfg.Weather.APIKey)
	assert.Equal(t, 2*time.Second, cfg.Weather.Timeout.Std())
	assert.Equal(t, time.Minute, cfg.Cache.TTL.Std())
	assert.Equal(t, "localhost:6379", cfg.Cache.RedisAddr)
	assert.Equal(t, 256, cfg.Chat.MaxInputBytes)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "pt_br", cfg.Weather.Language, "unset keys keep their defaults")
}

func TestLoad_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weatherbot.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"port":"9000","cache":{"ttl":"30s"}}`), 0o644))

	cfg := Default()
	require.NoError(t, loadFile(path, &cfg))
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL.Std())
}

func TestLoad_InvalidDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("weather:\n  timeout: soon\n"), 0o644))

	cfg := Default()
	assert.Error(t, loadFile(path, &cfg))
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := applyEnv(&cfg, envMap(map[string]string{
		EnvWeatherKey:    "env-key",
		EnvPort:          "4000",
		EnvLookupTimeout: "750ms",
		EnvCacheTTL:      "0s",
		EnvRedisDB:       "2",
		EnvMaxInputBytes: "1024",
	}))
	require.NoError(t, err)

	assert.Equal(t, "env-key", cfg.Weather.APIKey)
	assert.Equal(t, "4000", cfg.Port)
	assert.Equal(t, 750*time.Millisecond, cfg.Weather.Timeout.Std())
	assert.Equal(t, time.Duration(0), cfg.Cache.TTL.Std())
	assert.Equal(t, 2, cfg.Cache.RedisDB)
	assert.Equal(t, 1024, cfg.Chat.MaxInputBytes)
}

func TestApplyEnv_Invalid(t *testing.T) {
	cfg := Default()
	assert.Error(t, applyEnv(&cfg, envMap(map[string]string{EnvLookupTimeout: "fast"})))
	assert.Error(t, applyEnv(&cfg, envMap(map[string]string{EnvRedisDB: "one"})))
	assert.Error(t, applyEnv(&cfg, envMap(map[string]string{EnvMaxInputBytes: "0"})))
	assert.Error(t, applyEnv(&cfg, envMap(map[string]string{EnvMaxInputBytes: "lots"})))
}
