package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/weatherbot/internal/sanitize"
	"gopkg.in/yaml.v3"
)

// Environment variables read by Load. OPENWEATHER_KEY and PORT keep the names
// the bot has always used.
const (
	EnvWeatherKey    = "OPENWEATHER_KEY"
	EnvPort          = "PORT"
	EnvWeatherURL    = "WEATHERBOT_WEATHER_URL"
	EnvLookupTimeout = "WEATHERBOT_LOOKUP_TIMEOUT"
	EnvCacheTTL      = "WEATHERBOT_CACHE_TTL"
	EnvRedisAddr     = "WEATHERBOT_REDIS_ADDR"
	EnvRedisPassword = "WEATHERBOT_REDIS_PASSWORD"
	EnvRedisDB       = "WEATHERBOT_REDIS_DB"
	EnvLogLevel      = "WEATHERBOT_LOG_LEVEL"
	EnvLogFormat     = "WEATHERBOT_LOG_FORMAT"
	EnvMaxInputBytes = "WEATHERBOT_MAX_INPUT_BYTES"
)

// Config is the process configuration.
type Config struct {
	Port    string        `yaml:"port" json:"port"`
	Weather WeatherConfig `yaml:"weather" json:"weather"`
	Cache   CacheConfig   `yaml:"cache" json:"cache"`
	Chat    ChatConfig    `yaml:"chat" json:"chat"`
	Log     LogConfig     `yaml:"log" json:"log"`
}

// WeatherConfig configures the weather provider client.
type WeatherConfig struct {
	APIKey   string   `yaml:"api_key" json:"api_key"`
	BaseURL  string   `yaml:"base_url" json:"base_url"`
	Language string   `yaml:"language" json:"language"`
	Timeout  Duration `yaml:"timeout" json:"timeout"`
}

// CacheConfig configures the lookup cache. A zero TTL disables caching.
type CacheConfig struct {
	TTL           Duration `yaml:"ttl" json:"ttl"`
	RedisAddr     string   `yaml:"redis_addr" json:"redis_addr"`
	RedisPassword string   `yaml:"redis_password" json:"redis_password"`
	RedisDB       int      `yaml:"redis_db" json:"redis_db"`
}

// ChatConfig configures what the transports accept from a user.
type ChatConfig struct {
	MaxInputBytes int `yaml:"max_input_bytes" json:"max_input_bytes"`
}

// LogConfig configures the application logger.
type LogConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Port: "3000",
		Weather: WeatherConfig{
			BaseURL:  "https://api.openweathermap.org",
			Language: "pt_br",
			Timeout:  Duration(5 * time.Second),
		},
		Cache: CacheConfig{
			TTL: Duration(5 * time.Minute),
		},
		Chat: ChatConfig{
			MaxInputBytes: sanitize.DefaultMaxInputBytes,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds the configuration from defaults, then the optional file at path
// (YAML, or JSON by extension), then environment variables.
// A missing file is not an error; neither is a missing API key.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if ext == ".json" {
		if err := json.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
		return nil
	}
	// Default to YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return nil
}

func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	dur := func(key string, dst *Duration) error {
		v, ok := lookup(key)
		if !ok || v == "" {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = Duration(d)
		return nil
	}

	str(EnvWeatherKey, &cfg.Weather.APIKey)
	str(EnvPort, &cfg.Port)
	str(EnvWeatherURL, &cfg.Weather.BaseURL)
	str(EnvRedisAddr, &cfg.Cache.RedisAddr)
	str(EnvRedisPassword, &cfg.Cache.RedisPassword)
	str(EnvLogLevel, &cfg.Log.Level)
	str(EnvLogFormat, &cfg.Log.Format)

	if err := dur(EnvLookupTimeout, &cfg.Weather.Timeout); err != nil {
		return err
	}
	if err := dur(EnvCacheTTL, &cfg.Cache.TTL); err != nil {
		return err
	}
	if v, ok := lookup(EnvRedisDB); ok && v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvRedisDB, err)
		}
		cfg.Cache.RedisDB = db
	}
	if v, ok := lookup(EnvMaxInputBytes); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("invalid %s: %q must be a positive byte count", EnvMaxInputBytes, v)
		}
		cfg.Chat.MaxInputBytes = n
	}
	return nil
}

// Duration is a time.Duration written as "5s" or "2m" in config files.
type Duration time.Duration

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	return d.parse(s)
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("duration must be a string like \"5s\": %w", err)
	}
	return d.parse(s)
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) parse(s string) error {
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}
