package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/weatherbot/pkg/domain"
	"github.com/aretw0/weatherbot/pkg/ports"
	backend "github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key written by the cache.
const DefaultPrefix = "weatherbot:weather:"

// Cache implements ports.WeatherCache using Redis.
// Only weather snapshots are stored here; conversation state never is.
type Cache struct {
	client *backend.Client
	prefix string
}

var _ ports.WeatherCache = (*Cache)(nil)

type Option func(*Cache)

// WithPrefix sets the key prefix for cached snapshots.
func WithPrefix(prefix string) Option {
	return func(c *Cache) {
		c.prefix = prefix
	}
}

// New creates a new Redis cache with options.
func New(address, password string, db int, opts ...Option) *Cache {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis cache from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Cache {
	cache := &Cache{
		client: client,
		prefix: DefaultPrefix,
	}
	for _, opt := range opts {
		opt(cache)
	}
	return cache
}

func (c *Cache) key(k string) string {
	return c.prefix + k
}

// Get retrieves a snapshot from Redis.
func (c *Cache) Get(ctx context.Context, key string) (domain.WeatherSnapshot, error) {
	val, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return domain.WeatherSnapshot{}, domain.ErrCacheMiss
		}
		return domain.WeatherSnapshot{}, fmt.Errorf("failed to get from redis: %w", err)
	}

	var snapshot domain.WeatherSnapshot
	if err := json.Unmarshal(val, &snapshot); err != nil {
		return domain.WeatherSnapshot{}, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return snapshot, nil
}

// Set stores the snapshot with the given expiration. Zero means no expiration.
func (c *Cache) Set(ctx context.Context, key string, snapshot domain.WeatherSnapshot, ttl time.Duration) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := c.client.Set(ctx, c.key(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Ping checks connectivity, used at startup to fail fast on a bad address.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the redis client.
func (c *Cache) Close() error {
	return c.client.Close()
}
