package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"farmassist/pkg/logging"
	"farmassist/pkg/metrics"
)

// Config holds Redis connection configuration
type Config struct {
	Address  string
	Password string
	DB       int
}

// Cache is a Redis-backed TTL cache for JSON-serializable values.
// Expiry is handled by Redis key TTLs; there is no in-process state.
type Cache struct {
	client  *redis.Client
	name    string
	logger  *logging.StructuredLogger
	metrics *metrics.Collector
}

// New creates a new cache and verifies the connection.
func New(cfg Config, name string, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	logger.Info(context.Background(), "[CACHE_INIT] Redis cache connected", logging.Fields{
		"cache":   name,
		"address": cfg.Address,
	})

	return &Cache{
		client:  client,
		name:    name,
		logger:  logger,
		metrics: metricsCollector,
	}, nil
}

// NewWithClient wraps an existing client. Intended for tests.
func NewWithClient(client *redis.Client, name string, logger *logging.StructuredLogger, metricsCollector *metrics.Collector) *Cache {
	return &Cache{client: client, name: name, logger: logger, metrics: metricsCollector}
}

// GetJSON fetches a key and unmarshals it into out.
// Returns false with a nil error on a cache miss.
func (c *Cache) GetJSON(ctx context.Context, key string, out interface{}) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		c.metrics.RecordCacheMiss(c.name)
		return false, nil
	}
	if err != nil {
		c.metrics.RecordCacheMiss(c.name)
		return false, fmt.Errorf("cache get %q: %w", key, err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		// A corrupt entry behaves like a miss; the caller will refill it.
		c.logger.Warn(ctx, "[CACHE_DECODE_ERROR] Dropping unreadable cache entry", logging.Fields{
			"cache": c.name,
			"key":   key,
		})
		c.metrics.RecordCacheMiss(c.name)
		_ = c.client.Del(ctx, key).Err()
		return false, nil
	}

	c.metrics.RecordCacheHit(c.name)
	return true, nil
}

// SetJSON marshals a value and stores it under key with the given TTL.
func (c *Cache) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("cache marshal %q: %w", key, err)
	}

	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %q: %w", key, err)
	}

	return nil
}

// Invalidate removes keys from the cache.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// Close closes the underlying Redis connection.
func (c *Cache) Close() error {
	return c.client.Close()
}
