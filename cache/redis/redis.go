// Package redis stores rendered views in a redis server.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"vehicles-dashboard/cache"
)

// DefaultPrefix namespaces keys when Options.Prefix is empty.
const DefaultPrefix = "vehicles-dashboard:"

// Cache is a cache.Cache backed by redis strings.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// New creates a client for opts.Addr. It does not dial; use Ping to check
// the server.
func New(opts cache.Options) *Cache {
	client := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	c := &Cache{client: client, ttl: opts.TTL, prefix: opts.Prefix}
	if c.ttl <= 0 {
		c.ttl = cache.DefaultTTL
	}
	if c.prefix == "" {
		c.prefix = DefaultPrefix
	}
	return c
}

// Ping checks that the server answers.
func (c *Cache) Ping(ctx context.Context) error {
	if err := c.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis: ping: %w", err)
	}
	return nil
}

func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, cache.ErrMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis: get %s: %w", key, err)
	}
	return b, nil
}

func (c *Cache) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = c.ttl
	}
	if err := c.client.Set(ctx, c.prefix+key, payload, ttl).Err(); err != nil {
		return fmt.Errorf("redis: set %s: %w", key, err)
	}
	return nil
}

func (c *Cache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis: delete %s: %w", key, err)
	}
	return nil
}

func (c *Cache) Close() error {
	return c.client.Close()
}
