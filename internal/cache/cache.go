// Package cache wraps Redis with a cache-aside helper used by the phase
// boundary detector: TTLs are jittered to avoid a thundering herd on season
// rollover, and singleflight collapses concurrent misses for the same key
// into one Event Store query.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// Client wraps a Redis client with cache-aside semantics.
type Client struct {
	redis *redis.Client
	sf    singleflight.Group
	namespace string
}

// NewClient creates a cache client for the given namespace (typically the
// dynasty id, so cache keys never cross dynasty isolation boundaries).
func NewClient(redisClient *redis.Client, namespace string) *Client {
	return &Client{redis: redisClient, namespace: namespace}
}

func (c *Client) buildKey(parts ...string) string {
	key := c.namespace
	for _, p := range parts {
		key += ":" + p
	}
	return key
}

// jitter returns ttl plus up to 10% extra, to avoid synchronized expiry.
func jitter(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return ttl
	}
	extra := time.Duration(rand.Int63n(int64(ttl) / 10))
	return ttl + extra
}

// GetOrCompute returns the cached value for key, or computes it via fn,
// caches it with a jittered ttl, and returns it. Concurrent callers for the
// same key share one computation via singleflight.
func (c *Client) GetOrCompute(ctx context.Context, key string, ttl time.Duration, dest interface{}, fn func(ctx context.Context) (interface{}, error)) error {
	fullKey := c.buildKey(key)

	if c.redis != nil {
		raw, err := c.redis.Get(ctx, fullKey).Bytes()
		if err == nil {
			return json.Unmarshal(raw, dest)
		}
		if err != redis.Nil {
			// Redis unavailable: fall through to direct computation rather
			// than fail closed.
			_ = err
		}
	}

	v, err, _ := c.sf.Do(fullKey, func() (interface{}, error) {
		return fn(ctx)
	})
	if err != nil {
		return err
	}

	raw, marshalErr := json.Marshal(v)
	if marshalErr == nil && c.redis != nil {
		c.redis.Set(ctx, fullKey, raw, jitter(ttl))
	}

	return remarshalInto(raw, dest)
}

func remarshalInto(raw []byte, dest interface{}) error {
	if len(raw) == 0 {
		return fmt.Errorf("cache: nothing to unmarshal into destination")
	}
	return json.Unmarshal(raw, dest)
}

// Invalidate deletes the single key built from parts under this namespace;
// other keys sharing that prefix are left in place.
func (c *Client) Invalidate(ctx context.Context, parts ...string) error {
	if c.redis == nil {
		return nil
	}
	return c.redis.Del(ctx, c.buildKey(parts...)).Err()
}
