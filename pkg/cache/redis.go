package cache

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis is a cache backed by Redis, usable to share entries between processes.
type Redis[V any] struct {
	client    redis.UniversalClient
	opts      *redisOptions
	marshaler Marshaler[V]
}

// NewRedis creates a Redis-backed cache. A nil Marshaler selects JSON.
// The client lifecycle stays with the caller.
func NewRedis[V any](client redis.UniversalClient, m Marshaler[V], opts ...RedisOption) *Redis[V] {
	o := defaultRedisOptions()
	for _, opt := range opts {
		opt(o)
	}
	if m == nil {
		m = JSONMarshaler[V]{}
	}
	return &Redis[V]{client: client, opts: o, marshaler: m}
}

// Get retrieves and decodes a value.
func (r *Redis[V]) Get(ctx context.Context, key string) (V, error) {
	var zero V

	data, err := r.client.Get(ctx, r.fullKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return zero, ErrNotFound
		}
		return zero, err
	}
	return r.marshaler.Unmarshal(data)
}

// Set encodes and stores a value. A negative TTL stores without expiration.
func (r *Redis[V]) Set(ctx context.Context, key string, value V, ttl time.Duration) error {
	data, err := r.marshaler.Marshal(value)
	if err != nil {
		return err
	}
	if ttl == 0 {
		ttl = r.opts.defaultTTL
	}
	// Redis treats 0 as "no expiration".
	return r.client.Set(ctx, r.fullKey(key), data, max(ttl, 0)).Err()
}

// Delete removes a key.
func (r *Redis[V]) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.fullKey(key)).Err()
}

// Keys scans the keys under the configured prefix and returns them without it.
func (r *Redis[V]) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	err := r.scan(ctx, func(batch []string) error {
		for _, k := range batch {
			keys = append(keys, r.trimKey(k))
		}
		return nil
	})
	return keys, err
}

// Clear removes every key under the prefix using SCAN, or FLUSHDB when no
// prefix is configured.
func (r *Redis[V]) Clear(ctx context.Context) error {
	if r.opts.prefix == "" {
		return r.client.FlushDB(ctx).Err()
	}
	return r.scan(ctx, func(batch []string) error {
		return r.client.Del(ctx, batch...).Err()
	})
}

// Close is a no-op; close the client with pkg/redis.Close.
func (r *Redis[V]) Close() error {
	return nil
}

func (r *Redis[V]) scan(ctx context.Context, fn func(batch []string) error) error {
	pattern := "*"
	if r.opts.prefix != "" {
		pattern = r.opts.prefix + ":*"
	}

	var cursor uint64
	for {
		batch, next, err := r.client.Scan(ctx, cursor, pattern, r.opts.scanCount).Result()
		if err != nil {
			return err
		}
		if len(batch) > 0 {
			if err := fn(batch); err != nil {
				return err
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

func (r *Redis[V]) fullKey(key string) string {
	if r.opts.prefix == "" {
		return key
	}
	return r.opts.prefix + ":" + key
}

func (r *Redis[V]) trimKey(key string) string {
	if r.opts.prefix == "" {
		return key
	}
	return strings.TrimPrefix(key, r.opts.prefix+":")
}

var _ Cache[any] = (*Redis[any])(nil)
