package cache

import "time"

// RedisOption configures the Redis cache.
type RedisOption func(*redisOptions)

type redisOptions struct {
	prefix     string
	defaultTTL time.Duration
	scanCount  int64
}

func defaultRedisOptions() *redisOptions {
	return &redisOptions{
		defaultTTL: 5 * time.Minute,
		scanCount:  100,
	}
}

// WithRedisDefaultTTL sets the expiration used when Set is called with a zero TTL.
// Default: 5 minutes.
func WithRedisDefaultTTL(d time.Duration) RedisOption {
	return func(o *redisOptions) {
		o.defaultTTL = d
	}
}

// WithPrefix namespaces all keys as "{prefix}:{key}". Keys and Clear only
// touch keys under the prefix.
func WithPrefix(prefix string) RedisOption {
	return func(o *redisOptions) {
		o.prefix = prefix
	}
}

// WithScanCount sets the COUNT hint used when scanning keys. Default: 100.
func WithScanCount(n int64) RedisOption {
	return func(o *redisOptions) {
		if n > 0 {
			o.scanCount = n
		}
	}
}
