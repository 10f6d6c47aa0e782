package redis

import (
	"context"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// Open parses url, connects and pings the server, retrying on failure.
func Open(ctx context.Context, url string, opts ...Option) (redis.UniversalClient, error) {
	if url == "" {
		return nil, ErrMissingURL
	}
	if !strings.HasPrefix(url, "redis://") && !strings.HasPrefix(url, "rediss://") {
		return nil, ErrInvalidURL
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	ro, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Join(ErrInvalidURL, err)
	}
	ro.PoolSize = o.poolSize
	ro.MinIdleConns = 0
	ro.DialTimeout = o.dialTimeout
	ro.ReadTimeout = o.readTimeout
	ro.WriteTimeout = o.writeTimeout

	return connect(ctx, ro, o.retryAttempts, o.retryInterval)
}

// Ping reports whether the server is reachable.
func Ping(ctx context.Context, client redis.UniversalClient) error {
	if client == nil {
		return ErrPingFailed
	}
	if err := client.Ping(ctx).Err(); err != nil {
		return errors.Join(ErrPingFailed, err)
	}
	return nil
}

// Close closes the client, tolerating nil.
func Close(client io.Closer) error {
	if client == nil {
		return nil
	}
	return client.Close()
}

func connect(ctx context.Context, ro *redis.Options, attempts int, interval time.Duration) (redis.UniversalClient, error) {
	attempts = max(attempts, 1)
	var lastErr error
	for i := range attempts {
		client := redis.NewClient(ro)
		lastErr = client.Ping(ctx).Err()
		if lastErr == nil {
			return client, nil
		}
		_ = client.Close()

		if i == attempts-1 {
			break
		}
		if err := wait(ctx, time.Duration(i+1)*interval); err != nil {
			return nil, errors.Join(ErrUnreachable, err)
		}
	}
	return nil, errors.Join(ErrUnreachable, lastErr)
}

func wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
