// Package redis opens the optional Redis connection that lets several forumctl
// processes share one query cache.
//
// It wraps [github.com/redis/go-redis/v9] with defaults sized for a short-lived
// command-line client rather than a server: a small pool, no idle connections
// kept warm, and a brief retry window at startup.
//
// # Usage
//
//	client, err := redis.Open(ctx, cfg.RedisURL,
//	    redis.WithRetry(2, 250*time.Millisecond),
//	)
//	if err != nil {
//	    return err
//	}
//	defer redis.Close(client)
//
//	backend := cache.NewRedis[query.Entry](client, nil, cache.WithPrefix("forumctl"))
//
// Only redis:// and rediss:// (TLS) URLs are accepted.
//
// # Errors
//
//   - [ErrMissingURL] - no URL given
//   - [ErrInvalidURL] - wrong scheme or malformed URL
//   - [ErrUnreachable] - every attempt to ping the server failed
//   - [ErrPingFailed] - [Ping] could not reach the server
package redis
