// Package cache provides the storage backends behind the query cache: a
// generic key-value interface with an in-memory and a Redis implementation.
//
// # Interface
//
// [Cache] is generic over the stored value type V:
//
//   - Get(ctx, key) (V, error) - retrieve a value, [ErrNotFound] on a miss
//   - Set(ctx, key, value, ttl) error - store a value
//   - Delete(ctx, key) error - remove a key
//   - Keys(ctx) ([]string, error) - list live keys, used for key-family invalidation
//   - Clear(ctx) error - remove all entries
//   - Close() error - release resources
//
// TTL semantics for Set:
//   - Positive duration: the entry is dropped after this duration
//   - Zero: use the backend's configured default TTL
//   - Negative: the entry never expires
//
// The query cache uses the TTL as a garbage-collection window for unused
// entries, not as a freshness rule; freshness lives in the entry itself.
//
// # In-Memory
//
//	c := cache.NewMemory[query.Entry](
//	    cache.WithDefaultTTL(5 * time.Minute),
//	    cache.WithMaxEntries(1000),
//	)
//	defer c.Close()
//
// Lookups are O(1) through a map; a doubly-linked list keeps LRU order for
// eviction once MaxEntries is reached. A janitor goroutine drops expired
// entries every CleanupInterval.
//
// # Redis
//
// [NewRedis] shares a cache between processes. Values are stored through a
// [Marshaler] (JSON by default) under "{prefix}:{key}":
//
//	client, err := redis.Open(ctx, os.Getenv("FORUMCTL_REDIS_URL"))
//	if err != nil {
//	    return err
//	}
//	c := cache.NewRedis[query.Entry](client, nil, cache.WithPrefix("forumctl"))
//
// # Errors
//
//   - [ErrNotFound] - key does not exist or has expired
//   - [ErrClosed] - operation on a closed cache
//   - [ErrMarshal] / [ErrUnmarshal] - serialization failures
package cache
