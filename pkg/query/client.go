package query

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/demoforums/forumclient/pkg/cache"
	"github.com/demoforums/forumclient/pkg/logger"
)

// Infinite as StaleTime or GCTime disables the bound.
const Infinite time.Duration = -1

// DefaultGCTime applies to queries that leave GCTime zero.
const DefaultGCTime = 5 * time.Minute

// Entry is the stored form of a query result.
type Entry struct {
	UpdatedAt   time.Time       `json:"updatedAt"`
	Data        json.RawMessage `json:"data"`
	GCTime      time.Duration   `json:"gcTime"`
	Invalidated bool            `json:"invalidated"`
}

// Query describes how to read one key.
type Query[T any] struct {
	Fetch     func(ctx context.Context) (T, error)
	Key       Key
	StaleTime time.Duration
	GCTime    time.Duration
}

// flight tracks one in-progress fetch. A stale flight must not write back.
type flight struct {
	key   Key
	stale bool
}

// Client owns the cache entries and in-flight fetches of one session.
type Client struct {
	store     cache.Cache[Entry]
	logger    *slog.Logger
	now       func() time.Time
	flights   map[string]*flight
	group     singleflight.Group
	defaultGC time.Duration
	mu        sync.Mutex
}

// NewClient creates a Client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		logger:    logger.NewNope(),
		now:       time.Now,
		flights:   make(map[string]*flight),
		defaultGC: DefaultGCTime,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.store == nil {
		c.store = cache.NewMemory[Entry](cache.WithDefaultTTL(c.defaultGC))
	}
	return c
}

// Close releases the storage backend.
func (c *Client) Close() error {
	return c.store.Close()
}

// IsFetching reports whether a fetch for key is in progress and will be stored.
func (c *Client) IsFetching(key Key) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	f, ok := c.flights[key.String()]
	return ok && !f.stale
}

// Invalidate marks every entry under prefix as stale. Data stays readable by
// Peek; the next Get or Ensure refetches. Pending fetches under prefix are
// detached and will not write back.
func (c *Client) Invalidate(ctx context.Context, prefix Key) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.detachLocked(prefix)

	keys, err := c.matchLocked(ctx, prefix)
	if err != nil {
		return err
	}

	var errs []error
	for _, k := range keys {
		e, err := c.store.Get(ctx, k)
		if err != nil {
			if !errors.Is(err, cache.ErrNotFound) {
				errs = append(errs, err)
			}
			continue
		}
		if e.Invalidated {
			continue
		}
		e.Invalidated = true
		if err := c.store.Set(ctx, k, e, ttlFor(e.GCTime)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// InvalidateAll invalidates every entry.
func (c *Client) InvalidateAll(ctx context.Context) error {
	return c.Invalidate(ctx, Key{})
}

// Remove deletes every entry under prefix and detaches pending fetches.
func (c *Client) Remove(ctx context.Context, prefix Key) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.detachLocked(prefix)

	keys, err := c.matchLocked(ctx, prefix)
	if err != nil {
		return err
	}

	var errs []error
	for _, k := range keys {
		if err := c.store.Delete(ctx, k); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Reset drops every entry and detaches all pending fetches.
func (c *Client) Reset(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.detachLocked(Key{})
	return c.store.Clear(ctx)
}

// Caller must hold the mutex.
func (c *Client) detachLocked(prefix Key) {
	for ks, f := range c.flights {
		if f.key.HasPrefix(prefix) {
			f.stale = true
			delete(c.flights, ks)
			c.group.Forget(ks)
		}
	}
}

// Caller must hold the mutex.
func (c *Client) matchLocked(ctx context.Context, prefix Key) ([]string, error) {
	all, err := c.store.Keys(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]string, 0, len(all))
	for _, ks := range all {
		k, err := ParseKey(ks)
		if err != nil {
			continue
		}
		if k.HasPrefix(prefix) {
			matched = append(matched, ks)
		}
	}
	return matched, nil
}

func (c *Client) lookup(ctx context.Context, key Key) (Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, err := c.store.Get(ctx, key.String())
	if err != nil {
		if !errors.Is(err, cache.ErrNotFound) {
			c.logger.WarnContext(ctx, "query cache read failed",
				slog.String("key", key.String()),
				slog.String("error", err.Error()),
			)
		}
		return Entry{}, false
	}
	return e, true
}

func (c *Client) fresh(e Entry, staleTime time.Duration) bool {
	switch {
	case e.Invalidated:
		return false
	case staleTime < 0:
		return true
	case staleTime == 0:
		return false
	default:
		return c.now().Sub(e.UpdatedAt) < staleTime
	}
}

func (c *Client) begin(key Key) *flight {
	c.mu.Lock()
	defer c.mu.Unlock()

	f := &flight{key: key}
	c.flights[key.String()] = f
	return f
}

func (c *Client) end(key Key, f *flight) {
	c.mu.Lock()
	defer c.mu.Unlock()

	ks := key.String()
	if c.flights[ks] == f {
		delete(c.flights, ks)
	}
}

// commit stores data unless the flight was detached meanwhile.
func (c *Client) commit(ctx context.Context, f *flight, data []byte, gcTime time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if f.stale {
		c.logger.DebugContext(ctx, "discarding result of detached fetch", slog.String("key", f.key.String()))
		return
	}

	if gcTime == 0 {
		gcTime = c.defaultGC
	}
	e := Entry{Data: data, UpdatedAt: c.now(), GCTime: gcTime}
	if err := c.store.Set(ctx, f.key.String(), e, ttlFor(gcTime)); err != nil {
		c.logger.WarnContext(ctx, "query cache write failed",
			slog.String("key", f.key.String()),
			slog.String("error", err.Error()),
		)
	}
}

func ttlFor(gcTime time.Duration) time.Duration {
	if gcTime < 0 {
		return Infinite
	}
	return gcTime
}
