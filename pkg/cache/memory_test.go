package cache_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/demoforums/forumclient/pkg/cache"
)

type clock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newClock() *clock {
	return &clock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func TestMemory_GetSetDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	c := cache.NewMemory[string](cache.WithCleanupInterval(0))
	t.Cleanup(func() { _ = c.Close() })

	_, err := c.Get(ctx, "missing")
	require.ErrorIs(t, err, cache.ErrNotFound)

	require.NoError(t, c.Set(ctx, "a", "1", 0))
	v, err := c.Get(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, "1", v)

	require.NoError(t, c.Set(ctx, "a", "2", 0))
	v, err = c.Get(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, "2", v)

	require.NoError(t, c.Delete(ctx, "a"))
	require.NoError(t, c.Delete(ctx, "a"))
	_, err = c.Get(ctx, "a")
	require.ErrorIs(t, err, cache.ErrNotFound)
}

func TestMemory_TTL(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("positive ttl expires", func(t *testing.T) {
		t.Parallel()
		clk := newClock()
		c := cache.NewMemory[int](cache.WithCleanupInterval(0), cache.WithClock(clk.Now))
		t.Cleanup(func() { _ = c.Close() })

		require.NoError(t, c.Set(ctx, "k", 1, time.Second))
		clk.Advance(500 * time.Millisecond)
		_, err := c.Get(ctx, "k")
		require.NoError(t, err)

		clk.Advance(time.Second)
		_, err = c.Get(ctx, "k")
		require.ErrorIs(t, err, cache.ErrNotFound)
		require.Equal(t, 0, c.Len())
	})

	t.Run("zero ttl uses default", func(t *testing.T) {
		t.Parallel()
		clk := newClock()
		c := cache.NewMemory[int](
			cache.WithCleanupInterval(0),
			cache.WithClock(clk.Now),
			cache.WithDefaultTTL(time.Minute),
		)
		t.Cleanup(func() { _ = c.Close() })

		require.NoError(t, c.Set(ctx, "k", 1, 0))
		clk.Advance(59 * time.Second)
		_, err := c.Get(ctx, "k")
		require.NoError(t, err)

		clk.Advance(2 * time.Second)
		_, err = c.Get(ctx, "k")
		require.ErrorIs(t, err, cache.ErrNotFound)
	})

	t.Run("negative ttl never expires", func(t *testing.T) {
		t.Parallel()
		clk := newClock()
		c := cache.NewMemory[int](cache.WithCleanupInterval(0), cache.WithClock(clk.Now))
		t.Cleanup(func() { _ = c.Close() })

		require.NoError(t, c.Set(ctx, "k", 1, -1))
		clk.Advance(1000 * time.Hour)
		v, err := c.Get(ctx, "k")
		require.NoError(t, err)
		require.Equal(t, 1, v)
	})
}

func TestMemory_Keys(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	clk := newClock()

	c := cache.NewMemory[int](cache.WithCleanupInterval(0), cache.WithClock(clk.Now))
	t.Cleanup(func() { _ = c.Close() })

	require.NoError(t, c.Set(ctx, "a", 1, -1))
	require.NoError(t, c.Set(ctx, "b", 2, time.Second))
	require.NoError(t, c.Set(ctx, "c", 3, -1))

	keys, err := c.Keys(ctx)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"a", "b", "c"}, keys)

	clk.Advance(2 * time.Second)
	keys, err = c.Keys(ctx)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"a", "c"}, keys)

	require.NoError(t, c.Clear(ctx))
	keys, err = c.Keys(ctx)
	require.NoError(t, err)
	require.Empty(t, keys)
}

func TestMemory_LRUEviction(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	c := cache.NewMemory[int](cache.WithCleanupInterval(0), cache.WithMaxEntries(2))
	t.Cleanup(func() { _ = c.Close() })

	var evicted []string
	c.OnEvict(func(key string, _ int) { evicted = append(evicted, key) })

	require.NoError(t, c.Set(ctx, "a", 1, 0))
	require.NoError(t, c.Set(ctx, "b", 2, 0))

	// Touch "a" so "b" becomes the least recently used.
	_, err := c.Get(ctx, "a")
	require.NoError(t, err)

	require.NoError(t, c.Set(ctx, "c", 3, 0))
	require.Equal(t, []string{"b"}, evicted)

	_, err = c.Get(ctx, "b")
	require.ErrorIs(t, err, cache.ErrNotFound)
	require.Equal(t, 2, c.Len())

	// Explicit delete does not fire the callback.
	require.NoError(t, c.Delete(ctx, "a"))
	require.Equal(t, []string{"b"}, evicted)
}

func TestMemory_Janitor(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	c := cache.NewMemory[int](cache.WithCleanupInterval(10 * time.Millisecond))
	t.Cleanup(func() { _ = c.Close() })

	require.NoError(t, c.Set(ctx, "k", 1, 20*time.Millisecond))
	require.NoError(t, c.Set(ctx, "keep", 1, -1))

	require.Eventually(t, func() bool { return c.Len() == 1 }, time.Second, 10*time.Millisecond)
}

func TestMemory_Closed(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	c := cache.NewMemory[int]()
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())

	_, err := c.Get(ctx, "k")
	require.ErrorIs(t, err, cache.ErrClosed)
	require.ErrorIs(t, c.Set(ctx, "k", 1, 0), cache.ErrClosed)
	require.ErrorIs(t, c.Delete(ctx, "k"), cache.ErrClosed)
	require.ErrorIs(t, c.Clear(ctx), cache.ErrClosed)
	_, err = c.Keys(ctx)
	require.ErrorIs(t, err, cache.ErrClosed)
}

func TestJSONMarshaler(t *testing.T) {
	t.Parallel()

	type payload struct {
		Name string `json:"name"`
	}
	m := cache.JSONMarshaler[payload]{}

	data, err := m.Marshal(payload{Name: "go"})
	require.NoError(t, err)
	require.JSONEq(t, `{"name":"go"}`, string(data))

	_, err = m.Unmarshal([]byte("{"))
	require.ErrorIs(t, err, cache.ErrUnmarshal)

	_, err = cache.JSONMarshaler[func()]{}.Marshal(func() {})
	require.ErrorIs(t, err, cache.ErrMarshal)
}
