package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestOpen_RejectsBadURLs(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	client, err := Open(ctx, "")
	require.ErrorIs(t, err, ErrMissingURL)
	require.Nil(t, client)

	for _, url := range []string{
		"http://localhost:6379",
		"localhost:6379",
		"redis://localhost:notaport",
		"redis://localhost:6379/notanumber",
	} {
		t.Run(url, func(t *testing.T) {
			t.Parallel()

			client, err := Open(ctx, url)
			require.ErrorIs(t, err, ErrInvalidURL)
			require.Nil(t, client)
		})
	}
}

func TestOpen_UnreachableServer(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	// Port 1 is reserved and refuses connections.
	client, err := Open(ctx, "redis://127.0.0.1:1/0",
		WithRetry(1, time.Millisecond),
		WithTimeouts(100*time.Millisecond, 0, 0),
	)
	require.ErrorIs(t, err, ErrUnreachable)
	require.Nil(t, client)
}

func TestOpen_NoWaitAfterLastAttempt(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	start := time.Now()
	_, err := Open(ctx, "redis://127.0.0.1:1/0",
		WithRetry(1, time.Hour),
		WithTimeouts(100*time.Millisecond, 0, 0),
	)
	require.ErrorIs(t, err, ErrUnreachable)
	require.NotErrorIs(t, err, context.DeadlineExceeded)
	require.Less(t, time.Since(start), 3*time.Second)
}

func TestPing_NilClient(t *testing.T) {
	t.Parallel()
	require.ErrorIs(t, Ping(context.Background(), nil), ErrPingFailed)
}

type closer struct {
	closed bool
	err    error
}

func (c *closer) Close() error {
	c.closed = true
	return c.err
}

func TestClose(t *testing.T) {
	t.Parallel()

	require.NoError(t, Close(nil))

	c := &closer{err: errors.New("boom")}
	require.EqualError(t, Close(c), "boom")
	require.True(t, c.closed)
}

func TestWait(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, wait(ctx, 10*time.Second), context.Canceled)

	require.NoError(t, wait(context.Background(), time.Millisecond))
}

func TestOptions(t *testing.T) {
	t.Parallel()

	o := defaultOptions()
	WithPoolSize(8)(o)
	WithRetry(5, time.Second)(o)
	WithTimeouts(time.Second, 0, 4*time.Second)(o)

	require.Equal(t, 8, o.poolSize)
	require.Equal(t, 5, o.retryAttempts)
	require.Equal(t, time.Second, o.retryInterval)
	require.Equal(t, time.Second, o.dialTimeout)
	require.Equal(t, 2*time.Second, o.readTimeout)
	require.Equal(t, 4*time.Second, o.writeTimeout)
}
