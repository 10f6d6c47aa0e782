package query

import (
	"log/slog"
	"time"

	"github.com/demoforums/forumclient/pkg/cache"
)

// Option configures a Client.
type Option func(*Client)

// WithStore sets the storage backend. The Client takes ownership and closes it.
// Default: an unbounded in-memory cache.
func WithStore(store cache.Cache[Entry]) Option {
	return func(c *Client) {
		if store != nil {
			c.store = store
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithDefaultGCTime sets the GC window for queries that leave GCTime zero.
// Default: 5 minutes.
func WithDefaultGCTime(d time.Duration) Option {
	return func(c *Client) {
		c.defaultGC = d
	}
}

// WithClock replaces the time source used for freshness.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}
