package gateway

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/demoforums/forumclient/pkg/apperror"
)

// Option configures a Gateway.
type Option func(*Gateway)

// WithHTTPClient uses a copy of c for transport. A jar is added to the copy
// when c has none, so session cookies keep working.
func WithHTTPClient(c *http.Client) Option {
	return func(g *Gateway) {
		if c == nil {
			return
		}
		cp := *c
		g.client = &cp
	}
}

// WithResponseHook appends a hook run on every response, in registration order.
func WithResponseHook(hooks ...ResponseHook) Option {
	return func(g *Gateway) {
		for _, h := range hooks {
			if h != nil {
				g.hooks = append(g.hooks, h)
			}
		}
	}
}

// WithLogger sets the logger for request traces (debug level).
func WithLogger(l *slog.Logger) Option {
	return func(g *Gateway) {
		if l != nil {
			g.logger = l
		}
	}
}

// WithTimeout bounds each request end to end. Zero disables the bound (default).
func WithTimeout(d time.Duration) Option {
	return func(g *Gateway) {
		g.timeout = max(d, 0)
	}
}

// WithExtractors replaces the error message extractors applied to JSON error
// bodies. Default: apperror.DefaultExtractors.
func WithExtractors(extractors ...apperror.Extractor) Option {
	return func(g *Gateway) {
		g.extractors = extractors
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(g *Gateway) {
		g.userAgent = ua
	}
}
