package internal

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/demoforums/forumclient/pkg/apperror"
	"github.com/demoforums/forumclient/pkg/cache"
	"github.com/demoforums/forumclient/pkg/guard"
	"github.com/demoforums/forumclient/pkg/logger"
	"github.com/demoforums/forumclient/pkg/navigation"
	"github.com/demoforums/forumclient/pkg/query"
)

// Option configures a Client.
type Option func(*options)

type options struct {
	logger     *slog.Logger
	navigator  navigation.Navigator
	store      cache.Cache[query.Entry]
	httpClient *http.Client
	observer   func(guard.State)
	loginPath  string
	userAgent  string
	extractors []apperror.Extractor
	timeout    time.Duration
}

func defaultOptions() *options {
	return &options{
		logger:    logger.NewNope(),
		loginPath: guard.DefaultLoginPath,
	}
}

// WithLogger sets the logger shared by every layer of the client.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithNavigator sets the navigator the auth guards drive.
// Default: an in-memory history starting at "/".
func WithNavigator(nav navigation.Navigator) Option {
	return func(o *options) {
		o.navigator = nav
	}
}

// WithLoginPath sets the login route. Default: "/login".
func WithLoginPath(path string) Option {
	return func(o *options) {
		if path != "" {
			o.loginPath = path
		}
	}
}

// WithStore sets the query cache backend, for example a Redis cache shared
// by several processes. The current user entry stays in a private in-memory
// store. Default: in-memory.
func WithStore(store cache.Cache[query.Entry]) Option {
	return func(o *options) {
		o.store = store
	}
}

// WithHTTPClient sets the HTTP client used by the gateway.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) {
		o.httpClient = c
	}
}

// WithTimeout bounds every request. Zero means no bound (default).
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// WithUserAgent sets the User-Agent sent to the API.
func WithUserAgent(ua string) Option {
	return func(o *options) {
		o.userAgent = ua
	}
}

// WithErrorExtractors replaces the message extractors for JSON error bodies.
func WithErrorExtractors(extractors ...apperror.Extractor) Option {
	return func(o *options) {
		o.extractors = extractors
	}
}

// WithGuardObserver is notified of every entry guard state transition.
func WithGuardObserver(fn func(guard.State)) Option {
	return func(o *options) {
		o.observer = fn
	}
}
