package guard

import (
	"log/slog"

	"github.com/demoforums/forumclient/pkg/logger"
)

// DefaultLoginPath is the login route used when none is configured.
const DefaultLoginPath = "/login"

// Option configures guards.
type Option func(*options)

type options struct {
	logger    *slog.Logger
	observer  func(State)
	loginPath string
}

func newOptions(opts []Option) *options {
	o := &options{loginPath: DefaultLoginPath, logger: logger.NewNope()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLoginPath sets the login route. Default: "/login".
func WithLoginPath(path string) Option {
	return func(o *options) {
		if path != "" {
			o.loginPath = path
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithObserver is called on every entry guard state transition.
func WithObserver(fn func(State)) Option {
	return func(o *options) {
		o.observer = fn
	}
}
