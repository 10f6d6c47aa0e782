package logger

import "log/slog"

// New creates a logger writing to the configured output.
func New(opts ...Option) *slog.Logger {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return slog.New(NewLogHandlerDecorator(o.handler(), o.extractors...))
}

// NewNope creates a no-op logger that discards all output.
func NewNope() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// Or returns l, or a no-op logger when l is nil.
func Or(l *slog.Logger) *slog.Logger {
	if l == nil {
		return NewNope()
	}
	return l
}
