package logger

import (
	"context"
	"log/slog"
)

// ContextExtractor returns an attribute derived from ctx, such as a request ID.
type ContextExtractor func(ctx context.Context) (slog.Attr, bool)

// LogHandlerDecorator adds the attributes of its extractors to every record.
type LogHandlerDecorator struct {
	slog.Handler
	extractors []ContextExtractor
}

// NewLogHandlerDecorator wraps next. Nil extractors are dropped; with none
// left, next is returned as is.
func NewLogHandlerDecorator(next slog.Handler, extractors ...ContextExtractor) slog.Handler {
	var kept []ContextExtractor
	for _, ex := range extractors {
		if ex != nil {
			kept = append(kept, ex)
		}
	}
	if len(kept) == 0 {
		return next
	}
	return &LogHandlerDecorator{Handler: next, extractors: kept}
}

func (d *LogHandlerDecorator) Handle(ctx context.Context, rec slog.Record) error {
	if ctx != nil {
		for _, ex := range d.extractors {
			if attr, ok := ex(ctx); ok && attr.Key != "" {
				rec.AddAttrs(attr)
			}
		}
	}
	return d.Handler.Handle(ctx, rec)
}

func (d *LogHandlerDecorator) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &LogHandlerDecorator{Handler: d.Handler.WithAttrs(attrs), extractors: d.extractors}
}

func (d *LogHandlerDecorator) WithGroup(name string) slog.Handler {
	return &LogHandlerDecorator{Handler: d.Handler.WithGroup(name), extractors: d.extractors}
}
