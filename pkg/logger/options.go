package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Format selects the slog handler.
type Format string

const (
	FormatJSON Format = "json"
	FormatText Format = "text"
)

// Option configures a logger built by New or NewWithSentry.
type Option func(*options)

type options struct {
	out        io.Writer
	format     Format
	extractors []ContextExtractor
	level      slog.Level
}

func defaultOptions() *options {
	return &options{
		out:    os.Stderr,
		format: FormatJSON,
		level:  slog.LevelInfo,
	}
}

// WithLevel sets the minimum level. Default: info.
func WithLevel(level slog.Level) Option {
	return func(o *options) {
		o.level = level
	}
}

// WithFormat selects JSON or text output. Unknown formats fall back to JSON.
func WithFormat(f Format) Option {
	return func(o *options) {
		o.format = f
	}
}

// WithOutput sets the destination writer. Default: os.Stderr.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.out = w
		}
	}
}

// WithExtractors appends context extractors.
func WithExtractors(extractors ...ContextExtractor) Option {
	return func(o *options) {
		o.extractors = append(o.extractors, extractors...)
	}
}

// ParseLevel maps "debug", "info", "warn" and "error" to slog levels,
// defaulting to info.
func ParseLevel(s string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo
	}
	return level
}

func (o *options) handler() slog.Handler {
	ho := &slog.HandlerOptions{Level: o.level}
	if o.format == FormatText {
		return slog.NewTextHandler(o.out, ho)
	}
	return slog.NewJSONHandler(o.out, ho)
}
