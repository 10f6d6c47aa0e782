package logger

import (
	"context"
	"log/slog"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
)

// SentryConfig holds Sentry integration configuration.
type SentryConfig struct {
	DSN         string `env:"SENTRY_DSN"`
	Environment string `env:"SENTRY_ENVIRONMENT" envDefault:"development"`
	Release     string `env:"SENTRY_RELEASE"`
	// MinLevel selects what is stored as Sentry logs; errors always become issues.
	MinLevel slog.Level
}

// NewWithSentry creates a logger that writes locally and to Sentry.
// Without a DSN, or if the SDK fails to initialize, only the local handler is used.
// Callers should sentry.Flush before exit.
func NewWithSentry(cfg SentryConfig, opts ...Option) *slog.Logger {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	local := o.handler()

	if cfg.DSN == "" {
		return slog.New(NewLogHandlerDecorator(local, o.extractors...))
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.DSN,
		Environment: cfg.Environment,
		Release:     cfg.Release,
		EnableLogs:  true,
	}); err != nil {
		slog.New(local).Error("failed to initialize Sentry", slog.String("error", err.Error()))
		return slog.New(NewLogHandlerDecorator(local, o.extractors...))
	}

	logLevel := []slog.Level{slog.LevelWarn, slog.LevelError}
	if cfg.MinLevel >= slog.LevelError {
		logLevel = []slog.Level{slog.LevelError}
	}

	remote := sentryslog.Option{
		EventLevel: []slog.Level{slog.LevelError},
		LogLevel:   logLevel,
	}.NewSentryHandler(context.Background())

	return slog.New(NewLogHandlerDecorator(teeHandler{local, remote}, o.extractors...))
}
