// Package logger builds the slog loggers used across the client.
//
// Handlers are wrapped in a [LogHandlerDecorator] that appends attributes
// pulled from the context on every call, which is how request IDs set by the
// gateway end up on log lines:
//
//	log := logger.New(
//	    logger.WithLevel(slog.LevelDebug),
//	    logger.WithFormat(logger.FormatText),
//	    logger.WithExtractors(gateway.RequestIDExtractor()),
//	)
//
// [NewWithSentry] additionally forwards warnings and errors to Sentry when a
// DSN is configured, and falls back to the local handler otherwise.
//
// [NewNope] discards everything and is the default wherever a logger is optional.
package logger
