package gateway

import (
	"context"
	"log/slog"

	"github.com/demoforums/forumclient/pkg/logger"
)

// HeaderRequestID carries the per-request correlation ID.
const HeaderRequestID = "X-Request-ID"

type requestIDKey struct{}

// RequestIDFromContext returns the request ID the gateway attached to ctx.
// Hooks receive such a context.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey{}).(string)
	return id, ok && id != ""
}

// RequestIDExtractor adds the request ID to log records emitted with the
// request's context.
func RequestIDExtractor() logger.ContextExtractor {
	return func(ctx context.Context) (slog.Attr, bool) {
		id, ok := RequestIDFromContext(ctx)
		if !ok {
			return slog.Attr{}, false
		}
		return slog.String("request_id", id), true
	}
}

func withRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}
