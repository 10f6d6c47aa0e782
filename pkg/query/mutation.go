package query

import (
	"context"
	"log/slog"

	"github.com/demoforums/forumclient/pkg/apperror"
)

// Mutation is a write against the API plus the cache maintenance that follows it.
type Mutation[In, Out any] struct {
	Do        func(ctx context.Context, in In) (Out, error)
	OnSuccess func(ctx context.Context, c *Client, in In, out Out) error
	Name      string
}

// Execute runs the write. Failures are returned as *apperror.AppError and
// skip OnSuccess. A failing OnSuccess is logged and does not fail the
// completed write.
func (m Mutation[In, Out]) Execute(ctx context.Context, c *Client, in In) (Out, error) {
	out, err := m.Do(ctx, in)
	if err != nil {
		var zero Out
		appErr := apperror.FromUnknown(err)
		c.logger.DebugContext(ctx, "mutation failed",
			slog.String("mutation", m.Name),
			slog.String("code", string(appErr.Code)),
		)
		return zero, appErr
	}

	if m.OnSuccess != nil {
		if err := m.OnSuccess(ctx, c, in, out); err != nil {
			c.logger.WarnContext(ctx, "mutation cache update failed",
				slog.String("mutation", m.Name),
				slog.String("error", err.Error()),
			)
		}
	}
	return out, nil
}
