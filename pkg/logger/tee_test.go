package logger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTeeHandler(t *testing.T) {
	t.Parallel()

	var debug, errs bytes.Buffer
	h := teeHandler{
		slog.NewTextHandler(&debug, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewTextHandler(&errs, &slog.HandlerOptions{Level: slog.LevelError}),
	}
	log := slog.New(h).With(slog.String("component", "query")).WithGroup("req")

	require.True(t, h.Enabled(context.Background(), slog.LevelDebug))
	log.Debug("fetch", slog.String("key", "forums"))
	log.Error("failed", slog.Int("status", 500))

	assert.Contains(t, debug.String(), "msg=fetch")
	assert.Contains(t, debug.String(), "component=query")
	assert.Contains(t, debug.String(), "req.key=forums")
	assert.Contains(t, debug.String(), "msg=failed")
	assert.NotContains(t, errs.String(), "msg=fetch")
	assert.Contains(t, errs.String(), "req.status=500")
}
