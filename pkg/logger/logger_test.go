package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/demoforums/forumclient/pkg/logger"
)

type ctxKey struct{}

func traceExtractor(ctx context.Context) (slog.Attr, bool) {
	v, ok := ctx.Value(ctxKey{}).(string)
	if !ok {
		return slog.Attr{}, false
	}
	return slog.String("trace", v), true
}

func TestNew_JSONWithExtractors(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(
		logger.WithOutput(&buf),
		logger.WithExtractors(traceExtractor, nil),
	)

	ctx := context.WithValue(context.Background(), ctxKey{}, "abc")
	log.InfoContext(ctx, "hello", slog.Int("n", 1))
	log.DebugContext(ctx, "hidden")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "hello", rec["msg"])
	assert.Equal(t, "abc", rec["trace"])
	assert.EqualValues(t, 1, rec["n"])
}

func TestNew_TextFormatAndLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.New(
		logger.WithOutput(&buf),
		logger.WithFormat(logger.FormatText),
		logger.WithLevel(slog.LevelDebug),
	)
	log.With("component", "gateway").Debug("request")

	out := buf.String()
	assert.Contains(t, out, "level=DEBUG")
	assert.Contains(t, out, "msg=request")
	assert.Contains(t, out, "component=gateway")
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, slog.LevelDebug, logger.ParseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, logger.ParseLevel(" WARN "))
	assert.Equal(t, slog.LevelError, logger.ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, logger.ParseLevel("nonsense"))
	assert.Equal(t, slog.LevelInfo, logger.ParseLevel(""))
}

func TestNewWithSentry_NoDSN(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := logger.NewWithSentry(logger.SentryConfig{}, logger.WithOutput(&buf))
	log.Warn("local only")
	assert.Contains(t, buf.String(), "local only")
}

func TestNopeAndOr(t *testing.T) {
	t.Parallel()

	require.NotNil(t, logger.Or(nil))
	l := logger.NewNope()
	assert.Same(t, l, logger.Or(l))
	assert.False(t, l.Enabled(context.Background(), slog.LevelError))
}
