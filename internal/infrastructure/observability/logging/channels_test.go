package logging

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQuietLogger(t *testing.T) *ChanneledLogger {
	t.Helper()
	cfg := DefaultLoggerConfig()
	cfg.DefaultLevel = slog.LevelError
	logger, err := NewChanneledLogger(cfg)
	require.NoError(t, err)
	return logger
}

func TestGetChannel_FallsBackToSystem(t *testing.T) {
	logger := newQuietLogger(t)

	assert.Same(t, logger.System(), logger.GetChannel(Channel("no-such-channel")))
	assert.Same(t, logger.Analytics(), logger.GetChannel(ChannelAnalytics))
}

func TestWithOperation_ReturnsUsableLogger(t *testing.T) {
	logger := newQuietLogger(t)

	op := logger.WithOperation(ChannelAnalytics, "rollup:daily")
	require.NotNil(t, op)
	assert.NotSame(t, logger.Analytics(), op, "operation context forks the channel logger")
}
