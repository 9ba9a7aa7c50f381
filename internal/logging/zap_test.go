package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapLogger(zap.New(core))
	ctx := context.Background()

	log.Debug(ctx, "dbg")
	log.With("run", "train").Info(ctx, "fitted", "rows", 90)
	log.Warn(ctx, "wrn")
	log.Error(ctx, "err")

	entries := logs.All()
	require.Len(t, entries, 4)
	assert.Equal(t, "fitted", entries[1].Message)
	assert.Equal(t, map[string]any{"run": "train", "rows": int64(90)}, entries[1].ContextMap())
	assert.Equal(t, zapcore.ErrorLevel, entries[3].Level)
}

func TestNewCLILogger(t *testing.T) {
	l, err := NewCLILogger(true)
	require.NoError(t, err)
	l.Debug(context.Background(), "visible in verbose mode")
	_ = l.Sync()
}
