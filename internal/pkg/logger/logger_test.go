package logger

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
		ok   bool
	}{
		{"debug", slog.LevelDebug, true},
		{"INFO", slog.LevelInfo, true},
		{"", slog.LevelInfo, true},
		{"warning", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"verbose", slog.LevelInfo, false},
	}
	for _, tt := range tests {
		got, ok := ParseLevel(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
	}
}

func TestNewZapLogger(t *testing.T) {
	l, err := NewZapLogger("debug", "json")
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))

	_, err = NewZapLogger("loud", "json")
	assert.Error(t, err)
}

func TestInitFromZapRoutesThroughZap(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	InitFromZap(zap.New(core), "info")

	NewSlogAdapter().Info("refresh finished", "wallets", 3)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "refresh finished", logs.All()[0].Message)
}
