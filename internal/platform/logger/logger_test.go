package logger

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/phrazzld/taskr-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name   string
		want   slog.Level
		wantOK bool
	}{
		{"debug", slog.LevelDebug, true},
		{"INFO", slog.LevelInfo, true},
		{"warn", slog.LevelWarn, true},
		{"error", slog.LevelError, true},
		{"verbose", slog.LevelInfo, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseLevel(tt.name)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestSetup(t *testing.T) {
	original := slog.Default()
	t.Cleanup(func() { slog.SetDefault(original) })

	buf := &TestLogBuffer{}
	l, err := setup(buf, config.ServerConfig{LogLevel: "warn", Environment: config.EnvTest})
	require.NoError(t, err)
	require.NotNil(t, l)
	assert.Same(t, l, slog.Default())

	l.Info("dropped")
	l.Warn("kept", "key", "value")

	entries, err := buf.GetLogEntries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "kept", entries[0]["msg"])
	assert.Equal(t, "value", entries[0]["key"])
	assert.Equal(t, "taskr-api", entries[0]["service"])
	assert.Equal(t, config.EnvTest, entries[0]["environment"])
}

func TestContextLogger(t *testing.T) {
	fallback, fallbackBuf := NewTestLogger(t)
	scoped, scopedBuf := NewTestLogger(t)

	assert.Same(t, fallback, FromContextOrDefault(context.Background(), fallback))
	assert.NotNil(t, FromContext(context.Background()))

	ctx := WithLogger(context.Background(), scoped.With("trace_id", "abc"))
	FromContextOrDefault(ctx, fallback).Info("hello")

	assert.Empty(t, fallbackBuf.String())

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(scopedBuf.String()), &entry))
	assert.Equal(t, "abc", entry["trace_id"])
}
