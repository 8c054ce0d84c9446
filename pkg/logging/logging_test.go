package logging

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{" warn ", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelInfo},
	}

	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, parseLogLevel(tc.in))
		})
	}
}

func TestParseLogLevelFromEnv(t *testing.T) {
	t.Setenv(logLevelEnvVar, "error")
	assert.Equal(t, slog.LevelError, parseLogLevel(""))

	t.Setenv(logLevelEnvVar, "")
	assert.Equal(t, slog.LevelInfo, parseLogLevel(""))
}

func TestNewStructuredLogger(t *testing.T) {
	logger := NewStructuredLogger("rsspot", "v0.0.1-test", "debug")
	assert.NotNil(t, logger)
	assert.True(t, logger.Enabled(context.Background(), slog.LevelDebug))

	quiet := NewStructuredLogger("rsspot", "v0.0.1-test", "error")
	assert.False(t, quiet.Enabled(context.Background(), slog.LevelInfo))
}
