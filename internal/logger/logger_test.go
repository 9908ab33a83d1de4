package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/miksipiksic/chess-insights/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry), "line %q", line)
		out = append(out, entry)
	}
	return out
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in       string
		expected logger.Level
	}{
		{"debug", logger.DEBUG},
		{"INFO", logger.INFO},
		{"warning", logger.WARN},
		{" Warn ", logger.WARN},
		{"error", logger.ERROR},
		{"bogus", logger.INFO},
		{"", logger.INFO},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.expected, logger.ParseLevel(tt.in))
		})
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(
		logger.WithOutput(&buf),
		logger.WithLevel(logger.WARN),
		logger.WithFormat(logger.FormatJSON),
	)

	log.Debug("hidden debug")
	log.Info("hidden info")
	log.Warn("shown warn %d", 1)
	log.Error("shown error")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 2)
	assert.Equal(t, "warn", entries[0]["level"])
	assert.Equal(t, "shown warn 1", entries[0]["msg"])
	assert.Equal(t, "error", entries[1]["level"])
}

func TestLogger_PrefixAndFields(t *testing.T) {
	var buf bytes.Buffer
	base := logger.New(
		logger.WithOutput(&buf),
		logger.WithLevel(logger.DEBUG),
		logger.WithFormat(logger.FormatJSON),
	)

	log := base.WithPrefix("cache").WithField("player", "Milena").WithFields(map[string]any{"ttl": 3600})
	log.Info("cache hit")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "cache", entries[0]["logger"])
	assert.Equal(t, "Milena", entries[0]["player"])
	assert.EqualValues(t, 3600, entries[0]["ttl"])
	assert.Contains(t, entries[0]["caller"], "logger_test.go")
}

func TestLogger_WithPrefixReplaces(t *testing.T) {
	var buf bytes.Buffer
	base := logger.New(logger.WithOutput(&buf), logger.WithFormat(logger.FormatJSON), logger.WithPrefix("db"))

	base.WithPrefix("store").Info("replaced")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.Equal(t, "store", entries[0]["logger"])
}

func TestLogger_DerivedDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	base := logger.New(logger.WithOutput(&buf), logger.WithFormat(logger.FormatJSON))

	_ = base.WithField("request_id", "abc")
	base.Info("parent")

	entries := decodeLines(t, &buf)
	require.Len(t, entries, 1)
	assert.NotContains(t, entries[0], "request_id")
}

func TestLogger_ConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithColors(false), logger.WithPrefix("cli"))

	log.Info("report printed for %s", "Milena")

	out := buf.String()
	assert.Contains(t, out, "INFO")
	assert.Contains(t, out, "cli")
	assert.Contains(t, out, "report printed for Milena")
	assert.NotContains(t, out, "\033[")
}

func TestContext(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.WithOutput(&buf), logger.WithFormat(logger.FormatJSON))

	ctx := logger.NewContext(context.Background(), log)
	assert.Same(t, log, logger.FromContext(ctx))
	assert.Same(t, logger.Default(), logger.FromContext(context.Background()))
}
