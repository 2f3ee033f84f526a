package logger

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogging(t *testing.T) {
	t.Run("should write through the installed writer", func(t *testing.T) {
		var buf bytes.Buffer
		InitWithWriter(&buf, slog.LevelDebug)

		Info("hello", "key", "value")

		assert.Contains(t, buf.String(), "hello")
		assert.Contains(t, buf.String(), "value")
	})

	t.Run("should respect the level threshold", func(t *testing.T) {
		var buf bytes.Buffer
		InitWithWriter(&buf, slog.LevelWarn)

		Debug("too quiet")
		Warn("loud enough")

		assert.NotContains(t, buf.String(), "too quiet")
		assert.Contains(t, buf.String(), "loud enough")
	})

	t.Run("should tag component loggers", func(t *testing.T) {
		var buf bytes.Buffer
		InitWithWriter(&buf, slog.LevelDebug)

		WithComponent("splitter").Debug("routing chunk")

		assert.Contains(t, buf.String(), "splitter")
	})
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("anything else"))
}
