// Package logger provides structured logging over slog. The TUI owns the
// terminal, so log output always goes to a file; the tint handler keeps it
// readable when tailed.
package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/lmittmann/tint"

	"github.com/killallgit/mull/pkg/config"
)

var (
	defaultLogger = slog.New(slog.NewTextHandler(io.Discard, nil))
	logFile       *os.File
)

// Init opens the configured log file and installs the default logger.
// Calling Init again reconfigures from the current config.
func Init() error {
	settings := config.Get()

	logPath := settings.Logging.File
	if logPath == "" {
		logPath = "mull.log"
	}
	if !filepath.IsAbs(logPath) {
		logPath = config.BuildSettingsPath(filepath.Base(logPath))
	}

	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	flags := os.O_CREATE | os.O_WRONLY
	if settings.Logging.Persist {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}

	file, err := os.OpenFile(logPath, flags, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	if logFile != nil {
		logFile.Close()
	}
	logFile = file

	defaultLogger = slog.New(tint.NewHandler(file, &tint.Options{
		Level:   parseLevel(settings.Logging.Level),
		NoColor: true,
	}))
	return nil
}

// InitWithWriter installs a logger over an arbitrary writer. Used by tests.
func InitWithWriter(w io.Writer, level slog.Level) {
	defaultLogger = slog.New(tint.NewHandler(w, &tint.Options{
		Level:   level,
		NoColor: true,
	}))
}

// Close releases the log file.
func Close() error {
	if logFile != nil {
		err := logFile.Close()
		logFile = nil
		return err
	}
	return nil
}

func parseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// WithComponent returns a logger scoped to one component.
func WithComponent(name string) *slog.Logger {
	return defaultLogger.With("component", name)
}

func Debug(msg string, args ...any) { defaultLogger.Debug(msg, args...) }
func Info(msg string, args ...any)  { defaultLogger.Info(msg, args...) }
func Warn(msg string, args ...any)  { defaultLogger.Warn(msg, args...) }
func Error(msg string, args ...any) { defaultLogger.Error(msg, args...) }
