// Package log configures the process logger. Records are JSON lines in a
// file because the terminal belongs to the TUI.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/mmcdole/syncpanel/internal/config"
)

// Setup installs the default logger for the process. Every record carries the
// app name and version. When the log file cannot be opened, output is
// discarded and the error is returned with the discarding logger.
func Setup(cfg *config.LoggingConfig, version string) (*slog.Logger, error) {
	w, err := openLogFile(cfg.File)
	if err != nil {
		logger := NullLogger()
		slog.SetDefault(logger)
		return logger, err
	}

	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: ParseLevel(cfg.Level),
	})).With("app", "syncpanel", "version", version)

	slog.SetDefault(logger)
	return logger, nil
}

// Component returns a child logger tagged with the component name
func Component(logger *slog.Logger, name string) *slog.Logger {
	return logger.With("component", name)
}

func openLogFile(path string) (io.Writer, error) {
	if path == "" {
		return nil, fmt.Errorf("no log file configured")
	}
	if rest, ok := strings.CutPrefix(path, "~"); ok {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, rest)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	return os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
}

// ParseLevel converts a config level name to slog.Level. Unknown names log at info.
func ParseLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		if strings.EqualFold(level, "warning") {
			return slog.LevelWarn
		}
		return slog.LevelInfo
	}
	return l
}

// NullLogger returns a logger that discards all output
func NullLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
