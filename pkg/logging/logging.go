// Package logging configures colored structured logging with tint, optionally
// fanned out to a JSON log file.
//
// Usage:
//
//	closeLog, err := logging.Setup(logging.Options{Level: "debug", File: "smartfinance.log"})
//	defer closeLog()
//
// LOG_LEVEL (debug, info, warn, error) is read when Options.Level is empty.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	slogmulti "github.com/samber/slog-multi"
)

// Options selects the level and outputs.
type Options struct {
	Level string

	// File, when set, receives every record as JSON in addition to the console.
	File string

	// Console defaults to os.Stderr.
	Console io.Writer
}

// Setup installs the default logger and returns a function closing the log
// file, if any.
func Setup(opts Options) (func() error, error) {
	level := ParseLevel(opts.Level)
	if opts.Level == "" {
		level = ParseLevel(os.Getenv("LOG_LEVEL"))
	}
	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	handlers := []slog.Handler{
		tint.NewHandler(console, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
			AddSource:  level == slog.LevelDebug,
		}),
	}

	closeFn := func() error { return nil }
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		handlers = append(handlers, slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level}))
		closeFn = f.Close
	}

	slog.SetDefault(slog.New(slogmulti.Fanout(handlers...)))
	return closeFn, nil
}

// ParseLevel maps a level name to a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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
