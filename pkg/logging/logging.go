// Package logging configures structured logging for the suite and the stub
// API. Output is colored with tint unless LOG_FORMAT=json.
//
// Usage:
//
//	logging.Setup()                          // level from LOG_LEVEL
//	logging.SetupWithLevel(slog.LevelDebug)  // explicit level override
//	logger := logging.New(w, logging.Options{Level: slog.LevelWarn})
//
// Environment variables:
//
//	LOG_LEVEL: debug, info, warn, error (default: info)
//	LOG_FORMAT: text, json (default: text)
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Options control the handler built by New.
type Options struct {
	Level     slog.Level
	JSON      bool
	AddSource bool
	NoColor   bool
}

// Setup installs the default logger at the level specified by LOG_LEVEL.
func Setup() {
	SetupWithLevel(levelFromEnv())
}

// SetupWithLevel installs the default logger at the given level.
func SetupWithLevel(level slog.Level) {
	slog.SetDefault(New(os.Stderr, Options{
		Level:     level,
		JSON:      jsonFromEnv(),
		AddSource: true,
	}))
}

// New returns a logger writing to w.
func New(w io.Writer, opts Options) *slog.Logger {
	if opts.JSON {
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:     opts.Level,
			AddSource: opts.AddSource,
		}))
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      opts.Level,
		TimeFormat: time.Kitchen,
		AddSource:  opts.AddSource,
		NoColor:    opts.NoColor,
	}))
}

// ParseLevel maps a level name to a slog.Level, defaulting to info.
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

func levelFromEnv() slog.Level {
	return ParseLevel(os.Getenv("LOG_LEVEL"))
}

func jsonFromEnv() bool {
	return strings.EqualFold(os.Getenv("LOG_FORMAT"), "json")
}
