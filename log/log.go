// Package log provides slog-based logging for the engine and its
// frontends: a console handler by default, plus an optional rotated JSON
// file handler when a log file is configured.
package log

import (
	"log/slog"
	"os"
	"strings"
	"sync"

	lj "gopkg.in/natefinch/lumberjack.v2"
)

// Options controls logger initialization. Values can be provided directly
// or via environment variables:
//   - TETHER_LOG_LEVEL=debug|info|warn|error
//   - TETHER_LOG_FILE=<path> (enables file logging with rotation)
type Options struct {
	Level string
	File  string
}

var (
	mu            sync.RWMutex
	defaultLogger *slog.Logger
)

// L returns the default logger, initializing from the environment on
// first use.
func L() *slog.Logger {
	mu.RLock()
	l := defaultLogger
	mu.RUnlock()
	if l != nil {
		return l
	}
	Init(FromEnv())
	mu.RLock()
	l = defaultLogger
	mu.RUnlock()
	return l
}

// Init configures the default logger and slog.Default.
func Init(opts Options) {
	lvl := parseLevel(opts.Level)

	var handler slog.Handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	if strings.TrimSpace(opts.File) != "" {
		w := &lj.Logger{Filename: opts.File, MaxSize: 10, MaxBackups: 3, MaxAge: 28, Compress: true}
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
	}

	logger := slog.New(handler).With(slog.String("app", "tether"))

	mu.Lock()
	defaultLogger = logger
	mu.Unlock()
	slog.SetDefault(logger)
}

// FromEnv builds Options from environment variables.
func FromEnv() Options {
	return Options{
		Level: getenv("TETHER_LOG_LEVEL", "info"),
		File:  os.Getenv("TETHER_LOG_FILE"),
	}
}

// WithComponent returns a logger with the component attribute pre-set.
func WithComponent(name string) *slog.Logger {
	return L().With(slog.String("component", name))
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseLevel(s string) slog.Level {
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
