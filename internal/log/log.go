// Package log sets up the application's slog logger. The terminal belongs to
// the TUI, so records go to a rotating JSON file unless console output is
// asked for explicitly.
package log

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	lj "gopkg.in/natefinch/lumberjack.v2"
)

// Options controls logger initialization. Any zero field falls back to the
// QTUI_LOG_* environment variables read by FromEnv.
type Options struct {
	Level   string // debug|info|warn|error
	Format  string // json|text
	File    string // rotated log file, empty to disable
	Console bool   // also write to stderr
}

var (
	mu     sync.RWMutex
	logger *slog.Logger
)

// L returns the application logger. Before Init is called it discards
// everything, which keeps library code quiet in tests.
func L() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if logger == nil {
		return discard
	}
	return logger
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// Init builds the logger from opts and installs it as slog's default.
func Init(opts Options) *slog.Logger {
	lvl := ParseLevel(opts.Level)
	hopts := &slog.HandlerOptions{Level: lvl}

	var writers []io.Writer
	if strings.TrimSpace(opts.File) != "" {
		_ = os.MkdirAll(filepath.Dir(opts.File), 0o755)
		writers = append(writers, &lj.Logger{
			Filename:   opts.File,
			MaxSize:    5,
			MaxBackups: 3,
			MaxAge:     28,
			Compress:   true,
		})
	}
	if opts.Console {
		writers = append(writers, os.Stderr)
	}

	var w io.Writer
	switch len(writers) {
	case 0:
		w = io.Discard
	case 1:
		w = writers[0]
	default:
		w = io.MultiWriter(writers...)
	}

	var h slog.Handler
	if strings.EqualFold(opts.Format, "text") {
		h = slog.NewTextHandler(w, hopts)
	} else {
		h = slog.NewJSONHandler(w, hopts)
	}

	l := slog.New(h).With(slog.String("app", "quelea-tui"))

	mu.Lock()
	logger = l
	mu.Unlock()
	slog.SetDefault(l)
	return l
}

// FromEnv reads QTUI_LOG_LEVEL, QTUI_LOG_FORMAT and QTUI_LOG_FILE.
func FromEnv() Options {
	return Options{
		Level:  getenv("QTUI_LOG_LEVEL", "info"),
		Format: getenv("QTUI_LOG_FORMAT", "json"),
		File:   os.Getenv("QTUI_LOG_FILE"),
	}
}

// Merge fills the zero fields of o from fallback.
func (o Options) Merge(fallback Options) Options {
	if o.Level == "" {
		o.Level = fallback.Level
	}
	if o.Format == "" {
		o.Format = fallback.Format
	}
	if o.File == "" {
		o.File = fallback.File
	}
	o.Console = o.Console || fallback.Console
	return o
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// WithComponent returns a logger tagged with the component name.
func WithComponent(name string) *slog.Logger {
	return L().With(slog.String("component", name))
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
