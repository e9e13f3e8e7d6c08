// Package logger provides the structured logger used throughout the
// scheduling core. Sink/format configuration is an application concern
// (see spec §1); this package exposes only what the core itself needs:
// DEBUG/WARN/INFO emission during model construction and solving.
package logger

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	once   sync.Once
	logger zerolog.Logger
)

// Level is a zerolog level alias, kept so callers don't need to import
// zerolog directly just to set one.
type Level = zerolog.Level

const (
	DebugLevel = zerolog.DebugLevel
	InfoLevel  = zerolog.InfoLevel
	WarnLevel  = zerolog.WarnLevel
	ErrorLevel = zerolog.ErrorLevel
)

// Config controls the global logger's sink and format.
type Config struct {
	Level  string // debug/info/warn/error
	Format string // json/console
	Output string // stdout/stderr
}

// DefaultConfig returns sane defaults for interactive use.
func DefaultConfig() Config {
	return Config{Level: "info", Format: "console", Output: "stderr"}
}

// Init configures the global logger. Only the first call takes effect;
// later calls are no-ops, matching the teacher's singleton pattern.
func Init(cfg Config) {
	once.Do(func() {
		zerolog.SetGlobalLevel(parseLevel(cfg.Level))

		var output io.Writer = os.Stderr
		if cfg.Output == "stdout" {
			output = os.Stdout
		}
		if cfg.Format == "console" {
			output = zerolog.ConsoleWriter{Out: output, TimeFormat: time.RFC3339}
		}

		logger = zerolog.New(output).With().Timestamp().Logger()
	})
}

func parseLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// Get returns the package logger, initializing with defaults on first use.
func Get() *zerolog.Logger {
	Init(DefaultConfig())
	return &logger
}

// Debug logs at debug level.
func Debug() *zerolog.Event { return Get().Debug() }

// Info logs at info level.
func Info() *zerolog.Event { return Get().Info() }

// Warn logs at warn level.
func Warn() *zerolog.Event { return Get().Warn() }

// Error logs at error level.
func Error() *zerolog.Event { return Get().Error() }

// WithComponent scopes a child logger under a component name, the way the
// teacher's SchedulerLogger scopes scheduler-only events.
func WithComponent(name string) *zerolog.Logger {
	l := Get().With().Str("component", name).Logger()
	return &l
}
