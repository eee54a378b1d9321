// Package log is a small leveled logging facade over log/slog used by
// both the CLI and the HTTP server.
package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

// Verbosity levels
const (
	LevelQuiet = iota // only warnings and errors
	LevelInfo         // -v: run summaries, dropped candidates, counts
	LevelDebug        // -vv: upstream calls, cache hits, degraded fetches
	LevelTrace        // -vvv: per-result parsing and scoring detail
)

const slogLevelTrace = slog.Level(-8)

// Format selects the slog handler.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

var (
	mu         sync.Mutex
	verbosity  int
	logger     *slog.Logger
	output     io.Writer
	format     Format
	inProgress bool
)

// Option customizes Initialize.
type Option func(*Format)

// WithFormat selects text or JSON output. Unknown values fall back to text.
func WithFormat(f Format) Option {
	return func(dst *Format) {
		if f == FormatJSON {
			*dst = FormatJSON
			return
		}
		*dst = FormatText
	}
}

// Initialize sets up the global logger with the given verbosity and writer.
func Initialize(level int, w io.Writer, opts ...Option) {
	f := FormatText
	for _, opt := range opts {
		opt(&f)
	}

	mu.Lock()
	defer mu.Unlock()
	verbosity = level
	output = w
	format = f
	logger = slog.New(newHandler(w, f, slogLevel(level)))
}

func slogLevel(level int) slog.Level {
	switch {
	case level >= LevelTrace:
		return slogLevelTrace
	case level >= LevelDebug:
		return slog.LevelDebug
	case level >= LevelInfo:
		return slog.LevelInfo
	default:
		return slog.LevelWarn
	}
}

func newHandler(w io.Writer, f Format, lvl slog.Level) slog.Handler {
	hopts := &slog.HandlerOptions{Level: lvl}
	if f == FormatJSON {
		return slog.NewJSONHandler(w, hopts)
	}
	return slog.NewTextHandler(w, hopts)
}

// Logger returns the underlying slog logger, for libraries that want one.
func Logger() *slog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return logger
}

// Info logs at info level (-v)
func Info(msg string, args ...any) {
	emit(LevelInfo, slog.LevelInfo, msg, args)
}

// Debug logs at debug level (-vv)
func Debug(msg string, args ...any) {
	emit(LevelDebug, slog.LevelDebug, msg, args)
}

// Trace logs at trace level (-vvv)
func Trace(msg string, args ...any) {
	emit(LevelTrace, slogLevelTrace, msg, args)
}

// Warn logs at warn level (always visible)
func Warn(msg string, args ...any) {
	emit(LevelQuiet, slog.LevelWarn, msg, args)
}

// Error logs at error level (always visible)
func Error(msg string, args ...any) {
	emit(LevelQuiet, slog.LevelError, msg, args)
}

func emit(min int, lvl slog.Level, msg string, args []any) {
	mu.Lock()
	defer mu.Unlock()
	if verbosity < min {
		return
	}
	clearProgress()
	logger.Log(context.Background(), lvl, msg, args...)
}

// Progress prints a carriage-return progress line at info level and above.
// It is a no-op for JSON output.
func Progress(f string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if verbosity < LevelInfo || format == FormatJSON {
		return
	}
	inProgress = true
	_, _ = fmt.Fprintf(output, "\r"+f, args...)
}

// ProgressDone completes a progress line with "done".
func ProgressDone() {
	mu.Lock()
	defer mu.Unlock()
	if inProgress {
		_, _ = fmt.Fprintln(output, " done")
		inProgress = false
	}
}

// caller holds mu
func clearProgress() {
	if inProgress {
		_, _ = fmt.Fprintln(output)
		inProgress = false
	}
}

// IsInfo returns true if info-level logging is enabled
func IsInfo() bool {
	return Verbosity() >= LevelInfo
}

// IsDebug returns true if debug-level logging is enabled
func IsDebug() bool {
	return Verbosity() >= LevelDebug
}

// Verbosity returns the current verbosity level
func Verbosity() int {
	mu.Lock()
	defer mu.Unlock()
	return verbosity
}

func init() {
	output = os.Stderr
	verbosity = LevelQuiet
	format = FormatText
	logger = slog.New(newHandler(output, format, slog.LevelWarn))
}
