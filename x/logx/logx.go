// Package logx is the console's structured logger: log/slog with a
// component attribute on every record.
package logx

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
)

// Component identifies a subsystem for log filtering.
type Component string

const (
	Device Component = "device"
	Input  Component = "input"
	Bridge Component = "bridge"
	Mode   Component = "mode"
	Shell  Component = "shell"
	LCD    Component = "lcd"
	Host   Component = "host"
)

// Format selects the handler.
type Format int

const (
	FormatText Format = iota
	FormatJSON
)

var (
	mu     sync.RWMutex
	level  = new(slog.LevelVar)
	logger *slog.Logger
)

func init() {
	// Warn by default: on the device stderr is the USB console.
	level.Set(slog.LevelWarn)
	logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// SetLevel sets the minimum level for every component.
func SetLevel(l slog.Level) { level.Set(l) }

// Level returns the current minimum level.
func Level() slog.Level { return level.Level() }

// SetOutput rebuilds the default logger on w with the given format.
func SetOutput(w io.Writer, f Format) {
	opts := &slog.HandlerOptions{Level: level}
	var h slog.Handler
	if f == FormatJSON {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	SetLogger(slog.New(h))
}

// SetLogger replaces the default logger.
func SetLogger(l *slog.Logger) {
	mu.Lock()
	logger = l
	mu.Unlock()
}

// Logger returns the current logger scoped to c.
func Logger(c Component) *slog.Logger {
	mu.RLock()
	l := logger
	mu.RUnlock()
	return l.With("component", string(c))
}

func log(c Component, lvl slog.Level, msg string, args []any) {
	mu.RLock()
	l := logger
	mu.RUnlock()
	if !l.Enabled(context.Background(), lvl) {
		return
	}
	l.Log(context.Background(), lvl, msg, append([]any{"component", string(c)}, args...)...)
}

func Debug(c Component, msg string, args ...any) { log(c, slog.LevelDebug, msg, args) }
func Info(c Component, msg string, args ...any)  { log(c, slog.LevelInfo, msg, args) }
func Warn(c Component, msg string, args ...any)  { log(c, slog.LevelWarn, msg, args) }
func Error(c Component, msg string, args ...any) { log(c, slog.LevelError, msg, args) }
