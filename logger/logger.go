// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package logger provides a context-aware logger built on [slog].
package logger

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
)

type ctxKey struct{}

// fanout sends records to every attached handler. Attaching and detaching
// replace the handler slice, so records are handled without locking.
type fanout struct {
	mu       sync.Mutex // serializes writers
	handlers atomic.Pointer[[]slog.Handler]
}

func newFanout(handlers ...slog.Handler) *fanout {
	f := new(fanout)
	f.handlers.Store(&handlers)
	return f
}

func (f *fanout) load() []slog.Handler { return *f.handlers.Load() }

func (f *fanout) Enabled(ctx context.Context, level slog.Level) bool {
	return slices.ContainsFunc(f.load(), func(h slog.Handler) bool {
		return h.Enabled(ctx, level)
	})
}

func (f *fanout) Handle(ctx context.Context, r slog.Record) error {
	var firstErr error
	for _, h := range f.load() {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (f *fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	return f.derive(func(h slog.Handler) slog.Handler { return h.WithAttrs(attrs) })
}

func (f *fanout) WithGroup(name string) slog.Handler {
	return f.derive(func(h slog.Handler) slog.Handler { return h.WithGroup(name) })
}

func (f *fanout) derive(fn func(slog.Handler) slog.Handler) *fanout {
	hs := f.load()
	derived := make([]slog.Handler, len(hs))
	for i, h := range hs {
		derived[i] = fn(h)
	}
	return newFanout(derived...)
}

func (f *fanout) attach(h slog.Handler) {
	f.mu.Lock()
	defer f.mu.Unlock()
	hs := append(slices.Clip(f.load()), h)
	f.handlers.Store(&hs)
}

func (f *fanout) detach(h slog.Handler) {
	f.mu.Lock()
	defer f.mu.Unlock()
	hs := slices.DeleteFunc(slices.Clone(f.load()), func(x slog.Handler) bool { return x == h })
	f.handlers.Store(&hs)
}

// Logger encapsulates an [slog.Logger] and allows attaching and detaching
// multiple [slog.Handler] at runtime.
//
// Level is shared with the handlers created by [Setup], so changing it
// affects them immediately.
type Logger struct {
	*slog.Logger
	Level *slog.LevelVar
	fan   *fanout
}

// New creates a new Logger with no handlers.
// Its LevelVar is initialized to LevelInfo if level is nil.
func New(level *slog.LevelVar) *Logger {
	if level == nil {
		level = new(slog.LevelVar)
	}
	f := newFanout()
	return &Logger{
		Logger: slog.New(f),
		Level:  level,
		fan:    f,
	}
}

// Attach attaches a handler to the logger.
func (l *Logger) Attach(h slog.Handler) { l.fan.attach(h) }

// Detach detaches a handler from the logger.
func (l *Logger) Detach(h slog.Handler) { l.fan.detach(h) }

// defaultLogger has no handlers and drops everything.
var defaultLogger = New(nil)

// Put returns a new context with the provided [Logger].
func Put(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// Get retrieves the [Logger] from the context.
//
// If the context has no [Logger], it returns a default [Logger] that discards all
// messages.
func Get(ctx context.Context) *Logger {
	if l, ok := ctx.Value(ctxKey{}).(*Logger); ok {
		return l
	}
	return defaultLogger
}

// IsDefault reports whether l is the default [Logger].
func IsDefault(l *Logger) bool { return l == defaultLogger }

// LevelVar retrieves the [slog.LevelVar] of the [Logger] in the context.
func LevelVar(ctx context.Context) *slog.LevelVar { return Get(ctx).Level }

// Debug logs a debug message.
func Debug(ctx context.Context, msg string, attrs ...slog.Attr) {
	Get(ctx).LogAttrs(ctx, slog.LevelDebug, msg, attrs...)
}

// Info logs an info message.
func Info(ctx context.Context, msg string, attrs ...slog.Attr) {
	Get(ctx).LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

// Warn logs a warning message.
func Warn(ctx context.Context, msg string, attrs ...slog.Attr) {
	Get(ctx).LogAttrs(ctx, slog.LevelWarn, msg, attrs...)
}

// Error logs an error message.
func Error(ctx context.Context, msg string, attrs ...slog.Attr) {
	Get(ctx).LogAttrs(ctx, slog.LevelError, msg, attrs...)
}
