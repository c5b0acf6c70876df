// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package devlog

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"slices"
	"sync"
)

const (
	red    = "\x1b[31m"
	green  = "\x1b[32m"
	yellow = "\x1b[33m"
	blue   = "\x1b[34m"
)

// HandlerOptions are options for a [Handler].
type HandlerOptions struct {
	// Level is the minimum level to log. Defaults to slog.LevelInfo.
	Level slog.Leveler
	// Color enables ANSI colors. Set it only when w supports them.
	Color bool
}

// Handler is an [slog.Handler] that writes records with [Render], prefixed
// by their level:
//
//	ERROR Something went wrong
//	  reason: "Bad things"
//	  severity: "BAD"
//
// Handlers are safe for concurrent use.
type Handler struct {
	opts   HandlerOptions
	mu     *sync.Mutex
	w      io.Writer
	attrs  []Field
	prefix string
}

// NewHandler returns a Handler that writes to w.
func NewHandler(w io.Writer, opts *HandlerOptions) *Handler {
	h := &Handler{w: w, mu: new(sync.Mutex)}
	if opts != nil {
		h.opts = *opts
	}
	if h.opts.Level == nil {
		h.opts.Level = slog.LevelInfo
	}
	return h
}

// Enabled implements [slog.Handler].
func (h *Handler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

// Handle implements [slog.Handler].
func (h *Handler) Handle(_ context.Context, r slog.Record) error {
	var buf bytes.Buffer
	h.writeLevel(&buf, r.Level)
	buf.WriteByte(' ')

	fields := func(yield func(Field) bool) {
		if !yield(Message(r.Message)) {
			return
		}
		for _, f := range h.attrs {
			if !yield(f) {
				return
			}
		}
		r.Attrs(func(a slog.Attr) bool {
			return appendAttr(h.prefix, a, yield)
		})
	}
	if err := Render(&buf, fields, h.opts.Color); err != nil {
		return err
	}
	buf.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf.Bytes())
	return err
}

func (h *Handler) writeLevel(buf *bytes.Buffer, l slog.Level) {
	text := l.String()
	for range 5 - len(text) {
		buf.WriteByte(' ')
	}
	if !h.opts.Color {
		buf.WriteString(text)
		return
	}
	buf.WriteString(levelColor(l))
	buf.WriteString(text)
	buf.WriteString(reset)
}

func levelColor(l slog.Level) string {
	switch {
	case l >= slog.LevelError:
		return red
	case l >= slog.LevelWarn:
		return yellow
	case l >= slog.LevelInfo:
		return green
	default:
		return blue
	}
}

// WithAttrs implements [slog.Handler].
func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return h
	}
	h2 := h.clone()
	for _, a := range attrs {
		appendAttr(h.prefix, a, func(f Field) bool {
			h2.attrs = append(h2.attrs, f)
			return true
		})
	}
	return h2
}

// WithGroup implements [slog.Handler].
func (h *Handler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	h2 := h.clone()
	h2.prefix = h.prefix + name + "."
	return h2
}

func (h *Handler) clone() *Handler {
	h2 := *h
	h2.attrs = slices.Clip(h.attrs)
	return &h2
}

// appendAttr flattens a into fields named with prefix and passes them to
// yield. It reports whether yield wants more.
func appendAttr(prefix string, a slog.Attr, yield func(Field) bool) bool {
	a.Value = a.Value.Resolve()
	if a.Key == "" && a.Value.Kind() == slog.KindAny && a.Value.Any() == nil {
		return true
	}
	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}
		for _, ga := range a.Value.Group() {
			if !appendAttr(prefix, ga, yield) {
				return false
			}
		}
		return true
	}
	return yield(Field{Name: prefix + a.Key, Value: FromSlog(a.Value)})
}
