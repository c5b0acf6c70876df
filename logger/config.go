// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package logger

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/lmittmann/tint"
	"golang.org/x/term"

	"go.astrophena.name/devscripts/devlog"
)

// Format selects how log records are written.
type Format string

const (
	// FormatDev writes multi-line records with [devlog].
	FormatDev Format = "dev"
	// FormatCompact writes one line per record with tint.
	FormatCompact Format = "compact"
	// FormatText writes records with [slog.TextHandler].
	FormatText Format = "text"
	// FormatJSON writes records with [slog.JSONHandler].
	FormatJSON Format = "json"
)

// ColorMode controls whether colored output is written.
type ColorMode int

const (
	// ColorAuto enables colors when writing to a terminal.
	ColorAuto ColorMode = iota
	// ColorAlways enables colors.
	ColorAlways
	// ColorNever disables colors.
	ColorNever
)

// ErrInvalidConfig is returned for unrecognized logging settings.
var ErrInvalidConfig = errors.New("invalid logging configuration")

// Config configures the handler created by [NewHandler].
type Config struct {
	Format Format
	Level  slog.Level
	Color  ColorMode
}

// DefaultConfig is used for settings missing from the environment.
var DefaultConfig = Config{Format: FormatDev, Level: slog.LevelInfo, Color: ColorAuto}

// ConfigFromEnv reads a Config from environment variables:
//
//   - LOG_FORMAT: dev (default), compact, text or json.
//   - LOG_LEVEL: a level name accepted by [slog.Level.UnmarshalText],
//     such as debug, warn or info+2.
//   - NO_COLOR: disables colors when set to anything.
//   - FORCE_COLOR: enables colors when set to anything, unless NO_COLOR is set.
//
// Invalid values are reported in an error wrapping [ErrInvalidConfig], and
// the returned Config uses the defaults for them.
func ConfigFromEnv(getenv func(string) string) (Config, error) {
	cfg := DefaultConfig
	var errs []error

	switch f := Format(strings.ToLower(getenv("LOG_FORMAT"))); f {
	case "":
	case FormatDev, FormatCompact, FormatText, FormatJSON:
		cfg.Format = f
	default:
		errs = append(errs, fmt.Errorf("%w: unknown LOG_FORMAT %q", ErrInvalidConfig, f))
	}

	if s := getenv("LOG_LEVEL"); s != "" {
		if err := cfg.Level.UnmarshalText([]byte(s)); err != nil {
			cfg.Level = DefaultConfig.Level
			errs = append(errs, fmt.Errorf("%w: LOG_LEVEL: %v", ErrInvalidConfig, err))
		}
	}

	switch {
	case getenv("NO_COLOR") != "":
		cfg.Color = ColorNever
	case getenv("FORCE_COLOR") != "":
		cfg.Color = ColorAlways
	}

	return cfg, errors.Join(errs...)
}

// IsTerminal reports whether fd refers to a terminal.
// It can be replaced in tests.
var IsTerminal = term.IsTerminal

// UseColor reports whether output written to w should be colored.
func (c Config) UseColor(w io.Writer) bool {
	switch c.Color {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	f, ok := w.(interface{ Fd() uintptr })
	return ok && IsTerminal(int(f.Fd()))
}

// NewHandler returns a handler writing to w in the format selected by cfg.
// If level is nil, cfg.Level is used.
func NewHandler(w io.Writer, cfg Config, level slog.Leveler) slog.Handler {
	if level == nil {
		level = cfg.Level
	}
	switch cfg.Format {
	case FormatCompact:
		return tint.NewHandler(w, &tint.Options{
			Level:       level,
			NoColor:     !cfg.UseColor(w),
			ReplaceAttr: dropTime,
		})
	case FormatText:
		return slog.NewTextHandler(w, &slog.HandlerOptions{Level: level, ReplaceAttr: dropTime})
	case FormatJSON:
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	default:
		return devlog.NewHandler(w, &devlog.HandlerOptions{Level: level, Color: cfg.UseColor(w)})
	}
}

// dropTime removes the record time; script output is read as it happens.
func dropTime(groups []string, a slog.Attr) slog.Attr {
	if a.Key == slog.TimeKey && len(groups) == 0 {
		return slog.Attr{}
	}
	return a
}

// Setup returns a Logger writing to w, configured from the environment
// with [ConfigFromEnv].
//
// The Logger is usable even when an error is returned; it falls back to
// the defaults for invalid settings.
func Setup(w io.Writer, getenv func(string) string) (*Logger, error) {
	cfg, err := ConfigFromEnv(getenv)
	lv := new(slog.LevelVar)
	lv.Set(cfg.Level)
	l := New(lv)
	l.Attach(NewHandler(w, cfg, lv))
	return l, err
}
