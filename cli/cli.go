// © 2024 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

// Package cli provides helpers for creating simple, single-command
// command-line applications.
//
// Applications are run with [Main], which sets up logging from the
// environment (see [logger.ConfigFromEnv]), runs the application and, if it
// fails, logs the error with its chain of causes before exiting with a
// non-zero status.
package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"runtime/pprof"
	"strings"

	"go.astrophena.name/devscripts/devlog"
	"go.astrophena.name/devscripts/logger"
	"go.astrophena.name/devscripts/version"
)

// Main runs an application, handling signal-based cancellation and logging
// errors to stderr. It is intended to be called directly from a program's
// main function.
func Main(app App) {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	env := OSEnv()
	defaultTraceback(env.Getenv)
	code := Execute(WithEnv(ctx, env), app)
	cancel()
	os.Exit(code)
}

// defaultTraceback makes crashes print all goroutines unless GOTRACEBACK
// says otherwise.
func defaultTraceback(getenv func(string) string) {
	if getenv("GOTRACEBACK") == "" {
		debug.SetTraceback("all")
	}
}

// Exit statuses returned by [Execute].
const (
	StatusOK      = 0
	StatusFailure = 1
	StatusUsage   = 2
)

// Execute runs an application with [Run] and returns the process exit
// status. A failure is logged with [LogError].
func Execute(ctx context.Context, app App) int {
	ctx = withLogger(ctx)
	err := Run(ctx, app)
	switch {
	case err == nil, is(err, flag.ErrHelp), is(err, ErrExitVersion):
		return StatusOK
	case !isPrintableError(err):
		return StatusUsage
	}
	LogError(ctx, err)
	return StatusFailure
}

// LogError logs err at the error level.
//
// The message is the error's own text; when err wraps a cause, the cause's
// text is trimmed from the end of the message and the cause is logged as
// the "cause" attribute, so that the whole chain is listed.
func LogError(ctx context.Context, err error) {
	msg := devlog.ErrorText(err)
	var attrs []slog.Attr
	if cause := devlog.Cause(err); cause != nil {
		if own := strings.TrimSuffix(msg, ": "+devlog.ErrorText(cause)); own != "" {
			msg = own
		}
		attrs = append(attrs, slog.Any("cause", cause))
	}
	logger.Error(ctx, msg, attrs...)
}

// withLogger returns ctx with a logger writing to the environment's stderr,
// unless ctx already carries one.
func withLogger(ctx context.Context) context.Context {
	if !logger.IsDefault(logger.Get(ctx)) {
		return ctx
	}
	env := GetEnv(ctx)
	l, err := logger.Setup(env.Stderr, env.Getenv)
	ctx = logger.Put(ctx, l)
	if err != nil {
		logger.Warn(ctx, "Ignoring invalid logging configuration", slog.Any("cause", err))
	}
	return ctx
}

type unprintableError struct{ err error }

func (e *unprintableError) Error() string { return e.err.Error() }
func (e *unprintableError) Unwrap() error { return e.err }

func isPrintableError(err error) bool {
	for e := range chain(err) {
		if _, ok := e.(*unprintableError); ok || e == flag.ErrHelp {
			return false
		}
	}
	return true
}

// is reports whether target is in the chain of err. Unlike [errors.Is], it
// tolerates nil pointer errors in the chain.
func is(err, target error) bool {
	for e := range chain(err) {
		if e == target {
			return true
		}
	}
	return false
}

// chain yields err followed by its causes.
func chain(err error) iter.Seq[error] {
	return func(yield func(error) bool) {
		if !yield(err) {
			return
		}
		for cause := range devlog.Causes(err) {
			if !yield(cause) {
				return
			}
		}
	}
}

// ErrExitVersion signals that the application should exit successfully after
// printing the version information.
var ErrExitVersion = &unprintableError{errors.New("version flag exit")}

// ErrInvalidArgs indicates that the user provided invalid command-line
// arguments. It should be wrapped with more specific context about the error.
var ErrInvalidArgs = errors.New("invalid arguments")

// App represents a runnable command-line application.
type App interface {
	// Run executes the application's primary logic.
	Run(context.Context) error
}

// HasFlags is an App that can define its own command-line flags.
type HasFlags interface {
	App

	// Flags registers flags with the given FlagSet.
	Flags(*flag.FlagSet)
}

// AppFunc is an adapter to allow the use of ordinary functions as an App.
type AppFunc func(context.Context) error

// Run calls the underlying function.
func (f AppFunc) Run(ctx context.Context) error {
	return f(ctx)
}

type ctxKey int

var envKey ctxKey

// GetEnv retrieves the application's environment from a context.
// If the context has no environment, it returns one based on the current OS.
func GetEnv(ctx context.Context) *Env {
	e, ok := ctx.Value(envKey).(*Env)
	if !ok {
		return OSEnv()
	}
	return e
}

// WithEnv returns a new context that carries the provided application environment.
func WithEnv(ctx context.Context, e *Env) context.Context {
	return context.WithValue(ctx, envKey, e)
}

// Env encapsulates the application's environment, including arguments,
// standard I/O streams, and environment variables.
type Env struct {
	Args   []string
	Getenv func(string) string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// OSEnv creates an Env based on the current operating system environment.
func OSEnv() *Env {
	return &Env{
		Args:   os.Args[1:],
		Getenv: os.Getenv,
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// Run executes an application. It parses flags, handles the -version flag,
// makes sure the context carries a logger and then runs the app.
//
// Run does not log the error returned by the app; [Execute] does.
func Run(ctx context.Context, app App) error {
	name := version.CmdName()

	flags := flag.NewFlagSet(name, flag.ContinueOnError)
	if fa, ok := app.(HasFlags); ok {
		fa.Flags(flags)
	}

	var (
		cpuProfile = flags.String("cpuprofile", "", "Write CPU profile to `file`.")
		memProfile = flags.String("memprofile", "", "Write memory profile to `file`.")
	)
	var showVersion bool
	if flags.Lookup("version") == nil {
		flags.BoolVar(&showVersion, "version", false, "Show version.")
	}

	env := GetEnv(ctx)

	flags.Usage = usage(flags, env.Stderr)
	flags.SetOutput(env.Stderr)
	if err := flags.Parse(env.Args); err != nil {
		// Already printed to stderr by flag package, so mark as an unprintable error.
		return &unprintableError{err}
	}
	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		defer pprof.StopCPUProfile()
	}

	if showVersion {
		fmt.Fprint(env.Stderr, version.Version())
		return ErrExitVersion
	}

	runEnv := *env
	runEnv.Args = flags.Args()
	ctx = withLogger(WithEnv(ctx, &runEnv))

	if err := app.Run(ctx); err != nil {
		return err
	}

	if *memProfile != "" {
		f, err := os.Create(*memProfile)
		if err != nil {
			return fmt.Errorf("could not create memory profile: %w", err)
		}
		defer f.Close()
		runtime.GC() // get up-to-date statistics
		if err := pprof.WriteHeapProfile(f); err != nil {
			return fmt.Errorf("could not write memory profile: %w", err)
		}
	}

	return nil
}

func usage(flags *flag.FlagSet, stderr io.Writer) func() {
	return func() {
		if docSrc != nil {
			fmt.Fprintf(stderr, "%s\n", parseDocComment(docSrc))
		}
		fmt.Fprint(stderr, "Available flags:\n\n")
		flags.PrintDefaults()
		fmt.Fprint(stderr, envHelp)
	}
}

const envHelp = `
Environment:

  LOG_FORMAT   log format: dev (default), compact, text or json
  LOG_LEVEL    minimum level to log, such as debug or warn
  NO_COLOR     disable colored logs
  FORCE_COLOR  enable colored logs even when not writing to a terminal
`

var docSrc []byte

// SetDocComment sets the main documentation for the application, which is
// displayed when a user passes the -help flag. It is intended to be used with
// Go's //go:embed directive.
//
// Example:
//
//	//go:embed doc.go
//	var doc []byte
//
//	func init() { cli.SetDocComment(doc) }
func SetDocComment(src []byte) { docSrc = src }

func parseDocComment(src []byte) string {
	s := bufio.NewScanner(bytes.NewReader(src))
	var (
		doc       strings.Builder
		inComment bool
	)
	for s.Scan() {
		line := s.Text()
		if line == "/*" {
			inComment = true
			continue
		}
		if line == "*/" {
			// Comment ended, stop scanning.
			break
		}
		if inComment {
			doc.WriteString(line + "\n")
		}
	}
	if err := s.Err(); err != nil {
		panic(err)
	}
	return doc.String()
}
