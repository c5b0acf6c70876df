// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package devlog

import (
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"slices"
	"strings"
	"testing"
	"time"

	"go.astrophena.name/devscripts/testutil"
)

type chainError struct {
	msg   string
	cause error
}

func (e *chainError) Error() string { return e.msg }
func (e *chainError) Unwrap() error { return e.cause }

// selfError is its own cause.
type selfError struct{ msg string }

func (e *selfError) Error() string { return e.msg }
func (e *selfError) Unwrap() error { return e }

// valueLoop is a non-pointer error with an endless chain of causes.
type valueLoop struct{}

func (valueLoop) Error() string { return "again" }
func (valueLoop) Unwrap() error { return valueLoop{} }

// panicError panics when asked for its message or cause.
type panicError struct{}

func (panicError) Error() string { panic("boom") }
func (panicError) Unwrap() error { panic("boom") }

func chain(msgs ...string) error {
	var err error
	for _, msg := range slices.Backward(msgs) {
		if err == nil {
			err = errors.New(msg)
			continue
		}
		err = &chainError{msg: msg, cause: err}
	}
	return err
}

func render(t *testing.T, color bool, fields ...Field) string {
	t.Helper()
	var sb strings.Builder
	if err := Render(&sb, slices.Values(fields), color); err != nil {
		t.Fatalf("Render: %v", err)
	}
	return sb.String()
}

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func TestRender(t *testing.T) {
	cases := map[string]struct {
		fields []Field
		want   string
	}{
		"no fields": {
			want: "",
		},
		"message only": {
			fields: []Field{Message("Something went wrong")},
			want:   "Something went wrong",
		},
		"string fields": {
			fields: []Field{
				Message("Something went wrong"),
				String("reason", "Bad things"),
				String("severity", "BAD"),
			},
			want: "Something went wrong\n  reason: \"Bad things\"\n  severity: \"BAD\"",
		},
		"error with cause": {
			fields: []Field{
				Message("Request failed"),
				Err("cause", chain("connect timed out", "network unreachable")),
			},
			want: "Request failed\n  cause:\n    - connect timed out\n    - network unreachable",
		},
		"error without cause": {
			fields: []Field{
				Message("Request failed"),
				Err("cause", errors.New("network unreachable")),
			},
			want: "Request failed\n  cause: network unreachable",
		},
		"empty string": {
			fields: []Field{Message("m"), String("reason", "")},
			want:   "m\n  reason: \"\"",
		},
		"empty message": {
			fields: []Field{Message(""), String("a", "b")},
			want:   "\n  a: \"b\"",
		},
		"fields after error list": {
			fields: []Field{
				Message("m"),
				Err("cause", chain("a", "b", "c")),
				Any("attempt", 3),
			},
			want: "m\n  cause:\n    - a\n    - b\n    - c\n  attempt: 3",
		},
		"first field is written bare whatever its name": {
			fields: []Field{String("first", "quoted"), String("second", "x")},
			want:   "\"quoted\"\n  second: \"x\"",
		},
		"nil error": {
			fields: []Field{Message("m"), Err("cause", nil)},
			want:   "m\n  cause: <nil>",
		},
		"nil pointer error": {
			fields: []Field{Message("m"), Err("cause", (*chainError)(nil)), Any("other", (*chainError)(nil))},
			want:   "m\n  cause: <nil>\n  other: <nil>",
		},
		"nil pointer cause ends the chain": {
			fields: []Field{
				Message("m"),
				Err("cause", &chainError{msg: "a", cause: &chainError{msg: "b", cause: (*chainError)(nil)}}),
			},
			want: "m\n  cause:\n    - a\n    - b",
		},
		"panicking error": {
			fields: []Field{Message("m"), Err("cause", panicError{}), Any("v", panicError{})},
			want:   "m\n  cause: !PANIC: boom\n  v: !PANIC: boom",
		},
		"error as first field": {
			fields: []Field{Err("msg", chain("a", "b")), String("c", "d")},
			want:   "a\n  c: \"d\"",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			testutil.AssertEqual(t, render(t, false, tc.fields...), tc.want)
		})
	}
}

func TestRenderColor(t *testing.T) {
	got := render(t, true,
		Message("Request failed"),
		String("reason", "Bad things"),
		Err("cause", chain("connect timed out", "network unreachable")),
	)
	want := "Request failed" +
		"\n  \x1b[36mreason\x1b[37m:\x1b[0m \"Bad things\"" +
		"\n  \x1b[36mcause\x1b[37m:\x1b[0m" +
		"\n    \x1b[37m-\x1b[0m connect timed out" +
		"\n    \x1b[37m-\x1b[0m network unreachable"
	testutil.AssertEqual(t, got, want)
}

func TestRenderColorOnlyAddsEscapes(t *testing.T) {
	events := map[string][]Field{
		"strings": {Message("m"), String("a", "b"), Any("n", 42)},
		"errors": {
			Message("m"),
			Err("plain", errors.New("x")),
			Err("chained", chain("a", "b", "c")),
			Err("looping", &selfError{msg: "loop"}),
		},
		"message only": {Message("m")},
	}
	for name, fields := range events {
		t.Run(name, func(t *testing.T) {
			plain := render(t, false, fields...)
			colored := render(t, true, fields...)
			testutil.AssertEqual(t, ansi.ReplaceAllString(colored, ""), plain)
			if strings.ContainsRune(plain, '\x1b') {
				t.Fatalf("uncolored output contains escapes: %q", plain)
			}
		})
	}
}

func TestRenderDelimiters(t *testing.T) {
	for n := range 6 {
		t.Run(fmt.Sprint(n), func(t *testing.T) {
			fields := []Field{Message("m")}
			for i := range n {
				fields = append(fields, Any(fmt.Sprintf("f%d", i), i))
			}
			got := render(t, false, fields...)
			testutil.AssertEqual(t, strings.Count(got, fieldDelimiter), n)
			if !strings.HasPrefix(got, "m") {
				t.Fatalf("output %q does not start with the message", got)
			}
			if strings.HasSuffix(got, fieldDelimiter) {
				t.Fatalf("output %q ends with a delimiter", got)
			}

			// Fields keep their order.
			last := -1
			for i := range n {
				idx := strings.Index(got, fmt.Sprintf("f%d: %d", i, i))
				if idx <= last {
					t.Fatalf("field f%d out of order in %q", i, got)
				}
				last = idx
			}
		})
	}
}

func TestRenderErrorWithoutCauseIsPlainString(t *testing.T) {
	for _, color := range []bool{false, true} {
		asErr := render(t, color, Message("m"), Err("cause", errors.New("permission denied")))
		asText := render(t, color, Message("m"), Field{Name: "cause", Value: TextValue("permission denied")})
		testutil.AssertEqual(t, asErr, asText)
	}
}

func TestRenderCauseChainLength(t *testing.T) {
	for k := 1; k <= 5; k++ {
		t.Run(fmt.Sprint(k), func(t *testing.T) {
			msgs := make([]string, k+1)
			for i := range msgs {
				msgs[i] = fmt.Sprintf("e%d", i)
			}
			got := render(t, false, Message("m"), Err("cause", chain(msgs...)))

			var want strings.Builder
			want.WriteString("m\n  cause:")
			for _, msg := range msgs {
				want.WriteString("\n    - " + msg)
			}
			testutil.AssertEqual(t, got, want.String())
		})
	}
}

func TestRenderIsRepeatable(t *testing.T) {
	fields := []Field{
		Message("m"),
		Any("group", slog.GroupValue(slog.Int("a", 1), slog.String("b", "x"))),
		Err("cause", chain("a", "b")),
	}
	testutil.AssertEqual(t, render(t, false, fields...), render(t, false, fields...))
	testutil.AssertEqual(t, render(t, true, fields...), render(t, true, fields...))
}

func TestRenderCycles(t *testing.T) {
	t.Run("self cause", func(t *testing.T) {
		got := render(t, false, Message("m"), Err("cause", &selfError{msg: "loop"}))
		testutil.AssertEqual(t, got, "m\n  cause:\n    - loop\n    - (cause chain truncated)")
	})

	t.Run("two pointer cycle", func(t *testing.T) {
		a := &chainError{msg: "a"}
		b := &chainError{msg: "b", cause: a}
		a.cause = b
		got := render(t, false, Message("m"), Err("cause", a))
		testutil.AssertEqual(t, got, "m\n  cause:\n    - a\n    - b\n    - (cause chain truncated)")
	})

	t.Run("value loop", func(t *testing.T) {
		got := render(t, false, Message("m"), Err("cause", valueLoop{}))
		testutil.AssertEqual(t, strings.Count(got, "\n    - again"), MaxCauseDepth+1)
		if !strings.HasSuffix(got, "\n    - (cause chain truncated)") {
			t.Fatalf("missing truncation marker: %q", got[len(got)-40:])
		}
	})

	t.Run("long chain", func(t *testing.T) {
		msgs := make([]string, MaxCauseDepth+10)
		for i := range msgs {
			msgs[i] = fmt.Sprintf("e%d", i)
		}
		got := render(t, false, Message("m"), Err("cause", chain(msgs...)))
		testutil.AssertEqual(t, strings.Count(got, listItemDelimiter), MaxCauseDepth+2)
	})
}

type failingWriter struct {
	ok     int
	writes int
}

var errSinkClosed = errors.New("sink closed")

func (w *failingWriter) Write(p []byte) (int, error) {
	w.writes++
	if w.writes > w.ok {
		return 0, errSinkClosed
	}
	return len(p), nil
}

func TestRenderLatchesWriteError(t *testing.T) {
	fields := []Field{
		Message("m"),
		String("a", "b"),
		Err("cause", chain("x", "y", "z")),
		String("c", "d"),
	}
	for ok := range 8 {
		t.Run(fmt.Sprint(ok), func(t *testing.T) {
			w := &failingWriter{ok: ok}
			err := Render(w, slices.Values(fields), true)
			var fe *FormatError
			if !errors.As(err, &fe) {
				t.Fatalf("want *FormatError, got %v", err)
			}
			if !errors.Is(err, errSinkClosed) {
				t.Fatalf("want error wrapping %v, got %v", errSinkClosed, err)
			}
			testutil.AssertEqual(t, w.writes, ok+1)
		})
	}
}

func TestCauses(t *testing.T) {
	got := slices.Collect(Causes(chain("a", "b", "c")))
	var msgs []string
	for _, err := range got {
		msgs = append(msgs, err.Error())
	}
	testutil.AssertEqual(t, msgs, []string{"b", "c"})

	testutil.AssertEqual(t, len(slices.Collect(Causes(errors.New("x")))), 0)
	testutil.AssertEqual(t, len(slices.Collect(Causes(nil))), 0)
	testutil.AssertEqual(t, len(slices.Collect(Causes((*chainError)(nil)))), 0)
	testutil.AssertEqual(t, len(slices.Collect(Causes(panicError{}))), 0)
	testutil.AssertEqual(t, len(slices.Collect(Causes(&selfError{}))), 0)
	testutil.AssertEqual(t, len(slices.Collect(Causes(valueLoop{}))), MaxCauseDepth)

	wrapped := fmt.Errorf("open config: %w", errors.Join(errors.New("a"), errors.New("b")))
	testutil.AssertEqual(t, len(slices.Collect(Causes(wrapped))), 1)

	// Stopping early is allowed.
	for range Causes(chain("a", "b", "c", "d")) {
		break
	}
}

type point struct{ X, Y int }

type token string

func (token) LogValue() slog.Value { return slog.StringValue("REDACTED") }

func TestDebugForm(t *testing.T) {
	ts := time.Date(2026, 10, 19, 12, 30, 0, 0, time.UTC)
	cases := map[string]struct {
		v    any
		want string
	}{
		"string":      {"x y", `"x y"`},
		"escaped":     {"a\"b\n", `"a\"b\n"`},
		"int":         {-7, "-7"},
		"uint":        {uint64(7), "7"},
		"float":       {1.5, "1.5"},
		"bool":        {true, "true"},
		"duration":    {1500 * time.Millisecond, "1.5s"},
		"time":        {ts, "2026-10-19T12:30:00Z"},
		"bytes":       {[]byte("raw"), `"raw"`},
		"nil":         {nil, "<nil>"},
		"struct":      {point{1, 2}, "{X:1 Y:2}"},
		"slice":       {[]int{1, 2}, "[1 2]"},
		"log valuer":  {token("secret"), `"REDACTED"`},
		"group value": {slog.GroupValue(slog.Int("a", 1), slog.Group("b", slog.String("c", "d"))), `{a: 1, b: {c: "d"}}`},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got := render(t, false, Message("m"), Any("v", tc.v))
			testutil.AssertEqual(t, got, "m\n  v: "+tc.want)
		})
	}
}

func TestFromSlog(t *testing.T) {
	err := errors.New("boom")
	testutil.AssertEqual(t, FromSlog(slog.AnyValue(err)).Kind(), KindError)
	testutil.AssertEqual(t, FromSlog(slog.AnyValue(err)).AsError(), err)
	testutil.AssertEqual(t, FromSlog(slog.StringValue("boom")).Kind(), KindGeneric)
	testutil.AssertEqual(t, FromSlog(slog.AnyValue(nil)).Kind(), KindGeneric)
	testutil.AssertEqual(t, ErrorValue(nil).Kind(), KindGeneric)
	testutil.AssertEqual(t, FromSlog(slog.AnyValue((*chainError)(nil))).Kind(), KindGeneric)
	testutil.AssertEqual(t, ErrorValue((*chainError)(nil)).Kind(), KindGeneric)
	testutil.AssertEqual(t, Value{}.Kind(), KindGeneric)
	testutil.AssertEqual(t, KindError.String(), "Error")
}
