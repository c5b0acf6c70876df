// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package devlog

import (
	"io"
	"iter"
)

const (
	fieldDelimiter    = "\n  "
	listItemDelimiter = "\n    "

	cyan  = "\x1b[36m"
	gray  = "\x1b[37m"
	reset = "\x1b[0m"
)

// FormatError is returned by [Render] when writing to the sink fails.
type FormatError struct {
	Err error
}

func (e *FormatError) Error() string { return "devlog: write failed: " + e.Err.Error() }
func (e *FormatError) Unwrap() error { return e.Err }

// Render writes fields to w in the multi-line format.
//
// The first field is the event message and is written bare. Every other
// field goes on its own indented line as "name: value". Error fields with
// causes are written as a list, one item per error in the chain:
//
//	Request failed
//	  cause:
//	    - connect timed out
//	    - network unreachable
//
// If color is true, field names and list bullets are wrapped in ANSI
// escape sequences; the text is otherwise the same.
//
// The first failed write stops rendering and is returned as a
// [*FormatError].
func Render(w io.Writer, fields iter.Seq[Field], color bool) error {
	s := &renderState{w: w, color: color, first: true}
	for f := range fields {
		s.field(f)
		if s.err != nil {
			break
		}
	}
	if s.err != nil {
		return &FormatError{Err: s.err}
	}
	return nil
}

// renderState lives for a single Render call. Once err is set, every
// write is a no-op.
type renderState struct {
	w     io.Writer
	color bool
	first bool
	err   error
}

func (s *renderState) write(parts ...string) {
	for _, p := range parts {
		if s.err != nil {
			return
		}
		_, s.err = io.WriteString(s.w, p)
	}
}

func (s *renderState) field(f Field) {
	if s.first {
		s.first = false
		s.write(f.Value.debug())
		return
	}

	s.write(fieldDelimiter)
	s.name(f.Name)
	if f.Value.Kind() == KindError {
		s.cause(f.Value.err)
		return
	}
	s.write(" ", f.Value.debug())
}

func (s *renderState) name(name string) {
	if s.color {
		s.write(cyan, name, gray, ":", reset)
		return
	}
	s.write(name, ":")
}

func (s *renderState) listItem(text string) {
	if s.color {
		s.write(listItemDelimiter, gray, "-", reset, " ", text)
		return
	}
	s.write(listItemDelimiter, "- ", text)
}
