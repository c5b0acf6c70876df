// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package devlog

import (
	"errors"
	"fmt"
	"iter"
	"reflect"
)

// MaxCauseDepth is the maximum number of causes listed for one error.
const MaxCauseDepth = 64

const truncatedItem = "(cause chain truncated)"

// Causes returns an iterator over the causes of err, starting with its
// immediate cause and ending with the root cause.
//
// Causes are found with [errors.Unwrap], so errors that wrap several
// errors (such as those returned by [errors.Join]) have no cause here.
//
// The iteration stops early at a pointer error already seen in the chain,
// or after [MaxCauseDepth] causes.
func Causes(err error) iter.Seq[error] {
	return func(yield func(error) bool) {
		walkCauses(err, yield)
	}
}

// walkCauses yields causes of err and reports whether the chain was cut
// short.
func walkCauses(err error, yield func(error) bool) (truncated bool) {
	var seen map[error]struct{}
	if isPointer(err) {
		seen = map[error]struct{}{err: {}}
	}
	for depth := 0; ; depth++ {
		err = Cause(err)
		if err == nil {
			return false
		}
		if depth == MaxCauseDepth {
			return true
		}
		if isPointer(err) {
			if _, ok := seen[err]; ok {
				return true
			}
			if seen == nil {
				seen = make(map[error]struct{})
			}
			seen[err] = struct{}{}
		}
		if !yield(err) {
			return false
		}
	}
}

// Cause returns the immediate cause of err, like [errors.Unwrap]. A nil
// pointer cause, or an Unwrap method that panics, means err has no cause.
func Cause(err error) (cause error) {
	if IsNil(err) {
		return nil
	}
	defer func() {
		if recover() != nil {
			cause = nil
		}
	}()
	cause = errors.Unwrap(err)
	if IsNil(cause) {
		return nil
	}
	return cause
}

// ErrorText returns the message of err. Nil errors, including nil
// pointers, read "<nil>", and a panicking Error method reads
// "!PANIC: " followed by the panic value.
func ErrorText(err error) (text string) {
	if IsNil(err) {
		return "<nil>"
	}
	defer func() {
		if r := recover(); r != nil {
			text = fmt.Sprintf("!PANIC: %v", r)
		}
	}()
	return err.Error()
}

// IsNil reports whether err is nil or a nil pointer.
func IsNil(err error) bool {
	return err == nil || isPointer(err) && reflect.ValueOf(err).IsNil()
}

// isPointer reports whether err can be used as a map key by identity.
// Other dynamic types may not be comparable.
func isPointer(err error) bool {
	t := reflect.TypeOf(err)
	return t != nil && t.Kind() == reflect.Pointer
}

// cause writes an error field's value. The field name has already been
// written.
func (s *renderState) cause(err error) {
	if Cause(err) == nil {
		s.write(" ", ErrorText(err))
		return
	}

	s.listItem(ErrorText(err))
	truncated := walkCauses(err, func(cause error) bool {
		s.listItem(ErrorText(cause))
		return s.err == nil
	})
	if truncated {
		s.listItem(truncatedItem)
	}
}
