// © 2026 Ilya Mateyko. All rights reserved.
// Use of this source code is governed by the ISC
// license that can be found in the LICENSE.md file.

package devlog

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// Kind is the kind of a [Value].
type Kind int

const (
	// KindGeneric values are rendered in their debug form.
	KindGeneric Kind = iota
	// KindError values are rendered as a list of their causes.
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindGeneric:
		return "Generic"
	case KindError:
		return "Error"
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// Value is the value of a [Field]. The zero Value is a generic value that
// renders as "<nil>".
type Value struct {
	kind     Kind
	v        slog.Value
	err      error
	verbatim bool
}

// Kind returns the kind of v.
func (v Value) Kind() Kind { return v.kind }

// AsError returns the error held by v, or nil if v is not of [KindError].
func (v Value) AsError() error { return v.err }

// Slog returns the generic value held by v.
func (v Value) Slog() slog.Value { return v.v }

// GenericValue returns a generic Value for v.
func GenericValue(v slog.Value) Value { return Value{kind: KindGeneric, v: v} }

// ErrorValue returns an error Value for err.
// A nil err, or a nil pointer, becomes a generic Value.
func ErrorValue(err error) Value {
	if IsNil(err) {
		return GenericValue(slog.AnyValue(nil))
	}
	return Value{kind: KindError, err: err}
}

// TextValue returns a generic Value whose debug form is s itself, unquoted.
func TextValue(s string) Value {
	return Value{kind: KindGeneric, v: slog.StringValue(s), verbatim: true}
}

// FromSlog converts an [slog.Value] to a Value. Values holding an error
// become error values; everything else is generic.
func FromSlog(v slog.Value) Value {
	v = v.Resolve()
	if v.Kind() == slog.KindAny {
		if err, ok := v.Any().(error); ok {
			return ErrorValue(err)
		}
	}
	return GenericValue(v)
}

// Field is a named value attached to a log event.
type Field struct {
	Name  string
	Value Value
}

// Message returns the field that carries an event's message.
func Message(msg string) Field { return Field{Name: slog.MessageKey, Value: TextValue(msg)} }

// String returns a string field.
func String(name, value string) Field {
	return Field{Name: name, Value: GenericValue(slog.StringValue(value))}
}

// Any returns a field for an arbitrary value.
func Any(name string, value any) Field {
	return Field{Name: name, Value: FromSlog(slog.AnyValue(value))}
}

// Err returns an error field.
func Err(name string, err error) Field {
	return Field{Name: name, Value: ErrorValue(err)}
}

// debug returns the debug form of v. Errors read as their message.
func (v Value) debug() string {
	if v.kind == KindError {
		return ErrorText(v.err)
	}
	if v.verbatim {
		return v.v.String()
	}
	var sb strings.Builder
	appendDebug(&sb, v.v)
	return sb.String()
}

func appendDebug(sb *strings.Builder, v slog.Value) {
	v = v.Resolve()
	switch v.Kind() {
	case slog.KindString:
		sb.WriteString(strconv.Quote(v.String()))
	case slog.KindInt64:
		sb.WriteString(strconv.FormatInt(v.Int64(), 10))
	case slog.KindUint64:
		sb.WriteString(strconv.FormatUint(v.Uint64(), 10))
	case slog.KindFloat64:
		sb.WriteString(strconv.FormatFloat(v.Float64(), 'g', -1, 64))
	case slog.KindBool:
		sb.WriteString(strconv.FormatBool(v.Bool()))
	case slog.KindDuration:
		sb.WriteString(v.Duration().String())
	case slog.KindTime:
		sb.WriteString(v.Time().Format(time.RFC3339Nano))
	case slog.KindGroup:
		sb.WriteByte('{')
		for i, a := range v.Group() {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(a.Key)
			sb.WriteString(": ")
			appendDebug(sb, a.Value)
		}
		sb.WriteByte('}')
	default:
		appendAny(sb, v.Any())
	}
}

func appendAny(sb *strings.Builder, x any) {
	switch x := x.(type) {
	case nil:
		sb.WriteString("<nil>")
	case []byte:
		sb.WriteString(strconv.Quote(string(x)))
	case error:
		sb.WriteString(strconv.Quote(ErrorText(x)))
	default:
		fmt.Fprintf(sb, "%+v", x)
	}
}
