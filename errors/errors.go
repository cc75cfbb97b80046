package errors

import (
	"fmt"
	"strings"
)

// Phase indicates which part of the bridge the error came from
type Phase string

const (
	PhaseValue    Phase = "value"    // value construction and accessors
	PhaseProperty Phase = "property" // object property access
	PhaseIndex    Phase = "index"    // array indexed access
	PhaseCall     Phase = "call"     // function and constructor calls
	PhaseHost     Phase = "host"     // host callable / host object bridge
	PhaseJSON     Phase = "json"     // toJSON / fromJSON
	PhaseHandle   Phase = "handle"   // handle lifecycle
	PhaseEngine   Phase = "engine"   // engine adapter internals
)

// Kind categorizes the error
type Kind string

const (
	KindTypeMismatch     Kind = "type_mismatch"
	KindOutOfRange       Kind = "out_of_range"
	KindCyclicStructure  Kind = "cyclic_structure"
	KindSerialization    Kind = "serialization"
	KindParse            Kind = "parse"
	KindReleased         Kind = "released"
	KindCrossContext     Kind = "cross_context"
	KindException        Kind = "exception"
	KindInterrupted      Kind = "interrupted"
	KindWrongKind        Kind = "wrong_kind"
	KindNotCallable      Kind = "not_callable"
	KindNotConstructible Kind = "not_constructible"
	KindClosed           Kind = "closed"
)

// Error is the catchable failure channel of the bridge. It is what a script
// would observe as a thrown error: every Error can be materialized as a
// script-visible error object with a message, and an engine-thrown value
// survives the trip through host code in Thrown.
type Error struct {
	Thrown   any
	Cause    error
	Phase    Phase
	Kind     Kind
	Expected string
	Actual   string
	Detail   string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Expected != "" || e.Actual != "" {
		b.WriteString(": ")
		if e.Expected != "" && e.Actual != "" {
			b.WriteString("expected ")
			b.WriteString(e.Expected)
			b.WriteString(", got ")
			b.WriteString(e.Actual)
		} else if e.Expected != "" {
			b.WriteString("expected ")
			b.WriteString(e.Expected)
		} else {
			b.WriteString("got ")
			b.WriteString(e.Actual)
		}
	}

	if e.Detail != "" {
		if e.Expected != "" || e.Actual != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Message returns the text a script-visible error object should carry.
// For engine exceptions this is the thrown message alone, so a message
// raised in script code round-trips through host frames unchanged.
func (e *Error) Message() string {
	if e.Kind == KindException && e.Detail != "" {
		return e.Detail
	}
	return e.Error()
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Expected sets the expected type or kind name
func (b *Builder) Expected(name string) *Builder {
	b.err.Expected = name
	return b
}

// Actual sets the actual type or kind name
func (b *Builder) Actual(name string) *Builder {
	b.err.Actual = name
	return b
}

// Thrown sets the engine-side thrown value
func (b *Builder) Thrown(v any) *Builder {
	b.err.Thrown = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, expected, actual string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindTypeMismatch,
		Expected: expected,
		Actual:   actual,
	}
}

// WrongKind creates an error for an as-accessor hitting the wrong value kind
func WrongKind(expected, actual string) *Error {
	return &Error{
		Phase:    PhaseValue,
		Kind:     KindWrongKind,
		Expected: expected,
		Actual:   actual,
	}
}

// OutOfRange creates an index range error
func OutOfRange(index, length int64) *Error {
	return &Error{
		Phase:  PhaseIndex,
		Kind:   KindOutOfRange,
		Detail: fmt.Sprintf("index %d out of range [0, %d)", index, length),
	}
}

// CyclicStructure creates a serialization error for cyclic graphs
func CyclicStructure(detail string) *Error {
	return &Error{
		Phase:  PhaseJSON,
		Kind:   KindCyclicStructure,
		Detail: detail,
	}
}

// Serialization creates a generic serialization error
func Serialization(cause error) *Error {
	return &Error{
		Phase:  PhaseJSON,
		Kind:   KindSerialization,
		Detail: "value is not serializable",
		Cause:  cause,
	}
}

// ParseFailed creates a JSON parse error
func ParseFailed(cause error) *Error {
	return &Error{
		Phase:  PhaseJSON,
		Kind:   KindParse,
		Detail: "invalid JSON input",
		Cause:  cause,
	}
}

// NotCallable creates an error for call attempts on non-callable objects
func NotCallable(actual string) *Error {
	return &Error{
		Phase:    PhaseCall,
		Kind:     KindNotCallable,
		Expected: "function",
		Actual:   actual,
	}
}

// NotConstructible creates an error for `new` on objects without construct
func NotConstructible(actual string) *Error {
	return &Error{
		Phase:    PhaseCall,
		Kind:     KindNotConstructible,
		Expected: "constructor",
		Actual:   actual,
	}
}

// HostObjectMismatch creates an error for a failed host object downcast.
// The message names the expected native type so the failure is diagnosable
// from script code.
func HostObjectMismatch(expected, actual string) *Error {
	return &Error{
		Phase:    PhaseHost,
		Kind:     KindTypeMismatch,
		Expected: expected,
		Actual:   actual,
		Detail:   fmt.Sprintf("object is not a host object of type %s", expected),
	}
}

// Exception wraps a value thrown inside the engine
func Exception(message string, thrown any) *Error {
	return &Error{
		Phase:  PhaseCall,
		Kind:   KindException,
		Detail: message,
		Thrown: thrown,
	}
}

// Interrupted creates an error for an interrupted engine
func Interrupted(detail string) *Error {
	return &Error{
		Phase:  PhaseEngine,
		Kind:   KindInterrupted,
		Detail: detail,
	}
}

// Closed creates an error for operations on a closed context
func Closed(phase Phase) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindClosed,
		Detail: "context is closed",
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
