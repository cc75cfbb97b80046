// Package errors provides the two failure channels of the jsbridge library.
//
// Catchable script errors are represented by Error, categorized by Phase
// (where the failure occurred) and Kind (what failed). An Error carries the
// message a script-visible error object should show, and for engine
// exceptions preserves the thrown value in Thrown so it can be rethrown
// unchanged.
//
// Use the Builder for structured construction:
//
//	err := errors.New(errors.PhaseProperty, errors.KindTypeMismatch).
//		Expected("function").
//		Actual("number").
//		Detail("property %q is not callable", name).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.WrongKind("string", "number")
//	err := errors.OutOfRange(10, 5)
//
// All errors implement the standard error interface and support errors.Is/As.
//
// Programming-error faults (precondition violations such as a wrong-kind Get
// accessor or use of a released handle) use the separate Fault type and are
// delivered by panic. The two channels never convert into each other.
package errors
