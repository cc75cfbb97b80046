package errors

import "fmt"

// Fault is the non-recoverable failure channel: a precondition violation in
// host code, such as a wrong-kind Get accessor, a released handle, or a
// handle presented to the wrong context. Faults are delivered by panic and
// are not meant to be caught outside of debug tooling; they never convert
// into an *Error.
type Fault struct {
	Kind   Kind
	Detail string
}

func (f *Fault) Error() string {
	return fmt.Sprintf("fault: %s: %s", f.Kind, f.Detail)
}

// Faultf panics with a formatted Fault.
func Faultf(kind Kind, format string, args ...any) {
	panic(&Fault{Kind: kind, Detail: fmt.Sprintf(format, args...)})
}

// KindFault reports a wrong-kind accessor precondition violation.
func KindFault(expected, actual string) {
	Faultf(KindWrongKind, "value is %s, not %s", actual, expected)
}

// ReleasedFault reports use of a handle after its release.
func ReleasedFault(what string) {
	Faultf(KindReleased, "%s used after release", what)
}

// CrossContextFault reports a handle presented to a foreign context.
func CrossContextFault(what string) {
	Faultf(KindCrossContext, "%s belongs to a different context", what)
}

// AsFault inspects a recovered panic value. It returns the Fault and true
// when the panic came from this package's fault channel.
func AsFault(recovered any) (*Fault, bool) {
	f, ok := recovered.(*Fault)
	return f, ok
}
