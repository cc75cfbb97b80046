// Package jsbridge is a host-side value and object model for an embedded
// script engine. It lets native Go code create, inspect, and mutate values
// living inside the engine, expose Go functions and Go-backed classes as
// callable script objects, and do so without depending on any engine's
// internal representation.
//
// # Architecture
//
// The package is built around four ideas:
//
//	Handle   - an opaque reference to one engine-resident entity
//	Value    - a closed tagged union over the script language's value kinds
//	Object   - a reference-kind value with property access, refined at
//	           runtime into Array, ArrayBuffer, ArrayBufferView, Function
//	Adapter  - the single engine-specific seam; everything else is written
//	           purely against its contract
//
// A Context pairs an Adapter with an identity. Every operation takes the
// Context; handles are scoped to exactly one Context and presenting a handle
// to a foreign Context is a programming-error fault. The layer is
// single-threaded by contract: a Context and everything bound to it belong
// to one logical thread of control.
//
// # Ownership
//
// Go has no destructors, so ownership is explicit: reference-kind values and
// wrappers hold exactly one handle, release it exactly once through
// Release, and duplicate it only through an engine-mediated clone (a second
// reference to the same entity, never a structural copy). Take-style
// accessors move the handle out, leaving the source empty; releasing an
// empty wrapper is a no-op. Stale handles do not dangle: the engine adapter
// detects use after release deterministically and faults.
//
// # Errors
//
// Failures travel on two channels that never mix. Precondition violations
// (wrong-kind Get accessors, released handles, cross-context use) are
// faults, delivered by panic via the errors package's Fault type. Everything
// a script could legitimately observe - type mismatches from As accessors,
// index range errors, failed host-object downcasts, cyclic JSON graphs,
// exceptions thrown inside the engine - is an *errors.Error returned as an
// ordinary Go error.
//
// The engine adapter for goja lives in the engine subpackage.
package jsbridge
