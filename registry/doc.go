// Package registry provides the generation-checked cell table that backs
// every engine-side handle in the bridge.
//
// A cell stores one engine-resident entity (or adapter-side payload) and is
// identified by an opaque ID. IDs encode a slot and a generation: slots are
// reused after release, generations are not, so a stale ID deterministically
// fails to resolve instead of aliasing the slot's next occupant. That
// property is what lets the layer above turn double-release and
// use-after-release into programming-error faults.
//
// Cell values may implement Releaser to run cleanup exactly once, on removal
// or on table close. Observers can watch cell lifecycle events; the engine
// adapter uses this for live-handle accounting.
package registry
