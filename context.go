package jsbridge

import (
	"sync/atomic"
)

var nextContextID atomic.Uint64

// Context pairs an engine Adapter with a process-unique identity. All
// operations in this package take the Context; handles are scoped to
// exactly one Context, and a Context (plus everything bound to it) must be
// confined to one logical thread of control.
type Context struct {
	adapter Adapter
	id      uint64
}

// NewContext wraps an adapter into a Context. Engine packages call this
// once per engine instance; host code normally receives the Context from
// the engine package's constructor.
func NewContext(a Adapter) *Context {
	return &Context{
		adapter: a,
		id:      nextContextID.Add(1),
	}
}

// Adapter returns the underlying engine adapter.
func (c *Context) Adapter() Adapter {
	return c.adapter
}

// Global returns the engine's global object. The returned Object owns an
// independent handle and must be released like any other.
func (c *Context) Global() Object {
	return Object{h: c.wrap(c.adapter.Global())}
}

// Evaluate runs script source in this context and returns its completion
// value. sourceURL names the script for diagnostics. A value thrown by the
// script surfaces as a catchable *errors.Error with the thrown value
// preserved.
func (c *Context) Evaluate(src, sourceURL string) (Value, error) {
	raw, err := c.adapter.Evaluate(src, sourceURL)
	if err != nil {
		return Undefined(), err
	}
	return c.Adopt(raw), nil
}

// LiveCells reports the number of live engine-side cells, for diagnostics.
func (c *Context) LiveCells() int {
	return c.adapter.LiveCells()
}

// Close releases every live handle and shuts the adapter down. External
// ArrayBuffer deallocators that have not fired yet fire here, exactly once
// each. Close is idempotent.
func (c *Context) Close() error {
	return c.adapter.Close()
}

// Adopt wraps an adapter-produced RawValue into a Value owned by this
// context. It is the low-level seam used by engine adapters; host code has
// no reason to call it.
func (c *Context) Adopt(raw RawValue) Value {
	v := Value{kind: raw.Kind, num: raw.Num, boolean: raw.Bool}
	if raw.Ref != 0 {
		v.handle = Handle{ctx: c.id, ref: raw.Ref}
	}
	return v
}

// Raw converts a Value back to its plain-data adapter form, validating
// context ownership. Like Adopt, it exists for engine adapters.
func (c *Context) Raw(v Value) RawValue {
	raw := RawValue{Kind: v.kind, Num: v.num, Bool: v.boolean}
	if v.handle.Valid() {
		raw.Ref = v.handle.checkRef(c, "value")
	}
	return raw
}

// wrap tags a fresh adapter ref with this context's identity.
func (c *Context) wrap(ref Ref) Handle {
	return Handle{ctx: c.id, ref: ref}
}

// rawArgs converts a borrowed argument list for an adapter call.
func (c *Context) rawArgs(args []Value) []RawValue {
	if len(args) == 0 {
		return nil
	}
	out := make([]RawValue, len(args))
	for i, a := range args {
		out[i] = c.Raw(a)
	}
	return out
}
