package jsbridge

import (
	"github.com/hostside/jsbridge/errors"
)

// Handle is an opaque reference to an engine-resident entity, scoped to the
// context that issued it. The zero Handle holds nothing; releasing it is a
// no-op. Handles are never copied implicitly by the layer: duplication goes
// through an explicit engine-mediated clone, and release happens exactly
// once.
type Handle struct {
	ctx uint64
	ref Ref
}

// Valid reports whether the handle refers to an entity.
func (h Handle) Valid() bool {
	return h.ref != 0
}

// checkRef validates context ownership and returns the bare adapter ref.
// A zero handle or a handle from a foreign context is a fault.
func (h Handle) checkRef(c *Context, what string) Ref {
	if h.ref == 0 {
		errors.ReleasedFault(what)
	}
	if h.ctx != c.id {
		errors.CrossContextFault(what)
	}
	return h.ref
}

// take moves the handle out, leaving the source empty.
func (h *Handle) take() Handle {
	out := *h
	*h = Handle{}
	return out
}

// release invalidates the handle exactly once. Empty handles are ignored.
func (h *Handle) release(c *Context, what string) {
	if h.ref == 0 {
		return
	}
	ref := h.checkRef(c, what)
	c.adapter.InvalidateHandle(ref)
	*h = Handle{}
}

// clone asks the engine for a second reference to the same entity.
func (h Handle) clone(c *Context, what string) Handle {
	ref := h.checkRef(c, what)
	return Handle{ctx: c.id, ref: c.adapter.CloneHandle(ref)}
}
