package jsbridge

// WeakObject is a non-owning observation of an Object. It does not keep
// the referent alive: once the engine's memory manager reclaims the
// object, Lock returns undefined. Lock has no concurrency meaning; it only
// reflects whether collection has happened.
type WeakObject struct {
	h Handle
}

// NewWeakObject takes a weak reference to an object.
func NewWeakObject(c *Context, o Object) WeakObject {
	return WeakObject{h: c.wrap(c.adapter.CreateWeak(o.h.checkRef(c, "object")))}
}

// Lock returns the referent as a live Value, or undefined if the engine
// has already reclaimed it.
func (w WeakObject) Lock(c *Context) Value {
	return c.Adopt(c.adapter.LockWeak(w.h.checkRef(c, "weak reference")))
}

// Release invalidates the weak reference itself (not the referent).
func (w *WeakObject) Release(c *Context) {
	w.h.release(c, "weak reference")
}
