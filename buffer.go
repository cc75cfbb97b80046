package jsbridge

// ArrayBuffer wraps a binary-backed object. Bytes returns the raw backing
// memory; the caller must not retain the slice past the buffer's lifetime.
type ArrayBuffer struct {
	Object
}

// NewArrayBufferExternal creates an ArrayBuffer over externally supplied
// bytes. The data is shared, not copied. dealloc is invoked exactly once,
// when the engine releases the buffer or the context closes, whichever
// comes first; it is the single point at which host code reclaims the
// external memory. A nil dealloc is allowed.
func NewArrayBufferExternal(c *Context, data []byte, dealloc Deallocator) ArrayBuffer {
	return ArrayBuffer{Object{h: c.wrap(c.adapter.CreateArrayBuffer(data, dealloc))}}
}

// ByteLength returns the buffer's byteLength property.
func (b ArrayBuffer) ByteLength(c *Context) int64 {
	return c.adapter.BufferByteLength(b.h.checkRef(c, "ArrayBuffer"))
}

// Bytes returns the buffer's backing memory. The slice aliases
// engine-owned (or externally supplied) memory and is only valid while the
// buffer is live.
func (b ArrayBuffer) Bytes(c *Context) []byte {
	return c.adapter.BufferBytes(b.h.checkRef(c, "ArrayBuffer"))
}

// ArrayBufferView wraps a typed-array or DataView object: a window over
// some ArrayBuffer's memory.
type ArrayBufferView struct {
	Object
}

// ByteLength returns the view's length in bytes.
func (v ArrayBufferView) ByteLength(c *Context) int64 {
	return c.adapter.BufferByteLength(v.h.checkRef(c, "ArrayBufferView"))
}

// Bytes returns the view's window into its buffer's backing memory, with
// the same lifetime caveat as ArrayBuffer.Bytes.
func (v ArrayBufferView) Bytes(c *Context) []byte {
	return c.adapter.BufferBytes(v.h.checkRef(c, "ArrayBufferView"))
}

// ViewType identifies which typed-array flavor the view is.
func (v ArrayBufferView) ViewType(c *Context) BufferViewType {
	return c.adapter.ViewType(v.h.checkRef(c, "ArrayBufferView"))
}
