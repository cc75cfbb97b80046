package jsbridge

// PropKey is an interned, immutable property identifier. Interning happens
// in the adapter: equal strings produce the same underlying key, and keys
// live until the context closes, so PropKey has no release operation.
// Pre-interning a key once and reusing it avoids re-interning on every
// property access.
type PropKey struct {
	h Handle
}

// NewPropKey interns a property key from a Go string. The data is copied.
func NewPropKey(c *Context, name string) PropKey {
	return PropKey{h: c.wrap(c.adapter.InternKey(name))}
}

// KeyFromString interns a property key from an engine string.
func KeyFromString(c *Context, s String) PropKey {
	return PropKey{h: c.wrap(c.adapter.KeyFromString(s.h.checkRef(c, "string")))}
}

// UTF8 copies the key's text into a Go string.
func (k PropKey) UTF8(c *Context) string {
	return c.adapter.KeyUTF8(k.h.checkRef(c, "property key"))
}

// KeysEqual reports whether two keys identify the same property,
// independently of engine representation.
func KeysEqual(c *Context, a, b PropKey) bool {
	return c.adapter.KeysEqual(
		a.h.checkRef(c, "property key"),
		b.h.checkRef(c, "property key"),
	)
}
