package jsbridge

// String is an engine-resident string. Host code materializes it through
// UTF8; identity and equality live engine-side.
type String struct {
	h Handle
}

// NewString creates an engine string from a Go string. The data is copied.
func NewString(c *Context, s string) String {
	return String{h: c.wrap(c.adapter.CreateString(s))}
}

// UTF8 copies the string's contents into a Go string.
func (s String) UTF8(c *Context) string {
	return c.adapter.UTF8(s.h.checkRef(c, "string"))
}

// StrictEquals reports whether both strings contain the same characters.
func (s String) StrictEquals(c *Context, other String) bool {
	return c.adapter.StrictEquals(
		s.h.checkRef(c, "string"),
		other.h.checkRef(c, "string"),
	)
}

// Value moves the string into a Value, leaving the wrapper empty.
func (s *String) Value() Value {
	return Value{kind: KindString, handle: s.h.take()}
}

// CloneValue returns a Value holding an independent reference to the same
// string; the wrapper stays usable.
func (s String) CloneValue(c *Context) Value {
	return Value{kind: KindString, handle: s.h.clone(c, "string")}
}

// Release invalidates the handle exactly once; empty wrappers are a no-op.
func (s *String) Release(c *Context) {
	s.h.release(c, "string")
}

// Symbol is an engine-resident symbol. The layer can observe symbols
// (equality, toString, property enumeration) but does not create them;
// they arrive from script code.
type Symbol struct {
	h Handle
}

// ToString renders the symbol as the script language's toString would,
// e.g. "Symbol(description)".
func (s Symbol) ToString(c *Context) string {
	return c.adapter.SymbolToString(s.h.checkRef(c, "symbol"))
}

// StrictEquals reports whether both wrappers refer to the same symbol.
func (s Symbol) StrictEquals(c *Context, other Symbol) bool {
	return c.adapter.StrictEquals(
		s.h.checkRef(c, "symbol"),
		other.h.checkRef(c, "symbol"),
	)
}

// Value moves the symbol into a Value, leaving the wrapper empty.
func (s *Symbol) Value() Value {
	return Value{kind: KindSymbol, handle: s.h.take()}
}

// CloneValue returns a Value holding an independent reference to the same
// symbol.
func (s Symbol) CloneValue(c *Context) Value {
	return Value{kind: KindSymbol, handle: s.h.clone(c, "symbol")}
}

// Release invalidates the handle exactly once.
func (s *Symbol) Release(c *Context) {
	s.h.release(c, "symbol")
}
