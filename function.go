package jsbridge

// Function refines Object with callability.
type Function struct {
	Object
}

// Call invokes the function with an undefined this value and returns
// exactly one value. Arguments are borrowed: the caller keeps ownership.
// A value thrown by the function surfaces as a catchable *errors.Error.
func (f Function) Call(c *Context, args ...Value) (Value, error) {
	return f.CallWithThis(c, Undefined(), args...)
}

// CallWithThis invokes the function with an explicit this value.
func (f Function) CallWithThis(c *Context, this Value, args ...Value) (Value, error) {
	raw, err := c.adapter.Call(
		f.h.checkRef(c, "function"),
		c.Raw(this),
		c.rawArgs(args),
	)
	if err != nil {
		return Undefined(), err
	}
	return c.Adopt(raw), nil
}

// Construct invokes the function with the script language's `new`
// semantics. This is a distinct engine primitive, not Call with a flag:
// the this binding differs and the engine allocates the instance.
func (f Function) Construct(c *Context, args ...Value) (Value, error) {
	raw, err := c.adapter.Construct(
		f.h.checkRef(c, "function"),
		c.rawArgs(args),
	)
	if err != nil {
		return Undefined(), err
	}
	return c.Adopt(raw), nil
}

// IsHostFunction reports whether the function was created from a host
// callable via NewFunction or NewClass.
func (f Function) IsHostFunction(c *Context) bool {
	return c.adapter.IsHostFunction(f.h.checkRef(c, "function"))
}
