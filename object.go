package jsbridge

import (
	"github.com/hostside/jsbridge/errors"
)

// Object is a reference-kind value with property access. Refined
// capabilities (indexable, callable, binary-backed) are discovered at
// runtime through Is queries and reached through checked Get/As casts that
// reinterpret the same underlying entity; there is no static subtyping.
type Object struct {
	h Handle
}

// NewObject creates a fresh empty object, like `{}` in script.
func NewObject(c *Context) Object {
	return Object{h: c.wrap(c.adapter.CreateObject())}
}

// Value moves the object into a Value, leaving the wrapper empty.
func (o *Object) Value() Value {
	return Value{kind: KindObject, handle: o.h.take()}
}

// CloneValue returns a Value holding an independent reference to the same
// object; the wrapper stays usable.
func (o Object) CloneValue(c *Context) Value {
	return Value{kind: KindObject, handle: o.h.clone(c, "object")}
}

// Clone returns an independent wrapper for the same object.
func (o Object) Clone(c *Context) Object {
	return Object{h: o.h.clone(c, "object")}
}

// Release invalidates the handle exactly once; empty wrappers are a no-op.
func (o *Object) Release(c *Context) {
	o.h.release(c, "object")
}

// Live reports whether the wrapper still owns its handle.
func (o Object) Live() bool {
	return o.h.Valid()
}

// StrictEquals reports whether both wrappers refer to the same object.
func (o Object) StrictEquals(c *Context, other Object) bool {
	return c.adapter.StrictEquals(
		o.h.checkRef(c, "object"),
		other.h.checkRef(c, "object"),
	)
}

// InstanceOf returns the result of `o instanceof ctor` in script.
func (o Object) InstanceOf(c *Context, ctor Function) (bool, error) {
	return c.adapter.InstanceOf(
		o.h.checkRef(c, "object"),
		ctor.h.checkRef(c, "constructor"),
	)
}

// GetProperty returns the named property, or undefined if the object has
// no such property. The name is interned through the adapter first; use
// the PropKey form on hot paths.
func (o Object) GetProperty(c *Context, name string) (Value, error) {
	return o.GetPropertyByKey(c, NewPropKey(c, name))
}

// GetPropertyByKey returns the property named by an interned key.
func (o Object) GetPropertyByKey(c *Context, key PropKey) (Value, error) {
	raw, err := c.adapter.GetProperty(
		o.h.checkRef(c, "object"),
		key.h.checkRef(c, "property key"),
	)
	if err != nil {
		return Undefined(), err
	}
	return c.Adopt(raw), nil
}

// SetProperty sets the named property from a Value or anything convertible
// to one: nil, bool, integer and float types, string, Value, or any of the
// reference wrappers. The value argument is borrowed: a passed Value or
// wrapper still belongs to the caller afterwards, so pass the wrapper
// itself rather than a cloned temporary the caller would have to release.
func (o Object) SetProperty(c *Context, name string, value any) error {
	return o.SetPropertyByKey(c, NewPropKey(c, name), value)
}

// SetPropertyByKey sets the property named by an interned key.
func (o Object) SetPropertyByKey(c *Context, key PropKey, value any) error {
	v := ToValue(c, value)
	defer v.Release(c)
	return c.adapter.SetProperty(
		o.h.checkRef(c, "object"),
		key.h.checkRef(c, "property key"),
		c.Raw(v),
	)
}

// HasProperty reports whether the object (or its prototype chain) has the
// named property.
func (o Object) HasProperty(c *Context, name string) (bool, error) {
	return o.HasPropertyByKey(c, NewPropKey(c, name))
}

// HasPropertyByKey reports presence of the property named by a key.
func (o Object) HasPropertyByKey(c *Context, key PropKey) (bool, error) {
	return c.adapter.HasProperty(
		o.h.checkRef(c, "object"),
		key.h.checkRef(c, "property key"),
	)
}

// RemoveProperty deletes the named own property.
func (o Object) RemoveProperty(c *Context, name string) error {
	return o.RemovePropertyByKey(c, NewPropKey(c, name))
}

// RemovePropertyByKey deletes the own property named by a key.
func (o Object) RemovePropertyByKey(c *Context, key PropKey) error {
	return c.adapter.RemoveProperty(
		o.h.checkRef(c, "object"),
		key.h.checkRef(c, "property key"),
	)
}

// GetPropertyAsObject is GetProperty followed by an object cast, with a
// better error message when the property is missing or not an object.
func (o Object) GetPropertyAsObject(c *Context, name string) (Object, error) {
	v, err := o.GetProperty(c, name)
	if err != nil {
		return Object{}, err
	}
	if !v.IsObject() {
		return Object{}, errors.New(errors.PhaseProperty, errors.KindTypeMismatch).
			Expected("object").
			Actual(v.Kind().String()).
			Detail("property %q is not an object", name).
			Build()
	}
	return v.TakeObject(), nil
}

// GetPropertyAsFunction is GetProperty followed by a function cast.
func (o Object) GetPropertyAsFunction(c *Context, name string) (Function, error) {
	obj, err := o.GetPropertyAsObject(c, name)
	if err != nil {
		return Function{}, err
	}
	if !obj.IsFunction(c) {
		kind := "object"
		obj.Release(c)
		return Function{}, errors.New(errors.PhaseProperty, errors.KindNotCallable).
			Expected("function").
			Actual(kind).
			Detail("property %q is not callable", name).
			Build()
	}
	return obj.TakeFunction(c), nil
}

// GetPropertyNames enumerates the object's own and inherited enumerable
// keys as an Array of strings. Enumeration walks the prototype chain and
// is expensive; keep it off hot paths.
func (o Object) GetPropertyNames(c *Context) (Array, error) {
	ref, err := c.adapter.PropertyNames(o.h.checkRef(c, "object"))
	if err != nil {
		return Array{}, err
	}
	return Array{Object{h: c.wrap(ref)}}, nil
}

// IsArray reports whether the script's Array.isArray would accept the
// object. If it holds, GetArray will succeed.
func (o Object) IsArray(c *Context) bool {
	return c.adapter.IsArray(o.h.checkRef(c, "object"))
}

// IsFunction reports whether the object is callable. If it holds,
// GetFunction will succeed.
func (o Object) IsFunction(c *Context) bool {
	return c.adapter.IsFunction(o.h.checkRef(c, "object"))
}

// IsArrayBuffer reports whether the object is an ArrayBuffer.
func (o Object) IsArrayBuffer(c *Context) bool {
	return c.adapter.IsArrayBuffer(o.h.checkRef(c, "object"))
}

// IsArrayBufferView reports whether the object is a typed-array view or
// DataView over an ArrayBuffer.
func (o Object) IsArrayBufferView(c *Context) bool {
	return c.adapter.IsArrayBufferView(o.h.checkRef(c, "object"))
}

// GetArray returns an Array wrapper for the same object, faulting if
// IsArray does not hold. The cast clones the handle; the source wrapper
// stays usable.
func (o Object) GetArray(c *Context) Array {
	if !o.IsArray(c) {
		errors.KindFault("array", "object")
	}
	return Array{Object{h: o.h.clone(c, "object")}}
}

// TakeArray moves the handle into an Array wrapper, leaving the source
// empty. Faults if IsArray does not hold.
func (o *Object) TakeArray(c *Context) Array {
	if !o.IsArray(c) {
		errors.KindFault("array", "object")
	}
	return Array{Object{h: o.h.take()}}
}

// AsArray is the boundary-safe form of GetArray.
func (o Object) AsArray(c *Context) (Array, error) {
	if !o.IsArray(c) {
		return Array{}, errors.WrongKind("array", "object")
	}
	return o.GetArray(c), nil
}

// GetFunction returns a Function wrapper for the same object, faulting if
// IsFunction does not hold.
func (o Object) GetFunction(c *Context) Function {
	if !o.IsFunction(c) {
		errors.KindFault("function", "object")
	}
	return Function{Object{h: o.h.clone(c, "object")}}
}

// TakeFunction moves the handle into a Function wrapper.
func (o *Object) TakeFunction(c *Context) Function {
	if !o.IsFunction(c) {
		errors.KindFault("function", "object")
	}
	return Function{Object{h: o.h.take()}}
}

// AsFunction is the boundary-safe form of GetFunction.
func (o Object) AsFunction(c *Context) (Function, error) {
	if !o.IsFunction(c) {
		return Function{}, errors.WrongKind("function", "object")
	}
	return o.GetFunction(c), nil
}

// GetArrayBuffer returns an ArrayBuffer wrapper for the same object,
// faulting if IsArrayBuffer does not hold.
func (o Object) GetArrayBuffer(c *Context) ArrayBuffer {
	if !o.IsArrayBuffer(c) {
		errors.KindFault("ArrayBuffer", "object")
	}
	return ArrayBuffer{Object{h: o.h.clone(c, "object")}}
}

// AsArrayBuffer is the boundary-safe form of GetArrayBuffer.
func (o Object) AsArrayBuffer(c *Context) (ArrayBuffer, error) {
	if !o.IsArrayBuffer(c) {
		return ArrayBuffer{}, errors.WrongKind("ArrayBuffer", "object")
	}
	return o.GetArrayBuffer(c), nil
}

// GetArrayBufferView returns an ArrayBufferView wrapper for the same
// object, faulting if IsArrayBufferView does not hold.
func (o Object) GetArrayBufferView(c *Context) ArrayBufferView {
	if !o.IsArrayBufferView(c) {
		errors.KindFault("ArrayBufferView", "object")
	}
	return ArrayBufferView{Object{h: o.h.clone(c, "object")}}
}

// AsArrayBufferView is the boundary-safe form of GetArrayBufferView.
func (o Object) AsArrayBufferView(c *Context) (ArrayBufferView, error) {
	if !o.IsArrayBufferView(c) {
		return ArrayBufferView{}, errors.WrongKind("ArrayBufferView", "object")
	}
	return o.GetArrayBufferView(c), nil
}
