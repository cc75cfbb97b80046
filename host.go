package jsbridge

import (
	"fmt"

	"github.com/hostside/jsbridge/errors"
)

// HostFunc is a native function exposed into the engine. It receives the
// call's this value and a materialized argument list; both are borrowed
// and released by the adapter when the call returns. Returning an error
// surfaces to script code as a thrown error whose message matches the
// error's message; an *errors.Error carrying an engine-thrown value
// rethrows that value unchanged.
type HostFunc func(c *Context, this Value, args []Value) (Value, error)

// HostClass is a native constructor exposed into the engine, invoked with
// `new` semantics. this is the freshly allocated instance. Returning an
// object value replaces the instance, matching the script language's
// constructor-return rules; returning undefined keeps this.
type HostClass func(c *Context, this Object, args []Value) (Value, error)

// NewFunction creates a script function backed by a host callable. name
// becomes the function's name property and arity its length property
// (which need not match the number of arguments it is actually passed).
func NewFunction(c *Context, name PropKey, arity int, fn HostFunc) Function {
	ref := c.adapter.NewFunction(name.h.checkRef(c, "property key"), arity, fn)
	return Function{Object{h: c.wrap(ref)}}
}

// NewClass creates a constructible script class backed by a host
// constructor. Instances inherit from prototype; pass an empty Object for
// the default prototype.
func NewClass(c *Context, name PropKey, arity int, class HostClass, prototype Object) Function {
	var protoRef Ref
	if prototype.h.Valid() {
		protoRef = prototype.h.checkRef(c, "prototype object")
	}
	ref := c.adapter.NewClass(name.h.checkRef(c, "property key"), arity, class, protoRef)
	return Function{Object{h: c.wrap(ref)}}
}

// NewHostObject exposes a native payload into the engine as a script
// object. The engine keeps the payload alive for as long as the object is
// reachable; host code recovers it with the HostObject accessors.
func NewHostObject(c *Context, payload any) Object {
	return Object{h: c.wrap(c.adapter.CreateHostObject(payload))}
}

// IsAnyHostObject reports whether the object carries any native payload.
func (o Object) IsAnyHostObject(c *Context) bool {
	return c.adapter.IsHostObject(o.h.checkRef(c, "object"))
}

// IsHostObject reports whether the object carries a native payload of
// type T. If it holds, GetHostObject[T] will succeed.
func IsHostObject[T any](c *Context, o Object) bool {
	payload, ok := c.adapter.HostObjectPayload(o.h.checkRef(c, "object"))
	if !ok {
		return false
	}
	_, ok = payload.(T)
	return ok
}

// GetHostObject returns the object's native payload as type T, faulting
// if the object is not a host object of that type. Callers must check
// IsHostObject[T] first; boundary code should use AsHostObject.
func GetHostObject[T any](c *Context, o Object) T {
	payload, ok := c.adapter.HostObjectPayload(o.h.checkRef(c, "object"))
	if !ok {
		errors.Faultf(errors.KindTypeMismatch, "object is not a host object")
	}
	typed, ok := payload.(T)
	if !ok {
		errors.Faultf(errors.KindTypeMismatch,
			"host object payload is %T, not %s", payload, typeName[T]())
	}
	return typed
}

// AsHostObject is the boundary-safe form of GetHostObject: a missing or
// differently typed payload is a catchable error naming the expected
// native type.
func AsHostObject[T any](c *Context, o Object) (T, error) {
	var zero T
	payload, ok := c.adapter.HostObjectPayload(o.h.checkRef(c, "object"))
	if !ok {
		return zero, errors.HostObjectMismatch(typeName[T](), "plain object")
	}
	typed, ok := payload.(T)
	if !ok {
		return zero, errors.HostObjectMismatch(typeName[T](), fmt.Sprintf("%T", payload))
	}
	return typed, nil
}

func typeName[T any]() string {
	var zero T
	if name := fmt.Sprintf("%T", zero); name != "<nil>" {
		return name
	}
	return fmt.Sprintf("%T", new(T))
}
