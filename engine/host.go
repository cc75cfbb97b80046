package engine

import (
	"runtime"
	"strconv"

	"github.com/dop251/goja"

	"github.com/hostside/jsbridge"
	"github.com/hostside/jsbridge/errors"
	"github.com/hostside/jsbridge/registry"
)

// adoptArgs materializes borrowed call arguments for a host callable.
func (e *Engine) adoptArgs(gargs []goja.Value) []jsbridge.Value {
	args := make([]jsbridge.Value, len(gargs))
	for i, ga := range gargs {
		args[i] = e.ctx.Adopt(e.toRaw(ga))
	}
	return args
}

// adoptCall converts this and the arguments of an incoming script call. An
// unbridgeable argument, BigInt say, is thrown back at the script caller.
func (e *Engine) adoptCall(gthis goja.Value, gargs []goja.Value) (jsbridge.Value, []jsbridge.Value) {
	var this jsbridge.Value
	var args []jsbridge.Value
	if err := e.try(errors.PhaseCall, func() {
		this = e.ctx.Adopt(e.toRaw(gthis))
		args = e.adoptArgs(gargs)
	}); err != nil {
		this.Release(e.ctx)
		e.releaseArgs(args)
		e.throw(err)
	}
	return this, args
}

func (e *Engine) releaseArgs(args []jsbridge.Value) {
	for i := range args {
		args[i].Release(e.ctx)
	}
}

// hostReturn converts a host-owned return value into an engine value and
// releases the host's handle.
func (e *Engine) hostReturn(ret jsbridge.Value) goja.Value {
	gv := e.fromRaw(e.ctx.Raw(ret))
	ret.Release(e.ctx)
	return gv
}

// NewFunction wraps a host callable into a script function. A host error
// becomes a script throw; an engine-thrown value carried in the error is
// rethrown unchanged, so exceptions survive a round trip through host
// frames.
func (e *Engine) NewFunction(name jsbridge.Ref, arity int, fn jsbridge.HostFunc) jsbridge.Ref {
	impl := func(call goja.FunctionCall) goja.Value {
		this, args := e.adoptCall(call.This, call.Arguments)
		defer func() {
			e.releaseArgs(args)
			this.Release(e.ctx)
		}()

		ret, err := fn(e.ctx, this, args)
		if err != nil {
			e.throw(err)
		}
		return e.hostReturn(ret)
	}

	fnObj := e.vm.ToValue(impl).ToObject(e.vm)
	e.brandCallable(fnObj, name, arity)
	return e.insert(goja.Value(fnObj))
}

// NewClass wraps a host constructor into a constructible script function.
// Instances inherit from prototype when one is given. A returned object
// replaces the allocated instance, matching constructor-return rules.
func (e *Engine) NewClass(name jsbridge.Ref, arity int, class jsbridge.HostClass, prototype jsbridge.Ref) jsbridge.Ref {
	impl := func(call goja.ConstructorCall) *goja.Object {
		thisVal, args := e.adoptCall(goja.Value(call.This), call.Arguments)
		this := thisVal.TakeObject()
		defer func() {
			e.releaseArgs(args)
			this.Release(e.ctx)
		}()

		ret, err := class(e.ctx, this, args)
		if err != nil {
			e.throw(err)
		}
		raw := e.ctx.Raw(ret)
		if raw.Kind == jsbridge.KindObject {
			obj, ok := e.deref(raw.Ref).(*goja.Object)
			ret.Release(e.ctx)
			if ok {
				return obj
			}
			return call.This
		}
		ret.Release(e.ctx)
		return call.This
	}

	ctorObj := e.vm.ToValue(impl).ToObject(e.vm)
	e.brandCallable(ctorObj, name, arity)
	if prototype != 0 {
		proto := e.derefObject(prototype, "a prototype object")
		if err := ctorObj.DefineDataProperty("prototype", proto,
			goja.FLAG_FALSE, goja.FLAG_FALSE, goja.FLAG_FALSE); err != nil {
			errors.Faultf(errors.KindWrongKind, "cannot attach prototype: %v", err)
		}
		_ = proto.DefineDataProperty("constructor", ctorObj,
			goja.FLAG_TRUE, goja.FLAG_TRUE, goja.FLAG_FALSE)
	}
	return e.insert(goja.Value(ctorObj))
}

// brandCallable stamps a host-created function with its name, declared
// arity, and the hidden host marker.
func (e *Engine) brandCallable(fnObj *goja.Object, name jsbridge.Ref, arity int) {
	_ = fnObj.DefineDataProperty("name", e.vm.ToValue(e.keyName(name)),
		goja.FLAG_FALSE, goja.FLAG_TRUE, goja.FLAG_FALSE)
	_ = fnObj.DefineDataProperty("length", e.vm.ToValue(arity),
		goja.FLAG_FALSE, goja.FLAG_TRUE, goja.FLAG_FALSE)
	if err := fnObj.SetSymbol(e.hostFnSym, e.vm.ToValue(true)); err != nil {
		errors.Faultf(errors.KindWrongKind, "cannot brand host callable: %v", err)
	}
}

// IsHostFunction reports whether a function carries the host brand.
func (e *Engine) IsHostFunction(obj jsbridge.Ref) bool {
	v := e.derefObject(obj, "a function").GetSymbol(e.hostFnSym)
	return v != nil && v.ToBoolean()
}

// CreateHostObject builds a script object carrying a native payload. The
// payload stays alive until the object is collected or the engine closes;
// collection is observed through a cleanup on the script object.
func (e *Engine) CreateHostObject(payload any) jsbridge.Ref {
	obj := e.vm.NewObject()

	id, err := e.payloads.Insert(payload)
	if err != nil {
		errors.Faultf(errors.KindClosed, "engine used after close")
	}
	if err := obj.SetSymbol(e.hostObjSym, e.vm.ToValue(strconv.FormatUint(uint64(id), 10))); err != nil {
		e.payloads.Remove(id)
		errors.Faultf(errors.KindWrongKind, "cannot brand host object: %v", err)
	}

	payloads := e.payloads
	runtime.AddCleanup(obj, func(id registry.ID) {
		payloads.Remove(id)
	}, id)

	return e.insert(goja.Value(obj))
}

// IsHostObject reports whether the object carries a native payload.
func (e *Engine) IsHostObject(obj jsbridge.Ref) bool {
	_, ok := e.HostObjectPayload(obj)
	return ok
}

// HostObjectPayload recovers the native payload stored on a host object.
func (e *Engine) HostObjectPayload(obj jsbridge.Ref) (any, bool) {
	v := e.derefObject(obj, "an object").GetSymbol(e.hostObjSym)
	if v == nil || goja.IsUndefined(v) {
		return nil, false
	}
	id, err := strconv.ParseUint(v.String(), 10, 64)
	if err != nil {
		return nil, false
	}
	return e.payloads.Get(registry.ID(id))
}
