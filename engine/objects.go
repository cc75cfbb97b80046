package engine

import (
	"strconv"

	"github.com/dop251/goja"

	"github.com/hostside/jsbridge"
	"github.com/hostside/jsbridge/errors"
)

// CreateObject creates an empty plain object.
func (e *Engine) CreateObject() jsbridge.Ref {
	return e.insert(goja.Value(e.vm.NewObject()))
}

// CreateArray creates an array of the given length, every element
// undefined.
func (e *Engine) CreateArray(length int64) jsbridge.Ref {
	arr := e.vm.NewArray()
	if length > 0 {
		if err := arr.Set("length", length); err != nil {
			errors.Faultf(errors.KindOutOfRange, "array length %d rejected: %v", length, err)
		}
	}
	return e.insert(goja.Value(arr))
}

// GetProperty reads a property, getters included. A missing property is
// undefined, not an error.
func (e *Engine) GetProperty(obj, key jsbridge.Ref) (jsbridge.RawValue, error) {
	o := e.derefObject(obj, "an object")
	name := e.keyName(key)
	var raw jsbridge.RawValue
	err := e.try(errors.PhaseProperty, func() {
		raw = e.toRaw(o.Get(name))
	})
	return raw, err
}

// SetProperty writes a property, setters included.
func (e *Engine) SetProperty(obj, key jsbridge.Ref, v jsbridge.RawValue) error {
	o := e.derefObject(obj, "an object")
	name := e.keyName(key)
	if err := o.Set(name, e.fromRaw(v)); err != nil {
		return e.mapErr(errors.PhaseProperty, err)
	}
	return nil
}

// HasProperty applies the language's `in` operator, so the prototype chain
// is consulted and proxies keep their say.
func (e *Engine) HasProperty(obj, key jsbridge.Ref) (bool, error) {
	o := e.derefObject(obj, "an object")
	name := e.keyName(key)
	res, err := e.hasPropFn(goja.Undefined(), o, e.vm.ToValue(name))
	if err != nil {
		return false, e.mapErr(errors.PhaseProperty, err)
	}
	return res.ToBoolean(), nil
}

// RemoveProperty deletes an own property. Deleting a missing property
// succeeds, matching the language's delete operator.
func (e *Engine) RemoveProperty(obj, key jsbridge.Ref) error {
	o := e.derefObject(obj, "an object")
	if err := o.Delete(e.keyName(key)); err != nil {
		return e.mapErr(errors.PhaseProperty, err)
	}
	return nil
}

// PropertyNames enumerates own and inherited enumerable string keys into a
// fresh array, nearest occurrence first.
func (e *Engine) PropertyNames(obj jsbridge.Ref) (jsbridge.Ref, error) {
	o := e.derefObject(obj, "an object")

	var names []any
	seen := make(map[string]struct{})
	err := e.try(errors.PhaseProperty, func() {
		for cur := o; cur != nil; cur = cur.Prototype() {
			for _, k := range cur.Keys() {
				if _, dup := seen[k]; dup {
					continue
				}
				seen[k] = struct{}{}
				names = append(names, k)
			}
		}
	})
	if err != nil {
		return 0, err
	}
	return e.insert(goja.Value(e.vm.NewArray(names...))), nil
}

// ArrayLength reads the length property.
func (e *Engine) ArrayLength(arr jsbridge.Ref) (int64, error) {
	o := e.derefObject(arr, "an array")
	var n int64
	err := e.try(errors.PhaseIndex, func() {
		n = o.Get("length").ToInteger()
	})
	return n, err
}

// GetIndex reads element i. Range checking happens a level up; here the
// index is just a property name.
func (e *Engine) GetIndex(arr jsbridge.Ref, i int64) (jsbridge.RawValue, error) {
	o := e.derefObject(arr, "an array")
	var raw jsbridge.RawValue
	err := e.try(errors.PhaseIndex, func() {
		raw = e.toRaw(o.Get(strconv.FormatInt(i, 10)))
	})
	return raw, err
}

// SetIndex writes element i.
func (e *Engine) SetIndex(arr jsbridge.Ref, i int64, v jsbridge.RawValue) error {
	o := e.derefObject(arr, "an array")
	if err := o.Set(strconv.FormatInt(i, 10), e.fromRaw(v)); err != nil {
		return e.mapErr(errors.PhaseIndex, err)
	}
	return nil
}

// IsArray applies Array.isArray, so array subclasses qualify and
// array-likes do not.
func (e *Engine) IsArray(obj jsbridge.Ref) bool {
	res, err := e.isArrayFn(goja.Undefined(), e.derefObject(obj, "an object"))
	if err != nil {
		return false
	}
	return res.ToBoolean()
}

// IsFunction reports callability.
func (e *Engine) IsFunction(obj jsbridge.Ref) bool {
	_, ok := goja.AssertFunction(e.deref(obj))
	return ok
}

// IsArrayBuffer reports whether the object is an ArrayBuffer.
func (e *Engine) IsArrayBuffer(obj jsbridge.Ref) bool {
	_, ok := e.derefObject(obj, "an object").Export().(goja.ArrayBuffer)
	return ok
}

// IsArrayBufferView applies ArrayBuffer.isView, accepting typed arrays and
// DataViews alike.
func (e *Engine) IsArrayBufferView(obj jsbridge.Ref) bool {
	res, err := e.isViewFn(goja.Undefined(), e.derefObject(obj, "an object"))
	if err != nil {
		return false
	}
	return res.ToBoolean()
}

// Call invokes a callable with an explicit this.
func (e *Engine) Call(fn jsbridge.Ref, this jsbridge.RawValue, args []jsbridge.RawValue) (jsbridge.RawValue, error) {
	o := e.derefObject(fn, "a function")
	callable, ok := goja.AssertFunction(o)
	if !ok {
		return jsbridge.RawValue{}, errors.NotCallable(o.ClassName())
	}
	res, err := callable(e.fromRaw(this), e.fromRaws(args)...)
	if err != nil {
		return jsbridge.RawValue{}, e.mapErr(errors.PhaseCall, err)
	}
	var raw jsbridge.RawValue
	if cerr := e.try(errors.PhaseCall, func() { raw = e.toRaw(res) }); cerr != nil {
		return jsbridge.RawValue{}, cerr
	}
	return raw, nil
}

// Construct invokes a constructor with `new` semantics.
func (e *Engine) Construct(fn jsbridge.Ref, args []jsbridge.RawValue) (jsbridge.RawValue, error) {
	o := e.derefObject(fn, "a constructor")
	ctor, ok := goja.AssertConstructor(o)
	if !ok {
		return jsbridge.RawValue{}, errors.NotConstructible(o.ClassName())
	}
	res, err := ctor(nil, e.fromRaws(args)...)
	if err != nil {
		return jsbridge.RawValue{}, e.mapErr(errors.PhaseCall, err)
	}
	return e.toRaw(res), nil
}

// InstanceOf applies the language's instanceof, Symbol.hasInstance
// included.
func (e *Engine) InstanceOf(obj, ctor jsbridge.Ref) (bool, error) {
	left := e.deref(obj)
	right := e.derefObject(ctor, "a constructor")
	var ok bool
	err := e.try(errors.PhaseCall, func() {
		ok = e.vm.InstanceOf(left, right)
	})
	return ok, err
}
