package engine

import (
	"runtime"
	"sync"
	"weak"

	"github.com/dop251/goja"

	"github.com/hostside/jsbridge"
	"github.com/hostside/jsbridge/errors"
)

// bufferHook owns the release of one externally backed ArrayBuffer. The
// deallocator fires exactly once, from whichever comes first of garbage
// collection and engine close.
type bufferHook struct {
	data    []byte
	dealloc jsbridge.Deallocator
	once    sync.Once
}

func (h *bufferHook) fire() {
	h.once.Do(func() {
		if h.dealloc != nil {
			h.dealloc(h.data)
		}
	})
}

// CreateArrayBuffer wraps externally supplied bytes into an ArrayBuffer
// without copying. Script writes are visible to the host through the same
// backing slice.
func (e *Engine) CreateArrayBuffer(data []byte, dealloc jsbridge.Deallocator) jsbridge.Ref {
	ab := e.vm.NewArrayBuffer(data)
	obj := e.vm.ToValue(ab).ToObject(e.vm)

	hook := &bufferHook{data: data, dealloc: dealloc}
	e.hookMu.Lock()
	e.hooks[hook] = struct{}{}
	e.hookMu.Unlock()

	runtime.AddCleanup(obj, func(h *bufferHook) {
		h.fire()
		e.hookMu.Lock()
		delete(e.hooks, h)
		e.hookMu.Unlock()
	}, hook)

	return e.insert(goja.Value(obj))
}

// BufferBytes returns the backing memory of an ArrayBuffer, or the window
// of a typed-array view into its buffer. The slice aliases engine memory.
func (e *Engine) BufferBytes(buf jsbridge.Ref) []byte {
	o := e.derefObject(buf, "a binary object")
	if ab, ok := o.Export().(goja.ArrayBuffer); ok {
		return ab.Bytes()
	}
	ab, ok := o.Get("buffer").Export().(goja.ArrayBuffer)
	if !ok {
		errors.Faultf(errors.KindWrongKind, "object is not binary-backed")
	}
	off := o.Get("byteOffset").ToInteger()
	n := o.Get("byteLength").ToInteger()
	return ab.Bytes()[off : off+n]
}

// BufferByteLength reads the byteLength property of a buffer or view.
func (e *Engine) BufferByteLength(buf jsbridge.Ref) int64 {
	return e.derefObject(buf, "a binary object").Get("byteLength").ToInteger()
}

// ViewType identifies a view's flavor through its constructor name. The
// interpreter reports plain "Object" as the class for typed arrays and
// DataViews, so the class name cannot discriminate them.
func (e *Engine) ViewType(view jsbridge.Ref) jsbridge.BufferViewType {
	o := e.derefObject(view, "a view")
	name := ""
	if ctor, ok := o.Get("constructor").(*goja.Object); ok {
		if n := ctor.Get("name"); n != nil && !goja.IsUndefined(n) {
			name = n.String()
		}
	}
	switch name {
	case "Int8Array":
		return jsbridge.ViewInt8Array
	case "Uint8Array":
		return jsbridge.ViewUint8Array
	case "Uint8ClampedArray":
		return jsbridge.ViewUint8ClampedArray
	case "Int16Array":
		return jsbridge.ViewInt16Array
	case "Uint16Array":
		return jsbridge.ViewUint16Array
	case "Int32Array":
		return jsbridge.ViewInt32Array
	case "Uint32Array":
		return jsbridge.ViewUint32Array
	case "BigInt64Array":
		return jsbridge.ViewBigInt64Array
	case "BigUint64Array":
		return jsbridge.ViewBigUint64Array
	case "Float32Array":
		return jsbridge.ViewFloat32Array
	case "Float64Array":
		return jsbridge.ViewFloat64Array
	case "DataView":
		return jsbridge.ViewDataView
	default:
		return jsbridge.ViewUnknown
	}
}

// weakCell is the cell payload for a weak reference. The pointer does not
// keep the object's strong cells alive.
type weakCell struct {
	p weak.Pointer[goja.Object]
}

// CreateWeak takes a weak reference to a pinned object.
func (e *Engine) CreateWeak(obj jsbridge.Ref) jsbridge.Ref {
	return e.insert(weakCell{p: weak.Make(e.derefObject(obj, "an object"))})
}

// LockWeak resolves a weak reference: the object as a fresh strong cell if
// it is still live, undefined once it has been collected.
func (e *Engine) LockWeak(weakRef jsbridge.Ref) jsbridge.RawValue {
	v, ok := e.cells.Get(registryID(weakRef))
	if !ok {
		errors.ReleasedFault("weak reference cell")
	}
	wc, ok := v.(weakCell)
	if !ok {
		errors.Faultf(errors.KindWrongKind, "cell does not hold a weak reference")
	}
	o := wc.p.Value()
	if o == nil {
		return jsbridge.RawValue{Kind: jsbridge.KindUndefined}
	}
	return jsbridge.RawValue{Kind: jsbridge.KindObject, Ref: e.insert(goja.Value(o))}
}
