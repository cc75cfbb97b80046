package jsbridge

// Ref is an adapter-issued reference to one engine-resident entity. Zero is
// reserved and never valid. Refs carry no context identity; the layer wraps
// them into Handles before they reach host code.
type Ref uint64

// RawValue is the plain-data form of a Value crossing the adapter boundary.
// Scalar kinds carry their payload inline; reference kinds carry a Ref.
type RawValue struct {
	Kind Kind
	Num  float64
	Bool bool
	Ref  Ref
}

// Deallocator reclaims externally supplied ArrayBuffer memory. It is
// invoked exactly once, when the engine releases the buffer or the context
// closes, whichever comes first.
type Deallocator func(data []byte)

// BufferViewType identifies the concrete typed-array flavor of an
// ArrayBufferView.
type BufferViewType uint8

const (
	ViewUnknown BufferViewType = iota
	ViewInt8Array
	ViewUint8Array
	ViewUint8ClampedArray
	ViewInt16Array
	ViewUint16Array
	ViewInt32Array
	ViewUint32Array
	ViewBigInt64Array
	ViewBigUint64Array
	ViewFloat32Array
	ViewFloat64Array
	ViewDataView
)

func (t BufferViewType) String() string {
	switch t {
	case ViewInt8Array:
		return "Int8Array"
	case ViewUint8Array:
		return "Uint8Array"
	case ViewUint8ClampedArray:
		return "Uint8ClampedArray"
	case ViewInt16Array:
		return "Int16Array"
	case ViewUint16Array:
		return "Uint16Array"
	case ViewInt32Array:
		return "Int32Array"
	case ViewUint32Array:
		return "Uint32Array"
	case ViewBigInt64Array:
		return "BigInt64Array"
	case ViewBigUint64Array:
		return "BigUint64Array"
	case ViewFloat32Array:
		return "Float32Array"
	case ViewFloat64Array:
		return "Float64Array"
	case ViewDataView:
		return "DataView"
	case ViewUnknown:
		return "unknown view"
	default:
		return "unknown view"
	}
}

// Adapter is the engine-specific seam the whole layer is built on. Each
// concrete engine implements it exactly once; nothing above it touches
// engine types.
//
// Adapter methods that take a Ref fault (panic with *errors.Fault) when the
// Ref is zero, stale, or refers to an entity of the wrong shape - the layer
// has already validated context ownership by the time a Ref reaches the
// adapter, so a bad Ref is a programming error, not a recoverable
// condition. Methods that can fail for script-visible reasons return an
// error instead.
type Adapter interface {
	// Handle lifetime. CloneHandle asks the engine for a second reference
	// to the same entity; InvalidateHandle releases one reference.
	CloneHandle(ref Ref) Ref
	InvalidateHandle(ref Ref)

	// Entity creation.
	CreateObject() Ref
	CreateArray(length int64) Ref
	CreateArrayBuffer(data []byte, dealloc Deallocator) Ref
	CreateString(s string) Ref
	CreateHostObject(payload any) Ref

	// Property keys. Keys are interned: InternKey returns the same Ref for
	// equal strings, and interned keys live until the context closes.
	InternKey(s string) Ref
	KeyFromString(str Ref) Ref
	KeyUTF8(key Ref) string
	KeysEqual(a, b Ref) bool

	// String and symbol materialization.
	UTF8(str Ref) string
	SymbolToString(sym Ref) string

	// Property access. The key Ref is always an interned key.
	GetProperty(obj, key Ref) (RawValue, error)
	SetProperty(obj, key Ref, v RawValue) error
	HasProperty(obj, key Ref) (bool, error)
	RemoveProperty(obj, key Ref) error
	PropertyNames(obj Ref) (Ref, error)

	// Indexed access. Range validation is the layer's job; the adapter
	// only performs the raw access.
	ArrayLength(arr Ref) (int64, error)
	GetIndex(arr Ref, i int64) (RawValue, error)
	SetIndex(arr Ref, i int64, v RawValue) error

	// Binary buffers.
	BufferBytes(buf Ref) []byte
	BufferByteLength(buf Ref) int64
	ViewType(view Ref) BufferViewType

	// Calls. Construct is the engine's `new` semantics, a distinct
	// primitive from Call, not a flag on it.
	Call(fn Ref, this RawValue, args []RawValue) (RawValue, error)
	Construct(fn Ref, args []RawValue) (RawValue, error)
	InstanceOf(obj, ctor Ref) (bool, error)

	// Capability tests.
	IsArray(obj Ref) bool
	IsFunction(obj Ref) bool
	IsArrayBuffer(obj Ref) bool
	IsArrayBufferView(obj Ref) bool
	IsHostObject(obj Ref) bool
	IsHostFunction(obj Ref) bool
	HostObjectPayload(obj Ref) (any, bool)

	// Host callables. The name Ref is an interned key; arity is the
	// declared parameter count (the function's length property).
	NewFunction(name Ref, arity int, fn HostFunc) Ref
	NewClass(name Ref, arity int, class HostClass, prototype Ref) Ref

	// Comparison and conversion.
	StrictEquals(a, b Ref) bool
	ToNumber(v RawValue) (float64, error)
	ToString(v RawValue) (string, error)
	ToJSON(v RawValue) (string, error)
	FromJSONUTF8(data []byte) (RawValue, error)

	// Weak references.
	CreateWeak(obj Ref) Ref
	LockWeak(weak Ref) RawValue

	// Context surface.
	Global() Ref
	Evaluate(src, sourceURL string) (RawValue, error)
	LiveCells() int
	Close() error
}
