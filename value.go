package jsbridge

import (
	"github.com/hostside/jsbridge/errors"
)

// Kind enumerates the closed set of script value kinds.
type Kind uint8

const (
	KindUndefined Kind = iota
	KindNull
	KindBoolean
	KindNumber
	KindSymbol
	KindString
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "null"
	case KindBoolean:
		return "boolean"
	case KindNumber:
		return "number"
	case KindSymbol:
		return "symbol"
	case KindString:
		return "string"
	case KindObject:
		return "object"
	default:
		return "invalid kind"
	}
}

// reference reports whether the kind carries a Handle payload.
func (k Kind) reference() bool {
	switch k {
	case KindUndefined, KindNull, KindBoolean, KindNumber:
		return false
	case KindSymbol, KindString, KindObject:
		return true
	default:
		errors.Faultf(errors.KindWrongKind, "invalid value kind %d", k)
		return false
	}
}

// Value is a script value: a closed tagged union over undefined, null,
// boolean, number, symbol, string, and object. Scalar kinds carry their
// payload inline; reference kinds own at most one Handle. A Value whose
// handle has been taken or released keeps its kind for diagnostics but
// holds nothing; releasing it again is a no-op.
type Value struct {
	num     float64
	handle  Handle
	kind    Kind
	boolean bool
}

// Undefined returns the undefined value.
func Undefined() Value {
	return Value{kind: KindUndefined}
}

// Null returns the null value.
func Null() Value {
	return Value{kind: KindNull}
}

// Boolean returns a boolean value.
func Boolean(b bool) Value {
	return Value{kind: KindBoolean, boolean: b}
}

// Number returns a number value.
func Number(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// Int returns a number value from an integer.
func Int(i int64) Value {
	return Value{kind: KindNumber, num: float64(i)}
}

// Kind returns the value's kind tag. The tag survives a take or release.
func (v Value) Kind() Kind {
	return v.kind
}

// Live reports whether a reference-kind value still owns its handle.
// Scalars are always live.
func (v Value) Live() bool {
	return !v.kind.reference() || v.handle.Valid()
}

func (v Value) IsUndefined() bool { return v.kind == KindUndefined }
func (v Value) IsNull() bool      { return v.kind == KindNull }
func (v Value) IsBoolean() bool   { return v.kind == KindBoolean }
func (v Value) IsNumber() bool    { return v.kind == KindNumber }
func (v Value) IsSymbol() bool    { return v.kind == KindSymbol }
func (v Value) IsString() bool    { return v.kind == KindString }
func (v Value) IsObject() bool    { return v.kind == KindObject }

// Release invalidates an owned handle exactly once and empties the value.
// Scalar and already-empty values are no-ops.
func (v *Value) Release(c *Context) {
	v.handle.release(c, "value")
}

// Clone returns an independent copy: scalars are copied, reference kinds
// get a second engine reference to the same entity.
func (v Value) Clone(c *Context) Value {
	out := v
	if v.handle.Valid() {
		out.handle = v.handle.clone(c, "value")
	}
	return out
}

// GetBoolean returns the boolean payload. Calling it on any other kind is
// a fault; check IsBoolean first or use a boundary-safe As accessor.
func (v Value) GetBoolean() bool {
	if v.kind != KindBoolean {
		errors.KindFault("boolean", v.kind.String())
	}
	return v.boolean
}

// GetNumber returns the number payload, faulting on any other kind.
func (v Value) GetNumber() float64 {
	if v.kind != KindNumber {
		errors.KindFault("number", v.kind.String())
	}
	return v.num
}

// GetString returns the string as an independent wrapper, faulting if the
// value is not a string.
func (v Value) GetString(c *Context) String {
	if v.kind != KindString {
		errors.KindFault("string", v.kind.String())
	}
	return String{h: v.handle.clone(c, "string value")}
}

// TakeString moves the handle out into a String wrapper, leaving the value
// empty. Faults if the value is not a string.
func (v *Value) TakeString() String {
	if v.kind != KindString {
		errors.KindFault("string", v.kind.String())
	}
	return String{h: v.handle.take()}
}

// GetSymbol returns the symbol as an independent wrapper, faulting if the
// value is not a symbol.
func (v Value) GetSymbol(c *Context) Symbol {
	if v.kind != KindSymbol {
		errors.KindFault("symbol", v.kind.String())
	}
	return Symbol{h: v.handle.clone(c, "symbol value")}
}

// TakeSymbol moves the handle out into a Symbol wrapper.
func (v *Value) TakeSymbol() Symbol {
	if v.kind != KindSymbol {
		errors.KindFault("symbol", v.kind.String())
	}
	return Symbol{h: v.handle.take()}
}

// GetObject returns the object as an independent wrapper, faulting if the
// value is not an object.
func (v Value) GetObject(c *Context) Object {
	if v.kind != KindObject {
		errors.KindFault("object", v.kind.String())
	}
	return Object{h: v.handle.clone(c, "object value")}
}

// TakeObject moves the handle out into an Object wrapper.
func (v *Value) TakeObject() Object {
	if v.kind != KindObject {
		errors.KindFault("object", v.kind.String())
	}
	return Object{h: v.handle.take()}
}

// AsString is the boundary-safe form of GetString: it returns a catchable
// type-mismatch error instead of faulting.
func (v Value) AsString(c *Context) (String, error) {
	if v.kind != KindString {
		return String{}, errors.WrongKind("string", v.kind.String())
	}
	return v.GetString(c), nil
}

// AsSymbol is the boundary-safe form of GetSymbol.
func (v Value) AsSymbol(c *Context) (Symbol, error) {
	if v.kind != KindSymbol {
		return Symbol{}, errors.WrongKind("symbol", v.kind.String())
	}
	return v.GetSymbol(c), nil
}

// AsObject is the boundary-safe form of GetObject.
func (v Value) AsObject(c *Context) (Object, error) {
	if v.kind != KindObject {
		return Object{}, errors.WrongKind("object", v.kind.String())
	}
	return v.GetObject(c), nil
}

// AsNumber converts the value to a number following the script language's
// standard coercion rules (true becomes 1, strings parse, objects coerce
// through their own valueOf). Kinds that cannot coerce, such as symbols,
// return a catchable error.
func (v Value) AsNumber(c *Context) (float64, error) {
	if v.kind == KindNumber {
		return v.num, nil
	}
	return c.adapter.ToNumber(c.Raw(v))
}

// ToString converts the value to a string the way the script language's
// own toString would, including object-to-primitive coercion.
func (v Value) ToString(c *Context) (string, error) {
	return c.adapter.ToString(c.Raw(v))
}

// ToJSON serializes the value with a full structural walk. Cyclic graphs
// produce a serialization error rather than looping; values with no JSON
// form (undefined, functions) are an error as well.
func (v Value) ToJSON(c *Context) (string, error) {
	return c.adapter.ToJSON(c.Raw(v))
}

// FromJSONUTF8 builds a value from utf8-encoded JSON text.
func FromJSONUTF8(c *Context, data []byte) (Value, error) {
	raw, err := c.adapter.FromJSONUTF8(data)
	if err != nil {
		return Undefined(), err
	}
	return c.Adopt(raw), nil
}

// StrictEquals compares two values: scalars by value, reference kinds by
// engine identity (the same underlying entity), never by structure. NaN is
// unequal to itself, matching the script language's strict equality.
func StrictEquals(c *Context, a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindUndefined, KindNull:
		return true
	case KindBoolean:
		return a.boolean == b.boolean
	case KindNumber:
		return a.num == b.num
	case KindSymbol, KindString, KindObject:
		return c.adapter.StrictEquals(
			a.handle.checkRef(c, "value"),
			b.handle.checkRef(c, "value"),
		)
	default:
		errors.Faultf(errors.KindWrongKind, "invalid value kind %d", a.kind)
		return false
	}
}
