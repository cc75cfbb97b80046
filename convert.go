package jsbridge

import (
	"github.com/hostside/jsbridge/errors"
)

// ToValue converts a Go value into an owned script Value. Scalars convert
// directly, strings allocate an engine string, and any layer type (Value,
// Object, Function, ...) is cloned so the caller keeps its original. The
// clone means a caller-made temporary, obj.CloneValue(c) say, still needs
// its own release; borrowing call sites like SetProperty accept the
// wrapper directly for exactly that reason.
// Unsupported Go types are a programming error and fault.
func ToValue(c *Context, value any) Value {
	switch v := value.(type) {
	case nil:
		return Null()
	case bool:
		return Boolean(v)
	case int:
		return Number(float64(v))
	case int8:
		return Number(float64(v))
	case int16:
		return Number(float64(v))
	case int32:
		return Number(float64(v))
	case int64:
		return Number(float64(v))
	case uint:
		return Number(float64(v))
	case uint8:
		return Number(float64(v))
	case uint16:
		return Number(float64(v))
	case uint32:
		return Number(float64(v))
	case uint64:
		return Number(float64(v))
	case float32:
		return Number(float64(v))
	case float64:
		return Number(v)
	case string:
		s := NewString(c, v)
		return s.Value()
	case Value:
		return v.Clone(c)
	case String:
		return v.CloneValue(c)
	case Symbol:
		return v.CloneValue(c)
	case Object:
		return v.CloneValue(c)
	case Array:
		return v.CloneValue(c)
	case ArrayBuffer:
		return v.CloneValue(c)
	case ArrayBufferView:
		return v.CloneValue(c)
	case Function:
		return v.CloneValue(c)
	default:
		errors.Faultf(errors.KindTypeMismatch, "cannot convert %T to a script value", value)
		panic("unreachable")
	}
}

// Args converts a list of Go values for a call site. Every element is an
// owned Value; ReleaseAll returns them when the call is done.
func Args(c *Context, values ...any) []Value {
	out := make([]Value, len(values))
	for i, v := range values {
		out[i] = ToValue(c, v)
	}
	return out
}

// ReleaseAll releases each value in order. Already-empty entries are
// no-ops, matching single-value Release semantics.
func ReleaseAll(c *Context, values []Value) {
	for i := range values {
		values[i].Release(c)
	}
}
