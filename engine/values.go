package engine

import (
	"fmt"

	"github.com/dop251/goja"

	"github.com/hostside/jsbridge"
	"github.com/hostside/jsbridge/errors"
)

// toRaw converts an engine value into the plain-data boundary form,
// pinning reference kinds into fresh cells.
func (e *Engine) toRaw(gv goja.Value) jsbridge.RawValue {
	if gv == nil || goja.IsUndefined(gv) {
		return jsbridge.RawValue{Kind: jsbridge.KindUndefined}
	}
	if goja.IsNull(gv) {
		return jsbridge.RawValue{Kind: jsbridge.KindNull}
	}
	switch gv.(type) {
	case *goja.Object:
		return jsbridge.RawValue{Kind: jsbridge.KindObject, Ref: e.insert(gv)}
	case *goja.Symbol:
		return jsbridge.RawValue{Kind: jsbridge.KindSymbol, Ref: e.insert(gv)}
	}
	switch ex := gv.Export().(type) {
	case bool:
		return jsbridge.RawValue{Kind: jsbridge.KindBoolean, Bool: ex}
	case int64:
		return jsbridge.RawValue{Kind: jsbridge.KindNumber, Num: float64(ex)}
	case float64:
		return jsbridge.RawValue{Kind: jsbridge.KindNumber, Num: ex}
	case string:
		return jsbridge.RawValue{Kind: jsbridge.KindString, Ref: e.insert(gv)}
	default:
		// Engine-produced values outside the bridgeable set, BigInt for
		// one, surface through the catchable channel; the script input
		// was valid even though the layer cannot carry the result.
		panic(errors.TypeMismatch(errors.PhaseValue, "a bridgeable value", fmt.Sprintf("%T", ex)))
	}
}

// fromRaw converts a boundary value back into an engine value.
func (e *Engine) fromRaw(raw jsbridge.RawValue) goja.Value {
	switch raw.Kind {
	case jsbridge.KindUndefined:
		return goja.Undefined()
	case jsbridge.KindNull:
		return goja.Null()
	case jsbridge.KindBoolean:
		return e.vm.ToValue(raw.Bool)
	case jsbridge.KindNumber:
		return e.vm.ToValue(raw.Num)
	case jsbridge.KindString, jsbridge.KindSymbol, jsbridge.KindObject:
		return e.deref(raw.Ref)
	default:
		errors.Faultf(errors.KindWrongKind, "invalid value kind %d", raw.Kind)
		panic("unreachable")
	}
}

func (e *Engine) fromRaws(raws []jsbridge.RawValue) []goja.Value {
	if len(raws) == 0 {
		return nil
	}
	out := make([]goja.Value, len(raws))
	for i, r := range raws {
		out[i] = e.fromRaw(r)
	}
	return out
}

// CreateString pins a new engine string. The Go string data is copied by
// the interpreter.
func (e *Engine) CreateString(s string) jsbridge.Ref {
	return e.insert(e.vm.ToValue(s))
}

// UTF8 materializes a pinned engine string.
func (e *Engine) UTF8(str jsbridge.Ref) string {
	return e.deref(str).String()
}

// SymbolToString renders a symbol as Symbol.prototype.toString would. The
// engine's own String yields only the description.
func (e *Engine) SymbolToString(sym jsbridge.Ref) string {
	s, ok := e.deref(sym).(*goja.Symbol)
	if !ok {
		errors.Faultf(errors.KindWrongKind, "cell does not hold a symbol")
	}
	return "Symbol(" + s.String() + ")"
}

// InternKey interns a property key. Equal strings share one cell, and key
// cells live until the engine closes.
func (e *Engine) InternKey(s string) jsbridge.Ref {
	if ref, ok := e.keys[s]; ok {
		return ref
	}
	ref := e.insert(keyCell{name: s})
	e.keys[s] = ref
	return ref
}

// KeyFromString interns a key from a pinned engine string.
func (e *Engine) KeyFromString(str jsbridge.Ref) jsbridge.Ref {
	return e.InternKey(e.deref(str).String())
}

// KeyUTF8 returns the key's text.
func (e *Engine) KeyUTF8(key jsbridge.Ref) string {
	return e.keyName(key)
}

// KeysEqual compares two interned keys by content.
func (e *Engine) KeysEqual(a, b jsbridge.Ref) bool {
	return a == b || e.keyName(a) == e.keyName(b)
}

func (e *Engine) keyName(ref jsbridge.Ref) string {
	v, ok := e.cells.Get(registryID(ref))
	if !ok {
		errors.ReleasedFault("property key cell")
	}
	k, ok := v.(keyCell)
	if !ok {
		errors.Faultf(errors.KindWrongKind, "cell does not hold a property key")
	}
	return k.name
}

// StrictEquals applies the engine's strict equality to two pinned values.
func (e *Engine) StrictEquals(a, b jsbridge.Ref) bool {
	return e.deref(a).StrictEquals(e.deref(b))
}

// ToNumber coerces a value to a number with the language's rules. Coercion
// runs through script, so kinds with no number coercion, like symbols,
// surface the engine's TypeError as a catchable error.
func (e *Engine) ToNumber(v jsbridge.RawValue) (float64, error) {
	res, err := e.toNumberFn(goja.Undefined(), e.fromRaw(v))
	if err != nil {
		return 0, e.mapErr(errors.PhaseValue, err)
	}
	return res.ToFloat(), nil
}

// ToString coerces a value to a string, running toString on objects.
func (e *Engine) ToString(v jsbridge.RawValue) (string, error) {
	var out string
	err := e.try(errors.PhaseValue, func() {
		out = e.fromRaw(v).String()
	})
	return out, err
}

// ToJSON serializes a value through the engine's own JSON.stringify, so
// toJSON hooks and cycle detection behave exactly as in script.
func (e *Engine) ToJSON(v jsbridge.RawValue) (string, error) {
	res, err := e.jsonStringify(goja.Undefined(), e.fromRaw(v))
	if err != nil {
		if circular(err) {
			return "", errors.CyclicStructure("value contains a cycle")
		}
		return "", errors.Serialization(e.mapErr(errors.PhaseJSON, err))
	}
	if res == nil || goja.IsUndefined(res) {
		return "", errors.Serialization(nil)
	}
	return res.String(), nil
}

// FromJSONUTF8 parses utf8 JSON text through the engine's JSON.parse.
func (e *Engine) FromJSONUTF8(data []byte) (jsbridge.RawValue, error) {
	res, err := e.jsonParse(goja.Undefined(), e.vm.ToValue(string(data)))
	if err != nil {
		return jsbridge.RawValue{}, errors.ParseFailed(e.mapErr(errors.PhaseJSON, err))
	}
	return e.toRaw(res), nil
}
