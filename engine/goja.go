package engine

import (
	"strings"
	"sync"

	"github.com/dop251/goja"

	"github.com/hostside/jsbridge"
	"github.com/hostside/jsbridge/errors"
	"github.com/hostside/jsbridge/registry"
)

// Engine implements jsbridge.Adapter on top of the goja interpreter. Every
// engine-resident entity a handle refers to lives in a cell table; the cell
// pins the goja value against both slot reuse and Go garbage collection
// until the handle is invalidated.
type Engine struct {
	vm       *goja.Runtime
	cells    *registry.Table
	payloads *registry.Table
	ctx      *jsbridge.Context

	keys map[string]jsbridge.Ref

	hostFnSym  *goja.Symbol
	hostObjSym *goja.Symbol

	jsonStringify goja.Callable
	jsonParse     goja.Callable
	isArrayFn     goja.Callable
	isViewFn      goja.Callable
	hasPropFn     goja.Callable
	toNumberFn    goja.Callable
	errorCtor     goja.Constructor

	hookMu sync.Mutex
	hooks  map[*bufferHook]struct{}

	closed bool
}

var _ jsbridge.Adapter = (*Engine)(nil)

// Config holds configuration for engine creation
type Config struct {
	// MaxCallStackSize bounds script recursion depth. 0 means the
	// interpreter default (unbounded).
	MaxCallStackSize int
}

// keyCell is the cell payload for an interned property key.
type keyCell struct {
	name string
}

// New creates a goja-backed engine and the context bound to it.
func New() (*jsbridge.Context, *Engine, error) {
	return NewWithConfig(nil)
}

// NewWithConfig creates an engine with custom configuration.
func NewWithConfig(cfg *Config) (*jsbridge.Context, *Engine, error) {
	vm := goja.New()
	if cfg != nil && cfg.MaxCallStackSize > 0 {
		vm.SetMaxCallStackSize(cfg.MaxCallStackSize)
	}

	e := &Engine{
		vm:         vm,
		cells:      registry.NewTable(),
		payloads:   registry.NewTable(),
		keys:       make(map[string]jsbridge.Ref),
		hostFnSym:  goja.NewSymbol("jsbridge.hostFunction"),
		hostObjSym: goja.NewSymbol("jsbridge.hostObject"),
		hooks:      make(map[*bufferHook]struct{}),
	}

	if err := e.bindIntrinsics(); err != nil {
		return nil, nil, err
	}

	e.ctx = jsbridge.NewContext(e)
	debugf("engine created")
	return e.ctx, e, nil
}

// bindIntrinsics caches the standard-library callables the adapter routes
// through, so hot paths skip global lookups.
func (e *Engine) bindIntrinsics() error {
	jsonObj := e.vm.Get("JSON").ToObject(e.vm)
	stringify, ok := goja.AssertFunction(jsonObj.Get("stringify"))
	if !ok {
		return errors.Wrap(errors.PhaseEngine, errors.KindSerialization, nil, "JSON.stringify is not callable")
	}
	parse, ok := goja.AssertFunction(jsonObj.Get("parse"))
	if !ok {
		return errors.Wrap(errors.PhaseEngine, errors.KindParse, nil, "JSON.parse is not callable")
	}

	isArray, ok := goja.AssertFunction(e.vm.Get("Array").ToObject(e.vm).Get("isArray"))
	if !ok {
		return errors.Wrap(errors.PhaseEngine, errors.KindTypeMismatch, nil, "Array.isArray is not callable")
	}
	isView, ok := goja.AssertFunction(e.vm.Get("ArrayBuffer").ToObject(e.vm).Get("isView"))
	if !ok {
		return errors.Wrap(errors.PhaseEngine, errors.KindTypeMismatch, nil, "ArrayBuffer.isView is not callable")
	}

	hasProp, err := e.vm.RunScript("jsbridge:hasProp", "(function (o, k) { return k in o; })")
	if err != nil {
		return e.mapErr(errors.PhaseEngine, err)
	}
	hasPropFn, ok := goja.AssertFunction(hasProp)
	if !ok {
		return errors.Wrap(errors.PhaseEngine, errors.KindTypeMismatch, nil, "property probe is not callable")
	}

	// Number coercion runs in script so a TypeError, as thrown for symbols,
	// arrives through the catchable channel instead of panicking.
	toNumber, err := e.vm.RunScript("jsbridge:toNumber", "(function (v) { return +v; })")
	if err != nil {
		return e.mapErr(errors.PhaseEngine, err)
	}
	toNumberFn, ok := goja.AssertFunction(toNumber)
	if !ok {
		return errors.Wrap(errors.PhaseEngine, errors.KindTypeMismatch, nil, "number coercion probe is not callable")
	}

	errorCtor, ok := goja.AssertConstructor(e.vm.Get("Error").ToObject(e.vm))
	if !ok {
		return errors.Wrap(errors.PhaseEngine, errors.KindTypeMismatch, nil, "Error is not constructible")
	}

	e.jsonStringify = stringify
	e.jsonParse = parse
	e.isArrayFn = isArray
	e.isViewFn = isView
	e.hasPropFn = hasPropFn
	e.toNumberFn = toNumberFn
	e.errorCtor = errorCtor
	return nil
}

// insert pins a value into the cell table and returns its ref.
func (e *Engine) insert(v any) jsbridge.Ref {
	id, err := e.cells.Insert(v)
	if err != nil {
		errors.Faultf(errors.KindClosed, "engine used after close")
	}
	return jsbridge.Ref(id)
}

func registryID(ref jsbridge.Ref) registry.ID {
	return registry.ID(ref)
}

// deref resolves a ref to its pinned goja value, faulting on a zero, stale,
// or already-invalidated ref.
func (e *Engine) deref(ref jsbridge.Ref) goja.Value {
	v, ok := e.cells.Get(registry.ID(ref))
	if !ok {
		errors.ReleasedFault("engine cell")
	}
	gv, ok := v.(goja.Value)
	if !ok {
		errors.Faultf(errors.KindWrongKind, "cell does not hold a script value")
	}
	return gv
}

// derefObject resolves a ref that must hold an object.
func (e *Engine) derefObject(ref jsbridge.Ref, what string) *goja.Object {
	obj, ok := e.deref(ref).(*goja.Object)
	if !ok {
		errors.Faultf(errors.KindWrongKind, "cell does not hold %s", what)
	}
	return obj
}

// CloneHandle issues a second cell for the entity behind ref.
func (e *Engine) CloneHandle(ref jsbridge.Ref) jsbridge.Ref {
	v, ok := e.cells.Get(registry.ID(ref))
	if !ok {
		errors.ReleasedFault("engine cell")
	}
	return e.insert(v)
}

// InvalidateHandle releases one cell. The generation check in the table
// turns double release and stale refs into faults instead of aliasing.
func (e *Engine) InvalidateHandle(ref jsbridge.Ref) {
	if _, ok := e.cells.Remove(registry.ID(ref)); !ok {
		errors.ReleasedFault("engine cell")
	}
}

// Global returns a fresh cell for the global object.
func (e *Engine) Global() jsbridge.Ref {
	return e.insert(goja.Value(e.vm.GlobalObject()))
}

// Evaluate runs script source and returns its completion value.
func (e *Engine) Evaluate(src, sourceURL string) (jsbridge.RawValue, error) {
	if e.closed {
		return jsbridge.RawValue{}, errors.Closed(errors.PhaseEngine)
	}
	if sourceURL == "" {
		sourceURL = "<eval>"
	}
	debugf("evaluate %s (%d bytes)", sourceURL, len(src))
	res, err := e.vm.RunScript(sourceURL, src)
	if err != nil {
		return jsbridge.RawValue{}, e.mapErr(errors.PhaseEngine, err)
	}
	var raw jsbridge.RawValue
	if cerr := e.try(errors.PhaseEngine, func() { raw = e.toRaw(res) }); cerr != nil {
		return jsbridge.RawValue{}, cerr
	}
	return raw, nil
}

// Interrupt aborts the currently running script. Pending and future engine
// entries fail with an interrupted error until ClearInterrupt.
func (e *Engine) Interrupt(reason string) {
	e.vm.Interrupt(reason)
}

// ClearInterrupt re-arms the engine after an Interrupt.
func (e *Engine) ClearInterrupt() {
	e.vm.ClearInterrupt()
}

// LiveCells reports the number of live cells, interned keys included.
func (e *Engine) LiveCells() int {
	return e.cells.Len()
}

// Close invalidates every cell, fires outstanding external buffer
// deallocators, and drops host object payloads. Idempotent.
func (e *Engine) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true

	_ = e.cells.Close()
	_ = e.payloads.Close()

	e.hookMu.Lock()
	hooks := make([]*bufferHook, 0, len(e.hooks))
	for h := range e.hooks {
		hooks = append(hooks, h)
	}
	e.hooks = make(map[*bufferHook]struct{})
	e.hookMu.Unlock()
	for _, h := range hooks {
		h.fire()
	}

	debugf("engine closed")
	return nil
}

// try runs fn, converting a goja throw into an error on phase. Faults and
// foreign panics propagate.
func (e *Engine) try(phase errors.Phase, fn func()) (err error) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if _, ok := errors.AsFault(r); ok {
			panic(r)
		}
		switch rerr := r.(type) {
		case *goja.InterruptedError, *goja.StackOverflowError, *goja.Exception:
			err = e.mapErr(phase, rerr.(error))
		case *errors.Error:
			err = rerr
		default:
			panic(r)
		}
	}()
	fn()
	return nil
}

// mapErr converts goja failure types into the catchable error channel.
func (e *Engine) mapErr(phase errors.Phase, err error) error {
	if err == nil {
		return nil
	}
	switch ex := err.(type) {
	case *goja.InterruptedError:
		return errors.Interrupted(ex.String())
	case *goja.StackOverflowError:
		return errors.New(phase, errors.KindException).
			Detail("stack overflow").
			Cause(ex).
			Build()
	case *goja.Exception:
		return e.exceptionErr(phase, ex)
	case *errors.Error:
		return ex
	}
	return errors.Wrap(phase, errors.KindException, err, "engine failure")
}

// exceptionErr preserves the thrown value and extracts the message the way
// a catch block would read e.message, so messages round-trip through host
// frames without accreting wrapper text.
func (e *Engine) exceptionErr(phase errors.Phase, ex *goja.Exception) *errors.Error {
	thrown := ex.Value()
	msg := ""
	if obj, ok := thrown.(*goja.Object); ok {
		if m := obj.Get("message"); m != nil && !goja.IsUndefined(m) {
			msg = m.String()
		}
	}
	if msg == "" && thrown != nil {
		if _, isSym := thrown.(*goja.Symbol); !isSym {
			msg = thrown.String()
		}
	}
	return errors.New(phase, errors.KindException).
		Detail("%s", msg).
		Thrown(thrown).
		Build()
}

// throw delivers a host-returned error into the engine as a script throw.
// An engine-thrown value carried in the error is rethrown unchanged.
func (e *Engine) throw(err error) {
	if be, ok := err.(*errors.Error); ok {
		if tv, ok := be.Thrown.(goja.Value); ok && tv != nil {
			panic(tv)
		}
		if obj, cerr := e.errorCtor(nil, e.vm.ToValue(be.Message())); cerr == nil {
			panic(goja.Value(obj))
		}
	}
	panic(goja.Value(e.vm.NewGoError(err)))
}

// circular reports whether a serialization failure came from a cycle.
func circular(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "circular")
}
