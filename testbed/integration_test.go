package testbed

import (
	"runtime"
	"testing"
	"time"

	"github.com/hostside/jsbridge"
	"github.com/hostside/jsbridge/engine"
	"github.com/hostside/jsbridge/errors"
)

func newContext(t *testing.T) *jsbridge.Context {
	t.Helper()
	ctx, _, err := engine.New()
	if err != nil {
		t.Fatalf("engine.New: %v", err)
	}
	t.Cleanup(func() { _ = ctx.Close() })
	return ctx
}

// A host-side resource exposed into script through the class bridge.
type journal struct {
	entries []string
}

func TestHostClassRoundTrip(t *testing.T) {
	c := newContext(t)

	ctor := jsbridge.NewClass(c, jsbridge.NewPropKey(c, "Journal"), 0,
		func(c *jsbridge.Context, this jsbridge.Object, args []jsbridge.Value) (jsbridge.Value, error) {
			backing := jsbridge.NewHostObject(c, &journal{})
			if err := this.SetProperty(c, "backing", backing); err != nil {
				return jsbridge.Undefined(), err
			}
			backing.Release(c)
			return jsbridge.Undefined(), nil
		}, jsbridge.Object{})

	record := jsbridge.NewFunction(c, jsbridge.NewPropKey(c, "record"), 2,
		func(c *jsbridge.Context, this jsbridge.Value, args []jsbridge.Value) (jsbridge.Value, error) {
			if len(args) < 2 {
				return jsbridge.Undefined(), errors.Exception("record needs a journal and a line", nil)
			}
			obj, err := args[0].AsObject(c)
			if err != nil {
				return jsbridge.Undefined(), err
			}
			defer obj.Release(c)
			backing, err := obj.GetPropertyAsObject(c, "backing")
			if err != nil {
				return jsbridge.Undefined(), err
			}
			defer backing.Release(c)
			j, err := jsbridge.AsHostObject[*journal](c, backing)
			if err != nil {
				return jsbridge.Undefined(), err
			}
			line, err := args[1].ToString(c)
			if err != nil {
				return jsbridge.Undefined(), err
			}
			j.entries = append(j.entries, line)
			return jsbridge.Int(int64(len(j.entries))), nil
		})

	g := c.Global()
	defer g.Release(c)
	if err := g.SetProperty(c, "Journal", ctor); err != nil {
		t.Fatalf("install Journal: %v", err)
	}
	if err := g.SetProperty(c, "record", record); err != nil {
		t.Fatalf("install record: %v", err)
	}
	ctor.Release(c)
	record.Release(c)

	v, err := c.Evaluate(`
		var j = new Journal();
		record(j, 'first');
		record(j, 'second');
	`, "journal.js")
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if got := v.GetNumber(); got != 2 {
		t.Fatalf("entry count = %v, want 2", got)
	}

	// Pull the native payload back out through the handle layer.
	jv, err := c.Evaluate("j.backing", "journal.js")
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	backing := jv.TakeObject()
	defer backing.Release(c)
	j := jsbridge.GetHostObject[*journal](c, backing)
	if len(j.entries) != 2 || j.entries[0] != "first" || j.entries[1] != "second" {
		t.Fatalf("journal entries = %v", j.entries)
	}
}

func TestExceptionMessageSurvivesHostFrames(t *testing.T) {
	c := newContext(t)

	// Host frame in the middle of script -> host -> script.
	relay := jsbridge.NewFunction(c, jsbridge.NewPropKey(c, "relay"), 1,
		func(c *jsbridge.Context, this jsbridge.Value, args []jsbridge.Value) (jsbridge.Value, error) {
			obj, err := args[0].AsObject(c)
			if err != nil {
				return jsbridge.Undefined(), err
			}
			defer obj.Release(c)
			fn := obj.GetFunction(c)
			defer fn.Release(c)
			return fn.Call(c)
		})

	g := c.Global()
	defer g.Release(c)
	if err := g.SetProperty(c, "relay", relay); err != nil {
		t.Fatalf("install relay: %v", err)
	}
	relay.Release(c)

	v, err := c.Evaluate(`
		(function () {
			try {
				relay(function () { throw new Error('inner detail'); });
			} catch (e) {
				return e.message;
			}
			return 'not thrown';
		})()
	`, "relay.js")
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	s := v.TakeString()
	defer s.Release(c)
	if got := s.UTF8(c); got != "inner detail" {
		t.Fatalf("message = %q, want %q", got, "inner detail")
	}
}

func TestWeakObjectCollectedAfterRelease(t *testing.T) {
	c := newContext(t)

	o := jsbridge.NewObject(c)
	w := jsbridge.NewWeakObject(c, o)
	defer w.Release(c)

	locked := w.Lock(c)
	if !locked.IsObject() {
		t.Fatalf("weak lock before release = %v, want object", locked.Kind())
	}
	locked.Release(c)

	// Drop the only strong reference and let the collector reclaim it.
	o.Release(c)

	deadline := time.Now().Add(5 * time.Second)
	for {
		runtime.GC()
		v := w.Lock(c)
		if v.IsUndefined() {
			break
		}
		v.Release(c)
		if time.Now().After(deadline) {
			t.Fatalf("weak referent not collected")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestWeakObjectPinnedByScriptReference(t *testing.T) {
	c := newContext(t)

	v, err := c.Evaluate("globalThis.keep = {pinned: true}; keep", "pin.js")
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	o := v.TakeObject()
	w := jsbridge.NewWeakObject(c, o)
	defer w.Release(c)
	o.Release(c)

	runtime.GC()
	runtime.GC()

	locked := w.Lock(c)
	if !locked.IsObject() {
		t.Fatalf("script-reachable referent must stay locked")
	}
	locked.Release(c)
}

func TestJSONRoundTripThroughHandles(t *testing.T) {
	c := newContext(t)

	o := jsbridge.NewObject(c)
	defer o.Release(c)
	if err := o.SetProperty(c, "name", "probe"); err != nil {
		t.Fatalf("set: %v", err)
	}
	arr, err := jsbridge.NewArrayWith(c, 1, 2, 3)
	if err != nil {
		t.Fatalf("array: %v", err)
	}
	if err := o.SetProperty(c, "readings", arr); err != nil {
		t.Fatalf("set: %v", err)
	}
	arr.Release(c)

	ov := o.CloneValue(c)
	text, err := ov.ToJSON(c)
	ov.Release(c)
	if err != nil {
		t.Fatalf("to json: %v", err)
	}

	back, err := jsbridge.FromJSONUTF8(c, []byte(text))
	if err != nil {
		t.Fatalf("from json: %v", err)
	}
	backObj := back.TakeObject()
	defer backObj.Release(c)

	name, err := backObj.GetProperty(c, "name")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	s := name.TakeString()
	if got := s.UTF8(c); got != "probe" {
		t.Fatalf("name = %q", got)
	}
	s.Release(c)

	readings, err := backObj.GetPropertyAsObject(c, "readings")
	if err != nil {
		t.Fatalf("readings: %v", err)
	}
	defer readings.Release(c)
	ra := readings.GetArray(c)
	defer ra.Release(c)
	n, err := ra.Length(c)
	if err != nil || n != 3 {
		t.Fatalf("readings length = %d (%v)", n, err)
	}
}

func TestSetPropertyBorrowsWrapper(t *testing.T) {
	c := newContext(t)

	o := jsbridge.NewObject(c)
	defer o.Release(c)
	key := jsbridge.NewPropKey(c, "payload")

	before := c.LiveCells()
	inner := jsbridge.NewObject(c)
	if err := o.SetPropertyByKey(c, key, inner); err != nil {
		t.Fatalf("set: %v", err)
	}
	if !inner.Live() {
		t.Fatalf("caller must still own the wrapper after a set")
	}
	inner.Release(c)
	if after := c.LiveCells(); after != before {
		t.Fatalf("borrowed set leaked cells: before %d, after %d", before, after)
	}
}

func TestHandleAccountingAcrossWorkload(t *testing.T) {
	c := newContext(t)

	// Interned keys live for the context's lifetime; pin the key first so
	// the accounting below only sees per-iteration cells.
	key := jsbridge.NewPropKey(c, "i")

	before := c.LiveCells()
	for i := 0; i < 100; i++ {
		o := jsbridge.NewObject(c)
		if err := o.SetPropertyByKey(c, key, i); err != nil {
			t.Fatalf("set: %v", err)
		}
		v, err := o.GetPropertyByKey(c, key)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if int(v.GetNumber()) != i {
			t.Fatalf("round trip lost %d", i)
		}
		o.Release(c)
	}
	if after := c.LiveCells(); after != before {
		t.Fatalf("live cells leaked: before %d, after %d", before, after)
	}
}
