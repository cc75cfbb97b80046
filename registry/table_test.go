package registry

import (
	"testing"
)

type testObserver struct {
	events []Event
}

func (o *testObserver) OnCellEvent(e Event) {
	o.events = append(o.events, e)
}

type testReleaser struct {
	released int
}

func (r *testReleaser) Release() {
	r.released++
}

func TestTable_Basic(t *testing.T) {
	table := NewTable()

	id, err := table.Insert("entity")
	if err != nil {
		t.Fatal(err)
	}
	if id == 0 {
		t.Fatal("expected non-zero ID")
	}

	val, ok := table.Get(id)
	if !ok {
		t.Fatal("Get failed")
	}
	if val != "entity" {
		t.Fatalf("expected 'entity', got %v", val)
	}

	val, ok = table.Remove(id)
	if !ok {
		t.Fatal("Remove failed")
	}
	if val != "entity" {
		t.Fatalf("expected 'entity', got %v", val)
	}

	if table.Len() != 0 {
		t.Fatal("expected Len() == 0 after Remove")
	}
}

func TestTable_ZeroID(t *testing.T) {
	table := NewTable()
	if _, ok := table.Get(0); ok {
		t.Fatal("zero ID must never resolve")
	}
	if _, ok := table.Remove(0); ok {
		t.Fatal("zero ID must never remove")
	}
}

func TestTable_StaleIDAfterReuse(t *testing.T) {
	table := NewTable()

	first, _ := table.Insert("first")
	table.Remove(first)

	// The freed slot is reused, but under a new generation.
	second, _ := table.Insert("second")
	if first == second {
		t.Fatal("reused slot produced an identical ID")
	}

	if _, ok := table.Get(first); ok {
		t.Fatal("stale ID resolved after slot reuse")
	}
	if _, ok := table.Remove(first); ok {
		t.Fatal("stale ID removed the slot's new occupant")
	}

	val, ok := table.Get(second)
	if !ok || val != "second" {
		t.Fatalf("new occupant unreachable: %v %v", val, ok)
	}
}

func TestTable_DoubleRemove(t *testing.T) {
	table := NewTable()
	id, _ := table.Insert("x")

	if _, ok := table.Remove(id); !ok {
		t.Fatal("first remove failed")
	}
	if _, ok := table.Remove(id); ok {
		t.Fatal("second remove of the same ID succeeded")
	}
}

func TestTable_Releaser(t *testing.T) {
	table := NewTable()
	r := &testReleaser{}

	id, _ := table.Insert(r)
	table.Remove(id)
	if r.released != 1 {
		t.Fatalf("Release called %d times, want 1", r.released)
	}

	// Close must not release it again.
	table.Close()
	if r.released != 1 {
		t.Fatalf("Release called %d times after Close, want 1", r.released)
	}
}

func TestTable_CloseReleasesLiveCells(t *testing.T) {
	table := NewTable()
	a := &testReleaser{}
	b := &testReleaser{}
	idA, _ := table.Insert(a)
	table.Insert(b)

	if err := table.Close(); err != nil {
		t.Fatal(err)
	}
	if a.released != 1 || b.released != 1 {
		t.Fatalf("live cells not released on Close: %d %d", a.released, b.released)
	}

	if _, ok := table.Get(idA); ok {
		t.Fatal("cell resolved after Close")
	}
	if _, err := table.Insert("late"); err != ErrClosed {
		t.Fatalf("Insert after Close: err = %v, want ErrClosed", err)
	}

	// Idempotent.
	if err := table.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestTable_Observer(t *testing.T) {
	table := NewTable()
	obs := &testObserver{}
	table.Subscribe(obs)

	id, _ := table.Insert("v")
	if len(obs.events) != 1 || obs.events[0].Type != EventCreated || obs.events[0].ID != id {
		t.Fatalf("unexpected events after insert: %+v", obs.events)
	}

	table.Remove(id)
	if len(obs.events) != 2 || obs.events[1].Type != EventReleased {
		t.Fatalf("unexpected events after remove: %+v", obs.events)
	}

	table.Unsubscribe(obs)
	table.Insert("w")
	if len(obs.events) != 2 {
		t.Fatal("observer notified after Unsubscribe")
	}
}

func TestTable_Each(t *testing.T) {
	table := NewTable()
	table.Insert("a")
	idB, _ := table.Insert("b")
	table.Remove(idB)
	table.Insert("c")

	seen := map[any]bool{}
	table.Each(func(id ID, v any) bool {
		seen[v] = true
		return true
	})
	if len(seen) != 2 || !seen["a"] || !seen["c"] {
		t.Fatalf("Each visited %v", seen)
	}
}

func TestView_Typed(t *testing.T) {
	table := NewTable()
	view := NewView[*testReleaser](table)

	r := &testReleaser{}
	id, err := view.Insert(r)
	if err != nil {
		t.Fatal(err)
	}

	got, ok := view.Get(id)
	if !ok || got != r {
		t.Fatal("typed Get failed")
	}

	// A cell of a different type is invisible through the view.
	other, _ := table.Insert("string cell")
	if _, ok := view.Get(other); ok {
		t.Fatal("view resolved a cell of the wrong type")
	}

	if _, ok := view.Remove(id); !ok {
		t.Fatal("typed Remove failed")
	}
}
