package registry

import (
	"errors"
	"sync"
)

var ErrClosed = errors.New("registry table closed")

// Table is an in-memory cell table with generation-checked IDs. Slots are
// reused through a freelist, but each reuse bumps the slot's generation, so
// a stale ID is detected instead of silently reaching the new occupant.
type Table struct {
	entries   []entry
	freeList  []uint32
	mu        sync.RWMutex
	observers []Observer
	obsMu     sync.RWMutex
	closed    bool
}

type entry struct {
	value any
	gen   uint32
	live  bool
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{
		entries:  make([]entry, 0, 64),
		freeList: make([]uint32, 0, 16),
	}
}

// Insert stores a value and returns its ID.
func (t *Table) Insert(value any) (ID, error) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return invalidID, ErrClosed
	}

	var id ID
	if n := len(t.freeList); n > 0 {
		slot := t.freeList[n-1]
		t.freeList = t.freeList[:n-1]
		e := &t.entries[slot]
		e.value = value
		e.live = true
		id = makeID(slot, e.gen)
	} else {
		t.entries = append(t.entries, entry{value: value, live: true})
		id = makeID(uint32(len(t.entries)-1), 0)
	}
	t.mu.Unlock()

	t.notify(Event{Type: EventCreated, ID: id, Value: value})
	return id, nil
}

// Get retrieves a value by ID. A zero, stale, or released ID returns false.
func (t *Table) Get(id ID) (any, bool) {
	if id == invalidID {
		return nil, false
	}

	t.mu.RLock()
	defer t.mu.RUnlock()

	slot := id.slot()
	if int(slot) >= len(t.entries) {
		return nil, false
	}
	e := t.entries[slot]
	if !e.live || e.gen != id.generation() {
		return nil, false
	}
	return e.value, true
}

// Remove releases a cell and returns (value, true) if it was live. The
// slot's generation is bumped so the removed ID can never resolve again.
// The value's Releaser hook, if any, runs after the cell is gone.
func (t *Table) Remove(id ID) (any, bool) {
	if id == invalidID {
		return nil, false
	}

	t.mu.Lock()
	slot := id.slot()
	if int(slot) >= len(t.entries) {
		t.mu.Unlock()
		return nil, false
	}
	e := &t.entries[slot]
	if !e.live || e.gen != id.generation() {
		t.mu.Unlock()
		return nil, false
	}

	value := e.value
	e.value = nil
	e.live = false
	e.gen++
	t.freeList = append(t.freeList, slot)
	t.mu.Unlock()

	if r, ok := value.(Releaser); ok {
		r.Release()
	}

	t.notify(Event{Type: EventReleased, ID: id, Value: value})
	return value, true
}

// Subscribe adds an observer for lifecycle events.
func (t *Table) Subscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	t.observers = append(t.observers, o)
}

// Unsubscribe removes an observer.
func (t *Table) Unsubscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	for i, obs := range t.observers {
		if obs == o {
			t.observers = append(t.observers[:i], t.observers[i+1:]...)
			return
		}
	}
}

// Len returns the number of live cells.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()

	n := 0
	for i := range t.entries {
		if t.entries[i].live {
			n++
		}
	}
	return n
}

// Each iterates over live cells. The callback must not mutate the table.
func (t *Table) Each(fn func(ID, any) bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	for i := range t.entries {
		e := t.entries[i]
		if !e.live {
			continue
		}
		if !fn(makeID(uint32(i), e.gen), e.value) {
			return
		}
	}
}

// Close releases all live cells and stops accepting inserts. Closing an
// already-closed table is a no-op.
func (t *Table) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true

	var released []any
	for i := range t.entries {
		e := &t.entries[i]
		if e.live {
			released = append(released, e.value)
			e.value = nil
			e.live = false
			e.gen++
		}
	}
	t.mu.Unlock()

	for _, v := range released {
		if r, ok := v.(Releaser); ok {
			r.Release()
		}
	}
	return nil
}

func (t *Table) notify(e Event) {
	t.obsMu.RLock()
	defer t.obsMu.RUnlock()
	for _, o := range t.observers {
		o.OnCellEvent(e)
	}
}

// View provides type-safe access to a Table whose cells hold a single type.
type View[T any] struct {
	table *Table
}

// NewView wraps a table with a typed view.
func NewView[T any](t *Table) View[T] {
	return View[T]{table: t}
}

// Insert adds a value and returns its ID.
func (v View[T]) Insert(value T) (ID, error) {
	return v.table.Insert(value)
}

// Get retrieves a value by ID, failing on type mismatch as well as on a
// dead cell.
func (v View[T]) Get(id ID) (T, bool) {
	var zero T
	raw, ok := v.table.Get(id)
	if !ok {
		return zero, false
	}
	val, ok := raw.(T)
	if !ok {
		return zero, false
	}
	return val, true
}

// Remove releases a cell and returns its value.
func (v View[T]) Remove(id ID) (T, bool) {
	var zero T
	raw, ok := v.table.Remove(id)
	if !ok {
		return zero, false
	}
	val, ok := raw.(T)
	if !ok {
		return zero, false
	}
	return val, true
}
