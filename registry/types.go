package registry

// ID is an opaque reference to a cell in a Table. ID 0 is reserved and
// always invalid. An ID encodes both the slot and the generation of the
// cell, so an ID kept past the cell's release never aliases a reused slot.
type ID uint64

const invalidID ID = 0

// slot returns the zero-based slot index encoded in the ID.
func (id ID) slot() uint32 {
	return uint32(id&0xffffffff) - 1
}

// generation returns the generation counter encoded in the ID.
func (id ID) generation() uint32 {
	return uint32(id >> 32)
}

func makeID(slot, gen uint32) ID {
	return ID(uint64(slot+1) | uint64(gen)<<32)
}

// EventType enumerates cell lifecycle notifications.
type EventType uint8

const (
	EventCreated EventType = iota
	EventReleased
)

// Event represents a cell lifecycle event.
type Event struct {
	Value any
	ID    ID
	Type  EventType
}

// Observer receives notifications about cell lifecycle events.
type Observer interface {
	OnCellEvent(Event)
}

// Releaser is optionally implemented by cell values that need cleanup when
// their cell is removed or the table is closed. Release is called exactly
// once per cell.
type Releaser interface {
	Release()
}
