package ecs

import (
	"github.com/lattice-engine/ecs/bitset"
)

type archetypeID uint32

// Archetype is a storage bucket for all entities sharing one component-type
// signature. It keeps one parallel column per component in the signature plus
// a dense entity-id array; row i across every column and the entity array
// always describes one entity's state.
type Archetype struct {
	id       archetypeID
	mask     *bitset.BitSet
	order    []ComponentID // signature order: ascending component id
	entities []EntityID
	columns  [][]any // parallel to order
	slots    map[ComponentID]int
}

func newArchetype(id archetypeID, mask *bitset.BitSet) *Archetype {
	bits := mask.ToArray()
	order := make([]ComponentID, len(bits))
	slots := make(map[ComponentID]int, len(bits))
	for i, bit := range bits {
		order[i] = ComponentID(bit)
		slots[ComponentID(bit)] = i
	}
	return &Archetype{
		id:      id,
		mask:    mask,
		order:   order,
		columns: make([][]any, len(order)),
		slots:   slots,
	}
}

// ID returns the archetype's world-local identifier.
func (a *Archetype) ID() uint32 {
	return uint32(a.id)
}

// Mask returns the immutable signature mask. Callers must not mutate it.
func (a *Archetype) Mask() *bitset.BitSet {
	return a.mask
}

// ComponentIDs returns the signature's component ids in ascending order.
func (a *Archetype) ComponentIDs() []ComponentID {
	return a.order
}

// Entities returns the dense entity array. Row order is live storage order.
func (a *Archetype) Entities() []EntityID {
	return a.entities
}

// Len returns the number of rows.
func (a *Archetype) Len() int {
	return len(a.entities)
}

// Contains reports whether the signature includes the component id.
func (a *Archetype) Contains(id ComponentID) bool {
	_, ok := a.slots[id]
	return ok
}

// Column returns the storage column for a component id.
func (a *Archetype) Column(id ComponentID) ([]any, bool) {
	slot, ok := a.slots[id]
	if !ok {
		return nil, false
	}
	return a.columns[slot], true
}

// appendRow adds one entity with values in signature order, extending every
// column and the entity array together. Returns the new row index.
func (a *Archetype) appendRow(e EntityID, values []any) int {
	row := len(a.entities)
	a.entities = append(a.entities, e)
	for slot := range a.columns {
		a.columns[slot] = append(a.columns[slot], values[slot])
	}
	return row
}

// swapRemove deletes a row by moving the last row into its place, keeping
// columns dense. When a different row was moved into the vacated index, the
// moved entity is returned so the caller can fix its row bookkeeping.
func (a *Archetype) swapRemove(row int) (moved EntityID, wasMoved bool) {
	last := len(a.entities) - 1
	if row < last {
		a.entities[row] = a.entities[last]
		for slot := range a.columns {
			a.columns[slot][row] = a.columns[slot][last]
		}
		moved = a.entities[row]
		wasMoved = true
	}
	a.entities = a.entities[:last]
	for slot := range a.columns {
		a.columns[slot][last] = nil
		a.columns[slot] = a.columns[slot][:last]
	}
	return moved, wasMoved
}

// valueAt returns the component value stored at a row.
func (a *Archetype) valueAt(row int, id ComponentID) (any, bool) {
	slot, ok := a.slots[id]
	if !ok || row < 0 || row >= len(a.entities) {
		return nil, false
	}
	return a.columns[slot][row], true
}

// setValue overwrites the component value stored at a row.
func (a *Archetype) setValue(row int, id ComponentID, value any) bool {
	slot, ok := a.slots[id]
	if !ok || row < 0 || row >= len(a.entities) {
		return false
	}
	a.columns[slot][row] = value
	return true
}
