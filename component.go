package ecs

import (
	"github.com/lattice-engine/ecs/bitset"
)

// ComponentType names a registered component kind.
type ComponentType string

// ComponentID is the integer id a registry assigns to a component type. It
// doubles as the type's bit position in signature masks; the two are
// allocated together and never diverge.
type ComponentID uint32

// DefaultMaxComponentTypes bounds a registry when no limit is configured.
const DefaultMaxComponentTypes = 1024

// ComponentInfo is the closed per-type vtable resolved once at registration.
// FromData builds an instance from a plain record (the serialization
// boundary's shape); Clone copies an instance where mutable copies are
// needed. Either may be nil for types never crossing those paths.
type ComponentInfo struct {
	Type     ComponentType
	FromData func(data map[string]any) any
	Clone    func(value any) any
}

// NewComponentRegistry constructs a registry bounded to capacity types.
// Non-positive capacity falls back to DefaultMaxComponentTypes.
func NewComponentRegistry(capacity int) *ComponentRegistry {
	if capacity <= 0 {
		capacity = DefaultMaxComponentTypes
	}
	return &ComponentRegistry{
		capacity: capacity,
		byType:   make(map[ComponentType]ComponentID),
	}
}

// ComponentRegistry assigns every component type a stable id and mask bit.
// Bit assignment is monotonic and never reused within a registry instance.
type ComponentRegistry struct {
	capacity int
	byType   map[ComponentType]ComponentID
	infos    []ComponentInfo
}

// Register assigns an id to info's type. Registering an already-known type
// returns its existing id; the original vtable wins. Registering beyond the
// configured capacity fails with RegistryCapacityError.
func (r *ComponentRegistry) Register(info ComponentInfo) (ComponentID, error) {
	if id, ok := r.byType[info.Type]; ok {
		return id, nil
	}
	if len(r.infos) >= r.capacity {
		return 0, RegistryCapacityError{Limit: r.capacity}
	}
	id := ComponentID(len(r.infos))
	r.infos = append(r.infos, info)
	r.byType[info.Type] = id
	return id, nil
}

// IDOf looks up the id assigned to a component type.
func (r *ComponentRegistry) IDOf(t ComponentType) (ComponentID, bool) {
	id, ok := r.byType[t]
	return id, ok
}

// InfoByID returns the vtable registered under id.
func (r *ComponentRegistry) InfoByID(id ComponentID) (ComponentInfo, bool) {
	if int(id) >= len(r.infos) {
		return ComponentInfo{}, false
	}
	return r.infos[id], true
}

// TypeByID returns the component type registered under id.
func (r *ComponentRegistry) TypeByID(id ComponentID) (ComponentType, bool) {
	info, ok := r.InfoByID(id)
	return info.Type, ok
}

// Len returns the number of registered types.
func (r *ComponentRegistry) Len() int {
	return len(r.infos)
}

// Capacity returns the registration limit.
func (r *ComponentRegistry) Capacity() int {
	return r.capacity
}

// MaskOf builds a signature mask from component type names. Unknown types
// fail with ErrComponentNotRegistered.
func (r *ComponentRegistry) MaskOf(types ...ComponentType) (*bitset.BitSet, error) {
	mask := bitset.New(uint32(len(r.infos)))
	for _, t := range types {
		id, ok := r.byType[t]
		if !ok {
			return nil, ErrComponentNotRegistered
		}
		mask.Set(uint32(id))
	}
	return mask, nil
}

// MaskOfIDs builds a signature mask from component ids.
func (r *ComponentRegistry) MaskOfIDs(ids ...ComponentID) *bitset.BitSet {
	mask := bitset.New(uint32(len(r.infos)))
	for _, id := range ids {
		mask.Set(uint32(id))
	}
	return mask
}

// IDsOf resolves type names to ids, preserving order.
func (r *ComponentRegistry) IDsOf(types ...ComponentType) ([]ComponentID, error) {
	ids := make([]ComponentID, len(types))
	for i, t := range types {
		id, ok := r.byType[t]
		if !ok {
			return nil, ErrComponentNotRegistered
		}
		ids[i] = id
	}
	return ids, nil
}

// MaskContainsAll reports whether mask holds every bit of required.
func MaskContainsAll(mask, required *bitset.BitSet) bool {
	return mask.Contains(required)
}

// MaskContainsAny reports whether mask holds at least one bit of candidates.
func MaskContainsAny(mask, candidates *bitset.BitSet) bool {
	return mask.Intersects(candidates)
}

// MaskExcludesAll reports whether mask holds no bit of excluded.
func MaskExcludesAll(mask, excluded *bitset.BitSet) bool {
	return !mask.Intersects(excluded)
}
