package ecs

import (
	"github.com/RoaringBitmap/roaring/v2"
)

// ChangeKind classifies what happened to a component since the last frame
// boundary. Kinds combine as a bitmask.
type ChangeKind uint8

const (
	ChangeAdded    ChangeKind = 1 << iota // component attached to the entity
	ChangeModified                        // component value rewritten or marked
	ChangeRemoved                         // component detached from the entity
)

// ChangeAny matches every kind.
const ChangeAny = ChangeAdded | ChangeModified | ChangeRemoved

// typeChanges holds the per-component-type membership sets. Entity indices
// are dense uint32s, which is what roaring bitmaps are built for.
type typeChanges struct {
	added    *roaring.Bitmap
	modified *roaring.Bitmap
	removed  *roaring.Bitmap
	version  uint64
}

func newTypeChanges() *typeChanges {
	return &typeChanges{
		added:    roaring.New(),
		modified: roaring.New(),
		removed:  roaring.New(),
	}
}

func (tc *typeChanges) set(kind ChangeKind) *roaring.Bitmap {
	switch kind {
	case ChangeAdded:
		return tc.added
	case ChangeModified:
		return tc.modified
	case ChangeRemoved:
		return tc.removed
	}
	return nil
}

// entityChanges records which component types changed on one entity and how.
type entityChanges struct {
	kinds map[ComponentID]ChangeKind
}

// ChangeTracker records per-component added/modified/removed sets with a
// monotonic version counter, answering "what changed since the last clear".
// ClearAll is the only way the version-scoped sets shrink and is expected
// once per frame boundary; type registrations survive it.
//
// Per-entity records are keyed by the full handle, generation included, so
// an entity spawned into a recycled slot never inherits the destroyed
// entity's marks. The per-type bitmaps stay index-based for iteration.
type ChangeTracker struct {
	types    map[ComponentID]*typeChanges
	entities map[EntityID]*entityChanges
	version  uint64
}

// NewChangeTracker constructs an empty tracker.
func NewChangeTracker() *ChangeTracker {
	return &ChangeTracker{
		types:    make(map[ComponentID]*typeChanges),
		entities: make(map[EntityID]*entityChanges),
	}
}

// MarkChanged records a change of the given kind for (entity, component),
// stamps the component record with a fresh version, and bumps the global
// counter. Kind defaults to ChangeModified when zero.
func (t *ChangeTracker) MarkChanged(e EntityID, id ComponentID, kind ChangeKind) {
	if kind == 0 {
		kind = ChangeModified
	}
	tc, ok := t.types[id]
	if !ok {
		tc = newTypeChanges()
		t.types[id] = tc
	}
	for _, k := range []ChangeKind{ChangeAdded, ChangeModified, ChangeRemoved} {
		if kind&k != 0 {
			tc.set(k).Add(e.Index())
		}
	}
	t.version++
	tc.version = t.version

	ec, ok := t.entities[e]
	if !ok {
		ec = &entityChanges{kinds: make(map[ComponentID]ChangeKind)}
		t.entities[e] = ec
	}
	ec.kinds[id] |= kind
}

// HasChanged reports whether (entity, component) changed since the last
// clear. For kinds narrower than ChangeAny the recorded kind bitmask must
// overlap the query.
func (t *ChangeTracker) HasChanged(e EntityID, id ComponentID, kind ChangeKind) bool {
	ec, ok := t.entities[e]
	if !ok {
		return false
	}
	recorded, ok := ec.kinds[id]
	if !ok {
		return false
	}
	if kind == 0 {
		kind = ChangeAny
	}
	return recorded&kind != 0
}

// ChangedComponents returns the component ids recorded for an entity along
// with their kind bitmasks.
func (t *ChangeTracker) ChangedComponents(e EntityID) map[ComponentID]ChangeKind {
	ec, ok := t.entities[e]
	if !ok {
		return nil
	}
	out := make(map[ComponentID]ChangeKind, len(ec.kinds))
	for id, kind := range ec.kinds {
		out[id] = kind
	}
	return out
}

// ForEachChanged visits the entity indices recorded for (component, kind)
// in ascending index order until fn returns false. kind must be a single
// kind; ChangeAny visits the union.
func (t *ChangeTracker) ForEachChanged(id ComponentID, kind ChangeKind, fn func(index uint32) bool) {
	tc, ok := t.types[id]
	if !ok {
		return
	}
	var bm *roaring.Bitmap
	if kind == ChangeAny || kind == 0 {
		bm = roaring.Or(tc.added, tc.modified)
		bm.Or(tc.removed)
	} else {
		bm = tc.set(kind)
		if bm == nil {
			return
		}
	}
	it := bm.Iterator()
	for it.HasNext() {
		if !fn(it.Next()) {
			return
		}
	}
}

// ChangedCount returns how many entities are recorded for (component, kind).
func (t *ChangeTracker) ChangedCount(id ComponentID, kind ChangeKind) int {
	tc, ok := t.types[id]
	if !ok {
		return 0
	}
	if kind == ChangeAny || kind == 0 {
		union := roaring.Or(tc.added, tc.modified)
		union.Or(tc.removed)
		return int(union.GetCardinality())
	}
	bm := tc.set(kind)
	if bm == nil {
		return 0
	}
	return int(bm.GetCardinality())
}

// ComponentVersion returns the version stamp of the component's last
// recorded change, zero when never touched.
func (t *ChangeTracker) ComponentVersion(id ComponentID) uint64 {
	tc, ok := t.types[id]
	if !ok {
		return 0
	}
	return tc.version
}

// Version returns the global monotonic change counter.
func (t *ChangeTracker) Version() uint64 {
	return t.version
}

// ClearAll empties every per-type and per-entity set without discarding the
// type records themselves. Intended once per frame boundary.
func (t *ChangeTracker) ClearAll() {
	for _, tc := range t.types {
		tc.added.Clear()
		tc.modified.Clear()
		tc.removed.Clear()
	}
	clear(t.entities)
}
