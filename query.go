package ecs

import (
	"github.com/lattice-engine/ecs/bitset"
)

// Filter declares a component-set predicate: entities must carry every type
// in All, at least one type in Any (when non-empty), and none in None.
type Filter struct {
	All  []ComponentType
	Any  []ComponentType
	None []ComponentType
}

// Query is a cached filter over component types. It owns a live,
// incrementally maintained set of matching archetypes: the world offers
// each new archetype once at creation, so matching is never recomputed by
// scanning the archetype universe per call. Archetypes are permanent once
// created (an emptied archetype keeps its columns and skips iteration), so
// the cache only ever grows; there is no eviction path.
//
// Iteration visits cached archetypes in registration order and rows 0..N-1
// within each, a stable order for a fixed sequence of structural edits.
// Structural edits discovered mid-iteration must go through a
// CommandBuffer; editing the world directly while iterating invalidates the
// row indices the iteration walks.
type Query struct {
	world  *World
	logger Logger

	all   *bitset.BitSet
	any   *bitset.BitSet
	none  *bitset.BitSet
	order []ComponentID // f.All order: defines the component tuple yielded

	archetypes []*Archetype
	seen       map[archetypeID]struct{}
}

// Query builds a cached query from a filter. Unknown component types fail
// with ErrComponentNotRegistered.
func (w *World) Query(f Filter) (*Query, error) {
	order, err := w.components.IDsOf(f.All...)
	if err != nil {
		return nil, err
	}
	allMask, err := w.components.MaskOf(f.All...)
	if err != nil {
		return nil, err
	}
	anyMask, err := w.components.MaskOf(f.Any...)
	if err != nil {
		return nil, err
	}
	noneMask, err := w.components.MaskOf(f.None...)
	if err != nil {
		return nil, err
	}

	q := &Query{
		world:  w,
		logger: w.logger,
		all:    allMask,
		any:    anyMask,
		none:   noneMask,
		order:  order,
		seen:   make(map[archetypeID]struct{}),
	}
	for _, arch := range w.archetypes {
		q.addArchetype(arch)
	}
	w.queries = append(w.queries, q)
	return q, nil
}

// Matches reports whether an archetype signature passes the filter.
func (q *Query) Matches(mask *bitset.BitSet) bool {
	if !q.all.IsEmpty() && !MaskContainsAll(mask, q.all) {
		return false
	}
	if !q.any.IsEmpty() && !MaskContainsAny(mask, q.any) {
		return false
	}
	if !q.none.IsEmpty() && !MaskExcludesAll(mask, q.none) {
		return false
	}
	return true
}

// addArchetype offers an archetype to the cache, deduplicating on id.
func (q *Query) addArchetype(arch *Archetype) {
	if _, dup := q.seen[arch.id]; dup {
		return
	}
	if !q.Matches(arch.mask) {
		return
	}
	q.seen[arch.id] = struct{}{}
	q.archetypes = append(q.archetypes, arch)
}

// ForEach visits every matching entity, yielding components in All-list
// order. The components slice is reused between rows; callers keeping
// values past the callback must copy them. Empty archetypes and archetypes
// unexpectedly missing a required column are skipped, the latter with a
// warning, since an empty result is a valid steady state.
func (q *Query) ForEach(fn func(e EntityID, components []any)) {
	values := make([]any, len(q.order))
	columns := make([][]any, len(q.order))
	for _, arch := range q.archetypes {
		if arch.Len() == 0 {
			continue
		}
		if !q.resolveColumns(arch, columns) {
			continue
		}
		for row := range arch.entities {
			for slot := range columns {
				values[slot] = columns[slot][row]
			}
			fn(arch.entities[row], values)
		}
	}
}

func (q *Query) resolveColumns(arch *Archetype, columns [][]any) bool {
	for slot, id := range q.order {
		col, ok := arch.Column(id)
		if !ok {
			q.logger.Warn("query skipping archetype with missing column",
				"archetype", arch.id, "component", id)
			return false
		}
		columns[slot] = col
	}
	return true
}

// Collect materializes the matching entities in iteration order.
func (q *Query) Collect() []EntityID {
	out := make([]EntityID, 0, q.EntityCount())
	for _, arch := range q.archetypes {
		out = append(out, arch.entities...)
	}
	return out
}

// First returns the first matching entity and its components in All-list
// order, or ok=false when the query is empty.
func (q *Query) First() (EntityID, []any, bool) {
	columns := make([][]any, len(q.order))
	for _, arch := range q.archetypes {
		if arch.Len() == 0 {
			continue
		}
		if !q.resolveColumns(arch, columns) {
			continue
		}
		values := make([]any, len(q.order))
		for slot := range columns {
			values[slot] = columns[slot][0]
		}
		return arch.entities[0], values, true
	}
	return EntityID{}, nil, false
}

// EntityCount sums matching rows without materializing an entity list.
func (q *Query) EntityCount() int {
	total := 0
	for _, arch := range q.archetypes {
		total += arch.Len()
	}
	return total
}

// IsEmpty reports whether no entity currently matches.
func (q *Query) IsEmpty() bool {
	for _, arch := range q.archetypes {
		if arch.Len() > 0 {
			return false
		}
	}
	return true
}
