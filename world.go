package ecs

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/lattice-engine/ecs/bitset"
	"github.com/lattice-engine/ecs/sparse"
)

// location is an entity's cross-reference to (archetype, row) for O(1)
// component lookup.
type location struct {
	arch int32
	row  int32
}

// World owns entity identities, the archetype set, and orchestrates
// structural edits by migrating an entity's row between archetypes. One
// world owns exactly one component registry and one change tracker; neither
// is shared across independently running worlds.
type World struct {
	id         uuid.UUID
	cfg        Config
	logger     Logger
	entities   *EntityRegistry
	components *ComponentRegistry
	resources  ResourceContainer
	tracker    *ChangeTracker

	archetypes []*Archetype
	byHash     map[uint64][]archetypeID
	locations  sparse.Map[location]
	queries    []*Query
}

// WorldOption customizes world construction.
type WorldOption func(*World)

// WithConfig overrides the default configuration.
func WithConfig(cfg Config) WorldOption {
	return func(w *World) {
		w.cfg = cfg.withDefaults()
	}
}

// WithLogger overrides the default no-op logger.
func WithLogger(logger Logger) WorldOption {
	return func(w *World) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithEntityRegistry overrides the default registry.
func WithEntityRegistry(registry *EntityRegistry) WorldOption {
	return func(w *World) {
		if registry != nil {
			w.entities = registry
		}
	}
}

// WithResourceContainer overrides the default resource container.
func WithResourceContainer(container ResourceContainer) WorldOption {
	return func(w *World) {
		if container != nil {
			w.resources = container
		}
	}
}

// NewWorld constructs a world with default registries and providers.
func NewWorld(opts ...WorldOption) *World {
	w := &World{
		id:        uuid.New(),
		cfg:       DefaultConfig(),
		logger:    NewNopLogger(),
		entities:  NewEntityRegistry(),
		resources: newResourceContainer(),
		byHash:    make(map[uint64][]archetypeID),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.With("world", w.id.String())
	if w.cfg.InitialEntityCapacity > 0 {
		w.entities.Reserve(w.cfg.InitialEntityCapacity)
	}
	w.components = NewComponentRegistry(w.cfg.MaxComponentTypes)
	w.tracker = NewChangeTracker()
	// The empty signature gets archetype 0 up front; entities with no
	// components are rows like any other.
	w.archetypeFor(bitset.New(0))
	return w
}

// ID returns the world instance identifier used in diagnostics.
func (w *World) ID() uuid.UUID {
	return w.id
}

// Logger exposes the world's logger.
func (w *World) Logger() Logger {
	return w.logger
}

// Config returns the configuration the world was built with.
func (w *World) Config() Config {
	return w.cfg
}

// Registry exposes the backing entity registry.
func (w *World) Registry() *EntityRegistry {
	return w.entities
}

// Components exposes the world-owned component registry.
func (w *World) Components() *ComponentRegistry {
	return w.components
}

// Resources exposes the resource container.
func (w *World) Resources() ResourceContainer {
	return w.resources
}

// Tracker exposes the world-owned change tracker.
func (w *World) Tracker() *ChangeTracker {
	return w.tracker
}

// Archetypes returns the archetype list in creation order.
func (w *World) Archetypes() []*Archetype {
	return w.archetypes
}

// RegisterComponent registers a component type, returning its id.
func (w *World) RegisterComponent(info ComponentInfo) (ComponentID, error) {
	return w.components.Register(info)
}

// CreateEntity allocates a fresh entity with no components.
func (w *World) CreateEntity() EntityID {
	e := w.entities.Create()
	empty := w.archetypes[0]
	row := empty.appendRow(e, nil)
	w.locations.Set(e.Index(), location{arch: 0, row: int32(row)})
	return e
}

// ComponentRecord is the plain-record shape entity data arrives in at the
// serialization boundary.
type ComponentRecord struct {
	Type ComponentType  `yaml:"type"`
	Data map[string]any `yaml:"data"`
}

// CreateEntityFrom allocates an entity and attaches components built from
// plain records via each type's FromData factory.
func (w *World) CreateEntityFrom(records ...ComponentRecord) (EntityID, error) {
	e := w.CreateEntity()
	for _, rec := range records {
		if err := w.AddComponentData(e, rec.Type, rec.Data); err != nil {
			return EntityID{}, fmt.Errorf("spawn %s: %w", rec.Type, err)
		}
	}
	return e, nil
}

// DestroyEntity removes an entity and all of its components. Destroying a
// stale or zero handle is a no-op returning false.
func (w *World) DestroyEntity(e EntityID) bool {
	arch, row, ok := w.resolve(e)
	if !ok {
		return false
	}
	for _, id := range arch.order {
		w.tracker.MarkChanged(e, id, ChangeRemoved)
	}
	w.removeRow(arch, row)
	w.locations.Remove(e.Index())
	return w.entities.Destroy(e)
}

// AddComponent attaches value to the entity under the given type, migrating
// the entity to the archetype for its new signature. Adding a type the
// entity already has overwrites the value in place.
func (w *World) AddComponent(e EntityID, t ComponentType, value any) error {
	arch, row, ok := w.resolve(e)
	if !ok {
		return StaleEntityError{Entity: e}
	}
	id, ok := w.components.IDOf(t)
	if !ok {
		return fmt.Errorf("%w: %s", ErrComponentNotRegistered, t)
	}
	if arch.Contains(id) {
		arch.setValue(row, id, value)
		w.tracker.MarkChanged(e, id, ChangeModified)
		return nil
	}

	destMask := arch.mask.Clone()
	destMask.Set(uint32(id))
	dest := w.archetypeFor(destMask)
	w.migrate(e, arch, row, dest, id, value)
	w.tracker.MarkChanged(e, id, ChangeAdded)
	return nil
}

// AddComponentData builds the component from a plain record via the type's
// FromData factory and attaches it.
func (w *World) AddComponentData(e EntityID, t ComponentType, data map[string]any) error {
	id, ok := w.components.IDOf(t)
	if !ok {
		return fmt.Errorf("%w: %s", ErrComponentNotRegistered, t)
	}
	info, _ := w.components.InfoByID(id)
	if info.FromData == nil {
		return fmt.Errorf("%w: %s", ErrNilComponentFactory, t)
	}
	return w.AddComponent(e, t, info.FromData(data))
}

// RemoveComponent detaches the component, migrating the entity to the
// archetype without it. The empty signature is a valid destination.
func (w *World) RemoveComponent(e EntityID, t ComponentType) error {
	arch, row, ok := w.resolve(e)
	if !ok {
		return StaleEntityError{Entity: e}
	}
	id, ok := w.components.IDOf(t)
	if !ok {
		return fmt.Errorf("%w: %s", ErrComponentNotRegistered, t)
	}
	if !arch.Contains(id) {
		return ComponentMissingError{Entity: e, Component: t}
	}

	destMask := arch.mask.Clone()
	destMask.Clear(uint32(id))
	dest := w.archetypeFor(destMask)
	w.migrate(e, arch, row, dest, id, nil)
	w.tracker.MarkChanged(e, id, ChangeRemoved)
	return nil
}

// HasComponent reports whether a live entity carries the component type.
func (w *World) HasComponent(e EntityID, t ComponentType) bool {
	arch, _, ok := w.resolve(e)
	if !ok {
		return false
	}
	id, ok := w.components.IDOf(t)
	if !ok {
		return false
	}
	return arch.Contains(id)
}

// GetComponent returns the component value stored for a live entity.
func (w *World) GetComponent(e EntityID, t ComponentType) (any, bool) {
	arch, row, ok := w.resolve(e)
	if !ok {
		return nil, false
	}
	id, ok := w.components.IDOf(t)
	if !ok {
		return nil, false
	}
	return arch.valueAt(row, id)
}

// ComponentCopy returns an independent copy of the stored value using the
// type's Clone vtable entry; without one the stored value is returned as-is.
func (w *World) ComponentCopy(e EntityID, t ComponentType) (any, bool) {
	value, ok := w.GetComponent(e, t)
	if !ok {
		return nil, false
	}
	if id, idOK := w.components.IDOf(t); idOK {
		if info, infoOK := w.components.InfoByID(id); infoOK && info.Clone != nil {
			return info.Clone(value), true
		}
	}
	return value, true
}

// SetComponent overwrites a present component in place and records a
// modification; an absent component is added instead.
func (w *World) SetComponent(e EntityID, t ComponentType, value any) error {
	return w.AddComponent(e, t, value)
}

// MarkModified records an in-place mutation of a component the caller
// already holds, without touching storage.
func (w *World) MarkModified(e EntityID, t ComponentType) error {
	if !w.entities.IsAlive(e) {
		return StaleEntityError{Entity: e}
	}
	id, ok := w.components.IDOf(t)
	if !ok {
		return fmt.Errorf("%w: %s", ErrComponentNotRegistered, t)
	}
	w.tracker.MarkChanged(e, id, ChangeModified)
	return nil
}

// EntityCount returns the number of live entities.
func (w *World) EntityCount() int {
	return w.entities.Count()
}

// resolve maps a handle to its storage slot, rejecting stale generations.
func (w *World) resolve(e EntityID) (*Archetype, int, bool) {
	if !w.entities.IsAlive(e) {
		return nil, 0, false
	}
	loc, ok := w.locations.Get(e.Index())
	if !ok {
		return nil, 0, false
	}
	return w.archetypes[loc.arch], int(loc.row), true
}

// archetypeFor locates the archetype for a signature, creating it lazily.
// New archetypes are offered to every live query exactly once; queries are
// never re-evaluated against the whole archetype universe.
func (w *World) archetypeFor(mask *bitset.BitSet) *Archetype {
	hash := mask.Hash()
	for _, id := range w.byHash[hash] {
		if w.archetypes[id].mask.Equals(mask) {
			return w.archetypes[id]
		}
	}
	arch := newArchetype(archetypeID(len(w.archetypes)), mask.Clone())
	w.archetypes = append(w.archetypes, arch)
	w.byHash[hash] = append(w.byHash[hash], arch.id)
	for _, q := range w.queries {
		q.addArchetype(arch)
	}
	w.logger.Debug("archetype created", "archetype", arch.id, "components", len(arch.order))
	return arch
}

// migrate moves one entity's row from src to dest. For an added component,
// subject/insert carry the new value; on removal the dropped component is
// simply absent from dest's signature. The row leaves src via swap-remove
// so columns stay dense.
func (w *World) migrate(e EntityID, src *Archetype, row int, dest *Archetype, subject ComponentID, insert any) {
	values := make([]any, len(dest.order))
	for slot, id := range dest.order {
		if id == subject && !src.Contains(subject) {
			values[slot] = insert
			continue
		}
		if v, ok := src.valueAt(row, id); ok {
			values[slot] = v
		}
	}
	w.removeRow(src, row)
	newRow := dest.appendRow(e, values)
	w.locations.Set(e.Index(), location{arch: int32(dest.id), row: int32(newRow)})
}

// removeRow swap-removes a row and fixes the bookkeeping of the entity that
// now occupies the vacated index.
func (w *World) removeRow(arch *Archetype, row int) {
	if moved, ok := arch.swapRemove(row); ok {
		w.locations.Set(moved.Index(), location{arch: int32(arch.id), row: int32(row)})
	}
}
