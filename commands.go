package ecs

import "fmt"

// EntityRef resolves to an EntityID at command-apply time. An EntityID is
// its own ref; a PendingEntity returned by CommandBuffer.Spawn resolves to
// the id minted when the spawn command runs, letting later commands in the
// same buffer target an entity that does not exist yet.
type EntityRef interface {
	entityID() EntityID
}

func (id EntityID) entityID() EntityID { return id }

// PendingEntity is a forward reference to an entity a command buffer will
// create. It materializes during Apply, in recording order, before any
// later command that references it runs.
type PendingEntity struct {
	id EntityID
}

func (p *PendingEntity) entityID() EntityID { return p.id }

// ID returns the minted entity id; zero until the buffer applied.
func (p *PendingEntity) ID() EntityID { return p.id }

// NewSpawnCommand creates an entity on apply. pending (optional) receives
// the minted id for later commands; callback (optional) observes it
// synchronously during apply.
func NewSpawnCommand(pending *PendingEntity, callback func(EntityID)) Command {
	return spawnCommand{pending: pending, callback: callback}
}

// NewDespawnCommand destroys the referenced entity on apply. A stale or
// never-materialized reference is ignored.
func NewDespawnCommand(ref EntityRef) Command {
	return despawnCommand{ref: ref}
}

// NewAddComponentCommand attaches a component on apply.
func NewAddComponentCommand(ref EntityRef, t ComponentType, value any) Command {
	return addComponentCommand{ref: ref, component: t, value: value}
}

// NewRemoveComponentCommand detaches a component on apply.
func NewRemoveComponentCommand(ref EntityRef, t ComponentType) Command {
	return removeComponentCommand{ref: ref, component: t}
}

// NewInsertResourceCommand stores a named resource on apply.
func NewInsertResourceCommand(name string, value any) Command {
	return insertResourceCommand{name: name, value: value}
}

// NewRemoveResourceCommand deletes a named resource on apply.
func NewRemoveResourceCommand(name string) Command {
	return removeResourceCommand{name: name}
}

type spawnCommand struct {
	pending  *PendingEntity
	callback func(EntityID)
}

type despawnCommand struct {
	ref EntityRef
}

type addComponentCommand struct {
	ref       EntityRef
	component ComponentType
	value     any
}

type removeComponentCommand struct {
	ref       EntityRef
	component ComponentType
}

type insertResourceCommand struct {
	name  string
	value any
}

type removeResourceCommand struct {
	name string
}

func (c spawnCommand) Apply(world *World) error {
	id := world.CreateEntity()
	if c.pending != nil {
		c.pending.id = id
	}
	if c.callback != nil {
		c.callback(id)
	}
	return nil
}

func (c despawnCommand) Apply(world *World) error {
	id := c.ref.entityID()
	if id.IsZero() {
		return nil
	}
	world.DestroyEntity(id)
	return nil
}

func (c addComponentCommand) Apply(world *World) error {
	id := c.ref.entityID()
	if id.IsZero() {
		return fmt.Errorf("ecs: add %s to unresolved entity", c.component)
	}
	return world.AddComponent(id, c.component, c.value)
}

func (c removeComponentCommand) Apply(world *World) error {
	id := c.ref.entityID()
	if id.IsZero() {
		return fmt.Errorf("ecs: remove %s from unresolved entity", c.component)
	}
	return world.RemoveComponent(id, c.component)
}

func (c insertResourceCommand) Apply(world *World) error {
	world.Resources().Set(c.name, c.value)
	return nil
}

func (c removeResourceCommand) Apply(world *World) error {
	world.Resources().Delete(c.name)
	return nil
}

var (
	_ Command = spawnCommand{}
	_ Command = despawnCommand{}
	_ Command = addComponentCommand{}
	_ Command = removeComponentCommand{}
	_ Command = insertResourceCommand{}
	_ Command = removeResourceCommand{}
)
