package ecs

import (
	"fmt"
	"sync"
)

// CommandBuffer accumulates deferred mutations recorded during query
// iteration and applies them afterwards, in recording order, to exactly one
// world. A buffer applies once; reusing it without Clear/Reset is a
// programmer error and fails loudly.
type CommandBuffer struct {
	world    *World
	commands []Command
	applied  bool
}

// NewCommandBuffer creates an empty, unbound buffer.
func NewCommandBuffer() *CommandBuffer {
	return &CommandBuffer{}
}

// NewBoundCommandBuffer creates a buffer pre-bound to a world, so Apply can
// be called with nil.
func NewBoundCommandBuffer(world *World) *CommandBuffer {
	return &CommandBuffer{world: world}
}

// Len reports how many commands are queued.
func (b *CommandBuffer) Len() int {
	return len(b.commands)
}

// Push appends an arbitrary command. Recording into an already-applied
// buffer panics with ErrCommandBufferApplied.
func (b *CommandBuffer) Push(cmd Command) {
	if b.applied {
		panic(ErrCommandBufferApplied)
	}
	if cmd == nil {
		return
	}
	b.commands = append(b.commands, cmd)
}

// Spawn records an entity creation and returns a forward reference usable
// by later commands in this buffer. callback, when non-nil, receives the
// minted id synchronously during Apply.
func (b *CommandBuffer) Spawn(callback func(EntityID)) *PendingEntity {
	pending := &PendingEntity{}
	b.Push(NewSpawnCommand(pending, callback))
	return pending
}

// Despawn records an entity destruction.
func (b *CommandBuffer) Despawn(ref EntityRef) {
	b.Push(NewDespawnCommand(ref))
}

// AddComponent records a component attachment.
func (b *CommandBuffer) AddComponent(ref EntityRef, t ComponentType, value any) {
	b.Push(NewAddComponentCommand(ref, t, value))
}

// RemoveComponent records a component detachment.
func (b *CommandBuffer) RemoveComponent(ref EntityRef, t ComponentType) {
	b.Push(NewRemoveComponentCommand(ref, t))
}

// InsertResource records storing a named world resource.
func (b *CommandBuffer) InsertResource(name string, value any) {
	b.Push(NewInsertResourceCommand(name, value))
}

// RemoveResource records deleting a named world resource.
func (b *CommandBuffer) RemoveResource(name string) {
	b.Push(NewRemoveResourceCommand(name))
}

// Apply executes the queued commands in recording order against world (or
// the pre-bound world when world is nil). It is single-use: a second call
// fails with ErrCommandBufferApplied. The first failing command aborts the
// run and surfaces its error.
func (b *CommandBuffer) Apply(world *World) error {
	if b.applied {
		return ErrCommandBufferApplied
	}
	if world == nil {
		world = b.world
	}
	if world == nil {
		return ErrCommandBufferNoWorld
	}
	if b.world != nil && world != b.world {
		return ErrWorldMismatch
	}
	b.applied = true
	for i, cmd := range b.commands {
		if err := cmd.Apply(world); err != nil {
			return fmt.Errorf("ecs: command %d/%d: %w", i+1, len(b.commands), err)
		}
	}
	return nil
}

// Clear empties the buffer for reuse, keeping any world binding and the
// backing array.
func (b *CommandBuffer) Clear() {
	b.commands = b.commands[:0]
	b.applied = false
}

// Reset clears the buffer and drops its world binding.
func (b *CommandBuffer) Reset() {
	b.Clear()
	b.world = nil
}

// Snapshot returns the current command count so callers can restore later.
func (b *CommandBuffer) Snapshot() int {
	return len(b.commands)
}

// Restore truncates the buffer back to the provided snapshot.
func (b *CommandBuffer) Restore(snapshot int) {
	if snapshot < 0 {
		snapshot = 0
	}
	if snapshot >= len(b.commands) {
		return
	}
	b.commands = b.commands[:snapshot]
}

// CommandBufferPool reuses buffers across frames to reduce allocations.
type CommandBufferPool struct {
	pool sync.Pool
}

// NewCommandBufferPool constructs a pool that returns fresh buffers.
func NewCommandBufferPool() *CommandBufferPool {
	p := &CommandBufferPool{}
	p.pool.New = func() any { return NewCommandBuffer() }
	return p
}

// Get retrieves a buffer from the pool.
func (p *CommandBufferPool) Get() *CommandBuffer {
	return p.pool.Get().(*CommandBuffer)
}

// Put returns a buffer to the pool after resetting it.
func (p *CommandBufferPool) Put(buf *CommandBuffer) {
	if buf == nil {
		return
	}
	buf.Reset()
	p.pool.Put(buf)
}
