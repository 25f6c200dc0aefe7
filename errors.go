package ecs

import (
	"errors"
	"fmt"
)

var (
	// ErrComponentNotRegistered signals lookup of a component type never registered.
	ErrComponentNotRegistered = errors.New("ecs: component not registered")
	// ErrNilComponentFactory is returned when a data-driven operation needs a FromData factory the type did not provide.
	ErrNilComponentFactory = errors.New("ecs: component has no FromData factory")
	// ErrCommandBufferApplied indicates an attempt to reuse a command buffer after Apply.
	ErrCommandBufferApplied = errors.New("ecs: command buffer already applied")
	// ErrCommandBufferNoWorld indicates Apply was called with no target world bound or supplied.
	ErrCommandBufferNoWorld = errors.New("ecs: command buffer has no target world")
	// ErrWorldMismatch indicates a buffer bound to one world was applied to another.
	ErrWorldMismatch = errors.New("ecs: command buffer bound to a different world")
	// ErrUnknownStage is returned when a system declares a stage the scheduler does not run.
	ErrUnknownStage = errors.New("ecs: unknown stage")
	// ErrSystemCycle indicates the After edges among a stage's systems form a cycle.
	ErrSystemCycle = errors.New("ecs: system ordering cycle")
)

// RegistryCapacityError reports registration beyond the configured component
// type limit. The registration is aborted; the type stays unregistered.
type RegistryCapacityError struct {
	Limit int
}

func (e RegistryCapacityError) Error() string {
	return fmt.Sprintf("ecs: component registry full (limit %d)", e.Limit)
}

// StaleEntityError reports an operation on an entity handle whose generation
// no longer matches its slot.
type StaleEntityError struct {
	Entity EntityID
}

func (e StaleEntityError) Error() string {
	return fmt.Sprintf("ecs: stale entity handle %v", e.Entity)
}

// ComponentMissingError reports a structural operation that requires a
// component the entity does not have.
type ComponentMissingError struct {
	Entity    EntityID
	Component ComponentType
}

func (e ComponentMissingError) Error() string {
	return fmt.Sprintf("ecs: entity %v has no %s component", e.Entity, e.Component)
}
