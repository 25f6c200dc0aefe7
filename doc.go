// Package ecs is an archetype-based entity component system for real-time
// simulation loops.
//
// Entities are generational handles minted by an EntityRegistry. Component
// values live in archetypes: one storage bucket per distinct component-type
// signature, holding a dense parallel column per component. Adding or
// removing a component migrates the entity's row between archetypes;
// everything else is an O(1) lookup through the entity's (archetype, row)
// location.
//
// Queries cache the archetypes matching their filter and are maintained
// incrementally as new archetypes appear. Systems run under a Scheduler in
// fixed stages; structural edits made during iteration are deferred through
// a CommandBuffer and applied at stage boundaries. A ChangeTracker records
// per-component added/modified/removed sets, cleared once per frame.
//
// The World is single-threaded by contract: all structural mutation happens
// on the tick goroutine. The subpackages bitset and sparse supply the
// signature masks and index maps the storage layer is built on.
package ecs
