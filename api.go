package ecs

import (
	"context"
	"time"
)

// Stage names a slot in the fixed per-frame execution sequence.
type Stage string

const (
	StageFrameStart Stage = "frame_start"
	StageUpdate     Stage = "update"
	StagePostUpdate Stage = "post_update"
	StageFrameEnd   Stage = "frame_end"
)

// StageOrder is the sequence the scheduler runs once per tick.
var StageOrder = []Stage{StageFrameStart, StageUpdate, StagePostUpdate, StageFrameEnd}

// System represents executable logic scheduled within a stage.
type System interface {
	Descriptor() SystemDescriptor
	Run(ctx context.Context, exec ExecutionContext) SystemResult
}

// SystemDescriptor declares scheduling metadata for a system.
type SystemDescriptor struct {
	Name     string
	Stage    Stage
	Priority int      // lower runs earlier within the stage
	After    []string // names of same-stage systems that must run first
	RunEvery uint32   // run every Nth tick; 0 and 1 mean every tick
}

// SystemResult indicates how a system behaved during execution.
type SystemResult struct {
	EntityCount int
	Skipped     bool
	Err         error
}

// ExecutionContext supplies a system with scoped access to the world.
// Structural mutation discovered during iteration must go through Defer;
// deferred commands apply when the system's stage completes.
type ExecutionContext interface {
	World() *World
	TimeDelta() time.Duration
	TickIndex() uint64
	Logger() Logger
	Defer(cmd Command)
}

// Command represents a deferred mutation applied outside system execution.
type Command interface {
	Apply(world *World) error
}

// Logger captures structured log output from the runtime and from systems.
type Logger interface {
	With(args ...any) Logger
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// ResourceContainer holds shared, world-scoped singletons accessible to
// systems (time sources, asset handles, tuning tables).
type ResourceContainer interface {
	Get(name string) (any, bool)
	Set(name string, value any)
	Delete(name string)
	Range(fn func(name string, value any) bool)
	Len() int
}
