package ecs

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Scheduler runs registered systems once per tick in a fixed sequence of
// named stages. Execution is single-threaded and cooperative: no system
// preempts another, and every deferred command buffer is applied when its
// stage completes, before the next stage begins. The change tracker is
// cleared at the frame boundary, after the last stage.
type Scheduler struct {
	world    *World
	stages   map[Stage][]scheduledSystem
	ordered  map[Stage][]scheduledSystem
	pool     *CommandBufferPool
	logger   Logger
	observer SchedulerObserver
	tick     uint64
	nextReg  int
}

type scheduledSystem struct {
	sys      System
	desc     SystemDescriptor
	regIndex int
}

// SchedulerOption customizes scheduler construction.
type SchedulerOption func(*Scheduler)

// WithObserver attaches an observer for system summaries.
func WithObserver(observer SchedulerObserver) SchedulerOption {
	return func(s *Scheduler) {
		if observer != nil {
			s.observer = observer
		}
	}
}

// NewScheduler constructs a scheduler bound to the provided world.
func NewScheduler(world *World, opts ...SchedulerOption) *Scheduler {
	if world == nil {
		world = NewWorld()
	}
	s := &Scheduler{
		world:    world,
		stages:   make(map[Stage][]scheduledSystem),
		ordered:  make(map[Stage][]scheduledSystem),
		pool:     NewCommandBufferPool(),
		logger:   world.Logger(),
		observer: noopObserver{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// World returns the world the scheduler drives.
func (s *Scheduler) World() *World {
	return s.world
}

// TickIndex returns the number of completed ticks.
func (s *Scheduler) TickIndex() uint64 {
	return s.tick
}

// Register adds a system to its declared stage and re-resolves the stage's
// execution order (priority, then After edges, then registration order).
// Unknown stages and After cycles fail the registration.
func (s *Scheduler) Register(sys System) error {
	desc := sys.Descriptor()
	if !knownStage(desc.Stage) {
		return fmt.Errorf("%w: %q (system %s)", ErrUnknownStage, desc.Stage, desc.Name)
	}
	entry := scheduledSystem{sys: sys, desc: desc, regIndex: s.nextReg}
	s.nextReg++
	s.stages[desc.Stage] = append(s.stages[desc.Stage], entry)

	ordered, err := orderStage(s.stages[desc.Stage])
	if err != nil {
		// Roll back so the scheduler stays runnable.
		list := s.stages[desc.Stage]
		s.stages[desc.Stage] = list[:len(list)-1]
		return fmt.Errorf("register %s: %w", desc.Name, err)
	}
	s.ordered[desc.Stage] = ordered
	return nil
}

func knownStage(stage Stage) bool {
	for _, known := range StageOrder {
		if stage == known {
			return true
		}
	}
	return false
}

// orderStage sorts a stage's systems by priority and registration order,
// then enforces After edges with a deterministic topological pass.
func orderStage(list []scheduledSystem) ([]scheduledSystem, error) {
	byName := make(map[string]int, len(list))
	for i, entry := range list {
		byName[entry.desc.Name] = i
	}

	// After edges among systems in the same stage; unknown names are
	// forward references to systems registered elsewhere and are ignored.
	deps := make([][]int, len(list))
	indegree := make([]int, len(list))
	for i, entry := range list {
		for _, after := range entry.desc.After {
			j, ok := byName[after]
			if !ok || j == i {
				continue
			}
			deps[j] = append(deps[j], i)
			indegree[i]++
		}
	}

	ordered := make([]scheduledSystem, 0, len(list))
	done := make([]bool, len(list))
	for len(ordered) < len(list) {
		pick := -1
		for i, entry := range list {
			if done[i] || indegree[i] > 0 {
				continue
			}
			if pick == -1 || less(entry, list[pick]) {
				pick = i
			}
		}
		if pick == -1 {
			return nil, ErrSystemCycle
		}
		done[pick] = true
		ordered = append(ordered, list[pick])
		for _, next := range deps[pick] {
			indegree[next]--
		}
	}
	return ordered, nil
}

func less(a, b scheduledSystem) bool {
	if a.desc.Priority != b.desc.Priority {
		return a.desc.Priority < b.desc.Priority
	}
	return a.regIndex < b.regIndex
}

// Tick runs one frame: every stage in order, each stage's systems in
// resolved order, deferred commands applied at stage end, tracker cleared
// at frame end. System errors are collected and returned joined after the
// frame completes; they do not halt the remaining systems.
func (s *Scheduler) Tick(ctx context.Context, dt time.Duration) error {
	var errs []error
	for _, stage := range StageOrder {
		systems := s.ordered[stage]
		if len(systems) == 0 {
			continue
		}
		buf := s.pool.Get()
		for _, entry := range systems {
			summary := s.runSystem(ctx, entry, stage, dt, buf)
			s.observer.SystemCompleted(summary)
			if summary.Err != nil {
				errs = append(errs, fmt.Errorf("system %s: %w", entry.desc.Name, summary.Err))
			}
		}
		if buf.Len() > 0 {
			if err := buf.Apply(s.world); err != nil {
				errs = append(errs, fmt.Errorf("stage %s deferred commands: %w", stage, err))
			}
		}
		s.pool.Put(buf)
	}
	s.world.Tracker().ClearAll()
	s.tick++
	return errors.Join(errs...)
}

// Run advances the scheduler a fixed number of ticks.
func (s *Scheduler) Run(ctx context.Context, steps int, dt time.Duration) error {
	for i := 0; i < steps; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.Tick(ctx, dt); err != nil {
			return err
		}
	}
	return nil
}

func (s *Scheduler) runSystem(ctx context.Context, entry scheduledSystem, stage Stage, dt time.Duration, buf *CommandBuffer) SystemSummary {
	summary := SystemSummary{
		System: entry.desc.Name,
		Stage:  stage,
		Tick:   s.tick,
	}
	if every := entry.desc.RunEvery; every > 1 && s.tick%uint64(every) != 0 {
		summary.Skipped = true
		return summary
	}

	exec := execContext{
		world:  s.world,
		dt:     dt,
		tick:   s.tick,
		logger: s.logger.With("system", entry.desc.Name),
		buf:    buf,
	}
	start := time.Now()
	result := entry.sys.Run(ctx, exec)
	summary.Duration = time.Since(start)
	summary.EntityCount = result.EntityCount
	summary.Skipped = result.Skipped
	summary.Err = result.Err
	return summary
}

type execContext struct {
	world  *World
	dt     time.Duration
	tick   uint64
	logger Logger
	buf    *CommandBuffer
}

func (c execContext) World() *World            { return c.world }
func (c execContext) TimeDelta() time.Duration { return c.dt }
func (c execContext) TickIndex() uint64        { return c.tick }
func (c execContext) Logger() Logger           { return c.logger }
func (c execContext) Defer(cmd Command)        { c.buf.Push(cmd) }

var _ ExecutionContext = execContext{}
