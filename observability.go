package ecs

import (
	"time"
)

// SystemSummary captures execution metadata for one system run.
type SystemSummary struct {
	System      string
	Stage       Stage
	Tick        uint64
	Duration    time.Duration
	EntityCount int
	Skipped     bool
	Err         error
}

// SchedulerObserver receives summaries after systems complete.
type SchedulerObserver interface {
	SystemCompleted(summary SystemSummary)
}

type noopObserver struct{}

func (noopObserver) SystemCompleted(SystemSummary) {}

// NewCompositeObserver fans summaries out to several observers.
func NewCompositeObserver(observers ...SchedulerObserver) SchedulerObserver {
	flattened := make([]SchedulerObserver, 0, len(observers))
	for _, o := range observers {
		if o != nil {
			flattened = append(flattened, o)
		}
	}
	return compositeObserver{observers: flattened}
}

type compositeObserver struct {
	observers []SchedulerObserver
}

func (c compositeObserver) SystemCompleted(summary SystemSummary) {
	for _, o := range c.observers {
		o.SystemCompleted(summary)
	}
}

// NewLoggingObserver logs every summary through the given logger.
func NewLoggingObserver(logger Logger) SchedulerObserver {
	if logger == nil {
		return noopObserver{}
	}
	return loggingObserver{logger: logger}
}

type loggingObserver struct {
	logger Logger
}

func (o loggingObserver) SystemCompleted(summary SystemSummary) {
	args := []any{
		"system", summary.System,
		"stage", summary.Stage,
		"tick", summary.Tick,
		"duration_ms", float64(summary.Duration) / float64(time.Millisecond),
		"entities", summary.EntityCount,
		"skipped", summary.Skipped,
	}
	if summary.Err != nil {
		args = append(args, "error", summary.Err.Error())
		o.logger.Error("system run failed", args...)
		return
	}
	o.logger.Debug("system run", args...)
}
