package workqueue

import (
	"context"
)

// Options configure a Scheduler.
//
// All zero values are replaced with sensible defaults in FillDefaults.
type Options struct {
	// Ctx is the base context. The scheduler takes its logger from it;
	// it does not bound the lifetime of the scheduler.
	Ctx context.Context

	// Metrics receives queueing and execution events.
	Metrics MetricsPolicy

	// Decorator, if set, wraps every operation before the worker runs it.
	Decorator Decorator

	// OnJobError observes every failed operation, including panics.
	OnJobError func(error)

	// OnInternalError observes scheduler invariant violations.
	OnInternalError func(error)

	// PinWorker locks the worker goroutine to its OS thread and restricts
	// that thread to CPU.
	PinWorker bool
	CPU       int
}

func (o *Options) FillDefaults() {
	if o.Ctx == nil {
		o.Ctx = context.Background()
	}
	if o.Metrics == nil {
		o.Metrics = NoopMetrics{}
	}
	if o.CPU < 0 {
		o.CPU = 0
	}
}
