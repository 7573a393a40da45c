package workqueue

import (
	"errors"
	"fmt"
)

var (
	// ErrRejected is returned by Submit once shutdown has begun.
	// The item is never enqueued.
	ErrRejected = errors.New("workqueue: scheduler is shutting down")

	// ErrCancelled is returned by Submit when shutdown removed the item
	// from the queue before it started.
	ErrCancelled = errors.New("workqueue: item cancelled before execution")

	// ErrNilFunc is returned when Submit is called with a nil Operation.
	ErrNilFunc = errors.New("workqueue: operation is nil")

	// ErrWorkerInit is returned by New when the worker could not be set up.
	// The Scheduler is not usable and no goroutine is left behind.
	ErrWorkerInit = errors.New("workqueue: worker init failed")

	// ErrPinUnsupported is returned by PinToCPU on platforms without
	// thread affinity support.
	ErrPinUnsupported = errors.New("workqueue: cpu pinning is not supported on this platform")
)

// reportInternalError reports an internal scheduler error.
//
// Internal errors are non-job-related failures such as an item that
// attempted a second state transition.
// If no handler is registered, the error is silently ignored.
func (s *Scheduler) reportInternalError(e error) {
	if s.opts.OnInternalError != nil {
		s.opts.OnInternalError(e)
	}
}

// reportJobError reports an error returned by an operation or
// produced by panic recovery.
//
// The same error is also returned to the submitter; the handler is an
// additional observation point and never changes the outcome. A panic in
// the handler is recovered and reported as an internal error.
func (s *Scheduler) reportJobError(err error) {
	if s.opts.OnJobError == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			s.reportInternalError(fmt.Errorf("workqueue: OnJobError panicked: %v", r))
		}
	}()
	s.opts.OnJobError(err)
}
