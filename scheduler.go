package workqueue

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	lg "github.com/Andrej220/go-utils/zlog"
)

// worker is the dedicated goroutine that:
//   - sleeps until a submission or shutdown wakes it
//   - pops the highest-priority item under the queue lock
//   - runs it outside the lock, one at a time
//   - exits once shutdown begins and the running item has returned
//
// ready receives exactly one value: nil once the worker is set up, or the
// setup error, in which case the worker has already returned.
func (s *Scheduler) worker(ready chan<- error) {
	defer close(s.workerDone)

	if s.opts.PinWorker {
		// The thread is never unlocked. It is torn down with the goroutine,
		// so its affinity mask does not leak back into the runtime.
		runtime.LockOSThread()
		if err := PinToCPU(s.opts.CPU); err != nil {
			ready <- err
			return
		}
	}
	ready <- nil

	for {
		select {
		case <-s.stopCh:
			return
		case <-s.wake:
			s.processPending()
		}
	}
}

// signal wakes the worker. A pending wake-up is enough: the worker empties
// the queue before it sleeps again.
func (s *Scheduler) signal() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

// processPending runs queued items until the queue is empty or shutdown
// has begun.
func (s *Scheduler) processPending() {
	for {
		s.mu.Lock()
		if s.shuttingDown {
			s.mu.Unlock()
			return
		}
		it, ok := s.queue.Pop()
		if !ok {
			s.mu.Unlock()
			return
		}
		s.opts.Metrics.BatchDecQueued(1)
		s.mu.Unlock()

		s.run(it)
	}
}

// run executes one item and signals its waiter. Failures are local to the
// item; they are reported and never stop the worker.
func (s *Scheduler) run(it *workItem) {
	s.opts.Metrics.ObserveWait(time.Since(it.queuedAt))

	prio, seq := it.prio, it.seq
	err := invoke(s.decorate(prio, it.op))
	if err != nil {
		s.opts.Metrics.IncFailed()
		s.logFailure(prio, err)
		s.reportJobError(err)
	} else {
		s.opts.Metrics.IncExecuted()
	}

	if !it.complete(err) {
		s.reportInternalError(fmt.Errorf("workqueue: item %d completed twice", seq))
	}
}

// decorate defers applying the Decorator until the returned operation
// runs, so a panicking decorator is recovered like the operation itself.
func (s *Scheduler) decorate(prio Priority, op Operation) Operation {
	dec := s.opts.Decorator
	if dec == nil {
		return op
	}
	return func() error {
		return dec(prio, op)()
	}
}

func (s *Scheduler) logFailure(prio Priority, err error) {
	logger := lg.FromContext(s.opts.Ctx).With(lg.Any("priority", prio))
	var pe *PanicError
	if errors.As(err, &pe) {
		logger.Error("operation panicked",
			lg.Any("panic", pe.Value),
			lg.String("stack", string(pe.Stack)),
		)
		return
	}
	logger.Warn("operation failed", lg.Any("error", err))
}
