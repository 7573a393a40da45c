package workqueue

import (
	"context"
	"fmt"
	"sync"
	"time"

	lg "github.com/Andrej220/go-utils/zlog"
)

// Scheduler runs submitted operations one at a time in priority order.
//
// Producers call Submit from any goroutine and block until their own
// operation has run or shutdown has cancelled it. A single worker goroutine
// executes the operations. The queue mutex guards the heap, the sequence
// counter and the shutdown flag; operations always run without it.
type Scheduler struct {
	opts Options

	mu           sync.Mutex
	queue        *prioQueue
	seq          uint64
	shuttingDown bool

	wake       chan struct{} // coalesced wake-ups for the worker
	stopCh     chan struct{} // closed when shutdown begins
	workerDone chan struct{} // closed when the worker goroutine returns
	stopped    chan struct{} // closed once drained items are aborted

	stopOnce sync.Once
}

// New creates a Scheduler and starts its worker.
//
// If the worker cannot be set up (for example PinWorker is set and the CPU
// cannot be selected), New returns an error wrapping ErrWorkerInit and no
// goroutine is left running.
func New(opts Options) (*Scheduler, error) {
	opts.FillDefaults()

	s := &Scheduler{
		opts:       opts,
		queue:      newPrioQueue(),
		wake:       make(chan struct{}, 1),
		stopCh:     make(chan struct{}),
		workerDone: make(chan struct{}),
		stopped:    make(chan struct{}),
	}

	ready := make(chan error, 1)
	go s.worker(ready)
	if err := <-ready; err != nil {
		<-s.workerDone
		return nil, fmt.Errorf("%w: %w", ErrWorkerInit, err)
	}

	lg.FromContext(opts.Ctx).Info("scheduler started",
		lg.Any("pinned", opts.PinWorker),
		lg.Int("cpu", opts.CPU),
	)
	return s, nil
}

// MustNew is like New but panics on error.
func MustNew(opts Options) *Scheduler {
	s, err := New(opts)
	if err != nil {
		panic(err)
	}
	return s
}

// Submit enqueues op with the given priority and blocks until it finishes.
//
// It returns nil if op ran and succeeded, the exact error op returned if it
// failed, a *PanicError if op panicked, ErrCancelled if shutdown removed
// the item before it ran, and ErrRejected without blocking if shutdown had
// already begun.
//
// Submit must not be called from inside an operation running on the same
// Scheduler: the worker would wait on itself.
func (s *Scheduler) Submit(prio Priority, op Operation) error {
	if op == nil {
		return ErrNilFunc
	}
	it := newWorkItem(op, prio)

	s.mu.Lock()
	if s.shuttingDown {
		s.mu.Unlock()
		s.opts.Metrics.IncRejected()
		return ErrRejected
	}
	s.seq++
	it.seq = s.seq
	it.queuedAt = time.Now()
	s.queue.Push(it)
	s.opts.Metrics.IncQueued()
	s.signal()
	s.mu.Unlock()

	return it.wait()
}

// Do submits fn and returns its value. Errors follow Submit; on any error
// the zero value of T is returned.
func Do[T any](s *Scheduler, prio Priority, fn func() (T, error)) (T, error) {
	var zero T
	if fn == nil {
		return zero, ErrNilFunc
	}

	var out T
	err := s.Submit(prio, func() error {
		v, err := fn()
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	if err != nil {
		return zero, err
	}
	return out, nil
}

// Shutdown stops accepting work, waits for the running operation to
// finish, and cancels everything still queued.
//
// If ctx ends first, Shutdown returns ctx.Err(); the shutdown itself keeps
// going and a later call waits for the same completion. Calling Shutdown
// again after it has completed returns nil immediately.
//
// Shutdown must not be called from inside an operation running on the
// same Scheduler.
func (s *Scheduler) Shutdown(ctx context.Context) error {
	s.beginShutdown()
	return s.waitStopped(ctx)
}

// StopAndWait is Shutdown without a deadline.
func (s *Scheduler) StopAndWait() { _ = s.Shutdown(context.Background()) }

// Pending returns the number of queued items that have not been selected.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queue.Len()
}

// Stopped reports whether shutdown has fully completed.
func (s *Scheduler) Stopped() bool {
	select {
	case <-s.stopped:
		return true
	default:
		return false
	}
}

// beginShutdown flips the shutdown flag and steals the queue, once.
func (s *Scheduler) beginShutdown() {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		s.shuttingDown = true
		drained := s.queue.Drain()
		if n := len(drained); n > 0 {
			s.opts.Metrics.BatchDecQueued(int64(n))
		}
		s.mu.Unlock()

		lg.FromContext(s.opts.Ctx).Info("scheduler stopping", lg.Int("queued", len(drained)))

		close(s.stopCh)
		go s.finishShutdown(drained)
	})
}

// finishShutdown waits for the worker to exit, which happens only after any
// operation it is running returns, and then aborts the stolen items.
func (s *Scheduler) finishShutdown(drained []*workItem) {
	<-s.workerDone

	for _, it := range drained {
		if !it.abort() {
			s.reportInternalError(fmt.Errorf("workqueue: drained item %d was not pending", it.seq))
			continue
		}
		s.opts.Metrics.IncCancelled()
	}

	close(s.stopped)
	lg.FromContext(s.opts.Ctx).Info("scheduler stopped", lg.Int("cancelled", len(drained)))
}

func (s *Scheduler) waitStopped(ctx context.Context) error {
	select {
	case <-s.stopped:
		return nil
	default:
	}
	select {
	case <-s.stopped:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
