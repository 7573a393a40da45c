package workqueue

import (
	"fmt"
	"runtime/debug"
	"sync/atomic"
	"time"
)

// Priority orders queued items. Higher values run sooner.
type Priority uint32

// Operation is the unit of work executed by the worker.
type Operation func() error

// Status is the lifecycle state of a submitted item.
//
// An item starts Pending and moves exactly once to either Completed
// (the operation ran, possibly failing) or Aborted (shutdown removed it
// before it ran).
type Status uint32

const (
	Pending Status = iota
	Completed
	Aborted
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "Pending"
	case Completed:
		return "Completed"
	case Aborted:
		return "Aborted"
	default:
		return "Unknown"
	}
}

// PanicError is returned to the submitter when its operation panicked.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("workqueue: operation panicked: %v", e.Value)
}

// workItem is a single submission together with its completion handshake.
//
// The submitting call owns the item. The queue holds the pointer only while
// the item is Pending, and nothing touches it after done is closed except
// the waiter.
type workItem struct {
	// op is the user operation, run at most once.
	op Operation

	// prio is the user-provided priority supplied at Submit time.
	prio Priority

	// seq is the insertion counter used to break priority ties.
	// Lower seq (earlier submission) wins.
	seq uint64

	// index is maintained by the heap. It is -1 while the item is not queued.
	index int

	// queuedAt records when the item entered the queue. Used for wait metrics.
	queuedAt time.Time

	status atomic.Uint32

	// err is written by the worker before done is closed and read by the
	// waiter after, so the channel close orders the accesses.
	err error

	// done is the one-shot signal. It is closed exactly once, by whichever
	// transition wins.
	done chan struct{}
}

func newWorkItem(op Operation, prio Priority) *workItem {
	return &workItem{
		op:    op,
		prio:  prio,
		index: -1,
		done:  make(chan struct{}),
	}
}

// Status reports the current state of the item.
func (it *workItem) Status() Status {
	return Status(it.status.Load())
}

// complete records the outcome of the operation and transitions the item
// to Completed. It reports false if the item had already left Pending.
// The caller must not touch the item after a successful complete.
func (it *workItem) complete(err error) bool {
	if it.Status() != Pending {
		return false
	}
	it.err = err
	if !it.status.CompareAndSwap(uint32(Pending), uint32(Completed)) {
		return false
	}
	close(it.done)
	return true
}

// abort transitions a never-started item to Aborted and wakes its waiter.
func (it *workItem) abort() bool {
	if !it.status.CompareAndSwap(uint32(Pending), uint32(Aborted)) {
		return false
	}
	close(it.done)
	return true
}

// wait blocks until the item leaves Pending and returns its outcome.
func (it *workItem) wait() error {
	<-it.done
	if it.Status() == Aborted {
		return ErrCancelled
	}
	return it.err
}

func invoke(op Operation) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return op()
}
