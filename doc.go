// Package workqueue provides a bounded-concurrency priority work scheduler.
//
// A Scheduler accepts operations from any number of goroutines, runs them
// one at a time on a dedicated worker in strict priority order, and blocks
// each producer until its own operation has finished.
//
// Ordering
//
// The item with the highest Priority runs first. Among equal priorities
// the earliest submission runs first: every item carries a sequence number
// assigned under the queue lock, and the heap orders by (priority, sequence).
// There is no ordering guarantee relative to the item already running.
//
// Item lifecycle
//
//	           worker selects, op returns
//	Pending ──────────────────────────────► Completed
//	   │
//	   │       shutdown, never started
//	   └──────────────────────────────────► Aborted
//
// Each item owns a one-shot channel that is closed by whichever transition
// wins, so N blocked producers wake independently and exactly once. An item
// that has started always runs to completion.
//
// Outcomes of Submit
//
//   - nil: the operation ran and returned nil
//   - the operation's own error, returned as is
//   - *PanicError: the operation panicked; the worker keeps running
//   - ErrCancelled: shutdown removed the item before it ran
//   - ErrRejected: shutdown had already begun; nothing was enqueued
//
// Shutdown
//
// StopAndWait (or Shutdown with a context) sets the shutdown flag and steals
// the whole queue under one lock acquisition, waits for the running
// operation to return, then aborts every stolen item. It is safe to call
// more than once.
//
// Lanes
//
// Lanes is the dual-priority variant: two independent Schedulers, "high"
// and "normal", each running at most one operation at a time and sharing
// only their shutdown.
//
// Execution context
//
// Options.Decorator wraps every operation right before it runs, outside the
// queue lock. It is the place for environment adjustments tied to an item's
// priority; the package ships no such policy. Options.PinWorker locks the
// worker to an OS thread restricted to one CPU (Linux only).
//
// Scope
//
// workqueue is not a general goroutine pool, has no persistence, no retries,
// no per-item timeouts and no mid-flight cancellation.
package workqueue
