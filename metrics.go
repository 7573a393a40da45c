package workqueue

import (
	"sync/atomic"
	"time"
)

// MetricsPolicy defines hooks used by the scheduler to report
// queueing and execution activity.
//
// Implementations must be safe for concurrent use.
// All methods are expected to be lightweight and non-blocking;
// several are called with the queue mutex held.
type MetricsPolicy interface {

	// IncQueued increments the queued items gauge.
	IncQueued()

	// BatchDecQueued decrements the queued gauge by n.
	//
	// This is called with 1 when the worker selects an item and with the
	// drained count when shutdown empties the queue.
	BatchDecQueued(n int64)

	// IncExecuted increments the counter of operations that ran and
	// returned nil.
	IncExecuted()

	// IncFailed increments the counter of operations that ran and
	// returned an error or panicked.
	IncFailed()

	// IncCancelled increments the counter of items aborted by shutdown.
	IncCancelled()

	// IncRejected increments the counter of submissions refused because
	// shutdown had begun.
	IncRejected()

	// ObserveWait records how long an item stayed queued before the
	// worker selected it.
	ObserveWait(d time.Duration)
}

// AtomicMetrics is a lock-free metrics implementation backed by atomics.
//
// Writes are optimized for hot paths.
// Reads are intended for cold-path observation.
type AtomicMetrics struct {
	executed atomic.Uint64
	failed   atomic.Uint64

	_ [48]byte // padding to avoid false sharing

	queued    atomic.Int64
	cancelled atomic.Uint64
	rejected  atomic.Uint64

	// waitNanos is the sum of all observed wait durations.
	waitNanos atomic.Int64
}

// Executed returns the number of operations that succeeded.
func (m *AtomicMetrics) Executed() uint64 { return m.executed.Load() }

// Failed returns the number of operations that failed or panicked.
func (m *AtomicMetrics) Failed() uint64 { return m.failed.Load() }

// Queued returns the current number of queued items.
func (m *AtomicMetrics) Queued() int64 { return m.queued.Load() }

// Cancelled returns the number of items aborted by shutdown.
func (m *AtomicMetrics) Cancelled() uint64 { return m.cancelled.Load() }

// Rejected returns the number of refused submissions.
func (m *AtomicMetrics) Rejected() uint64 { return m.rejected.Load() }

// TotalWait returns the accumulated queueing time of selected items.
func (m *AtomicMetrics) TotalWait() time.Duration {
	return time.Duration(m.waitNanos.Load())
}

func (m *AtomicMetrics) IncQueued()                  { m.queued.Add(1) }
func (m *AtomicMetrics) BatchDecQueued(n int64)      { m.queued.Add(-n) }
func (m *AtomicMetrics) IncExecuted()                { m.executed.Add(1) }
func (m *AtomicMetrics) IncFailed()                  { m.failed.Add(1) }
func (m *AtomicMetrics) IncCancelled()               { m.cancelled.Add(1) }
func (m *AtomicMetrics) IncRejected()                { m.rejected.Add(1) }
func (m *AtomicMetrics) ObserveWait(d time.Duration) { m.waitNanos.Add(int64(d)) }

//------------- NoopMetrics ----------------------------------

// NoopMetrics is a MetricsPolicy implementation that discards
// all metric updates.
type NoopMetrics struct{}

func (NoopMetrics) IncQueued()                {}
func (NoopMetrics) BatchDecQueued(int64)      {}
func (NoopMetrics) IncExecuted()              {}
func (NoopMetrics) IncFailed()                {}
func (NoopMetrics) IncCancelled()             {}
func (NoopMetrics) IncRejected()              {}
func (NoopMetrics) ObserveWait(time.Duration) {}
