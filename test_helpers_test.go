package workqueue_test

import (
	"math"
	"sync"
	"testing"
	"time"

	boff "github.com/Andrej220/go-utils/backoff"
	"github.com/stretchr/testify/require"

	wq "github.com/Andrej220/go-utils/workqueue"
)

func newTestScheduler(t *testing.T, opts wq.Options) *wq.Scheduler {
	t.Helper()

	s, err := wq.New(opts)
	require.NoError(t, err)
	t.Cleanup(s.StopAndWait)
	return s
}

func waitUntil(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()

	bo := boff.New(100*time.Microsecond, 5*time.Millisecond, time.Now().UnixNano())
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(bo.Next())
	}
	t.Fatal("condition not satisfied before timeout")
}

// recorder collects labels in execution order.
type recorder struct {
	mu  sync.Mutex
	log []string
}

func (r *recorder) op(label string) wq.Operation {
	return func() error {
		r.mu.Lock()
		r.log = append(r.log, label)
		r.mu.Unlock()
		return nil
	}
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.log...)
}

// occupyWorker submits an item that holds the worker until release is
// called. It returns once the item is running. release is also registered
// as a cleanup so a failing test cannot leave StopAndWait hanging.
func occupyWorker(t *testing.T, s *wq.Scheduler) (release func(), result <-chan error) {
	t.Helper()

	started := make(chan struct{})
	gate := make(chan struct{})
	var once sync.Once
	release = func() { once.Do(func() { close(gate) }) }
	t.Cleanup(release)

	result = submitAsync(s, math.MaxUint32, func() error {
		close(started)
		<-gate
		return nil
	})

	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("worker did not pick up the blocking item")
	}
	return release, result
}

func submitAsync(s *wq.Scheduler, prio wq.Priority, op wq.Operation) <-chan error {
	ch := make(chan error, 1)
	go func() {
		ch <- s.Submit(prio, op)
	}()
	return ch
}

type queued struct {
	prio wq.Priority
	op   wq.Operation
}

// enqueueInOrder submits items one by one, waiting for each to be queued
// before the next, so their submission order is fixed. The worker must be
// occupied.
func enqueueInOrder(t *testing.T, s *wq.Scheduler, items ...queued) []<-chan error {
	t.Helper()

	base := s.Pending()
	results := make([]<-chan error, 0, len(items))
	for i, it := range items {
		results = append(results, submitAsync(s, it.prio, it.op))
		want := base + i + 1
		waitUntil(t, time.Second, func() bool { return s.Pending() == want })
	}
	return results
}

func receive(t *testing.T, ch <-chan error) error {
	t.Helper()

	select {
	case err := <-ch:
		return err
	case <-time.After(2 * time.Second):
		t.Fatal("submit did not return")
		return nil
	}
}
