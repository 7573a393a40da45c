package workqueue_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	wq "github.com/Andrej220/go-utils/workqueue"
)

func TestAtomicMetrics(t *testing.T) {
	m := &wq.AtomicMetrics{}
	s := newTestScheduler(t, wq.Options{Metrics: m})

	require.NoError(t, s.Submit(1, func() error { return nil }))
	require.Error(t, s.Submit(1, func() error { return errors.New("fail") }))
	require.Error(t, s.Submit(1, func() error { panic("boom") }))

	release, _ := occupyWorker(t, s)
	cancelled := enqueueInOrder(t, s,
		queued{prio: 1, op: func() error { return nil }},
		queued{prio: 2, op: func() error { return nil }},
	)
	require.EqualValues(t, 2, m.Queued())

	stopped := make(chan struct{})
	go func() {
		s.StopAndWait()
		close(stopped)
	}()
	waitUntil(t, 500*time.Millisecond, func() bool { return s.Pending() == 0 })
	release()
	<-stopped

	for _, r := range cancelled {
		require.ErrorIs(t, receive(t, r), wq.ErrCancelled)
	}
	require.ErrorIs(t, s.Submit(1, func() error { return nil }), wq.ErrRejected)

	require.EqualValues(t, 2, m.Executed()) // includes the blocking item
	require.EqualValues(t, 2, m.Failed())
	require.EqualValues(t, 2, m.Cancelled())
	require.EqualValues(t, 1, m.Rejected())
	require.Zero(t, m.Queued())
	require.Positive(t, m.TotalWait())
}

func TestNoopMetrics(t *testing.T) {
	var m wq.MetricsPolicy = wq.NoopMetrics{}
	m.IncQueued()
	m.BatchDecQueued(3)
	m.IncExecuted()
	m.IncFailed()
	m.IncCancelled()
	m.IncRejected()
	m.ObserveWait(0)
}
