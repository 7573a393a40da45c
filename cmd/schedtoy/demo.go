package main

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	wq "github.com/Andrej220/go-utils/workqueue"
)

// outcome is what one producer observed.
type outcome struct {
	Producer  int
	Class     string // priority or lane the producer used
	ExecOrder int64  // 1-based position in the worker's run order, 0 if it never ran
	Err       error
}

// stopper counts finished operations and fires once a threshold is hit.
type stopper struct {
	order atomic.Int64
	limit int64
	hit   chan struct{}
	once  sync.Once
}

func newStopper(limit int) *stopper {
	return &stopper{limit: int64(limit), hit: make(chan struct{})}
}

// run records the execution slot of the caller and simulates work.
func (st *stopper) run(slot *int64, work time.Duration) wq.Operation {
	return func() error {
		n := st.order.Add(1)
		*slot = n
		if work > 0 {
			time.Sleep(work)
		}
		if n >= st.limit {
			st.once.Do(func() { close(st.hit) })
		}
		return nil
	}
}

type submitFunc func(producer int) (class string, op func(wq.Operation) error)

// drive starts cfg.Producers goroutines that submit one operation each,
// stops the scheduler once cfg.StopAfter operations have run, and collects
// what every producer saw.
func drive(ctx context.Context, cfg config, submit submitFunc, stop func()) []outcome {
	st := newStopper(cfg.StopAfter)
	outcomes := make([]outcome, cfg.Producers)
	slots := make([]int64, cfg.Producers)

	var g errgroup.Group
	for i := range cfg.Producers {
		class, do := submit(i)
		outcomes[i] = outcome{Producer: i, Class: class}
		g.Go(func() error {
			outcomes[i].Err = do(st.run(&slots[i], cfg.Work))
			return nil
		})
	}

	allDone := make(chan struct{})
	go func() {
		_ = g.Wait()
		close(allDone)
	}()

	select {
	case <-st.hit:
		zap.S().Infow("stop point reached", "ran", st.order.Load())
	case <-allDone:
	case <-ctx.Done():
		zap.S().Warnw("interrupted", "error", ctx.Err())
	}
	stop()
	<-allDone

	for i := range outcomes {
		if outcomes[i].Err == nil {
			outcomes[i].ExecOrder = slots[i]
		}
	}
	return outcomes
}

func schedulerOptions(ctx context.Context, cfg config, m wq.MetricsPolicy) wq.Options {
	return wq.Options{
		Ctx:       ctx,
		Metrics:   m,
		PinWorker: cfg.Pin,
		CPU:       cfg.CPU,
		OnInternalError: func(err error) {
			zap.S().Errorw("scheduler internal error", "error", err)
		},
	}
}

// runQueueDemo drives a single scheduler; producer i uses priority i%3.
func runQueueDemo(ctx context.Context, cfg config) ([]outcome, error) {
	var m wq.AtomicMetrics
	s, err := wq.New(schedulerOptions(ctx, cfg, &m))
	if err != nil {
		return nil, err
	}

	outcomes := drive(ctx, cfg, func(i int) (string, func(wq.Operation) error) {
		prio := wq.Priority(i % 3)
		return fmt.Sprintf("p%d", prio), func(op wq.Operation) error { return s.Submit(prio, op) }
	}, s.StopAndWait)

	zap.S().Infow("queue demo finished",
		"executed", m.Executed(),
		"cancelled", m.Cancelled(),
		"rejected", m.Rejected(),
		"wait", m.TotalWait(),
	)
	return outcomes, nil
}

// runLanesDemo drives the two-lane scheduler. Every third producer goes to
// the high lane unless cfg.Ambient sends everything to the normal lane.
func runLanesDemo(ctx context.Context, cfg config) ([]outcome, error) {
	l, err := wq.NewLanes(schedulerOptions(ctx, cfg, nil))
	if err != nil {
		return nil, err
	}

	return drive(ctx, cfg, func(i int) (string, func(wq.Operation) error) {
		lane := wq.NormalLane
		if !cfg.Ambient && i%3 == 0 {
			lane = wq.HighLane
		}
		return lane.String(), func(op wq.Operation) error { return l.Submit(lane, op) }
	}, l.StopAndWait), nil
}

func describe(err error) string {
	switch {
	case err == nil:
		return "ran"
	case errors.Is(err, wq.ErrCancelled):
		return "cancelled"
	case errors.Is(err, wq.ErrRejected):
		return "rejected"
	default:
		return err.Error()
	}
}
