package workqueue

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Lane selects one of the independent execution streams of Lanes.
type Lane int

const (
	NormalLane Lane = iota
	HighLane
)

func (l Lane) String() string {
	switch l {
	case NormalLane:
		return "normal"
	case HighLane:
		return "high"
	default:
		return "unknown"
	}
}

// Lanes is the dual-priority variant: a high and a normal lane, each a
// Scheduler of its own with at most one operation running at a time.
// Lanes share nothing but their shutdown; items within a lane run in
// submission order.
type Lanes struct {
	lanes [2]*Scheduler
}

// NewLanes creates both lanes from the same options.
func NewLanes(opts Options) (*Lanes, error) {
	normal, err := New(opts)
	if err != nil {
		return nil, err
	}
	high, err := New(opts)
	if err != nil {
		normal.StopAndWait()
		return nil, err
	}

	l := &Lanes{}
	l.lanes[NormalLane] = normal
	l.lanes[HighLane] = high
	return l, nil
}

// Lane returns the scheduler backing lane. Unknown lanes map to NormalLane.
func (l *Lanes) Lane(lane Lane) *Scheduler {
	if lane != HighLane {
		lane = NormalLane
	}
	return l.lanes[lane]
}

// Submit runs op on the chosen lane and blocks until it finishes.
// Outcomes follow Scheduler.Submit.
func (l *Lanes) Submit(lane Lane, op Operation) error {
	return l.Lane(lane).Submit(0, op)
}

// LaneDo is Do on the chosen lane.
func LaneDo[T any](l *Lanes, lane Lane, fn func() (T, error)) (T, error) {
	return Do(l.Lane(lane), 0, fn)
}

// Shutdown stops both lanes. Both stop accepting work before either is
// waited on; the waits run concurrently.
func (l *Lanes) Shutdown(ctx context.Context) error {
	for _, s := range l.lanes {
		s.beginShutdown()
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, s := range l.lanes {
		g.Go(func() error {
			return s.waitStopped(gctx)
		})
	}
	return g.Wait()
}

// StopAndWait is Shutdown without a deadline.
func (l *Lanes) StopAndWait() { _ = l.Shutdown(context.Background()) }
