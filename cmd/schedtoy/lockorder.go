package main

import (
	"context"
	"runtime"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
)

type lockKind struct {
	name string
	new  func() sync.Locker
}

func lockKinds() []lockKind {
	return []lockKind{
		{"sync.Mutex", func() sync.Locker { return new(sync.Mutex) }},
		{"sync.RWMutex", func() sync.Locker { return new(sync.RWMutex) }},
	}
}

// lockResult is the arrival and acquisition slot of one goroutine.
type lockResult struct {
	Goroutine int
	Arrive    int64
	Acquire   int64
}

// runLockOrder releases n goroutines at once against a held lock and
// records the order in which they arrive at and acquire it.
func runLockOrder(ctx context.Context, kind lockKind, n int) ([]lockResult, error) {
	mu := kind.new()
	results := make([]lockResult, n)

	var arrive, acquire atomic.Int64
	var ready sync.WaitGroup
	ready.Add(n)
	start := make(chan struct{})

	mu.Lock()
	g, gctx := errgroup.WithContext(ctx)
	for i := range n {
		g.Go(func() error {
			ready.Done()
			select {
			case <-start:
			case <-gctx.Done():
				return gctx.Err()
			}
			results[i].Goroutine = i
			results[i].Arrive = arrive.Add(1)
			mu.Lock()
			results[i].Acquire = acquire.Add(1)
			mu.Unlock()
			return nil
		})
	}

	ready.Wait()
	close(start)
	// let every goroutine queue up on the lock before it is released
	for arrive.Load() < int64(n) && ctx.Err() == nil {
		runtime.Gosched()
	}
	mu.Unlock()

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
