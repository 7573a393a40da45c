package workqueue

import (
	"container/heap"
)

const (
	prioCap = 64
)

// prioQueue holds the pending items of one Scheduler.
//
// It is not safe for concurrent use; the Scheduler guards every call with
// its queue mutex. Every item in the queue is Pending, and an item leaves
// the queue exactly once, through Pop or Drain.
type prioQueue struct {
	h itemHeap
}

// newPrioQueue creates an empty queue initialized as a max-heap.
func newPrioQueue() *prioQueue {
	q := &prioQueue{h: make(itemHeap, 0, prioCap)}
	heap.Init(&q.h)
	return q
}

// Push inserts an item. The caller assigns seq beforehand.
func (q *prioQueue) Push(it *workItem) {
	heap.Push(&q.h, it)
}

// Pop removes and returns the item with the highest priority, earliest
// sequence first among equals. If the queue is empty, Pop returns nil and
// false.
func (q *prioQueue) Pop() (*workItem, bool) {
	if q.h.Len() == 0 {
		return nil, false
	}
	return heap.Pop(&q.h).(*workItem), true
}

// Drain removes every queued item and returns them in dispatch order,
// leaving the queue empty.
func (q *prioQueue) Drain() []*workItem {
	out := make([]*workItem, 0, q.h.Len())
	for q.h.Len() > 0 {
		out = append(out, heap.Pop(&q.h).(*workItem))
	}
	return out
}

// Len returns the number of items currently queued.
func (q *prioQueue) Len() int {
	return q.h.Len()
}
