package plumbing

import "github.com/emirpasic/gods/queues/linkedlistqueue"

// HashQueue is a FIFO frontier queue of commit identifiers. It wraps
// emirpasic/gods the way the teacher's commitStacker wraps it around a
// heap for the topo-order walker's explorer frontier
// (modules/zeta/object/commit_walker_topo_order.go): a thin typed facade
// over a boxed gods collection, so callers never see the underlying
// interface{} values. BFS descendant discovery and Kahn's-algorithm
// ready-queues are both FIFO, unlike the teacher's LIFO visit stack, so
// this wraps linkedlistqueue rather than the teacher's arraystack.
type HashQueue struct {
	q *linkedlistqueue.Queue
}

// NewHashQueue returns an empty queue, optionally seeded with initial.
func NewHashQueue(initial ...Hash) *HashQueue {
	q := &HashQueue{q: linkedlistqueue.New()}
	for _, h := range initial {
		q.Push(h)
	}
	return q
}

// Push enqueues h.
func (q *HashQueue) Push(h Hash) {
	q.q.Enqueue(h)
}

// Pop dequeues and returns the oldest pushed Hash. ok is false if the
// queue is empty.
func (q *HashQueue) Pop() (h Hash, ok bool) {
	v, ok := q.q.Dequeue()
	if !ok {
		return Hash{}, false
	}
	return v.(Hash), true
}

// Empty reports whether the queue holds no elements.
func (q *HashQueue) Empty() bool {
	return q.q.Empty()
}
