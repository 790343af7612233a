// Package event provides typed FIFO queues that carry messages between the
// passes of a battle tick.
//
// Each queue has one designated consumer that drains it once per tick.
// Messages pushed after the consumer ran are delivered on the next drain, so
// delivery is at-least-once-per-tick and in order per writer.
package event

// Queue is a FIFO of messages of a single type.
type Queue[T any] struct {
	items []T
}

// NewQueue creates an empty queue.
func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{}
}

// Push appends messages to the queue.
func (q *Queue[T]) Push(items ...T) {
	q.items = append(q.items, items...)
}

// Drain removes and returns every pending message in push order.
func (q *Queue[T]) Drain() []T {
	if len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

// Peek returns the pending messages without consuming them.
func (q *Queue[T]) Peek() []T {
	return q.items
}

// Len returns the number of pending messages.
func (q *Queue[T]) Len() int {
	return len(q.items)
}
