package buffer

import "sync/atomic"

// Queue connects producers to a single consumer through a buffer that grows
// as needed, so producers never wait on a slow consumer.
type Queue[T any] struct {
	in      chan T
	out     chan T
	dropped atomic.Int64
}

// Unbounded creates a Queue and starts its pump goroutine.
//
// initialCap: The starting size of the backing slice (performance optimization).
// hardLimit: The maximum number of items to buffer before dropping (safety valve).
//
// Usage:
//
//	q := buffer.Unbounded[string](100, 50000)
//	q.In() <- "hello"
//	msg := <-q.Out()
func Unbounded[T any](initialCap int, hardLimit int) *Queue[T] {
	q := &Queue[T]{
		in:  make(chan T, 10), // Small input buffer to reduce context switching
		out: make(chan T, 10),
	}
	go q.pump(initialCap, hardLimit)
	return q
}

// In returns the producer side. Close it to flush and shut the queue down.
func (q *Queue[T]) In() chan<- T { return q.in }

// Out returns the consumer side. It is closed after In is closed and every
// buffered item has been delivered.
func (q *Queue[T]) Out() <-chan T { return q.out }

// Dropped returns how many items were discarded because the hard limit was
// reached.
func (q *Queue[T]) Dropped() int64 { return q.dropped.Load() }

func (q *Queue[T]) pump(initialCap, hardLimit int) {
	defer close(q.out)

	queue := make([]T, 0, initialCap)

	for {
		var next T
		var downstream chan T

		// Enable the send case only when there is something to send.
		if len(queue) > 0 {
			next = queue[0]
			downstream = q.out
		}

		select {
		case val, ok := <-q.in:
			if !ok {
				for _, item := range queue {
					q.out <- item
				}
				return
			}

			// Drop the oldest item rather than grow without bound when the
			// consumer has stalled.
			if hardLimit > 0 && len(queue) >= hardLimit {
				var zero T
				queue[0] = zero
				queue = queue[1:]
				q.dropped.Add(1)
			}

			queue = append(queue, val)

		case downstream <- next:
			var zero T
			queue[0] = zero
			queue = queue[1:]
		}
	}
}
