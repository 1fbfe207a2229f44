// Package scheduler provides a frame-callback queue the host pumps once per
// display refresh.
package scheduler

import (
	"sync"
	"time"
)

// Handle identifies a pending tick request. The zero Handle is never issued.
type Handle uint64

type request struct {
	handle Handle
	fn     func(time.Time)
}

// Queue holds one-shot tick callbacks. Requests made while flushing run on
// the next Flush, so a callback that re-arms itself runs once per frame.
type Queue struct {
	mu      sync.Mutex
	next    Handle
	pending []request
	running []request
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{}
}

// RequestTick schedules fn for the next Flush.
func (q *Queue) RequestTick(fn func(time.Time)) Handle {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.next++
	q.pending = append(q.pending, request{handle: q.next, fn: fn})
	return q.next
}

// CancelTick drops a pending request. Unknown handles are ignored.
func (q *Queue) CancelTick(h Handle) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i, r := range q.pending {
		if r.handle == h {
			q.pending = append(q.pending[:i], q.pending[i+1:]...)
			return
		}
	}
}

// Pending returns the number of queued callbacks.
func (q *Queue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Flush runs every callback queued before the call with timestamp now and
// returns how many ran.
func (q *Queue) Flush(now time.Time) int {
	q.mu.Lock()
	q.running, q.pending = q.pending, q.running[:0]
	batch := q.running
	q.mu.Unlock()

	for _, r := range batch {
		r.fn(now)
	}
	return len(batch)
}
