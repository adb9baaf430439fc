package engine

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/roach88/msgboard/internal/ir"
)

// request is one Execute call waiting for the Run loop.
type request struct {
	ctx    context.Context
	sender string
	msg    ir.ExecuteMsg
	reply  chan result // Buffered, size 1
	state  atomic.Int32
}

// Request states. A pending request is either claimed by the Run loop or
// abandoned by its caller, never both.
const (
	requestPending int32 = iota
	requestClaimed
	requestAbandoned
)

// claim marks req as taken by the Run loop. It fails if the caller has
// already given up on it.
func (r *request) claim() bool {
	return r.state.CompareAndSwap(requestPending, requestClaimed)
}

// abandon marks req as given up by its caller. It fails once the Run loop
// has claimed it.
func (r *request) abandon() bool {
	return r.state.CompareAndSwap(requestPending, requestAbandoned)
}

// result is what the Run loop sends back to the caller.
type result struct {
	res ir.Response
	err error
}

// requestQueue is a thread-safe FIFO queue of pending transitions.
//
// Callers enqueue from any goroutine; only the Run loop dequeues. The
// signal channel lets the Run loop wait on the queue and a context at the
// same time.
type requestQueue struct {
	mu       sync.Mutex
	requests []*request
	closed   bool
	signal   chan struct{} // Signals availability (buffered, size 1)
}

// newRequestQueue creates an empty queue.
func newRequestQueue() *requestQueue {
	return &requestQueue{
		requests: make([]*request, 0, 64),
		signal:   make(chan struct{}, 1),
	}
}

// Enqueue adds a request to the back of the queue.
// Returns false if the queue is closed.
func (q *requestQueue) Enqueue(r *request) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}

	q.requests = append(q.requests, r)

	// Non-blocking: a buffer of 1 coalesces multiple signals
	select {
	case q.signal <- struct{}{}:
	default:
	}

	return true
}

// TryDequeue removes and returns the front request without blocking.
// Returns (nil, false) if the queue is empty.
func (q *requestQueue) TryDequeue() (*request, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.requests) == 0 {
		return nil, false
	}

	r := q.requests[0]

	// Release the slot so the backing array does not pin the request.
	q.requests[0] = nil
	if len(q.requests) == 1 {
		q.requests = q.requests[:0]
	} else {
		q.requests = q.requests[1:]
	}

	return r, true
}

// Wait returns a channel that signals when requests may be available.
// The channel is closed when the queue is closed.
func (q *requestQueue) Wait() <-chan struct{} {
	return q.signal
}

// Len returns the current queue length.
func (q *requestQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.requests)
}

// Close rejects further Enqueue calls and wakes the Run loop.
// Requests already queued stay queued until drained.
func (q *requestQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}

	q.closed = true
	close(q.signal)
}

// Drain removes and returns every queued request.
func (q *requestQueue) Drain() []*request {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := q.requests
	q.requests = nil
	return out
}
