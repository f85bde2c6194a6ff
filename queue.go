// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package blq

import (
	"sync"
	"time"

	"code.hybscloud.com/atomix"
)

// Queue is a blocking bounded multi-producer multi-consumer FIFO queue
// with completion tracking.
//
// A single mutex guards the ring buffer and the bookkeeping counters.
// Producers blocked on a full queue and consumers blocked on an empty
// queue wait on condition variables, which release the mutex for the
// duration of the wait; no operation spins or holds the guard while
// suspended.
//
// Completion tracking follows the put/get/ack/join protocol: every
// accepted element raises the unfinished count, every Ack lowers it, and
// Join unblocks once it reaches zero. The count includes elements still
// queued and elements dequeued but not yet acknowledged, so Join means
// "all work fully processed", not merely "queue empty".
//
// Memory: n slots for capacity n, plus three condition variables.
type Queue[T any] struct {
	mu       sync.Mutex
	notFull  sync.Cond // Signalled when a slot frees up
	notEmpty sync.Cond // Signalled when an element arrives
	drained  sync.Cond // Broadcast when unfinished reaches zero

	buf   []T
	head  int // Next dequeue position
	tail  int // Next enqueue position
	count int // Queued elements, in [0, cap(buf)]

	unfinished int // Accepted elements not yet acknowledged
	unacked    int // Dequeued elements not yet acknowledged

	// Lock-free mirror of count so Len never contends with the guard.
	length atomix.Int64
}

var (
	_ Producer[int]  = (*Queue[int])(nil)
	_ Consumer[int]  = (*Queue[int])(nil)
	_ Interface[int] = (*Queue[int])(nil)
)

// New creates a blocking bounded queue with exactly the given capacity.
// Returns ErrInvalidCapacity if capacity <= 0.
func New[T any](capacity int) (*Queue[T], error) {
	if capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	q := &Queue[T]{buf: make([]T, capacity)}
	q.notFull.L = &q.mu
	q.notEmpty.L = &q.mu
	q.drained.L = &q.mu
	return q, nil
}

// Put adds an element to the queue, suspending the caller while the
// queue is full. The element is copied into the queue's internal buffer.
//
// Each successful Put raises the unfinished count by one and wakes one
// waiting consumer.
func (q *Queue[T]) Put(elem *T) {
	q.mu.Lock()
	for q.count == len(q.buf) {
		q.notFull.Wait()
	}
	q.enqueueLocked(elem)
	q.mu.Unlock()
}

// TryPut adds an element without blocking.
// Returns nil on success, ErrWouldBlock if the queue is full.
func (q *Queue[T]) TryPut(elem *T) error {
	q.mu.Lock()
	if q.count == len(q.buf) {
		q.mu.Unlock()
		return ErrWouldBlock
	}
	q.enqueueLocked(elem)
	q.mu.Unlock()
	return nil
}

func (q *Queue[T]) enqueueLocked(elem *T) {
	q.buf[q.tail] = *elem
	q.tail++
	if q.tail == len(q.buf) {
		q.tail = 0
	}
	q.count++
	q.unfinished++
	q.length.StoreRelaxed(int64(q.count))
	q.notEmpty.Signal()
}

// Get removes and returns the head element, suspending the caller while
// the queue is empty. FIFO order is preserved across all producers.
//
// The caller owes the queue one Ack for the returned element.
func (q *Queue[T]) Get() T {
	q.mu.Lock()
	for q.count == 0 {
		q.notEmpty.Wait()
	}
	elem := q.dequeueLocked()
	q.mu.Unlock()
	return elem
}

// TryGet removes and returns the head element without blocking.
// Returns (zero-value, ErrWouldBlock) if the queue is empty.
func (q *Queue[T]) TryGet() (T, error) {
	q.mu.Lock()
	if q.count == 0 {
		q.mu.Unlock()
		var zero T
		return zero, ErrWouldBlock
	}
	elem := q.dequeueLocked()
	q.mu.Unlock()
	return elem, nil
}

func (q *Queue[T]) dequeueLocked() T {
	elem := q.buf[q.head]
	var zero T
	q.buf[q.head] = zero // Release the slot's reference for GC
	q.head++
	if q.head == len(q.buf) {
		q.head = 0
	}
	q.count--
	q.unacked++
	q.length.StoreRelaxed(int64(q.count))
	q.notFull.Signal()
	return elem
}

// Ack records that one previously dequeued element has been fully
// processed, lowering the unfinished count.
//
// Returns ErrBadAck if called more times than elements were dequeued;
// the counters are unchanged in that case. Under the one-Ack-per-Get
// discipline, Ack never fails.
func (q *Queue[T]) Ack() error {
	q.mu.Lock()
	if q.unacked == 0 {
		q.mu.Unlock()
		return ErrBadAck
	}
	q.unacked--
	q.unfinished--
	if q.unfinished == 0 {
		q.drained.Broadcast()
	}
	q.mu.Unlock()
	return nil
}

// Join suspends the caller until every element accepted by Put or TryPut
// has been acknowledged via Ack.
//
// Join returns immediately if nothing is unfinished. It does not prevent
// further Puts: a caller that joins while producers are still active may
// observe a later drain than the one it intended to wait for.
func (q *Queue[T]) Join() {
	q.mu.Lock()
	for q.unfinished > 0 {
		q.drained.Wait()
	}
	q.mu.Unlock()
}

// JoinTimeout is Join with a bound: it returns nil once the queue is
// drained, or ErrDeadlineExceeded if the drain has not happened within d.
//
// A timed-out JoinTimeout leaves the queue fully usable; the missing
// acknowledgements can still arrive and unblock a later Join.
func (q *Queue[T]) JoinTimeout(d time.Duration) error {
	deadline := time.Now().Add(d)
	// Wake the waiter at the deadline so the loop can observe it. The
	// broadcast takes the mutex so it cannot slip between a waiter's
	// deadline check and its Wait (a lost wakeup).
	wake := time.AfterFunc(d, func() {
		q.mu.Lock()
		q.drained.Broadcast()
		q.mu.Unlock()
	})
	defer wake.Stop()

	q.mu.Lock()
	for q.unfinished > 0 {
		if !time.Now().Before(deadline) {
			q.mu.Unlock()
			return ErrDeadlineExceeded
		}
		q.drained.Wait()
	}
	q.mu.Unlock()
	return nil
}

// Len returns the current number of queued elements.
//
// Advisory only: Len reads a lock-free mirror of the count and may be
// stale the instant it returns. Never branch shutdown logic on Len; use
// Join for drain detection.
func (q *Queue[T]) Len() int {
	return int(q.length.LoadRelaxed())
}

// Cap returns the fixed capacity the queue was created with.
func (q *Queue[T]) Cap() int {
	return len(q.buf)
}
