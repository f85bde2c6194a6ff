// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package blq

// Producer is the enqueueing side of a queue.
//
// Hand a Producer (rather than the full *Queue) to goroutines that should
// only insert work. The element is passed by pointer to avoid copying
// large structs; the queue stores a copy of the pointed-to value, so the
// original can be modified after Put returns.
//
// Producers never acknowledge: Ack belongs to the consuming side.
type Producer[T any] interface {
	// Put adds an element to the queue, suspending the caller while the
	// queue is full. Items are never dropped or reordered: the order in
	// which Put calls win the queue's internal guard is the FIFO order.
	Put(elem *T)

	// TryPut adds an element without blocking.
	// Returns nil on success, ErrWouldBlock if the queue is full.
	TryPut(elem *T) error
}

// Consumer is the dequeueing side of a queue.
//
// Hand a Consumer to goroutines that should only drain work. Every
// successful Get or TryGet must eventually be matched by exactly one Ack;
// Join unblocks only once every accepted item has been acknowledged.
type Consumer[T any] interface {
	// Get removes and returns the head element, suspending the caller
	// while the queue is empty. FIFO order is preserved.
	Get() T

	// TryGet removes and returns the head element without blocking.
	// Returns (zero-value, ErrWouldBlock) if the queue is empty.
	TryGet() (T, error)

	// Ack records that one previously dequeued element has been fully
	// processed. Returns ErrBadAck if called more times than elements
	// were dequeued.
	Ack() error
}

// Interface is the combined producer-consumer surface of [Queue].
//
// Most callers use *Queue directly; Interface exists so wrappers and
// tests can substitute an implementation.
type Interface[T any] interface {
	Producer[T]
	Consumer[T]

	// Len returns the current number of queued elements. Advisory only:
	// the value may be stale the instant it is returned, since other
	// goroutines mutate the queue concurrently.
	Len() int

	// Cap returns the fixed capacity the queue was created with.
	Cap() int

	// Join suspends the caller until every element accepted by Put or
	// TryPut has been acknowledged via Ack.
	Join()
}
