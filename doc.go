// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package blq provides a blocking bounded FIFO queue with completion
// tracking, plus the mutual-exclusion guard primitive it is built on.
//
// blq is the blocking counterpart to [code.hybscloud.com/lfq]: where lfq
// returns ErrWouldBlock and leaves backpressure to the caller, blq
// suspends the calling goroutine on a full or empty queue and wakes it
// when the condition clears. Use blq when callers should simply wait;
// use lfq when they must never block.
//
// # Quick Start
//
//	q, err := blq.New[Job](1024)
//	if err != nil {
//	    return err
//	}
//
//	// Producer side
//	job := Job{ID: 7}
//	q.Put(&job)          // Suspends while the queue is full
//
//	// Consumer side
//	job = q.Get()        // Suspends while the queue is empty
//	process(job)
//	q.Ack()              // Marks the element fully processed
//
//	// Coordinator side
//	q.Join()             // Suspends until every element is acknowledged
//
// # Completion Tracking
//
// The queue counts unfinished work: every accepted element raises the
// count, every Ack lowers it. Join unblocks only when the count reaches
// zero: every element put has been got *and* acknowledged. This is
// stronger than "queue empty": an element sitting in a consumer's hands,
// dequeued but not yet acknowledged, still holds Join open.
//
// Calling Ack more times than elements were dequeued is a caller bug and
// returns ErrBadAck immediately; under the one-Ack-per-Get discipline it
// never fails.
//
// # Backpressure
//
// Put on a full queue suspends the producer until a consumer frees a
// slot, propagating slowdown upstream. The suspension is a true block on
// a condition variable: the queue's internal guard is released for the
// duration of the wait, so producers and consumers never deadlock
// against each other, and nothing spins.
//
// Non-blocking variants are available for callers that manage their own
// backpressure, following the lfq convention:
//
//	backoff := iox.Backoff{}
//	for q.TryPut(&elem) != nil {
//	    backoff.Wait()
//	}
//	backoff.Reset()
//
// TryPut and TryGet return [ErrWouldBlock], an alias of
// [iox.ErrWouldBlock], classified by IsWouldBlock / IsSemantic /
// IsNonFailure.
//
// # Ordering
//
// FIFO order is total across all producers: whichever Put wins the
// queue's internal guard first is dequeued first. With multiple racing
// producers the non-determinism is which producer's element lands at
// which position, never a reordering after a Put has completed.
//
// # Pipelines and Coordinated Shutdown
//
// [Pipeline] runs the whole producer/consumer pattern (N producers,
// M consumers, bounded queue in between) and drives the shutdown
// protocol that the put/get/ack/join primitives make possible:
//
//	summary, err := blq.NewPipeline[int](10).
//	    Producers(2, 100).
//	    Consumers(3).
//	    Produce(func(producer, seq int) int { return producer*1000 + seq }).
//	    Consume(func(consumer, elem int) { handle(elem) }).
//	    Deadline(10 * time.Second).
//	    Run()
//
// Shutdown phases, strictly ordered: wait for all producers, put exactly
// one stop sentinel per consumer, Join the queue, wait for all
// consumers. Sentinels are a tagged envelope, not an in-band value, so
// element types whose zero value is legitimate data stay unambiguous.
//
// Fewer sentinels than consumers would leave a consumer suspended in Get
// forever. The pipeline always puts the exact count; code using the
// queue directly must do the same.
//
// # Deadlines
//
// A run whose producers never finish, or whose consumers never
// acknowledge, suspends forever; the base primitives carry no timeout.
// For callers that cannot accept an unbounded hang,
// [Queue.JoinTimeout] and [Pipeline.Deadline] bound the wait and return
// [ErrDeadlineExceeded] with partial results instead. An abandoned run's
// goroutines remain parked on whatever suspension stalled it; the
// deadline reports the stall, it does not cancel the workers.
//
// # Mutual-Exclusion Guard
//
// [Guard] owns one shared value behind a lock, with scoped access that
// releases on every exit path including panics:
//
//	hits := blq.NewGuard(0)
//	hits.Do(func(n *int) { *n++ })
//	total := hits.Load()
//
// The queue's own counters follow the same discipline internally. The
// canonical defect the guard eliminates (read, suspend, write back a
// stale value) is demonstrated in the package tests.
//
// # Thread Safety
//
// All Queue, Guard, and Pipeline operations are safe for any number of
// concurrent goroutines; there are no single-producer or single-consumer
// constraints. Len is advisory and may be stale the instant it returns.
//
// Unlike lfq's lock-free algorithms, blq synchronizes through a mutex
// and condition variables, which the race detector tracks natively: the
// full test suite runs clean under -race (the one deliberate exception,
// the unguarded lost-update demonstration, is gated on RaceEnabled).
//
// # Known Limitations
//
//   - A consumer that fails between Get and Ack stalls Join; there is no
//     requeue or dead-letter policy. Bound the wait with JoinTimeout or
//     a pipeline deadline.
//   - Insufficient sentinels are a silent permanent suspension, not an
//     error. A liveness watchdog that detects and reports the stall is
//     future work.
//   - Queues are in-process and volatile: no cross-process hand-off, no
//     persistence across restarts, no priority or deadline scheduling of
//     individual elements.
//
// # Dependencies
//
// This package uses [code.hybscloud.com/iox] for semantic errors and
// adaptive backoff, and [code.hybscloud.com/atomix] for the lock-free
// advisory counters ([Queue.Len], pipeline summaries).
package blq
