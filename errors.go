// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package blq

import (
	"errors"

	"code.hybscloud.com/iox"
)

// ErrInvalidCapacity indicates queue construction with capacity <= 0.
//
// Returned by [New]. No partial queue is returned alongside it.
var ErrInvalidCapacity = errors.New("blq: capacity must be > 0")

// ErrBadAck indicates Ack was called more times than items were dequeued.
//
// This is a protocol violation on the caller's side: every Ack must be
// preceded by a successful Get or TryGet that has not been acknowledged
// yet. The queue state is unchanged when ErrBadAck is returned.
var ErrBadAck = errors.New("blq: Ack called more times than items dequeued")

// ErrDeadlineExceeded indicates a bounded wait gave up before the queue
// drained.
//
// Returned by [Queue.JoinTimeout] and by [Pipeline.Run] when a deadline
// is configured. The queue itself is still valid; items that were in
// flight remain unacknowledged and a later Join can still succeed if the
// missing acknowledgements eventually arrive.
var ErrDeadlineExceeded = errors.New("blq: deadline exceeded before drain")

// ErrWouldBlock indicates the operation cannot proceed immediately.
//
// For TryPut: the queue is full (backpressure)
// For TryGet: the queue is empty (no data available)
//
// ErrWouldBlock is a control flow signal, not a failure. The caller should
// retry later (with backoff or yield), or use the blocking Put/Get which
// suspend instead of returning it.
//
// This is an alias for [iox.ErrWouldBlock] for ecosystem consistency.
//
// Example:
//
//	backoff := iox.Backoff{}
//	for {
//	    err := q.TryPut(&item)
//	    if err == nil {
//	        backoff.Reset()
//	        break
//	    }
//	    if blq.IsWouldBlock(err) {
//	        backoff.Wait()  // Adaptive backpressure
//	        continue
//	    }
//	    return err  // Unexpected error
//	}
var ErrWouldBlock = iox.ErrWouldBlock

// IsWouldBlock reports whether err indicates the operation would block.
// Delegates to [iox.IsWouldBlock] for wrapped error support.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}

// IsSemantic reports whether err is a control flow signal (not a failure).
// Delegates to [iox.IsSemantic].
func IsSemantic(err error) bool {
	return iox.IsSemantic(err)
}

// IsNonFailure reports whether err represents a non-failure condition.
// Returns true for nil, ErrWouldBlock, or ErrMore.
// Delegates to [iox.IsNonFailure].
func IsNonFailure(err error) bool {
	return iox.IsNonFailure(err)
}
