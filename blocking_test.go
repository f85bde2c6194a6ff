// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package blq_test

import (
	"testing"
	"time"

	"code.hybscloud.com/iox"

	"code.hybscloud.com/blq"
)

// =============================================================================
// Test Helpers
// =============================================================================

// retryWithTimeout retries f until it returns true or timeout expires.
// Reports failure with the given message if timeout is reached.
func retryWithTimeout(t *testing.T, timeout time.Duration, f func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	backoff := iox.Backoff{}
	for !f() {
		if time.Now().After(deadline) {
			t.Fatalf("timeout after %v: %s", timeout, msg)
		}
		backoff.Wait()
	}
}

// assertBlocked verifies ch does not receive within d. The goroutine
// behind ch is expected to still be suspended.
func assertBlocked(t *testing.T, ch <-chan struct{}, d time.Duration, msg string) {
	t.Helper()
	select {
	case <-ch:
		t.Fatalf("%s: returned while it should be suspended", msg)
	case <-time.After(d):
	}
}

// assertUnblocks verifies ch receives within d.
func assertUnblocks(t *testing.T, ch <-chan struct{}, d time.Duration, msg string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(d):
		t.Fatalf("%s: still suspended after %v", msg, d)
	}
}

// =============================================================================
// Suspension and Wakeup
// =============================================================================

// TestPutBlocksWhenFull verifies backpressure: with capacity 1 and no
// consumer, a second Put suspends until a Get frees the slot.
func TestPutBlocksWhenFull(t *testing.T) {
	q, err := blq.New[int](1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	v := 1
	q.Put(&v)

	second := make(chan struct{})
	go func() {
		w := 2
		q.Put(&w)
		close(second)
	}()

	assertBlocked(t, second, 100*time.Millisecond, "second Put on full queue")

	if got := q.Get(); got != 1 {
		t.Fatalf("Get: got %d, want 1", got)
	}
	assertUnblocks(t, second, 2*time.Second, "Put after slot freed")

	if got := q.Get(); got != 2 {
		t.Fatalf("Get: got %d, want 2", got)
	}
}

// TestGetBlocksWhenEmpty verifies a Get on an empty queue suspends until
// an element arrives.
func TestGetBlocksWhenEmpty(t *testing.T) {
	q, err := blq.New[int](1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	got := make(chan int, 1)
	done := make(chan struct{})
	go func() {
		got <- q.Get()
		close(done)
	}()

	assertBlocked(t, done, 100*time.Millisecond, "Get on empty queue")

	v := 42
	q.Put(&v)
	assertUnblocks(t, done, 2*time.Second, "Get after element arrived")

	if g := <-got; g != 42 {
		t.Fatalf("Get: got %d, want 42", g)
	}
}

// TestJoinBlocksUntilAck verifies the drain condition is "acknowledged",
// not "dequeued": an element in a consumer's hands still holds Join open.
func TestJoinBlocksUntilAck(t *testing.T) {
	q, err := blq.New[int](1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	v := 1
	q.Put(&v)

	joined := make(chan struct{})
	go func() {
		q.Join()
		close(joined)
	}()

	assertBlocked(t, joined, 100*time.Millisecond, "Join with element queued")

	_ = q.Get()
	// Dequeued but unacknowledged: still not drained.
	assertBlocked(t, joined, 100*time.Millisecond, "Join with element in flight")

	if err := q.Ack(); err != nil {
		t.Fatalf("Ack: %v", err)
	}
	assertUnblocks(t, joined, 2*time.Second, "Join after final Ack")
}

// TestBlockedProducersAllComplete verifies every suspended producer
// eventually completes once consumers drain, with no lost wakeups.
func TestBlockedProducersAllComplete(t *testing.T) {
	q, err := blq.New[int](1)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	const producers = 8
	done := make(chan struct{}, producers)
	for i := range producers {
		go func(v int) {
			q.Put(&v)
			done <- struct{}{}
		}(i)
	}

	received := 0
	retryWithTimeout(t, 5*time.Second, func() bool {
		if _, err := q.TryGet(); err == nil {
			received++
		}
		return received == producers
	}, "draining suspended producers")

	for range producers {
		assertUnblocks(t, done, 2*time.Second, "suspended producer")
	}
}
