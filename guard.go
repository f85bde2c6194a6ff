// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package blq

import "sync"

// Guard is a mutual-exclusion guard owning exactly one shared value.
//
// All access to the value goes through Do, which holds the guard for the
// duration of the critical section and releases it on every exit path,
// including panics. The value must not escape the critical section by
// pointer; copy what needs to outlive it.
//
// Guard is the primitive the queue's own bookkeeping is built on,
// exported because "shared counter behind a lock" is the pattern callers
// otherwise get wrong: a read-modify-write split across a suspension
// point without the guard loses updates.
//
// Acquisitions are serialized but not FIFO-fair: a waiter is guaranteed
// eventual progress, not a particular wake order.
type Guard[V any] struct {
	mu    sync.Mutex
	value V
}

// NewGuard creates a guard owning the given initial value.
func NewGuard[V any](initial V) *Guard[V] {
	return &Guard[V]{value: initial}
}

// Do runs fn with exclusive access to the guarded value.
//
// The guard is held for exactly the duration of fn and released even if
// fn panics; the panic propagates to the caller after release, so a
// failed critical section can never leak the guard.
func (g *Guard[V]) Do(fn func(v *V)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	fn(&g.value)
}

// Load returns a snapshot of the guarded value, taken under the guard.
//
// The snapshot may be stale by the time the caller inspects it; use Do
// when the read feeds a write.
func (g *Guard[V]) Load() V {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.value
}

// Store replaces the guarded value.
func (g *Guard[V]) Store(v V) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.value = v
}
