// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package blq

import "time"

// Pipeline configures and runs a complete producer/consumer run over a
// blocking bounded queue, including the coordinated shutdown protocol.
//
// Pipeline provides a fluent API: configure roles and limits with chained
// setters, then call [Pipeline.Run].
//
// Example:
//
//	summary, err := blq.NewPipeline[int](10).
//	    Producers(2, 20).
//	    Consumers(3).
//	    Produce(func(producer, seq int) int { return producer*1000 + seq }).
//	    Consume(func(consumer, elem int) { process(elem) }).
//	    Deadline(5 * time.Second).
//	    Run()
type Pipeline[T any] struct {
	capacity  int
	producers int
	items     int // Elements each producer emits
	consumers int
	deadline  time.Duration

	produce func(producer, seq int) T
	consume func(consumer int, elem T)
}

// NewPipeline creates a pipeline builder over a queue with the given
// capacity. Capacity is validated by Run, which returns
// ErrInvalidCapacity for capacity <= 0.
//
// Defaults: 1 producer emitting 0 elements, 1 consumer, no deadline,
// zero-value elements, no-op consumption.
func NewPipeline[T any](capacity int) *Pipeline[T] {
	return &Pipeline[T]{
		capacity:  capacity,
		producers: 1,
		consumers: 1,
	}
}

// Producers sets the number of concurrent producers and how many
// elements each one emits. Panics if n <= 0 or itemsEach < 0.
func (p *Pipeline[T]) Producers(n, itemsEach int) *Pipeline[T] {
	if n <= 0 {
		panic("blq: Producers requires n > 0")
	}
	if itemsEach < 0 {
		panic("blq: Producers requires itemsEach >= 0")
	}
	p.producers = n
	p.items = itemsEach
	return p
}

// Consumers sets the number of concurrent consumers. The shutdown
// protocol enqueues exactly one stop sentinel per consumer, so the count
// is fixed before the run starts. Panics if n <= 0.
func (p *Pipeline[T]) Consumers(n int) *Pipeline[T] {
	if n <= 0 {
		panic("blq: Consumers requires n > 0")
	}
	p.consumers = n
	return p
}

// Produce sets the element factory. fn is called sequentially within
// each producer with that producer's ordinal and the element's sequence
// number; distinct producers call it concurrently. Panics if fn is nil.
func (p *Pipeline[T]) Produce(fn func(producer, seq int) T) *Pipeline[T] {
	if fn == nil {
		panic("blq: Produce requires non-nil fn")
	}
	p.produce = fn
	return p
}

// Consume sets the element handler. fn is called once per data element
// with the consuming goroutine's ordinal; distinct consumers call it
// concurrently. The element is acknowledged after fn returns, so a
// panicking fn stalls the drain. Panics if fn is nil.
func (p *Pipeline[T]) Consume(fn func(consumer int, elem T)) *Pipeline[T] {
	if fn == nil {
		panic("blq: Consume requires non-nil fn")
	}
	p.consume = fn
	return p
}

// Deadline bounds the entire run. When the deadline elapses before
// shutdown completes, Run returns ErrDeadlineExceeded together with a
// partial Summary instead of suspending its caller forever.
// A non-positive d disables the bound (the default).
func (p *Pipeline[T]) Deadline(d time.Duration) *Pipeline[T] {
	p.deadline = d
	return p
}
