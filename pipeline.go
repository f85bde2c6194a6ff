// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package blq

import (
	"sync"
	"time"

	"code.hybscloud.com/atomix"
)

// message is the envelope moved through a pipeline's queue. The stop
// sentinel is a tag rather than an in-band magic value, so T can be any
// type, including one whose zero value is legitimate data.
type message[T any] struct {
	elem T
	stop bool
}

// Summary reports the outcome of a pipeline run.
type Summary struct {
	Produced  int64         // Data elements accepted by the queue
	Consumed  int64         // Data elements processed and acknowledged
	Stopped   int           // Consumers that received their stop sentinel
	Completed bool          // Whether the full shutdown protocol finished
	Elapsed   time.Duration // Wall time from start to return
}

// RunPipeline runs a complete producer/consumer round with the default
// element factory and handler: producerCount producers each put
// itemsPerProducer zero-value elements, consumerCount consumers drain
// and acknowledge them, and the shutdown protocol runs to completion.
//
// Shorthand for NewPipeline with Producers and Consumers; use the
// builder directly to set element callbacks or a deadline. Returns
// ErrInvalidCapacity if capacity <= 0; panics on non-positive counts,
// like the builder setters.
func RunPipeline[T any](producerCount, itemsPerProducer, consumerCount, capacity int) (Summary, error) {
	return NewPipeline[T](capacity).
		Producers(producerCount, itemsPerProducer).
		Consumers(consumerCount).
		Run()
}

// Run starts all producers and consumers and drives the shutdown
// protocol. The phases are strictly ordered:
//
//  1. Start every producer and every consumer.
//  2. Wait for every producer to finish its puts.
//  3. Put exactly one stop sentinel per consumer, via ordinary puts
//     subject to the same backpressure as data.
//  4. Join the queue: every data element and every sentinel acknowledged.
//  5. Wait for every consumer goroutine to stop.
//
// Enqueueing the sentinels only after step 2 means no consumer can stop
// while data is still being produced; one sentinel per consumer means no
// consumer is left suspended in Get.
//
// With a deadline configured, Run returns ErrDeadlineExceeded and a
// partial Summary if the protocol has not finished in time. The run's
// goroutines are abandoned, not cancelled: whatever suspension stalled
// the run (a producer that never finishes, a consumer stuck processing)
// keeps them parked. Without a deadline a stalled run suspends Run
// itself indefinitely.
func (p *Pipeline[T]) Run() (Summary, error) {
	start := time.Now()

	q, err := New[message[T]](p.capacity)
	if err != nil {
		return Summary{}, err
	}

	produce := p.produce
	if produce == nil {
		produce = func(int, int) T { var zero T; return zero }
	}
	consume := p.consume
	if consume == nil {
		consume = func(int, T) {}
	}

	var produced, consumed atomix.Int64
	var stopped atomix.Int32
	var prodWG, consWG sync.WaitGroup

	consWG.Add(p.consumers)
	for c := range p.consumers {
		go func(id int) {
			defer consWG.Done()
			runConsumer(id, q, consume, &consumed)
			stopped.Add(1)
		}(c)
	}

	prodWG.Add(p.producers)
	for pr := range p.producers {
		go func(id int) {
			defer prodWG.Done()
			runProducer(id, p.items, q, produce, &produced)
		}(pr)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		prodWG.Wait() // Phase 2: all puts completed
		for range p.consumers {
			m := message[T]{stop: true} // Phase 3: one sentinel each
			q.Put(&m)
		}
		q.Join()      // Phase 4: full drain
		consWG.Wait() // Phase 5: all consumers stopped
	}()

	snapshot := func(completed bool) Summary {
		return Summary{
			Produced:  produced.Load(),
			Consumed:  consumed.Load(),
			Stopped:   int(stopped.Load()),
			Completed: completed,
			Elapsed:   time.Since(start),
		}
	}

	if p.deadline > 0 {
		timer := time.NewTimer(p.deadline)
		defer timer.Stop()
		select {
		case <-done:
		case <-timer.C:
			return snapshot(false), ErrDeadlineExceeded
		}
	} else {
		<-done
	}
	return snapshot(true), nil
}

// runProducer emits the producer's elements with sequential puts. A
// producer never acknowledges; its only shared state is the queue.
func runProducer[T any](id, items int, q *Queue[message[T]], produce func(producer, seq int) T, produced *atomix.Int64) {
	for seq := range items {
		m := message[T]{elem: produce(id, seq)}
		q.Put(&m)
		produced.Add(1)
	}
}

// runConsumer loops get, process, ack until it receives a stop
// sentinel. The sentinel itself is acknowledged (it is a unit of work
// the drain waits for) and is never handed to the consume callback.
// After the sentinel the consumer never calls Get again.
func runConsumer[T any](id int, q *Queue[message[T]], consume func(consumer int, elem T), consumed *atomix.Int64) {
	for {
		m := q.Get()
		if m.stop {
			_ = q.Ack()
			return
		}
		consume(id, m.elem)
		consumed.Add(1)
		_ = q.Ack()
	}
}
