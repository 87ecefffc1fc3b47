// Package platform supplies the small set of primitives the allocator and
// scheduler both need from "the machine": a monotonic time base and a way
// to mark a critical section. On the teacher's target these are the ARM
// DAIF interrupt-mask bits (src/lib/upbeat/interrupt_support.go); off bare
// metal the same shape is expressed with a mutex and an atomic counter.
package platform

import (
	"sync"
	"sync/atomic"
)

// Clock is the abstract time base spec.md's scheduler measures deadlines,
// periods, and exec_runtime against. It counts discrete ticks rather than
// wall-clock time, matching a kernel scheduler's usual timer-interrupt
// cadence.
type Clock interface {
	Now() uint64
}

// TickClock is a Clock advanced explicitly by the caller (typically a timer
// interrupt handler, or a test driving simulated time). Safe for concurrent
// use.
type TickClock struct {
	ticks int64
}

// NewTickClock returns a TickClock starting at tick 0.
func NewTickClock() *TickClock {
	return &TickClock{}
}

// Now returns the current tick count.
func (c *TickClock) Now() uint64 {
	return uint64(atomic.LoadInt64(&c.ticks))
}

// Advance moves the clock forward by n ticks and returns the new value.
// n must be non-negative; callers drive the clock forward only.
func (c *TickClock) Advance(n uint64) uint64 {
	return uint64(atomic.AddInt64(&c.ticks, int64(n)))
}

// IRQGuard serializes access to a critical section the way masking
// interrupts does on bare metal: while the guard is held, no other goroutine
// observes the protected state mid-update. Grounded on
// src/lib/upbeat/interrupt_support.go's MaskDAIF/UnmaskDAIF pair, generalized
// from ARM-specific assembly to a portable mutex.
type IRQGuard struct {
	mu sync.Mutex
}

// Enter acquires the guard and returns a function that releases it, so
// callers write:
//
//	defer guard.Enter()()
//
// matching the enter/leave symmetry of MaskDAIF/UnmaskDAIF at the call site.
func (g *IRQGuard) Enter() func() {
	g.mu.Lock()
	return g.mu.Unlock
}
