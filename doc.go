// Package mpmcq provides a bounded multi-producer multi-consumer (MPMC)
// FIFO queue for inter-goroutine communication under high contention.
//
// Producers call Push or TryPush; consumers call Pop or TryPop. Both
// sides are safe under arbitrary concurrent access from any number of
// goroutines, with no mutual exclusion — coordination happens entirely
// through a per-slot turn counter and the head/tail ticket counters.
//
// # Quick Start
//
//	q, err := mpmcq.New[Event](1024)
//	if err != nil {
//	    // capacity or allocation failure
//	}
//	defer q.Close()
//
//	q.Push(ev)           // blocks (spins) while full
//	ev := q.Pop()        // blocks (spins) while empty
//
//	if q.TryPush(ev) {   // never blocks
//	    // accepted
//	}
//	if ev, ok := q.TryPop(); ok {
//	    // consumed
//	}
//
// # Capacity
//
// Capacity is used exactly as given — unlike many lock-free ring buffers,
// it is not rounded up to a power of two, and slot indices are computed
// with %, not a bitmask:
//
//	q, _ := mpmcq.New[int](11) // holds exactly 11 elements
//
// Minimum capacity is 1. New returns ErrInvalidCapacity for capacity < 1.
//
// # Worker Pool
//
//	q, _ := mpmcq.New[Job](4096)
//	defer q.Close()
//
//	for range numWorkers {
//	    go func() {
//	        for {
//	            job := q.Pop()
//	            job.Run()
//	        }
//	    }()
//	}
//
//	func Submit(j Job) {
//	    q.Push(j)
//	}
//
// # Backpressure Without Blocking
//
//	backoff := iox.Backoff{}
//	for !q.TryPush(item) {
//	    backoff.Wait()
//	}
//	backoff.Reset()
//
// # Element Lifecycle
//
// Values are copied into and out of the queue by assignment, which in Go
// never fails. If an element type holds resources that must be released
// exactly once (a file handle, a pooled buffer), implement Destroyer:
//
//	type Message struct{ buf *bytes.Buffer }
//
//	func (m Message) Destroy() { pool.Put(m.buf) }
//
// A value read out via Pop/TryPop is the caller's responsibility to
// destroy — Go assignment copies by value, so the queue cannot tell a
// caller's copy from the slot's own and must not destroy both. The queue
// only invokes Destroy itself for values still resident in the ring when
// Close is called, since those were never handed to anyone. Types that
// don't implement Destroyer incur no extra cost.
//
// # Error Handling
//
// The only failures this package defines are construction-time:
//
//	ErrInvalidCapacity  // capacity < 1
//	ErrAllocation       // the Allocator could not produce storage
//	ErrMisaligned       // the Allocator returned insufficiently aligned storage
//
// All three are ordinary errors.Is-compatible sentinels. No operation
// after a successful New can fail: Push/Pop always succeed (given
// enough spinning), and TryPush/TryPop report success as a plain bool,
// not an error — a full or empty queue is not a failure.
//
// # Custom Allocation
//
//	q, err := mpmcq.New[Event](1024, mpmcq.WithAllocator(myArena))
//
// See Allocator for the collaborator's contract.
//
// # Observability
//
//	stats := &mpmcq.Stats{}
//	q, _ := mpmcq.New[Event](1024, mpmcq.WithStats(stats))
//	// stats.Pushed, stats.Popped, stats.PushContended, stats.PopContended
//
// # Race Detection
//
// Go's race detector tracks explicit synchronization primitives (mutex,
// channel, WaitGroup) but cannot observe happens-before relationships
// established purely through atomic acquire/release memory ordering.
// This package's Push/Pop/TryPush/TryPop are correct under the Go memory
// model but may report false positives under -race; concurrent stress
// tests that rely on this ordering skip themselves when RaceEnabled is
// true.
//
// # Dependencies
//
// This package uses code.hybscloud.com/atomix for atomics with explicit
// memory ordering, code.hybscloud.com/spin for CPU-pause spin loops, and
// code.hybscloud.com/iox for contention backoff in the Try-variants. The
// three sentinel errors above are ordinary construction-time failures, not
// iox's semantic/non-failure family — see errors.go.
package mpmcq
