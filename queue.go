package mpmcq

import (
	"sync"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/iox"
	"code.hybscloud.com/spin"
)

// Queue is a bounded, multi-producer multi-consumer FIFO queue. Producers
// call Push/TryPush, consumers call Pop/TryPop; both are safe under
// arbitrary concurrent access from any number of goroutines, with no
// mutual exclusion.
//
// Queue must be constructed with New and must not be copied after first
// use — it embeds a noCopy marker so `go vet` flags accidental copies.
//
// Example:
//
//	q, err := mpmcq.New[int](1024)
//	if err != nil {
//	    // capacity or allocation failure
//	}
//	defer q.Close()
//
//	q.Push(42)
//	v := q.Pop()
type Queue[T any] struct {
	noCopy noCopy

	_    [cacheLineSize]byte
	head atomix.Uint64 // producer ticket counter
	_    [cacheLineSize - 8]byte
	tail atomix.Uint64 // consumer ticket counter
	_    [cacheLineSize - 8]byte

	ring      []slot
	capacity  uint64
	allocator Allocator
	stats     *Stats
	closed    bool
	closeOnce sync.Once
}

// noCopy is embedded to let `go vet -copylocks` flag accidental copies of
// a Queue, the idiomatic Go substitute for a deleted C++ copy/move
// constructor (the same pattern sync.noCopy uses in the standard
// library).
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// New creates a bounded queue with room for exactly capacity elements.
// Unlike the teacher's power-of-2 queues, capacity is used exactly as
// given (indices are computed with %, not a bitmask) — the same contract
// the original mpmc::queue<T> offers.
//
// New fails with ErrInvalidCapacity if capacity < 1, ErrAllocation if the
// configured Allocator could not produce storage, or ErrMisaligned if
// the allocator returned insufficiently aligned storage.
func New[T any](capacity int, opts ...Option) (*Queue[T], error) {
	if capacity < 1 {
		return nil, invalidCapacityError(capacity)
	}

	cfg := config{allocator: defaultAllocator{}}
	for _, opt := range opts {
		opt(&cfg)
	}

	n := capacity + 1 // one padding slot to isolate the last real slot
	size := sizeofSlot()
	const align = uintptr(cacheLineSize) // the cache line, not slot's natural (word) alignment

	ptr, err := cfg.allocator.Allocate(n, size, align)
	if err != nil {
		return nil, allocationError(err)
	}
	got := alignmentOf(ptr)
	if got < align {
		cfg.allocator.Deallocate(ptr, n, size, align)
		return nil, misalignedError(align, got)
	}

	ring := ringFromPointer(ptr, n)
	// The first capacity slots start empty (turn = 0); the trailing
	// slot is padding and is never addressed by idx()/phase().
	for i := 0; i < capacity; i++ {
		ring[i].turn.StoreRelaxed(0)
	}

	q := &Queue[T]{
		ring:      ring,
		capacity:  uint64(capacity),
		allocator: cfg.allocator,
		stats:     cfg.stats,
	}
	return q, nil
}

func (q *Queue[T]) idx(ticket uint64) uint64 {
	return ticket % q.capacity
}

func (q *Queue[T]) phase(ticket uint64) uint64 {
	return ticket / q.capacity
}

// Push adds v to the queue, spinning until a slot becomes available.
// Push always succeeds; it never returns early and never fails.
func (q *Queue[T]) Push(v T) {
	ticket := q.head.AddAcqRel(1) - 1
	s := &q.ring[q.idx(ticket)]
	p := q.phase(ticket)

	sw := spin.Wait{}
	for s.turn.LoadAcquire() != 2*p {
		sw.Once()
	}
	s.construct(v)
	s.turn.StoreRelease(2*p + 1)
	q.stats.recordPush(false)
}

// TryPush attempts to add v without blocking. It returns false only when
// the queue was observed full; it never spuriously fails when a slot is
// ready and no competing producer wins the race to claim it.
func (q *Queue[T]) TryPush(v T) bool {
	head := q.head.LoadAcquire()
	backoff := iox.Backoff{}
	contended := false
	for {
		s := &q.ring[q.idx(head)]
		p := q.phase(head)
		turn := s.turn.LoadAcquire()

		if turn == 2*p {
			if q.head.CompareAndSwapAcqRel(head, head+1) {
				s.construct(v)
				s.turn.StoreRelease(2*p + 1)
				q.stats.recordPush(contended)
				return true
			}
			// Lost the race for this slot; another producer
			// advanced head first. Back off and reload.
			contended = true
			backoff.Wait()
			head = q.head.LoadAcquire()
			continue
		}

		// Slot not ready for this phase: only report full if head
		// has not moved since we last observed it, otherwise a
		// concurrent consumer/producer may have just made progress.
		prev := head
		head = q.head.LoadAcquire()
		if head == prev {
			return false
		}
	}
}

// Pop removes and returns the head of the queue, spinning until a value
// becomes available. Pop always succeeds; it never returns early.
func (q *Queue[T]) Pop() T {
	ticket := q.tail.AddAcqRel(1) - 1
	s := &q.ring[q.idx(ticket)]
	p := q.phase(ticket)

	sw := spin.Wait{}
	for s.turn.LoadAcquire() != 2*p+1 {
		sw.Once()
	}
	v := s.moveOut()
	s.turn.StoreRelease(2*p + 2)
	q.stats.recordPop(false)
	return v.(T)
}

// TryPop attempts to remove the head of the queue without blocking. It
// returns (zero, false) only when the queue was observed empty.
func (q *Queue[T]) TryPop() (T, bool) {
	tail := q.tail.LoadAcquire()
	backoff := iox.Backoff{}
	contended := false
	for {
		s := &q.ring[q.idx(tail)]
		p := q.phase(tail)
		turn := s.turn.LoadAcquire()

		if turn == 2*p+1 {
			if q.tail.CompareAndSwapAcqRel(tail, tail+1) {
				v := s.moveOut()
				s.turn.StoreRelease(2*p + 2)
				q.stats.recordPop(contended)
				return v.(T), true
			}
			contended = true
			backoff.Wait()
			tail = q.tail.LoadAcquire()
			continue
		}

		prev := tail
		tail = q.tail.LoadAcquire()
		if tail == prev {
			var zero T
			return zero, false
		}
	}
}

// Len returns the approximate number of elements currently in the queue.
// Under concurrency this can be negative (a consumer claimed a ticket
// whose slot isn't filled yet) or can overcount relative to Cap (a
// producer claimed a ticket but hasn't finished constructing). It is
// only authoritative once all producers and consumers have quiesced.
func (q *Queue[T]) Len() int64 {
	return int64(q.head.LoadRelaxed()) - int64(q.tail.LoadRelaxed())
}

// Empty reports whether Len() <= 0. Like Len, this is a best-effort
// observation under concurrency.
func (q *Queue[T]) Empty() bool {
	return q.Len() <= 0
}

// Cap returns the queue's fixed capacity, exactly as passed to New (not
// rounded to a power of two).
func (q *Queue[T]) Cap() int {
	return int(q.capacity)
}

// Close reclaims the queue's storage. Any slot holding a live value
// (odd turn) has Destroy invoked on its value first. Close is only
// well-defined once no goroutine holds a ticket against the queue. Calls
// after the first are no-ops. Close always returns nil.
func (q *Queue[T]) Close() error {
	q.closeOnce.Do(func() {
		q.closed = true
		for i := range q.ring[:q.capacity] {
			s := &q.ring[i]
			if s.turn.LoadAcquire()%2 == 1 {
				s.destroyResidual()
			}
		}
		size := sizeofSlot()
		const align = uintptr(cacheLineSize)
		q.allocator.Deallocate(ringPointer(q.ring), len(q.ring), size, align)
		q.ring = nil
	})
	return nil
}
