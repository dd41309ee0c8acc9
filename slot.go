package mpmcq

import (
	"unsafe"

	"code.hybscloud.com/atomix"
)

// cacheLineSize is the cache-line size hint used for padding. Go has no
// portable equivalent of std::hardware_destructive_interference_size; 64
// is the same fallback the C++ original and every cache-padding type in
// the wider ecosystem (lfq.pad, xsync.cacheLineSize) hard-codes.
const cacheLineSize = 64

// Destroyer is implemented by element types that hold resources which
// must be released exactly once. Go assignment copies by value, so a
// value returned by Pop/TryPop and the slot's now-stale copy are the
// same bits — calling Destroy on both would release a shared resource
// twice. This package therefore only invokes Destroy on a slot's value
// when that value is abandoned by Close without ever having been handed
// to a caller; a value a caller received from Pop/TryPop is that
// caller's to destroy, mirroring the ownership-transfer contract the
// teacher module documents for its pointer-passing queue variants.
//
// Types that don't implement Destroyer incur no extra cost: the slot's
// storage is still zeroed on the way out so the garbage collector can
// reclaim anything the value referenced.
type Destroyer interface {
	Destroy()
}

// slotInternal is the fixed-size portion of slot: a turn counter plus the
// value, boxed behind any. unsafe.Sizeof(T) is not a Go constant for a
// generic type parameter, which makes it impossible to pad slot[T] to an
// exact multiple of the cache line directly for arbitrary T. Storing the
// value behind any sidesteps the problem the same way
// other_examples/puzpuzpuz-xsync__mpmcqueue.go's slotInternal{turn
// uint64; item interface{}} does: any has a fixed, known size regardless
// of the concrete type boxed inside it, so unsafe.Sizeof(slotInternal{})
// is an ordinary compile-time constant and slot can be padded to exactly
// one cache line for every T.
type slotInternal struct {
	turn  atomix.Uint64
	value any
}

// slot is one cell of the ring, padded so every instance occupies
// exactly one cache line (cacheLineSize bytes): the turn counter and the
// boxed value both live on that line, and the trailing pad keeps the
// next slot from starting partway through it. Consecutive slots
// therefore never false-share, regardless of what T a given Queue[T]
// stores.
//
//	turn == 2p   -> empty, ready for producer of phase p
//	turn == 2p+1 -> full, ready for consumer of phase p
type slot struct {
	slotInternal
	_ [cacheLineSize - unsafe.Sizeof(slotInternal{})]byte
}

// construct boxes v into the slot. Precondition: turn is even (empty).
func (s *slot) construct(v any) {
	s.value = v
}

// moveOut reads the boxed value out and clears the slot's copy (without
// invoking Destroyer: ownership of the value transfers to the caller),
// leaving the slot's value field nil so the garbage collector can
// reclaim anything only the slot referenced. Precondition: turn is odd
// (full).
func (s *slot) moveOut() any {
	v := s.value
	s.value = nil
	return v
}

// destroyResidual invokes Destroy() on the boxed value if it implements
// Destroyer, then clears the slot. Used only by Close to reclaim values
// that were never handed to a caller via Pop/TryPop.
func (s *slot) destroyResidual() {
	if d, ok := s.value.(Destroyer); ok {
		d.Destroy()
	}
	s.value = nil
}
