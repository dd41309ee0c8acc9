package mpmcq

import "unsafe"

// Allocator is the pluggable storage collaborator for a Queue's ring.
//
// Allocate must return storage for n contiguous, cacheLineSize-sized,
// cacheLineSize-aligned slots, or a non-nil error. Go's runtime allocator
// gives no portable guarantee of alignment beyond a type's natural
// alignment, so New verifies the returned address and rejects
// insufficiently aligned storage with ErrMisaligned rather than risk
// false sharing or a misaligned atomic access.
//
// A custom Allocator that backs its return value with raw, untyped
// memory (e.g. a byte arena) is responsible for ensuring that memory is
// visible to the garbage collector if any Queue[T] built on it stores a
// pointer-bearing T: slot boxes its value behind any, and the collector
// only traces an any's pointer if the memory it lives in was originally
// obtained through a Go allocation of a pointer-shaped type. The default
// allocator satisfies this by allocating a typed []slot directly.
//
// Deallocate releases a block previously returned by Allocate. The
// default allocator's Deallocate is a no-op: Go's garbage collector
// reclaims the backing allocation once nothing references it, so there
// is nothing to explicitly free.
type Allocator interface {
	Allocate(n int, size, align uintptr) (unsafe.Pointer, error)
	Deallocate(ptr unsafe.Pointer, n int, size, align uintptr)
}

// defaultAllocator backs the ring with an ordinary typed []slot
// allocation. A ring of at most 512 bytes falls in a size class that is a
// multiple of cacheLineSize inside a page-aligned span, so it starts on a
// cache-line boundary. A larger pointer-bearing small object carries an
// 8-byte runtime header in front of its data, which breaks that
// alignment, so larger rings are allocated with at least 512 slots
// (32 KiB): the runtime hands such a request out as a page-aligned large
// object with no header. Allocating through make(), as
// opposed to reinterpreting a []byte arena, also keeps the value each
// slot boxes visible to the garbage collector — a []byte allocation is
// never scanned for pointers, regardless of how its memory is later
// reinterpreted.
type defaultAllocator struct{}

func (defaultAllocator) Allocate(n int, size, align uintptr) (unsafe.Pointer, error) {
	if n <= 0 {
		return nil, nil
	}
	m := n
	if uintptr(n)*unsafe.Sizeof(slot{}) > 512 {
		m = max(n, 512)
	}
	ring := make([]slot, m)
	return unsafe.Pointer(unsafe.SliceData(ring)), nil
}

func (defaultAllocator) Deallocate(ptr unsafe.Pointer, n int, size, align uintptr) {
	// No-op: the backing array is garbage collected once the ring slice
	// derived from ptr is no longer referenced.
}

// sizeofSlot and alignofSlot report slot's size and natural alignment.
// Both are effectively compile-time constants now that slot is padded to
// cacheLineSize via the fixed-size slotInternal trick (see slot.go), but
// are kept as functions rather than untyped constants so callers read
// uniformly whether or not the compiler happens to fold them.
func sizeofSlot() uintptr {
	return unsafe.Sizeof(slot{})
}

func alignofSlot() uintptr {
	return unsafe.Alignof(slot{})
}

// alignmentOf returns the largest power of two that divides ptr's
// address (0 for a nil pointer), i.e. the actual alignment the
// allocator delivered.
func alignmentOf(ptr unsafe.Pointer) uintptr {
	addr := uintptr(ptr)
	if addr == 0 {
		return 0
	}
	return addr & (-addr)
}

// ringFromPointer reinterprets a raw allocation as a []slot of length n.
func ringFromPointer(ptr unsafe.Pointer, n int) []slot {
	return unsafe.Slice((*slot)(ptr), n)
}

// ringPointer returns the address backing a ring slice, for handing back
// to Allocator.Deallocate.
func ringPointer(ring []slot) unsafe.Pointer {
	return unsafe.Pointer(unsafe.SliceData(ring))
}
