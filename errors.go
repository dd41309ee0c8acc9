package mpmcq

import (
	"errors"
	"fmt"
)

// ErrInvalidCapacity is returned by New when capacity < 1.
var ErrInvalidCapacity = errors.New("mpmcq: capacity must be >= 1")

// ErrAllocation is returned by New when the configured Allocator could not
// produce storage for the ring.
var ErrAllocation = errors.New("mpmcq: allocator failed to produce storage")

// ErrMisaligned is returned by New when the configured Allocator returned
// storage that is not aligned to the slot's required alignment. Allocators
// are not obliged to honor over-aligned requests; this package detects the
// mismatch rather than risk false sharing or a misaligned atomic access.
var ErrMisaligned = errors.New("mpmcq: allocator returned misaligned storage")

func invalidCapacityError(capacity int) error {
	return fmt.Errorf("%w: got %d", ErrInvalidCapacity, capacity)
}

func allocationError(cause error) error {
	return fmt.Errorf("%w: %v", ErrAllocation, cause)
}

func misalignedError(align, got uintptr) error {
	return fmt.Errorf("%w: want alignment %d, got address aligned to %d", ErrMisaligned, align, got)
}
