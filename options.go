package mpmcq

import "code.hybscloud.com/atomix"

// Option configures a Queue at construction time. Options are applied in
// order; later options override earlier ones for the same setting.
type Option func(*config)

type config struct {
	allocator Allocator
	stats     *Stats
}

// WithAllocator overrides the default cache-line-aligning allocator used
// to obtain the ring's backing storage. Custom allocators are useful for
// arena/slab reuse, for testing allocation-failure paths, or for pinning
// the ring to NUMA-local memory.
func WithAllocator(a Allocator) Option {
	return func(c *config) {
		c.allocator = a
	}
}

// WithStats attaches an optional observability collaborator. When set,
// Push/TryPush/Pop/TryPop bump its counters. Stats is plain atomics with
// no I/O, so attaching one does not change the queue's lock-free
// guarantees.
func WithStats(s *Stats) Option {
	return func(c *config) {
		c.stats = s
	}
}

// Stats holds optional, zero-overhead-when-unused queue counters,
// following the same pluggable-observability shape as the wider pack's
// pool/worker stats types.
type Stats struct {
	_             [cacheLineSize]byte
	Pushed        atomix.Uint64
	_             [cacheLineSize - 8]byte
	Popped        atomix.Uint64
	_             [cacheLineSize - 8]byte
	PushContended atomix.Uint64
	_             [cacheLineSize - 8]byte
	PopContended  atomix.Uint64
}

func (s *Stats) recordPush(contended bool) {
	if s == nil {
		return
	}
	s.Pushed.AddAcqRel(1)
	if contended {
		s.PushContended.AddAcqRel(1)
	}
}

func (s *Stats) recordPop(contended bool) {
	if s == nil {
		return
	}
	s.Popped.AddAcqRel(1)
	if contended {
		s.PopContended.AddAcqRel(1)
	}
}
