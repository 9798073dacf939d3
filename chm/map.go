// Package chm implements a lock-free, embeddable, fixed-capacity
// concurrent hash map. Readers and writers never take a mutex: every
// mutating path is a bounded or unbounded compare-and-swap retry loop
// over a preallocated bucket array and key/value slab. Capacity is
// fixed at construction; there is no resizing and no deletion.
package chm

import (
	"fmt"
	"unsafe"

	"github.com/Emanem/ehmap/errs"
)

func init() {
	if unsafe.Sizeof(bucketNode{}) != 64 {
		panic(fmt.Sprintf("chm: bucketNode is %d bytes, want 64", unsafe.Sizeof(bucketNode{})))
	}
	var w slotWord
	if unsafe.Sizeof(w) != 8 {
		panic(fmt.Sprintf("chm: slotWord is %d bytes, want 8", unsafe.Sizeof(w)))
	}
}

// Hasher computes a hash for a key. Only the low 31 bits are
// significant to Map: the high bit is always set when the hash is
// tagged, so two hashes that differ only in that bit are treated as
// equal. A hasher that always returns 0 is valid but degenerates every
// key into one bucket chain.
type Hasher[K any] func(K) uint32

// Map is a lock-free, fixed-capacity concurrent hash map keyed by K
// with values of type V. The zero value is not usable; construct one
// with New.
type Map[K comparable, V any] struct {
	hash    Hasher[K]
	buckets []bucketNode
	sl      *slab[K, V]
	pool    *overflowPool
	log     errLogger
}

// errLogger is the subset of logger.Logger that chm actually calls,
// declared locally so map.go doesn't need to import the logger
// package just to spell the field type; config.go bridges the two.
type errLogger interface {
	Errorf(format string, args ...interface{})
}

// New constructs a Map with nbuckets primary buckets (1024 by
// default) and a slab sized per WithElems (8*nbuckets by default).
// hash must be non-nil. New returns a *errs.MapError with
// errs.KindConfig if buckets or elems would be zero, and a
// *errs.MapError with errs.KindAllocation if the underlying
// allocation panics (extreme memory pressure).
func New[K comparable, V any](hash Hasher[K], opts ...Option) (m *Map[K, V], err error) {
	cfg := newConfig(opts)
	if cfg.buckets == 0 {
		return nil, errs.NewConfigError("New", "buckets must be non-zero")
	}
	if cfg.elems == 0 {
		return nil, errs.NewConfigError("New", "elems must be non-zero")
	}

	defer func() {
		if r := recover(); r != nil {
			m, err = nil, errs.NewAllocationError("New", r)
		}
	}()

	return &Map[K, V]{
		hash:    hash,
		buckets: make([]bucketNode, cfg.buckets),
		sl:      newSlab[K, V](cfg.elems),
		pool:    newOverflowPool(cfg.overflowBlockSize),
		log:     cfg.log,
	}, nil
}

func (m *Map[K, V]) bucketFor(taggedHash uint32) *bucketNode {
	return &m.buckets[uint(taggedHash)%uint(len(m.buckets))]
}

// Find returns the value stored for k, if any.
func (m *Map[K, V]) Find(k K) (V, bool) {
	th := tagHash(m.hash(k))
	return findInChain(m.bucketFor(th), th, k, m.sl)
}

// Insert stores k/v if k is not already present and the slab has
// room. It returns true iff this call performed the publishing CAS;
// a false return means either the key was already present or the map
// is at capacity, and does not distinguish the two (matching
// Find/Insert's lock-free, racy-by-design semantics).
func (m *Map[K, V]) Insert(k K, v V) bool {
	th := tagHash(m.hash(k))
	return insertOnceInChain(m.bucketFor(th), th, k, v, m.sl, m.allocOverflow)
}

func (m *Map[K, V]) allocOverflow() (node *bucketNode) {
	defer func() {
		if r := recover(); r != nil {
			node = nil
			if m.log != nil {
				m.log.Errorf("chm: overflow allocation failed: %v", r)
			}
		}
	}()
	return m.pool.getEntry()
}

// MemSize returns the map's primary storage footprint in bytes: the
// Map header, the bucket array, and the slab. It is constant across
// the map's lifetime; overflow blocks are excluded, since they are
// allocated on demand and are not part of the map's fixed primary
// footprint.
func (m *Map[K, V]) MemSize() uintptr {
	return unsafe.Sizeof(*m) +
		uintptr(len(m.buckets))*unsafe.Sizeof(bucketNode{}) +
		unsafe.Sizeof(*m.sl) +
		uintptr(len(m.sl.pairs))*unsafe.Sizeof(pair[K, V]{})
}
