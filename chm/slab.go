package chm

import "sync/atomic"

// pair is one key/value slot in a slab. Claimed pairs are written
// once, before the slab index that names them is published into a
// bucket node; abandoned pairs are zeroed so they don't keep a stale
// key/value pair reachable from the GC's perspective.
type pair[K comparable, V any] struct {
	key K
	val V
}

// slab is the preallocated key/value storage backing a Map. cur is a
// monotonic cursor: it never decreases and never exceeds len(pairs).
// unused counts pairs that were claimed (cur advanced past them) but
// then abandoned because the bucket-chain insert that claimed them
// lost the race to a concurrent duplicate-key insert.
type slab[K comparable, V any] struct {
	cur    atomic.Uint64
	unused atomic.Uint64
	pairs  []pair[K, V]
}

func newSlab[K comparable, V any](n uint32) *slab[K, V] {
	return &slab[K, V]{pairs: make([]pair[K, V], n)}
}

// insertKV claims the next free slot in the slab, writes k/v into it,
// and returns its index. The second return is false if the slab is
// full.
func (s *slab[K, V]) insertKV(k K, v V) (uint32, bool) {
	for {
		cur := s.cur.Load()
		if cur >= uint64(len(s.pairs)) {
			return 0, false
		}
		if s.cur.CompareAndSwap(cur, cur+1) {
			s.pairs[cur] = pair[K, V]{key: k, val: v}
			return uint32(cur), true
		}
	}
}

// abandon zeroes a claimed-but-unused pair and counts it, matching
// the original's "slab full, minus abandoned" accounting.
func (s *slab[K, V]) abandon(idx uint32) {
	s.pairs[idx] = pair[K, V]{}
	s.unused.Add(1)
}

func (s *slab[K, V]) at(idx uint32) *pair[K, V] {
	return &s.pairs[idx]
}
