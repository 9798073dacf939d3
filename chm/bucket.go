package chm

import "sync/atomic"

// bucketsPerNode is the fixed fan-out of a single bucket node before
// it must chain to an overflow node.
const bucketsPerNode = 7

// bucketNode is 64 bytes: 7 packed slot words plus a pointer to the
// next node in the chain. It carries no key/value data and needs no
// type parameters; entries name a slab index, and the slab (which is
// generic) owns the actual key/value storage.
type bucketNode struct {
	entries [bucketsPerNode]atomic.Uint64
	next    atomic.Pointer[bucketNode]
}

// findInChain walks a bucket chain looking for taggedHash/key. It
// never allocates and never blocks.
func findInChain[K comparable, V any](head *bucketNode, taggedHash uint32, key K, sl *slab[K, V]) (V, bool) {
	for node := head; node != nil; node = node.next.Load() {
		for i := range node.entries {
			w := slotWord(node.entries[i].Load())
			if w.empty() {
				// Slots are filled left-to-right within a node and
				// never vacated, so an empty slot ends the search on
				// this node; the chain may still continue.
				break
			}
			if w.hash() != taggedHash {
				continue
			}
			p := sl.at(w.index())
			if p.key == key {
				return p.val, true
			}
		}
	}
	var zero V
	return zero, false
}

// insertOnceInChain implements first-write-wins insertion starting at
// head. alloc is called to produce a fresh overflow node each time the
// walk reaches a full node with no successor (more than once per call
// if concurrent writers fill the new nodes first); it may return nil
// to signal that overflow allocation failed, in which case the insert
// fails.
func insertOnceInChain[K comparable, V any](head *bucketNode, taggedHash uint32, key K, val V, sl *slab[K, V], alloc func() *bucketNode) bool {
	var (
		claimed     uint32
		haveClaim   bool
		claimedWord slotWord
	)
	defer func() {
		if haveClaim {
			sl.abandon(claimed)
		}
	}()

	node := head
	for {
	scan:
		for i := range node.entries {
			w := slotWord(node.entries[i].Load())
			if w.empty() {
				if !haveClaim {
					idx, ok := sl.insertKV(key, val)
					if !ok {
						return false
					}
					claimed = idx
					haveClaim = true
					claimedWord = packSlot(taggedHash, idx)
				}
				if node.entries[i].CompareAndSwap(0, uint64(claimedWord)) {
					haveClaim = false
					return true
				}
				// Lost the CAS: another writer claimed this slot
				// first. Restart the scan of this same node from the
				// beginning, since earlier slots may now be occupied
				// by a duplicate key.
				goto scan
			}
			if w.hash() == taggedHash {
				p := sl.at(w.index())
				if p.key == key {
					return false
				}
			}
		}

		next := node.next.Load()
		if next == nil {
			fresh := alloc()
			if fresh == nil {
				return false
			}
			if node.next.CompareAndSwap(nil, fresh) {
				next = fresh
			} else {
				// Another writer linked a node first; ours is
				// abandoned here and reclaimed by the GC once
				// nothing references it.
				next = node.next.Load()
			}
		}
		node = next
	}
}
