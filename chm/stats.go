package chm

// Stats is a snapshot of a Map's occupancy. It is always internally
// consistent with itself (each field read once) but may be stale with
// respect to concurrent writers by the time the caller observes it.
type Stats struct {
	// ElsPerBucket[d] counts primary buckets whose head node has
	// exactly d occupied slots (0..7). Overflow chains are not
	// walked: this is a head-node-only occupancy histogram, not a
	// total element count.
	ElsPerBucket [8]uint64
	// ClaimedPairs is the number of slab slots ever claimed.
	ClaimedPairs uint64
	// UnusedPairs is the number of claimed slab slots that were
	// abandoned because a concurrent duplicate-key insert won.
	UnusedPairs uint64
}

func headOccupancy(n *bucketNode) int {
	count := 0
	for i := range n.entries {
		if slotWord(n.entries[i].Load()).empty() {
			break
		}
		count++
	}
	return count
}

// GetStats returns a point-in-time occupancy snapshot.
func (m *Map[K, V]) GetStats() Stats {
	var s Stats
	for i := range m.buckets {
		s.ElsPerBucket[headOccupancy(&m.buckets[i])]++
	}
	s.ClaimedPairs = m.sl.cur.Load()
	s.UnusedPairs = m.sl.unused.Load()
	return s
}
