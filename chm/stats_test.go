package chm

import (
	"testing"

	"github.com/Emanem/ehmap/test"
)

func TestGetStatsEmptyMap(t *testing.T) {
	m, err := New[int, int](newIntHasher(), WithBuckets(8), WithElems(16))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got := m.GetStats()
	want := Stats{ElsPerBucket: [8]uint64{8, 0, 0, 0, 0, 0, 0, 0}}
	if !test.DeepEqual(got, want) {
		t.Errorf("GetStats() mismatch:\n%s", test.Diff(want, got))
	}
}

func TestGetStatsHeadOccupancyHistogram(t *testing.T) {
	// Two buckets, one left untouched and one filled to exactly 3
	// head-node slots, never spilling into overflow.
	m, err := New[int, int](constHasher(0), WithBuckets(2), WithElems(8))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	for i := 0; i < 3; i++ {
		if !m.Insert(i, i) {
			t.Fatalf("Insert(%d) should succeed", i)
		}
	}
	got := m.GetStats()
	want := Stats{ElsPerBucket: [8]uint64{1, 0, 0, 1, 0, 0, 0, 0}, ClaimedPairs: 3}
	if !test.DeepEqual(got, want) {
		t.Errorf("GetStats() mismatch:\n%s", test.Diff(want, got))
	}
}

func TestFindPanicsWithNilHasher(t *testing.T) {
	m, err := New[int, int](nil, WithBuckets(4), WithElems(4))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	test.ShouldPanic(t, func() {
		m.Find(1)
	})
}
