package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Emanem/ehmap/chm"
)

func identityHash(k int) uint32 { return uint32(k) }

func TestCollectorDescribe(t *testing.T) {
	m, err := chm.New[int, int](identityHash, chm.WithBuckets(8), chm.WithElems(16))
	if err != nil {
		t.Fatalf("chm.New: %v", err)
	}
	c := NewCollector(m)

	ch := make(chan *prometheus.Desc, 16)
	c.Describe(ch)
	close(ch)

	count := 0
	for range ch {
		count++
	}
	if count != 4 {
		t.Fatalf("Describe sent %d descs, want 4", count)
	}
}

func TestCollectorCollect(t *testing.T) {
	m, err := chm.New[int, int](identityHash, chm.WithBuckets(8), chm.WithElems(16))
	if err != nil {
		t.Fatalf("chm.New: %v", err)
	}
	for i := 0; i < 5; i++ {
		m.Insert(i, i)
	}
	c := NewCollector(m)

	ch := make(chan prometheus.Metric, 32)
	c.Collect(ch)
	close(ch)

	count := 0
	for range ch {
		count++
	}
	// 8 occupancy buckets + claimed pairs + unused pairs + primary bytes.
	want := 8 + 3
	if count != want {
		t.Fatalf("Collect sent %d metrics, want %d", count, want)
	}
}

// Collector must be registrable without panicking.
func TestCollectorRegister(t *testing.T) {
	m, err := chm.New[int, int](identityHash)
	if err != nil {
		t.Fatalf("chm.New: %v", err)
	}
	reg := prometheus.NewRegistry()
	if err := reg.Register(NewCollector(m)); err != nil {
		t.Fatalf("Register: %v", err)
	}
}
