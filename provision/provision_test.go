package provision

import (
	"context"
	"testing"

	"github.com/Emanem/ehmap/chm"
	"github.com/Emanem/ehmap/errs"
)

func identityHash(k int) uint32 { return uint32(k) }

func TestConstructSucceeds(t *testing.T) {
	m, err := Construct[int, int](context.Background(), identityHash, chm.WithBuckets(8), chm.WithElems(16))
	if err != nil {
		t.Fatalf("Construct: %v", err)
	}
	if !m.Insert(1, 1) {
		t.Fatal("constructed map should accept inserts")
	}
}

func TestConstructNeverRetriesConfigError(t *testing.T) {
	_, err := Construct[int, int](context.Background(), identityHash, chm.WithBuckets(0))
	if err == nil {
		t.Fatal("Construct should surface a config error")
	}
	me, ok := err.(*errs.MapError)
	if !ok || me.Kind != errs.KindConfig {
		t.Fatalf("expected a KindConfig MapError, got %v", err)
	}
}

func TestFillConcurrently(t *testing.T) {
	m, err := chm.New[int, int](identityHash, chm.WithBuckets(8), chm.WithElems(64))
	if err != nil {
		t.Fatalf("chm.New: %v", err)
	}
	pairs := make([]KV[int, int], 50)
	for i := range pairs {
		pairs[i] = KV[int, int]{Key: i, Val: i * i}
	}

	count, err := FillConcurrently(context.Background(), m, pairs, 8)
	if err != nil {
		t.Fatalf("FillConcurrently: %v", err)
	}
	if count != len(pairs) {
		t.Fatalf("count = %d, want %d", count, len(pairs))
	}
	for _, p := range pairs {
		if v, ok := m.Find(p.Key); !ok || v != p.Val {
			t.Fatalf("Find(%d) = %d, %v; want %d, true", p.Key, v, ok, p.Val)
		}
	}
}

func TestFillConcurrentlyStopsAtCapacity(t *testing.T) {
	const cap = 10
	m, err := chm.New[int, int](identityHash, chm.WithBuckets(2), chm.WithElems(cap))
	if err != nil {
		t.Fatalf("chm.New: %v", err)
	}
	pairs := make([]KV[int, int], cap*2)
	for i := range pairs {
		pairs[i] = KV[int, int]{Key: i, Val: i}
	}

	count, err := FillConcurrently(context.Background(), m, pairs, 4)
	if err != nil {
		t.Fatalf("FillConcurrently: %v", err)
	}
	if count != cap {
		t.Fatalf("count = %d, want %d (capacity reached, not an error)", count, cap)
	}
}
