package history

import (
	"sync"
	"testing"
	"time"

	"github.com/HatiCode/edgegate/pkg/predict"
)

func rec(id int64) Record {
	return Record{
		ID:         id,
		Sample:     "frame",
		Prediction: predict.Prediction{Label: int(id % 3), Score: 0.5},
		Timestamp:  time.Unix(0, 0).UTC(),
	}
}

func TestNew_InvalidCapacity(t *testing.T) {
	for _, c := range []int{0, -1} {
		if _, err := New(c); err == nil {
			t.Errorf("New(%d) error = nil, want error", c)
		}
	}
}

func TestRing_Empty(t *testing.T) {
	r, err := New(DefaultCapacity)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	snap := r.Snapshot()
	if snap == nil {
		t.Fatal("Snapshot() = nil, want empty slice")
	}
	if len(snap) != 0 {
		t.Errorf("len(Snapshot()) = %d, want 0", len(snap))
	}
	if r.Cap() != DefaultCapacity {
		t.Errorf("Cap() = %d, want %d", r.Cap(), DefaultCapacity)
	}
}

func TestRing_NewestFirst(t *testing.T) {
	r, _ := New(5)
	for i := int64(1); i <= 3; i++ {
		if evicted := r.Push(rec(i)); evicted != 0 {
			t.Errorf("Push(%d) evicted = %d, want 0", i, evicted)
		}
	}

	snap := r.Snapshot()
	want := []int64{3, 2, 1}
	if len(snap) != len(want) {
		t.Fatalf("len(Snapshot()) = %d, want %d", len(snap), len(want))
	}
	for i, id := range want {
		if snap[i].ID != id {
			t.Errorf("Snapshot()[%d].ID = %d, want %d", i, snap[i].ID, id)
		}
	}
}

func TestRing_EvictsOldest(t *testing.T) {
	tests := []struct {
		name   string
		pushes int
	}{
		{"exactly full", 10},
		{"one over", 11},
		{"wraps twice", 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _ := New(10)
			evictions := 0
			for i := 1; i <= tt.pushes; i++ {
				evictions += r.Push(rec(int64(i)))
			}

			wantLen := min(tt.pushes, 10)
			if r.Len() != wantLen {
				t.Fatalf("Len() = %d, want %d", r.Len(), wantLen)
			}
			if evictions != tt.pushes-wantLen {
				t.Errorf("evictions = %d, want %d", evictions, tt.pushes-wantLen)
			}

			snap := r.Snapshot()
			for i := range snap {
				want := int64(tt.pushes - i)
				if snap[i].ID != want {
					t.Errorf("Snapshot()[%d].ID = %d, want %d", i, snap[i].ID, want)
				}
			}
		})
	}
}

func TestRing_SnapshotIsCopy(t *testing.T) {
	r, _ := New(3)
	r.Push(rec(1))

	snap := r.Snapshot()
	snap[0].Sample = "mutated"

	if got := r.Snapshot()[0].Sample; got != "frame" {
		t.Errorf("stored Sample = %q, want %q", got, "frame")
	}
}

func TestRing_ConcurrentPush(t *testing.T) {
	const writers = 50
	r, _ := New(10)

	var wg sync.WaitGroup
	for i := 1; i <= writers; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			r.Push(rec(id))
			_ = r.Snapshot()
		}(int64(i))
	}
	wg.Wait()

	snap := r.Snapshot()
	if len(snap) != 10 {
		t.Fatalf("len(Snapshot()) = %d, want 10", len(snap))
	}

	seen := make(map[int64]bool)
	for _, s := range snap {
		if s.ID < 1 || s.ID > writers {
			t.Errorf("unexpected id %d", s.ID)
		}
		if seen[s.ID] {
			t.Errorf("duplicate id %d", s.ID)
		}
		seen[s.ID] = true
	}
}
