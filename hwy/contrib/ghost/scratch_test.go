package ghost

import (
	"errors"
	"sync"
	"testing"

	"github.com/ajroetker/go-lghost/hwy"
)

func TestArena_LazyAllocation(t *testing.T) {
	a := NewArena[int32](3, 100)
	if a.Workers() != 3 {
		t.Fatalf("Workers() = %d, want 3", a.Workers())
	}
	if a.Allocated() != 0 {
		t.Fatalf("Allocated() = %d before any Acquire", a.Allocated())
	}
	if a.Cells() < 100+hwy.MaxLanesFor[int32](hwy.FixedTag512{}) {
		t.Errorf("Cells() = %d, too small for padded row", a.Cells())
	}

	row, err := a.Acquire(1)
	if err != nil {
		t.Fatalf("Acquire(1): %v", err)
	}
	if len(row) != a.Cells() {
		t.Errorf("len(row) = %d, want %d", len(row), a.Cells())
	}
	if a.Allocated() != 1 {
		t.Errorf("Allocated() = %d, want 1", a.Allocated())
	}

	row[0] = 42
	again, err := a.Acquire(1)
	if err != nil {
		t.Fatalf("second Acquire(1): %v", err)
	}
	if &again[0] != &row[0] {
		t.Error("Acquire returned a different row for the same worker")
	}
	other, _ := a.Acquire(0)
	if &other[0] == &row[0] {
		t.Error("workers share a scratch row")
	}
}

func TestArena_Register(t *testing.T) {
	a := NewArena[float32](2, 8)
	a.Grow(1)
	if a.Workers() != 2 {
		t.Errorf("Grow(1) shrank the arena to %d", a.Workers())
	}
	if w := a.Register(); w != 2 {
		t.Errorf("Register() = %d, want 2", w)
	}
	a.Grow(5)
	if a.Workers() != 5 {
		t.Errorf("Workers() = %d, want 5", a.Workers())
	}
	if _, err := a.Acquire(4); err != nil {
		t.Errorf("Acquire(4): %v", err)
	}
}

func TestArena_InvalidWorker(t *testing.T) {
	a := NewArena[int32](2, 8)
	for _, w := range []int{-1, 2, 100} {
		_, err := a.Acquire(w)
		if !errors.Is(err, ErrResource) {
			t.Errorf("Acquire(%d) error = %v, want ErrResource", w, err)
		}
		var re *ResourceError
		if errors.As(err, &re) && re.Worker != w {
			t.Errorf("ResourceError.Worker = %d, want %d", re.Worker, w)
		}
	}
}

func TestArena_AllocationLimit(t *testing.T) {
	a := NewArena[int32](2, 64)
	if _, err := a.Acquire(0); err != nil {
		t.Fatalf("Acquire(0): %v", err)
	}
	a.limit = 1
	if _, err := a.Acquire(1); !errors.Is(err, ErrResource) {
		t.Errorf("Acquire(1) over limit error = %v, want ErrResource", err)
	}
	// Rows allocated before the failure stay usable.
	if _, err := a.Acquire(0); err != nil {
		t.Errorf("Acquire(0) after failure: %v", err)
	}
	if a.Allocated() != 1 {
		t.Errorf("Allocated() = %d, want 1", a.Allocated())
	}
}

func TestArena_ConcurrentAcquire(t *testing.T) {
	const workers = 8
	a := NewArena[int32](workers, 256)
	rows := make([][]int32, workers)
	var wg sync.WaitGroup
	for w := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			row, err := a.Acquire(w)
			if err != nil {
				t.Errorf("Acquire(%d): %v", w, err)
				return
			}
			for i := range row {
				row[i] = int32(w)
			}
			rows[w] = row
		}()
	}
	wg.Wait()
	for w, row := range rows {
		for i, v := range row {
			if v != int32(w) {
				t.Fatalf("worker %d row[%d] = %d", w, i, v)
			}
		}
	}
}
