// Copyright 2025 go-lghost Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ghost

import (
	"sync"
	"sync/atomic"

	"github.com/ajroetker/go-lghost/hwy"
)

// Accum is the accumulator cell type: int32 for integer samples, float32
// for float samples.
type Accum interface {
	~int32 | ~float32
}

// MaxScratchCells bounds a single scratch row. Rows larger than this fail
// with a ResourceError instead of being allocated.
const MaxScratchCells = 1 << 26

// Arena is an explicit worker-indexed set of scratch rows. Each slot belongs
// to one worker for the lifetime of the arena; its row is allocated on the
// worker's first Acquire and reused for every row that worker processes.
// Slots are only ever added.
type Arena[A Accum] struct {
	cells int
	limit int

	mu    sync.RWMutex
	slots []*arenaSlot[A]
}

type arenaSlot[A Accum] struct {
	row atomic.Pointer[[]A]
}

// NewArena creates an arena with workers slots whose rows can hold maxWidth
// columns. Rows are padded to the widest vector plus one extra vector.
func NewArena[A Accum](workers, maxWidth int) *Arena[A] {
	tag := hwy.FixedTag512{}
	a := &Arena[A]{
		cells: hwy.AlignedSize[A](tag, maxWidth) + hwy.MaxLanesFor[A](tag),
		limit: MaxScratchCells,
	}
	a.Grow(workers)
	return a
}

// Cells returns the length of every scratch row.
func (a *Arena[A]) Cells() int {
	return a.cells
}

// Workers returns the number of slots.
func (a *Arena[A]) Workers() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.slots)
}

// Grow adds slots until there are at least n.
func (a *Arena[A]) Grow(n int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for len(a.slots) < n {
		a.slots = append(a.slots, &arenaSlot[A]{})
	}
}

// Register adds one slot and returns its worker index.
func (a *Arena[A]) Register() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.slots = append(a.slots, &arenaSlot[A]{})
	return len(a.slots) - 1
}

// Allocated returns how many slots have a row.
func (a *Arena[A]) Allocated() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	n := 0
	for _, s := range a.slots {
		if s.row.Load() != nil {
			n++
		}
	}
	return n
}

// Acquire returns the scratch row of worker, allocating it on first use.
// Only the owning worker may call Acquire for its index, and the returned
// row must not be shared.
func (a *Arena[A]) Acquire(worker int) ([]A, error) {
	a.mu.RLock()
	var s *arenaSlot[A]
	if worker >= 0 && worker < len(a.slots) {
		s = a.slots[worker]
	}
	a.mu.RUnlock()

	if s == nil {
		return nil, &ResourceError{Worker: worker, Reason: "no scratch slot registered for worker"}
	}
	if row := s.row.Load(); row != nil {
		return *row, nil
	}
	if a.cells > a.limit {
		return nil, &ResourceError{Worker: worker, Reason: "scratch row allocation failure"}
	}

	row := make([]A, a.cells)
	s.row.Store(&row)
	Logger().Debug("lghost: scratch row allocated", "worker", worker, "cells", a.cells)
	return row, nil
}
