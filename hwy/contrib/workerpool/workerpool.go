// Copyright 2025 The go-lghost Authors. SPDX-License-Identifier: Apache-2.0

// Package workerpool runs batches of work on a fixed set of long-lived
// goroutines, so per-frame processing does not spawn goroutines.
//
// Every worker has a stable index in [0, NumWorkers). ParallelForWorker hands
// that index to the work it runs, and a worker runs one item at a time, so
// the index can select state that must never be shared between concurrent
// tasks, such as scratch rows.
//
// Usage:
//
//	pool := workerpool.New(runtime.GOMAXPROCS(0))
//	defer pool.Close()
//
//	scratch := make([][]int32, pool.NumWorkers())
//	err := pool.ParallelForWorker(len(frames), func(worker, i int) {
//	    process(frames[i], scratch[worker])
//	})
package workerpool

import (
	"errors"
	"runtime"
	"sync"
	"sync/atomic"
)

// ErrClosed is returned when work that requires worker identity is
// submitted to a closed pool.
var ErrClosed = errors.New("workerpool: pool is closed")

// Pool owns NumWorkers goroutines that live until Close.
type Pool struct {
	size  int
	queue chan task

	once   sync.Once
	closed atomic.Bool
}

// task is one unit handed to a worker; done is signalled when it returns.
type task struct {
	run  func(worker int)
	done *sync.WaitGroup
}

// New starts a pool of n workers, or GOMAXPROCS workers when n <= 0.
func New(n int) *Pool {
	if n <= 0 {
		n = runtime.GOMAXPROCS(0)
	}
	p := &Pool{
		size:  n,
		queue: make(chan task, 2*n),
	}
	for id := range n {
		go p.loop(id)
	}
	return p
}

func (p *Pool) loop(id int) {
	for t := range p.queue {
		t.run(id)
		t.done.Done()
	}
}

// NumWorkers returns the pool size.
func (p *Pool) NumWorkers() int {
	return p.size
}

// Closed reports whether Close has been called.
func (p *Pool) Closed() bool {
	return p.closed.Load()
}

// Close stops the workers after queued tasks finish. It is idempotent and
// must not race with submissions.
func (p *Pool) Close() {
	p.once.Do(func() {
		p.closed.Store(true)
		close(p.queue)
	})
}

// submit queues k copies of run and waits for all of them.
func (p *Pool) submit(k int, run func(worker, part int)) {
	var wg sync.WaitGroup
	wg.Add(k)
	for part := range k {
		p.queue <- task{run: func(worker int) { run(worker, part) }, done: &wg}
	}
	wg.Wait()
}

// ParallelFor splits [0, n) into at most NumWorkers contiguous chunks and
// calls fn(start, end) once per chunk. It returns when every chunk is done.
// A single chunk, or a closed pool, runs on the calling goroutine.
func (p *Pool) ParallelFor(n int, fn func(start, end int)) {
	if n <= 0 {
		return
	}
	parts := min(p.size, n)
	if parts == 1 || p.closed.Load() {
		fn(0, n)
		return
	}

	chunk := (n + parts - 1) / parts
	parts = (n + chunk - 1) / chunk
	p.submit(parts, func(_, part int) {
		start := part * chunk
		fn(start, min(start+chunk, n))
	})
}

// ParallelForWorker calls fn(worker, i) for every i in [0, n). Indices are
// claimed one at a time from a shared counter, and fn always runs on a pool
// goroutine, so two concurrent calls of fn never share a worker index.
// It returns when all indices are done, or ErrClosed without running
// anything.
func (p *Pool) ParallelForWorker(n int, fn func(worker, i int)) error {
	if n <= 0 {
		return nil
	}
	if p.closed.Load() {
		return ErrClosed
	}

	var next atomic.Int64
	p.submit(min(p.size, n), func(worker, _ int) {
		for {
			i := int(next.Add(1) - 1)
			if i >= n {
				return
			}
			fn(worker, i)
		}
	})
	return nil
}
