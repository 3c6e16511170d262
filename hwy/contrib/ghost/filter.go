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
	"errors"
	"fmt"
	"sync"

	"github.com/ajroetker/go-lghost/hwy"
	"github.com/ajroetker/go-lghost/hwy/contrib/image"
	"github.com/ajroetker/go-lghost/hwy/contrib/workerpool"
)

// Option configures New.
type Option func(*options)

type options struct {
	pool    *workerpool.Pool
	probe   func() hwy.DispatchLevel
	workers int
}

// WithPool makes ProcessFrames run on pool. Worker indices
// [0, pool.NumWorkers()) are reserved for the pool's workers.
func WithPool(pool *workerpool.Pool) Option {
	return func(o *options) {
		o.pool = pool
	}
}

// WithProbe replaces the CPU level query used to validate and auto-select
// the kernel width. It is called once, in New.
func WithProbe(probe func() hwy.DispatchLevel) Option {
	return func(o *options) {
		o.probe = probe
	}
}

// WithWorkers registers at least n scratch slots up front, for hosts that
// run their own workers and call Process with indices in [0, n).
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// Filter applies ghost reduction to frames of one clip format. A Filter is
// safe for concurrent use as long as every concurrent caller passes a
// distinct worker index.
type Filter[P image.Pixel] struct {
	format  image.Format
	width   int
	height  int
	catalog *Catalog
	variant Variant
	engine  frameEngine[P]
	pool    *workerpool.Pool

	// seqWorker is the slot used by ProcessFrames without a pool.
	seqMu     sync.Mutex
	seqWorker int
}

// frameEngine hides the accumulator type chosen for P.
type frameEngine[P image.Pixel] interface {
	process(worker int, dst, src *image.Frame[P]) error
	register() int
	workers() int
}

// New validates params for clips of the given format and size and builds
// the filter. Every error it returns matches ErrConfig.
//
// P must match the format: uint8 for 8-bit, uint16 for 9 to 16-bit integer
// samples, float32 for float samples.
func New[P image.Pixel](format image.Format, width, height int, params Params, opts ...Option) (*Filter[P], error) {
	o := options{probe: hwy.CurrentLevel}
	for _, opt := range opts {
		opt(&o)
	}
	if o.probe == nil {
		o.probe = hwy.CurrentLevel
	}

	if height <= 0 {
		return nil, configErrorf("height", -1, "must be positive, got %d", height)
	}
	catalog, err := BuildCatalog(format, width, params)
	if err != nil {
		return nil, err
	}

	level := o.probe()
	variant, err := SelectVariant(params.Opt, level)
	if err != nil {
		return nil, err
	}
	if params.Opt == Auto && variant == VariantScalar {
		Logger().Info("lghost: using scalar kernels", "level", level, "emulated", hwy.Emulated)
	}

	slots := o.workers
	if o.pool != nil {
		slots = max(slots, o.pool.NumWorkers())
	}
	maxWidth := 0
	for p := range format.NumPlanes() {
		maxWidth = max(maxWidth, format.PlaneWidth(p, width))
	}

	engine, err := newEngine[P](format, catalog, variant, slots, maxWidth)
	if err != nil {
		return nil, err
	}

	taps := 0
	for _, p := range catalog.SelectedPlanes() {
		taps += catalog.Plane(p).Len()
	}
	Logger().Debug("lghost: filter created",
		"format", format.String(),
		"width", width,
		"height", height,
		"planes", catalog.SelectedPlanes(),
		"taps", taps,
		"level", level,
		"variant", variant.String())

	return &Filter[P]{
		format:    format,
		width:     width,
		height:    height,
		catalog:   catalog,
		variant:   variant,
		engine:    engine,
		pool:      o.pool,
		seqWorker: -1,
	}, nil
}

func newEngine[P image.Pixel](format image.Format, catalog *Catalog, v Variant, slots, maxWidth int) (frameEngine[P], error) {
	var zero P
	var e any
	switch any(zero).(type) {
	case uint8:
		if format.SampleType == image.Integer && format.BytesPerSample() == 1 {
			e = &engine[uint8, int32]{catalog: catalog, kernel: NewIntKernel[uint8](v, int32(format.Peak())), scratch: NewArena[int32](slots, maxWidth)}
		}
	case uint16:
		if format.SampleType == image.Integer && format.BytesPerSample() == 2 {
			e = &engine[uint16, int32]{catalog: catalog, kernel: NewIntKernel[uint16](v, int32(format.Peak())), scratch: NewArena[int32](slots, maxWidth)}
		}
	case float32:
		if format.SampleType == image.Float {
			e = &engine[float32, float32]{catalog: catalog, kernel: NewFloatKernel(v), scratch: NewArena[float32](slots, maxWidth)}
		}
	}
	if e == nil {
		return nil, configErrorf("format", -1, "pixel type %T does not match %s", zero, format)
	}
	return e.(frameEngine[P]), nil
}

// Format returns the clip format the filter was built for.
func (f *Filter[P]) Format() image.Format {
	return f.format
}

// Variant returns the kernel width selected at construction.
func (f *Filter[P]) Variant() Variant {
	return f.variant
}

// Catalog returns the tap table.
func (f *Filter[P]) Catalog() *Catalog {
	return f.catalog
}

// NewWorker registers a scratch slot and returns its worker index.
func (f *Filter[P]) NewWorker() int {
	return f.engine.register()
}

// Workers returns the number of registered scratch slots.
func (f *Filter[P]) Workers() int {
	return f.engine.workers()
}

// Process filters src into a newly allocated frame using the scratch row
// of worker. On error no frame is returned.
func (f *Filter[P]) Process(worker int, src *image.Frame[P]) (*image.Frame[P], error) {
	if err := f.checkFrame(src); err != nil {
		return nil, err
	}
	dst := image.NewFrame[P](f.format, f.width, f.height)
	if err := f.engine.process(worker, dst, src); err != nil {
		return nil, err
	}
	return dst, nil
}

// ProcessInto filters src into dst. Unselected planes are copied. Errors
// are reported before dst is written.
func (f *Filter[P]) ProcessInto(worker int, dst, src *image.Frame[P]) error {
	if err := f.checkFrame(src); err != nil {
		return err
	}
	if err := f.checkFrame(dst); err != nil {
		return fmt.Errorf("destination: %w", err)
	}
	return f.engine.process(worker, dst, src)
}

// ProcessFrames filters frames concurrently on the filter's pool, or
// sequentially on a private worker slot when there is none. out[i] is nil
// when frames[i] failed; the returned error joins every per-frame failure.
func (f *Filter[P]) ProcessFrames(frames []*image.Frame[P]) ([]*image.Frame[P], error) {
	out := make([]*image.Frame[P], len(frames))
	errs := make([]error, len(frames))
	run := func(worker, i int) {
		var err error
		out[i], err = f.Process(worker, frames[i])
		if err != nil {
			errs[i] = fmt.Errorf("frame %d: %w", i, err)
		}
	}

	if f.pool != nil {
		if err := f.pool.ParallelForWorker(len(frames), run); err != nil {
			return nil, err
		}
		return out, errors.Join(errs...)
	}

	f.seqMu.Lock()
	defer f.seqMu.Unlock()
	if f.seqWorker < 0 {
		f.seqWorker = f.engine.register()
	}
	for i := range frames {
		run(f.seqWorker, i)
	}
	return out, errors.Join(errs...)
}

func (f *Filter[P]) checkFrame(fr *image.Frame[P]) error {
	if fr == nil {
		return fmt.Errorf("%w: nil frame", ErrFrameMismatch)
	}
	if fr.Format() != f.format || fr.Width() != f.width || fr.Height() != f.height {
		return fmt.Errorf("%w: got %s %dx%d, want %s %dx%d", ErrFrameMismatch,
			fr.Format(), fr.Width(), fr.Height(), f.format, f.width, f.height)
	}
	for p := range fr.NumPlanes() {
		if fr.Plane(p) == nil {
			return fmt.Errorf("%w: plane %d missing", ErrFrameMismatch, p)
		}
	}
	return nil
}

// engine runs one kernel over whole frames with scratch rows from an arena.
type engine[P image.Pixel, A Accum] struct {
	catalog *Catalog
	kernel  Kernel[P, A]
	scratch *Arena[A]
}

func (e *engine[P, A]) register() int {
	return e.scratch.Register()
}

func (e *engine[P, A]) workers() int {
	return e.scratch.Workers()
}

func (e *engine[P, A]) process(worker int, dst, src *image.Frame[P]) error {
	row, err := e.scratch.Acquire(worker)
	if err != nil {
		return err
	}

	for p := range src.NumPlanes() {
		s, d := src.Plane(p), dst.Plane(p)
		if !e.catalog.Process(p) {
			d.CopyFrom(s)
			continue
		}

		taps := e.catalog.Plane(p)
		acc := row[:s.Width()]
		for y := range s.Height() {
			srcRow, dstRow := s.RowSlice(y), d.RowSlice(y)
			clear(acc)
			e.kernel.Accumulate(acc, srcRow, taps)
			e.kernel.Composite(dstRow, srcRow, acc)
		}
	}
	return nil
}
