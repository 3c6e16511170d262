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
	"github.com/ajroetker/go-lghost/hwy"
	"github.com/ajroetker/go-lghost/hwy/contrib/image"
)

// The span functions apply one tap to columns [from, to) of acc. They are
// the scalar reference and also finish the tail of the lane kernels.
//
// Float products are converted explicitly so they are rounded before the
// add and never fused, which keeps every kernel on the same roundings.

func spanRiseFall[P image.Pixel, A Accum](acc []A, src []P, t Tap, from, to int) {
	w := A(t.Intensity)
	for x := from; x < to; x++ {
		i := x - t.Shift
		acc[x] += A((A(src[i+1]) - A(src[i])) * w)
	}
}

func spanLevel[P image.Pixel, A Accum](acc []A, src []P, t Tap, from, to int) {
	w := A(t.Intensity)
	for x := from; x < to; x++ {
		acc[x] += A(A(src[x-t.Shift]) * w)
	}
}

func spanRiseOnly[P image.Pixel, A Accum](acc []A, src []P, t Tap, from, to int) {
	w := A(t.Intensity)
	for x := from; x < to; x++ {
		i := x - t.Shift
		if edge := A(src[i+1]) - A(src[i]); edge > 0 {
			acc[x] += A(edge * w)
		}
	}
}

func spanFallOnly[P image.Pixel, A Accum](acc []A, src []P, t Tap, from, to int) {
	w := A(t.Intensity)
	for x := from; x < to; x++ {
		i := x - t.Shift
		if edge := A(src[i+1]) - A(src[i]); edge < 0 {
			acc[x] += A(edge * w)
		}
	}
}

// BaseAccumulate adds the contribution of every tap to acc, which must be
// zeroed and at least as long as src.
func BaseAccumulate[P image.Pixel, A Accum](acc []A, src []P, taps *PlaneTaps) {
	for _, t := range taps.Taps(RiseFall) {
		spanRiseFall(acc, src, t, t.StartX, t.EndX)
	}
	for _, t := range taps.Taps(Level) {
		spanLevel(acc, src, t, t.StartX, t.EndX)
	}
	for _, t := range taps.Taps(RiseOnly) {
		spanRiseOnly(acc, src, t, t.StartX, t.EndX)
	}
	for _, t := range taps.Taps(FallOnly) {
		spanFallOnly(acc, src, t, t.StartX, t.EndX)
	}
}

// LanesAccumulate is BaseAccumulate processed in groups of
// hwy.MaxLanesFor[A](tag) columns. A group is only taken while it ends
// inside [StartX, EndX), so every load stays inside src; the remaining
// columns go through the scalar span.
func LanesAccumulate[P image.Pixel, A Accum](tag hwy.Tag, acc []A, src []P, taps *PlaneTaps) {
	lanes := hwy.MaxLanesFor[A](tag)
	zero := hwy.Zero[A](tag)

	for _, t := range taps.Taps(RiseFall) {
		w := hwy.Set(tag, A(t.Intensity))
		x := t.StartX
		for ; x+lanes <= t.EndX; x += lanes {
			edge := loadEdge[P, A](tag, src, x-t.Shift)
			sum := hwy.Add(hwy.Load(tag, acc[x:]), hwy.Mul(edge, w))
			hwy.Store(sum, acc[x:])
		}
		spanRiseFall(acc, src, t, x, t.EndX)
	}

	for _, t := range taps.Taps(Level) {
		w := hwy.Set(tag, A(t.Intensity))
		x := t.StartX
		for ; x+lanes <= t.EndX; x += lanes {
			v := hwy.LoadPromote[P, A](tag, src[x-t.Shift:])
			sum := hwy.Add(hwy.Load(tag, acc[x:]), hwy.Mul(v, w))
			hwy.Store(sum, acc[x:])
		}
		spanLevel(acc, src, t, x, t.EndX)
	}

	for _, t := range taps.Taps(RiseOnly) {
		w := hwy.Set(tag, A(t.Intensity))
		x := t.StartX
		for ; x+lanes <= t.EndX; x += lanes {
			edge := loadEdge[P, A](tag, src, x-t.Shift)
			cur := hwy.Load(tag, acc[x:])
			sum := hwy.IfThenElse(hwy.GreaterThan(edge, zero), hwy.Add(cur, hwy.Mul(edge, w)), cur)
			hwy.Store(sum, acc[x:])
		}
		spanRiseOnly(acc, src, t, x, t.EndX)
	}

	for _, t := range taps.Taps(FallOnly) {
		w := hwy.Set(tag, A(t.Intensity))
		x := t.StartX
		for ; x+lanes <= t.EndX; x += lanes {
			edge := loadEdge[P, A](tag, src, x-t.Shift)
			cur := hwy.Load(tag, acc[x:])
			sum := hwy.IfThenElse(hwy.LessThan(edge, zero), hwy.Add(cur, hwy.Mul(edge, w)), cur)
			hwy.Store(sum, acc[x:])
		}
		spanFallOnly(acc, src, t, x, t.EndX)
	}
}

// loadEdge returns src[i+1] - src[i] for one group of lanes starting at i.
func loadEdge[P image.Pixel, A Accum](tag hwy.Tag, src []P, i int) hwy.Vec[A] {
	return hwy.Sub(hwy.LoadPromote[P, A](tag, src[i+1:]), hwy.LoadPromote[P, A](tag, src[i:]))
}
