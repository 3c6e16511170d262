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

import "github.com/ajroetker/go-lghost/hwy"

// intPixel is the set of integer sample types.
type intPixel interface {
	~uint8 | ~uint16
}

// accShift realizes the fixed 1/128 intensity scale for integer samples.
const accShift = 7

// floatScale is the same scale for float samples.
const floatScale = 1.0 / 128.0

// BaseCompositeInt writes clamp(src + acc>>7, 0, peak). The arithmetic shift
// rounds toward negative infinity.
func BaseCompositeInt[P intPixel](dst, src []P, acc []int32, peak int32) {
	for x := range dst {
		v := int32(src[x]) + acc[x]>>accShift
		dst[x] = P(min(max(v, 0), peak))
	}
}

// LanesCompositeInt is BaseCompositeInt over groups of int32 lanes, with
// the store saturating to [0, peak].
func LanesCompositeInt[P intPixel](tag hwy.Tag, dst, src []P, acc []int32, peak int32) {
	lanes := hwy.MaxLanesFor[int32](tag)
	x := 0
	for ; x+lanes <= len(dst); x += lanes {
		s := hwy.LoadPromote[P, int32](tag, src[x:])
		v := hwy.Add(s, hwy.ShiftRight(hwy.Load(tag, acc[x:]), accShift))
		hwy.Store(hwy.DemoteSaturate[P](v, 0, peak), dst[x:])
	}
	BaseCompositeInt(dst[x:], src[x:], acc[x:], peak)
}

// BaseCompositeFloat writes src + acc/128 without clamping.
func BaseCompositeFloat(dst, src, acc []float32) {
	for x := range dst {
		dst[x] = src[x] + float32(acc[x]*floatScale)
	}
}

// LanesCompositeFloat is BaseCompositeFloat over groups of float32 lanes.
// The multiply by a power of two is exact, so the fused form rounds the
// same way as the scalar loop for normal values.
func LanesCompositeFloat(tag hwy.Tag, dst, src, acc []float32) {
	lanes := hwy.MaxLanesFor[float32](tag)
	scale := hwy.Set[float32](tag, floatScale)
	x := 0
	for ; x+lanes <= len(dst); x += lanes {
		v := hwy.FMA(hwy.Load(tag, acc[x:]), scale, hwy.Load(tag, src[x:]))
		hwy.Store(v, dst[x:])
	}
	BaseCompositeFloat(dst[x:], src[x:], acc[x:])
}
