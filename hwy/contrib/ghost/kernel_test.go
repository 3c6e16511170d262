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
	"math"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var laneVariants = []Variant{Variant128, Variant256, Variant512}

// tapsOf builds a single-mode tap list for a row of the given width.
func tapsOf(width int, mode Mode, shift, intensity int) *PlaneTaps {
	var p PlaneTaps
	p.add(mode, NewTap(mode, shift, intensity, width))
	return &p
}

func runIntKernel[P intPixel](k Kernel[P, int32], src []P, taps *PlaneTaps) ([]int32, []P) {
	acc := make([]int32, len(src))
	dst := make([]P, len(src))
	k.Accumulate(acc, src, taps)
	k.Composite(dst, src, acc)
	return acc, dst
}

func TestKernel_RiseFallRow(t *testing.T) {
	src := []uint8{10, 10, 50, 50, 10, 10, 10, 10}
	taps := tapsOf(len(src), RiseFall, 2, 100)
	wantAcc := []int32{0, 0, 0, 4000, 0, -4000, 0, 0}
	wantDst := []uint8{10, 10, 50, 81, 10, 0, 10, 10}

	for _, v := range append([]Variant{VariantScalar}, laneVariants...) {
		t.Run(v.String(), func(t *testing.T) {
			acc, dst := runIntKernel(NewIntKernel[uint8](v, 255), src, taps)
			if diff := cmp.Diff(wantAcc, acc); diff != "" {
				t.Errorf("accumulator (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(wantDst, dst); diff != "" {
				t.Errorf("output (-want +got):\n%s", diff)
			}
		})
	}
}

func TestKernel_Modes(t *testing.T) {
	src := []uint8{10, 10, 50, 50, 10, 10, 10, 10}
	tests := []struct {
		name      string
		mode      Mode
		shift     int
		intensity int
		want      []uint8
	}{
		{"rise-fall negative shift", RiseFall, -2, 100, []uint8{41, 10, 18, 50, 10, 10, 10, 10}},
		{"rise-only negative shift", RiseOnly, -2, 100, []uint8{41, 10, 50, 50, 10, 10, 10, 10}},
		{"fall-only negative shift", FallOnly, -2, 100, []uint8{10, 10, 18, 50, 10, 10, 10, 10}},
		{"rise-only positive shift", RiseOnly, 2, 100, []uint8{10, 10, 50, 81, 10, 10, 10, 10}},
		{"fall-only positive shift", FallOnly, 2, 100, []uint8{10, 10, 50, 50, 10, 0, 10, 10}},
		{"level delay", Level, 1, 64, []uint8{10, 15, 55, 75, 35, 15, 15, 15}},
		{"level cancels", Level, 0, -128, []uint8{0, 0, 0, 0, 0, 0, 0, 0}},
		{"level rounds down", Level, 0, -1, []uint8{9, 9, 49, 49, 9, 9, 9, 9}},
		{"level below one step", Level, 0, 1, []uint8{10, 10, 50, 50, 10, 10, 10, 10}},
	}
	for _, tc := range tests {
		taps := tapsOf(len(src), tc.mode, tc.shift, tc.intensity)
		for _, v := range append([]Variant{VariantScalar}, laneVariants...) {
			t.Run(tc.name+"/"+v.String(), func(t *testing.T) {
				_, dst := runIntKernel(NewIntKernel[uint8](v, 255), src, taps)
				if diff := cmp.Diff(tc.want, dst); diff != "" {
					t.Errorf("output (-want +got):\n%s", diff)
				}
			})
		}
	}
}

func TestKernel_ClampsToPeak(t *testing.T) {
	src := []uint16{0, 1000, 1000, 1000}
	taps := tapsOf(len(src), RiseFall, 1, 127)
	want := []uint16{0, 1023, 1000, 1000}
	for _, v := range append([]Variant{VariantScalar}, laneVariants...) {
		_, dst := runIntKernel(NewIntKernel[uint16](v, 1023), src, taps)
		if diff := cmp.Diff(want, dst); diff != "" {
			t.Errorf("%s: output (-want +got):\n%s", v, diff)
		}
	}
}

func TestCompositeInt_FloorShift(t *testing.T) {
	acc := []int32{-129, -128, -127, -1, 0, 1, 127, 128, 255, 256, -256, -257}
	src := make([]uint8, len(acc))
	for i := range src {
		src[i] = 100
	}
	want := []uint8{98, 99, 99, 99, 100, 100, 100, 101, 101, 102, 98, 97}

	got := make([]uint8, len(acc))
	BaseCompositeInt(got, src, acc, 255)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("BaseCompositeInt (-want +got):\n%s", diff)
	}
	for _, v := range laneVariants {
		got := make([]uint8, len(acc))
		LanesCompositeInt(v.Tag(), got, src, acc, 255)
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("LanesCompositeInt %s (-want +got):\n%s", v, diff)
		}
	}
}

func TestKernel_FloatRow(t *testing.T) {
	src := []float32{10, 10, 50, 50, 10, 10, 10, 10}
	taps := tapsOf(len(src), RiseFall, 2, 100)
	want := []float32{10, 10, 50, 81.25, 10, -21.25, 10, 10}
	for _, v := range append([]Variant{VariantScalar}, laneVariants...) {
		k := NewFloatKernel(v)
		acc := make([]float32, len(src))
		dst := make([]float32, len(src))
		k.Accumulate(acc, src, taps)
		k.Composite(dst, src, acc)
		if diff := cmp.Diff(want, dst); diff != "" {
			t.Errorf("%s: output (-want +got):\n%s", v, diff)
		}
	}
}

func TestKernel_DegenerateTap(t *testing.T) {
	src := []uint8{1, 2, 3, 4, 5}
	p := &PlaneTaps{}
	p.add(RiseFall, Tap{Shift: 1, Intensity: 127, StartX: 5, EndX: 5})
	p.add(Level, Tap{Shift: 0, Intensity: 127, StartX: 3, EndX: 3})
	p.add(FallOnly, Tap{Shift: -4, Intensity: 127, StartX: 0, EndX: 0})
	for _, v := range append([]Variant{VariantScalar}, laneVariants...) {
		acc, dst := runIntKernel(NewIntKernel[uint8](v, 255), src, p)
		if diff := cmp.Diff(make([]int32, len(src)), acc); diff != "" {
			t.Errorf("%s: accumulator (-want +got):\n%s", v, diff)
		}
		if diff := cmp.Diff(src, dst); diff != "" {
			t.Errorf("%s: output (-want +got):\n%s", v, diff)
		}
	}
}

// randomTaps returns n valid taps of random modes for a row of width w.
func randomTaps(rng *rand.Rand, w, n int) *PlaneTaps {
	p := &PlaneTaps{}
	for range n {
		mode := Mode(1 + rng.IntN(numModes))
		shift := 0
		if w > 1 {
			shift = rng.IntN(2*w-1) - (w - 1)
		}
		if shift == 0 && mode != Level {
			if w > 1 {
				shift = 1
			} else {
				mode = Level
			}
		}
		intensity := rng.IntN(255) - 128
		if intensity == 0 {
			intensity = 127
		}
		p.add(mode, NewTap(mode, shift, intensity, w))
	}
	return p
}

var equivalenceWidths = []int{1, 2, 3, 4, 5, 7, 8, 9, 15, 16, 17, 31, 32, 33, 63, 64, 65, 100}

func TestKernel_VariantsMatchScalarUint8(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 8))
	for _, w := range equivalenceWidths {
		for trial := range 8 {
			src := make([]uint8, w)
			for i := range src {
				src[i] = uint8(rng.IntN(256))
			}
			taps := randomTaps(rng, w, 1+rng.IntN(6))
			wantAcc, wantDst := runIntKernel(NewIntKernel[uint8](VariantScalar, 255), src, taps)
			for _, v := range laneVariants {
				acc, dst := runIntKernel(NewIntKernel[uint8](v, 255), src, taps)
				if diff := cmp.Diff(wantAcc, acc); diff != "" {
					t.Fatalf("width %d trial %d %s: accumulator (-scalar +lanes):\n%s", w, trial, v, diff)
				}
				if diff := cmp.Diff(wantDst, dst); diff != "" {
					t.Fatalf("width %d trial %d %s: output (-scalar +lanes):\n%s", w, trial, v, diff)
				}
			}
		}
	}
}

func TestKernel_VariantsMatchScalarUint16(t *testing.T) {
	rng := rand.New(rand.NewPCG(2, 16))
	for _, peak := range []int32{1023, 65535} {
		for _, w := range equivalenceWidths {
			for trial := range 8 {
				src := make([]uint16, w)
				for i := range src {
					src[i] = uint16(rng.IntN(int(peak) + 1))
				}
				taps := randomTaps(rng, w, 1+rng.IntN(6))
				wantAcc, wantDst := runIntKernel(NewIntKernel[uint16](VariantScalar, peak), src, taps)
				for _, v := range laneVariants {
					acc, dst := runIntKernel(NewIntKernel[uint16](v, peak), src, taps)
					if diff := cmp.Diff(wantAcc, acc); diff != "" {
						t.Fatalf("peak %d width %d trial %d %s: accumulator (-scalar +lanes):\n%s", peak, w, trial, v, diff)
					}
					if diff := cmp.Diff(wantDst, dst); diff != "" {
						t.Fatalf("peak %d width %d trial %d %s: output (-scalar +lanes):\n%s", peak, w, trial, v, diff)
					}
					for x, d := range dst {
						if int32(d) > peak {
							t.Fatalf("peak %d: dst[%d] = %d", peak, x, d)
						}
					}
				}
			}
		}
	}
}

// ulpDiff returns the distance between a and b in units in the last place.
func ulpDiff(a, b float32) uint32 {
	ia, ib := int64(orderedBits(a)), int64(orderedBits(b))
	if ia > ib {
		return uint32(ia - ib)
	}
	return uint32(ib - ia)
}

func orderedBits(f float32) int32 {
	b := int32(math.Float32bits(f))
	if b < 0 {
		return math.MinInt32 - b
	}
	return b
}

func TestKernel_VariantsMatchScalarFloat(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 32))
	for _, w := range equivalenceWidths {
		for trial := range 8 {
			src := make([]float32, w)
			for i := range src {
				src[i] = rng.Float32()
			}
			taps := randomTaps(rng, w, 1+rng.IntN(6))
			scalar := NewFloatKernel(VariantScalar)
			wantAcc := make([]float32, w)
			wantDst := make([]float32, w)
			scalar.Accumulate(wantAcc, src, taps)
			scalar.Composite(wantDst, src, wantAcc)

			for _, v := range laneVariants {
				k := NewFloatKernel(v)
				acc := make([]float32, w)
				dst := make([]float32, w)
				k.Accumulate(acc, src, taps)
				k.Composite(dst, src, acc)
				for x := range dst {
					if d := ulpDiff(wantAcc[x], acc[x]); d > 1 {
						t.Fatalf("width %d trial %d %s: acc[%d] = %v, scalar %v (%d ulp)", w, trial, v, x, acc[x], wantAcc[x], d)
					}
					if d := ulpDiff(wantDst[x], dst[x]); d > 1 {
						t.Fatalf("width %d trial %d %s: dst[%d] = %v, scalar %v (%d ulp)", w, trial, v, x, dst[x], wantDst[x], d)
					}
				}
			}
		}
	}
}

func TestKernel_Variant(t *testing.T) {
	for _, v := range append([]Variant{VariantScalar}, laneVariants...) {
		if got := NewIntKernel[uint8](v, 255).Variant(); got != v {
			t.Errorf("NewIntKernel(%s).Variant() = %s", v, got)
		}
		if got := NewFloatKernel(v).Variant(); got != v {
			t.Errorf("NewFloatKernel(%s).Variant() = %s", v, got)
		}
	}
}

func TestLaneKernelsDoNotAllocate(t *testing.T) {
	const width = 203
	rng := rand.New(rand.NewPCG(6, 6))
	src := make([]uint16, width)
	for i := range src {
		src[i] = uint16(rng.IntN(1024))
	}
	taps := &PlaneTaps{}
	for i, shift := range []int{5, -4, 11, -13} {
		m := Mode(1 + i%numModes)
		taps.add(m, NewTap(m, shift, 90-i*60, width))
	}
	acc := make([]int32, width)
	dst := make([]uint16, width)

	for _, v := range laneVariants {
		k := NewIntKernel[uint16](v, 1023)
		allocs := testing.AllocsPerRun(20, func() {
			clear(acc)
			k.Accumulate(acc, src, taps)
			k.Composite(dst, src, acc)
		})
		if allocs != 0 {
			t.Errorf("%s: %v allocations per row, want 0", v, allocs)
		}
	}
}

func BenchmarkAccumulate(b *testing.B) {
	const width = 1920
	rng := rand.New(rand.NewPCG(4, 4))
	src := make([]uint8, width)
	for i := range src {
		src[i] = uint8(rng.IntN(256))
	}
	taps := &PlaneTaps{}
	for i, shift := range []int{4, -3, 9, 17} {
		m := Mode(1 + i%numModes)
		taps.add(m, NewTap(m, shift, 40-i*25, width))
	}
	acc := make([]int32, width)
	dst := make([]uint8, width)

	for _, v := range append([]Variant{VariantScalar}, laneVariants...) {
		k := NewIntKernel[uint8](v, 255)
		b.Run(v.String(), func(b *testing.B) {
			b.SetBytes(width)
			for b.Loop() {
				clear(acc)
				k.Accumulate(acc, src, taps)
				k.Composite(dst, src, acc)
			}
		})
	}
}
