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
	"fmt"
	"strconv"
	"strings"

	"github.com/ajroetker/go-lghost/hwy"
	"github.com/ajroetker/go-lghost/hwy/contrib/image"
)

// Capability is the requested kernel width. The numeric values match the
// plugin's opt parameter.
type Capability int

const (
	// Auto selects the widest width the probed CPU level runs in hardware,
	// and scalar while the lanes are emulated.
	Auto Capability = iota
	Scalar
	Width128
	Width256
	Width512
)

func (c Capability) String() string {
	switch c {
	case Auto:
		return "auto"
	case Scalar:
		return "scalar"
	case Width128:
		return "128"
	case Width256:
		return "256"
	case Width512:
		return "512"
	default:
		return fmt.Sprintf("Capability(%d)", int(c))
	}
}

// ParseCapability accepts the names printed by String, the instruction set
// aliases (c, sse2, neon, avx2, avx512) and the numeric opt values 0-4.
func ParseCapability(s string) (Capability, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	switch name {
	case "", "auto":
		return Auto, nil
	case "scalar", "c":
		return Scalar, nil
	case "128", "sse2", "neon":
		return Width128, nil
	case "256", "avx2":
		return Width256, nil
	case "512", "avx512":
		return Width512, nil
	}
	n, err := strconv.Atoi(name)
	if err != nil || n < int(Auto) || n > int(Width512) {
		return 0, configErrorf("opt", -1, "opt must be 0, 1, 2, 3, or 4 (or auto, scalar, 128, 256, 512), got %q", s)
	}
	return Capability(n), nil
}

// Variant is the kernel width a filter runs with.
type Variant int

const (
	VariantScalar Variant = iota
	Variant128
	Variant256
	Variant512
)

func (v Variant) String() string {
	switch v {
	case VariantScalar:
		return "scalar"
	case Variant128:
		return "128bit"
	case Variant256:
		return "256bit"
	case Variant512:
		return "512bit"
	default:
		return fmt.Sprintf("Variant(%d)", int(v))
	}
}

// Tag returns the vector tag of the variant, or nil for scalar.
func (v Variant) Tag() hwy.Tag {
	switch v {
	case Variant128:
		return hwy.FixedTag128{}
	case Variant256:
		return hwy.FixedTag256{}
	case Variant512:
		return hwy.FixedTag512{}
	default:
		return nil
	}
}

// Width returns the vector width in bytes, 0 for scalar.
func (v Variant) Width() int {
	if tag := v.Tag(); tag != nil {
		return tag.Width()
	}
	return 0
}

// supported reports whether level can run v.
func (v Variant) supported(level hwy.DispatchLevel) bool {
	return v.Width() <= level.Width()
}

// SelectVariant resolves a capability against a detected CPU level.
// Explicit widths the level cannot run are rejected; Auto resolves through
// autoVariant.
func SelectVariant(c Capability, level hwy.DispatchLevel) (Variant, error) {
	var v Variant
	switch c {
	case Auto:
		return autoVariant(level, hwy.Emulated), nil
	case Scalar:
		return VariantScalar, nil
	case Width128:
		v = Variant128
	case Width256:
		v = Variant256
	case Width512:
		v = Variant512
	default:
		return 0, configErrorf("opt", -1, "opt must be 0, 1, 2, 3, or 4, got %d", int(c))
	}
	if !v.supported(level) {
		return 0, configErrorf("opt", -1, "%s kernels are not supported on %s", v, level)
	}
	return v, nil
}

// autoVariant walks down from 512 bits to the first width level supports,
// ending at scalar. Emulated lanes lose to the scalar loop, so they are
// never picked automatically.
func autoVariant(level hwy.DispatchLevel, emulated bool) Variant {
	if emulated {
		return VariantScalar
	}
	v := Variant512
	for v > VariantScalar && !v.supported(level) {
		v--
	}
	return v
}

// Kernel is one accumulate/composite pair for pixel type P with
// accumulator type A.
type Kernel[P image.Pixel, A Accum] interface {
	Variant() Variant
	// Accumulate adds every tap of the plane to acc, which is zeroed and
	// covers the row.
	Accumulate(acc []A, src []P, taps *PlaneTaps)
	// Composite writes the corrected row.
	Composite(dst, src []P, acc []A)
}

type scalarIntKernel[P intPixel] struct {
	peak int32
}

func (scalarIntKernel[P]) Variant() Variant { return VariantScalar }

func (k scalarIntKernel[P]) Accumulate(acc []int32, src []P, taps *PlaneTaps) {
	BaseAccumulate(acc, src, taps)
}

func (k scalarIntKernel[P]) Composite(dst, src []P, acc []int32) {
	BaseCompositeInt(dst, src, acc, k.peak)
}

type lanesIntKernel[P intPixel] struct {
	variant Variant
	tag     hwy.Tag
	peak    int32
}

func (k lanesIntKernel[P]) Variant() Variant { return k.variant }

func (k lanesIntKernel[P]) Accumulate(acc []int32, src []P, taps *PlaneTaps) {
	LanesAccumulate(k.tag, acc, src, taps)
}

func (k lanesIntKernel[P]) Composite(dst, src []P, acc []int32) {
	LanesCompositeInt(k.tag, dst, src, acc, k.peak)
}

type scalarFloatKernel struct{}

func (scalarFloatKernel) Variant() Variant { return VariantScalar }

func (scalarFloatKernel) Accumulate(acc []float32, src []float32, taps *PlaneTaps) {
	BaseAccumulate(acc, src, taps)
}

func (scalarFloatKernel) Composite(dst, src, acc []float32) {
	BaseCompositeFloat(dst, src, acc)
}

type lanesFloatKernel struct {
	variant Variant
	tag     hwy.Tag
}

func (k lanesFloatKernel) Variant() Variant { return k.variant }

func (k lanesFloatKernel) Accumulate(acc []float32, src []float32, taps *PlaneTaps) {
	LanesAccumulate(k.tag, acc, src, taps)
}

func (k lanesFloatKernel) Composite(dst, src, acc []float32) {
	LanesCompositeFloat(k.tag, dst, src, acc)
}

// NewIntKernel returns the integer kernel of variant v clamping to peak.
func NewIntKernel[P intPixel](v Variant, peak int32) Kernel[P, int32] {
	if v == VariantScalar {
		return scalarIntKernel[P]{peak: peak}
	}
	return lanesIntKernel[P]{variant: v, tag: v.Tag(), peak: peak}
}

// NewFloatKernel returns the float kernel of variant v.
func NewFloatKernel(v Variant) Kernel[float32, float32] {
	if v == VariantScalar {
		return scalarFloatKernel{}
	}
	return lanesFloatKernel{variant: v, tag: v.Tag()}
}
