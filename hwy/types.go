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

// Package hwy provides the portable lane layer used by the ghost filter.
//
// Vectors are array-backed and sized by a Tag, so the same generic kernel can
// be instantiated at 128, 256 or 512 bits and checked lane for lane against a
// scalar loop. Runtime detection picks the widest width the CPU reports; the
// kernels themselves only consume the resulting DispatchLevel.
//
// Usage:
//
//	tag := hwy.FixedTag256{}
//	a := hwy.Load(tag, data1)
//	b := hwy.Load(tag, data2)
//	hwy.Store(hwy.Add(a, b), out)
package hwy

// Floats matches the float lane types.
type Floats interface {
	~float32 | ~float64
}

// SignedInts matches the signed integer lane types.
type SignedInts interface {
	~int8 | ~int16 | ~int32 | ~int64
}

// UnsignedInts matches the unsigned integer lane types.
type UnsignedInts interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Integers matches every integer lane type.
type Integers interface {
	SignedInts | UnsignedInts
}

// Lanes matches every element type a Vec can hold.
type Lanes interface {
	Floats | Integers
}

// maxLanes is the lane count of the widest vector of the narrowest type.
const maxLanes = MaxVectorWidth

// Vec is a portable vector handle. The lanes live in a fixed array, so
// vectors are plain values and the ops never touch the heap. Only the first
// n lanes are meaningful; n is the lane count of the tag it was created with.
// Obtain one from Load, LoadPromote, Set or Zero.
type Vec[T Lanes] struct {
	n    int
	data [maxLanes]T
}

// NumLanes returns the lane count.
func (v Vec[T]) NumLanes() int {
	return v.n
}

// Data returns a copy of the lanes, mainly for tests.
func (v Vec[T]) Data() []T {
	return append([]T(nil), v.data[:v.n]...)
}

// Store is shorthand for Store(v, dst).
func (v Vec[T]) Store(dst []T) {
	Store(v, dst)
}

// Mask holds one bit per lane, produced by GreaterThan and LessThan and
// consumed by IfThenElse.
type Mask[T Lanes] struct {
	n    int
	bits [maxLanes]bool
}

// NumLanes returns the lane count.
func (m Mask[T]) NumLanes() int {
	return m.n
}

// AllTrue reports whether every lane is set.
func (m Mask[T]) AllTrue() bool {
	for _, set := range m.bits[:m.n] {
		if !set {
			return false
		}
	}
	return true
}

// AnyTrue reports whether some lane is set.
func (m Mask[T]) AnyTrue() bool {
	for _, set := range m.bits[:m.n] {
		if set {
			return true
		}
	}
	return false
}

// CountTrue counts the set lanes.
func (m Mask[T]) CountTrue() int {
	n := 0
	for _, set := range m.bits[:m.n] {
		if set {
			n++
		}
	}
	return n
}
