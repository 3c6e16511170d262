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

package hwy

import "math"

// This file provides the pure Go implementations of the lane operations.
// Every op works on the lane count carried by its operands, which is fixed
// by the Tag passed to Load, Set or Zero. Results are returned by value.

// Load creates a vector by loading data from a slice.
// At most MaxLanesFor[T](tag) elements are read.
func Load[T Lanes](tag Tag, src []T) Vec[T] {
	var v Vec[T]
	v.n = copy(v.data[:MaxLanesFor[T](tag)], src)
	return v
}

// Store writes a vector's data to a slice.
func Store[T Lanes](v Vec[T], dst []T) {
	copy(dst, v.data[:v.n])
}

// Set creates a vector with all lanes set to the same value.
func Set[T Lanes](tag Tag, value T) Vec[T] {
	v := Vec[T]{n: MaxLanesFor[T](tag)}
	for i := range v.n {
		v.data[i] = value
	}
	return v
}

// Zero creates a vector with all lanes set to zero.
func Zero[T Lanes](tag Tag) Vec[T] {
	return Vec[T]{n: MaxLanesFor[T](tag)}
}

// Add performs element-wise addition.
func Add[T Lanes](a, b Vec[T]) Vec[T] {
	r := Vec[T]{n: min(a.n, b.n)}
	for i := range r.n {
		r.data[i] = a.data[i] + b.data[i]
	}
	return r
}

// Sub performs element-wise subtraction.
func Sub[T Lanes](a, b Vec[T]) Vec[T] {
	r := Vec[T]{n: min(a.n, b.n)}
	for i := range r.n {
		r.data[i] = a.data[i] - b.data[i]
	}
	return r
}

// Mul performs element-wise multiplication. Integer lanes wrap on overflow.
func Mul[T Lanes](a, b Vec[T]) Vec[T] {
	r := Vec[T]{n: min(a.n, b.n)}
	for i := range r.n {
		r.data[i] = a.data[i] * b.data[i]
	}
	return r
}

// FMA performs fused multiply-add: a * b + c with a single rounding.
func FMA[T Floats](a, b, c Vec[T]) Vec[T] {
	r := Vec[T]{n: min(a.n, b.n, c.n)}
	for i := range r.n {
		r.data[i] = T(math.FMA(float64(a.data[i]), float64(b.data[i]), float64(c.data[i])))
	}
	return r
}

// Min performs element-wise minimum.
func Min[T Lanes](a, b Vec[T]) Vec[T] {
	r := Vec[T]{n: min(a.n, b.n)}
	for i := range r.n {
		r.data[i] = min(a.data[i], b.data[i])
	}
	return r
}

// Max performs element-wise maximum.
func Max[T Lanes](a, b Vec[T]) Vec[T] {
	r := Vec[T]{n: min(a.n, b.n)}
	for i := range r.n {
		r.data[i] = max(a.data[i], b.data[i])
	}
	return r
}

// Clamp limits each lane of v to [lo, hi].
func Clamp[T Lanes](v, lo, hi Vec[T]) Vec[T] {
	return Min(Max(v, lo), hi)
}

// ShiftRight performs element-wise right shift by a constant number of bits.
// For signed integers, this is arithmetic shift (sign-extended), so it
// rounds toward negative infinity. For unsigned integers, this is logical shift.
func ShiftRight[T Integers](v Vec[T], bits int) Vec[T] {
	r := Vec[T]{n: v.n}
	for i := range r.n {
		r.data[i] = v.data[i] >> bits
	}
	return r
}

// GreaterThan returns a mask of lanes where a > b.
func GreaterThan[T Lanes](a, b Vec[T]) Mask[T] {
	m := Mask[T]{n: min(a.n, b.n)}
	for i := range m.n {
		m.bits[i] = a.data[i] > b.data[i]
	}
	return m
}

// LessThan returns a mask of lanes where a < b.
func LessThan[T Lanes](a, b Vec[T]) Mask[T] {
	m := Mask[T]{n: min(a.n, b.n)}
	for i := range m.n {
		m.bits[i] = a.data[i] < b.data[i]
	}
	return m
}

// IfThenElse performs conditional selection.
func IfThenElse[T Lanes](mask Mask[T], a, b Vec[T]) Vec[T] {
	r := Vec[T]{n: min(mask.n, a.n, b.n)}
	for i := range r.n {
		if mask.bits[i] {
			r.data[i] = a.data[i]
		} else {
			r.data[i] = b.data[i]
		}
	}
	return r
}
