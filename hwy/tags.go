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

import "unsafe"

// Tag fixes the vector width an op works at. The widths are emulated, so
// every tag is usable on every CPU; DispatchLevel says which ones would map
// onto real registers.
type Tag interface {
	// Width is the vector size in bytes.
	Width() int
	Name() string
}

// FixedTag128 selects 16-byte vectors.
type FixedTag128 struct{}

func (FixedTag128) Width() int   { return 16 }
func (FixedTag128) Name() string { return "128bit" }

// FixedTag256 selects 32-byte vectors.
type FixedTag256 struct{}

func (FixedTag256) Width() int   { return 32 }
func (FixedTag256) Name() string { return "256bit" }

// FixedTag512 selects 64-byte vectors.
type FixedTag512 struct{}

func (FixedTag512) Width() int   { return 64 }
func (FixedTag512) Name() string { return "512bit" }

// MaxVectorWidth is the widest tag in bytes. Buffers padded to it can be
// processed by any tag without bounds checks on the last group.
const MaxVectorWidth = 64

// Emulated is true while the lane ops run as portable Go loops instead of
// vector instructions. Emulated tags give the same results at every level but
// are slower than a plain scalar loop, so automatic selection skips them.
const Emulated = true

// MaxLanesFor returns how many T fit in one vector of tag, e.g. 8 int32
// lanes for FixedTag256.
func MaxLanesFor[T Lanes](tag Tag) int {
	var zero T
	return tag.Width() / int(unsafe.Sizeof(zero))
}

// AlignedSize rounds size up to a whole number of vectors of tag.
func AlignedSize[T Lanes](tag Tag, size int) int {
	lanes := MaxLanesFor[T](tag)
	if lanes == 0 {
		return size
	}
	return ((size + lanes - 1) / lanes) * lanes
}

// TagForWidth returns the fixed tag of the given width in bytes.
func TagForWidth(width int) (Tag, bool) {
	switch width {
	case 16:
		return FixedTag128{}, true
	case 32:
		return FixedTag256{}, true
	case 64:
		return FixedTag512{}, true
	}
	return nil, false
}
