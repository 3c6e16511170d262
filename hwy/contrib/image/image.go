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

package image

import (
	"unsafe"

	"github.com/ajroetker/go-lghost/hwy"
)

// Image is a single-channel 2D array addressed through a stride.
// Planes allocated with NewImage have rows padded to a multiple of the
// widest vector width; planes wrapped with FromSlice keep the host stride.
type Image[T hwy.Lanes] struct {
	data   []T
	width  int
	height int
	stride int // elements per row (includes padding)
}

// NewImage allocates a zeroed plane whose stride is a whole number of
// hwy.MaxVectorWidth-byte vectors. Non-positive sizes give an empty plane.
func NewImage[T hwy.Lanes](width, height int) *Image[T] {
	if width <= 0 || height <= 0 {
		return &Image[T]{}
	}

	stride := hwy.AlignedSize[T](hwy.FixedTag512{}, width)
	return &Image[T]{
		data:   make([]T, stride*height),
		width:  width,
		height: height,
		stride: stride,
	}
}

// NewImageStride creates a zeroed image with a caller-chosen stride.
// A stride smaller than width is raised to width.
func NewImageStride[T hwy.Lanes](width, height, stride int) *Image[T] {
	if width <= 0 || height <= 0 {
		return &Image[T]{}
	}
	stride = max(stride, width)
	return &Image[T]{
		data:   make([]T, stride*height),
		width:  width,
		height: height,
		stride: stride,
	}
}

// FromSlice wraps existing row-major data without copying.
// The last row only needs width elements. It returns nil if data is too
// short for the given geometry or stride < width.
func FromSlice[T hwy.Lanes](data []T, width, height, stride int) *Image[T] {
	if width <= 0 || height <= 0 || stride < width {
		return nil
	}
	if len(data) < stride*(height-1)+width {
		return nil
	}
	return &Image[T]{data: data, width: width, height: height, stride: stride}
}

func (img *Image[T]) Width() int {
	return img.width
}

func (img *Image[T]) Height() int {
	return img.height
}

// Stride is the distance between rows in elements.
func (img *Image[T]) Stride() int {
	return img.stride
}

// BytesPerRow returns the number of bytes per row, padding included.
func (img *Image[T]) BytesPerRow() int {
	var zero T
	return img.stride * int(unsafe.Sizeof(zero))
}

// Data returns the backing slice.
func (img *Image[T]) Data() []T {
	return img.data
}

// Row returns row y including its padding, or nil when y is out of range.
// The last row of a FromSlice plane may be shorter than the stride.
func (img *Image[T]) Row(y int) []T {
	if y < 0 || y >= img.height || img.data == nil {
		return nil
	}
	start := y * img.stride
	return img.data[start:min(start+img.stride, len(img.data))]
}

// RowSlice returns the width visible pixels of row y.
func (img *Image[T]) RowSlice(y int) []T {
	if y < 0 || y >= img.height || img.data == nil {
		return nil
	}
	start := y * img.stride
	return img.data[start : start+img.width]
}

// At returns the pixel at (x, y), or zero outside the plane.
func (img *Image[T]) At(x, y int) T {
	if x < 0 || x >= img.width || y < 0 || y >= img.height || img.data == nil {
		var zero T
		return zero
	}
	return img.data[y*img.stride+x]
}

// Set writes the pixel at (x, y); writes outside the plane are dropped.
func (img *Image[T]) Set(x, y int, value T) {
	if x < 0 || x >= img.width || y < 0 || y >= img.height || img.data == nil {
		return
	}
	img.data[y*img.stride+x] = value
}

// SameSize reports whether a and b have equal width and height.
func SameSize[T, U hwy.Lanes](a *Image[T], b *Image[U]) bool {
	return a.width == b.width && a.height == b.height
}

// Clone creates a deep copy of the image, stride and padding included.
func (img *Image[T]) Clone() *Image[T] {
	clone := *img
	if img.data != nil {
		clone.data = make([]T, len(img.data))
		copy(clone.data, img.data)
	}
	return &clone
}

// CopyFrom copies the visible pixels of src row by row.
// Both images must have the same size; strides may differ.
func (img *Image[T]) CopyFrom(src *Image[T]) bool {
	if !SameSize(img, src) {
		return false
	}
	if img.stride == src.stride && len(img.data) == len(src.data) {
		copy(img.data, src.data)
		return true
	}
	for y := range img.height {
		copy(img.RowSlice(y), src.RowSlice(y))
	}
	return true
}

// Equal reports whether both images have the same size and identical
// visible pixels. Padding is ignored.
func (img *Image[T]) Equal(other *Image[T]) bool {
	if !SameSize(img, other) {
		return false
	}
	for y := range img.height {
		a, b := img.RowSlice(y), other.RowSlice(y)
		for x := range a {
			if a[x] != b[x] {
				return false
			}
		}
	}
	return true
}

// Fill writes value to every element, padding included.
func (img *Image[T]) Fill(value T) {
	for i := range img.data {
		img.data[i] = value
	}
}
