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

// Pixel is the set of sample types a Frame can hold.
type Pixel interface {
	~uint8 | ~uint16 | ~float32
}

// Frame bundles the planes of one picture.
type Frame[T Pixel] struct {
	format Format
	width  int
	height int
	planes [3]*Image[T]
}

// NewFrame allocates a frame whose planes follow format's subsampling.
func NewFrame[T Pixel](format Format, width, height int) *Frame[T] {
	f := &Frame[T]{format: format, width: width, height: height}
	for p := range format.NumPlanes() {
		f.planes[p] = NewImage[T](format.PlaneWidth(p, width), format.PlaneHeight(p, height))
	}
	return f
}

// FrameFromPlanes wraps existing planes. It returns nil when the number of
// planes does not match the format or a plane has the wrong size.
func FrameFromPlanes[T Pixel](format Format, width, height int, planes ...*Image[T]) *Frame[T] {
	if len(planes) != format.NumPlanes() {
		return nil
	}
	f := &Frame[T]{format: format, width: width, height: height}
	for p, img := range planes {
		if img == nil || img.Width() != format.PlaneWidth(p, width) || img.Height() != format.PlaneHeight(p, height) {
			return nil
		}
		f.planes[p] = img
	}
	return f
}

// Format returns the frame format.
func (f *Frame[T]) Format() Format {
	return f.format
}

// Width returns the width of plane 0.
func (f *Frame[T]) Width() int {
	return f.width
}

// Height returns the height of plane 0.
func (f *Frame[T]) Height() int {
	return f.height
}

// NumPlanes returns the number of planes in the frame.
func (f *Frame[T]) NumPlanes() int {
	return f.format.NumPlanes()
}

// Plane returns the specified plane (0, 1, or 2), or nil.
func (f *Frame[T]) Plane(i int) *Image[T] {
	if i < 0 || i >= f.NumPlanes() {
		return nil
	}
	return f.planes[i]
}

// Clone deep-copies every plane.
func (f *Frame[T]) Clone() *Frame[T] {
	clone := &Frame[T]{format: f.format, width: f.width, height: f.height}
	for p := range f.NumPlanes() {
		clone.planes[p] = f.planes[p].Clone()
	}
	return clone
}

// SameShape reports whether both frames share format and plane sizes.
func (f *Frame[T]) SameShape(other *Frame[T]) bool {
	if f.format != other.format || f.width != other.width || f.height != other.height {
		return false
	}
	for p := range f.NumPlanes() {
		if f.planes[p] == nil || other.planes[p] == nil || !SameSize(f.planes[p], other.planes[p]) {
			return false
		}
	}
	return true
}

// Equal reports whether both frames have the same shape and pixels.
func (f *Frame[T]) Equal(other *Frame[T]) bool {
	if !f.SameShape(other) {
		return false
	}
	for p := range f.NumPlanes() {
		if !f.planes[p].Equal(other.planes[p]) {
			return false
		}
	}
	return true
}
