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
	"errors"
	"fmt"
)

// ColorFamily identifies how the planes of a frame are interpreted.
type ColorFamily int

const (
	// Gray frames carry a single plane.
	Gray ColorFamily = iota
	// YUV frames carry luma plus two (possibly subsampled) chroma planes.
	YUV
	// RGB frames carry three full-size planes.
	RGB
)

// String returns the family name.
func (c ColorFamily) String() string {
	switch c {
	case Gray:
		return "gray"
	case YUV:
		return "yuv"
	case RGB:
		return "rgb"
	default:
		return fmt.Sprintf("ColorFamily(%d)", int(c))
	}
}

// SampleType distinguishes integer and floating-point samples.
type SampleType int

const (
	Integer SampleType = iota
	Float
)

// Format describes the sample layout shared by every frame of a clip.
type Format struct {
	ColorFamily   ColorFamily
	SampleType    SampleType
	BitsPerSample int
	// SubSamplingW and SubSamplingH are log2 chroma subsampling factors
	// for planes 1 and 2.
	SubSamplingW int
	SubSamplingH int
}

// Common formats.
var (
	Gray8     = Format{ColorFamily: Gray, SampleType: Integer, BitsPerSample: 8}
	Gray16    = Format{ColorFamily: Gray, SampleType: Integer, BitsPerSample: 16}
	GrayS     = Format{ColorFamily: Gray, SampleType: Float, BitsPerSample: 32}
	YUV420P8  = Format{ColorFamily: YUV, SampleType: Integer, BitsPerSample: 8, SubSamplingW: 1, SubSamplingH: 1}
	YUV420P10 = Format{ColorFamily: YUV, SampleType: Integer, BitsPerSample: 10, SubSamplingW: 1, SubSamplingH: 1}
	YUV444P16 = Format{ColorFamily: YUV, SampleType: Integer, BitsPerSample: 16}
	YUV444PS  = Format{ColorFamily: YUV, SampleType: Float, BitsPerSample: 32}
	RGB24     = Format{ColorFamily: RGB, SampleType: Integer, BitsPerSample: 8}
	RGB48     = Format{ColorFamily: RGB, SampleType: Integer, BitsPerSample: 16}
	RGBS      = Format{ColorFamily: RGB, SampleType: Float, BitsPerSample: 32}
)

// ErrUnsupportedFormat is returned by Validate.
var ErrUnsupportedFormat = errors.New("only constant format 8-16 bit integer and 32 bit float input supported")

// Validate checks that samples are 8-16 bit integers or 32 bit floats and
// that subsampling is only used on YUV.
func (f Format) Validate() error {
	switch f.SampleType {
	case Integer:
		if f.BitsPerSample < 8 || f.BitsPerSample > 16 {
			return fmt.Errorf("%w: %d bit integer", ErrUnsupportedFormat, f.BitsPerSample)
		}
	case Float:
		if f.BitsPerSample != 32 {
			return fmt.Errorf("%w: %d bit float", ErrUnsupportedFormat, f.BitsPerSample)
		}
	default:
		return fmt.Errorf("%w: sample type %d", ErrUnsupportedFormat, int(f.SampleType))
	}
	if f.ColorFamily < Gray || f.ColorFamily > RGB {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, f.ColorFamily)
	}
	if f.SubSamplingW < 0 || f.SubSamplingW > 2 || f.SubSamplingH < 0 || f.SubSamplingH > 2 {
		return fmt.Errorf("%w: subsampling %d/%d", ErrUnsupportedFormat, f.SubSamplingW, f.SubSamplingH)
	}
	if f.ColorFamily != YUV && (f.SubSamplingW != 0 || f.SubSamplingH != 0) {
		return fmt.Errorf("%w: subsampled %s", ErrUnsupportedFormat, f.ColorFamily)
	}
	return nil
}

// NumPlanes returns 1 for gray and 3 otherwise.
func (f Format) NumPlanes() int {
	if f.ColorFamily == Gray {
		return 1
	}
	return 3
}

// BytesPerSample returns the storage size of one sample.
func (f Format) BytesPerSample() int {
	return (f.BitsPerSample + 7) / 8
}

// Peak returns the largest integer sample value, 2^bits - 1.
// It returns 0 for float formats, which are not clamped.
func (f Format) Peak() int {
	if f.SampleType != Integer {
		return 0
	}
	return 1<<f.BitsPerSample - 1
}

// PlaneWidth returns the width of plane given the frame width.
func (f Format) PlaneWidth(plane, width int) int {
	if plane == 0 {
		return width
	}
	return width >> f.SubSamplingW
}

// PlaneHeight returns the height of plane given the frame height.
func (f Format) PlaneHeight(plane, height int) int {
	if plane == 0 {
		return height
	}
	return height >> f.SubSamplingH
}

// String returns a short description such as "yuv 10-bit int 1/1".
func (f Format) String() string {
	kind := "int"
	if f.SampleType == Float {
		kind = "float"
	}
	return fmt.Sprintf("%s %d-bit %s %d/%d", f.ColorFamily, f.BitsPerSample, kind, f.SubSamplingW, f.SubSamplingH)
}
