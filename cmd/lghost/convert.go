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

package main

import (
	stdimage "image"
	"math"

	xdraw "golang.org/x/image/draw"

	"github.com/ajroetker/go-lghost/hwy/contrib/image"
)

// picture is one decoded input file and its frame.
type picture struct {
	path   string
	width  int
	height int

	// format describes frame; stored is the integer format written back.
	format image.Format
	stored image.Format
	// frame is a *image.Frame[uint8], *image.Frame[uint16] or
	// *image.Frame[float32].
	frame any
	// alpha holds straight alpha for RGB pictures, nil when opaque.
	alpha []uint16
}

// newPicture maps a decoded image onto planes without colour conversion
// where the layout allows it.
func newPicture(path string, src stdimage.Image) *picture {
	b := src.Bounds()
	p := &picture{path: path, width: b.Dx(), height: b.Dy()}

	switch m := src.(type) {
	case *stdimage.Gray:
		p.format, p.frame = image.Gray8, grayFrame(m)
	case *stdimage.Gray16:
		p.format, p.frame = image.Gray16, gray16Frame(m)
	case *stdimage.YCbCr:
		if fr := yuvFrame(m); fr != nil {
			p.format, p.frame = fr.Format(), fr
		}
	}
	if p.frame == nil {
		p.format, p.frame, p.alpha = rgbFrame(src)
	}
	p.stored = p.format
	return p
}

// promote converts the frame to float samples in the integer sample range.
func (p *picture) promote() {
	switch fr := p.frame.(type) {
	case *image.Frame[uint8]:
		p.frame = promote(fr)
	case *image.Frame[uint16]:
		p.frame = promote(fr)
	default:
		return
	}
	p.format = p.frame.(*image.Frame[float32]).Format()
}

// image converts the frame back to a standard library image in the stored
// format.
func (p *picture) image() stdimage.Image {
	switch fr := p.frame.(type) {
	case *image.Frame[uint8]:
		return p.image8(fr)
	case *image.Frame[uint16]:
		return p.image16(fr)
	case *image.Frame[float32]:
		if p.stored.BytesPerSample() == 1 {
			return p.image8(demote[uint8](fr, p.stored))
		}
		return p.image16(demote[uint16](fr, p.stored))
	}
	return nil
}

func (p *picture) image8(fr *image.Frame[uint8]) stdimage.Image {
	rect := stdimage.Rect(0, 0, p.width, p.height)
	switch fr.Format().ColorFamily {
	case image.Gray:
		m := stdimage.NewGray(rect)
		storeRows(m.Pix, m.Stride, fr.Plane(0))
		return m
	case image.YUV:
		m := stdimage.NewYCbCr(rect, subsampleRatio(fr.Format()))
		storeRows(m.Y, m.YStride, fr.Plane(0))
		storeRows(m.Cb, m.CStride, fr.Plane(1))
		storeRows(m.Cr, m.CStride, fr.Plane(2))
		return m
	}

	m := stdimage.NewNRGBA(rect)
	r, g, b := fr.Plane(0), fr.Plane(1), fr.Plane(2)
	for y := range p.height {
		rr, gr, br := r.RowSlice(y), g.RowSlice(y), b.RowSlice(y)
		pix := m.Pix[y*m.Stride:]
		for x := range p.width {
			a := uint8(0xff)
			if p.alpha != nil {
				a = uint8(p.alpha[y*p.width+x])
			}
			pix[4*x], pix[4*x+1], pix[4*x+2], pix[4*x+3] = rr[x], gr[x], br[x], a
		}
	}
	return m
}

func (p *picture) image16(fr *image.Frame[uint16]) stdimage.Image {
	rect := stdimage.Rect(0, 0, p.width, p.height)
	if fr.Format().ColorFamily == image.Gray {
		m := stdimage.NewGray16(rect)
		for y := range p.height {
			pix := m.Pix[y*m.Stride:]
			for x, v := range fr.Plane(0).RowSlice(y) {
				putBE16(pix[2*x:], v)
			}
		}
		return m
	}

	m := stdimage.NewNRGBA64(rect)
	r, g, b := fr.Plane(0), fr.Plane(1), fr.Plane(2)
	for y := range p.height {
		rr, gr, br := r.RowSlice(y), g.RowSlice(y), b.RowSlice(y)
		pix := m.Pix[y*m.Stride:]
		for x := range p.width {
			a := uint16(0xffff)
			if p.alpha != nil {
				a = p.alpha[y*p.width+x]
			}
			putBE16(pix[8*x:], rr[x])
			putBE16(pix[8*x+2:], gr[x])
			putBE16(pix[8*x+4:], br[x])
			putBE16(pix[8*x+6:], a)
		}
	}
	return m
}

func grayFrame(m *stdimage.Gray) *image.Frame[uint8] {
	fr := image.NewFrame[uint8](image.Gray8, m.Rect.Dx(), m.Rect.Dy())
	loadRows(fr.Plane(0), m.Pix, m.Stride)
	return fr
}

func gray16Frame(m *stdimage.Gray16) *image.Frame[uint16] {
	fr := image.NewFrame[uint16](image.Gray16, m.Rect.Dx(), m.Rect.Dy())
	plane := fr.Plane(0)
	for y := range plane.Height() {
		pix := m.Pix[y*m.Stride:]
		row := plane.RowSlice(y)
		for x := range row {
			row[x] = be16(pix[2*x:])
		}
	}
	return fr
}

// yuvFrame returns nil when the subsampling has no planar equivalent or the
// chroma planes would not cover the image exactly.
func yuvFrame(m *stdimage.YCbCr) *image.Frame[uint8] {
	if m.Rect.Min != (stdimage.Point{}) {
		return nil
	}
	w, h := m.Rect.Dx(), m.Rect.Dy()
	f := image.Format{ColorFamily: image.YUV, SampleType: image.Integer, BitsPerSample: 8}
	switch m.SubsampleRatio {
	case stdimage.YCbCrSubsampleRatio444:
	case stdimage.YCbCrSubsampleRatio422:
		f.SubSamplingW = 1
	case stdimage.YCbCrSubsampleRatio420:
		f.SubSamplingW, f.SubSamplingH = 1, 1
	default:
		return nil
	}
	if w%(1<<f.SubSamplingW) != 0 || h%(1<<f.SubSamplingH) != 0 {
		return nil
	}

	fr := image.NewFrame[uint8](f, w, h)
	loadRows(fr.Plane(0), m.Y, m.YStride)
	loadRows(fr.Plane(1), m.Cb, m.CStride)
	loadRows(fr.Plane(2), m.Cr, m.CStride)
	return fr
}

func subsampleRatio(f image.Format) stdimage.YCbCrSubsampleRatio {
	switch {
	case f.SubSamplingW == 1 && f.SubSamplingH == 1:
		return stdimage.YCbCrSubsampleRatio420
	case f.SubSamplingW == 1:
		return stdimage.YCbCrSubsampleRatio422
	default:
		return stdimage.YCbCrSubsampleRatio444
	}
}

// rgbFrame converts any other image to straight-alpha RGB planes, keeping
// 16 bits per sample for 16-bit sources. NRGBA sources are read directly so
// translucent pixels survive unchanged.
func rgbFrame(src stdimage.Image) (image.Format, any, []uint16) {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	rect := stdimage.Rect(0, 0, w, h)
	alpha := make([]uint16, w*h)
	opaque := true

	switch src.(type) {
	case *stdimage.RGBA64, *stdimage.NRGBA64:
		m, ok := src.(*stdimage.NRGBA64)
		if !ok || m.Rect.Min != (stdimage.Point{}) {
			m = stdimage.NewNRGBA64(rect)
			xdraw.Draw(m, rect, src, b.Min, xdraw.Src)
		}
		fr := image.NewFrame[uint16](image.RGB48, w, h)
		for y := range h {
			rr, gr, br := fr.Plane(0).RowSlice(y), fr.Plane(1).RowSlice(y), fr.Plane(2).RowSlice(y)
			pix := m.Pix[y*m.Stride:]
			for x := range w {
				rr[x], gr[x], br[x] = be16(pix[8*x:]), be16(pix[8*x+2:]), be16(pix[8*x+4:])
				a := be16(pix[8*x+6:])
				alpha[y*w+x] = a
				opaque = opaque && a == 0xffff
			}
		}
		if opaque {
			alpha = nil
		}
		return image.RGB48, fr, alpha
	}

	m, ok := src.(*stdimage.NRGBA)
	if !ok || m.Rect.Min != (stdimage.Point{}) {
		m = stdimage.NewNRGBA(rect)
		xdraw.Draw(m, rect, src, b.Min, xdraw.Src)
	}
	fr := image.NewFrame[uint8](image.RGB24, w, h)
	for y := range h {
		rr, gr, br := fr.Plane(0).RowSlice(y), fr.Plane(1).RowSlice(y), fr.Plane(2).RowSlice(y)
		pix := m.Pix[y*m.Stride:]
		for x := range w {
			rr[x], gr[x], br[x] = pix[4*x], pix[4*x+1], pix[4*x+2]
			a := pix[4*x+3]
			alpha[y*w+x] = uint16(a)
			opaque = opaque && a == 0xff
		}
	}
	if opaque {
		alpha = nil
	}
	return image.RGB24, fr, alpha
}

func promote[P uint8 | uint16](fr *image.Frame[P]) *image.Frame[float32] {
	f := fr.Format()
	f.SampleType, f.BitsPerSample = image.Float, 32
	out := image.NewFrame[float32](f, fr.Width(), fr.Height())
	for p := range fr.NumPlanes() {
		src, dst := fr.Plane(p), out.Plane(p)
		for y := range src.Height() {
			d := dst.RowSlice(y)
			for x, v := range src.RowSlice(y) {
				d[x] = float32(v)
			}
		}
	}
	return out
}

// demote rounds float samples back to format, clamping to its range. NaN
// samples become 0.
func demote[P uint8 | uint16](fr *image.Frame[float32], format image.Format) *image.Frame[P] {
	peak := float64(format.Peak())
	out := image.NewFrame[P](format, fr.Width(), fr.Height())
	for p := range fr.NumPlanes() {
		src, dst := fr.Plane(p), out.Plane(p)
		for y := range src.Height() {
			d := dst.RowSlice(y)
			for x, v := range src.RowSlice(y) {
				if math.IsNaN(float64(v)) {
					d[x] = 0
					continue
				}
				d[x] = P(min(max(math.Round(float64(v)), 0), peak))
			}
		}
	}
	return out
}

func loadRows(dst *image.Image[uint8], pix []uint8, stride int) {
	for y := range dst.Height() {
		copy(dst.RowSlice(y), pix[y*stride:])
	}
}

func storeRows(pix []uint8, stride int, src *image.Image[uint8]) {
	for y := range src.Height() {
		copy(pix[y*stride:], src.RowSlice(y))
	}
}

func be16(b []byte) uint16 {
	return uint16(b[0])<<8 | uint16(b[1])
}

func putBE16(b []byte, v uint16) {
	b[0], b[1] = byte(v>>8), byte(v)
}
