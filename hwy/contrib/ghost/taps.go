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

	"github.com/ajroetker/go-lghost/hwy/contrib/image"
)

// Mode selects how a tap derives its contribution from the source row.
type Mode int

const (
	// RiseFall adds the signed edge src[x-shift+1]-src[x-shift].
	RiseFall Mode = iota + 1
	// Level adds the delayed (or advanced) sample src[x-shift].
	Level
	// RiseOnly adds the edge only where it is positive.
	RiseOnly
	// FallOnly adds the edge only where it is negative.
	FallOnly
)

const numModes = 4

// maxPlanes is the largest number of planes a frame can carry.
const maxPlanes = 3

func (m Mode) String() string {
	switch m {
	case RiseFall:
		return "rise-fall"
	case Level:
		return "level"
	case RiseOnly:
		return "rise-only"
	case FallOnly:
		return "fall-only"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Tap is one validated contribution for a plane. Columns [StartX, EndX) are
// those whose shifted reads stay inside the row.
type Tap struct {
	Shift     int
	Intensity int
	StartX    int
	EndX      int
}

// NewTap derives the active range of a tap for a plane of the given width.
// Edge modes read one column to the right of x-shift, so negative shifts
// are moved one step toward zero and the usable width shrinks by one.
// The caller validates shift and intensity.
func NewTap(mode Mode, shift, intensity, width int) Tap {
	if mode != Level && shift < 0 {
		shift++
		width--
	}
	return Tap{
		Shift:     shift,
		Intensity: intensity,
		StartX:    max(shift, 0),
		EndX:      min(width+shift, width),
	}
}

// Empty reports whether the tap covers no column.
func (t Tap) Empty() bool {
	return t.EndX <= t.StartX
}

// PlaneTaps holds the taps of one plane grouped by mode, each group in
// configuration order.
type PlaneTaps struct {
	byMode [numModes][]Tap
}

// Taps returns the taps of mode m. The slice must not be modified.
func (p *PlaneTaps) Taps(m Mode) []Tap {
	if m < RiseFall || m > FallOnly {
		return nil
	}
	return p.byMode[m-1]
}

// Len returns the number of taps across all modes.
func (p *PlaneTaps) Len() int {
	n := 0
	for _, taps := range p.byMode {
		n += len(taps)
	}
	return n
}

func (p *PlaneTaps) add(m Mode, t Tap) {
	p.byMode[m-1] = append(p.byMode[m-1], t)
}

// Catalog is the immutable per-plane tap table of a filter. It is built
// once and read concurrently by every worker.
type Catalog struct {
	process [maxPlanes]bool
	planes  [maxPlanes]PlaneTaps
}

// Process reports whether plane is filtered. Other planes are copied.
func (c *Catalog) Process(plane int) bool {
	return plane >= 0 && plane < maxPlanes && c.process[plane]
}

// Plane returns the taps of plane, or nil for an invalid index.
func (c *Catalog) Plane(plane int) *PlaneTaps {
	if plane < 0 || plane >= maxPlanes {
		return nil
	}
	return &c.planes[plane]
}

// SelectedPlanes returns the filtered plane indices in ascending order.
func (c *Catalog) SelectedPlanes() []int {
	var planes []int
	for p, ok := range c.process {
		if ok {
			planes = append(planes, p)
		}
	}
	return planes
}

// Params is the construction-time parameter set of a filter. Mode, Shift
// and Intensity are parallel lists with one element per tap.
type Params struct {
	Mode      []int
	Shift     []int
	Intensity []int
	// Planes lists the planes to filter. When empty, plane 0 is filtered
	// for gray and YUV formats and every plane for RGB.
	Planes []int
	// Opt forces or auto-detects the kernel width.
	Opt Capability
}

// BuildCatalog validates params against a clip of the given format and
// width and derives the per-plane tap table.
func BuildCatalog(format image.Format, width int, params Params) (*Catalog, error) {
	if err := format.Validate(); err != nil {
		return nil, &ConfigError{Param: "format", Index: -1, Reason: err.Error()}
	}
	if width <= 0 {
		return nil, configErrorf("width", -1, "must be positive, got %d", width)
	}

	c := &Catalog{}
	numPlanes := format.NumPlanes()
	if len(params.Planes) == 0 {
		for p := range numPlanes {
			c.process[p] = true
			if format.ColorFamily != image.RGB {
				break
			}
		}
	}
	for i, p := range params.Planes {
		if p < 0 || p >= numPlanes {
			return nil, configErrorf("planes", i, "plane index out of range")
		}
		if c.process[p] {
			return nil, configErrorf("planes", i, "plane specified twice")
		}
		c.process[p] = true
	}

	if len(params.Mode) != len(params.Shift) || len(params.Mode) != len(params.Intensity) {
		return nil, configErrorf("mode", -1, "number of elements in mode, shift and intensity must equal")
	}

	for i, m := range params.Mode {
		mode := Mode(m)
		intensity := params.Intensity[i]
		shift := params.Shift[i]

		if mode < RiseFall || mode > FallOnly {
			return nil, configErrorf("mode", i, "mode must be 1, 2, 3, or 4")
		}
		if intensity == 0 || intensity < -128 || intensity > 127 {
			return nil, configErrorf("intensity", i, "intensity must not be 0 and must be between -128 and 127 (inclusive)")
		}

		for p := range numPlanes {
			if !c.process[p] {
				continue
			}
			planeWidth := format.PlaneWidth(p, width)
			if abs(shift) >= planeWidth {
				return nil, configErrorf("shift", i, "abs(shift) must be less than plane %d width %d", p, planeWidth)
			}
			if mode != Level && shift == 0 {
				return nil, configErrorf("shift", i, "shift must not be 0 for mode 1, 3, 4")
			}
			c.planes[p].add(mode, NewTap(mode, shift, intensity, planeWidth))
		}
	}

	return c, nil
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
