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

// LoadPromote loads MaxLanesFor[To](tag) elements of a narrower (or equally
// wide) type and converts each lane to To. This is the widening load used to
// bring 8 and 16-bit pixels into 32-bit lanes, e.g. 16 bytes into 16 int32
// lanes for a 512-bit tag.
func LoadPromote[From, To Lanes](tag Tag, src []From) Vec[To] {
	v := Vec[To]{n: min(len(src), MaxLanesFor[To](tag))}
	for i, x := range src[:v.n] {
		v.data[i] = To(x)
	}
	return v
}

// StoreDemote converts each lane to To and writes it to dst.
// The conversion truncates; callers saturate with Clamp beforehand.
func StoreDemote[From, To Lanes](v Vec[From], dst []To) {
	n := min(len(dst), v.n)
	for i := range n {
		dst[i] = To(v.data[i])
	}
}

// DemoteSaturate clamps int32 lanes to [lo, hi] and narrows them to To.
// It matches a pack-with-unsigned-saturation followed by a min against the
// format peak.
func DemoteSaturate[To Integers](v Vec[int32], lo, hi int32) Vec[To] {
	r := Vec[To]{n: v.n}
	for i := range r.n {
		r.data[i] = To(min(max(v.data[i], lo), hi))
	}
	return r
}
