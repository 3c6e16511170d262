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

// Package image provides SIMD-friendly image planes and multi-plane frames.
//
// Image[T] stores one plane with an explicit stride, so rows handed in by a
// host (which may be padded) and rows allocated here (padded to the widest
// vector) are addressed the same way. Frame[T] bundles up to three planes
// with a Format describing sample type, bit depth and chroma subsampling.
//
// Example usage:
//
//	f := image.NewFrame[uint8](image.YUV420P8, 1920, 1080)
//	luma := f.Plane(0)
//	for y := 0; y < luma.Height(); y++ {
//	    row := luma.RowSlice(y)
//	    // Process row
//	}
package image
