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

// Package ghost implements a per-scanline ghost reduction filter.
//
// For every row of every selected plane, a correction signal is accumulated
// from a list of taps into a per-worker scratch row and then added to the
// source row. A tap combines a horizontal shift (the ghost delay), a mode
// and a signed intensity in 1/128 units:
//
//	RiseFall: acc[x] += (src[x-shift+1] - src[x-shift]) * intensity
//	Level:    acc[x] += src[x-shift] * intensity
//	RiseOnly: as RiseFall, only for positive edges
//	FallOnly: as RiseFall, only for negative edges
//
// Integer samples accumulate in int32 and composite as
// clamp(src + acc>>7, 0, peak); float samples accumulate in float32 and
// composite as src + acc/128.
//
// The accumulate/composite pair exists as a scalar reference and as
// lane-parallel kernels at 128, 256 and 512 bits. One of them is chosen when
// the filter is built, either explicitly or from the detected
// hwy.DispatchLevel, and all of them produce the same output.
//
// Usage:
//
//	pool := workerpool.New(0)
//	defer pool.Close()
//
//	f, err := ghost.New[uint8](image.YUV420P8, 720, 480, ghost.Params{
//	    Mode:      []int{1, 2},
//	    Shift:     []int{4, -2},
//	    Intensity: []int{20, -10},
//	}, ghost.WithPool(pool))
//	if err != nil {
//	    return err
//	}
//	out, err := f.ProcessFrames(frames)
package ghost
