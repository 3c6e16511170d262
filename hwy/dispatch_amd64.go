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

//go:build amd64

package hwy

import "golang.org/x/sys/cpu"

func init() {
	if NoSimdEnv() {
		currentLevel = DispatchScalar
		return
	}
	currentLevel = detectX86(cpu.X86.HasAVX512F && cpu.X86.HasAVX512BW, cpu.X86.HasAVX2, cpu.X86.HasSSE2)
}

// detectX86 maps feature bits to a level. AVX-512 needs BW as well as F
// for the byte and word lanes used by 8 and 16-bit pixel loads.
func detectX86(avx512, avx2, sse2 bool) DispatchLevel {
	switch {
	case avx512:
		return DispatchAVX512
	case avx2:
		return DispatchAVX2
	case sse2:
		return DispatchSSE2
	default:
		return DispatchScalar
	}
}
