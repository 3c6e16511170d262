package hwy

import (
	"os"
	"strconv"
)

// DispatchLevel is the widest vector instruction set the CPU reports.
type DispatchLevel int

const (
	// DispatchScalar means no usable vector unit.
	DispatchScalar DispatchLevel = iota

	// DispatchSSE2 is the x86-64 baseline, 128 bits.
	DispatchSSE2

	// DispatchAVX2 provides 256-bit integer and float lanes.
	DispatchAVX2

	// DispatchAVX512 requires both AVX-512 F and BW, 512 bits.
	DispatchAVX512

	// DispatchNEON is Advanced SIMD on arm64, 128 bits.
	DispatchNEON
)

func (d DispatchLevel) String() string {
	switch d {
	case DispatchScalar:
		return "scalar"
	case DispatchSSE2:
		return "sse2"
	case DispatchAVX2:
		return "avx2"
	case DispatchAVX512:
		return "avx512"
	case DispatchNEON:
		return "neon"
	default:
		return "DispatchLevel(" + strconv.Itoa(int(d)) + ")"
	}
}

// Width returns the register width in bytes for the level, or 0 for scalar.
func (d DispatchLevel) Width() int {
	switch d {
	case DispatchSSE2, DispatchNEON:
		return 16
	case DispatchAVX2:
		return 32
	case DispatchAVX512:
		return 64
	default:
		return 0
	}
}

// currentLevel is written once by the per-architecture init.
var currentLevel DispatchLevel

// CurrentLevel returns the SIMD instruction set detected for this process.
func CurrentLevel() DispatchLevel {
	return currentLevel
}

// CurrentWidth returns CurrentLevel().Width().
func CurrentWidth() int {
	return currentLevel.Width()
}

// CurrentName returns the name of CurrentLevel, e.g. "avx2".
func CurrentName() string {
	return currentLevel.String()
}

// NoSimdEnv reports whether HWY_NO_SIMD asks for scalar dispatch. Values
// that parse as a bool are honoured; any other non-empty value counts as
// true.
func NoSimdEnv() bool {
	v, ok := os.LookupEnv("HWY_NO_SIMD")
	if !ok || v == "" {
		return false
	}
	if on, err := strconv.ParseBool(v); err == nil {
		return on
	}
	return true
}
