//go:build amd64

package hwy

import "testing"

func TestDetectX86(t *testing.T) {
	tests := []struct {
		avx512, avx2, sse2 bool
		want               DispatchLevel
	}{
		{true, true, true, DispatchAVX512},
		{false, true, true, DispatchAVX2},
		{false, false, true, DispatchSSE2},
		{false, false, false, DispatchScalar},
	}
	for _, tc := range tests {
		if got := detectX86(tc.avx512, tc.avx2, tc.sse2); got != tc.want {
			t.Errorf("detectX86(%v, %v, %v) = %s, want %s", tc.avx512, tc.avx2, tc.sse2, got, tc.want)
		}
	}
}
