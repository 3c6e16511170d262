package image

import (
	"errors"
	"testing"
)

func TestFormat_Validate(t *testing.T) {
	tests := []struct {
		name string
		f    Format
		ok   bool
	}{
		{"gray8", Gray8, true},
		{"yuv420p10", YUV420P10, true},
		{"rgbs", RGBS, true},
		{"int7", Format{SampleType: Integer, BitsPerSample: 7}, false},
		{"int32", Format{SampleType: Integer, BitsPerSample: 32}, false},
		{"half", Format{SampleType: Float, BitsPerSample: 16}, false},
		{"subsampled rgb", Format{ColorFamily: RGB, BitsPerSample: 8, SubSamplingW: 1}, false},
		{"bad family", Format{ColorFamily: ColorFamily(7), BitsPerSample: 8}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.f.Validate()
			if tc.ok && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tc.ok && !errors.Is(err, ErrUnsupportedFormat) {
				t.Errorf("Validate() = %v, want ErrUnsupportedFormat", err)
			}
		})
	}
}

func TestFormat_Geometry(t *testing.T) {
	if got := YUV420P8.PlaneWidth(1, 99); got != 49 {
		t.Errorf("PlaneWidth(1, 99): got %d, want 49", got)
	}
	if got := YUV420P8.PlaneHeight(0, 99); got != 99 {
		t.Errorf("PlaneHeight(0, 99): got %d, want 99", got)
	}
	if Gray8.NumPlanes() != 1 || RGB48.NumPlanes() != 3 {
		t.Error("NumPlanes mismatch")
	}
	if got := YUV420P10.Peak(); got != 1023 {
		t.Errorf("Peak 10-bit: got %d, want 1023", got)
	}
	if got := GrayS.Peak(); got != 0 {
		t.Errorf("Peak float: got %d, want 0", got)
	}
	if got := YUV420P10.BytesPerSample(); got != 2 {
		t.Errorf("BytesPerSample 10-bit: got %d, want 2", got)
	}
	if got := YUV420P10.String(); got != "yuv 10-bit int 1/1" {
		t.Errorf("String: got %q", got)
	}
}
