// SPDX-License-Identifier: EPL-2.0

package utils

import (
	"math"
	"testing"
)

func TestFloat32ToInt16(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input float32
		want  int16
	}{
		{name: "zero", input: 0.0, want: 0},
		{name: "max positive", input: 1.0, want: math.MaxInt16},
		{name: "max negative", input: -1.0, want: -math.MaxInt16},
		{name: "half positive", input: 0.5, want: 16383},
		{name: "half negative", input: -0.5, want: -16383},
		{name: "clamp over max", input: 1.5, want: math.MaxInt16},
		{name: "clamp under min", input: -100.0, want: -math.MaxInt16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Float32ToInt16(tt.input)
			if got != tt.want {
				t.Errorf("Float32ToInt16(%v) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestInt16ToFloat32(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input int16
		want  float32
	}{
		{0, 0},
		{16384, 0.5},
		{-16384, -0.5},
		{math.MinInt16, -1},
	}

	for _, tt := range tests {
		if got := Int16ToFloat32(tt.input); got != tt.want {
			t.Errorf("Int16ToFloat32(%d) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestInt16RoundTrip(t *testing.T) {
	t.Parallel()

	for _, v := range []int16{-32000, -1234, -1, 0, 1, 999, 32000} {
		got := Float32ToInt16(Int16ToFloat32(v))
		// 32768 in, 32767 out: allow one step of drift
		if diff := int(got) - int(v); diff > 1 || diff < -1 {
			t.Errorf("round trip of %d = %d", v, got)
		}
	}
}

func TestLittleEndianInt16(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   []byte
		want int16
	}{
		{[]byte{0x00, 0x00}, 0},
		{[]byte{0xff, 0x7f}, math.MaxInt16},
		{[]byte{0x00, 0x80}, math.MinInt16},
		{[]byte{0xff, 0xff}, -1},
	}

	for _, tt := range tests {
		if got := LittleEndianInt16(tt.in); got != tt.want {
			t.Errorf("LittleEndianInt16(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
