// SPDX-License-Identifier: EPL-2.0

package utils

// Float32ToInt16 clamps x to [-1,1] and scales it to a signed 16-bit sample.
func Float32ToInt16(x float32) int16 {
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	// 32767 for both signs keeps the positive side from overflowing
	return int16(x * 32767.0)
}

// Int16ToFloat32 maps a signed 16-bit sample into [-1,1).
func Int16ToFloat32(v int16) float32 {
	return float32(v) / 32768.0
}

// LittleEndianInt16 decodes the sample at b[0:2].
func LittleEndianInt16(b []byte) int16 {
	return int16(uint16(b[0]) | uint16(b[1])<<8)
}
