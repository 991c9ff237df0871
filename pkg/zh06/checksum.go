// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package zh06

// MeasurementChecksum computes the 16-bit sum used by measurement frames.
// The accumulator wraps modulo 65536.
func MeasurementChecksum(data []byte) uint16 {
	var sum uint16
	for _, b := range data {
		sum += uint16(b)
	}
	return sum
}

// CommandChecksum computes the checksum byte of a command or ack frame:
// 0xFF minus the sum of the given bytes, in 8-bit arithmetic.
func CommandChecksum(data []byte) byte {
	sum := byte(0xFF)
	for _, b := range data {
		sum -= b
	}
	return sum
}
