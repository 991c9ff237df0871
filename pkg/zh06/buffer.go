// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package zh06

import "fmt"

// FrameBuffer holds the bytes of the frame being assembled.
// Writes past its capacity fail instead of indexing out of range.
type FrameBuffer struct {
	data  [FrameBufferSize]byte
	index int
}

// Append stores b at the cursor and advances it
func (f *FrameBuffer) Append(b byte) error {
	if f.index >= len(f.data) {
		return fmt.Errorf("%w at index %d", ErrBufferOverflow, f.index)
	}
	f.data[f.index] = b
	f.index++
	return nil
}

// Reset moves the cursor back to the start of the buffer
func (f *FrameBuffer) Reset() {
	f.index = 0
}

// Len returns the number of buffered bytes
func (f *FrameBuffer) Len() int {
	return f.index
}

// Bytes returns the buffered bytes. The slice aliases the buffer and is only
// valid until the next Append or Reset.
func (f *FrameBuffer) Bytes() []byte {
	return f.data[:f.index]
}

// At returns the byte at index i, or false when i is outside the buffered bytes
func (f *FrameBuffer) At(i int) (byte, bool) {
	if i < 0 || i >= f.index {
		return 0, false
	}
	return f.data[i], true
}

// Uint16 reads a big-endian 16-bit value starting at index i
func (f *FrameBuffer) Uint16(i int) (uint16, bool) {
	if i < 0 || i+1 >= f.index {
		return 0, false
	}
	return uint16(f.data[i])<<8 | uint16(f.data[i+1]), true
}
