// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package zh06

import (
	"bytes"
	"fmt"
)

// FrameKind selects which frame layout the decoder expects next
type FrameKind uint8

const (
	// KindMeasurement is the 0x42 0x4D frame pushed by the sensor
	KindMeasurement FrameKind = iota
	// KindAck is the nine byte 0xFF frame answering a command
	KindAck
)

func (k FrameKind) String() string {
	switch k {
	case KindMeasurement:
		return "MEASUREMENT"
	case KindAck:
		return "ACK"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint8(k))
	}
}

// Result is the classification of the most recently decoded byte
type Result uint8

const (
	// Continue means the frame is still incomplete
	Continue Result = iota
	// Reject means the buffered bytes were discarded
	Reject
	// Complete means a checksum-valid frame is available from Frame
	Complete
)

func (r Result) String() string {
	switch r {
	case Continue:
		return "CONTINUE"
	case Reject:
		return "REJECT"
	case Complete:
		return "COMPLETE"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint8(r))
	}
}

// Decoder reassembles frames from a byte stream, one byte at a time.
//
// The layout it validates against is chosen with Expect. After Reject the
// next byte is treated as a fresh start-of-frame candidate.
type Decoder struct {
	expect FrameKind
	buf    FrameBuffer
	frame  Frame
}

// NewDecoder creates a decoder expecting measurement frames
func NewDecoder() *Decoder {
	return &Decoder{expect: KindMeasurement}
}

// Expect switches the expected frame layout. Any partial frame is dropped.
func (d *Decoder) Expect(kind FrameKind) {
	d.expect = kind
	d.buf.Reset()
}

// Expecting returns the frame layout the decoder currently validates against
func (d *Decoder) Expecting() FrameKind {
	return d.expect
}

// Reset drops any partial frame
func (d *Decoder) Reset() {
	d.buf.Reset()
}

// Buffered returns the number of bytes of the partial frame
func (d *Decoder) Buffered() int {
	return d.buf.Len()
}

// Frame returns the last completed frame
func (d *Decoder) Frame() Frame {
	return d.frame
}

// DecodeByte feeds one byte to the decoder.
// The returned error explains a Reject and is nil otherwise.
func (d *Decoder) DecodeByte(b byte) (Result, error) {
	if err := d.buf.Append(b); err != nil {
		d.buf.Reset()
		return Reject, err
	}

	var res Result
	var err error
	switch d.expect {
	case KindMeasurement:
		res, err = d.checkMeasurement()
	case KindAck:
		res, err = d.checkAck()
	default:
		res, err = Reject, fmt.Errorf("%w: cannot decode %s frames", ErrFraming, d.expect)
	}

	switch res {
	case Reject:
		d.buf.Reset()
	case Complete:
		d.frame = Frame{Kind: d.expect, Data: bytes.Clone(d.buf.Bytes())}
		d.buf.Reset()
	}
	return res, err
}

func (d *Decoder) checkMeasurement() (Result, error) {
	index := d.buf.Len() - 1
	b, _ := d.buf.At(index)

	switch index {
	case 0:
		return expectByte(index, b, MeasurementStart1)
	case 1:
		return expectByte(index, b, MeasurementStart2)
	case 2:
		return Continue, nil
	}

	length, _ := d.buf.Uint16(2)
	if index == 3 {
		if length != MeasurementPayloadLength {
			return Reject, fmt.Errorf("%w: frame declares %d bytes, want %d (wrong sensor type?)",
				ErrLengthMismatch, length, MeasurementPayloadLength)
		}
		return Continue, nil
	}

	total := MeasurementHeaderSize + int(length)
	if index < total-1 {
		return Continue, nil
	}

	// Checksum covers everything but the checksum bytes
	calculated := MeasurementChecksum(d.buf.Bytes()[:total-2])
	carried, _ := d.buf.Uint16(total - 2)
	if calculated != carried {
		return Reject, fmt.Errorf("%w: calculated 0x%04X, frame carries 0x%04X",
			ErrChecksumMismatch, calculated, carried)
	}
	return Complete, nil
}

func (d *Decoder) checkAck() (Result, error) {
	index := d.buf.Len() - 1
	b, _ := d.buf.At(index)

	if index == 0 {
		return expectByte(index, b, CommandStart)
	}
	if index < CommandFrameSize-1 {
		return Continue, nil
	}

	calculated := CommandChecksum(d.buf.Bytes()[:CommandFrameSize-1])
	if calculated != b {
		return Reject, fmt.Errorf("%w: calculated 0x%02X, frame carries 0x%02X",
			ErrChecksumMismatch, calculated, b)
	}
	return Complete, nil
}

func expectByte(index int, got, want byte) (Result, error) {
	if got != want {
		return Reject, fmt.Errorf("%w: expected 0x%02X at index %d, got 0x%02X", ErrFraming, want, index, got)
	}
	return Continue, nil
}

// Classify checks a byte sequence starting at a frame boundary in one pass.
//
// It applies the same rules as Decoder: a sequence that the decoder would
// reject at some byte is rejected, a sequence ending exactly on a valid frame
// is complete, anything shorter is Continue. Bytes after the frame end are
// ignored.
func Classify(kind FrameKind, data []byte) (Result, error) {
	switch kind {
	case KindMeasurement:
		return classifyMeasurement(data)
	case KindAck:
		return classifyAck(data)
	default:
		return Reject, fmt.Errorf("%w: cannot decode %s frames", ErrFraming, kind)
	}
}

func classifyMeasurement(data []byte) (Result, error) {
	if len(data) > 0 && data[0] != MeasurementStart1 {
		return expectByte(0, data[0], MeasurementStart1)
	}
	if len(data) > 1 && data[1] != MeasurementStart2 {
		return expectByte(1, data[1], MeasurementStart2)
	}
	if len(data) < MeasurementHeaderSize {
		return Continue, nil
	}

	length := uint16(data[2])<<8 | uint16(data[3])
	if length != MeasurementPayloadLength {
		return Reject, fmt.Errorf("%w: frame declares %d bytes, want %d (wrong sensor type?)",
			ErrLengthMismatch, length, MeasurementPayloadLength)
	}

	total := MeasurementHeaderSize + int(length)
	if len(data) < total {
		return Continue, nil
	}

	calculated := MeasurementChecksum(data[:total-2])
	carried := uint16(data[total-2])<<8 | uint16(data[total-1])
	if calculated != carried {
		return Reject, fmt.Errorf("%w: calculated 0x%04X, frame carries 0x%04X",
			ErrChecksumMismatch, calculated, carried)
	}
	return Complete, nil
}

func classifyAck(data []byte) (Result, error) {
	if len(data) > 0 && data[0] != CommandStart {
		return expectByte(0, data[0], CommandStart)
	}
	if len(data) < CommandFrameSize {
		return Continue, nil
	}

	calculated := CommandChecksum(data[:CommandFrameSize-1])
	if calculated != data[CommandFrameSize-1] {
		return Reject, fmt.Errorf("%w: calculated 0x%02X, frame carries 0x%02X",
			ErrChecksumMismatch, calculated, data[CommandFrameSize-1])
	}
	return Complete, nil
}
