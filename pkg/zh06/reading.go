// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package zh06

import (
	"encoding/binary"
	"fmt"
)

// Frame is a completed, checksum-valid frame
type Frame struct {
	Kind FrameKind
	Data []byte
}

// Type returns byte 1 of the frame. For acks this is the command being
// answered, for measurement frames it is the second preamble byte.
func (f Frame) Type() byte {
	if len(f.Data) < 2 {
		return 0
	}
	return f.Data[1]
}

// IsReading reports whether the frame answers a manual measurement trigger
func (f Frame) IsReading() bool {
	return f.Type() == byte(CmdTriggerMeasurement)
}

// Reading parses the particulate fields of the frame
func (f Frame) Reading() (Reading, error) {
	return ParseReading(f.Data)
}

// Reading is one particulate-matter measurement in µg/m³
type Reading struct {
	PM1_0  uint16 `json:"pm1_0" cbor:"1,keyasint"`
	PM2_5  uint16 `json:"pm2_5" cbor:"2,keyasint"`
	PM10_0 uint16 `json:"pm10_0" cbor:"3,keyasint"`
}

func (r Reading) String() string {
	return fmt.Sprintf("PM1.0=%d PM2.5=%d PM10.0=%d µg/m³", r.PM1_0, r.PM2_5, r.PM10_0)
}

// ParseReading extracts the three concentrations from a frame starting at
// index 0. Offsets follow the question/answer response layout.
func ParseReading(frame []byte) (Reading, error) {
	if len(frame) < OffsetPM1_0+2 {
		return Reading{}, fmt.Errorf("%w: %d bytes, need %d", ErrShortFrame, len(frame), OffsetPM1_0+2)
	}
	return Reading{
		PM1_0:  binary.BigEndian.Uint16(frame[OffsetPM1_0:]),
		PM2_5:  binary.BigEndian.Uint16(frame[OffsetPM2_5:]),
		PM10_0: binary.BigEndian.Uint16(frame[OffsetPM10_0:]),
	}, nil
}

// ActiveFields are the concentration fields of a pushed measurement frame.
// The driver never publishes them; they are only shown by the formatter.
type ActiveFields struct {
	Standard    Reading
	Atmospheric Reading
}

// ParseActiveFields decodes the standard-particle and atmospheric fields of a
// 32 byte measurement frame.
func ParseActiveFields(frame []byte) (ActiveFields, error) {
	if len(frame) < 16 {
		return ActiveFields{}, fmt.Errorf("%w: %d bytes, need 16", ErrShortFrame, len(frame))
	}
	u16 := func(i int) uint16 { return binary.BigEndian.Uint16(frame[i:]) }
	return ActiveFields{
		Standard:    Reading{PM1_0: u16(4), PM2_5: u16(6), PM10_0: u16(8)},
		Atmospheric: Reading{PM1_0: u16(10), PM2_5: u16(12), PM10_0: u16(14)},
	}, nil
}
