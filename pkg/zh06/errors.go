// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package zh06

import (
	"errors"
	"fmt"
)

var (
	// ErrFraming is returned when a byte does not fit the expected frame
	// layout, typically a wrong preamble byte. The decoder resynchronises on
	// the next byte; nothing needs to be reported upstream.
	ErrFraming = errors.New("framing error")

	// ErrBufferOverflow is returned when a frame would grow past
	// FrameBufferSize. It wraps ErrFraming.
	ErrBufferOverflow = fmt.Errorf("%w: frame buffer overflow", ErrFraming)

	// ErrLengthMismatch is returned when a measurement frame declares a payload
	// length other than MeasurementPayloadLength.
	//
	// This usually means a different sensor variant is attached to the port.
	ErrLengthMismatch = errors.New("payload length mismatch")

	// ErrChecksumMismatch is returned when a completed frame fails its checksum.
	// Waiting for the next frame is always enough to recover.
	ErrChecksumMismatch = errors.New("checksum mismatch")

	// ErrStaleFrame marks a partial frame dropped after ResyncTimeout of
	// silence on the line.
	ErrStaleFrame = errors.New("stale partial frame")

	// ErrShortFrame is returned when a frame is too short to hold the
	// requested fields.
	ErrShortFrame = errors.New("frame too short")
)
