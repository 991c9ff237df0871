// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package zh06

import (
	"fmt"
	"io"
)

// Command is the command byte of an outbound frame
type Command byte

// ExpectsResponse reports whether the sensor answers the command with a
// reading. Only a manual measurement trigger does.
func (c Command) ExpectsResponse() bool {
	return c == CmdTriggerMeasurement
}

// ResponseKind returns the frame layout the decoder should expect after c is
// sent.
func (c Command) ResponseKind() FrameKind {
	if c.ExpectsResponse() {
		return KindAck
	}
	return KindMeasurement
}

func (c Command) String() string {
	return FormatCommand(c)
}

// EncodeCommand builds the nine byte frame FF 01 cmd data 00 00 00 00 checksum
func EncodeCommand(cmd Command, data byte) [CommandFrameSize]byte {
	frame := [CommandFrameSize]byte{
		CommandStart,
		CommandAddress,
		byte(cmd),
		data,
	}
	frame[CommandFrameSize-1] = CommandChecksum(frame[:CommandFrameSize-1])
	return frame
}

// WriteCommand encodes a command and writes it to w one byte at a time
func WriteCommand(w io.ByteWriter, cmd Command, data byte) error {
	frame := EncodeCommand(cmd, data)
	for i, b := range frame {
		if err := w.WriteByte(b); err != nil {
			return fmt.Errorf("failed to write %s byte %d: %w", cmd, i, err)
		}
	}
	return nil
}
