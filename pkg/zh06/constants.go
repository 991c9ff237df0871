// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package zh06 implements the wire protocol of the Winsen ZH06 family of
// laser particulate-matter sensors.
//
// The sensor speaks two frame shapes over a 9600 baud UART. Measurement frames
// start with the preamble 0x42 0x4D and carry a 16-bit sum checksum. Command
// frames (and the acknowledgements the sensor sends back) are nine bytes long,
// start with 0xFF and carry an 8-bit "0xFF minus sum" checksum. This package
// provides an incremental decoder for both shapes, the command encoder and the
// reading parser.
package zh06

import "time"

// Measurement frame layout
const (
	MeasurementStart1 = 0x42
	MeasurementStart2 = 0x4D

	// MeasurementPayloadLength is the only payload length accepted in the
	// length field. It counts every byte after the length field, checksum
	// included.
	MeasurementPayloadLength = 28
	MeasurementHeaderSize    = 4
	MeasurementFrameSize     = MeasurementHeaderSize + MeasurementPayloadLength
)

// Command frame layout
const (
	CommandStart     = 0xFF
	CommandAddress   = 0x01
	CommandFrameSize = 9
)

// FrameBufferSize is the capacity of the receive buffer. Both frame shapes fit
// with room to spare.
const FrameBufferSize = 64

// Command codes
const (
	CmdReportingMode      Command = 0x78
	CmdTriggerMeasurement Command = 0x86
	CmdPowerMode          Command = 0xA7
)

// Reporting mode arguments for CmdReportingMode
const (
	ReportingActive ReportingMode = 0x40
	ReportingQuery  ReportingMode = 0x41
)

// Power mode arguments for CmdPowerMode
const (
	PowerNormal  PowerMode = 0x00
	PowerStandby PowerMode = 0x01
)

// Reading field offsets, relative to frame start
const (
	OffsetPM2_5  = 2
	OffsetPM10_0 = 4
	OffsetPM1_0  = 6
)

// Timing
const (
	// StabilisingTime is how long the fan needs after power-on before a
	// reading can be trusted.
	StabilisingTime = 45 * time.Second

	// ResyncTimeout is the inter-byte silence after which a partial frame is
	// discarded.
	ResyncTimeout = 500 * time.Millisecond

	// BaudRate is the fixed UART speed of the sensor.
	BaudRate = 9600
)
