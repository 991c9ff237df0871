// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package zh06

// ReportingMode is the argument of CmdReportingMode
type ReportingMode byte

// PowerMode is the argument of CmdPowerMode
type PowerMode byte

// Request is a command together with its data byte
type Request struct {
	Command Command
	Data    byte
}

// Encode returns the wire frame of the request
func (r Request) Encode() [CommandFrameSize]byte {
	return EncodeCommand(r.Command, r.Data)
}

func (r Request) String() string {
	return FormatRequest(r.Command, r.Data)
}

// SetReportingMode switches between active push and question/answer mode.
// In question/answer mode the sensor is silent until TriggerMeasurement.
func SetReportingMode(mode ReportingMode) Request {
	return Request{Command: CmdReportingMode, Data: byte(mode)}
}

// TriggerMeasurement asks for a single reading, answered with a nine byte
// frame whose second byte is 0x86.
func TriggerMeasurement() Request {
	return Request{Command: CmdTriggerMeasurement}
}

// SetPowerMode turns the fan on (PowerNormal) or off (PowerStandby)
func SetPowerMode(mode PowerMode) Request {
	return Request{Command: CmdPowerMode, Data: byte(mode)}
}
