// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package zh06

import (
	"fmt"
	"strings"
)

// FormatFrame formats a frame into a human-readable line
func FormatFrame(f Frame) string {
	switch f.Kind {
	case KindAck:
		return formatAck(f)
	case KindMeasurement:
		return formatMeasurement(f)
	default:
		return fmt.Sprintf("%s %s", f.Kind, FormatHex(f.Data))
	}
}

func formatAck(f Frame) string {
	result := fmt.Sprintf("ACK %s (0x%02X)", FormatCommand(Command(f.Type())), f.Type())
	if f.IsReading() {
		if r, err := f.Reading(); err == nil {
			result += " " + r.String()
		}
	}
	return result
}

func formatMeasurement(f Frame) string {
	fields, err := ParseActiveFields(f.Data)
	if err != nil {
		return fmt.Sprintf("MEASUREMENT len=%d (%v)", len(f.Data), err)
	}
	return fmt.Sprintf("MEASUREMENT len=%d std[%s] atm[%s]", len(f.Data), fields.Standard, fields.Atmospheric)
}

// FormatCommand returns the human-readable name of a command byte
func FormatCommand(cmd Command) string {
	switch cmd {
	case CmdReportingMode:
		return "REPORTING_MODE"
	case CmdTriggerMeasurement:
		return "TRIGGER_MEASUREMENT"
	case CmdPowerMode:
		return "POWER_MODE"
	default:
		return fmt.Sprintf("UNKNOWN_0x%02X", byte(cmd))
	}
}

// FormatRequest names a command together with its argument
func FormatRequest(cmd Command, data byte) string {
	switch cmd {
	case CmdReportingMode:
		switch ReportingMode(data) {
		case ReportingActive:
			return "REPORTING_MODE active"
		case ReportingQuery:
			return "REPORTING_MODE query"
		}
	case CmdPowerMode:
		switch PowerMode(data) {
		case PowerNormal:
			return "POWER_MODE normal"
		case PowerStandby:
			return "POWER_MODE standby"
		}
	case CmdTriggerMeasurement:
		return FormatCommand(cmd)
	}
	return fmt.Sprintf("%s 0x%02X", FormatCommand(cmd), data)
}

// FormatHex returns the bytes as space separated hex pairs
func FormatHex(data []byte) string {
	var sb strings.Builder
	for i, b := range data {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%02X", b)
	}
	return sb.String()
}
