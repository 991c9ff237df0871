// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package driver

import "fmt"

// DutyState is the fan duty-cycle state
type DutyState uint8

const (
	// StateIdle waits with the fan off until the next reading is due
	StateIdle DutyState = iota
	// StateStabilising waits for the fan to settle after power-on
	StateStabilising
	// StateWaiting has triggered a reading and waits for the answer
	StateWaiting
	// StateContinuous leaves the fan running with the sensor pushing frames
	StateContinuous
)

func (s DutyState) String() string {
	switch s {
	case StateIdle:
		return "IDLE"
	case StateStabilising:
		return "STABILISING"
	case StateWaiting:
		return "WAITING"
	case StateContinuous:
		return "CONTINUOUS"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint8(s))
	}
}
