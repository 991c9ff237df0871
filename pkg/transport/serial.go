// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package transport

import (
	"fmt"
	"time"

	"go.bug.st/serial"
)

// serialReadTimeout bounds each blocking read so Close is never stuck
// behind a silent sensor
const serialReadTimeout = 100 * time.Millisecond

// OpenSerial opens a serial port at the given speed, 8N1
func OpenSerial(portName string, baudRate int) (*Buffered, error) {
	if err := checkPortFree(portName); err != nil {
		return nil, err
	}

	mode := &serial.Mode{
		BaudRate: baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", portName, err)
	}
	if err := port.SetReadTimeout(serialReadTimeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("failed to configure serial port %s: %w", portName, err)
	}

	return NewBuffered(&serialStream{port: port},
		WithBaudRate(baudRate),
		WithDescription(fmt.Sprintf("Serial: %s @ %d baud", portName, baudRate)),
	), nil
}

// serialStream hides read timeouts from the reader goroutine
type serialStream struct {
	port serial.Port
}

func (s *serialStream) Read(p []byte) (int, error) {
	// A timeout returns 0, nil and the reader simply tries again
	return s.port.Read(p)
}

func (s *serialStream) Write(p []byte) (int, error) {
	return s.port.Write(p)
}

func (s *serialStream) Close() error {
	return s.port.Close()
}
