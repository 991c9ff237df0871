// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package driver

//go:generate go tool mockgen -source=transport.go -destination=mock_transport_test.go -package=driver

// Transport is an already open byte stream to the sensor.
//
// Available and Receive must never block: the driver only consumes bytes that
// have already arrived. Implementations live in pkg/transport; tests use the
// generated MockTransport or an in-memory fake.
type Transport interface {
	// Available returns the number of bytes that can be read without blocking
	Available() int
	// Receive returns the next buffered byte
	Receive() (byte, error)
	// Send queues one byte for the sensor
	Send(b byte) error
}

// BaudRater is implemented by transports that know their line speed.
// The driver warns when it differs from zh06.BaudRate. Zero means unknown.
type BaudRater interface {
	BaudRate() int
}
