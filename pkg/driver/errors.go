// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package driver

import "errors"

var (
	// ErrInvalidInterval is returned for an update interval that is neither
	// zero nor at least MinUpdateInterval.
	ErrInvalidInterval = errors.New("invalid update interval")

	// ErrTransport wraps failures of the underlying byte stream. The driver
	// state is left consistent and the next Step retries.
	ErrTransport = errors.New("transport error")
)
