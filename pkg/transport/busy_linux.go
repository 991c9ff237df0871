// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

//go:build linux

package transport

import (
	"fmt"
	"strings"

	"github.com/hjkoskel/listserialports"
)

// checkPortFree refuses ports another process already has open.
// Pseudo terminals (socat test rigs) are not checked.
func checkPortFree(portName string) error {
	if strings.HasPrefix(portName, "/dev/pts") {
		return nil
	}

	pids, _, err := listserialports.FileIsInUseByPids(portName)
	if err != nil {
		return fmt.Errorf("failed to check serial port %s: %w", portName, err)
	}
	if len(pids) > 0 {
		return fmt.Errorf("%w: %s is held by PID %v", ErrPortBusy, portName, pids)
	}
	return nil
}
