// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

//go:build !linux

package transport

// checkPortFree is a no-op where open file handles cannot be listed
func checkPortFree(string) error {
	return nil
}
