// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package driver

import (
	"fmt"
	"time"

	"github.com/Thermoquad/zhstat/pkg/zh06"
)

// MinUpdateInterval is the shortest non-zero update interval accepted
const MinUpdateInterval = 30 * time.Second

// Config is the driver configuration
type Config struct {
	// UpdateInterval is the time between readings. Zero publishes as often as
	// the sensor delivers. Above zh06.StabilisingTime the fan is switched off
	// between readings.
	UpdateInterval time.Duration
}

// Validate checks the configuration
func (c Config) Validate() error {
	if c.UpdateInterval < 0 || (c.UpdateInterval > 0 && c.UpdateInterval < MinUpdateInterval) {
		return fmt.Errorf("%w: %s must be 0 or at least %s", ErrInvalidInterval, c.UpdateInterval, MinUpdateInterval)
	}
	return nil
}

// Cycling reports whether the fan is powered down between readings
func (c Config) Cycling() bool {
	return c.UpdateInterval > zh06.StabilisingTime
}

// Mode returns a short description of the duty-cycle mode
func (c Config) Mode() string {
	if c.Cycling() {
		return "cycling"
	}
	return "continuous"
}
