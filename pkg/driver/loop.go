// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package driver

import (
	"context"
	"time"
)

// DefaultTick is how often Loop calls Step. At 9600 baud about 20 bytes
// arrive per tick, far below any transport buffer.
const DefaultTick = 20 * time.Millisecond

// Stepper is anything that can be ticked by Loop
type Stepper interface {
	Step() error
}

// Loop calls s.Step every tick until ctx is done. Step errors are passed to
// onErr, which may be nil; they never stop the loop.
func Loop(ctx context.Context, s Stepper, tick time.Duration, onErr func(error)) {
	if tick <= 0 {
		tick = DefaultTick
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Step(); err != nil && onErr != nil {
				onErr(err)
			}
		}
	}
}
