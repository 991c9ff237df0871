// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/Thermoquad/zhstat/pkg/driver"
	"github.com/Thermoquad/zhstat/pkg/transport"
	"github.com/mdouchement/logger"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// session is one driver running against one connection
type session struct {
	conn   *transport.Buffered
	driver *driver.Driver
	log    logger.Logger
}

// newSession builds a driver over conn with the configured channels of
// outputs attached
func newSession(conn *transport.Buffered, log logger.Logger, outputs driver.Outputs, opts ...driver.Option) (*session, error) {
	opts = append([]driver.Option{
		driver.WithLogger(log),
		driver.WithOutputs(cfg.Mask(outputs)),
	}, opts...)

	d, err := driver.New(conn, cfg.Driver(), opts...)
	if err != nil {
		return nil, err
	}
	return &session{conn: conn, driver: d, log: log}, nil
}

// start runs the driver loop and the connection watchdog in g
func (s *session) start(ctx context.Context, g *errgroup.Group, onErr func(error)) {
	if onErr == nil {
		// A latched write error fails every tick until the link recovers
		limiter := rate.NewLimiter(rate.Every(5*time.Second), 1)
		onErr = func(err error) {
			if limiter.Allow() {
				s.log.WithError(err).Warn("Step failed")
			}
		}
	}

	g.Go(func() error {
		driver.Loop(ctx, s.driver, driver.DefaultTick, onErr)
		return nil
	})
	g.Go(func() error {
		return watchConnection(ctx, s.conn)
	})
}

// watchConnection returns once ctx is done or the connection failed
func watchConnection(ctx context.Context, conn *transport.Buffered) error {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			// Drain what is left before reporting the failure
			if err := conn.Err(); err != nil && conn.Available() == 0 {
				return fmt.Errorf("connection lost: %w", err)
			}
		}
	}
}
