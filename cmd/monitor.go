// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/Thermoquad/zhstat/pkg/config"
	"github.com/Thermoquad/zhstat/pkg/driver"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

var monitorInterval time.Duration

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Drive the sensor in an interactive display",
	Long: `Drive the sensor and show its state in a terminal UI.

Shows the duty cycle state, recent readings, frame statistics and a log of
commands sent and frames received. Logs are discarded unless --log-file is
set.

Press 'q' or Ctrl+C to exit.`,
	RunE: runMonitor,
}

func init() {
	monitorCmd.Flags().DurationVarP(&monitorInterval, "interval", "i", 0, "Update interval (0 for continuous)")
	rootCmd.AddCommand(monitorCmd)
}

func runMonitor(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("interval") {
		cfg.UpdateInterval = config.Duration{Duration: monitorInterval}
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The screen belongs to the TUI
	ctx, log, closer := setupLogger(ctx, io.Discard)
	defer closer.Close()

	conn, err := OpenConnection(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	observer := newTUIObserver(256)
	s, err := newSession(conn, log, driver.Outputs{}, driver.WithObserver(observer))
	if err != nil {
		return err
	}
	s.driver.LogConfig()

	p := tea.NewProgram(initialModel(conn.String(), s.driver.Config(), s.driver))

	g, ctx := errgroup.WithContext(ctx)
	errLimit := rate.NewLimiter(rate.Every(5*time.Second), 1)
	s.start(ctx, g, func(err error) {
		log.WithError(err).Debug("Step failed")
		if errLimit.Allow() {
			observer.Error(time.Now(), err)
		}
	})

	// Forward driver events to the TUI
	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case ev := <-observer.events:
				p.Send(ev)
			}
		}
	})

	// Stop the TUI when the connection drops
	go func() {
		<-ctx.Done()
		p.Quit()
	}()

	_, runErr := p.Run()
	cancel()
	if err := g.Wait(); err != nil {
		return err
	}
	if runErr != nil {
		return fmt.Errorf("TUI error: %w", runErr)
	}
	return nil
}
