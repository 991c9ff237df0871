// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/Thermoquad/zhstat/pkg/driver"
	"github.com/Thermoquad/zhstat/pkg/zh06"
	"github.com/spf13/cobra"
)

var sendWait time.Duration

// sendRequests maps command names to requests
var sendRequests = map[string]zh06.Request{
	"query-mode":  zh06.SetReportingMode(zh06.ReportingQuery),
	"active-mode": zh06.SetReportingMode(zh06.ReportingActive),
	"trigger":     zh06.TriggerMeasurement(),
	"fan-on":      zh06.SetPowerMode(zh06.PowerNormal),
	"standby":     zh06.SetPowerMode(zh06.PowerStandby),
}

var sendCmd = &cobra.Command{
	Use:   "send <command>",
	Short: "Send a single command to the sensor",
	Long: `Send one command frame and print any answer frames received.

Commands:
  query-mode    Question/answer mode: the sensor only answers triggers
  active-mode   Active mode: the sensor pushes a measurement every second
  trigger       Request a reading (question/answer mode only)
  fan-on        Power the fan (readings settle after 45s)
  standby       Switch the fan off`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: sendCommandNames(),
	RunE:      runSend,
}

func init() {
	sendCmd.Flags().DurationVarP(&sendWait, "wait", "w", 2*time.Second, "How long to wait for answers")
	rootCmd.AddCommand(sendCmd)
}

func sendCommandNames() []string {
	names := make([]string, 0, len(sendRequests))
	for name := range sendRequests {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func runSend(cmd *cobra.Command, args []string) error {
	req, ok := sendRequests[args[0]]
	if !ok {
		return fmt.Errorf("unknown command %q (use one of: %s)", args[0], strings.Join(sendCommandNames(), ", "))
	}

	ctx, log, closer := setupLogger(context.Background(), os.Stderr)
	defer closer.Close()

	conn, err := OpenConnection(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	frame := req.Encode()
	log.Debugf("Sending %s", zh06.FormatHex(frame[:]))
	if err := zh06.WriteCommand(conn, req.Command, req.Data); err != nil {
		return fmt.Errorf("send %s: %w", req, err)
	}
	fmt.Printf("Sent %s\n", req)

	fl := newFrameLogger(os.Stdout, zh06.KindAck, time.Now())
	fl.hex = true

	deadline := time.After(sendWait)
	poll := time.NewTicker(driver.DefaultTick)
	defer poll.Stop()

	for {
		select {
		case <-deadline:
			if fl.stats.Frames() == 0 {
				fmt.Println("No answer")
			}
			return nil
		case now := <-poll.C:
			if err := fl.drain(now, conn); err != nil {
				return fmt.Errorf("read: %w", err)
			}
		}
	}
}
