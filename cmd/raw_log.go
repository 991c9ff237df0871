// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Thermoquad/zhstat/pkg/driver"
	"github.com/Thermoquad/zhstat/pkg/transport"
	"github.com/Thermoquad/zhstat/pkg/zh06"
	"github.com/spf13/cobra"
)

var (
	rawLogAck           bool
	rawLogHex           bool
	rawLogStatsInterval int
)

var rawLogCmd = &cobra.Command{
	Use:   "raw_log",
	Short: "Display raw frame log in human-readable format",
	Long: `Passively decode and display ZH06 frames as they arrive.

Nothing is sent to the sensor. Measurement frames are expected by default,
which is what the sensor pushes in active mode; use --ack to decode the nine
byte answers of question/answer mode instead.

Decode errors are printed as they happen and a statistics summary is printed
on exit (and every --stats-interval seconds when set).

Supports both serial and WebSocket connections.`,
	RunE: runRawLog,
}

func init() {
	rawLogCmd.Flags().BoolVar(&rawLogAck, "ack", false, "Decode nine byte answer frames instead of measurement frames")
	rawLogCmd.Flags().BoolVar(&rawLogHex, "hex", false, "Print the raw bytes of every frame")
	rawLogCmd.Flags().IntVar(&rawLogStatsInterval, "stats-interval", 0, "Print statistics every N seconds (0 to disable)")
	rootCmd.AddCommand(rawLogCmd)
}

func runRawLog(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, log, closer := setupLogger(ctx, os.Stderr)
	defer closer.Close()

	conn, err := OpenConnection(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	kind := zh06.KindMeasurement
	if rawLogAck {
		kind = zh06.KindAck
	}

	fmt.Printf("zhstat - Raw Frame Log\n")
	fmt.Printf("Connection: %s\n", conn)
	fmt.Printf("Decoding: %s frames\n", kind)
	fmt.Printf("Press Ctrl+C to exit\n\n")

	fl := newFrameLogger(os.Stdout, kind, time.Now())
	fl.hex = rawLogHex

	var statsTick <-chan time.Time
	if rawLogStatsInterval > 0 {
		t := time.NewTicker(time.Duration(rawLogStatsInterval) * time.Second)
		defer t.Stop()
		statsTick = t.C
	}

	poll := time.NewTicker(driver.DefaultTick)
	defer poll.Stop()

	for {
		select {
		case <-ctx.Done():
			fmt.Print("\n" + fl.stats.String())
			return nil
		case <-statsTick:
			fmt.Print(fl.stats.String())
		case now := <-poll.C:
			if err := fl.drain(now, conn); err != nil {
				if errors.Is(err, transport.ErrConnectionClosed) {
					log.Info("Connection closed")
				} else {
					log.WithError(err).Error("Read failed")
				}
				fmt.Print("\n" + fl.stats.String())
				return nil
			}
		}
	}
}

// frameLogger decodes a passive byte stream and prints every frame
type frameLogger struct {
	out      io.Writer
	decoder  *zh06.Decoder
	stats    *zh06.Statistics
	hex      bool
	lastByte time.Time
}

func newFrameLogger(out io.Writer, kind zh06.FrameKind, now time.Time) *frameLogger {
	dec := zh06.NewDecoder()
	dec.Expect(kind)
	return &frameLogger{
		out:      out,
		decoder:  dec,
		stats:    zh06.NewStatistics(now),
		lastByte: now,
	}
}

// drain decodes every byte src holds. It returns the source error once the
// source failed and is empty.
func (f *frameLogger) drain(now time.Time, src io.ByteReader) error {
	if now.Sub(f.lastByte) >= zh06.ResyncTimeout && f.decoder.Buffered() > 0 {
		f.stats.RecordError(zh06.ErrStaleFrame)
		fmt.Fprintf(f.out, "[%s] [ERROR] %v (%d bytes dropped)\n", now.Format("15:04:05.000"), zh06.ErrStaleFrame, f.decoder.Buffered())
		f.decoder.Reset()
	}

	received := false
	for {
		b, err := src.ReadByte()
		if errors.Is(err, transport.ErrNoData) {
			break
		}
		if err != nil {
			return err
		}
		received = true
		f.feed(now, b)
	}
	if received {
		f.lastByte = now
	}
	return nil
}

// feed decodes one byte
func (f *frameLogger) feed(now time.Time, b byte) {
	res, err := f.decoder.DecodeByte(b)
	f.stats.Update(now, res, f.decoder.Expecting(), err)

	timestamp := now.Format("15:04:05.000")
	switch res {
	case zh06.Reject:
		// Preamble misses are routine while looking for a frame start
		if !errors.Is(err, zh06.ErrFraming) {
			fmt.Fprintf(f.out, "[%s] [ERROR] %v\n", timestamp, err)
		}
	case zh06.Complete:
		frame := f.decoder.Frame()
		if frame.IsReading() {
			f.stats.Readings++
		}
		fmt.Fprintf(f.out, "[%s] %s\n", timestamp, zh06.FormatFrame(frame))
		if f.hex {
			fmt.Fprintf(f.out, "  %s\n", zh06.FormatHex(frame.Data))
		}
	}
}
