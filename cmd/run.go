// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Thermoquad/zhstat/pkg/config"
	"github.com/Thermoquad/zhstat/pkg/driver"
	"github.com/Thermoquad/zhstat/pkg/sink"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	runInterval    time.Duration
	runFormat      string
	runMetricsAddr string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Drive the sensor and print readings",
	Long: `Drive the sensor and write every reading to stdout.

Readings are written as text lines, JSON lines or a CBOR stream (--format).
With --metrics-addr the readings and driver statistics are also exported
for Prometheus on /metrics.

Only readings answering a trigger are published. Use an update interval above
45s so the fan is switched off between triggered readings. With an interval of
0 (or up to 45s) the sensor is left in active mode: frames are decoded and
counted, but nothing is written.`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().DurationVarP(&runInterval, "interval", "i", 0, "Update interval (0 for continuous)")
	runCmd.Flags().StringVarP(&runFormat, "format", "f", "text", "Output format: text, json or cbor")
	runCmd.Flags().StringVar(&runMetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9106)")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	if flags.Changed("interval") {
		cfg.UpdateInterval = config.Duration{Duration: runInterval}
	}
	if flags.Changed("format") {
		cfg.Format = runFormat
	}
	if flags.Changed("metrics-addr") {
		cfg.MetricsAddr = runMetricsAddr
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	format, _ := sink.ParseFormat(cfg.Format)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ctx, log, closer := setupLogger(ctx, os.Stderr)
	defer closer.Close()

	conn, err := OpenConnection(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()
	log.Infof("Connection: %s", conn)

	writer := sink.NewWriter(os.Stdout, format)
	outputs := []driver.Outputs{writer.Outputs()}

	var metrics *sink.Metrics
	reg := sink.NewRegistry()
	if cfg.MetricsAddr != "" {
		metrics = sink.NewMetrics(reg)
		outputs = append(outputs, metrics.Outputs())
	}

	s, err := newSession(conn, log, driver.Combine(outputs...))
	if err != nil {
		return err
	}
	s.driver.LogConfig()

	g, ctx := errgroup.WithContext(ctx)
	s.start(ctx, g, nil)

	if metrics != nil {
		reg.MustRegister(sink.NewStatusCollector(s.driver))
		serveMetrics(ctx, g, cfg.MetricsAddr, sink.Handler(reg))
		log.Infof("Metrics: http://%s/metrics", cfg.MetricsAddr)
	}

	err = g.Wait()

	status := s.driver.Status()
	fmt.Fprint(os.Stderr, "\n"+status.Statistics.String())

	if werr := writer.Err(); werr != nil {
		return fmt.Errorf("output: %w", werr)
	}
	return err
}

// serveMetrics runs an HTTP server in g until ctx is done
func serveMetrics(ctx context.Context, g *errgroup.Group, addr string, h http.Handler) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", h)

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("metrics: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
}
