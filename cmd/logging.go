// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"
	"regexp"

	"github.com/mdouchement/logger"
	"gopkg.in/natefinch/lumberjack.v2"
)

// setupLogger builds the command logger and stores it in ctx. Logs go to the
// rotated --log-file when set, to fallback otherwise. The returned closer
// flushes the log file.
func setupLogger(ctx context.Context, fallback io.Writer) (context.Context, logger.Logger, io.Closer) {
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}

	out := fallback
	colors := fallback == os.Stderr || fallback == os.Stdout
	var closer io.Closer = nopCloser{}
	if cfg.LogFile != "" {
		lj := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}
		out, closer, colors = lj, lj, false
	}

	h := logger.NewSlogTextHandler(out, &logger.SlogTextOption{
		Level:           level,
		ForceColors:     colors,
		ForceFormatting: true,
		PrefixRE:        regexp.MustCompile(`^(\[.*?\])\s`),
	})
	log := logger.WrapSlogHandler(h)
	return logger.WithLogger(ctx, log), log, closer
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
