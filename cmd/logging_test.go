// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogger(t *testing.T) {
	t.Cleanup(func() { cfg.Debug, cfg.LogFile = false, "" })

	var buf bytes.Buffer
	cfg.Debug = false
	_, log, closer := setupLogger(context.Background(), &buf)
	log.Debug("hidden")
	log.Info("[ZH06] shown")
	require.NoError(t, closer.Close())

	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.NotContains(t, buf.String(), "\x1b[", "no colours on a plain writer")

	buf.Reset()
	cfg.LogFile = filepath.Join(t.TempDir(), "zhstat.log")
	_, log, closer = setupLogger(context.Background(), &buf)
	log.Info("to file")
	require.NoError(t, closer.Close())
	assert.Empty(t, buf.String(), "log file replaces the fallback")
	assert.FileExists(t, cfg.LogFile)
}
