// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package sink

import (
	"strings"
	"testing"

	"github.com/Thermoquad/zhstat/pkg/driver"
	"github.com/Thermoquad/zhstat/pkg/zh06"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Outputs(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	out := m.Outputs()
	out.Publish(zh06.Reading{PM1_0: 5, PM2_5: 10, PM10_0: 20})
	out.Publish(zh06.Reading{PM1_0: 6, PM2_5: 11, PM10_0: 21})

	assert.Equal(t, 6.0, testutil.ToFloat64(m.Concentration.WithLabelValues("pm1_0")))
	assert.Equal(t, 11.0, testutil.ToFloat64(m.Concentration.WithLabelValues("pm2_5")))
	assert.Equal(t, 21.0, testutil.ToFloat64(m.Concentration.WithLabelValues("pm10_0")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Published.WithLabelValues("pm2_5")))
}

type staticStatus driver.Status

func (s staticStatus) Status() driver.Status { return driver.Status(s) }

func TestStatusCollector(t *testing.T) {
	src := staticStatus{
		State:   driver.StateWaiting,
		Pending: true,
		Warning: true,
		Statistics: zh06.Statistics{
			Bytes:             96,
			MeasurementFrames: 2,
			AckFrames:         1,
			ChecksumErrors:    4,
			Readings:          1,
		},
	}
	c := NewStatusCollector(src)

	expected := `
# HELP zhstat_duty_state Current fan duty-cycle state.
# TYPE zhstat_duty_state gauge
zhstat_duty_state{state="CONTINUOUS"} 0
zhstat_duty_state{state="IDLE"} 0
zhstat_duty_state{state="STABILISING"} 0
zhstat_duty_state{state="WAITING"} 1
# HELP zhstat_frames_total Checksum-valid frames by kind.
# TYPE zhstat_frames_total counter
zhstat_frames_total{kind="ack"} 1
zhstat_frames_total{kind="measurement"} 2
# HELP zhstat_readings_total Readings published.
# TYPE zhstat_readings_total counter
zhstat_readings_total 1
# HELP zhstat_warning 1 after a length or checksum error until the next good frame.
# TYPE zhstat_warning gauge
zhstat_warning 1
`
	err := testutil.CollectAndCompare(c, strings.NewReader(expected),
		"zhstat_duty_state", "zhstat_frames_total", "zhstat_readings_total", "zhstat_warning")
	require.NoError(t, err)

	// Labelled descriptors yield one sample per label value
	assert.Equal(t, 15, testutil.CollectAndCount(c))
}

func TestStatusCollector_Register(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(NewStatusCollector(staticStatus{})))

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["zhstat_bytes_received_total"])
	assert.True(t, names["go_goroutines"])
}
