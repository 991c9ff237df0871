// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package sink holds consumers of driver readings: a Prometheus exporter and
// a record writer.
package sink

import (
	"net/http"

	"github.com/Thermoquad/zhstat/pkg/driver"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "zhstat"

// NewRegistry creates a registry with the Go and process collectors
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Handler returns the metrics HTTP handler
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}

// Metrics exports published concentrations as gauges
type Metrics struct {
	Concentration *prometheus.GaugeVec // labels: size=pm1_0|pm2_5|pm10_0
	Published     *prometheus.CounterVec
}

// NewMetrics registers and returns the reading metrics
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Concentration: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "pm_concentration_ugm3",
			Help:      "Last published particulate concentration in µg/m³.",
		}, []string{"size"}),
		Published: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "pm_published_total",
			Help:      "Readings published per channel.",
		}, []string{"size"}),
	}
	reg.MustRegister(m.Concentration, m.Published)
	return m
}

// Outputs returns a sink for every channel
func (m *Metrics) Outputs() driver.Outputs {
	sink := func(c driver.Channel) driver.Sink {
		gauge := m.Concentration.WithLabelValues(c.String())
		counter := m.Published.WithLabelValues(c.String())
		return driver.SinkFunc(func(v float64) {
			gauge.Set(v)
			counter.Inc()
		})
	}
	return driver.Outputs{
		PM1_0:  sink(driver.ChannelPM1_0),
		PM2_5:  sink(driver.ChannelPM2_5),
		PM10_0: sink(driver.ChannelPM10_0),
	}
}

// StatusSource is implemented by *driver.Driver
type StatusSource interface {
	Status() driver.Status
}

// StatusCollector exports driver statistics at scrape time
type StatusCollector struct {
	src StatusSource

	bytes     *prometheus.Desc
	frames    *prometheus.Desc
	errors    *prometheus.Desc
	readings  *prometheus.Desc
	state     *prometheus.Desc
	pending   *prometheus.Desc
	warning   *prometheus.Desc
	lastFrame *prometheus.Desc
}

// NewStatusCollector creates a collector reading snapshots from src
func NewStatusCollector(src StatusSource) *StatusCollector {
	desc := func(name, help string, labels ...string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "", name), help, labels, nil)
	}
	return &StatusCollector{
		src:       src,
		bytes:     desc("bytes_received_total", "Bytes decoded from the sensor."),
		frames:    desc("frames_total", "Checksum-valid frames by kind.", "kind"),
		errors:    desc("frame_errors_total", "Dropped frames by reason.", "reason"),
		readings:  desc("readings_total", "Readings published."),
		state:     desc("duty_state", "Current fan duty-cycle state.", "state"),
		pending:   desc("response_pending", "1 while a triggered reading is outstanding."),
		warning:   desc("warning", "1 after a length or checksum error until the next good frame."),
		lastFrame: desc("last_measurement_timestamp_seconds", "Time of the last completed frame."),
	}
}

// Describe implements prometheus.Collector
func (c *StatusCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.bytes
	ch <- c.frames
	ch <- c.errors
	ch <- c.readings
	ch <- c.state
	ch <- c.pending
	ch <- c.warning
	ch <- c.lastFrame
}

// Collect implements prometheus.Collector
func (c *StatusCollector) Collect(ch chan<- prometheus.Metric) {
	s := c.src.Status()
	st := s.Statistics

	counter := func(d *prometheus.Desc, v uint64, labels ...string) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, float64(v), labels...)
	}
	gauge := func(d *prometheus.Desc, v float64, labels ...string) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.GaugeValue, v, labels...)
	}

	counter(c.bytes, st.Bytes)
	counter(c.frames, st.MeasurementFrames, "measurement")
	counter(c.frames, st.AckFrames, "ack")
	counter(c.errors, st.FramingErrors, "framing")
	counter(c.errors, st.LengthMismatches, "length")
	counter(c.errors, st.ChecksumErrors, "checksum")
	counter(c.errors, st.StaleFrames, "stale")
	counter(c.readings, st.Readings)

	for _, state := range []driver.DutyState{driver.StateIdle, driver.StateStabilising, driver.StateWaiting, driver.StateContinuous} {
		gauge(c.state, boolFloat(s.State == state), state.String())
	}
	gauge(c.pending, boolFloat(s.Pending))
	gauge(c.warning, boolFloat(s.Warning))
	gauge(c.lastFrame, float64(s.LastMeasurement.UnixMilli())/1e3)
}

func boolFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
