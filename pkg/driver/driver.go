// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package driver runs a ZH06 sensor: it cycles the fan, triggers readings,
// decodes the answers and publishes the concentrations to attached sinks.
//
// The driver is cooperative. Step processes whatever the transport has already
// buffered and returns; all waiting is expressed as timestamp comparisons that
// are re-evaluated on the next Step.
package driver

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Thermoquad/zhstat/pkg/zh06"
	"github.com/mdouchement/logger"
	"golang.org/x/time/rate"
)

// Observer is notified of driver traffic. Calls happen from Step with the
// driver locked; implementations must not call back into the driver.
type Observer interface {
	CommandSent(at time.Time, req zh06.Request)
	FrameDecoded(at time.Time, frame zh06.Frame, published bool)
}

// Option configures a Driver
type Option func(*Driver)

// WithLogger sets the driver logger
func WithLogger(l logger.Logger) Option {
	return func(d *Driver) { d.log = l }
}

// WithClock replaces the system clock
func WithClock(c Clock) Option {
	return func(d *Driver) { d.clock = c }
}

// WithOutputs attaches the reading sinks
func WithOutputs(o Outputs) Option {
	return func(d *Driver) { d.outputs = o }
}

// WithObserver registers an observer of commands and frames
func WithObserver(o Observer) Option {
	return func(d *Driver) { d.observer = o }
}

// WithWarningLimit limits how often frame warnings are logged
func WithWarningLimit(every time.Duration, burst int) Option {
	return func(d *Driver) { d.warnings = rate.NewLimiter(rate.Every(every), burst) }
}

// Status is a snapshot of the driver state
type Status struct {
	State           DutyState
	Pending         bool
	Warning         bool
	HasReading      bool
	Reading         zh06.Reading
	ReadingAt       time.Time
	LastMeasurement time.Time
	Statistics      zh06.Statistics
}

// Driver is a ZH06 driver instance
type Driver struct {
	mu sync.Mutex

	transport Transport
	cfg       Config
	outputs   Outputs
	clock     Clock
	log       logger.Logger
	warnings  *rate.Limiter
	observer  Observer

	decoder *zh06.Decoder
	stats   *zh06.Statistics

	state           DutyState
	initialised     bool
	pending         bool
	warning         bool
	lastByte        time.Time
	lastMeasurement time.Time
	fanOnAt         time.Time

	hasReading bool
	reading    zh06.Reading
	readingAt  time.Time
}

// New creates a driver on an open transport
func New(t Transport, cfg Config, opts ...Option) (*Driver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	d := &Driver{
		transport: t,
		cfg:       cfg,
		clock:     SystemClock{},
		log:       logger.WrapSlogHandler(slog.DiscardHandler),
		warnings:  rate.NewLimiter(rate.Every(10*time.Second), 3),
		decoder:   zh06.NewDecoder(),
	}
	for _, opt := range opts {
		opt(d)
	}

	now := d.clock.Now()
	d.stats = zh06.NewStatistics(now)
	d.lastByte = now
	d.lastMeasurement = now
	if cfg.Cycling() {
		d.state = StateIdle
	} else {
		d.state = StateContinuous
	}

	d.checkBaudRate()
	return d, nil
}

func (d *Driver) checkBaudRate() {
	br, ok := d.transport.(BaudRater)
	if !ok {
		return
	}
	if baud := br.BaudRate(); baud != 0 && baud != zh06.BaudRate {
		d.log.Warnf("Transport runs at %d baud, the sensor needs %d", baud, zh06.BaudRate)
	}
}

// Config returns the driver configuration
func (d *Driver) Config() Config {
	return d.cfg
}

// LogConfig dumps the driver configuration to the logger
func (d *Driver) LogConfig() {
	attached := func(c Channel) string {
		if d.outputs.Sink(c) != nil {
			return "attached"
		}
		return "not attached"
	}

	d.log.Info("ZH06:")
	for _, c := range Channels {
		d.log.Infof("  %s: %s", c.Label(), attached(c))
	}
	d.log.Infof("  Update interval: %s (%s)", d.cfg.UpdateInterval, d.cfg.Mode())
	if br, ok := d.transport.(BaudRater); ok && br.BaudRate() != 0 {
		d.log.Infof("  Baud rate: %d", br.BaudRate())
	}
	d.checkBaudRate()
}

// Status returns a snapshot of the driver state
func (d *Driver) Status() Status {
	d.mu.Lock()
	defer d.mu.Unlock()

	return Status{
		State:           d.state,
		Pending:         d.pending,
		Warning:         d.warning,
		HasReading:      d.hasReading,
		Reading:         d.reading,
		ReadingAt:       d.readingAt,
		LastMeasurement: d.lastMeasurement,
		Statistics:      *d.stats,
	}
}

// Step advances the duty cycle and consumes every byte the transport holds.
// It never blocks. Errors come from the transport only; the driver stays
// usable and the next Step is the retry.
func (d *Driver) Step() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.clock.Now()

	proceed, err := d.dutyCycle(now)
	if err != nil || !proceed {
		return err
	}

	if now.Sub(d.lastByte) >= zh06.ResyncTimeout && d.decoder.Buffered() > 0 {
		d.stats.RecordError(zh06.ErrStaleFrame)
		d.log.Debugf("Dropping %d byte partial frame after %s of silence", d.decoder.Buffered(), now.Sub(d.lastByte))
		d.decoder.Reset()
	}

	if d.transport.Available() == 0 {
		return nil
	}

	d.lastByte = now
	for d.transport.Available() > 0 {
		b, err := d.transport.Receive()
		if err != nil {
			return fmt.Errorf("%w: read: %w", ErrTransport, err)
		}

		kind := d.decoder.Expecting()
		res, derr := d.decoder.DecodeByte(b)
		d.stats.Update(now, res, kind, derr)

		switch res {
		case zh06.Reject:
			d.rejected(now, derr)
		case zh06.Complete:
			if err := d.completed(now, d.decoder.Frame()); err != nil {
				return err
			}
		}
	}
	return nil
}

// dutyCycle runs the fan state machine. It reports whether the byte stream
// should be processed in this tick.
func (d *Driver) dutyCycle(now time.Time) (bool, error) {
	if !d.cfg.Cycling() {
		if !d.initialised {
			if err := d.send(now, zh06.SetReportingMode(zh06.ReportingActive)); err != nil {
				return false, err
			}
			d.initialised = true
		}
		return now.Sub(d.lastMeasurement) >= d.cfg.UpdateInterval, nil
	}

	if !d.initialised {
		if err := d.send(now, zh06.SetReportingMode(zh06.ReportingQuery)); err != nil {
			return false, err
		}
		if err := d.send(now, zh06.SetPowerMode(zh06.PowerNormal)); err != nil {
			return false, err
		}
		d.initialised = true
	}

	switch d.state {
	case StateIdle:
		// Power the fan early so it has settled when the reading is due
		if now.Sub(d.lastMeasurement) < d.cfg.UpdateInterval-zh06.StabilisingTime {
			return false, nil
		}
		if err := d.send(now, zh06.SetPowerMode(zh06.PowerNormal)); err != nil {
			return false, err
		}
		d.state = StateStabilising
		d.fanOnAt = now
		return false, nil

	case StateStabilising:
		if now.Sub(d.fanOnAt) < zh06.StabilisingTime {
			return false, nil
		}
		// Leftover command echoes
		drained := 0
		for d.transport.Available() > 0 {
			if _, err := d.transport.Receive(); err != nil {
				return false, fmt.Errorf("%w: drain: %w", ErrTransport, err)
			}
			drained++
		}
		if drained > 0 {
			d.log.Debugf("Discarded %d stray bytes before triggering", drained)
		}
		if err := d.send(now, zh06.TriggerMeasurement()); err != nil {
			return false, err
		}
		d.state = StateWaiting
		return true, nil

	case StateWaiting:
		return true, nil

	default:
		// Continuous is only used when not cycling
		d.state = StateIdle
		return false, nil
	}
}

func (d *Driver) send(now time.Time, req zh06.Request) error {
	d.decoder.Reset()
	frame := req.Encode()
	for _, b := range frame {
		if err := d.transport.Send(b); err != nil {
			return fmt.Errorf("%w: %w", ErrTransport, err)
		}
	}
	d.pending = req.Command.ExpectsResponse()
	d.decoder.Expect(req.Command.ResponseKind())
	d.log.Debugf("Sent %s", req)

	if d.observer != nil {
		d.observer.CommandSent(now, req)
	}
	return nil
}

func (d *Driver) rejected(now time.Time, err error) {
	switch {
	case errors.Is(err, zh06.ErrLengthMismatch), errors.Is(err, zh06.ErrChecksumMismatch):
		d.warning = true
		if d.warnings.AllowN(now, 1) {
			d.log.WithError(err).Warn("Dropped frame")
		}
	default:
		// Routine while resynchronising
		d.log.Debugf("Resync: %v", err)
	}
}

func (d *Driver) completed(now time.Time, frame zh06.Frame) error {
	published := false
	if frame.IsReading() && d.pending {
		r, err := frame.Reading()
		if err == nil {
			d.log.Debugf("Got %s", r)
			d.outputs.Publish(r)
			d.stats.Readings++
			d.hasReading = true
			d.reading = r
			d.readingAt = now
			published = true
		}
	}

	d.lastMeasurement = now
	d.pending = false
	d.decoder.Expect(zh06.KindMeasurement)
	d.warning = false

	if d.observer != nil {
		d.observer.FrameDecoded(now, frame, published)
	}

	if d.cfg.Cycling() {
		// Spin the fan down until the next reading is due
		d.state = StateIdle
		if err := d.send(now, zh06.SetPowerMode(zh06.PowerStandby)); err != nil {
			return err
		}
	}
	return nil
}
