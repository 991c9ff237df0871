// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package zh06

import (
	"errors"
	"fmt"
	"time"
)

// Statistics tracks frame statistics and error rates
type Statistics struct {
	StartTime      time.Time
	LastUpdateTime time.Time

	// Counters
	Bytes             uint64
	MeasurementFrames uint64
	AckFrames         uint64
	FramingErrors     uint64
	LengthMismatches  uint64
	ChecksumErrors    uint64
	StaleFrames       uint64
	Readings          uint64

	// Rates (calculated)
	FrameRate float64 // frames/sec
	ErrorRate float64 // errors/sec
}

// NewStatistics creates a new statistics tracker
func NewStatistics(now time.Time) *Statistics {
	return &Statistics{
		StartTime:      now,
		LastUpdateTime: now,
	}
}

// Update records the outcome of one decoded byte
func (s *Statistics) Update(now time.Time, res Result, kind FrameKind, err error) {
	s.Bytes++
	s.LastUpdateTime = now

	switch res {
	case Complete:
		if kind == KindAck {
			s.AckFrames++
		} else {
			s.MeasurementFrames++
		}
	case Reject:
		s.RecordError(err)
	}
}

// RecordError classifies a decoder error into its counter
func (s *Statistics) RecordError(err error) {
	switch {
	case err == nil:
	case errors.Is(err, ErrChecksumMismatch):
		s.ChecksumErrors++
	case errors.Is(err, ErrLengthMismatch):
		s.LengthMismatches++
	case errors.Is(err, ErrStaleFrame):
		s.StaleFrames++
	default:
		s.FramingErrors++
	}
}

// Frames returns the number of completed frames of both kinds
func (s *Statistics) Frames() uint64 {
	return s.MeasurementFrames + s.AckFrames
}

// Errors returns the number of errors worth warning about.
// Framing errors are routine while resynchronising and are not included.
func (s *Statistics) Errors() uint64 {
	return s.LengthMismatches + s.ChecksumErrors
}

// CalculateRates calculates frame and error rates up to now
func (s *Statistics) CalculateRates(now time.Time) {
	elapsed := now.Sub(s.StartTime).Seconds()
	if elapsed > 0 {
		s.FrameRate = float64(s.Frames()) / elapsed
		s.ErrorRate = float64(s.Errors()) / elapsed
	}
}

// String returns a formatted statistics summary
func (s *Statistics) String() string {
	s.CalculateRates(s.LastUpdateTime)

	var checksumPercent float64
	if attempts := s.Frames() + s.ChecksumErrors; attempts > 0 {
		checksumPercent = float64(s.ChecksumErrors) * 100.0 / float64(attempts)
	}

	elapsed := s.LastUpdateTime.Sub(s.StartTime)

	result := fmt.Sprintf("=== Statistics (%.0f seconds) ===\n", elapsed.Seconds())
	result += fmt.Sprintf("Bytes:           %8d\n", s.Bytes)
	result += fmt.Sprintf("Measurement:     %8d\n", s.MeasurementFrames)
	result += fmt.Sprintf("Ack:             %8d\n", s.AckFrames)
	result += fmt.Sprintf("Readings:        %8d\n", s.Readings)

	if s.ChecksumErrors > 0 {
		result += fmt.Sprintf("Checksum Errors: %8d (%.1f%%)\n", s.ChecksumErrors, checksumPercent)
	}
	if s.LengthMismatches > 0 {
		result += fmt.Sprintf("Length Mismatch: %8d\n", s.LengthMismatches)
	}
	if s.FramingErrors > 0 {
		result += fmt.Sprintf("Framing Errors:  %8d\n", s.FramingErrors)
	}
	if s.StaleFrames > 0 {
		result += fmt.Sprintf("Stale Frames:    %8d\n", s.StaleFrames)
	}

	result += fmt.Sprintf("Frame Rate:      %8.1f frames/sec\n", s.FrameRate)
	result += fmt.Sprintf("Error Rate:      %8.1f errors/sec\n", s.ErrorRate)
	result += "================================\n"

	return result
}
