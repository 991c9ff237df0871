// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/Thermoquad/zhstat/pkg/transport"
	"github.com/Thermoquad/zhstat/pkg/zh06"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// byteSource hands out queued bytes, then err
type byteSource struct {
	data []byte
	err  error
}

func (s *byteSource) ReadByte() (byte, error) {
	if len(s.data) == 0 {
		if s.err != nil {
			return 0, s.err
		}
		return 0, transport.ErrNoData
	}
	b := s.data[0]
	s.data = s.data[1:]
	return b, nil
}

func triggerAck(pm1, pm25, pm10 uint16) []byte {
	frame := []byte{
		zh06.CommandStart, byte(zh06.CmdTriggerMeasurement),
		byte(pm25 >> 8), byte(pm25),
		byte(pm10 >> 8), byte(pm10),
		byte(pm1 >> 8), byte(pm1),
	}
	return append(frame, zh06.CommandChecksum(frame))
}

func measurementFrame() []byte {
	frame := []byte{zh06.MeasurementStart1, zh06.MeasurementStart2, 0x00, zh06.MeasurementPayloadLength}
	frame = append(frame, make([]byte, zh06.MeasurementPayloadLength-2)...)
	sum := zh06.MeasurementChecksum(frame)
	return append(frame, byte(sum>>8), byte(sum))
}

func TestFrameLoggerAck(t *testing.T) {
	var out bytes.Buffer
	start := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	fl := newFrameLogger(&out, zh06.KindAck, start)
	fl.hex = true

	src := &byteSource{data: append([]byte{0x00, 0x13}, triggerAck(5, 12, 20)...)}
	require.NoError(t, fl.drain(start, src))

	assert.EqualValues(t, 1, fl.stats.AckFrames)
	assert.EqualValues(t, 1, fl.stats.Readings)
	assert.EqualValues(t, 2, fl.stats.FramingErrors)
	assert.Contains(t, out.String(), "ACK TRIGGER_MEASUREMENT")
	assert.Contains(t, out.String(), "PM1.0=5 PM2.5=12 PM10.0=20")
	assert.Contains(t, out.String(), "FF 86")
	assert.NotContains(t, out.String(), "[ERROR]", "preamble misses are not printed")
}

func TestFrameLoggerMeasurement(t *testing.T) {
	var out bytes.Buffer
	start := time.Now()
	fl := newFrameLogger(&out, zh06.KindMeasurement, start)

	src := &byteSource{data: measurementFrame()}
	require.NoError(t, fl.drain(start, src))

	assert.EqualValues(t, 1, fl.stats.MeasurementFrames)
	assert.Zero(t, fl.stats.Readings)
	assert.Contains(t, out.String(), "MEASUREMENT len=32")
}

func TestFrameLoggerChecksumError(t *testing.T) {
	var out bytes.Buffer
	start := time.Now()
	fl := newFrameLogger(&out, zh06.KindAck, start)

	frame := triggerAck(1, 2, 3)
	frame[8] ^= 0xFF
	require.NoError(t, fl.drain(start, &byteSource{data: frame}))

	assert.EqualValues(t, 1, fl.stats.ChecksumErrors)
	assert.Contains(t, out.String(), "[ERROR]")
	assert.Contains(t, out.String(), "checksum mismatch")
}

func TestFrameLoggerStaleFrame(t *testing.T) {
	var out bytes.Buffer
	start := time.Now()
	fl := newFrameLogger(&out, zh06.KindAck, start)

	frame := triggerAck(1, 2, 3)
	require.NoError(t, fl.drain(start, &byteSource{data: frame[:4]}))
	assert.Equal(t, 4, fl.decoder.Buffered())

	// Still inside the resync window
	require.NoError(t, fl.drain(start.Add(zh06.ResyncTimeout-time.Millisecond), &byteSource{}))
	assert.Equal(t, 4, fl.decoder.Buffered())

	require.NoError(t, fl.drain(start.Add(zh06.ResyncTimeout), &byteSource{}))
	assert.Zero(t, fl.decoder.Buffered())
	assert.EqualValues(t, 1, fl.stats.StaleFrames)
	assert.Contains(t, out.String(), "4 bytes dropped")

	// A fresh frame decodes after the resync
	require.NoError(t, fl.drain(start.Add(time.Second), &byteSource{data: frame}))
	assert.EqualValues(t, 1, fl.stats.AckFrames)
}

func TestFrameLoggerSourceError(t *testing.T) {
	fl := newFrameLogger(io.Discard, zh06.KindAck, time.Now())

	src := &byteSource{data: triggerAck(1, 2, 3), err: transport.ErrConnectionClosed}
	err := fl.drain(time.Now(), src)
	assert.True(t, errors.Is(err, transport.ErrConnectionClosed))
	assert.EqualValues(t, 1, fl.stats.AckFrames, "queued bytes are decoded before the error")
}
