// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package sink

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/Thermoquad/zhstat/pkg/driver"
	"github.com/fxamacker/cbor/v2"
)

// Format selects the record encoding of a Writer
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatCBOR Format = "cbor"
)

// ParseFormat validates a format name
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatText, FormatJSON, FormatCBOR:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (use text, json or cbor)", s)
	}
}

// Record is one published value
type Record struct {
	TimestampMs int64   `json:"ts_ms" cbor:"1,keyasint"`
	Channel     string  `json:"channel" cbor:"2,keyasint"`
	Value       float64 `json:"value" cbor:"3,keyasint"`
}

// Writer writes every published value as a record.
// JSON is one object per line, CBOR a sequence of maps with integer keys.
type Writer struct {
	mu     sync.Mutex
	w      io.Writer
	format Format
	now    func() time.Time
	json   *json.Encoder
	cbor   *cbor.Encoder
	err    error
}

// NewWriter creates a record writer
func NewWriter(w io.Writer, format Format) *Writer {
	return &Writer{
		w:      w,
		format: format,
		now:    time.Now,
		json:   json.NewEncoder(w),
		cbor:   cbor.NewEncoder(w),
	}
}

// Outputs returns a sink for every channel
func (w *Writer) Outputs() driver.Outputs {
	sink := func(c driver.Channel) driver.Sink {
		return driver.SinkFunc(func(v float64) { w.write(c, v) })
	}
	return driver.Outputs{
		PM1_0:  sink(driver.ChannelPM1_0),
		PM2_5:  sink(driver.ChannelPM2_5),
		PM10_0: sink(driver.ChannelPM10_0),
	}
}

// Err returns the first write error. Sinks cannot fail, so errors are kept
// here for the caller to check.
func (w *Writer) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

func (w *Writer) write(c driver.Channel, v float64) {
	w.mu.Lock()
	defer w.mu.Unlock()

	ts := w.now()
	rec := Record{TimestampMs: ts.UnixMilli(), Channel: c.String(), Value: v}

	var err error
	switch w.format {
	case FormatJSON:
		err = w.json.Encode(rec)
	case FormatCBOR:
		err = w.cbor.Encode(rec)
	default:
		_, err = fmt.Fprintf(w.w, "[%s] %-6s %5.0f µg/m³\n", ts.Format("15:04:05.000"), c.Label(), v)
	}
	if err != nil && w.err == nil {
		w.err = err
	}
}
