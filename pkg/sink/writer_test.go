// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package sink

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/Thermoquad/zhstat/pkg/zh06"
	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2025, 6, 1, 12, 30, 15, 250*int(time.Millisecond), time.UTC)

func newTestWriter(w io.Writer, f Format) *Writer {
	wr := NewWriter(w, f)
	wr.now = func() time.Time { return fixedTime }
	return wr
}

func TestParseFormat(t *testing.T) {
	for _, s := range []string{"text", "json", "cbor"} {
		f, err := ParseFormat(s)
		require.NoError(t, err)
		assert.Equal(t, Format(s), f)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestWriter_Text(t *testing.T) {
	var buf bytes.Buffer
	w := newTestWriter(&buf, FormatText)
	w.Outputs().Publish(zh06.Reading{PM1_0: 5, PM2_5: 10, PM10_0: 20})

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 3)
	assert.Contains(t, string(lines[0]), "[12:30:15.250] PM1.0")
	assert.Contains(t, string(lines[1]), "PM2.5")
	assert.Contains(t, string(lines[1]), "10 µg/m³")
	assert.NoError(t, w.Err())
}

func TestWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	w := newTestWriter(&buf, FormatJSON)
	w.Outputs().Publish(zh06.Reading{PM1_0: 5, PM2_5: 10, PM10_0: 20})

	var got []Record
	sc := bufio.NewScanner(&buf)
	for sc.Scan() {
		var r Record
		require.NoError(t, json.Unmarshal(sc.Bytes(), &r))
		got = append(got, r)
	}

	ts := fixedTime.UnixMilli()
	assert.Equal(t, []Record{
		{TimestampMs: ts, Channel: "pm1_0", Value: 5},
		{TimestampMs: ts, Channel: "pm2_5", Value: 10},
		{TimestampMs: ts, Channel: "pm10_0", Value: 20},
	}, got)
}

func TestWriter_CBOR(t *testing.T) {
	var buf bytes.Buffer
	w := newTestWriter(&buf, FormatCBOR)
	w.Outputs().PM2_5.Publish(12)

	// Integer keys, not field names
	var raw map[int]any
	require.NoError(t, cbor.Unmarshal(buf.Bytes(), &raw))
	assert.Contains(t, raw, 1)
	assert.Contains(t, raw, 2)
	assert.Contains(t, raw, 3)

	var rec Record
	require.NoError(t, cbor.NewDecoder(bytes.NewReader(buf.Bytes())).Decode(&rec))
	assert.Equal(t, Record{TimestampMs: fixedTime.UnixMilli(), Channel: "pm2_5", Value: 12}, rec)
}

type failingWriter struct{}

var errDiskFull = errors.New("disk full")

func (failingWriter) Write([]byte) (int, error) { return 0, errDiskFull }

func TestWriter_ErrorKept(t *testing.T) {
	w := newTestWriter(failingWriter{}, FormatJSON)
	w.Outputs().Publish(zh06.Reading{})
	assert.ErrorIs(t, w.Err(), errDiskFull)
}
