// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package driver

import (
	"fmt"

	"github.com/Thermoquad/zhstat/pkg/zh06"
)

// Sink receives published concentrations in µg/m³
type Sink interface {
	Publish(value float64)
}

// SinkFunc adapts a function to a Sink
type SinkFunc func(value float64)

// Publish calls f(value)
func (f SinkFunc) Publish(value float64) { f(value) }

// Channel identifies one of the three particulate outputs
type Channel int

const (
	ChannelPM1_0 Channel = iota
	ChannelPM2_5
	ChannelPM10_0
)

// Channels lists every output in publish order
var Channels = []Channel{ChannelPM1_0, ChannelPM2_5, ChannelPM10_0}

// String returns the metric-friendly name of the channel
func (c Channel) String() string {
	switch c {
	case ChannelPM1_0:
		return "pm1_0"
	case ChannelPM2_5:
		return "pm2_5"
	case ChannelPM10_0:
		return "pm10_0"
	default:
		return fmt.Sprintf("channel_%d", int(c))
	}
}

// Label returns the display name of the channel
func (c Channel) Label() string {
	switch c {
	case ChannelPM1_0:
		return "PM1.0"
	case ChannelPM2_5:
		return "PM2.5"
	case ChannelPM10_0:
		return "PM10.0"
	default:
		return c.String()
	}
}

// Value picks the channel's concentration out of a reading
func (c Channel) Value(r zh06.Reading) uint16 {
	switch c {
	case ChannelPM1_0:
		return r.PM1_0
	case ChannelPM2_5:
		return r.PM2_5
	case ChannelPM10_0:
		return r.PM10_0
	default:
		return 0
	}
}

// Outputs holds the optional sink of each channel. A nil sink is not attached
// and is never written.
type Outputs struct {
	PM1_0  Sink
	PM2_5  Sink
	PM10_0 Sink
}

// Sink returns the sink attached to c, or nil
func (o Outputs) Sink(c Channel) Sink {
	switch c {
	case ChannelPM1_0:
		return o.PM1_0
	case ChannelPM2_5:
		return o.PM2_5
	case ChannelPM10_0:
		return o.PM10_0
	default:
		return nil
	}
}

// Attached reports whether any channel has a sink
func (o Outputs) Attached() bool {
	return o.PM1_0 != nil || o.PM2_5 != nil || o.PM10_0 != nil
}

// Publish writes each concentration of r to its attached sink
func (o Outputs) Publish(r zh06.Reading) {
	for _, c := range Channels {
		if s := o.Sink(c); s != nil {
			s.Publish(float64(c.Value(r)))
		}
	}
}

// Combine merges several output sets. Channels attached in more than one set
// publish to all of them, in argument order.
func Combine(sets ...Outputs) Outputs {
	pick := func(c Channel) Sink {
		var sinks multiSink
		for _, o := range sets {
			if s := o.Sink(c); s != nil {
				sinks = append(sinks, s)
			}
		}
		switch len(sinks) {
		case 0:
			return nil
		case 1:
			return sinks[0]
		default:
			return sinks
		}
	}
	return Outputs{
		PM1_0:  pick(ChannelPM1_0),
		PM2_5:  pick(ChannelPM2_5),
		PM10_0: pick(ChannelPM10_0),
	}
}

type multiSink []Sink

func (m multiSink) Publish(value float64) {
	for _, s := range m {
		s.Publish(value)
	}
}
