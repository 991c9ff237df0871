// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package driver

import (
	"testing"

	"github.com/Thermoquad/zhstat/pkg/zh06"
	"github.com/stretchr/testify/assert"
)

func TestOutputs_Publish(t *testing.T) {
	pm1, pm10 := &recorder{}, &recorder{}
	o := Outputs{PM1_0: pm1, PM10_0: pm10}
	assert.True(t, o.Attached())
	assert.Nil(t, o.Sink(ChannelPM2_5))

	o.Publish(zh06.Reading{PM1_0: 1, PM2_5: 2, PM10_0: 3})
	assert.Equal(t, []float64{1}, pm1.values)
	assert.Equal(t, []float64{3}, pm10.values)

	assert.False(t, Outputs{}.Attached())
	Outputs{}.Publish(zh06.Reading{PM1_0: 1})
}

func TestCombine(t *testing.T) {
	a, b, c := &recorder{}, &recorder{}, &recorder{}
	var fn []float64
	f := SinkFunc(func(v float64) { fn = append(fn, v) })

	o := Combine(
		Outputs{PM1_0: a, PM2_5: b},
		Outputs{PM1_0: c},
		Outputs{PM2_5: f},
	)
	assert.Nil(t, o.PM10_0)

	o.Publish(zh06.Reading{PM1_0: 7, PM2_5: 8, PM10_0: 9})
	assert.Equal(t, []float64{7}, a.values)
	assert.Equal(t, []float64{7}, c.values)
	assert.Equal(t, []float64{8}, b.values)
	assert.Equal(t, []float64{8}, fn)
}

func TestChannel_Names(t *testing.T) {
	tests := []struct {
		channel Channel
		name    string
		label   string
	}{
		{ChannelPM1_0, "pm1_0", "PM1.0"},
		{ChannelPM2_5, "pm2_5", "PM2.5"},
		{ChannelPM10_0, "pm10_0", "PM10.0"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.name, tt.channel.String())
		assert.Equal(t, tt.label, tt.channel.Label())
	}
	assert.Equal(t, "IDLE", StateIdle.String())
	assert.Equal(t, "CONTINUOUS", StateContinuous.String())
}
