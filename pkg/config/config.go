// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package config loads the zhstat configuration file
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/Thermoquad/zhstat/pkg/driver"
	"github.com/Thermoquad/zhstat/pkg/sink"
	"github.com/Thermoquad/zhstat/pkg/zh06"
	"go.yaml.in/yaml/v4"
)

// Config is the content of the configuration file. Command line flags
// override the values read here.
type Config struct {
	Debug   bool   `yaml:"debug"`
	LogFile string `yaml:"log_file"`

	Port        string `yaml:"port"`
	Baud        int    `yaml:"baud"`
	URL         string `yaml:"url"`
	Username    string `yaml:"username"`
	NoSSLVerify bool   `yaml:"no_ssl_verify"`

	UpdateInterval Duration `yaml:"update_interval"`
	Channels       []string `yaml:"channels"`

	Format      string `yaml:"format"`
	MetricsAddr string `yaml:"metrics_addr"`
}

// Default returns the configuration used without a file
func Default() Config {
	channels := make([]string, 0, len(driver.Channels))
	for _, c := range driver.Channels {
		channels = append(channels, c.String())
	}
	return Config{
		Baud:     zh06.BaudRate,
		Channels: channels,
		Format:   string(sink.FormatText),
	}
}

// Load reads a configuration file over the defaults. An empty path returns
// the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()

	return Decode(f)
}

// Decode reads a YAML configuration over the defaults
func Decode(r io.Reader) (Config, error) {
	c := Default()

	codec := yaml.NewDecoder(r)
	if err := codec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return c, fmt.Errorf("invalid configuration: %w", err)
	}
	return c, c.Validate()
}

// Validate checks values the driver and sinks would reject later
func (c Config) Validate() error {
	if err := c.Driver().Validate(); err != nil {
		return fmt.Errorf("update_interval: %w", err)
	}
	if _, err := sink.ParseFormat(c.Format); err != nil {
		return fmt.Errorf("format: %w", err)
	}
	for _, name := range c.Channels {
		if !slices.ContainsFunc(driver.Channels, func(ch driver.Channel) bool { return ch.String() == name }) {
			return fmt.Errorf("channels: unknown channel %q", name)
		}
	}
	return nil
}

// Driver returns the driver configuration
func (c Config) Driver() driver.Config {
	return driver.Config{UpdateInterval: c.UpdateInterval.Duration}
}

// Attached reports whether a channel is enabled
func (c Config) Attached(ch driver.Channel) bool {
	return slices.Contains(c.Channels, ch.String())
}

// Mask detaches the sinks of disabled channels
func (c Config) Mask(o driver.Outputs) driver.Outputs {
	if !c.Attached(driver.ChannelPM1_0) {
		o.PM1_0 = nil
	}
	if !c.Attached(driver.ChannelPM2_5) {
		o.PM2_5 = nil
	}
	if !c.Attached(driver.ChannelPM10_0) {
		o.PM10_0 = nil
	}
	return o
}

// Marshal returns the configuration as YAML
func (c Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
