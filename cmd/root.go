// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"github.com/Thermoquad/zhstat/pkg/config"
	"github.com/spf13/cobra"
)

var (
	configPath string

	// Serial connection flags
	portName string
	baudRate int

	// WebSocket connection flags
	wsURL         string
	wsUsername    string
	wsNoSSLVerify bool

	// Logging flags
	debug   bool
	logFile string

	// cfg is the configuration file merged with the flags above
	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:   "zhstat",
	Short: "ZH06 particulate sensor driver",
	Long: `zhstat - A CLI tool for driving and monitoring Winsen ZH06 laser dust sensors.

With an update interval above the 45 second fan stabilisation time the sensor
is kept in question/answer mode and its fan is switched off between readings.
With a shorter interval, or 0, the sensor is left in active mode and pushes a
frame every second; those frames are decoded and counted but only triggered
readings are published.

Connection modes:
  Serial:    --port /dev/ttyUSB0 [--baud 9600]
  WebSocket: --url ws://host/path [--username user]

For WebSocket authentication, the password is read from the ZHSTAT_PASSWORD
environment variable, or prompted interactively if not set. The --password
flag is intentionally not provided to avoid leaking credentials in shell history.`,
	Version:           "1.0.0",
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML configuration file")

	// Serial connection flags
	rootCmd.PersistentFlags().StringVarP(&portName, "port", "p", "", "Serial port device")
	rootCmd.PersistentFlags().IntVarP(&baudRate, "baud", "b", 9600, "Baud rate (serial only)")

	// WebSocket connection flags
	rootCmd.PersistentFlags().StringVarP(&wsURL, "url", "u", "", "WebSocket URL (ws:// or wss://)")
	rootCmd.PersistentFlags().StringVar(&wsUsername, "username", "", "Username for HTTP Basic auth")
	rootCmd.PersistentFlags().BoolVar(&wsNoSSLVerify, "no-ssl-verify", false, "Skip TLS certificate verification (wss:// only)")

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write logs to a rotated file instead of stderr")
}

// loadConfig reads the configuration file and applies the flags the user set
func loadConfig(cmd *cobra.Command, _ []string) error {
	c, err := config.Load(configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("port") {
		c.Port = portName
	}
	if flags.Changed("baud") {
		c.Baud = baudRate
	}
	if flags.Changed("url") {
		c.URL = wsURL
	}
	if flags.Changed("username") {
		c.Username = wsUsername
	}
	if flags.Changed("no-ssl-verify") {
		c.NoSSLVerify = wsNoSSLVerify
	}
	if flags.Changed("debug") {
		c.Debug = debug
	}
	if flags.Changed("log-file") {
		c.LogFile = logFile
	}

	cfg = c
	return nil
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
