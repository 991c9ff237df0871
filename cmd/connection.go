// SPDX-License-Identifier: GPL-2.0-or-later
// Copyright (c) 2025 Kaz Walker, Thermoquad

package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"syscall"
	"time"

	"github.com/Thermoquad/zhstat/pkg/transport"
	"golang.org/x/term"
)

const dialTimeout = 15 * time.Second

// GetPassword retrieves password from environment or prompts user
func GetPassword() (string, error) {
	// First check environment variable
	if pw := os.Getenv("ZHSTAT_PASSWORD"); pw != "" {
		return pw, nil
	}

	fmt.Fprint(os.Stderr, "Password: ")

	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		// Not a terminal, read a plain line
		reader := bufio.NewReader(os.Stdin)
		password, err := reader.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		fmt.Fprintln(os.Stderr)
		return strings.TrimSpace(password), nil
	}

	fmt.Fprintln(os.Stderr)
	return string(passwordBytes), nil
}

// OpenConnection opens either a serial or WebSocket connection from the
// merged configuration
func OpenConnection(ctx context.Context) (*transport.Buffered, error) {
	if cfg.URL != "" {
		password := ""
		if cfg.Username != "" {
			var err error
			password, err = GetPassword()
			if err != nil {
				return nil, err
			}
		}

		ctx, cancel := context.WithTimeout(ctx, dialTimeout)
		defer cancel()

		return transport.DialWebSocket(ctx, cfg.URL, transport.WebSocketOptions{
			Username:      cfg.Username,
			Password:      password,
			SkipSSLVerify: cfg.NoSSLVerify,
		})
	}

	if cfg.Port != "" {
		return transport.OpenSerial(cfg.Port, cfg.Baud)
	}

	return nil, fmt.Errorf("either --port or --url must be specified")
}
