// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package transport adapts blocking byte streams (serial ports, WebSocket
// bridges) to the non-blocking transport the driver consumes.
package transport

import (
	"errors"
	"fmt"
	"io"
	"sync"
)

var (
	// ErrNoData is returned by ReadByte when nothing is buffered
	ErrNoData = errors.New("no data available")

	// ErrClosed is returned after Close
	ErrClosed = errors.New("transport closed")

	// ErrPortBusy is returned when another process holds the serial port
	ErrPortBusy = errors.New("serial port in use")
)

// readChunk is the size of a single read from the underlying stream
const readChunk = 256

// Option configures a Buffered transport
type Option func(*Buffered)

// WithBaudRate records the line speed reported by BaudRate
func WithBaudRate(baud int) Option {
	return func(b *Buffered) { b.baud = baud }
}

// WithDescription sets the human-readable description of the stream
func WithDescription(desc string) Option {
	return func(b *Buffered) { b.desc = desc }
}

// Buffered moves bytes between a blocking stream and in-memory queues.
//
// A reader goroutine fills the receive queue and a writer goroutine drains
// the send queue, so Available, ReadByte and WriteByte never block. Stream
// errors are latched: ReadByte returns the read error once the queue is
// empty, WriteByte returns the write error on the next call.
type Buffered struct {
	rw   io.ReadWriteCloser
	baud int
	desc string

	mu       sync.Mutex
	rx       []byte
	tx       []byte
	readErr  error
	writeErr error
	closed   bool

	txReady   chan struct{}
	done      chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewBuffered starts moving bytes to and from rw
func NewBuffered(rw io.ReadWriteCloser, opts ...Option) *Buffered {
	b := &Buffered{
		rw:      rw,
		txReady: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(b)
	}

	b.wg.Add(2)
	go b.readLoop()
	go b.writeLoop()
	return b
}

func (b *Buffered) readLoop() {
	defer b.wg.Done()

	p := make([]byte, readChunk)
	for {
		n, err := b.rw.Read(p)

		b.mu.Lock()
		if n > 0 {
			b.rx = append(b.rx, p[:n]...)
		}
		if err != nil && b.readErr == nil {
			b.readErr = err
		}
		failed := b.readErr != nil
		b.mu.Unlock()

		if failed {
			return
		}
	}
}

func (b *Buffered) writeLoop() {
	defer b.wg.Done()

	for {
		select {
		case <-b.done:
			return
		case <-b.txReady:
		}

		b.mu.Lock()
		out := b.tx
		b.tx = nil
		b.mu.Unlock()

		if len(out) == 0 {
			continue
		}
		if _, err := b.rw.Write(out); err != nil {
			b.mu.Lock()
			if b.writeErr == nil {
				b.writeErr = err
			}
			b.mu.Unlock()
		}
	}
}

// Available returns the number of received bytes not read yet
func (b *Buffered) Available() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.rx)
}

// ReadByte returns the next received byte
func (b *Buffered) ReadByte() (byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.rx) > 0 {
		c := b.rx[0]
		b.rx = b.rx[1:]
		return c, nil
	}
	if b.closed {
		return 0, ErrClosed
	}
	if b.readErr != nil {
		return 0, b.readErr
	}
	return 0, ErrNoData
}

// WriteByte queues one byte for sending
func (b *Buffered) WriteByte(c byte) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrClosed
	}
	if b.writeErr != nil {
		err := b.writeErr
		b.mu.Unlock()
		return err
	}
	b.tx = append(b.tx, c)
	b.mu.Unlock()

	select {
	case b.txReady <- struct{}{}:
	default:
	}
	return nil
}

// Receive is ReadByte under the name the driver uses
func (b *Buffered) Receive() (byte, error) {
	return b.ReadByte()
}

// Send is WriteByte under the name the driver uses
func (b *Buffered) Send(c byte) error {
	return b.WriteByte(c)
}

// Err returns the latched read error, if any
func (b *Buffered) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.readErr
}

// BaudRate returns the line speed set with WithBaudRate, or 0 when unknown.
// A zero rate is not a mismatch: network bridges have no baud rate.
func (b *Buffered) BaudRate() int {
	return b.baud
}

func (b *Buffered) String() string {
	if b.desc == "" {
		return fmt.Sprintf("%T", b.rw)
	}
	return b.desc
}

// Close stops both goroutines and closes the stream
func (b *Buffered) Close() error {
	var err error
	b.closeOnce.Do(func() {
		b.mu.Lock()
		b.closed = true
		b.mu.Unlock()

		close(b.done)
		err = b.rw.Close()
		b.wg.Wait()
	})
	return err
}
