// go-lr2021
// Copyright (c) 2025 The go-lr2021 Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-lr2021.
//
// go-lr2021 is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-lr2021 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-lr2021; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

// Package serialbridge drives the chip through a bridge MCU speaking a
// small framed protocol over a serial port. The bridge performs the SPI
// exchange and pin control on behalf of the host, which makes the chip
// usable from machines without SPI hardware.
package serialbridge

import (
	"fmt"
	"io"
	"sync"
	"time"

	"go.bug.st/serial"
)

// Bridge frame opcodes.
const (
	opTransfer = 0x01
	opSetPin   = 0x02
	opGetPin   = 0x03
)

// Bridge pin identifiers.
const (
	pinNss   = 0
	pinReset = 1
	pinBusy  = 2
)

// Response status codes.
const (
	stOK  = 0x00
	stErr = 0xFF
)

const defaultBaudRate = 921600

// frameMax bounds a single bridge frame payload. The chip never
// exchanges more than its buffer plus the status prefix in one phase.
const frameMax = 258

// Transport is a serial connection to a bridge MCU.
type Transport struct {
	mu   sync.Mutex
	port serial.Port
	name string
}

// Option configures the transport.
type Option func(*config)

type config struct {
	baudRate    int
	readTimeout time.Duration
}

// WithBaudRate overrides the serial baud rate.
func WithBaudRate(baud int) Option {
	return func(c *config) {
		c.baudRate = baud
	}
}

// WithReadTimeout overrides the per-frame read timeout.
func WithReadTimeout(timeout time.Duration) Option {
	return func(c *config) {
		c.readTimeout = timeout
	}
}

// New opens the named serial port and connects to the bridge.
func New(portName string, opts ...Option) (*Transport, error) {
	cfg := config{baudRate: defaultBaudRate, readTimeout: 500 * time.Millisecond}
	for _, opt := range opts {
		opt(&cfg)
	}

	mode := &serial.Mode{
		BaudRate: cfg.baudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", portName, err)
	}
	if err := port.SetReadTimeout(cfg.readTimeout); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("failed to set read timeout on %s: %w", portName, err)
	}
	if err := port.ResetInputBuffer(); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("failed to flush %s: %w", portName, err)
	}
	return &Transport{port: port, name: portName}, nil
}

// Port returns the serial port name for error reporting.
func (t *Transport) Port() string {
	return t.name
}

// Close closes the serial port.
func (t *Transport) Close() error {
	return t.port.Close()
}

// roundTrip sends one bridge frame and reads the response payload into
// rsp. Frames are [op][len16][payload]; responses [status][len16][payload].
func (t *Transport) roundTrip(op byte, payload []byte, rsp []byte) error {
	if len(payload) > frameMax {
		return fmt.Errorf("bridge frame payload %d exceeds %d", len(payload), frameMax)
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	frame := make([]byte, 3+len(payload))
	frame[0] = op
	frame[1] = byte(len(payload) >> 8)
	frame[2] = byte(len(payload))
	copy(frame[3:], payload)
	if _, err := t.port.Write(frame); err != nil {
		return fmt.Errorf("bridge write failed: %w", err)
	}

	var hdr [3]byte
	if err := t.readFull(hdr[:]); err != nil {
		return fmt.Errorf("bridge response header: %w", err)
	}
	n := int(hdr[1])<<8 | int(hdr[2])
	if n > frameMax {
		return fmt.Errorf("bridge response length %d exceeds %d", n, frameMax)
	}
	body := make([]byte, n)
	if err := t.readFull(body); err != nil {
		return fmt.Errorf("bridge response body: %w", err)
	}
	if hdr[0] != stOK {
		return fmt.Errorf("bridge reported error 0x%02X", hdr[0])
	}
	if len(rsp) > 0 {
		if n < len(rsp) {
			return fmt.Errorf("bridge response short: got %d, want %d", n, len(rsp))
		}
		copy(rsp, body)
	}
	return nil
}

// readFull reads exactly len(buf) bytes, treating a zero-byte read as a
// timeout since serial reads return empty on expiry instead of blocking.
func (t *Transport) readFull(buf []byte) error {
	off := 0
	for off < len(buf) {
		n, err := t.port.Read(buf[off:])
		if err != nil {
			return err
		}
		if n == 0 {
			return fmt.Errorf("read %d of %d bytes: %w", off, len(buf), io.ErrUnexpectedEOF)
		}
		off += n
	}
	return nil
}

// Bus returns the full-duplex exchange half of the transport.
func (t *Transport) Bus() *BusConn {
	return &BusConn{t: t}
}

// Nss returns the chip select line.
func (t *Transport) Nss() *OutPin {
	return &OutPin{t: t, pin: pinNss}
}

// Reset returns the hardware reset line.
func (t *Transport) Reset() *OutPin {
	return &OutPin{t: t, pin: pinReset}
}

// Busy returns the busy line.
func (t *Transport) Busy() *BusyPin {
	return &BusyPin{t: t}
}

// BusConn relays full-duplex exchanges through the bridge.
type BusConn struct {
	t *Transport
}

// Transfer clocks len(w) bytes out while reading into r.
func (b *BusConn) Transfer(w, r []byte) error {
	return b.t.roundTrip(opTransfer, w, r)
}

// OutPin relays output pin control through the bridge.
type OutPin struct {
	t   *Transport
	pin byte
}

// Set drives the pin level.
func (p *OutPin) Set(high bool) error {
	var level byte
	if high {
		level = 1
	}
	return p.t.roundTrip(opSetPin, []byte{p.pin, level}, nil)
}

// BusyPin relays busy line sampling through the bridge.
type BusyPin struct {
	t *Transport
}

// Get samples the busy level.
func (p *BusyPin) Get() (bool, error) {
	var rsp [1]byte
	if err := p.t.roundTrip(opGetPin, []byte{pinBusy}, rsp[:]); err != nil {
		return false, err
	}
	return rsp[0] != 0, nil
}
