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

// Package spi provides the Linux SPI transport using periph.io
package spi

import (
	"context"
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// defaultSpeed keeps comfortably inside the chip's SPI timing budget.
const defaultSpeed = 8 * physic.MegaHertz

// Pins names the GPIO lines wired to the chip control pins.
type Pins struct {
	// Nss is the chip select, driven manually so a command can hold
	// the chip selected across its write and payload phases.
	Nss string
	// Busy is the chip busy indicator.
	Busy string
	// Reset is the active-low hardware reset.
	Reset string
}

// Transport binds an SPI port and the three control GPIOs.
type Transport struct {
	port  spi.PortCloser
	conn  spi.Conn
	nss   gpio.PinIO
	busy  gpio.PinIO
	reset gpio.PinIO
	name  string
}

// Option configures the transport.
type Option func(*config)

type config struct {
	speed physic.Frequency
	mode  spi.Mode
}

// WithSpeed overrides the SPI clock frequency.
func WithSpeed(speed physic.Frequency) Option {
	return func(c *config) {
		c.speed = speed
	}
}

// WithMode overrides the SPI mode.
func WithMode(mode spi.Mode) Option {
	return func(c *config) {
		c.mode = mode
	}
}

// New opens the named SPI port and GPIO lines. The port name follows
// spireg conventions ("SPI0.0", "/dev/spidev0.0"); pin names follow
// gpioreg ("GPIO8", "8").
func New(portName string, pins Pins, opts ...Option) (*Transport, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize periph host: %w", err)
	}

	cfg := config{speed: defaultSpeed, mode: spi.Mode0}
	for _, opt := range opts {
		opt(&cfg)
	}

	port, err := spireg.Open(portName)
	if err != nil {
		return nil, fmt.Errorf("failed to open SPI port %s: %w", portName, err)
	}

	// Chip select is driven by GPIO, not the controller, so a command
	// can span multiple Tx calls under one select.
	conn, err := port.Connect(cfg.speed, cfg.mode|spi.NoCS, 8)
	if err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("failed to configure SPI port %s: %w", portName, err)
	}

	t := &Transport{port: port, conn: conn, name: portName}

	if t.nss, err = openPin(pins.Nss, "nss"); err != nil {
		_ = port.Close()
		return nil, err
	}
	if t.busy, err = openPin(pins.Busy, "busy"); err != nil {
		_ = port.Close()
		return nil, err
	}
	if t.reset, err = openPin(pins.Reset, "reset"); err != nil {
		_ = port.Close()
		return nil, err
	}

	if err := t.busy.In(gpio.PullNoChange, gpio.FallingEdge); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("failed to configure busy pin %s: %w", pins.Busy, err)
	}
	// Idle levels: deselected, out of reset.
	if err := t.nss.Out(gpio.High); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("failed to drive nss pin %s: %w", pins.Nss, err)
	}
	if err := t.reset.Out(gpio.High); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("failed to drive reset pin %s: %w", pins.Reset, err)
	}

	return t, nil
}

func openPin(name, role string) (gpio.PinIO, error) {
	if name == "" {
		return nil, fmt.Errorf("no %s pin configured", role)
	}
	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, fmt.Errorf("%s pin %s not found", role, name)
	}
	return pin, nil
}

// Port returns the SPI port name for error reporting.
func (t *Transport) Port() string {
	return t.name
}

// Close releases the SPI port. GPIO lines need no explicit release.
func (t *Transport) Close() error {
	return t.port.Close()
}

// Bus returns the full-duplex exchange half of the transport.
func (t *Transport) Bus() *BusConn {
	return &BusConn{conn: t.conn}
}

// Nss returns the chip select line.
func (t *Transport) Nss() *OutPin {
	return &OutPin{pin: t.nss}
}

// Reset returns the hardware reset line.
func (t *Transport) Reset() *OutPin {
	return &OutPin{pin: t.reset}
}

// Busy returns the busy line. It supports edge-triggered waiting.
func (t *Transport) Busy() *BusyPin {
	return &BusyPin{pin: t.busy}
}

// BusConn adapts an spi.Conn to a full-duplex Transfer call.
type BusConn struct {
	conn spi.Conn
}

// Transfer clocks len(w) bytes out while reading into r.
func (b *BusConn) Transfer(w, r []byte) error {
	return b.conn.Tx(w, r)
}

// OutPin adapts a gpio.PinIO used as a driven output.
type OutPin struct {
	pin gpio.PinIO
}

// Set drives the pin level.
func (p *OutPin) Set(high bool) error {
	return p.pin.Out(gpio.Level(high))
}

// BusyPin adapts the busy line, sampling by level and waiting by edge.
type BusyPin struct {
	pin gpio.PinIO
}

// Get samples the busy level.
func (p *BusyPin) Get() (bool, error) {
	return p.pin.Read() == gpio.High, nil
}

// edgeSlice bounds each WaitForEdge call so the context stays
// responsive even when the kernel never delivers an edge.
const edgeSlice = 10 * time.Millisecond

// WaitLow blocks until the busy line is low, the context expires, or an
// edge wait fails. A level check runs before every edge wait so an
// already-low line returns immediately.
func (p *BusyPin) WaitLow(ctx context.Context) error {
	for {
		if p.pin.Read() == gpio.Low {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		slice := edgeSlice
		if dl, ok := ctx.Deadline(); ok {
			if rem := time.Until(dl); rem < slice {
				slice = rem
			}
		}
		if slice <= 0 {
			continue
		}
		p.pin.WaitForEdge(slice)
	}
}
