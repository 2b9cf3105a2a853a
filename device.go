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

package lr2021

import (
	"context"
	"fmt"
	"time"
)

// DeviceConfig contains the timing bounds of the driver. All of them are
// timeout bounds for the busy handshake, not fixed delays.
type DeviceConfig struct {
	// BusyTimeout bounds the busy-wait before a command write.
	BusyTimeout time.Duration
	// ResponseTimeout bounds the busy-wait between the write phase and
	// the read phase of a command with a response.
	ResponseTimeout time.Duration
	// MeasureTimeout bounds the busy-wait for temperature and VBAT
	// measurements, which are not instantaneous.
	MeasureTimeout time.Duration
	// WakeTimeout bounds the busy-wait after a wake-up from sleep.
	WakeTimeout time.Duration
	// ResetHold is how long the reset line is held asserted.
	ResetHold time.Duration
	// BootDelay is how long the chip is given to boot after reset
	// release before the busy line is sampled.
	BootDelay time.Duration
}

// DefaultDeviceConfig returns the default timing bounds.
func DefaultDeviceConfig() *DeviceConfig {
	return &DeviceConfig{
		BusyTimeout:     100 * time.Millisecond,
		ResponseTimeout: time.Millisecond,
		MeasureTimeout:  5 * time.Millisecond,
		WakeTimeout:     100 * time.Millisecond,
		ResetHold:       10 * time.Millisecond,
		BootDelay:       10 * time.Millisecond,
	}
}

// Device drives one transceiver chip over a byte bus and three control
// pins. It owns the pins, the bus handle and the internal command buffer
// exclusively for its lifetime.
//
// Thread safety: Device is NOT safe for concurrent use. The chip exposes a
// single command/response channel, so the driver keeps at most one command
// in flight and never pipelines. Callers needing concurrent access must
// serialize around the whole Device.
type Device struct {
	bus    Bus
	nss    OutputPin
	busy   InputPin
	nreset OutputPin
	config *DeviceConfig
	port   string

	buf cmdBuffer
	// zero bytes clocked out during read phases (the NOP opcode)
	zeros [BufferSize + 2]byte
	// staging area so buffer-sourced writes never alias the read slice
	txScratch [BufferSize + 2]byte

	mode      ChipMode
	modeKnown bool
	patch     patchState
	patchLen  int
}

// New creates a driver instance on the given bus and pins. The reset line
// is active low; the driver handles polarity.
func New(bus Bus, nss OutputPin, busy InputPin, nreset OutputPin, opts ...Option) (*Device, error) {
	d := &Device{
		bus:    bus,
		nss:    nss,
		busy:   busy,
		nreset: nreset,
		config: DefaultDeviceConfig(),
	}
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Port returns the diagnostic label of the underlying bus, if one was set.
func (d *Device) Port() string {
	return d.port
}

// Status returns the status word captured on the last transfer.
func (d *Device) Status() Status {
	return d.buf.status()
}

// LastIrq returns the interrupt flags captured on the last response.
// The value may be truncated if the last exchange was shorter than six
// bytes.
func (d *Device) LastIrq() Irq {
	return IrqFromBytes(d.buf.data()[2:6])
}

// Buffer returns a read view of the internal buffer's payload area.
// The content is only meaningful between a buffer-filling call and the
// next command; the driver reuses the storage on every exchange.
func (d *Device) Buffer() []byte {
	return d.buf.data()
}

// BufferMut returns a writable view of the internal buffer's payload
// area, for filling a payload before WriteTxFIFO. The view must not be
// held across driver calls.
func (d *Device) BufferMut() []byte {
	return d.buf.data()
}

// IsBusy samples the busy line, for diagnostics.
func (d *Device) IsBusy() bool {
	high, err := d.busy.Get()
	return err == nil && high
}

// Reset pulses the reset line and waits for the chip to boot. Any
// in-progress command is aborted; the chip returns to its boot state
// (standby on the RC oscillator) and patch RAM content is lost, so the
// driver drops every cached assumption about the chip.
func (d *Device) Reset() error {
	return d.ResetContext(context.Background())
}

// ResetContext is Reset with cancellation support.
func (d *Device) ResetContext(ctx context.Context) error {
	// Cached state is stale the moment reset asserts, even if the
	// sequence fails halfway.
	d.invalidate()
	d.patch = patchUnloaded

	if err := d.nreset.Set(false); err != nil {
		return fmt.Errorf("assert reset: %w", ErrPinFailure)
	}
	if err := sleepCtx(ctx, d.config.ResetHold); err != nil {
		return err
	}
	if err := d.nreset.Set(true); err != nil {
		return fmt.Errorf("release reset: %w", ErrPinFailure)
	}
	if err := sleepCtx(ctx, d.config.BootDelay); err != nil {
		return err
	}
	if err := d.waitReady(ctx, d.config.BusyTimeout); err != nil {
		return fmt.Errorf("boot: %w", err)
	}

	d.mode = ModeStandbyRC
	d.modeKnown = true
	return nil
}

// WakeUp brings the chip out of a sleep mode by holding the select line
// low until busy releases. After wake-up the chip is in standby on the RC
// oscillator.
func (d *Device) WakeUp() error {
	return d.WakeUpContext(context.Background())
}

// WakeUpContext is WakeUp with cancellation support.
func (d *Device) WakeUpContext(ctx context.Context) error {
	if err := d.nss.Set(false); err != nil {
		return fmt.Errorf("assert select: %w", ErrPinFailure)
	}
	err := d.waitReady(ctx, d.config.WakeTimeout)
	if selErr := d.nss.Set(true); selErr != nil && err == nil {
		err = fmt.Errorf("release select: %w", ErrPinFailure)
	}
	if err != nil {
		d.invalidate()
		return err
	}
	d.mode = ModeStandbyRC
	d.modeKnown = true
	return nil
}

// invalidate drops cached chip state after a fault. The patch flag is
// conservative: only GetPramInfo can tell whether patch RAM survived, so
// a loaded patch is downgraded to unloaded until re-queried.
func (d *Device) invalidate() {
	d.modeKnown = false
	if d.patch == patchEnabled || d.patch == patchLoaded {
		d.patch = patchUnloaded
	}
}

// sleepCtx sleeps for dur, yielding early with the context error on
// cancellation.
func sleepCtx(ctx context.Context, dur time.Duration) error {
	if dur <= 0 {
		return nil
	}
	t := time.NewTimer(dur)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return fmt.Errorf("delay interrupted: %w", ctx.Err())
	case <-t.C:
		return nil
	}
}
