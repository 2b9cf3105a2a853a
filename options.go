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

import "time"

// Option configures a Device.
type Option func(*Device) error

// WithBusyTimeout sets the maximum time to wait for the busy line to
// drop before and between command phases.
func WithBusyTimeout(timeout time.Duration) Option {
	return func(d *Device) error {
		d.config.BusyTimeout = timeout
		return nil
	}
}

// WithResponseTimeout sets the wait bound between writing a command and
// reading its response.
func WithResponseTimeout(timeout time.Duration) Option {
	return func(d *Device) error {
		d.config.ResponseTimeout = timeout
		return nil
	}
}

// WithMeasureTimeout sets the wait bound for slow measurement commands
// (temperature, battery voltage).
func WithMeasureTimeout(timeout time.Duration) Option {
	return func(d *Device) error {
		d.config.MeasureTimeout = timeout
		return nil
	}
}

// WithWakeTimeout sets the wait bound for the chip to leave sleep after
// a wake-up pulse.
func WithWakeTimeout(timeout time.Duration) Option {
	return func(d *Device) error {
		d.config.WakeTimeout = timeout
		return nil
	}
}

// WithResetHold sets how long the reset line is held low.
func WithResetHold(hold time.Duration) Option {
	return func(d *Device) error {
		d.config.ResetHold = hold
		return nil
	}
}

// WithPort attaches a human-readable port name used in error reporting.
func WithPort(port string) Option {
	return func(d *Device) error {
		d.port = port
		return nil
	}
}
