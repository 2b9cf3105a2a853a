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

import "context"

// Bus is the synchronous full-duplex byte-transfer capability the driver
// runs on. A Transfer clocks out w while clocking the same number of bytes
// into r; len(w) and len(r) must be equal. Implementations live in the
// transport subpackages (SPI via periph.io, or a bridge MCU over serial).
type Bus interface {
	Transfer(w, r []byte) error
}

// OutputPin is a digital output owned exclusively by the driver for its
// lifetime (chip select or reset line).
type OutputPin interface {
	// Set drives the pin high (true) or low (false).
	Set(high bool) error
}

// InputPin is a digital input owned exclusively by the driver for its
// lifetime (the busy line).
type InputPin interface {
	// Get reads the current level, true for high.
	Get() (bool, error)
}

// BusyWaiter is an optional capability of an InputPin. When the busy pin
// implements it, the driver waits on the pin edge-triggered instead of
// polling. The implementation must return once the pin is low, or with
// ctx.Err() when the context expires first.
type BusyWaiter interface {
	WaitLow(ctx context.Context) error
}
