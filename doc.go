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

/*
Package lr2021 provides a pure Go driver for the Semtech LR2021 dual-band
radio transceiver.

The LR2021 covers sub-GHz and 2.4GHz operation with LoRa, (G)FSK, FLRC,
BLE, Zigbee, Z-Wave, Wi-SUN, wM-Bus and LR-FHSS modems behind a single
command interface carried over SPI with reset, busy and chip-select
handshaking. This library drives that interface through small hardware
abstraction interfaces, so it works with any SPI and GPIO provider.

Features:
  - Command/response exchange with busy-line pacing and timeouts
  - Power state management (sleep, retention, standby, FS, TX, RX)
  - TX/RX FIFO access through the shared internal buffer or caller buffers
  - Patch RAM firmware upload and activation
  - Interrupt, error flag, register and memory access
  - Radio configuration: frequency, PA, CAD, CCA, duty cycle, timestamps
  - Transports for Linux SPI (periph.io) and serial bridge MCUs

Basic Usage:

	import (
	    "github.com/strixhq/go-lr2021"
	    "github.com/strixhq/go-lr2021/transport/spi"
	)

	tr, err := spi.New("SPI0.0", spi.Pins{Nss: "GPIO8", Busy: "GPIO23", Reset: "GPIO24"})
	if err != nil {
	    log.Fatal(err)
	}
	defer tr.Close()

	dev, err := lr2021.New(tr.Bus(), tr.Nss(), tr.Busy(), tr.Reset(),
	    lr2021.WithPort(tr.Port()),
	)
	if err != nil {
	    log.Fatal(err)
	}
	if err := dev.Reset(); err != nil {
	    log.Fatal(err)
	}

	ctx := context.Background()
	if err := dev.SetPacketType(ctx, lr2021.PacketLora); err != nil {
	    log.Fatal(err)
	}
	if err := dev.SetRf(ctx, 868_100_000); err != nil {
	    log.Fatal(err)
	}

	copy(dev.BufferMut(), payload)
	if err := dev.WriteTxFIFO(ctx, len(payload)); err != nil {
	    log.Fatal(err)
	}
	if err := dev.SetTx(ctx, 0); err != nil {
	    log.Fatal(err)
	}

The driver tracks the chip operating mode and refuses transitions the
chip would reject, returning ErrInvalidState instead of leaving the chip
in an ambiguous state. After a bus fault, timeout or external reset the
tracker reports unknown and RefreshMode re-seeds it from the chip.
*/
package lr2021
