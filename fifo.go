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
	"encoding/binary"
	"fmt"

	"github.com/strixhq/go-lr2021/internal/opcode"
)

// WriteTxFIFO pushes the first n bytes of the internal buffer into the
// TX FIFO. Stage the payload with BufferMut first. Check headroom with
// TxFIFOLevel before large writes.
func (d *Device) WriteTxFIFO(ctx context.Context, n int) error {
	if n <= 0 || n > BufferSize {
		return fmt.Errorf("tx fifo write of %d bytes out of range [1,%d]: %w", n, BufferSize, ErrInvalidParameter)
	}
	if err := d.cmdWriteBegin(ctx, opcode.Req(opcode.WriteTxFifo)); err != nil {
		_ = d.nss.Set(true)
		return err
	}
	if err := d.cmdBufPayload(n); err != nil {
		return err
	}
	if err := d.nss.Set(true); err != nil {
		return NewBusError("tx fifo deselect", d.port, fmt.Errorf("%w: %w", ErrPinFailure, err), ErrorTypePermanent)
	}
	return nil
}

// WriteTxFIFOFrom pushes data into the TX FIFO from a caller buffer,
// leaving the internal buffer payload untouched beyond the exchange.
func (d *Device) WriteTxFIFOFrom(ctx context.Context, data []byte) error {
	if len(data) == 0 || len(data) > BufferSize {
		return fmt.Errorf("tx fifo write of %d bytes out of range [1,%d]: %w", len(data), BufferSize, ErrInvalidParameter)
	}
	return d.cmdDataWrite(ctx, opcode.Req(opcode.WriteTxFifo), data)
}

// ReadRxFIFO pulls n bytes from the RX FIFO into the internal buffer and
// returns them. The slice is valid until the next command.
func (d *Device) ReadRxFIFO(ctx context.Context, n int) ([]byte, error) {
	if n <= 0 || n > BufferSize {
		return nil, fmt.Errorf("rx fifo read of %d bytes out of range [1,%d]: %w", n, BufferSize, ErrInvalidParameter)
	}
	if err := d.cmdWriteBegin(ctx, opcode.Req(opcode.ReadRxFifo)); err != nil {
		_ = d.nss.Set(true)
		return nil, err
	}
	if err := d.cmdBufPayloadRead(n); err != nil {
		return nil, err
	}
	if err := d.nss.Set(true); err != nil {
		return nil, NewBusError("rx fifo deselect", d.port, fmt.Errorf("%w: %w", ErrPinFailure, err), ErrorTypePermanent)
	}
	return d.buf.data()[:n], nil
}

// ReadRxFIFOTo pulls len(data) bytes from the RX FIFO into a caller
// buffer.
func (d *Device) ReadRxFIFOTo(ctx context.Context, data []byte) error {
	if len(data) == 0 || len(data) > BufferSize {
		return fmt.Errorf("rx fifo read of %d bytes out of range [1,%d]: %w", len(data), BufferSize, ErrInvalidParameter)
	}
	return d.cmdDataRead(ctx, opcode.Req(opcode.ReadRxFifo), data)
}

// TxFIFOLevel returns the number of bytes currently in the TX FIFO.
func (d *Device) TxFIFOLevel(ctx context.Context) (uint16, error) {
	rsp := make([]byte, 2+2)
	if err := d.cmdRead(ctx, opcode.Req(opcode.GetTxFifoLvl), rsp); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(rsp[2:4]), nil
}

// RxFIFOLevel returns the number of bytes currently in the RX FIFO.
func (d *Device) RxFIFOLevel(ctx context.Context) (uint16, error) {
	rsp := make([]byte, 2+2)
	if err := d.cmdRead(ctx, opcode.Req(opcode.GetRxFifoLvl), rsp); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(rsp[2:4]), nil
}

// ClearTxFIFO drops all staged TX FIFO content.
func (d *Device) ClearTxFIFO(ctx context.Context) error {
	return d.cmdWrite(ctx, opcode.Req(opcode.ClearTxFifo))
}

// ClearRxFIFO drops all pending RX FIFO content.
func (d *Device) ClearRxFIFO(ctx context.Context) error {
	return d.cmdWrite(ctx, opcode.Req(opcode.ClearRxFifo))
}

// FifoIrqConfig selects the FIFO threshold interrupts. A threshold
// interrupt fires when the level crosses the configured watermark.
type FifoIrqConfig struct {
	RxEnable uint8
	TxEnable uint8
	RxLow    uint16
	RxHigh   uint16
	TxLow    uint16
	TxHigh   uint16
}

// SetFifoIrq configures the FIFO watermark interrupt sources.
func (d *Device) SetFifoIrq(ctx context.Context, cfg FifoIrqConfig) error {
	if cfg.RxLow > BufferSize || cfg.RxHigh > BufferSize || cfg.TxLow > BufferSize || cfg.TxHigh > BufferSize {
		return fmt.Errorf("fifo watermark above %d: %w", BufferSize, ErrInvalidParameter)
	}
	return d.cmdWrite(ctx, opcode.CfgFifoIrqCmd(cfg.RxEnable, cfg.TxEnable, cfg.RxLow, cfg.RxHigh, cfg.TxLow, cfg.TxHigh))
}

// GetFifoIrqFlags reads the pending FIFO watermark interrupt flags.
func (d *Device) GetFifoIrqFlags(ctx context.Context) (uint16, error) {
	rsp := make([]byte, 2+2)
	if err := d.cmdRead(ctx, opcode.Req(opcode.GetFifoIrq), rsp); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(rsp[2:4]), nil
}
