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
	"errors"
	"fmt"
	"time"
)

// busyPollInterval is the sleep between busy line samples when the pin
// does not implement BusyWaiter.
const busyPollInterval = 50 * time.Microsecond

// Response is the decoded result of a command: the status word plus the
// payload bytes that followed it (empty for write-only commands).
// Responses are transient; the payload is a fresh copy the caller owns.
type Response struct {
	Payload []byte
	Status  Status
}

// Exec encodes opcode and params into a command frame, runs the full
// handshake, and decodes the response. respLen is the expected payload
// length after the two status bytes; zero marks a write-only command.
// This is the generic entry point protocol parameter encoders drive.
func (d *Device) Exec(op uint16, params []byte, respLen int) (Response, error) {
	return d.ExecContext(context.Background(), op, params, respLen)
}

// ExecContext is Exec with cancellation support.
func (d *Device) ExecContext(ctx context.Context, op uint16, params []byte, respLen int) (Response, error) {
	if respLen < 0 || respLen > BufferSize {
		return Response{}, fmt.Errorf("response length %d out of range: %w", respLen, ErrInvalidParameter)
	}
	req := make([]byte, 2, 2+len(params))
	req[0] = byte(op >> 8)
	req[1] = byte(op)
	req = append(req, params...)

	if respLen == 0 {
		if err := d.cmdWrite(ctx, req); err != nil {
			return Response{}, err
		}
		return Response{Status: d.buf.status()}, nil
	}

	rsp := make([]byte, 2+respLen)
	if err := d.cmdRead(ctx, req, rsp); err != nil {
		return Response{}, err
	}
	return Response{Status: d.buf.status(), Payload: rsp[2:]}, nil
}

// waitReady waits for the chip to release the busy line, bounded by
// timeout. This is the suspension point of the driver: the calling
// goroutine yields while waiting, it never spins.
func (d *Device) waitReady(ctx context.Context, timeout time.Duration) error {
	high, err := d.busy.Get()
	if err != nil {
		return fmt.Errorf("sample busy: %w", ErrPinFailure)
	}
	if !high {
		return nil
	}

	if w, ok := d.busy.(BusyWaiter); ok {
		wctx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		if err := w.WaitLow(wctx); err != nil {
			if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
				return NewTimeoutError("waitReady", d.port)
			}
			return fmt.Errorf("wait busy: %w", err)
		}
		return nil
	}

	deadline := time.Now().Add(timeout)
	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("wait busy: %w", ctx.Err())
		case <-time.After(busyPollInterval):
		}
		high, err := d.busy.Get()
		if err != nil {
			return fmt.Errorf("sample busy: %w", ErrPinFailure)
		}
		if !high {
			return nil
		}
		if time.Now().After(deadline) {
			return NewTimeoutError("waitReady", d.port)
		}
	}
}

// cmdWriteBegin runs the write phase of a command and leaves the select
// line asserted so the caller can append a data phase. The status bytes
// clocked out during the write land in the internal buffer head.
func (d *Device) cmdWriteBegin(ctx context.Context, req []byte) error {
	if len(req) > BufferSize+2 {
		return fmt.Errorf("command length %d exceeds buffer: %w", len(req), ErrInvalidParameter)
	}
	if err := d.waitReady(ctx, d.config.BusyTimeout); err != nil {
		return err
	}
	if err := d.nss.Set(false); err != nil {
		return fmt.Errorf("assert select: %w", ErrPinFailure)
	}
	if err := d.bus.Transfer(req, d.buf.raw[:len(req)]); err != nil {
		_ = d.nss.Set(true)
		d.invalidate()
		return NewBusError("cmdWrite", d.port, fmt.Errorf("%w: %w", ErrBusFailure, err), ErrorTypeTransient)
	}
	Debugf("wr % 02X status %04X", req, uint16(d.buf.status()))
	// During the write phase the command status rides in bits 3:1 of
	// the first byte clocked out.
	return d.buf.writeCmdStatus().check(d.buf.status())
}

// cmdWrite runs a complete write-only command.
func (d *Device) cmdWrite(ctx context.Context, req []byte) error {
	if err := d.cmdWriteBegin(ctx, req); err != nil {
		_ = d.nss.Set(true)
		return err
	}
	if err := d.nss.Set(true); err != nil {
		return fmt.Errorf("release select: %w", ErrPinFailure)
	}
	return nil
}

// cmdRead runs a command followed by a second transfer phase that reads
// the response. rsp must be sized to the full response including the two
// status bytes.
func (d *Device) cmdRead(ctx context.Context, req, rsp []byte) error {
	return d.cmdReadWait(ctx, req, rsp, d.config.ResponseTimeout)
}

// cmdReadWait is cmdRead with an explicit bound on the busy-wait between
// the two phases, for commands with a slow processing stage.
func (d *Device) cmdReadWait(ctx context.Context, req, rsp []byte, wait time.Duration) error {
	if len(rsp) > len(d.zeros) {
		return fmt.Errorf("response length %d exceeds buffer: %w", len(rsp), ErrInvalidParameter)
	}
	if err := d.cmdWrite(ctx, req); err != nil {
		return err
	}
	if err := d.waitReady(ctx, wait); err != nil {
		d.invalidate()
		return err
	}
	if err := d.nss.Set(false); err != nil {
		return fmt.Errorf("assert select: %w", ErrPinFailure)
	}
	if err := d.bus.Transfer(d.zeros[:len(rsp)], rsp); err != nil {
		_ = d.nss.Set(true)
		d.invalidate()
		return NewBusError("cmdRead", d.port, fmt.Errorf("%w: %w", ErrBusFailure, err), ErrorTypeTransient)
	}
	if err := d.nss.Set(true); err != nil {
		return fmt.Errorf("release select: %w", ErrPinFailure)
	}
	d.buf.updateStatus(rsp)
	Debugf("rd % 02X", rsp)
	return d.buf.status().Cmd().check(d.buf.status())
}

// cmdDataWrite runs a command whose payload phase streams data from an
// external buffer while select stays asserted.
func (d *Device) cmdDataWrite(ctx context.Context, req, data []byte) error {
	if len(data) > BufferSize {
		return fmt.Errorf("payload length %d exceeds capacity %d: %w", len(data), BufferSize, ErrInvalidParameter)
	}
	if err := d.cmdWriteBegin(ctx, req); err != nil {
		_ = d.nss.Set(true)
		return err
	}
	if err := d.bus.Transfer(data, d.buf.data()[:len(data)]); err != nil {
		_ = d.nss.Set(true)
		d.invalidate()
		return NewBusError("cmdDataWrite", d.port, fmt.Errorf("%w: %w", ErrBusFailure, err), ErrorTypeTransient)
	}
	if err := d.nss.Set(true); err != nil {
		return fmt.Errorf("release select: %w", ErrPinFailure)
	}
	return nil
}

// cmdDataRead runs a command whose payload phase streams data into an
// external buffer while select stays asserted.
func (d *Device) cmdDataRead(ctx context.Context, req, data []byte) error {
	if len(data) > BufferSize {
		return fmt.Errorf("read length %d exceeds capacity %d: %w", len(data), BufferSize, ErrInvalidParameter)
	}
	if err := d.cmdWriteBegin(ctx, req); err != nil {
		_ = d.nss.Set(true)
		return err
	}
	if err := d.bus.Transfer(d.zeros[:len(data)], data); err != nil {
		_ = d.nss.Set(true)
		d.invalidate()
		return NewBusError("cmdDataRead", d.port, fmt.Errorf("%w: %w", ErrBusFailure, err), ErrorTypeTransient)
	}
	if err := d.nss.Set(true); err != nil {
		return fmt.Errorf("release select: %w", ErrPinFailure)
	}
	return nil
}

// cmdBufPayload streams the first n bytes of the internal buffer out as
// a payload phase with select already asserted. Used after cmdWriteBegin
// for FIFO pushes staged in the internal buffer.
func (d *Device) cmdBufPayload(n int) error {
	copy(d.txScratch[:n], d.buf.data()[:n])
	if err := d.bus.Transfer(d.txScratch[:n], d.buf.data()[:n]); err != nil {
		_ = d.nss.Set(true)
		d.invalidate()
		return NewBusError("cmdBufPayload", d.port, fmt.Errorf("%w: %w", ErrBusFailure, err), ErrorTypeTransient)
	}
	return nil
}

// cmdBufPayloadRead clocks n payload bytes into the internal buffer with
// select already asserted. Used after cmdWriteBegin for FIFO pulls.
func (d *Device) cmdBufPayloadRead(n int) error {
	if err := d.bus.Transfer(d.zeros[:n], d.buf.data()[:n]); err != nil {
		_ = d.nss.Set(true)
		d.invalidate()
		return NewBusError("cmdBufPayloadRead", d.port, fmt.Errorf("%w: %w", ErrBusFailure, err), ErrorTypeTransient)
	}
	return nil
}

// cmdBufWrite sends the first n bytes of the internal buffer's payload
// area as a command. The bytes are staged first so the read slice never
// aliases the write slice during the transfer.
func (d *Device) cmdBufWrite(ctx context.Context, n int) error {
	if n < 0 || n > BufferSize {
		return fmt.Errorf("length %d exceeds capacity %d: %w", n, BufferSize, ErrInvalidParameter)
	}
	if err := d.waitReady(ctx, d.config.BusyTimeout); err != nil {
		return err
	}
	copy(d.txScratch[:n], d.buf.data()[:n])
	if err := d.nss.Set(false); err != nil {
		return fmt.Errorf("assert select: %w", ErrPinFailure)
	}
	if err := d.bus.Transfer(d.txScratch[:n], d.buf.data()[:n]); err != nil {
		_ = d.nss.Set(true)
		d.invalidate()
		return NewBusError("cmdBufWrite", d.port, fmt.Errorf("%w: %w", ErrBusFailure, err), ErrorTypeTransient)
	}
	if err := d.nss.Set(true); err != nil {
		return fmt.Errorf("release select: %w", ErrPinFailure)
	}
	return nil
}
