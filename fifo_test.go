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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteTxFIFOFromFraming(t *testing.T) {
	t.Parallel()
	d, bus, nss, _ := newTestDevice()

	payload := []byte{0x01, 0x02, 0x03}
	require.NoError(t, d.WriteTxFIFOFrom(testCtx(), payload))

	// Two transfers under a single select window: the FIFO opcode,
	// then the payload.
	require.Equal(t, 2, bus.Count())
	assert.Equal(t, []byte{0x00, 0x02}, bus.Written(0))
	assert.Equal(t, payload, bus.Written(1))
	assert.Equal(t, []bool{false, true}, nss.Levels)
}

func TestWriteTxFIFOUsesInternalBuffer(t *testing.T) {
	t.Parallel()
	d, bus, _, _ := newTestDevice()

	copy(d.BufferMut(), []byte{0xDE, 0xAD, 0xBE, 0xEF})
	require.NoError(t, d.WriteTxFIFO(testCtx(), 4))

	require.Equal(t, 2, bus.Count())
	assert.Equal(t, []byte{0x00, 0x02}, bus.Written(0))
	assert.Equal(t, []byte{0xDE, 0xAD, 0xBE, 0xEF}, bus.Written(1))
}

func TestReadRxFIFORoundTrip(t *testing.T) {
	t.Parallel()
	d, bus, _, _ := newTestDevice()
	bus.Script = []MockTransfer{
		{}, // opcode write
		{Response: []byte{0x11, 0x22, 0x33}},
	}

	got, err := d.ReadRxFIFO(testCtx(), 3)
	require.NoError(t, err)
	assert.Equal(t, []byte{0x11, 0x22, 0x33}, got)
	assert.Equal(t, []byte{0x00, 0x01}, bus.Written(0))
}

func TestReadRxFIFOTo(t *testing.T) {
	t.Parallel()
	d, bus, _, _ := newTestDevice()
	bus.Script = []MockTransfer{
		{},
		{Response: []byte{0xAA, 0xBB}},
	}

	buf := make([]byte, 2)
	require.NoError(t, d.ReadRxFIFOTo(testCtx(), buf))
	assert.Equal(t, []byte{0xAA, 0xBB}, buf)
}

func TestFIFOLengthValidation(t *testing.T) {
	t.Parallel()
	d, bus, _, _ := newTestDevice()
	ctx := testCtx()

	tests := []struct {
		name string
		call func() error
	}{
		{"write zero", func() error { return d.WriteTxFIFO(ctx, 0) }},
		{"write over capacity", func() error { return d.WriteTxFIFO(ctx, BufferSize+1) }},
		{"write from empty", func() error { return d.WriteTxFIFOFrom(ctx, nil) }},
		{"write from oversized", func() error { return d.WriteTxFIFOFrom(ctx, make([]byte, BufferSize+1)) }},
		{"read zero", func() error { _, err := d.ReadRxFIFO(ctx, 0); return err }},
		{"read over capacity", func() error { _, err := d.ReadRxFIFO(ctx, BufferSize+1); return err }},
		{"read to oversized", func() error { return d.ReadRxFIFOTo(ctx, make([]byte, BufferSize+1)) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.call()
			require.ErrorIs(t, err, ErrInvalidParameter)
		})
	}
	assert.Zero(t, bus.Count(), "invalid lengths must be refused before the bus")
}

func TestFIFOLevels(t *testing.T) {
	t.Parallel()
	d, bus, _, _ := newTestDevice()
	bus.Script = []MockTransfer{
		{},
		{Response: []byte{0x04, 0x00, 0x00, 0x80}},
		{},
		{Response: []byte{0x04, 0x00, 0x01, 0x00}},
	}
	ctx := testCtx()

	tx, err := d.TxFIFOLevel(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x80), tx)

	rx, err := d.RxFIFOLevel(ctx)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x100), rx)

	assert.Equal(t, []byte{0x01, 0x19}, bus.Written(0))
	assert.Equal(t, []byte{0x01, 0x1A}, bus.Written(2))
}

func TestClearFIFOs(t *testing.T) {
	t.Parallel()
	d, bus, _, _ := newTestDevice()
	ctx := testCtx()

	require.NoError(t, d.ClearTxFIFO(ctx))
	require.NoError(t, d.ClearRxFIFO(ctx))
	assert.Equal(t, []byte{0x01, 0x1B}, bus.Written(0))
	assert.Equal(t, []byte{0x01, 0x1C}, bus.Written(1))
}

func TestSetFifoIrqValidatesWatermarks(t *testing.T) {
	t.Parallel()
	d, bus, _, _ := newTestDevice()

	err := d.SetFifoIrq(testCtx(), FifoIrqConfig{RxHigh: BufferSize + 1})
	require.ErrorIs(t, err, ErrInvalidParameter)
	assert.Zero(t, bus.Count())

	require.NoError(t, d.SetFifoIrq(testCtx(), FifoIrqConfig{
		RxEnable: 1,
		RxLow:    8,
		RxHigh:   192,
	}))
	assert.Equal(t, 1, bus.Count())
}
