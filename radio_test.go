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

func TestSetRfFraming(t *testing.T) {
	t.Parallel()
	d, bus, _, _ := newTestDevice()

	require.NoError(t, d.SetRf(testCtx(), 868_100_000))
	assert.Equal(t, []byte{0x02, 0x00, 0x33, 0xBE, 0x27, 0xA0}, bus.Written(0))
}

func TestSetTxParamsEncoding(t *testing.T) {
	t.Parallel()
	d, bus, _, _ := newTestDevice()

	// Negative power rides as two's complement.
	require.NoError(t, d.SetTxParams(testCtx(), -10, Ramp48u))
	assert.Equal(t, []byte{0x02, 0x02, 0xF6, 0x06}, bus.Written(0))
}

func TestCadDropsModeTracking(t *testing.T) {
	t.Parallel()
	d, bus, _, _ := newTestDevice()
	ctx := testCtx()

	require.NoError(t, d.SetCadParams(ctx, 1000, 70, ExitTxIfClear, 2000))
	require.NoError(t, d.StartCad(ctx))

	_, known := d.Mode()
	assert.False(t, known, "CAD may chain into TX or RX on its own")

	// Everything mode-gated now refuses until a refresh.
	err := d.SetTx(ctx, 0)
	require.ErrorIs(t, err, ErrStaleState)
	assert.Equal(t, 2, bus.Count())
}

func TestAutoRxTxDropsModeTracking(t *testing.T) {
	t.Parallel()
	d, _, _, _ := newTestDevice()

	require.NoError(t, d.SetAutoRxTx(testCtx(), false, AutoTxAfterRx, 0, 16))
	_, known := d.Mode()
	assert.False(t, known)
}

func TestRxDutyCycleValidation(t *testing.T) {
	t.Parallel()
	d, bus, _, _ := newTestDevice()
	ctx := testCtx()

	err := d.SetRxDutyCycle(ctx, 2000, 1000, false, 0)
	require.ErrorIs(t, err, ErrInvalidParameter)
	assert.Zero(t, bus.Count())

	require.NoError(t, d.SetRxDutyCycle(ctx, 1000, 4000, true, 1))
	_, known := d.Mode()
	assert.False(t, known)
}

func TestCcaRequiresStandbyOrFs(t *testing.T) {
	t.Parallel()
	d, bus, _, _ := newTestDevice()
	ctx := testCtx()

	require.NoError(t, d.SetCca(ctx, 3200, 0))

	require.NoError(t, d.SetFs(ctx))
	require.NoError(t, d.SetCca(ctx, 3200, 5))

	// From TX the assessment is refused.
	require.NoError(t, d.SetStandby(ctx, false))
	require.NoError(t, d.SetTx(ctx, 0))
	sent := bus.Count()
	err := d.SetCca(ctx, 3200, 0)
	require.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, sent, bus.Count())
}

func TestGetCcaResult(t *testing.T) {
	t.Parallel()
	d, bus, _, _ := newTestDevice()
	bus.Script = []MockTransfer{
		{},
		{Response: []byte{0x04, 0x00, 0x01, 0xA0, 0x8C}},
	}

	res, err := d.GetCcaResult(testCtx())
	require.NoError(t, err)
	assert.True(t, res.Busy)
	assert.Equal(t, uint8(0xA0), res.RssiMax)
	assert.Equal(t, uint8(0x8C), res.RssiMin)
}

func TestRssiAverage(t *testing.T) {
	t.Parallel()
	d, bus, _, _ := newTestDevice()
	bus.Script = []MockTransfer{
		{}, {Response: []byte{0x04, 0x00, 0x00, 0x64}},
		{}, {Response: []byte{0x04, 0x00, 0x00, 0x6A}},
	}
	ctx := testCtx()

	avg, err := d.GetRssiAvg(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, uint16(0x67), avg)

	_, err = d.GetRssiAvg(ctx, 0)
	require.ErrorIs(t, err, ErrInvalidParameter)
}

func TestRxGainClamped(t *testing.T) {
	t.Parallel()
	d, bus, _, _ := newTestDevice()

	require.NoError(t, d.SetRxGain(testCtx(), 200))
	assert.Equal(t, []byte{0x02, 0x0C, 0x0D}, bus.Written(0))
}

func TestTimestampSlots(t *testing.T) {
	t.Parallel()
	d, bus, _, _ := newTestDevice()
	bus.Script = []MockTransfer{
		{},
		{},
		{Response: []byte{0x04, 0x00, 0x00, 0x01, 0x86, 0xA0}},
	}
	ctx := testCtx()

	require.NoError(t, d.SetTimestampSource(ctx, Timestamp1, TimestampRxDone))
	assert.Equal(t, []byte{0x02, 0x13, 0x01, 0x02}, bus.Written(0))

	ts, err := d.GetTimestamp(ctx, Timestamp1)
	require.NoError(t, err)
	assert.Equal(t, uint32(100000), ts)

	_, err = d.GetTimestamp(ctx, TimestampIndex(3))
	require.ErrorIs(t, err, ErrInvalidParameter)
}

func TestSetTxTestIsModeGated(t *testing.T) {
	t.Parallel()
	d, _, _, _ := newTestDevice()
	ctx := testCtx()

	require.NoError(t, d.SetTxTest(ctx, TestCw))
	mode, known := d.Mode()
	assert.True(t, known)
	assert.Equal(t, ModeTx, mode)

	err := d.SetTxTest(ctx, TestPrbs9)
	require.ErrorIs(t, err, ErrInvalidState, "already transmitting")
}
