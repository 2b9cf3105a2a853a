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

func TestModeTransitionsThroughStandby(t *testing.T) {
	t.Parallel()
	d, bus, _, _ := newTestDevice()
	ctx := testCtx()

	require.NoError(t, d.SetTx(ctx, 0))
	mode, known := d.Mode()
	assert.True(t, known)
	assert.Equal(t, ModeTx, mode)

	// The TX command carries a 24-bit timeout.
	assert.Equal(t, []byte{0x02, 0x05, 0x00, 0x00, 0x00}, bus.Written(0))

	require.NoError(t, d.SetStandby(ctx, false))
	mode, _ = d.Mode()
	assert.Equal(t, ModeStandbyRC, mode)

	require.NoError(t, d.SetRx(ctx, 0xFFFFFF))
	mode, _ = d.Mode()
	assert.Equal(t, ModeRx, mode)
}

func TestDirectTxRxHopsRefused(t *testing.T) {
	t.Parallel()
	d, bus, _, _ := newTestDevice()
	ctx := testCtx()

	require.NoError(t, d.SetTx(ctx, 0))
	sent := bus.Count()

	// Tx to Rx without a standby hop is refused before the bus.
	err := d.SetRx(ctx, 0)
	require.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, sent, bus.Count())

	err = d.SetFs(ctx)
	require.ErrorIs(t, err, ErrInvalidState)
}

func TestSleepRequiresWakeUp(t *testing.T) {
	t.Parallel()
	d, bus, _, _ := newTestDevice()
	ctx := testCtx()

	require.NoError(t, d.SetSleep(ctx, 1024))
	mode, known := d.Mode()
	assert.True(t, known)
	assert.Equal(t, ModeSleep, mode)

	sent := bus.Count()

	// Asleep, the chip cannot hear commands: every transition is
	// refused until WakeUp, including standby.
	err := d.SetTx(ctx, 0)
	require.ErrorIs(t, err, ErrInvalidState)
	err = d.SetStandby(ctx, false)
	require.ErrorIs(t, err, ErrInvalidState)
	assert.Equal(t, sent, bus.Count())

	require.NoError(t, d.WakeUp())
	mode, known = d.Mode()
	assert.True(t, known)
	assert.Equal(t, ModeStandbyRC, mode)

	require.NoError(t, d.SetTx(ctx, 0))
}

func TestSleepDropsPatch(t *testing.T) {
	t.Parallel()
	d, _, _, _ := newTestDevice()
	ctx := testCtx()

	require.NoError(t, d.LoadPatch(ctx, make([]byte, 64)))
	require.NoError(t, d.EnablePatch(ctx))
	loaded, enabled := d.PatchLoaded()
	require.True(t, loaded)
	require.True(t, enabled)

	require.NoError(t, d.SetSleep(ctx, 0))
	loaded, enabled = d.PatchLoaded()
	assert.False(t, loaded, "non-retention sleep loses patch RAM")
	assert.False(t, enabled)
}

func TestRetentionSleepKeepsPatch(t *testing.T) {
	t.Parallel()
	d, _, _, _ := newTestDevice()
	ctx := testCtx()

	require.NoError(t, d.LoadPatch(ctx, make([]byte, 64)))
	require.NoError(t, d.EnablePatch(ctx))

	require.NoError(t, d.SetRetentionSleep(ctx, 0x03, 2048))
	loaded, enabled := d.PatchLoaded()
	assert.True(t, loaded)
	assert.True(t, enabled)

	err := d.SetRetentionSleep(ctx, 0, 2048)
	require.ErrorIs(t, err, ErrInvalidState, "already asleep")
}

func TestRetentionSleepRequiresBanks(t *testing.T) {
	t.Parallel()
	d, bus, _, _ := newTestDevice()

	err := d.SetRetentionSleep(testCtx(), 0, 1024)
	require.ErrorIs(t, err, ErrInvalidParameter)
	assert.Zero(t, bus.Count())
}

func TestUnknownModeGatesTransitions(t *testing.T) {
	t.Parallel()
	d, _, _, _ := newTestDevice()
	d.modeKnown = false
	ctx := testCtx()

	err := d.SetTx(ctx, 0)
	require.ErrorIs(t, err, ErrStaleState)
	err = d.SetStandby(ctx, true)
	require.ErrorIs(t, err, ErrStaleState)
}

func TestRefreshModeReseedsTracker(t *testing.T) {
	t.Parallel()
	d, bus, _, _ := newTestDevice()
	d.modeKnown = false
	// GetStatus response reporting FS mode.
	bus.Script = []MockTransfer{
		{},
		{Response: []byte{0x04, 0x03, 0x00, 0x00, 0x00, 0x00}},
	}

	mode, err := d.RefreshMode(testCtx())
	require.NoError(t, err)
	assert.Equal(t, ModeFs, mode)

	got, known := d.Mode()
	assert.True(t, known)
	assert.Equal(t, ModeFs, got)
}

func TestRefreshModeRejectsUnknownReport(t *testing.T) {
	t.Parallel()
	d, bus, _, _ := newTestDevice()
	bus.Script = []MockTransfer{
		{},
		{Response: []byte{0x04, 0x07, 0x00, 0x00, 0x00, 0x00}},
	}

	_, err := d.RefreshMode(testCtx())
	require.ErrorIs(t, err, ErrStaleState)
	_, known := d.Mode()
	assert.False(t, known)
}

func TestResetRestoresStandby(t *testing.T) {
	t.Parallel()
	bus := NewMockBus()
	nss := &MockOutputPin{}
	busy := &MockBusyPin{}
	nreset := &MockOutputPin{}
	d, err := New(bus, nss, busy, nreset, WithResetHold(1))
	require.NoError(t, err)

	require.NoError(t, d.Reset())

	// Reset pulses low then releases.
	require.Len(t, nreset.Levels, 2)
	assert.False(t, nreset.Levels[0])
	assert.True(t, nreset.Levels[1])

	mode, known := d.Mode()
	assert.True(t, known)
	assert.Equal(t, ModeStandbyRC, mode)

	loaded, _ := d.PatchLoaded()
	assert.False(t, loaded, "reset clears patch RAM")
}
