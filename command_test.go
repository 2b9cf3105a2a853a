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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecWriteOnlyFraming(t *testing.T) {
	t.Parallel()
	d, bus, nss, _ := newTestDevice()

	rsp, err := d.Exec(0x0111, []byte{0x01}, 0)
	require.NoError(t, err)

	// One transfer: opcode big-endian plus the parameter byte.
	require.Equal(t, 1, bus.Count())
	assert.Equal(t, []byte{0x01, 0x11, 0x01}, bus.Written(0))
	assert.True(t, rsp.Status.OK())
	assert.Empty(t, rsp.Payload)

	// Select was asserted then released.
	require.Len(t, nss.Levels, 2)
	assert.False(t, nss.Levels[0])
	assert.True(t, nss.Levels[1])
}

func TestExecReadRunsTwoPhases(t *testing.T) {
	t.Parallel()
	d, bus, nss, _ := newTestDevice()
	bus.Script = []MockTransfer{
		{}, // write phase, default ok status
		{Response: []byte{0x04, 0x01, 0xAB, 0xCD}},
	}

	rsp, err := d.Exec(0x0100, nil, 2)
	require.NoError(t, err)

	require.Equal(t, 2, bus.Count())
	assert.Equal(t, []byte{0x01, 0x00}, bus.Written(0))
	// The read phase clocks out zeros for the full response length.
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x00}, bus.Written(1))

	assert.Equal(t, Status(0x0401), rsp.Status)
	assert.Equal(t, []byte{0xAB, 0xCD}, rsp.Payload)

	// Each phase gets its own select window.
	require.Len(t, nss.Levels, 4)
	assert.Equal(t, []bool{false, true, false, true}, nss.Levels)
}

func TestExecRejectsOversizedResponse(t *testing.T) {
	t.Parallel()
	d, bus, _, _ := newTestDevice()

	_, err := d.Exec(0x0100, nil, BufferSize+1)
	require.ErrorIs(t, err, ErrInvalidParameter)
	assert.Zero(t, bus.Count(), "invalid request must not touch the bus")
}

func TestWritePhaseStatusRejection(t *testing.T) {
	t.Parallel()
	d, bus, nss, _ := newTestDevice()
	// Write-phase status rides in bits 3:1 of the first byte clocked
	// out: 0x02 encodes a parameter error.
	bus.Script = []MockTransfer{
		{Response: []byte{0x02}},
	}

	_, err := d.Exec(0x0205, []byte{0xFF, 0xFF, 0xFF}, 0)
	require.ErrorIs(t, err, ErrCommandRejected)

	var cmdErr *CommandError
	require.ErrorAs(t, err, &cmdErr)

	// The select line must not stay asserted after a refusal.
	assert.True(t, nss.Last())
}

func TestReadPhaseStatusFailure(t *testing.T) {
	t.Parallel()
	d, bus, _, _ := newTestDevice()
	bus.Script = []MockTransfer{
		{},
		{Response: []byte{0x00, 0x20}}, // cmd fail, external reset
	}

	_, err := d.Exec(0x0100, nil, 2)
	require.ErrorIs(t, err, ErrCommandFailed)

	var cmdErr *CommandError
	require.ErrorAs(t, err, &cmdErr)
	assert.Equal(t, ResetExternal, cmdErr.Status.ResetSource())
}

func TestBusyTimeoutStuckHigh(t *testing.T) {
	t.Parallel()
	d, bus, _, busy := newTestDevice()
	d.config.BusyTimeout = 2 * time.Millisecond
	busy.Level = true

	_, err := d.Exec(0x0111, []byte{0x00}, 0)
	require.ErrorIs(t, err, ErrBusyTimeout)
	assert.Zero(t, bus.Count(), "no transfer may start while busy is high")
	assert.True(t, IsRetryable(err))

	// Nothing was sent, so the chip state is still what we knew.
	_, known := d.Mode()
	assert.True(t, known, "a pre-transfer timeout must not invalidate the tracker")
}

func TestBusFailureInvalidatesState(t *testing.T) {
	t.Parallel()
	d, bus, _, _ := newTestDevice()
	injected := errors.New("spi: transfer failed")
	bus.Script = []MockTransfer{
		{Err: injected},
	}

	_, err := d.Exec(0x0111, []byte{0x00}, 0)
	require.ErrorIs(t, err, ErrBusFailure)
	require.ErrorIs(t, err, injected)

	_, known := d.Mode()
	assert.False(t, known, "a bus fault must invalidate the mode tracker")
}

func TestResponseTimeoutInvalidatesState(t *testing.T) {
	t.Parallel()
	d, _, _, busy := newTestDevice()
	d.config.ResponseTimeout = 2 * time.Millisecond
	// Ready for the write phase, then stuck high while processing.
	busy.Sequence = []bool{false}
	busy.Level = true

	_, err := d.Exec(0x0100, nil, 2)
	require.ErrorIs(t, err, ErrBusyTimeout)

	_, known := d.Mode()
	assert.False(t, known, "a response timeout leaves chip state uncertain")
}

func TestWaitReadyUsesEdgeWaiter(t *testing.T) {
	t.Parallel()
	d, _, _, _ := newTestDevice()
	waiter := &edgeWaiterPin{}
	d.busy = waiter

	_, err := d.Exec(0x0111, []byte{0x01}, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, waiter.waits, "busy-high pin with WaitLow should be waited on, not polled")
}

// edgeWaiterPin reports busy once, then satisfies the edge wait.
type edgeWaiterPin struct {
	reads int
	waits int
}

func (p *edgeWaiterPin) Get() (bool, error) {
	p.reads++
	return p.reads == 1, nil
}

func (p *edgeWaiterPin) WaitLow(_ context.Context) error {
	p.waits++
	return nil
}
