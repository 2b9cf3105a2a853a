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

package serialbridge

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.bug.st/serial"
)

// fakePort is an in-memory serial.Port. Only Read and Write are used by
// the transport; the embedded nil interface covers the rest.
type fakePort struct {
	serial.Port

	written bytes.Buffer
	reply   bytes.Buffer
}

func (p *fakePort) Write(b []byte) (int, error) {
	return p.written.Write(b)
}

func (p *fakePort) Read(b []byte) (int, error) {
	if p.reply.Len() == 0 {
		// A serial read returns zero bytes on timeout.
		return 0, nil
	}
	return p.reply.Read(b)
}

// queueReply stages one bridge response frame.
func (p *fakePort) queueReply(status byte, payload []byte) {
	p.reply.WriteByte(status)
	p.reply.WriteByte(byte(len(payload) >> 8))
	p.reply.WriteByte(byte(len(payload)))
	p.reply.Write(payload)
}

func newFakeTransport() (*Transport, *fakePort) {
	port := &fakePort{}
	return &Transport{port: port, name: "fake"}, port
}

func TestTransferFraming(t *testing.T) {
	t.Parallel()

	tr, port := newFakeTransport()
	port.queueReply(stOK, []byte{0x04, 0x00, 0xAB, 0xCD})

	r := make([]byte, 4)
	require.NoError(t, tr.Bus().Transfer([]byte{0x01, 0x01}, r))

	assert.Equal(t, []byte{opTransfer, 0x00, 0x02, 0x01, 0x01}, port.written.Bytes())
	assert.Equal(t, []byte{0x04, 0x00, 0xAB, 0xCD}, r)
}

func TestSetPinFraming(t *testing.T) {
	t.Parallel()

	tr, port := newFakeTransport()
	port.queueReply(stOK, nil)
	port.queueReply(stOK, nil)

	require.NoError(t, tr.Nss().Set(false))
	require.NoError(t, tr.Reset().Set(true))

	want := []byte{
		opSetPin, 0x00, 0x02, pinNss, 0,
		opSetPin, 0x00, 0x02, pinReset, 1,
	}
	assert.Equal(t, want, port.written.Bytes())
}

func TestGetPinDecodesLevel(t *testing.T) {
	t.Parallel()

	tr, port := newFakeTransport()
	port.queueReply(stOK, []byte{1})

	high, err := tr.Busy().Get()
	require.NoError(t, err)
	assert.True(t, high)
	assert.Equal(t, []byte{opGetPin, 0x00, 0x01, pinBusy}, port.written.Bytes())
}

func TestRoundTripErrors(t *testing.T) {
	t.Parallel()

	t.Run("bridge error status", func(t *testing.T) {
		t.Parallel()

		tr, port := newFakeTransport()
		port.queueReply(stErr, nil)
		err := tr.Nss().Set(true)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bridge reported error")
	})

	t.Run("short response", func(t *testing.T) {
		t.Parallel()

		tr, port := newFakeTransport()
		port.queueReply(stOK, []byte{0x04})
		r := make([]byte, 4)
		err := tr.Bus().Transfer([]byte{0x01, 0x00}, r)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "short")
	})

	t.Run("read timeout", func(t *testing.T) {
		t.Parallel()

		tr, _ := newFakeTransport()
		err := tr.Nss().Set(true)
		require.Error(t, err)
		assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	})

	t.Run("oversized payload", func(t *testing.T) {
		t.Parallel()

		tr, _ := newFakeTransport()
		err := tr.Bus().Transfer(make([]byte, frameMax+1), nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exceeds")
	})
}
