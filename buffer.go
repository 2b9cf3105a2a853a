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

// BufferSize is the capacity of the payload area of the internal command
// buffer. It matches the chip FIFO width and bounds every length-only
// FIFO call.
const BufferSize = 256

// cmdBuffer backs every command exchange. The first two bytes hold the
// status word of the last transfer; the remaining BufferSize bytes are the
// payload area exposed through Device.Buffer and Device.BufferMut.
// It is owned by exactly one Device and reused across calls, so no
// per-command allocation happens on the hot path.
type cmdBuffer struct {
	raw [BufferSize + 2]byte
}

// status decodes the first two bytes as the last status word.
func (b *cmdBuffer) status() Status {
	return StatusFromBytes(b.raw[:2])
}

// updateStatus copies the status bytes of a response into the buffer head.
func (b *cmdBuffer) updateStatus(rsp []byte) {
	n := copy(b.raw[:2], rsp)
	for ; n < 2; n++ {
		b.raw[n] = 0
	}
}

// writeCmdStatus returns the command status as aligned in the byte
// stream of a command write phase (bits 3:1 of the first byte).
func (b *cmdBuffer) writeCmdStatus() CmdStatus {
	bits := (b.raw[0] >> 1) & 7
	if bits > uint8(CmdData) {
		return CmdUnknown
	}
	return CmdStatus(bits)
}

// data returns the payload area.
func (b *cmdBuffer) data() []byte {
	return b.raw[2:]
}
