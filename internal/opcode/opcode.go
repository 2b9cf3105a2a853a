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

// Package opcode holds the chip command opcodes and the builders that
// turn typed parameters into wire bytes. Every command is framed as
// [opcode_hi, opcode_lo, param_0 .. param_n]; the tables here are
// read-only and never mutated at runtime.
package opcode

// Command opcodes, grouped by function block.
const (
	// FIFO access
	ReadRxFifo  uint16 = 0x0001
	WriteTxFifo uint16 = 0x0002

	// System block
	GetStatus         uint16 = 0x0100
	GetVersion        uint16 = 0x0101
	GetErrors         uint16 = 0x0102
	ClearErrors       uint16 = 0x0103
	WriteRegMem32     uint16 = 0x0104
	ReadRegMem32      uint16 = 0x0105
	WriteRegMemMask32 uint16 = 0x0106
	GetAndClearIrq    uint16 = 0x0108
	ClearIrq          uint16 = 0x0109
	SetDioFunction    uint16 = 0x010A
	SetDioIrqConfig   uint16 = 0x010B
	SetDioRfSwitch    uint16 = 0x010C
	CalibFe           uint16 = 0x010E

	SetSleep     uint16 = 0x0110
	SetStandby   uint16 = 0x0111
	SetFs        uint16 = 0x0112
	SetTcxoMode  uint16 = 0x0113
	SetRegMode   uint16 = 0x0114
	GetTemp      uint16 = 0x0115
	GetVbat      uint16 = 0x0116
	EnablePram   uint16 = 0x0117
	GetTxFifoLvl uint16 = 0x0119
	GetRxFifoLvl uint16 = 0x011A
	ClearTxFifo  uint16 = 0x011B
	ClearRxFifo  uint16 = 0x011C
	CfgFifoIrq   uint16 = 0x011D
	GetFifoIrq   uint16 = 0x011E

	// Radio block
	SetRfFrequency        uint16 = 0x0200
	SetPacketType         uint16 = 0x0201
	SetTxParams           uint16 = 0x0202
	SetPaConfig           uint16 = 0x0203
	SetFallbackMode       uint16 = 0x0204
	SetTx                 uint16 = 0x0205
	SetRx                 uint16 = 0x0206
	SetRxDutyCycle        uint16 = 0x0207
	SetCadParams          uint16 = 0x0208
	SetCad                uint16 = 0x0209
	SetCca                uint16 = 0x020A
	GetCcaResult          uint16 = 0x020B
	SetAgcGainManual      uint16 = 0x020C
	ResetRxStats          uint16 = 0x020D
	GetRxPktLength        uint16 = 0x020E
	GetRssiInst           uint16 = 0x020F
	SetDefaultRxTxTimeout uint16 = 0x0210
	SetStopTimeout        uint16 = 0x0211
	SetTimestampSource    uint16 = 0x0212
	GetTimestampValue     uint16 = 0x0213
	SetTxTestMode         uint16 = 0x0214
	SetRxPath             uint16 = 0x0215
	SetAutoRxTx           uint16 = 0x0216
)

// Req builds a command frame from an opcode and its parameter bytes.
func Req(op uint16, params ...byte) []byte {
	cmd := make([]byte, 2, 2+len(params))
	cmd[0] = byte(op >> 8)
	cmd[1] = byte(op)
	return append(cmd, params...)
}

// Put16 appends v big-endian.
func Put16(cmd []byte, v uint16) []byte {
	return append(cmd, byte(v>>8), byte(v))
}

// Put24 appends the low 24 bits of v big-endian.
func Put24(cmd []byte, v uint32) []byte {
	return append(cmd, byte(v>>16), byte(v>>8), byte(v))
}

// Put32 appends v big-endian.
func Put32(cmd []byte, v uint32) []byte {
	return append(cmd, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}
