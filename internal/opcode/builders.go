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

package opcode

// SetSleepCmd builds the sleep-family command. rtcWake keeps the RTC
// running so the chip wakes after wakeAfter LF clock steps; retention
// selects which memory banks survive.
func SetSleepCmd(rtcWake bool, retention uint8, wakeAfter uint32) []byte {
	var cfg byte
	if rtcWake {
		cfg = 0x01
	}
	cfg |= (retention & 0x07) << 1
	cmd := Req(SetSleep, cfg)
	return Put32(cmd, wakeAfter)
}

// SetStandbyCmd builds the standby command. xosc selects the crystal
// oscillator clocked variant; false selects the RC variant.
func SetStandbyCmd(xosc bool) []byte {
	var src byte
	if xosc {
		src = 0x01
	}
	return Req(SetStandby, src)
}

// SetTxCmd builds the TX mode command. timeout is in LF clock steps.
func SetTxCmd(timeout uint32) []byte {
	return Put24(Req(SetTx), timeout)
}

// SetRxCmd builds the RX mode command. timeout is in LF clock steps;
// 0xFFFFFF selects continuous reception.
func SetRxCmd(timeout uint32) []byte {
	return Put24(Req(SetRx), timeout)
}

// ReadRegMem32Req builds a register/memory read of nb32 32-bit words
// starting at a 24-bit address.
func ReadRegMem32Req(addr uint32, nb32 uint8) []byte {
	return append(Put24(Req(ReadRegMem32), addr), nb32)
}

// WriteRegMem32Cmd builds a single 32-bit register/memory write.
func WriteRegMem32Cmd(addr, value uint32) []byte {
	return Put32(Put24(Req(WriteRegMem32), addr), value)
}

// WriteRegMemMask32Cmd builds a masked register write: only the bits set
// in mask are updated with the corresponding bits of value.
func WriteRegMemMask32Cmd(addr, mask, value uint32) []byte {
	return Put32(Put32(Put24(Req(WriteRegMemMask32), addr), mask), value)
}

// ClearIrqCmd builds the interrupt acknowledge command.
func ClearIrqCmd(mask uint32) []byte {
	return Put32(Req(ClearIrq), mask)
}

// CalibFeCmd builds the front-end calibration command for up to three
// frequency words (MSB of each word encodes the RX path).
func CalibFeCmd(freqs []uint16) []byte {
	cmd := Req(CalibFe)
	for _, f := range freqs {
		cmd = Put16(cmd, f)
	}
	return cmd
}

// CfgFifoIrqCmd builds the FIFO interrupt configuration command with
// enable flags and low/high thresholds for both directions.
func CfgFifoIrqCmd(rxEn, txEn uint8, rxLow, rxHigh, txLow, txHigh uint16) []byte {
	cmd := Req(CfgFifoIrq, rxEn, txEn)
	cmd = Put16(cmd, rxLow)
	cmd = Put16(cmd, rxHigh)
	cmd = Put16(cmd, txLow)
	return Put16(cmd, txHigh)
}

// SetRfFrequencyCmd builds the RF channel command, frequency in Hz.
func SetRfFrequencyCmd(hz uint32) []byte {
	return Put32(Req(SetRfFrequency), hz)
}

// SetTxParamsCmd builds the TX power/ramp command. Power is in half-dB.
func SetTxParamsCmd(power int8, rampTime uint8) []byte {
	return Req(SetTxParams, byte(power), rampTime)
}

// SetPaConfigCmd builds the power amplifier configuration command.
func SetPaConfigCmd(paSel, paMode, dutyCycle, slices uint8) []byte {
	return Req(SetPaConfig, paSel, paMode, dutyCycle, slices)
}

// SetRxDutyCycleCmd builds the periodic RX command: listen for listenTime,
// repeat every cycleTime (both in LF clock steps). useCad swaps the
// listen phase for a channel activity detection.
func SetRxDutyCycleCmd(listenTime, cycleTime uint32, useCad bool, ramRetention uint8) []byte {
	cmd := Put24(Req(SetRxDutyCycle), listenTime)
	cmd = Put24(cmd, cycleTime)
	var cfg byte
	if useCad {
		cfg = 0x80
	}
	cfg |= ramRetention & 0x07
	return append(cmd, cfg)
}

// SetCadParamsCmd builds the channel activity detection parameter command.
func SetCadParamsCmd(cadTimeout uint32, threshold, exitMode uint8, trxTimeout uint32) []byte {
	cmd := Put24(Req(SetCadParams), cadTimeout)
	cmd = append(cmd, threshold, exitMode)
	return Put24(cmd, trxTimeout)
}

// SetCcaCmd builds the clear channel assessment command for a duration in
// 31.25ns steps. A zero gain selects automatic gain.
func SetCcaCmd(duration uint32, gain uint8) []byte {
	cmd := Put24(Req(SetCca), duration)
	if gain == 0 {
		return cmd
	}
	return append(cmd, gain)
}

// SetDefaultRxTxTimeoutCmd builds the default timeout command used when
// TX/RX is started from a DIO trigger.
func SetDefaultRxTxTimeoutCmd(rx, tx uint32) []byte {
	return Put24(Put24(Req(SetDefaultRxTxTimeout), rx), tx)
}

// SetAutoRxTxCmd builds the automatic TX-after-RX (or RX-after-TX)
// command. The mode triggers once and must be re-armed.
func SetAutoRxTxCmd(clear bool, mode uint8, timeout, delay uint32) []byte {
	var cfg byte
	if clear {
		cfg = 0x80
	}
	cfg |= mode & 0x0F
	cmd := Req(SetAutoRxTx, cfg)
	cmd = Put24(cmd, timeout)
	return Put24(cmd, delay)
}

// SetTcxoModeCmd builds the TCXO control command: supply voltage code and
// startup delay in LF clock steps.
func SetTcxoModeCmd(voltage uint8, delay uint32) []byte {
	return Put24(Req(SetTcxoMode, voltage), delay)
}
