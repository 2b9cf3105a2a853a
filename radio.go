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

// PacketType selects the active modem.
type PacketType uint8

const (
	PacketNone PacketType = iota
	PacketLora
	PacketRanging
	PacketFsk
	PacketFlrc
	PacketBle
	PacketBpsk
	PacketOok
	PacketZigbee
	PacketWmbus
	PacketLrFhss
	PacketWisun
	PacketZwave
)

func (p PacketType) String() string {
	switch p {
	case PacketNone:
		return "none"
	case PacketLora:
		return "lora"
	case PacketRanging:
		return "ranging"
	case PacketFsk:
		return "fsk"
	case PacketFlrc:
		return "flrc"
	case PacketBle:
		return "ble"
	case PacketBpsk:
		return "bpsk"
	case PacketOok:
		return "ook"
	case PacketZigbee:
		return "zigbee"
	case PacketWmbus:
		return "wmbus"
	case PacketLrFhss:
		return "lr-fhss"
	case PacketWisun:
		return "wisun"
	case PacketZwave:
		return "zwave"
	default:
		return "invalid"
	}
}

// RampTime selects the PA ramp duration.
type RampTime uint8

const (
	Ramp2u RampTime = iota
	Ramp4u
	Ramp8u
	Ramp16u
	Ramp24u
	Ramp32u
	Ramp48u
	Ramp64u
	Ramp96u
	Ramp128u
	Ramp192u
	Ramp256u
	Ramp384u
)

// PaLfMode selects the low-frequency PA operating scheme.
type PaLfMode uint8

const (
	PaLfFsm PaLfMode = iota
	PaLfManual
	PaLfBypass
)

// paSel selects which power amplifier a PA config targets.
type paSel uint8

const (
	paSelLf paSel = iota
	paSelHf
)

// FallbackMode selects the mode the chip returns to after TX or RX.
type FallbackMode uint8

const (
	FallbackStandbyRC FallbackMode = iota + 1
	FallbackStandbyXosc
	FallbackFs
)

// RxPath selects the radio input path.
type RxPath uint8

const (
	RxPathLf RxPath = iota
	RxPathHf
)

// RxBoost selects extra RX front-end gain at a power cost.
type RxBoost uint8

const (
	RxBoostOff RxBoost = iota
	RxBoostLow
	RxBoostHigh
	RxBoostMax
)

// TestMode selects a TX test pattern.
type TestMode uint8

const (
	TestPreamble TestMode = iota
	TestCw
	TestPrbs9
)

// ExitMode controls what the chip does when channel activity detection
// completes.
type ExitMode uint8

const (
	ExitNone ExitMode = iota
	ExitTxIfClear
	ExitRxIfBusy
)

// AutoRxTxMode selects the follow-up operation after RxDone or TxDone.
type AutoRxTxMode uint8

const (
	AutoRxAfterTx AutoRxTxMode = iota
	AutoTxAfterRx
)

// TimestampIndex selects one of the configurable timestamp slots.
type TimestampIndex uint8

const (
	Timestamp0 TimestampIndex = iota
	Timestamp1
	Timestamp2
)

// TimestampSource selects the event a timestamp slot captures.
type TimestampSource uint8

const (
	TimestampNone TimestampSource = iota
	TimestampTxDone
	TimestampRxDone
	TimestampPreamble
	TimestampSync
	TimestampHeader
)

// CcaResult reports a clear channel assessment measurement.
type CcaResult struct {
	// Busy is true when activity was detected on the channel.
	Busy bool
	// RssiMax and RssiMin bound the measured RSSI in -0.5dBm steps.
	RssiMax uint8
	RssiMin uint8
}

// SetRf programs the RF frequency in Hz.
func (d *Device) SetRf(ctx context.Context, freqHz uint32) error {
	return d.cmdWrite(ctx, opcode.SetRfFrequencyCmd(freqHz))
}

// SetRfRanging programs the RF frequency for a ranging exchange. Call
// only after SetPacketType(PacketRanging).
func (d *Device) SetRfRanging(ctx context.Context, freqHz uint32) error {
	if err := d.SetRf(ctx, freqHz); err != nil {
		return err
	}
	return d.cmdWrite(ctx, opcode.WriteRegMemMask32Cmd(AddrFreqRf, 0x7F, 0))
}

// SetRxPath selects the LF or HF input path and its boost level.
func (d *Device) SetRxPath(ctx context.Context, path RxPath, boost RxBoost) error {
	return d.cmdWrite(ctx, opcode.Req(opcode.SetRxPath, byte(path), byte(boost)))
}

// SetPacketType selects the active modem.
func (d *Device) SetPacketType(ctx context.Context, pt PacketType) error {
	return d.cmdWrite(ctx, opcode.Req(opcode.SetPacketType, byte(pt)))
}

// SetTxParams sets the TX power in half-dB steps and the PA ramp time.
// The LF path accepts -19..44, the HF path -39..24. A ramp around
// 4/bandwidth keeps out-of-band emission down.
func (d *Device) SetTxParams(ctx context.Context, powerHalfDb int8, ramp RampTime) error {
	return d.cmdWrite(ctx, opcode.SetTxParamsCmd(powerHalfDb, byte(ramp)))
}

// SetPaLf configures the low-frequency power amplifier.
func (d *Device) SetPaLf(ctx context.Context, mode PaLfMode, dutyCycle, slices uint8) error {
	return d.cmdWrite(ctx, opcode.SetPaConfigCmd(byte(paSelLf), byte(mode), dutyCycle, slices))
}

// SetPaHf configures the high-frequency power amplifier.
func (d *Device) SetPaHf(ctx context.Context) error {
	return d.cmdWrite(ctx, opcode.SetPaConfigCmd(byte(paSelHf), byte(PaLfFsm), 6, 7))
}

// PA over-current protection thresholds.
const (
	PaOcpDefault = 55
	PaOcpLow900M = 41
)

// SetPaOcpThreshold raises or restores the LF PA over-current limit.
// Some 900MHz antenna matchings push consumption against the default
// limit. An incorrect threshold can destroy the chip.
func (d *Device) SetPaOcpThreshold(ctx context.Context, threshold uint8) error {
	value := uint32(threshold) << 19
	if err := d.WriteRegister(ctx, AddrPaLock, paLockKey); err != nil {
		return err
	}
	if err := d.cmdWrite(ctx, opcode.WriteRegMemMask32Cmd(AddrPaCtrl, 0x1F80000, value)); err != nil {
		return err
	}
	if err := d.WriteRegister(ctx, AddrPaLock, 0); err != nil {
		return err
	}
	return d.cmdWrite(ctx, opcode.WriteRegMemMask32Cmd(AddrOcpRetention, 0xFF, value))
}

// SetFallback selects the mode the chip drops to after TX or RX
// completes. The tracker picks the change up on the next RefreshMode.
func (d *Device) SetFallback(ctx context.Context, mode FallbackMode) error {
	return d.cmdWrite(ctx, opcode.Req(opcode.SetFallbackMode, byte(mode)))
}

// SetTxTest starts a TX test pattern (infinite preamble, continuous
// wave or PRBS9). The chip stays in TX until an explicit standby.
func (d *Device) SetTxTest(ctx context.Context, mode TestMode) error {
	if err := d.checkTransition(ModeTx); err != nil {
		return err
	}
	if err := d.cmdWrite(ctx, opcode.Req(opcode.SetTxTestMode, byte(mode))); err != nil {
		return err
	}
	d.mode = ModeTx
	d.modeKnown = true
	return nil
}

// SetRxDutyCycle starts periodic listening: the radio listens for
// listenTime, sleeps, and repeats every cycleTime (which must exceed
// listenTime). With useCad and the LoRa modem active, each window runs a
// channel activity detection instead of a full reception. The chip then
// sequences modes on its own, so the tracker drops to unknown.
func (d *Device) SetRxDutyCycle(ctx context.Context, listenTime, cycleTime uint32, useCad bool, ramRetention uint8) error {
	if cycleTime <= listenTime {
		return fmt.Errorf("cycle time %d must exceed listen time %d: %w", cycleTime, listenTime, ErrInvalidParameter)
	}
	if err := d.checkTransition(ModeRx); err != nil {
		return err
	}
	if err := d.cmdWrite(ctx, opcode.SetRxDutyCycleCmd(listenTime, cycleTime, useCad, ramRetention)); err != nil {
		return err
	}
	d.modeKnown = false
	return nil
}

// SetAutoRxTx arms an automatic TX after RxDone or RX after TxDone. The
// trigger fires once and must be re-armed. With clear set the arming is
// also dropped on RX timeout. The follow-up transition happens without a
// command, so the tracker drops to unknown.
func (d *Device) SetAutoRxTx(ctx context.Context, clear bool, mode AutoRxTxMode, timeout, delay uint32) error {
	if err := d.cmdWrite(ctx, opcode.SetAutoRxTxCmd(clear, byte(mode), timeout, delay)); err != nil {
		return err
	}
	d.modeKnown = false
	return nil
}

// SetCadParams configures channel activity detection: the RSSI
// measurement bound in 31.25ns steps, the detection threshold in -dBm,
// what to do on completion, and the TX/RX timeout used when the exit
// mode starts one.
func (d *Device) SetCadParams(ctx context.Context, cadTimeout uint32, threshold uint8, exit ExitMode, trxTimeout uint32) error {
	return d.cmdWrite(ctx, opcode.SetCadParamsCmd(cadTimeout, threshold, byte(exit), trxTimeout))
}

// StartCad starts channel activity detection as configured by
// SetCadParams. The exit mode may chain into TX or RX, so the mode
// tracker drops to unknown until RefreshMode.
func (d *Device) StartCad(ctx context.Context) error {
	if err := d.checkTransition(ModeRx); err != nil {
		return err
	}
	if err := d.cmdWrite(ctx, opcode.Req(opcode.SetCad)); err != nil {
		return err
	}
	d.modeKnown = false
	return nil
}

// SetCca starts a clear channel assessment for duration 31.25ns steps.
// gain 0 lets the chip pick; the chip must be in standby or FS.
func (d *Device) SetCca(ctx context.Context, duration uint32, gain uint8) error {
	if !d.modeKnown {
		return fmt.Errorf("cca with unknown chip mode: %w", ErrStaleState)
	}
	if !d.mode.isStandby() && d.mode != ModeFs {
		return fmt.Errorf("cca requires standby or fs, chip is in %s: %w", d.mode, ErrInvalidState)
	}
	return d.cmdWrite(ctx, opcode.SetCcaCmd(duration, gain))
}

// GetCcaResult reads the outcome of the last clear channel assessment.
func (d *Device) GetCcaResult(ctx context.Context) (CcaResult, error) {
	rsp := make([]byte, 2+3)
	if err := d.cmdRead(ctx, opcode.Req(opcode.GetCcaResult), rsp); err != nil {
		return CcaResult{}, err
	}
	return CcaResult{
		Busy:    rsp[2]&0x01 != 0,
		RssiMax: rsp[3],
		RssiMin: rsp[4],
	}, nil
}

// maxRxGain is the largest manual AGC gain step.
const maxRxGain = 13

// SetRxGain sets the front-end gain manually. Zero restores automatic
// gain selection; values above the maximum are clamped.
func (d *Device) SetRxGain(ctx context.Context, gain uint8) error {
	if gain > maxRxGain {
		gain = maxRxGain
	}
	return d.cmdWrite(ctx, opcode.Req(opcode.SetAgcGainManual, gain))
}

// ClearRxStats resets the reception statistics counters.
func (d *Device) ClearRxStats(ctx context.Context) error {
	return d.cmdWrite(ctx, opcode.Req(opcode.ResetRxStats))
}

// GetRxPacketLength returns the length of the last received packet.
func (d *Device) GetRxPacketLength(ctx context.Context) (uint16, error) {
	rsp := make([]byte, 2+2)
	if err := d.cmdRead(ctx, opcode.Req(opcode.GetRxPktLength), rsp); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(rsp[2:4]), nil
}

// ForceCrcOut makes the chip deliver the received CRC bytes to the FIFO
// even when hardware checking is active.
func (d *Device) ForceCrcOut(ctx context.Context) error {
	return d.cmdWrite(ctx, opcode.WriteRegMemMask32Cmd(AddrPacketCfg, 0x01000000, 0))
}

// GetRssiInst measures the instantaneous RSSI in -0.5dBm steps.
func (d *Device) GetRssiInst(ctx context.Context) (uint16, error) {
	rsp := make([]byte, 2+2)
	if err := d.cmdRead(ctx, opcode.Req(opcode.GetRssiInst), rsp); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(rsp[2:4]), nil
}

// GetRssiAvg averages n instantaneous RSSI measurements, rounding to the
// nearest step.
func (d *Device) GetRssiAvg(ctx context.Context, n uint16) (uint16, error) {
	if n == 0 {
		return 0, fmt.Errorf("rssi average over zero samples: %w", ErrInvalidParameter)
	}
	var sum uint32
	for i := uint16(0); i < n; i++ {
		v, err := d.GetRssiInst(ctx)
		if err != nil {
			return 0, err
		}
		sum += uint32(v)
	}
	return uint16((sum + uint32(n>>1)) / uint32(n)), nil
}

// SetDefaultTimeouts sets the TX and RX timeouts applied when an
// operation is started by a DIO trigger instead of a command.
func (d *Device) SetDefaultTimeouts(ctx context.Context, tx, rx uint32) error {
	return d.cmdWrite(ctx, opcode.SetDefaultRxTxTimeoutCmd(rx, tx))
}

// SetStopTimeout selects whether the RX timeout stops on preamble
// detection or only once synchronization is confirmed.
func (d *Device) SetStopTimeout(ctx context.Context, onPreamble bool) error {
	var b byte
	if onPreamble {
		b = 1
	}
	return d.cmdWrite(ctx, opcode.Req(opcode.SetStopTimeout, b))
}

// SetTimestampSource assigns an event to one of the timestamp slots.
func (d *Device) SetTimestampSource(ctx context.Context, idx TimestampIndex, src TimestampSource) error {
	if idx > Timestamp2 {
		return fmt.Errorf("timestamp slot %d out of range: %w", idx, ErrInvalidParameter)
	}
	return d.cmdWrite(ctx, opcode.Req(opcode.SetTimestampSource, byte(idx), byte(src)))
}

// GetTimestamp reads a timestamp slot as HF clock ticks elapsed until
// the capturing select edge.
func (d *Device) GetTimestamp(ctx context.Context, idx TimestampIndex) (uint32, error) {
	if idx > Timestamp2 {
		return 0, fmt.Errorf("timestamp slot %d out of range: %w", idx, ErrInvalidParameter)
	}
	rsp := make([]byte, 2+4)
	if err := d.cmdRead(ctx, opcode.Req(opcode.GetTimestampValue, byte(idx)), rsp); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(rsp[2:6]), nil
}
