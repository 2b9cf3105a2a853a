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

// Status is the 16-bit word clocked out at the start of every command
// response. Layout:
//
//	11:9 command status
//	   8 interrupt pending
//	 7:4 source of the last reset
//	 2:0 chip mode as reported by the chip
type Status uint16

// StatusFromBytes decodes a status word from the first two bytes of a
// response. Short slices decode the missing bytes as zero.
func StatusFromBytes(b []byte) Status {
	var v uint16
	if len(b) > 0 {
		v = uint16(b[0]) << 8
	}
	if len(b) > 1 {
		v |= uint16(b[1])
	}
	return Status(v)
}

// CmdStatus reports the outcome of the previous command.
type CmdStatus uint8

const (
	// CmdFail means the last command could not be executed.
	CmdFail CmdStatus = 0
	// CmdPErr means the last command had invalid parameters or an
	// unknown opcode.
	CmdPErr CmdStatus = 1
	// CmdOk means the last command succeeded.
	CmdOk CmdStatus = 2
	// CmdData means the last command succeeded and is streaming data.
	CmdData CmdStatus = 3
	// CmdUnknown is any other encoding.
	CmdUnknown CmdStatus = 8
)

func (c CmdStatus) String() string {
	switch c {
	case CmdFail:
		return "fail"
	case CmdPErr:
		return "param-error"
	case CmdOk:
		return "ok"
	case CmdData:
		return "data"
	default:
		return "unknown"
	}
}

// Check maps a command status to the error taxonomy. Ok and Data are
// success; anything else carries the raw status for diagnosis.
func (c CmdStatus) check(raw Status) error {
	switch c {
	case CmdOk, CmdData:
		return nil
	case CmdFail:
		return &CommandError{Err: ErrCommandFailed, Status: raw}
	case CmdPErr:
		return &CommandError{Err: ErrCommandRejected, Status: raw}
	default:
		return &CommandError{Err: ErrCommandFailed, Status: raw}
	}
}

// ResetSource identifies what caused the last chip reset.
type ResetSource uint8

const (
	ResetCleared  ResetSource = 0
	ResetAnalog   ResetSource = 1
	ResetExternal ResetSource = 2
	ResetWatchdog ResetSource = 4
	ResetIocd     ResetSource = 5
	ResetRtc      ResetSource = 6
	ResetUnknown  ResetSource = 16
)

// ModeStatus is the chip mode as encoded in the status word. It is the
// chip's own report, distinct from the driver-tracked ChipMode.
type ModeStatus uint8

const (
	ModeStatusSleep   ModeStatus = 0
	ModeStatusRc      ModeStatus = 1
	ModeStatusXosc    ModeStatus = 2
	ModeStatusFs      ModeStatus = 3
	ModeStatusRx      ModeStatus = 4
	ModeStatusTx      ModeStatus = 5
	ModeStatusUnknown ModeStatus = 8
)

// Cmd returns the command status bits
func (s Status) Cmd() CmdStatus {
	bits := uint8(s>>9) & 7
	if bits > uint8(CmdData) {
		return CmdUnknown
	}
	return CmdStatus(bits)
}

// OK reports whether the previous command succeeded
func (s Status) OK() bool {
	c := s.Cmd()
	return c == CmdOk || c == CmdData
}

// IrqPending reports whether an interrupt is pending
func (s Status) IrqPending() bool {
	return s&0x0100 != 0
}

// ResetSource returns the source of the last chip reset
func (s Status) ResetSource() ResetSource {
	switch bits := uint8(s>>4) & 15; bits {
	case 0, 1, 2, 4, 5, 6:
		return ResetSource(bits)
	default:
		return ResetUnknown
	}
}

// Mode returns the chip mode bits of the status word
func (s Status) Mode() ModeStatus {
	switch bits := uint8(s) & 7; bits {
	case 0, 1, 2, 3, 4, 5:
		return ModeStatus(bits)
	default:
		return ModeStatusUnknown
	}
}

// Irq mask bits, one per interrupt source.
const (
	// IrqRxFifo: RX FIFO threshold reached
	IrqRxFifo uint32 = 0x00000001
	// IrqTxFifo: TX FIFO threshold reached
	IrqTxFifo uint32 = 0x00000002
	// IrqPreambleDetected: preamble detected
	IrqPreambleDetected uint32 = 0x00000020
	// IrqHeaderValid: header detected / valid sync word
	IrqHeaderValid uint32 = 0x00000040
	// IrqCadDetected: channel activity detected
	IrqCadDetected uint32 = 0x00000080
	// IrqHeaderErr: header CRC error
	IrqHeaderErr uint32 = 0x00000200
	// IrqEol: end of life
	IrqEol uint32 = 0x00000400
	// IrqPa: PA over-current/over-voltage protection triggered
	IrqPa uint32 = 0x00000800
	// IrqSyncFail: sync word match failed after detection
	IrqSyncFail uint32 = 0x00002000
	// IrqError: an error other than a command error occurred (see GetErrors)
	IrqError uint32 = 0x00010000
	// IrqCmd: host command fail/error
	IrqCmd uint32 = 0x00020000
	// IrqRxDone: packet received
	IrqRxDone uint32 = 0x00040000
	// IrqTxDone: packet transmission completed
	IrqTxDone uint32 = 0x00080000
	// IrqCadDone: channel activity detection finished
	IrqCadDone uint32 = 0x00100000
	// IrqTimeout: RX or TX timeout
	IrqTimeout uint32 = 0x00200000
	// IrqCrcError: packet received with a wrong CRC
	IrqCrcError uint32 = 0x00400000
	// IrqLenError: packet received with a length error
	IrqLenError uint32 = 0x00800000
	// IrqAddrError: packet received with a wrong address match
	IrqAddrError uint32 = 0x01000000
)

// IrqMaskTxRx enables the interrupts useful for plain TX/RX sequencing.
const IrqMaskTxRx = IrqRxDone | IrqTxDone | IrqTimeout

// Irq is the 32-bit interrupt flag word.
type Irq uint32

// IrqFromBytes decodes an interrupt word from up to four bytes, most
// significant first. Short slices decode the missing bytes as zero; this
// happens when the flags ride on a response shorter than six bytes.
func IrqFromBytes(b []byte) Irq {
	var v uint32
	for i := 0; i < 4; i++ {
		v <<= 8
		if i < len(b) {
			v |= uint32(b[i])
		}
	}
	return Irq(v)
}

// Value returns the raw mask
func (i Irq) Value() uint32 { return uint32(i) }

// None reports whether no flag is set
func (i Irq) None() bool { return i == 0 }

// Match reports whether any bit of mask is set
func (i Irq) Match(mask uint32) bool { return uint32(i)&mask != 0 }

// RxDone reports whether a packet was received
func (i Irq) RxDone() bool { return i.Match(IrqRxDone) }

// TxDone reports whether a packet transmission completed
func (i Irq) TxDone() bool { return i.Match(IrqTxDone) }

// Timeout reports whether an RX or TX timeout fired
func (i Irq) Timeout() bool { return i.Match(IrqTimeout) }

// CrcError reports whether the last packet had a CRC error
func (i Irq) CrcError() bool { return i.Match(IrqCrcError) }

// Error reports whether a chip-level error occurred (see GetErrors)
func (i Irq) Error() bool { return i.Match(IrqError) }

// ErrorFlags is the 32-bit chip fault bitfield returned by GetErrors.
// Flags stay set until explicitly acknowledged with ClearErrors; the
// driver never clears them on its own.
type ErrorFlags uint32

// Error flag bits.
const (
	// ErrFlagLfRcCalib: LF RC oscillator calibration failed
	ErrFlagLfRcCalib uint32 = 0x00000001
	// ErrFlagHfRcCalib: HF RC oscillator calibration failed
	ErrFlagHfRcCalib uint32 = 0x00000002
	// ErrFlagAdcCalib: ADC calibration failed
	ErrFlagAdcCalib uint32 = 0x00000004
	// ErrFlagPllCalib: PLL calibration failed
	ErrFlagPllCalib uint32 = 0x00000008
	// ErrFlagImgCalib: image rejection calibration failed
	ErrFlagImgCalib uint32 = 0x00000010
	// ErrFlagXoscStart: crystal oscillator failed to start
	ErrFlagXoscStart uint32 = 0x00000020
	// ErrFlagPllLock: PLL failed to lock
	ErrFlagPllLock uint32 = 0x00000040
)

// Any reports whether at least one fault flag is set
func (f ErrorFlags) Any() bool { return f != 0 }

// Match reports whether any bit of mask is set
func (f ErrorFlags) Match(mask uint32) bool { return uint32(f)&mask != 0 }
