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

// Version identifies the chip hardware and firmware revision.
type Version struct {
	HW  uint8
	FW  uint16
	Raw []byte
}

func (v Version) String() string {
	return fmt.Sprintf("hw=0x%02X fw=0x%04X", v.HW, v.FW)
}

// GetStatus reads the chip status word and the pending interrupt flags.
func (d *Device) GetStatus() (Status, Irq, error) {
	return d.GetStatusContext(context.Background())
}

// GetStatusContext is GetStatus honoring a context.
func (d *Device) GetStatusContext(ctx context.Context) (Status, Irq, error) {
	rsp := make([]byte, 2+4)
	if err := d.cmdRead(ctx, opcode.Req(opcode.GetStatus), rsp); err != nil {
		return 0, 0, err
	}
	return StatusFromBytes(rsp), IrqFromBytes(rsp[2:]), nil
}

// GetVersion reads the hardware and firmware revision.
func (d *Device) GetVersion(ctx context.Context) (Version, error) {
	rsp := make([]byte, 2+4)
	if err := d.cmdRead(ctx, opcode.Req(opcode.GetVersion), rsp); err != nil {
		return Version{}, err
	}
	return Version{
		HW:  rsp[2],
		FW:  binary.BigEndian.Uint16(rsp[3:5]),
		Raw: append([]byte(nil), rsp[2:]...),
	}, nil
}

// GetErrors reads the sticky error flag word.
func (d *Device) GetErrors(ctx context.Context) (ErrorFlags, error) {
	rsp := make([]byte, 2+4)
	if err := d.cmdRead(ctx, opcode.Req(opcode.GetErrors), rsp); err != nil {
		return 0, err
	}
	return ErrorFlags(binary.BigEndian.Uint32(rsp[2:6])), nil
}

// ClearErrors clears the sticky error flags.
func (d *Device) ClearErrors(ctx context.Context) error {
	return d.cmdWrite(ctx, opcode.Req(opcode.ClearErrors))
}

// GetAndClearIrq reads the pending interrupt flags and clears them all
// in one exchange.
func (d *Device) GetAndClearIrq(ctx context.Context) (Irq, error) {
	rsp := make([]byte, 2+4)
	if err := d.cmdRead(ctx, opcode.Req(opcode.GetAndClearIrq), rsp); err != nil {
		return 0, err
	}
	return IrqFromBytes(rsp[2:]), nil
}

// ClearIrq clears the interrupt flags selected by mask.
func (d *Device) ClearIrq(ctx context.Context, mask Irq) error {
	return d.cmdWrite(ctx, opcode.ClearIrqCmd(uint32(mask)))
}

// CalibFrontEnd runs front-end calibration on up to three frequencies,
// each encoded in 4MHz steps with the RX path in the MSBs. An empty
// slice calibrates at the current frequency.
func (d *Device) CalibFrontEnd(ctx context.Context, freqs4M []uint16) error {
	if len(freqs4M) > 3 {
		return fmt.Errorf("front-end calibration takes at most 3 frequencies, got %d: %w", len(freqs4M), ErrInvalidParameter)
	}
	return d.cmdWrite(ctx, opcode.CalibFeCmd(freqs4M))
}

// DIO pin numbers.
type DioNum uint8

const (
	Dio5  DioNum = 5
	Dio6  DioNum = 6
	Dio7  DioNum = 7
	Dio8  DioNum = 8
	Dio9  DioNum = 9
	Dio10 DioNum = 10
	Dio11 DioNum = 11
)

// DioFunc selects the role of a DIO pin.
type DioFunc uint8

const (
	DioFuncNone DioFunc = iota
	DioFuncIrq
	DioFuncRfSwitch
	DioFuncGpio
)

// PullDrive selects the pad pull configuration while in sleep.
type PullDrive uint8

const (
	PullNone PullDrive = iota
	PullUp
	PullDown
	PullAuto
)

// SetDioFunction assigns a role and sleep pull to a DIO pin.
func (d *Device) SetDioFunction(ctx context.Context, dio DioNum, fn DioFunc, pull PullDrive) error {
	return d.cmdWrite(ctx, opcode.Req(opcode.SetDioFunction, byte(dio), byte(fn), byte(pull)))
}

// SetDioIrq routes the given interrupt set to a DIO pin, configuring the
// pin as an interrupt output first. Dio5 and Dio6 keep their automatic
// sleep pull, the others are pulled up.
func (d *Device) SetDioIrq(ctx context.Context, dio DioNum, mask Irq) error {
	pull := PullUp
	if dio == Dio5 || dio == Dio6 {
		pull = PullAuto
	}
	if err := d.SetDioFunction(ctx, dio, DioFuncIrq, pull); err != nil {
		return err
	}
	cmd := opcode.Req(opcode.SetDioIrqConfig, byte(dio))
	cmd = opcode.Put32(cmd, uint32(mask))
	return d.cmdWrite(ctx, cmd)
}

// SetDioRfSwitch configures a DIO pin as an RF switch control. Each flag
// selects a chip state in which the pin is driven high.
func (d *Device) SetDioRfSwitch(ctx context.Context, dio DioNum, txHF, rxHF, txLF, rxLF, standby bool) error {
	var states byte
	if txHF {
		states |= 0x01
	}
	if rxHF {
		states |= 0x02
	}
	if txLF {
		states |= 0x04
	}
	if rxLF {
		states |= 0x08
	}
	if standby {
		states |= 0x10
	}
	return d.cmdWrite(ctx, opcode.Req(opcode.SetDioRfSwitch, byte(dio), states))
}

// maxRegAddr bounds command-addressable register space.
const maxRegAddr = 0xFFFFFF

// ReadRegister reads one 32-bit register or memory word.
func (d *Device) ReadRegister(ctx context.Context, addr uint32) (uint32, error) {
	if addr > maxRegAddr {
		return 0, fmt.Errorf("register address 0x%X out of range: %w", addr, ErrInvalidParameter)
	}
	rsp := make([]byte, 2+4)
	if err := d.cmdRead(ctx, opcode.ReadRegMem32Req(addr, 1), rsp); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(rsp[2:6]), nil
}

// WriteRegister writes one 32-bit register or memory word.
func (d *Device) WriteRegister(ctx context.Context, addr, value uint32) error {
	if addr > maxRegAddr {
		return fmt.Errorf("register address 0x%X out of range: %w", addr, ErrInvalidParameter)
	}
	return d.cmdWrite(ctx, opcode.WriteRegMem32Cmd(addr, value))
}

// WriteField writes a bit field inside a register using the chip-side
// read-modify-write command, leaving the other bits untouched.
func (d *Device) WriteField(ctx context.Context, addr, value uint32, pos, width uint8) error {
	if addr > maxRegAddr {
		return fmt.Errorf("register address 0x%X out of range: %w", addr, ErrInvalidParameter)
	}
	if pos > 31 || width == 0 {
		return fmt.Errorf("field pos %d width %d invalid: %w", pos, width, ErrInvalidParameter)
	}
	var mask uint32
	if width >= 32 {
		mask = 0xFFFFFFFF
	} else {
		mask = ((1 << width) - 1) << pos
	}
	return d.cmdWrite(ctx, opcode.WriteRegMemMask32Cmd(addr, mask, value<<pos))
}

// maxMemWords is the largest burst ReadMemory accepts.
const maxMemWords = 40

// ReadMemory reads nb32 32-bit words starting at addr into the internal
// buffer and returns the raw bytes, valid until the next command.
func (d *Device) ReadMemory(ctx context.Context, addr uint32, nb32 uint8) ([]byte, error) {
	if nb32 == 0 || nb32 > maxMemWords {
		return nil, fmt.Errorf("memory burst of %d words out of range [1,%d]: %w", nb32, maxMemWords, ErrInvalidParameter)
	}
	if addr > maxRegAddr {
		return nil, fmt.Errorf("memory address 0x%X out of range: %w", addr, ErrInvalidParameter)
	}
	rsp := d.buf.raw[:2+4*int(nb32)]
	if err := d.cmdRead(ctx, opcode.ReadRegMem32Req(addr, nb32), rsp); err != nil {
		return nil, err
	}
	return d.buf.data()[:4*int(nb32)], nil
}

// MeasureTemperature samples the on-chip temperature sensor and returns
// the value in degrees Celsius.
func (d *Device) MeasureTemperature(ctx context.Context) (float32, error) {
	rsp := make([]byte, 2+2)
	if err := d.cmdReadWait(ctx, opcode.Req(opcode.GetTemp), rsp, d.config.MeasureTimeout); err != nil {
		return 0, err
	}
	// 11-bit reading, 1/32 degree per step, two's complement.
	raw := int16(binary.BigEndian.Uint16(rsp[2:4]) << 5)
	return float32(raw>>5) / 32, nil
}

// MeasureVbat samples the battery voltage and returns it in volts.
func (d *Device) MeasureVbat(ctx context.Context) (float32, error) {
	rsp := make([]byte, 2+1)
	if err := d.cmdReadWait(ctx, opcode.Req(opcode.GetVbat), rsp, d.config.MeasureTimeout); err != nil {
		return 0, err
	}
	// Vbat = 5 * raw/255 volts.
	return 5 * float32(rsp[2]) / 255, nil
}

// RegMode selects the supply regulator scheme.
type RegMode uint8

const (
	// RegModeLdo uses the LDO only.
	RegModeLdo RegMode = iota
	// RegModeDcDc enables the DC-DC converter where possible.
	RegModeDcDc
)

// SetRegulatorMode selects between LDO-only and DC-DC operation.
func (d *Device) SetRegulatorMode(ctx context.Context, mode RegMode) error {
	return d.cmdWrite(ctx, opcode.Req(opcode.SetRegMode, byte(mode)))
}

// SetTcxo enables the TCXO supply at the given control voltage step with
// a startup delay in LF clock steps.
func (d *Device) SetTcxo(ctx context.Context, voltage uint8, delay uint32) error {
	if voltage > 7 {
		return fmt.Errorf("tcxo voltage step %d out of range [0,7]: %w", voltage, ErrInvalidParameter)
	}
	return d.cmdWrite(ctx, opcode.SetTcxoModeCmd(voltage, delay))
}
