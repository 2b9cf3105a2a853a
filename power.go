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
	"fmt"

	"github.com/strixhq/go-lr2021/internal/opcode"
)

// ChipMode is the driver-tracked operating mode. Exactly one mode is
// active at a time; the tracker is updated only after a transition
// command is confirmed, and marked unknown after a reset, a timeout or a
// bus fault, forcing a re-query before mode-gated operations.
type ChipMode int

const (
	// ModeDeepSleep: lowest power, wakes on an external event only,
	// all volatile state lost.
	ModeDeepSleep ChipMode = iota
	// ModeSleep: wakes after a timer or an external event; register
	// configuration lost, retention banks not kept.
	ModeSleep
	// ModeDeepRetention: sleep with configuration and patch RAM
	// preserved, no wake timer.
	ModeDeepRetention
	// ModeStandbyRC: standby clocked from the RC oscillator. This is
	// the boot mode and the safe intermediate state before any
	// reconfiguration.
	ModeStandbyRC
	// ModeStandbyXosc: standby clocked from the crystal oscillator.
	ModeStandbyXosc
	// ModeFs: frequency synthesis, PLL locked.
	ModeFs
	// ModeTx: transmitting.
	ModeTx
	// ModeRx: receiving.
	ModeRx
)

func (m ChipMode) String() string {
	switch m {
	case ModeDeepSleep:
		return "deep-sleep"
	case ModeSleep:
		return "sleep"
	case ModeDeepRetention:
		return "retention"
	case ModeStandbyRC:
		return "standby-rc"
	case ModeStandbyXosc:
		return "standby-xosc"
	case ModeFs:
		return "fs"
	case ModeTx:
		return "tx"
	case ModeRx:
		return "rx"
	default:
		return "invalid"
	}
}

func (m ChipMode) isStandby() bool {
	return m == ModeStandbyRC || m == ModeStandbyXosc
}

func (m ChipMode) isSleep() bool {
	return m == ModeSleep || m == ModeDeepSleep || m == ModeDeepRetention
}

// Mode returns the tracked chip mode. known is false after a reset,
// timeout or bus fault until RefreshMode or a confirmed transition
// re-establishes it.
func (d *Device) Mode() (mode ChipMode, known bool) {
	return d.mode, d.modeKnown
}

// RefreshMode re-queries the chip and re-seeds the mode tracker from the
// status word. This is the only way mode knowledge comes back after the
// tracker was invalidated.
func (d *Device) RefreshMode(ctx context.Context) (ChipMode, error) {
	status, _, err := d.GetStatusContext(ctx)
	if err != nil {
		return 0, err
	}
	switch status.Mode() {
	case ModeStatusSleep:
		d.mode = ModeSleep
	case ModeStatusRc:
		d.mode = ModeStandbyRC
	case ModeStatusXosc:
		d.mode = ModeStandbyXosc
	case ModeStatusFs:
		d.mode = ModeFs
	case ModeStatusRx:
		d.mode = ModeRx
	case ModeStatusTx:
		d.mode = ModeTx
	default:
		d.modeKnown = false
		return 0, fmt.Errorf("chip reported unknown mode: %w", ErrStaleState)
	}
	d.modeKnown = true
	return d.mode, nil
}

// checkTransition enforces the documented edge policy. Transitions are
// explicit and caller-driven: the driver never inserts a standby hop.
//
//   - any known mode may go to a standby variant; sleep is the exception
//     and requires WakeUp first, since the chip cannot hear commands
//     while asleep
//   - Fs, Tx, Rx and the sleep variants are reachable from standby only
//   - with the tracker invalidated, everything is refused until
//     RefreshMode
func (d *Device) checkTransition(target ChipMode) error {
	if !d.modeKnown {
		return fmt.Errorf("mode transition to %s with unknown current mode: %w", target, ErrStaleState)
	}
	if d.mode.isSleep() {
		return fmt.Errorf("chip is in %s, wake up before transitioning to %s: %w", d.mode, target, ErrInvalidState)
	}
	if target.isStandby() {
		return nil
	}
	if !d.mode.isStandby() {
		return fmt.Errorf("transition %s -> %s not allowed, go through standby: %w", d.mode, target, ErrInvalidState)
	}
	return nil
}

// SetStandby puts the chip in standby. xosc selects the crystal
// oscillator variant. Standby is reachable from every awake mode.
func (d *Device) SetStandby(ctx context.Context, xosc bool) error {
	target := ModeStandbyRC
	if xosc {
		target = ModeStandbyXosc
	}
	if err := d.checkTransition(target); err != nil {
		return err
	}
	if err := d.cmdWrite(ctx, opcode.SetStandbyCmd(xosc)); err != nil {
		return err
	}
	if err := d.waitReady(ctx, d.config.BusyTimeout); err != nil {
		d.invalidate()
		return err
	}
	d.mode = target
	d.modeKnown = true
	return nil
}

// SetFs starts frequency synthesis. Reachable from standby only.
func (d *Device) SetFs(ctx context.Context) error {
	if err := d.checkTransition(ModeFs); err != nil {
		return err
	}
	if err := d.cmdWrite(ctx, opcode.Req(opcode.SetFs)); err != nil {
		return err
	}
	if err := d.waitReady(ctx, d.config.BusyTimeout); err != nil {
		d.invalidate()
		return err
	}
	d.mode = ModeFs
	d.modeKnown = true
	return nil
}

// SetTx starts transmission of the staged FIFO content. timeout is in LF
// clock steps (~30.5us); zero means no bound. Reachable from standby
// only; the driver refuses a direct sleep shortcut instead of routing it.
func (d *Device) SetTx(ctx context.Context, timeout uint32) error {
	if err := d.checkTransition(ModeTx); err != nil {
		return err
	}
	if err := d.cmdWrite(ctx, opcode.SetTxCmd(timeout)); err != nil {
		return err
	}
	if err := d.waitReady(ctx, d.config.BusyTimeout); err != nil {
		d.invalidate()
		return err
	}
	d.mode = ModeTx
	d.modeKnown = true
	return nil
}

// SetRx starts reception. timeout is in LF clock steps: zero is a single
// reception, 0xFFFFFF continuous. Reachable from standby only.
func (d *Device) SetRx(ctx context.Context, timeout uint32) error {
	if err := d.checkTransition(ModeRx); err != nil {
		return err
	}
	if err := d.cmdWrite(ctx, opcode.SetRxCmd(timeout)); err != nil {
		return err
	}
	if err := d.waitReady(ctx, d.config.BusyTimeout); err != nil {
		d.invalidate()
		return err
	}
	d.mode = ModeRx
	d.modeKnown = true
	return nil
}

// SetRxContinuous starts reception restarting after every packet.
func (d *Device) SetRxContinuous(ctx context.Context) error {
	return d.SetRx(ctx, 0xFFFFFF)
}

// SetDeepSleep enters the deepest sleep. Everything volatile is lost:
// the patch tracker drops to unloaded and the chip only wakes on an
// external event (WakeUp).
func (d *Device) SetDeepSleep(ctx context.Context) error {
	if err := d.checkTransition(ModeDeepSleep); err != nil {
		return err
	}
	if err := d.cmdWrite(ctx, opcode.SetSleepCmd(false, 0, 0)); err != nil {
		return err
	}
	d.mode = ModeDeepSleep
	d.patch = patchUnloaded
	return nil
}

// SetSleep enters timed sleep. The chip wakes after wakeAfter LF clock
// steps or an external event. Patch RAM is lost.
func (d *Device) SetSleep(ctx context.Context, wakeAfter uint32) error {
	if err := d.checkTransition(ModeSleep); err != nil {
		return err
	}
	if err := d.cmdWrite(ctx, opcode.SetSleepCmd(true, 0, wakeAfter)); err != nil {
		return err
	}
	d.mode = ModeSleep
	d.patch = patchUnloaded
	return nil
}

// SetRetentionSleep enters sleep with the given retention bank set kept
// powered. Configuration and patch RAM survive; the patch tracker is
// left untouched so a loaded patch stays usable after WakeUp.
func (d *Device) SetRetentionSleep(ctx context.Context, banks uint8, wakeAfter uint32) error {
	if err := d.checkTransition(ModeDeepRetention); err != nil {
		return err
	}
	if banks == 0 {
		return fmt.Errorf("retention sleep with no retention banks: %w", ErrInvalidParameter)
	}
	if err := d.cmdWrite(ctx, opcode.SetSleepCmd(true, banks, wakeAfter)); err != nil {
		return err
	}
	d.mode = ModeDeepRetention
	return nil
}
