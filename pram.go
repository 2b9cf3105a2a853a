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

// Patch RAM layout. The loader writes the payload at pramPayloadAddr and
// the chip firmware publishes the magic word and a version/kind pair
// once the patch is active.
const (
	pramMagicWord   = 0x600DB002
	pramMagicAddr   = 0x800FF8
	pramInfoAddr    = 0x800FFC
	pramPayloadAddr = 0x801000
)

// pramChunkSize is the payload bytes carried per upload command. The
// write address advances by pramChunkStride between chunks.
const (
	pramChunkSize   = 32
	pramChunkStride = 128
)

// patchState tracks the driver-side patch lifecycle. It is advanced only
// on confirmed commands and dropped back to patchUnloaded by reset and
// by non-retention sleep.
type patchState int

const (
	patchUnloaded patchState = iota
	patchLoading
	patchLoaded
	patchEnabled
)

// PatchInfo reports whether a patch is resident in patch RAM and, when
// it is, its version and kind bytes as published by the chip.
type PatchInfo struct {
	Loaded  bool
	Version uint8
	Kind    uint8
}

// LoadPatch uploads a firmware patch image into patch RAM in 32-byte
// chunks through the internal buffer. The chip must be in standby. A
// failed chunk leaves the patch tracker at unloaded; EnablePatch will
// refuse until a full reload succeeds.
func (d *Device) LoadPatch(ctx context.Context, patch []byte) error {
	if len(patch) == 0 {
		return fmt.Errorf("empty patch image: %w", ErrInvalidParameter)
	}
	if !d.modeKnown {
		return fmt.Errorf("patch load with unknown chip mode: %w", ErrStaleState)
	}
	if !d.mode.isStandby() {
		return fmt.Errorf("patch load requires standby, chip is in %s: %w", d.mode, ErrInvalidState)
	}
	d.patch = patchLoading
	d.patchLen = 0
	addr := uint32(pramPayloadAddr)
	for off := 0; off < len(patch); off += pramChunkSize {
		end := off + pramChunkSize
		if end > len(patch) {
			end = len(patch)
		}
		chunk := patch[off:end]
		buf := d.buf.data()
		buf[0] = byte(opcode.WriteRegMem32 >> 8)
		buf[1] = byte(opcode.WriteRegMem32 & 0xFF)
		buf[2] = byte(addr >> 16)
		buf[3] = byte(addr >> 8)
		buf[4] = byte(addr)
		copy(buf[5:], chunk)
		if err := d.cmdBufWrite(ctx, 5+len(chunk)); err != nil {
			d.patch = patchUnloaded
			d.patchLen = 0
			return fmt.Errorf("patch chunk at 0x%06X: %w", addr, err)
		}
		addr += pramChunkStride
	}
	d.patch = patchLoaded
	d.patchLen = len(patch)
	return nil
}

// EnablePatch activates a previously loaded patch. Calling it without a
// complete load is refused.
func (d *Device) EnablePatch(ctx context.Context) error {
	if d.patch != patchLoaded {
		return fmt.Errorf("no complete patch loaded: %w", ErrInvalidState)
	}
	if err := d.cmdWrite(ctx, opcode.Req(opcode.EnablePram)); err != nil {
		return err
	}
	d.patch = patchEnabled
	return nil
}

// PatchLoaded reports the driver-tracked patch lifecycle: whether a full
// image is resident and whether it has been activated.
func (d *Device) PatchLoaded() (loaded, enabled bool) {
	return d.patch == patchLoaded || d.patch == patchEnabled, d.patch == patchEnabled
}

// GetPramInfo asks the chip whether a patch is active by checking the
// patch RAM magic word, and reads the published version and kind when it
// is. This reflects chip truth, not the driver tracker, so it stays
// correct across an external reset.
func (d *Device) GetPramInfo(ctx context.Context) (PatchInfo, error) {
	mw, err := d.ReadRegister(ctx, pramMagicAddr)
	if err != nil {
		return PatchInfo{}, err
	}
	if mw != pramMagicWord {
		return PatchInfo{}, nil
	}
	info, err := d.ReadRegister(ctx, pramInfoAddr)
	if err != nil {
		return PatchInfo{}, err
	}
	return PatchInfo{
		Loaded:  true,
		Version: uint8(info),
		Kind:    uint8(info >> 8),
	}, nil
}
