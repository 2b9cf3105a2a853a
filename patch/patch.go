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

// Package patch parses firmware patch image files for upload into the
// radio's patch RAM.
//
// A patch file is line-oriented hex text. The first line is a header
// carrying a magic word, the patch kind and its version. Every
// following non-empty line is a data row: a length byte, the payload
// bytes, and a two's-complement checksum over length and payload.
package patch

import (
	"context"
	"fmt"
)

// Image is a parsed patch ready for upload.
type Image struct {
	// Kind identifies the patch family.
	Kind uint8
	// Version is the patch revision.
	Version uint8
	// Data is the raw payload uploaded to patch RAM.
	Data []byte
}

// Loader uploads a patch payload. Implemented by lr2021.Device.
type Loader interface {
	LoadPatch(ctx context.Context, patch []byte) error
	EnablePatch(ctx context.Context) error
}

// Apply uploads the image and activates it.
func (img *Image) Apply(ctx context.Context, dev Loader) error {
	if len(img.Data) == 0 {
		return fmt.Errorf("patch image has no payload")
	}
	if err := dev.LoadPatch(ctx, img.Data); err != nil {
		return fmt.Errorf("failed to load patch: %w", err)
	}
	if err := dev.EnablePatch(ctx); err != nil {
		return fmt.Errorf("failed to enable patch: %w", err)
	}
	return nil
}
