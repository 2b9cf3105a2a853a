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

package patch

import (
	"context"
	"encoding/hex"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// row encodes a data row with a valid checksum.
func row(data ...byte) string {
	raw := append([]byte{byte(len(data))}, data...)
	var sum byte
	for _, b := range raw {
		sum += b
	}
	raw = append(raw, -sum)
	return hex.EncodeToString(raw)
}

func TestParseReaderValidFile(t *testing.T) {
	t.Parallel()

	file := strings.Join([]string{
		"4c5250210203",
		"# lora timing fix",
		row(0xDE, 0xAD, 0xBE, 0xEF),
		"",
		row(0x01, 0x02),
	}, "\n")

	img, err := ParseReader(strings.NewReader(file))
	require.NoError(t, err)
	assert.Equal(t, uint8(0x02), img.Kind)
	assert.Equal(t, uint8(0x03), img.Version)
	assert.Equal(t, []byte{0xDE, 0xAD, 0xBE, 0xEF, 0x01, 0x02}, img.Data)
}

func TestParseReaderErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{
			name:    "empty file",
			input:   "",
			wantErr: "empty file",
		},
		{
			name:    "bad magic",
			input:   "ffffffff0100\n" + row(0x01),
			wantErr: "bad magic word",
		},
		{
			name:    "header too short",
			input:   "4c5250\n" + row(0x01),
			wantErr: "invalid header length",
		},
		{
			name:    "header not hex",
			input:   "4c5250210zzz\n" + row(0x01),
			wantErr: "invalid hex data",
		},
		{
			name:    "row checksum mismatch",
			input:   "4c5250210100\n" + "0101ff",
			wantErr: "checksum mismatch",
		},
		{
			name:    "row length mismatch",
			input:   "4c5250210100\n" + "05aabb00",
			wantErr: "row length mismatch",
		},
		{
			name:    "row too short",
			input:   "4c5250210100\n" + "01ff",
			wantErr: "row too short",
		},
		{
			name:    "header only",
			input:   "4c5250210100\n# just a comment\n",
			wantErr: "no data rows",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ParseReader(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseReaderRoundTrip(t *testing.T) {
	t.Parallel()

	// 64 bytes across two rows survives reassembly in order.
	payload := make([]byte, 64)
	for i := range payload {
		payload[i] = byte(i)
	}
	file := "4c5250210105\n" + row(payload[:32]...) + "\n" + row(payload[32:]...)

	img, err := ParseReader(strings.NewReader(file))
	require.NoError(t, err)
	assert.Equal(t, payload, img.Data)
}

type mockLoader struct {
	loaded  []byte
	enabled bool
	loadErr error
}

func (m *mockLoader) LoadPatch(_ context.Context, patch []byte) error {
	if m.loadErr != nil {
		return m.loadErr
	}
	m.loaded = append([]byte(nil), patch...)
	return nil
}

func (m *mockLoader) EnablePatch(_ context.Context) error {
	m.enabled = true
	return nil
}

func TestApply(t *testing.T) {
	t.Parallel()

	img := &Image{Kind: 1, Version: 2, Data: []byte{0xAA, 0xBB}}
	ldr := &mockLoader{}
	require.NoError(t, img.Apply(context.Background(), ldr))
	assert.Equal(t, []byte{0xAA, 0xBB}, ldr.loaded)
	assert.True(t, ldr.enabled)
}

func TestApplyFailures(t *testing.T) {
	t.Parallel()

	empty := &Image{Kind: 1, Version: 2}
	assert.Error(t, empty.Apply(context.Background(), &mockLoader{}))

	img := &Image{Kind: 1, Version: 2, Data: []byte{0xAA}}
	ldr := &mockLoader{loadErr: errors.New("bus fault")}
	err := img.Apply(context.Background(), ldr)
	require.Error(t, err)
	assert.False(t, ldr.enabled, "enable must not run after a failed load")
}
