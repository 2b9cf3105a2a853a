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
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	// headerMagic opens every patch file.
	headerMagic = 0x4C525021 // "LRP!"

	// headerLength is the header line length in hex characters:
	// magic(4 bytes) + kind(1) + version(1).
	headerLength = 12

	// minRowLength covers a length byte, one payload byte and the
	// checksum, in hex characters.
	minRowLength = 6

	// defaultDataCapacity sizes the payload buffer for typical images.
	defaultDataCapacity = 4096
)

// Parse parses a patch file from the given path.
//
// Example:
//
//	img, err := patch.Parse("lora_fix.lrp")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("patch kind %d version %d\n", img.Kind, img.Version)
func Parse(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return ParseReader(f)
}

// ParseReader parses a patch file from any io.Reader.
func ParseReader(r io.Reader) (*Image, error) {
	scanner := bufio.NewScanner(r)

	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return nil, fmt.Errorf("failed to read header: %w", err)
		}
		return nil, fmt.Errorf("empty file")
	}

	img, err := parseHeader(strings.TrimSpace(scanner.Text()))
	if err != nil {
		return nil, fmt.Errorf("failed to parse header: %w", err)
	}

	lineNum := 1
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		row, err := parseRow(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		img.Data = append(img.Data, row...)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(img.Data) == 0 {
		return nil, fmt.Errorf("no data rows found in file")
	}
	return img, nil
}

// parseHeader parses the header line.
//
// Header format (12 hex characters):
//
//	[Magic(4 bytes)][Kind(1 byte)][Version(1 byte)]
func parseHeader(line string) (*Image, error) {
	if len(line) != headerLength {
		return nil, fmt.Errorf("invalid header length: got %d characters, expected %d", len(line), headerLength)
	}
	data, err := hex.DecodeString(line)
	if err != nil {
		return nil, fmt.Errorf("invalid hex data: %w", err)
	}
	magic := uint32(data[0])<<24 | uint32(data[1])<<16 |
		uint32(data[2])<<8 | uint32(data[3])
	if magic != headerMagic {
		return nil, fmt.Errorf("bad magic word 0x%08X", magic)
	}
	return &Image{
		Kind:    data[4],
		Version: data[5],
		Data:    make([]byte, 0, defaultDataCapacity),
	}, nil
}

// parseRow parses one data row and verifies its checksum.
//
// Row format: [DataLen(1 byte)][Data(DataLen bytes)][Checksum(1 byte)]
// where the checksum is the two's complement of the byte sum of length
// and data.
func parseRow(line string) ([]byte, error) {
	if len(line) < minRowLength {
		return nil, fmt.Errorf("row too short: %d characters", len(line))
	}
	raw, err := hex.DecodeString(line)
	if err != nil {
		return nil, fmt.Errorf("invalid hex data: %w", err)
	}
	dataLen := int(raw[0])
	if len(raw) != dataLen+2 {
		return nil, fmt.Errorf("row length mismatch: header says %d data bytes, row has %d", dataLen, len(raw)-2)
	}

	var sum byte
	for _, b := range raw[:len(raw)-1] {
		sum += b
	}
	want := -sum
	got := raw[len(raw)-1]
	if got != want {
		return nil, fmt.Errorf("checksum mismatch: got 0x%02X, expected 0x%02X", got, want)
	}
	return raw[1 : len(raw)-1], nil
}
