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

// Package config loads radio presets from YAML and applies them to a
// device. A preset captures a complete radio setup so deployments can
// switch bands and modems without code changes:
//
//	presets:
//	  eu868-lora:
//	    packet: lora
//	    frequency_hz: 868100000
//	    rx_path: lf
//	    power_half_db: 28
//	    ramp: 48u
//	  ble-scan:
//	    packet: ble
//	    frequency_hz: 2402000000
//	    rx_path: hf
package config

import (
	"context"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v2"

	lr2021 "github.com/strixhq/go-lr2021"
)

// Preset is one named radio setup.
type Preset struct {
	Packet      string `yaml:"packet"`
	FrequencyHz uint32 `yaml:"frequency_hz"`
	RxPath      string `yaml:"rx_path"`
	RxBoost     string `yaml:"rx_boost"`

	PowerHalfDb *int8  `yaml:"power_half_db"`
	Ramp        string `yaml:"ramp"`

	Fallback string `yaml:"fallback"`

	TxTimeout uint32 `yaml:"tx_timeout"`
	RxTimeout uint32 `yaml:"rx_timeout"`
}

// File is the top-level YAML document.
type File struct {
	Presets map[string]Preset `yaml:"presets"`
}

// Load reads a preset file from disk.
func Load(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer func() { _ = f.Close() }()
	return LoadReader(f)
}

// LoadReader reads a preset file from any io.Reader.
func LoadReader(r io.Reader) (*File, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if len(file.Presets) == 0 {
		return nil, fmt.Errorf("config has no presets")
	}
	for name, p := range file.Presets {
		if err := p.validate(); err != nil {
			return nil, fmt.Errorf("preset %q: %w", name, err)
		}
	}
	return &file, nil
}

// Preset returns the named preset.
func (f *File) Preset(name string) (Preset, error) {
	p, ok := f.Presets[name]
	if !ok {
		return Preset{}, fmt.Errorf("preset %q not found", name)
	}
	return p, nil
}

func (p Preset) validate() error {
	if _, err := parsePacket(p.Packet); err != nil {
		return err
	}
	if p.FrequencyHz == 0 {
		return fmt.Errorf("frequency_hz is required")
	}
	if p.RxPath != "" {
		if _, err := parseRxPath(p.RxPath); err != nil {
			return err
		}
	}
	if p.RxBoost != "" {
		if _, err := parseRxBoost(p.RxBoost); err != nil {
			return err
		}
	}
	if p.Ramp != "" {
		if _, err := parseRamp(p.Ramp); err != nil {
			return err
		}
	}
	if p.Fallback != "" {
		if _, err := parseFallback(p.Fallback); err != nil {
			return err
		}
	}
	return nil
}

// Apply configures the device with the preset. The chip must be in
// standby.
func (p Preset) Apply(ctx context.Context, dev *lr2021.Device) error {
	pt, err := parsePacket(p.Packet)
	if err != nil {
		return err
	}
	if err := dev.SetPacketType(ctx, pt); err != nil {
		return fmt.Errorf("failed to set packet type: %w", err)
	}
	if err := dev.SetRf(ctx, p.FrequencyHz); err != nil {
		return fmt.Errorf("failed to set frequency: %w", err)
	}
	if p.RxPath != "" {
		path, _ := parseRxPath(p.RxPath)
		boost := lr2021.RxBoostOff
		if p.RxBoost != "" {
			boost, _ = parseRxBoost(p.RxBoost)
		}
		if err := dev.SetRxPath(ctx, path, boost); err != nil {
			return fmt.Errorf("failed to set rx path: %w", err)
		}
	}
	if p.PowerHalfDb != nil {
		ramp := lr2021.Ramp48u
		if p.Ramp != "" {
			ramp, _ = parseRamp(p.Ramp)
		}
		if err := dev.SetTxParams(ctx, *p.PowerHalfDb, ramp); err != nil {
			return fmt.Errorf("failed to set tx params: %w", err)
		}
	}
	if p.Fallback != "" {
		fb, _ := parseFallback(p.Fallback)
		if err := dev.SetFallback(ctx, fb); err != nil {
			return fmt.Errorf("failed to set fallback: %w", err)
		}
	}
	if p.TxTimeout != 0 || p.RxTimeout != 0 {
		if err := dev.SetDefaultTimeouts(ctx, p.TxTimeout, p.RxTimeout); err != nil {
			return fmt.Errorf("failed to set default timeouts: %w", err)
		}
	}
	return nil
}

func parsePacket(s string) (lr2021.PacketType, error) {
	switch s {
	case "lora":
		return lr2021.PacketLora, nil
	case "ranging":
		return lr2021.PacketRanging, nil
	case "fsk":
		return lr2021.PacketFsk, nil
	case "flrc":
		return lr2021.PacketFlrc, nil
	case "ble":
		return lr2021.PacketBle, nil
	case "bpsk":
		return lr2021.PacketBpsk, nil
	case "ook":
		return lr2021.PacketOok, nil
	case "zigbee":
		return lr2021.PacketZigbee, nil
	case "wmbus":
		return lr2021.PacketWmbus, nil
	case "lr-fhss":
		return lr2021.PacketLrFhss, nil
	case "wisun":
		return lr2021.PacketWisun, nil
	case "zwave":
		return lr2021.PacketZwave, nil
	default:
		return 0, fmt.Errorf("unknown packet type %q", s)
	}
}

func parseRxPath(s string) (lr2021.RxPath, error) {
	switch s {
	case "lf":
		return lr2021.RxPathLf, nil
	case "hf":
		return lr2021.RxPathHf, nil
	default:
		return 0, fmt.Errorf("unknown rx path %q", s)
	}
}

func parseRxBoost(s string) (lr2021.RxBoost, error) {
	switch s {
	case "off":
		return lr2021.RxBoostOff, nil
	case "low":
		return lr2021.RxBoostLow, nil
	case "high":
		return lr2021.RxBoostHigh, nil
	case "max":
		return lr2021.RxBoostMax, nil
	default:
		return 0, fmt.Errorf("unknown rx boost %q", s)
	}
}

func parseRamp(s string) (lr2021.RampTime, error) {
	switch s {
	case "2u":
		return lr2021.Ramp2u, nil
	case "4u":
		return lr2021.Ramp4u, nil
	case "8u":
		return lr2021.Ramp8u, nil
	case "16u":
		return lr2021.Ramp16u, nil
	case "24u":
		return lr2021.Ramp24u, nil
	case "32u":
		return lr2021.Ramp32u, nil
	case "48u":
		return lr2021.Ramp48u, nil
	case "64u":
		return lr2021.Ramp64u, nil
	case "96u":
		return lr2021.Ramp96u, nil
	case "128u":
		return lr2021.Ramp128u, nil
	case "192u":
		return lr2021.Ramp192u, nil
	case "256u":
		return lr2021.Ramp256u, nil
	case "384u":
		return lr2021.Ramp384u, nil
	default:
		return 0, fmt.Errorf("unknown ramp time %q", s)
	}
}

func parseFallback(s string) (lr2021.FallbackMode, error) {
	switch s {
	case "standby-rc":
		return lr2021.FallbackStandbyRC, nil
	case "standby-xosc":
		return lr2021.FallbackStandbyXosc, nil
	case "fs":
		return lr2021.FallbackFs, nil
	default:
		return 0, fmt.Errorf("unknown fallback mode %q", s)
	}
}
