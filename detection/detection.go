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

// Package detection enumerates candidate ports a radio could be
// attached to. Detectors register themselves on import, so a caller
// pulls in the transports it cares about:
//
//	import (
//	    "github.com/strixhq/go-lr2021/detection"
//	    _ "github.com/strixhq/go-lr2021/detection/spidev"
//	    _ "github.com/strixhq/go-lr2021/detection/serialport"
//	)
//
//	devices, err := detection.DetectAll(ctx, nil)
package detection

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrNoDevicesFound means detection ran but found nothing.
	ErrNoDevicesFound = errors.New("no devices found")
	// ErrDetectionTimeout means the context expired mid-scan.
	ErrDetectionTimeout = errors.New("detection timed out")
	// ErrUnsupportedPlatform means the detector cannot run on this OS.
	ErrUnsupportedPlatform = errors.New("unsupported platform")
)

// Mode selects how intrusive detection may be.
type Mode int

const (
	// Passive lists candidate ports without touching them.
	Passive Mode = iota
	// Active may open ports to confirm a radio is present.
	Active
)

// Options tunes a detection run.
type Options struct {
	Mode Mode
	// Blocklist holds VID:PID pairs that must not be probed.
	Blocklist []string
}

// DeviceInfo describes one candidate device.
type DeviceInfo struct {
	// Transport names the detector that found it ("spidev", "serial").
	Transport string
	// Path is the port or device node to open.
	Path string
	// Metadata carries detector-specific details.
	Metadata map[string]string
}

// Detector finds candidate devices for one transport.
type Detector interface {
	Transport() string
	Detect(ctx context.Context, opts *Options) ([]DeviceInfo, error)
}

var (
	registryMu sync.RWMutex
	registry   []Detector
)

// RegisterDetector adds a detector to the global registry. Called from
// detector package init functions.
func RegisterDetector(d Detector) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = append(registry, d)
}

// Detectors returns a snapshot of the registered detectors.
func Detectors() []Detector {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]Detector, len(registry))
	copy(out, registry)
	return out
}

// DetectAll runs every registered detector and merges the results.
// Detector-specific failures are skipped; an empty total reports
// ErrNoDevicesFound. A nil opts runs a passive scan.
func DetectAll(ctx context.Context, opts *Options) ([]DeviceInfo, error) {
	if opts == nil {
		opts = &Options{Mode: Passive}
	}
	var devices []DeviceInfo
	for _, d := range Detectors() {
		select {
		case <-ctx.Done():
			return devices, ErrDetectionTimeout
		default:
		}
		found, err := d.Detect(ctx, opts)
		if err != nil {
			continue
		}
		devices = append(devices, found...)
	}
	if len(devices) == 0 {
		return nil, ErrNoDevicesFound
	}
	return devices, nil
}
