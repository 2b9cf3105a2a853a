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

// Package serialport finds serial ports that may carry a bridge MCU for
// the serialbridge transport.
package serialport

import (
	"context"

	"go.bug.st/serial"

	"github.com/strixhq/go-lr2021/detection"
)

type detector struct{}

// New creates a new serial port detector.
func New() detection.Detector {
	return &detector{}
}

func init() {
	detection.RegisterDetector(New())
}

// Transport returns the transport type.
func (*detector) Transport() string {
	return "serial"
}

// Detect lists the serial ports known to the OS. Ports are reported
// without probing; opening one is left to the caller since a bridge
// handshake resets some MCUs.
func (*detector) Detect(ctx context.Context, _ *detection.Options) ([]detection.DeviceInfo, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, err
	}

	var devices []detection.DeviceInfo
	for _, port := range ports {
		select {
		case <-ctx.Done():
			return devices, detection.ErrDetectionTimeout
		default:
		}
		devices = append(devices, detection.DeviceInfo{
			Transport: "serial",
			Path:      port,
			Metadata:  map[string]string{},
		})
	}
	if len(devices) == 0 {
		return nil, detection.ErrNoDevicesFound
	}
	return devices, nil
}
