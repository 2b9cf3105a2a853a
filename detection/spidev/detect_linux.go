//go:build linux

package spidev

import (
	"context"
	"fmt"
	"path/filepath"

	"golang.org/x/sys/unix"

	"github.com/strixhq/go-lr2021/detection"
)

// detectLinux globs /dev/spidev* and keeps nodes that are character
// devices the caller can open read-write.
func detectLinux(ctx context.Context, _ *detection.Options) ([]detection.DeviceInfo, error) {
	paths, err := filepath.Glob("/dev/spidev*")
	if err != nil {
		return nil, fmt.Errorf("failed to scan for spidev nodes: %w", err)
	}

	var devices []detection.DeviceInfo
	for _, path := range paths {
		select {
		case <-ctx.Done():
			return devices, detection.ErrDetectionTimeout
		default:
		}

		var st unix.Stat_t
		if err := unix.Stat(path, &st); err != nil {
			continue
		}
		if st.Mode&unix.S_IFMT != unix.S_IFCHR {
			continue
		}
		accessible := unix.Access(path, unix.R_OK|unix.W_OK) == nil

		devices = append(devices, detection.DeviceInfo{
			Transport: "spidev",
			Path:      path,
			Metadata: map[string]string{
				"accessible": fmt.Sprintf("%t", accessible),
				"rdev":       fmt.Sprintf("%d:%d", unix.Major(uint64(st.Rdev)), unix.Minor(uint64(st.Rdev))),
			},
		})
	}
	if len(devices) == 0 {
		return nil, detection.ErrNoDevicesFound
	}
	return devices, nil
}
