//go:build !linux

package spidev

import (
	"context"

	"github.com/strixhq/go-lr2021/detection"
)

func detectLinux(_ context.Context, _ *detection.Options) ([]detection.DeviceInfo, error) {
	return nil, detection.ErrUnsupportedPlatform
}
