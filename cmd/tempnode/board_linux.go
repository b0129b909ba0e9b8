//go:build linux

package main

import (
	"github.com/minitrue/tempnode/internal/config"
	"github.com/minitrue/tempnode/internal/hal"
	"github.com/minitrue/tempnode/internal/hal/linuxboard"
)

func openLinuxBoard(hw config.HardwareConfig) (hal.Board, error) {
	return linuxboard.New(hw.GPIOChip, hw.IIOPattern), nil
}
