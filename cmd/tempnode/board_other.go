//go:build !linux

package main

import (
	"errors"

	"github.com/minitrue/tempnode/internal/config"
	"github.com/minitrue/tempnode/internal/hal"
)

func openLinuxBoard(config.HardwareConfig) (hal.Board, error) {
	return nil, errors.New("linux backend is only available on linux")
}
