//go:build no_serial
// +build no_serial

package serialboard

import (
	"errors"
	"time"
)

// Open is unavailable in no_serial builds.
func Open(name string, baud int, timeout time.Duration) (*Board, error) {
	return nil, errors.New("serialboard: built without serial support")
}
