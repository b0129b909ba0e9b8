//go:build !no_serial
// +build !no_serial

package serialboard

import (
	"fmt"
	"time"

	"github.com/tarm/serial"
)

// Open attaches a Board to the serial device at name.
func Open(name string, baud int, timeout time.Duration) (*Board, error) {
	c := &serial.Config{Name: name, Baud: baud, ReadTimeout: timeout}
	s, err := serial.OpenPort(c)
	if err != nil {
		return nil, fmt.Errorf("open serial %s: %w", name, err)
	}
	if err := s.Flush(); err != nil {
		s.Close()
		return nil, fmt.Errorf("flush serial %s: %w", name, err)
	}
	return New(s), nil
}
