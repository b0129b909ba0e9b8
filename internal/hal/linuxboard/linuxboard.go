//go:build linux

// Package linuxboard runs the node on a Linux single-board computer. The
// button is a gpiochip line requested with the pull-up bias; the
// temperature channel is read from the IIO sysfs interface.
package linuxboard

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/minitrue/tempnode/internal/hal"
	"github.com/warthog618/go-gpiocdev"
)

// DefaultIIOPattern locates the raw value of an ADC channel; %d is the
// channel number.
const DefaultIIOPattern = "/sys/bus/iio/devices/iio:device0/in_voltage%d_raw"

type Board struct {
	chip       string
	iioPattern string

	mu     sync.Mutex
	lines  []*gpiocdev.Line
	closed bool
}

// New returns a board on the given gpiochip (e.g. "gpiochip0"). An empty
// iioPattern selects DefaultIIOPattern.
func New(chip, iioPattern string) *Board {
	if iioPattern == "" {
		iioPattern = DefaultIIOPattern
	}
	return &Board{chip: chip, iioPattern: iioPattern}
}

func (b *Board) Button(pin int) (hal.DigitalInput, error) {
	l, err := gpiocdev.RequestLine(b.chip, pin, gpiocdev.AsInput, gpiocdev.WithPullUp)
	if err != nil {
		return nil, fmt.Errorf("request %s line %d: %w", b.chip, pin, err)
	}
	b.mu.Lock()
	b.lines = append(b.lines, l)
	b.mu.Unlock()
	return lineInput{l}, nil
}

func (b *Board) TempSensor(channel int) (hal.AnalogInput, error) {
	in := iioInput{path: fmt.Sprintf(b.iioPattern, channel)}
	if _, err := in.Sample(); err != nil {
		return nil, err
	}
	return in, nil
}

func (b *Board) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	var first error
	for _, l := range b.lines {
		if err := l.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

type lineInput struct{ l *gpiocdev.Line }

func (in lineInput) Level() (bool, error) {
	v, err := in.l.Value()
	if err != nil {
		return false, err
	}
	return v != 0, nil
}

type iioInput struct{ path string }

func (in iioInput) Sample() (uint16, error) {
	b, err := os.ReadFile(in.path)
	if err != nil {
		return 0, fmt.Errorf("read iio channel: %w", err)
	}
	return parseRaw(string(b))
}

func parseRaw(s string) (uint16, error) {
	raw, err := strconv.ParseUint(strings.TrimSpace(s), 10, 16)
	if err != nil {
		return 0, fmt.Errorf("parse iio raw %q: %w", strings.TrimSpace(s), err)
	}
	if raw > 0x0fff {
		return 0, fmt.Errorf("iio raw %d exceeds 12 bits", raw)
	}
	return uint16(raw), nil
}
