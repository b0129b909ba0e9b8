// Package sim is an in-process hal.Board. The button and the raw
// temperature value are set by the caller, which makes it the backend of
// tests and of desktop runs without hardware.
package sim

import (
	"fmt"
	"sync"

	"github.com/minitrue/tempnode/internal/hal"
)

// DefaultRaw is roughly 27 °C on the on-die sensor.
const DefaultRaw = 876

// Board is a simulated board. The zero value is not usable; use New.
type Board struct {
	mu     sync.Mutex
	level  bool
	raw    uint16
	closed bool

	ButtonPin   int
	TempChannel int

	// Opens counts successful Button and TempSensor calls.
	Opens int
}

// New returns a board with the button released and the sensor at DefaultRaw.
func New() *Board {
	return &Board{level: true, raw: DefaultRaw, ButtonPin: -1, TempChannel: -1}
}

// Press drives the simulated pin low, as a button to ground would.
func (b *Board) Press() { b.SetLevel(false) }

// Release lets the pull-up hold the pin high.
func (b *Board) Release() { b.SetLevel(true) }

func (b *Board) SetLevel(high bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.level = high
}

// SetRaw sets the next ADC conversions. Values are masked to 12 bits.
func (b *Board) SetRaw(raw uint16) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.raw = raw & 0x0fff
}

func (b *Board) Button(pin int) (hal.DigitalInput, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, hal.ErrClosed
	}
	b.ButtonPin = pin
	b.Opens++
	return input{b}, nil
}

func (b *Board) TempSensor(channel int) (hal.AnalogInput, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, hal.ErrClosed
	}
	if channel != hal.TempSensorChannel {
		return nil, fmt.Errorf("sim: channel %d has no temperature sensor", channel)
	}
	b.TempChannel = channel
	b.Opens++
	return input{b}, nil
}

func (b *Board) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}

type input struct{ b *Board }

func (in input) Level() (bool, error) {
	in.b.mu.Lock()
	defer in.b.mu.Unlock()
	if in.b.closed {
		return false, hal.ErrClosed
	}
	return in.b.level, nil
}

func (in input) Sample() (uint16, error) {
	in.b.mu.Lock()
	defer in.b.mu.Unlock()
	if in.b.closed {
		return 0, hal.ErrClosed
	}
	return in.b.raw, nil
}
