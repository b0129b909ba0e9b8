// Package hal abstracts the two peripherals a node samples: a digital input
// wired to a button and the ADC channel of the on-die temperature sensor.
//
// Backends live in subpackages: sim (in-process), serialboard (a
// microcontroller bridge on a serial port) and linuxboard (gpiochip + IIO).
package hal

import "errors"

// TempSensorChannel is the ADC input the on-die temperature sensor is
// multiplexed to.
const TempSensorChannel = 4

// ErrClosed is returned by inputs used after their board was closed.
var ErrClosed = errors.New("hal: board closed")

// DigitalInput is a GPIO configured as input. Level reports the raw pin
// level; true means high.
type DigitalInput interface {
	Level() (bool, error)
}

// AnalogInput is one ADC channel. Sample returns the raw 12-bit conversion.
type AnalogInput interface {
	Sample() (uint16, error)
}

// Board hands out the node's peripherals. Button configures pin as an input
// with the pull-up enabled. TempSensor enables the ADC and its temperature
// channel.
type Board interface {
	Button(pin int) (DigitalInput, error)
	TempSensor(channel int) (AnalogInput, error)
	Close() error
}
