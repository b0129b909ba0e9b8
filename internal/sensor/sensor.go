// Package sensor converts raw peripheral samples into a models.Reading.
package sensor

import (
	"fmt"

	"github.com/minitrue/tempnode/internal/hal"
	"github.com/minitrue/tempnode/internal/models"
)

// On-die temperature sensor transfer function. The constants are the vendor
// calibration values.
const (
	adcBits           = 12
	adcVRef   float32 = 3.3
	refTempC  float32 = 27.0
	refVolt   float32 = 0.706
	slopeVPer float32 = 0.001721
)

// conversionFactor is volts per ADC count.
const conversionFactor = adcVRef / (1 << adcBits)

// Voltage converts a raw 12-bit sample to volts.
func Voltage(raw uint16) float32 {
	return float32(float32(raw) * conversionFactor)
}

// Celsius converts a raw 12-bit sample of the temperature channel into
// degrees Celsius. All arithmetic is single precision; the explicit
// conversions keep the compiler from fusing the operations.
func Celsius(raw uint16) float32 {
	v := Voltage(raw)
	delta := float32(v - refVolt)
	return float32(refTempC - float32(delta/slopeVPer))
}

// Pressed maps the raw level of a pulled-up input to the logical state:
// an unpressed button reads high.
func Pressed(level bool) bool { return !level }

// Sampler reads both inputs of the node.
type Sampler struct {
	Button hal.DigitalInput
	Temp   hal.AnalogInput
}

// Sample reads the button and the temperature channel once.
func (s Sampler) Sample() (models.Reading, error) {
	level, err := s.Button.Level()
	if err != nil {
		return models.Reading{}, fmt.Errorf("read button: %w", err)
	}
	raw, err := s.Temp.Sample()
	if err != nil {
		return models.Reading{}, fmt.Errorf("read temperature: %w", err)
	}
	return models.Reading{Pressed: Pressed(level), TemperatureC: Celsius(raw)}, nil
}
