package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

const (
	ButtonOn  = "ON"
	ButtonOff = "OFF"
)

// Reading is one sample of the node's inputs. It is produced fresh every
// loop iteration and never kept.
type Reading struct {
	Pressed      bool
	TemperatureC float32
}

// Status is the wire form of a Reading. Field order is the key order on the
// wire.
type Status struct {
	Button      string      `json:"button"`
	Temperature json.Number `json:"temperature"`
}

// Status converts the reading into its wire form, with the temperature
// rounded to exactly two fractional digits.
func (r Reading) Status() Status {
	button := ButtonOff
	if r.Pressed {
		button = ButtonOn
	}
	return Status{
		Button:      button,
		Temperature: json.Number(strconv.FormatFloat(float64(r.TemperatureC), 'f', 2, 64)),
	}
}

// Payload returns the compact JSON published for this reading, e.g.
// {"button":"ON","temperature":23.40}.
func (r Reading) Payload() ([]byte, error) {
	return json.Marshal(r.Status())
}

// ParseStatus decodes a payload published by a node.
func ParseStatus(payload []byte) (Status, error) {
	var s Status
	if err := json.Unmarshal(payload, &s); err != nil {
		return Status{}, fmt.Errorf("decode status: %w", err)
	}
	if s.Button != ButtonOn && s.Button != ButtonOff {
		return Status{}, fmt.Errorf("decode status: unexpected button value %q", s.Button)
	}
	if _, err := s.Temperature.Float64(); err != nil {
		return Status{}, fmt.Errorf("decode status: temperature: %w", err)
	}
	return s, nil
}

// Pressed reports whether the status carries a pressed button.
func (s Status) Pressed() bool { return s.Button == ButtonOn }
