package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayloadPressed(t *testing.T) {
	b, err := Reading{Pressed: true, TemperatureC: 23.4}.Payload()
	require.NoError(t, err)
	assert.Equal(t, `{"button":"ON","temperature":23.40}`, string(b))
}

func TestPayloadReleasedNegative(t *testing.T) {
	b, err := Reading{Pressed: false, TemperatureC: -1.0}.Payload()
	require.NoError(t, err)
	assert.Equal(t, `{"button":"OFF","temperature":-1.00}`, string(b))
}

func TestPayloadRounding(t *testing.T) {
	b, err := Reading{TemperatureC: 27.138431}.Payload()
	require.NoError(t, err)
	assert.Equal(t, `{"button":"OFF","temperature":27.14}`, string(b))
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus([]byte(`{"button":"ON","temperature":23.45}`))
	require.NoError(t, err)
	assert.True(t, s.Pressed())

	v, err := s.Temperature.Float64()
	require.NoError(t, err)
	assert.InDelta(t, 23.45, v, 1e-9)
}

func TestParseStatusRejectsGarbage(t *testing.T) {
	cases := []string{
		`not json`,
		`{"button":"MAYBE","temperature":1.00}`,
		`{"button":"ON","temperature":"warm"}`,
	}
	for _, c := range cases {
		_, err := ParseStatus([]byte(c))
		assert.Error(t, err, c)
	}
}
