package serialboard

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/minitrue/tempnode/internal/hal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedPort answers each written command line from a fixed table.
type scriptedPort struct {
	answers map[string]string
	sent    []string
	out     bytes.Buffer
	closed  bool
}

func (p *scriptedPort) Write(b []byte) (int, error) {
	cmd := strings.TrimSuffix(string(b), "\n")
	p.sent = append(p.sent, cmd)
	ans, ok := p.answers[cmd]
	if !ok {
		ans = "ERR unknown"
	}
	p.out.WriteString(ans + "\n")
	return len(b), nil
}

func (p *scriptedPort) Read(b []byte) (int, error) {
	if p.out.Len() == 0 {
		return 0, io.EOF
	}
	return p.out.Read(b)
}

func (p *scriptedPort) Close() error {
	p.closed = true
	return nil
}

func TestBoardBootstrapAndSample(t *testing.T) {
	port := &scriptedPort{answers: map[string]string{
		"P5": "OK",
		"E4": "OK",
		"G5": "0",
		"A4": "2010",
	}}
	b := New(port)

	btn, err := b.Button(5)
	require.NoError(t, err)
	temp, err := b.TempSensor(hal.TempSensorChannel)
	require.NoError(t, err)

	level, err := btn.Level()
	require.NoError(t, err)
	assert.False(t, level)

	raw, err := temp.Sample()
	require.NoError(t, err)
	assert.Equal(t, uint16(2010), raw)

	assert.Equal(t, []string{"P5", "E4", "G5", "A4"}, port.sent)
}

func TestBoardErrorAnswer(t *testing.T) {
	b := New(&scriptedPort{answers: map[string]string{}})

	_, err := b.Button(5)
	assert.ErrorIs(t, err, ErrProtocol)
}

func TestBoardRejectsOutOfRangeSample(t *testing.T) {
	port := &scriptedPort{answers: map[string]string{"E4": "OK", "A4": "5000"}}
	temp, err := New(port).TempSensor(4)
	require.NoError(t, err)

	_, err = temp.Sample()
	assert.ErrorIs(t, err, ErrProtocol)
}

func TestBoardBadLevel(t *testing.T) {
	port := &scriptedPort{answers: map[string]string{"P5": "OK", "G5": "x"}}
	btn, err := New(port).Button(5)
	require.NoError(t, err)

	_, err = btn.Level()
	assert.ErrorIs(t, err, ErrProtocol)
}

func TestBoardClose(t *testing.T) {
	port := &scriptedPort{answers: map[string]string{"P5": "OK"}}
	b := New(port)
	btn, err := b.Button(5)
	require.NoError(t, err)

	require.NoError(t, b.Close())
	assert.True(t, port.closed)

	_, err = btn.Level()
	assert.ErrorIs(t, err, hal.ErrClosed)
	assert.NoError(t, b.Close())
}
