// Package serialboard drives a microcontroller that exposes its button and
// temperature ADC over a line-based serial protocol:
//
//	P<pin>\n  -> OK       configure pin as input with pull-up
//	E<ch>\n   -> OK       enable the ADC and the temperature channel
//	G<pin>\n  -> 0|1      read the pin level
//	A<ch>\n   -> <raw>    read one 12-bit conversion
//
// Any other answer starting with "ERR" is reported as an error.
package serialboard

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/minitrue/tempnode/internal/hal"
)

var ErrProtocol = errors.New("serialboard: protocol error")

// Board implements hal.Board over any byte stream; Open attaches it to a
// serial port.
type Board struct {
	mu     sync.Mutex
	port   io.ReadWriteCloser
	r      *bufio.Reader
	closed bool
}

func New(port io.ReadWriteCloser) *Board {
	return &Board{port: port, r: bufio.NewReader(port)}
}

// exchange sends one command and returns the trimmed answer line.
func (b *Board) exchange(cmd string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return "", hal.ErrClosed
	}
	if _, err := io.WriteString(b.port, cmd+"\n"); err != nil {
		return "", fmt.Errorf("serialboard: write %q: %w", cmd, err)
	}
	line, err := b.r.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("serialboard: read answer to %q: %w", cmd, err)
	}
	line = strings.TrimSpace(line)
	if strings.HasPrefix(line, "ERR") {
		return "", fmt.Errorf("%w: %q answered %q", ErrProtocol, cmd, line)
	}
	return line, nil
}

func (b *Board) expectOK(cmd string) error {
	ans, err := b.exchange(cmd)
	if err != nil {
		return err
	}
	if ans != "OK" {
		return fmt.Errorf("%w: %q answered %q", ErrProtocol, cmd, ans)
	}
	return nil
}

func (b *Board) Button(pin int) (hal.DigitalInput, error) {
	if err := b.expectOK("P" + strconv.Itoa(pin)); err != nil {
		return nil, err
	}
	return pinInput{b: b, cmd: "G" + strconv.Itoa(pin)}, nil
}

func (b *Board) TempSensor(channel int) (hal.AnalogInput, error) {
	if err := b.expectOK("E" + strconv.Itoa(channel)); err != nil {
		return nil, err
	}
	return adcInput{b: b, cmd: "A" + strconv.Itoa(channel)}, nil
}

func (b *Board) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	return b.port.Close()
}

type pinInput struct {
	b   *Board
	cmd string
}

func (p pinInput) Level() (bool, error) {
	ans, err := p.b.exchange(p.cmd)
	if err != nil {
		return false, err
	}
	switch ans {
	case "0":
		return false, nil
	case "1":
		return true, nil
	}
	return false, fmt.Errorf("%w: level %q", ErrProtocol, ans)
}

type adcInput struct {
	b   *Board
	cmd string
}

func (a adcInput) Sample() (uint16, error) {
	ans, err := a.b.exchange(a.cmd)
	if err != nil {
		return 0, err
	}
	raw, err := strconv.ParseUint(ans, 10, 16)
	if err != nil || raw > 0x0fff {
		return 0, fmt.Errorf("%w: raw sample %q", ErrProtocol, ans)
	}
	return uint16(raw), nil
}
