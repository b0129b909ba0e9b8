// Package radio brings up the wireless link of the node: initialise the
// radio, switch it to station mode and join one network. There is a
// single join attempt bounded by a timeout; callers decide what a failure
// means.
package radio

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DefaultJoinTimeout bounds one join attempt.
const DefaultJoinTimeout = 10 * time.Second

var (
	ErrInit = errors.New("radio init failed")
	ErrJoin = errors.New("join failed")
)

// AuthMode is the authentication the network expects.
type AuthMode int

const (
	AuthOpen AuthMode = iota
	AuthWPA2PSK
)

func (a AuthMode) String() string {
	switch a {
	case AuthOpen:
		return "open"
	case AuthWPA2PSK:
		return "wpa2-psk"
	}
	return fmt.Sprintf("auth(%d)", int(a))
}

// ParseAuthMode accepts the names printed by AuthMode.String.
func ParseAuthMode(s string) (AuthMode, error) {
	switch s {
	case "open":
		return AuthOpen, nil
	case "", "wpa2-psk", "wpa2":
		return AuthWPA2PSK, nil
	}
	return 0, fmt.Errorf("unknown auth mode %q", s)
}

// Credentials names a network and its pre-shared key.
type Credentials struct {
	SSID     string
	Password string
	Auth     AuthMode
}

// Radio is the wireless interface of the node.
type Radio interface {
	Init() error
	EnableStation() error
	// Join blocks until the network is joined, timeout elapses or ctx is
	// done.
	Join(ctx context.Context, creds Credentials, timeout time.Duration) error
}
