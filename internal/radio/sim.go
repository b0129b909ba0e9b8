package radio

import (
	"context"
	"fmt"
	"time"
)

// Sim is an in-process radio. It joins any network whose SSID is in
// Networks with the matching password, or any network when Networks is
// nil.
type Sim struct {
	FailInit bool
	Networks map[string]string

	// Calls records the operations in the order they were made.
	Calls []string
}

func (s *Sim) Init() error {
	s.Calls = append(s.Calls, "init")
	if s.FailInit {
		return fmt.Errorf("%w: simulated", ErrInit)
	}
	return nil
}

func (s *Sim) EnableStation() error {
	s.Calls = append(s.Calls, "station")
	return nil
}

func (s *Sim) Join(ctx context.Context, creds Credentials, timeout time.Duration) error {
	s.Calls = append(s.Calls, "join "+creds.SSID)
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrJoin, err)
	}
	if s.Networks == nil {
		return nil
	}
	psk, ok := s.Networks[creds.SSID]
	if !ok {
		return fmt.Errorf("%w: network %q not found within %s", ErrJoin, creds.SSID, timeout)
	}
	if creds.Auth == AuthWPA2PSK && psk != creds.Password {
		return fmt.Errorf("%w: bad credentials for %q", ErrJoin, creds.SSID)
	}
	return nil
}
