package radio

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Runner executes a command and returns its combined output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// NMCLI drives a Linux host's Wi-Fi through NetworkManager.
type NMCLI struct {
	// Iface pins the join to one device; empty lets NetworkManager choose.
	Iface string
	Run   Runner
}

func NewNMCLI(iface string) *NMCLI {
	return &NMCLI{Iface: iface, Run: execRunner}
}

func (n *NMCLI) nmcli(ctx context.Context, args ...string) error {
	out, err := n.Run(ctx, "nmcli", args...)
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg == "" {
			return err
		}
		return fmt.Errorf("%v: %s", err, msg)
	}
	return nil
}

// Init checks that NetworkManager answers.
func (n *NMCLI) Init() error {
	if err := n.nmcli(context.Background(), "-t", "general", "status"); err != nil {
		return fmt.Errorf("%w: %v", ErrInit, err)
	}
	return nil
}

func (n *NMCLI) EnableStation() error {
	if err := n.nmcli(context.Background(), "radio", "wifi", "on"); err != nil {
		return fmt.Errorf("enable station mode: %w", err)
	}
	return nil
}

func (n *NMCLI) Join(ctx context.Context, creds Credentials, timeout time.Duration) error {
	if creds.SSID == "" {
		return fmt.Errorf("%w: no network name configured", ErrJoin)
	}
	ctx, cancel := context.WithTimeout(ctx, timeout+time.Second)
	defer cancel()
	if err := n.nmcli(ctx, joinArgs(creds, n.Iface, timeout)...); err != nil {
		return fmt.Errorf("%w: %v", ErrJoin, err)
	}
	return nil
}

func joinArgs(creds Credentials, iface string, timeout time.Duration) []string {
	secs := int(timeout.Round(time.Second) / time.Second)
	if secs < 1 {
		secs = 1
	}
	args := []string{"--wait", strconv.Itoa(secs), "device", "wifi", "connect", creds.SSID}
	if creds.Auth == AuthWPA2PSK {
		args = append(args, "password", creds.Password)
	}
	if iface != "" {
		args = append(args, "ifname", iface)
	}
	return args
}
