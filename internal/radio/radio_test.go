package radio

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAuthMode(t *testing.T) {
	m, err := ParseAuthMode("")
	require.NoError(t, err)
	assert.Equal(t, AuthWPA2PSK, m)

	m, err = ParseAuthMode("open")
	require.NoError(t, err)
	assert.Equal(t, AuthOpen, m)

	_, err = ParseAuthMode("wep")
	assert.Error(t, err)
}

func TestSimJoin(t *testing.T) {
	s := &Sim{Networks: map[string]string{"lab": "secret"}}
	ctx := context.Background()

	require.NoError(t, s.Init())
	require.NoError(t, s.EnableStation())
	assert.NoError(t, s.Join(ctx, Credentials{SSID: "lab", Password: "secret", Auth: AuthWPA2PSK}, time.Second))
	assert.ErrorIs(t, s.Join(ctx, Credentials{SSID: "lab", Password: "nope", Auth: AuthWPA2PSK}, time.Second), ErrJoin)
	assert.ErrorIs(t, s.Join(ctx, Credentials{SSID: "elsewhere"}, time.Second), ErrJoin)
	assert.Equal(t, []string{"init", "station", "join lab", "join lab", "join elsewhere"}, s.Calls)
}

func TestSimFailInit(t *testing.T) {
	s := &Sim{FailInit: true}
	assert.ErrorIs(t, s.Init(), ErrInit)
}

type recorder struct {
	calls [][]string
	fail  map[string]bool
}

func (r *recorder) run(_ context.Context, name string, args ...string) ([]byte, error) {
	r.calls = append(r.calls, append([]string{name}, args...))
	for _, a := range args {
		if r.fail[a] {
			return []byte("Error: No network with SSID found.\n"), errors.New("exit status 10")
		}
	}
	return nil, nil
}

func TestNMCLIJoinArgs(t *testing.T) {
	r := &recorder{}
	n := &NMCLI{Iface: "wlan0", Run: r.run}

	require.NoError(t, n.Init())
	require.NoError(t, n.EnableStation())
	require.NoError(t, n.Join(context.Background(), Credentials{SSID: "lab", Password: "secret", Auth: AuthWPA2PSK}, DefaultJoinTimeout))

	require.Len(t, r.calls, 3)
	assert.Equal(t, []string{"nmcli", "-t", "general", "status"}, r.calls[0])
	assert.Equal(t, []string{"nmcli", "radio", "wifi", "on"}, r.calls[1])
	assert.Equal(t, []string{"nmcli", "--wait", "10", "device", "wifi", "connect", "lab", "password", "secret", "ifname", "wlan0"}, r.calls[2])
}

func TestNMCLIOpenNetworkHasNoPassword(t *testing.T) {
	args := joinArgs(Credentials{SSID: "cafe", Auth: AuthOpen}, "", 500*time.Millisecond)
	assert.Equal(t, []string{"--wait", "1", "device", "wifi", "connect", "cafe"}, args)
}

func TestNMCLIJoinFailure(t *testing.T) {
	r := &recorder{fail: map[string]bool{"ghost": true}}
	n := &NMCLI{Run: r.run}

	err := n.Join(context.Background(), Credentials{SSID: "ghost"}, time.Second)
	assert.ErrorIs(t, err, ErrJoin)
	assert.Contains(t, err.Error(), "No network with SSID found")
}

func TestNMCLIJoinWithoutSSID(t *testing.T) {
	r := &recorder{}
	n := &NMCLI{Run: r.run}

	assert.ErrorIs(t, n.Join(context.Background(), Credentials{}, time.Second), ErrJoin)
	assert.Empty(t, r.calls)
}

func TestNMCLIInitFailure(t *testing.T) {
	n := &NMCLI{Run: func(context.Context, string, ...string) ([]byte, error) {
		return nil, errors.New("executable file not found")
	}}
	assert.ErrorIs(t, n.Init(), ErrInit)
}
