package session

import (
	"bytes"
	"errors"
	"log"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClient struct {
	connects   []netip.AddrPort
	identities []Identity
	onResult   ResultFunc
	connectErr error
	published  [][]byte
}

func (f *fakeClient) Connect(addr netip.AddrPort, id Identity, onResult ResultFunc) error {
	f.connects = append(f.connects, addr)
	f.identities = append(f.identities, id)
	f.onResult = onResult
	return f.connectErr
}

func (f *fakeClient) Publish(topic string, payload []byte) error {
	f.published = append(f.published, payload)
	return nil
}

func newManager(c Client) (*Manager, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewManager(c, log.New(&buf, "", 0)), &buf
}

var brokerAddr = netip.MustParseAddrPort("198.51.100.4:1883")

func TestManagerAccepted(t *testing.T) {
	c := &fakeClient{}
	m, logs := newManager(c)
	assert.Equal(t, Disconnected, m.State())

	require.NoError(t, m.Connect(brokerAddr, DefaultIdentity("pico-client")))
	assert.Equal(t, Pending, m.State())
	assert.False(t, m.Connected())

	c.onResult(StatusAccepted)
	assert.Equal(t, Connected, m.State())
	assert.True(t, m.Connected())
	assert.Contains(t, logs.String(), "[MQTT] Connected to broker!")

	require.NoError(t, m.Publish("embedded/status", []byte("x")))
	assert.Len(t, c.published, 1)

	id := c.identities[0]
	assert.Equal(t, "pico-client", id.ClientID)
	assert.Equal(t, 60.0, id.KeepAlive.Seconds())
	assert.Empty(t, id.Username)
	assert.Nil(t, id.Will)
}

func TestManagerRefusedLogsCode(t *testing.T) {
	c := &fakeClient{}
	m, logs := newManager(c)

	require.NoError(t, m.Connect(brokerAddr, DefaultIdentity("pico-client")))
	c.onResult(StatusRefusedNotAuthorized)

	assert.Equal(t, Disconnected, m.State())
	assert.Contains(t, logs.String(), "Code: 5")
	status, ok := m.LastStatus()
	assert.True(t, ok)
	assert.Equal(t, StatusRefusedNotAuthorized, status)
}

func TestManagerNeverReconnects(t *testing.T) {
	c := &fakeClient{}
	m, _ := newManager(c)

	require.NoError(t, m.Connect(brokerAddr, DefaultIdentity("pico-client")))
	c.onResult(StatusAccepted)
	c.onResult(StatusDisconnected)

	assert.False(t, m.Connected())
	assert.ErrorIs(t, m.Publish("embedded/status", []byte("x")), ErrNotConnected)
	assert.ErrorIs(t, m.Connect(brokerAddr, DefaultIdentity("pico-client")), ErrConnectIssued)
	assert.Len(t, c.connects, 1)
}

func TestManagerPublishGated(t *testing.T) {
	c := &fakeClient{}
	m, _ := newManager(c)

	assert.ErrorIs(t, m.Publish("t", nil), ErrNotConnected)
	require.NoError(t, m.Connect(brokerAddr, DefaultIdentity("pico-client")))
	assert.ErrorIs(t, m.Publish("t", nil), ErrNotConnected)
	assert.Empty(t, c.published)
}

func TestManagerConnectError(t *testing.T) {
	c := &fakeClient{connectErr: errors.New("no route")}
	m, _ := newManager(c)

	err := m.Connect(brokerAddr, DefaultIdentity("pico-client"))
	assert.Error(t, err)
	assert.Equal(t, Disconnected, m.State())
	_, ok := m.LastStatus()
	assert.False(t, ok)
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "accepted", StatusAccepted.String())
	assert.Equal(t, "disconnected", StatusDisconnected.String())
	assert.Equal(t, "status 42", Status(42).String())
}
