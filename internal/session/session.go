// Package session owns the node's single broker session and the
// connection state that gates publishing.
package session

import (
	"errors"
	"fmt"
	"log"
	"net/netip"
	"time"
)

// DefaultPort is the unencrypted MQTT port.
const DefaultPort = 1883

var (
	ErrNotConnected  = errors.New("session not connected")
	ErrConnectIssued = errors.New("session connect already issued")
)

// Status is the outcome of a connect request, as reported by the broker
// (CONNACK return codes) or by the client itself.
type Status int

const (
	StatusAccepted                 Status = 0
	StatusRefusedProtocolVersion   Status = 1
	StatusRefusedIdentifier        Status = 2
	StatusRefusedServerUnavailable Status = 3
	StatusRefusedBadCredentials    Status = 4
	StatusRefusedNotAuthorized     Status = 5
	StatusDisconnected             Status = 256
	StatusTimeout                  Status = 257
)

func (s Status) String() string {
	switch s {
	case StatusAccepted:
		return "accepted"
	case StatusRefusedProtocolVersion:
		return "refused: protocol version"
	case StatusRefusedIdentifier:
		return "refused: identifier"
	case StatusRefusedServerUnavailable:
		return "refused: server unavailable"
	case StatusRefusedBadCredentials:
		return "refused: bad username or password"
	case StatusRefusedNotAuthorized:
		return "refused: not authorized"
	case StatusDisconnected:
		return "disconnected"
	case StatusTimeout:
		return "timeout"
	}
	return fmt.Sprintf("status %d", int(s))
}

// State of the session.
type State int

const (
	Disconnected State = iota
	Pending
	Connected
)

func (s State) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Pending:
		return "pending"
	case Connected:
		return "connected"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Will is a last-will message. Nodes connect without one.
type Will struct {
	Topic   string
	Payload []byte
	QoS     byte
	Retain  bool
}

// Identity describes the client to the broker.
type Identity struct {
	ClientID  string
	KeepAlive time.Duration
	Username  string
	Password  string
	Will      *Will
}

// DefaultIdentity is the fixed client identity of a node: 60 s keep-alive,
// no credentials, no will.
func DefaultIdentity(clientID string) Identity {
	return Identity{ClientID: clientID, KeepAlive: 60 * time.Second}
}

// ResultFunc receives connection results. Clients must deliver it on the
// goroutine that polls the node, never concurrently.
type ResultFunc func(Status)

// Client is the broker transport behind a session.
type Client interface {
	// Connect issues one connect request. onResult is called once with the
	// outcome and again with StatusDisconnected if an accepted session is
	// later lost.
	Connect(addr netip.AddrPort, id Identity, onResult ResultFunc) error
	// Publish sends payload at QoS 0 without the retain flag.
	Publish(topic string, payload []byte) error
}

// Manager holds the session handle and its state. It is not safe for
// concurrent use; callbacks arrive on the polling goroutine.
type Manager struct {
	client Client
	state  State
	last   Status
	log    *log.Logger
}

func NewManager(client Client, logger *log.Logger) *Manager {
	return &Manager{client: client, state: Disconnected, last: -1, log: logger}
}

// Connect moves the session to Pending and issues the connect request.
// Only a Disconnected session that has never connected may connect:
// a lost session stays down until the process restarts.
func (m *Manager) Connect(addr netip.AddrPort, id Identity) error {
	if m.state != Disconnected || m.last >= 0 {
		return ErrConnectIssued
	}
	m.log.Printf("[MQTT] Connecting to broker %s...", addr)
	m.state = Pending
	if err := m.client.Connect(addr, id, m.onConnection); err != nil {
		m.state = Disconnected
		return fmt.Errorf("mqtt connect %s: %w", addr, err)
	}
	return nil
}

func (m *Manager) onConnection(status Status) {
	m.last = status
	if status == StatusAccepted {
		m.state = Connected
		m.log.Println("[MQTT] Connected to broker!")
		return
	}
	m.state = Disconnected
	m.log.Printf("[MQTT] MQTT connection failed. Code: %d (%s)", int(status), status)
}

// Publish sends payload on topic. It refuses without touching the client
// unless the session is Connected.
func (m *Manager) Publish(topic string, payload []byte) error {
	if m.state != Connected {
		return ErrNotConnected
	}
	return m.client.Publish(topic, payload)
}

func (m *Manager) State() State { return m.state }

func (m *Manager) Connected() bool { return m.state == Connected }

// LastStatus returns the most recent connection result and whether one has
// been delivered.
func (m *Manager) LastStatus() (Status, bool) { return m.last, m.last >= 0 }
