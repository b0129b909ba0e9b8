package mqttclient

import (
	"errors"
	"fmt"
	"net/netip"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/minitrue/tempnode/internal/netstack"
	"github.com/minitrue/tempnode/internal/session"
)

const (
	DefaultConnectTimeout = 10 * time.Second
	DefaultPublishTimeout = 2 * time.Second
)

// Return codes paho reports for failures that never reached a CONNACK.
const (
	codeNetworkError      byte = 0xFE
	codeProtocolViolation byte = 0xFF
)

var ErrPublishTimeout = errors.New("publish timed out")

// Session is a session.Client on top of paho. It issues exactly one
// connect with automatic reconnection and connect retry disabled, and
// delivers every result through the stack so handlers run on the polling
// goroutine.
type Session struct {
	stack          *netstack.Stack
	connectTimeout time.Duration
	publishTimeout time.Duration

	mu  sync.Mutex
	raw mqtt.Client
}

func NewSession(stack *netstack.Stack, connectTimeout, publishTimeout time.Duration) *Session {
	if connectTimeout <= 0 {
		connectTimeout = DefaultConnectTimeout
	}
	if publishTimeout <= 0 {
		publishTimeout = DefaultPublishTimeout
	}
	return &Session{stack: stack, connectTimeout: connectTimeout, publishTimeout: publishTimeout}
}

// BrokerURL is the paho server URL of a resolved broker address.
func BrokerURL(addr netip.AddrPort) string {
	return "tcp://" + addr.String()
}

func (s *Session) clientOptions(addr netip.AddrPort, id session.Identity, onResult session.ResultFunc) *mqtt.ClientOptions {
	o := mqtt.NewClientOptions()
	o.AddBroker(BrokerURL(addr))
	o.SetClientID(id.ClientID)
	o.SetKeepAlive(id.KeepAlive)
	o.SetCleanSession(true)
	o.SetAutoReconnect(false)
	o.SetConnectRetry(false)
	o.SetConnectTimeout(s.connectTimeout)
	if id.Username != "" {
		o.SetUsername(id.Username)
		o.SetPassword(id.Password)
	}
	if id.Will != nil {
		o.SetBinaryWill(id.Will.Topic, id.Will.Payload, id.Will.QoS, id.Will.Retain)
	}
	o.SetConnectionLostHandler(func(_ mqtt.Client, _ error) {
		s.stack.Post(func() { onResult(session.StatusDisconnected) })
	})
	return o
}

func (s *Session) Connect(addr netip.AddrPort, id session.Identity, onResult session.ResultFunc) error {
	if !addr.IsValid() {
		return fmt.Errorf("invalid broker address %v", addr)
	}
	s.mu.Lock()
	if s.raw != nil {
		s.mu.Unlock()
		return session.ErrConnectIssued
	}
	c := mqtt.NewClient(s.clientOptions(addr, id, onResult))
	s.raw = c
	s.mu.Unlock()

	token := c.Connect()
	go func() {
		done := token.WaitTimeout(s.connectTimeout + time.Second)
		code := codeNetworkError
		if ct, ok := token.(*mqtt.ConnectToken); ok {
			code = ct.ReturnCode()
		}
		status := statusFor(done, code, token.Error())
		s.stack.Post(func() { onResult(status) })
	}()
	return nil
}

// statusFor maps a finished (or abandoned) connect token to a status.
func statusFor(done bool, code byte, err error) session.Status {
	switch {
	case !done:
		return session.StatusTimeout
	case code == codeNetworkError || code == codeProtocolViolation:
		return session.StatusDisconnected
	case code == 0 && err != nil:
		return session.StatusDisconnected
	}
	return session.Status(code)
}

func (s *Session) Publish(topic string, payload []byte) error {
	s.mu.Lock()
	c := s.raw
	s.mu.Unlock()
	if c == nil || !c.IsConnectionOpen() {
		return session.ErrNotConnected
	}
	token := c.Publish(topic, QosAtMostOnce, false, payload)
	if !token.WaitTimeout(s.publishTimeout) {
		return ErrPublishTimeout
	}
	return token.Error()
}

// Close disconnects, waiting up to quiesce for in-flight work.
func (s *Session) Close(quiesce time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.raw != nil && s.raw.IsConnected() {
		s.raw.Disconnect(uint(quiesce / time.Millisecond))
	}
}
