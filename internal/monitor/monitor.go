// Package monitor is the receiving side of the node's status topic. It
// decodes every payload, logs it and fans it out to websocket clients.
package monitor

import (
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/minitrue/tempnode/internal/models"
)

// Subscriber is satisfied by *mqttclient.Client.
type Subscriber interface {
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
}

// Event is one decoded status message.
type Event struct {
	Topic       string    `json:"topic"`
	Button      string    `json:"button"`
	Temperature float64   `json:"temperature"`
	ReceivedAt  time.Time `json:"received_at"`
}

type Service struct {
	sub   Subscriber
	topic string
	hub   *Hub
	log   *log.Logger
	now   func() time.Time

	received uint64
	rejected uint64
}

// New returns a Service for topic. hub may be nil.
func New(sub Subscriber, topic string, hub *Hub, logger *log.Logger) *Service {
	return &Service{sub: sub, topic: topic, hub: hub, log: logger, now: time.Now}
}

func (s *Service) Start() error {
	s.log.Printf("[monitor] subscribing to %s", s.topic)
	if err := s.sub.Subscribe(s.topic, 0, s.handle); err != nil {
		return err
	}
	s.log.Printf("[monitor] listening for status on %s", s.topic)
	return nil
}

func (s *Service) handle(_ mqtt.Client, msg mqtt.Message) {
	st, err := models.ParseStatus(msg.Payload())
	if err != nil {
		s.rejected++
		s.log.Printf("[monitor] %v payload=%s", err, string(msg.Payload()))
		return
	}
	s.received++
	temp, _ := st.Temperature.Float64()
	s.log.Printf("[monitor] %s button=%s temperature=%s", msg.Topic(), st.Button, st.Temperature)
	if s.hub != nil {
		s.hub.Broadcast(Event{
			Topic:       msg.Topic(),
			Button:      st.Button,
			Temperature: temp,
			ReceivedAt:  s.now(),
		})
	}
}
