// Package node runs a sensor node: a linear startup (radio, join,
// peripherals, broker lookup, session connect) followed by a fixed-period
// sense-and-publish loop.
//
// All node state lives in Node and is touched only by the goroutine that
// calls Start, Step and Run. Asynchronous results reach it through the
// netstack poll at the top of every Step.
package node

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/netip"
	"time"

	"github.com/minitrue/tempnode/internal/config"
	"github.com/minitrue/tempnode/internal/hal"
	"github.com/minitrue/tempnode/internal/locator"
	"github.com/minitrue/tempnode/internal/netstack"
	"github.com/minitrue/tempnode/internal/radio"
	"github.com/minitrue/tempnode/internal/sensor"
	"github.com/minitrue/tempnode/internal/session"
)

var ErrPeripheral = errors.New("peripheral init failed")

// SleepFunc waits d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Deps are the collaborators of a Node. Stack must be the stack Locator
// and Client deliver their callbacks through.
type Deps struct {
	Radio   radio.Radio
	Board   hal.Board
	Stack   *netstack.Stack
	Locator *locator.Locator
	Client  session.Client
	Logger  *log.Logger
	// Sleep defaults to a context-aware timer.
	Sleep SleepFunc
}

// Stats counts loop outcomes since New.
type Stats struct {
	Iterations    uint64
	Published     uint64
	Skipped       uint64
	PublishErrors uint64
	SampleErrors  uint64
}

type Node struct {
	cfg     config.Config
	radio   radio.Radio
	board   hal.Board
	stack   *netstack.Stack
	locator *locator.Locator
	session *session.Manager
	log     *log.Logger
	sleep   SleepFunc

	sampler    sensor.Sampler
	brokerAddr netip.Addr
	stats      Stats
}

func New(cfg config.Config, d Deps) *Node {
	if d.Sleep == nil {
		d.Sleep = sleepContext
	}
	return &Node{
		cfg:     cfg,
		radio:   d.Radio,
		board:   d.Board,
		stack:   d.Stack,
		locator: d.Locator,
		session: session.NewManager(d.Client, d.Logger),
		log:     d.Logger,
		sleep:   d.Sleep,
	}
}

// Start runs the startup sequence. Any error it returns is fatal: the
// steps after the failing one have not run.
func (n *Node) Start(ctx context.Context) error {
	n.log.Println("=== Starting MQTT Button + Temperature ===")

	if err := n.radio.Init(); err != nil {
		n.log.Println("Wi-Fi initialization error")
		return wrap(radio.ErrInit, err)
	}
	if err := n.radio.EnableStation(); err != nil {
		n.log.Println("Wi-Fi initialization error")
		return wrap(radio.ErrInit, err)
	}

	n.log.Println("[Wi-Fi] Connecting...")
	auth, err := radio.ParseAuthMode(n.cfg.WiFi.Auth)
	if err != nil {
		return wrap(radio.ErrJoin, err)
	}
	creds := radio.Credentials{SSID: n.cfg.WiFi.SSID, Password: n.cfg.WiFi.Password, Auth: auth}
	if err := n.radio.Join(ctx, creds, n.cfg.WiFi.JoinTimeout); err != nil {
		n.log.Println("[Wi-Fi] Failed to connect to Wi-Fi")
		return wrap(radio.ErrJoin, err)
	}
	n.log.Println("[Wi-Fi] Connected successfully!")

	button, err := n.board.Button(n.cfg.Button.Pin)
	if err != nil {
		return fmt.Errorf("%w: button on pin %d: %v", ErrPeripheral, n.cfg.Button.Pin, err)
	}
	temp, err := n.board.TempSensor(n.cfg.Temperature.Channel)
	if err != nil {
		return fmt.Errorf("%w: temperature channel %d: %v", ErrPeripheral, n.cfg.Temperature.Channel, err)
	}
	n.sampler = sensor.Sampler{Button: button, Temp: temp}

	host := n.cfg.MQTT.Broker
	addr, err := n.locator.Resolve(ctx, host, n.onResolved)
	switch {
	case err == nil:
		n.onResolved(host, addr, true)
	case errors.Is(err, locator.ErrInProgress):
		n.log.Println("[DNS] Resolving...")
	default:
		n.log.Printf("[DNS] DNS resolution error: %v", err)
		return err
	}
	return nil
}

// wrap makes sure err matches kind with errors.Is.
func wrap(kind, err error) error {
	if errors.Is(err, kind) {
		return err
	}
	return fmt.Errorf("%w: %v", kind, err)
}

// onResolved takes the broker address and initiates the session connect.
// A failed lookup leaves the node without a session; it is not retried.
func (n *Node) onResolved(host string, addr netip.Addr, ok bool) {
	if !ok {
		n.log.Printf("[DNS] Failed to resolve DNS for %s", host)
		return
	}
	n.brokerAddr = addr
	n.log.Printf("[DNS] Resolved: %s -> %s", host, addr)

	id := session.DefaultIdentity(n.cfg.MQTT.ClientID)
	id.KeepAlive = n.cfg.MQTT.KeepAlive
	target := netip.AddrPortFrom(addr, uint16(n.cfg.MQTT.Port))
	if err := n.session.Connect(target, id); err != nil {
		n.log.Printf("[MQTT] %v", err)
	}
}

// Step runs one loop iteration, without the sleep: poll the stack, sample
// both inputs, log the temperature and publish when connected.
func (n *Node) Step() {
	n.stats.Iterations++
	n.stack.Poll()

	r, err := n.sampler.Sample()
	if err != nil {
		n.stats.SampleErrors++
		n.log.Printf("[SENSE] %v", err)
		return
	}
	n.log.Printf("[TEMP] Current temperature: %.2f °C", r.TemperatureC)

	if !n.session.Connected() {
		n.stats.Skipped++
		n.log.Println("[MQTT] Not connected, skipping publish")
		return
	}
	payload, err := r.Payload()
	if err != nil {
		n.stats.PublishErrors++
		n.log.Printf("[MQTT] Publish error: %v", err)
		return
	}
	n.log.Printf("[MQTT] Publishing: topic='%s', message='%s'", n.cfg.MQTT.Topic, payload)
	if err := n.session.Publish(n.cfg.MQTT.Topic, payload); err != nil {
		n.stats.PublishErrors++
		n.log.Printf("[MQTT] Publish error: %v", err)
		return
	}
	n.stats.Published++
	n.log.Println("[MQTT] Publish successful")
}

// Run starts the node and loops until ctx is done. It returns a non-nil
// error only when startup fails.
func (n *Node) Run(ctx context.Context) error {
	if err := n.sleep(ctx, n.cfg.StartupDelay); err != nil {
		return nil
	}
	if err := n.Start(ctx); err != nil {
		return err
	}
	for {
		n.Step()
		if err := n.sleep(ctx, n.cfg.Interval); err != nil {
			return nil
		}
	}
}

func (n *Node) State() session.State { return n.session.State() }

// BrokerAddr returns the resolved broker address, or the zero Addr before
// resolution succeeded.
func (n *Node) BrokerAddr() netip.Addr { return n.brokerAddr }

func (n *Node) Stats() Stats { return n.stats }
