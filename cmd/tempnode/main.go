package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/minitrue/tempnode/internal/config"
	"github.com/minitrue/tempnode/internal/hal"
	"github.com/minitrue/tempnode/internal/hal/serialboard"
	"github.com/minitrue/tempnode/internal/hal/sim"
	"github.com/minitrue/tempnode/internal/locator"
	"github.com/minitrue/tempnode/internal/mqttclient"
	"github.com/minitrue/tempnode/internal/netstack"
	"github.com/minitrue/tempnode/internal/node"
	"github.com/minitrue/tempnode/internal/radio"
)

func openBoard(hw config.HardwareConfig) (hal.Board, error) {
	switch hw.Backend {
	case "sim":
		return sim.New(), nil
	case "serial":
		b, err := serialboard.Open(hw.SerialPort, hw.Baud, hw.SerialTimeout)
		if err != nil {
			return nil, err
		}
		return b, nil
	case "linux":
		return openLinuxBoard(hw)
	}
	return nil, fmt.Errorf("unknown hardware backend %q (must be: sim, serial or linux)", hw.Backend)
}

func openRadio(wifi config.WiFiConfig) (radio.Radio, error) {
	switch wifi.Radio {
	case "sim":
		return &radio.Sim{}, nil
	case "nmcli":
		return radio.NewNMCLI(wifi.Iface), nil
	}
	return nil, fmt.Errorf("unknown radio %q (must be: sim or nmcli)", wifi.Radio)
}

func main() {
	configPath := flag.String("config", "", "YAML config file (default: ./tempnode.yaml, /etc/tempnode/tempnode.yaml)")
	backend := flag.String("backend", "", "hardware backend: sim | serial | linux")
	radioKind := flag.String("radio", "", "radio: sim | nmcli")
	flag.Parse()

	logger := log.New(os.Stdout, "", log.LstdFlags)

	path, err := config.FindConfig(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *backend != "" {
		cfg.Hardware.Backend = *backend
	}
	if *radioKind != "" {
		cfg.WiFi.Radio = *radioKind
	}

	board, err := openBoard(cfg.Hardware)
	if err != nil {
		log.Fatalf("hardware: %v", err)
	}
	defer board.Close()

	rad, err := openRadio(cfg.WiFi)
	if err != nil {
		log.Fatalf("radio: %v", err)
	}

	stack := netstack.New(netstack.DefaultDepth)
	sess := mqttclient.NewSession(stack, cfg.MQTT.ConnectTimeout, cfg.MQTT.PublishTimeout)
	defer sess.Close(250 * time.Millisecond)

	n := node.New(cfg, node.Deps{
		Radio:   rad,
		Board:   board,
		Stack:   stack,
		Locator: locator.New(stack, nil, locator.DefaultTimeout),
		Client:  sess,
		Logger:  logger,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := n.Run(ctx); err != nil {
		board.Close()
		log.Fatalf("startup: %v", err)
	}
	logger.Println("Shutting down...")
}
