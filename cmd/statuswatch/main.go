package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/minitrue/tempnode/internal/config"
	"github.com/minitrue/tempnode/internal/monitor"
	"github.com/minitrue/tempnode/internal/mqttclient"
)

func main() {
	broker := flag.String("broker", fmt.Sprintf("tcp://%s:%d", config.MQTTBroker, config.MQTTPort), "MQTT broker URL")
	topic := flag.String("topic", config.MQTTTopic, "status topic to watch")
	wsAddr := flag.String("ws", "", "serve a websocket live feed on this address (e.g. :8081)")
	flag.Parse()

	logger := log.New(os.Stdout, "", log.LstdFlags)

	mqttc, err := mqttclient.New(mqttclient.Options{
		BrokerURL: *broker,
		ClientID:  fmt.Sprintf("statuswatch-%d", time.Now().UnixNano()),
	})
	if err != nil {
		log.Fatalf("mqtt connect: %v", err)
	}
	defer mqttc.Close()

	var hub *monitor.Hub
	if *wsAddr != "" {
		hub = monitor.NewHub(logger)
		go hub.Run()
		defer hub.Close()

		mux := http.NewServeMux()
		mux.Handle("/ws", hub)
		go func() {
			logger.Printf("[websocket] live feed on %s/ws", *wsAddr)
			if err := http.ListenAndServe(*wsAddr, mux); err != nil {
				logger.Printf("[websocket] server stopped: %v", err)
			}
		}()
	}

	svc := monitor.New(mqttc, *topic, hub, logger)
	if err := svc.Start(); err != nil {
		log.Fatalf("subscribe %s: %v", *topic, err)
	}

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c
	logger.Println("Shutting down...")
}
