package config

import "time"

// Compiled-in configuration of a node.
const (
	WiFiSSID        = ""
	WiFiPassword    = ""
	WiFiAuth        = "wpa2-psk"
	WiFiJoinTimeout = 10 * time.Second

	MQTTBroker         = "broker.emqx.io"
	MQTTPort           = 1883
	MQTTTopic          = "embedded/status"
	MQTTClientID       = "pico-client"
	MQTTKeepAlive      = 60 * time.Second
	MQTTConnectTimeout = 10 * time.Second
	MQTTPublishTimeout = 2 * time.Second

	ButtonPin         = 5
	TempSensorChannel = 4

	PublishInterval = time.Second
	StartupDelay    = 2 * time.Second
)

// Default returns the compiled-in configuration.
func Default() Config {
	return Config{
		WiFi: WiFiConfig{
			SSID:        WiFiSSID,
			Password:    WiFiPassword,
			Auth:        WiFiAuth,
			JoinTimeout: WiFiJoinTimeout,
			Radio:       "sim",
		},
		MQTT: MQTTConfig{
			Broker:         MQTTBroker,
			Port:           MQTTPort,
			Topic:          MQTTTopic,
			ClientID:       MQTTClientID,
			KeepAlive:      MQTTKeepAlive,
			ConnectTimeout: MQTTConnectTimeout,
			PublishTimeout: MQTTPublishTimeout,
		},
		Button:      ButtonConfig{Pin: ButtonPin},
		Temperature: TemperatureConfig{Channel: TempSensorChannel},
		Hardware: HardwareConfig{
			Backend:       "sim",
			SerialPort:    "/dev/ttyACM0",
			Baud:          115200,
			SerialTimeout: time.Second,
			GPIOChip:      "gpiochip0",
		},
		Interval:     PublishInterval,
		StartupDelay: StartupDelay,
	}
}
