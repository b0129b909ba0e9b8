// Package config holds the node configuration. Every value has a
// compiled-in default; a YAML file may override them and a dotenv-format
// secrets file may supply the Wi-Fi credentials.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Keys read from the secrets file.
const (
	SecretSSID     = "WIFI_SSID"
	SecretPassword = "WIFI_PASSWORD"
)

// DefaultSearchPaths returns the config file search order used when no
// explicit path is given.
func DefaultSearchPaths() []string {
	return []string{"tempnode.yaml", "/etc/tempnode/tempnode.yaml"}
}

// FindConfig locates a config file. If explicit is non-empty, it must
// exist. Otherwise the first existing DefaultSearchPaths entry is
// returned, or "" when there is none.
func FindConfig(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}
	for _, p := range DefaultSearchPaths() {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", nil
}

type Config struct {
	WiFi        WiFiConfig        `yaml:"wifi"`
	MQTT        MQTTConfig        `yaml:"mqtt"`
	Button      ButtonConfig      `yaml:"button"`
	Temperature TemperatureConfig `yaml:"temperature"`
	Hardware    HardwareConfig    `yaml:"hardware"`

	// Interval is the sleep between loop iterations.
	Interval time.Duration `yaml:"interval"`
	// StartupDelay gives a serial console time to attach before the first
	// log line.
	StartupDelay time.Duration `yaml:"startup_delay"`
}

type WiFiConfig struct {
	SSID        string        `yaml:"ssid"`
	Password    string        `yaml:"password"`
	Auth        string        `yaml:"auth"` // open | wpa2-psk
	JoinTimeout time.Duration `yaml:"join_timeout"`
	SecretsFile string        `yaml:"secrets_file"`
	Radio       string        `yaml:"radio"` // sim | nmcli
	Iface       string        `yaml:"iface"`
}

type MQTTConfig struct {
	Broker         string        `yaml:"broker"`
	Port           int           `yaml:"port"`
	Topic          string        `yaml:"topic"`
	ClientID       string        `yaml:"client_id"`
	KeepAlive      time.Duration `yaml:"keep_alive"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
	PublishTimeout time.Duration `yaml:"publish_timeout"`
}

type ButtonConfig struct {
	Pin int `yaml:"pin"`
}

type TemperatureConfig struct {
	Channel int `yaml:"channel"`
}

type HardwareConfig struct {
	Backend       string        `yaml:"backend"` // sim | serial | linux
	SerialPort    string        `yaml:"serial_port"`
	Baud          int           `yaml:"baud"`
	SerialTimeout time.Duration `yaml:"serial_timeout"`
	GPIOChip      string        `yaml:"gpio_chip"`
	IIOPattern    string        `yaml:"iio_pattern"`
}

// Load returns the defaults overlaid with the YAML file at path (skipped
// when path is empty) and the secrets file, then validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.applySecrets(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applySecrets reads the Wi-Fi credentials from the secrets file. The
// file is parsed directly; the process environment is not consulted.
func (c *Config) applySecrets() error {
	if c.WiFi.SecretsFile == "" {
		return nil
	}
	secrets, err := godotenv.Read(c.WiFi.SecretsFile)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read secrets %s: %w", c.WiFi.SecretsFile, err)
	}
	if v, ok := secrets[SecretSSID]; ok {
		c.WiFi.SSID = v
	}
	if v, ok := secrets[SecretPassword]; ok {
		c.WiFi.Password = v
	}
	return nil
}

// Validate rejects configurations the node cannot start with.
func (c Config) Validate() error {
	switch {
	case c.MQTT.Broker == "":
		return errors.New("config: mqtt.broker is required")
	case c.MQTT.Port <= 0 || c.MQTT.Port > 65535:
		return fmt.Errorf("config: mqtt.port %d out of range", c.MQTT.Port)
	case c.MQTT.Topic == "":
		return errors.New("config: mqtt.topic is required")
	case c.MQTT.ClientID == "":
		return errors.New("config: mqtt.client_id is required")
	case c.MQTT.KeepAlive < time.Second:
		return fmt.Errorf("config: mqtt.keep_alive %s below 1s", c.MQTT.KeepAlive)
	case c.Interval <= 0:
		return fmt.Errorf("config: interval %s must be positive", c.Interval)
	case c.WiFi.JoinTimeout <= 0:
		return fmt.Errorf("config: wifi.join_timeout %s must be positive", c.WiFi.JoinTimeout)
	case c.Button.Pin < 0:
		return fmt.Errorf("config: button.pin %d is negative", c.Button.Pin)
	}
	return nil
}
